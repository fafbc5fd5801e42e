package catalog

import (
	"strings"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Badge       string   `json:"badge,omitempty" yaml:"badge,omitempty"`
	Features    []string `json:"features" yaml:"features"`
}

type Issue struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

var products = []Product{
	{
		ID:          "pattern_self",
		Title:       "Why do I repeat the same patterns?",
		Price:       14.99,
		Description: "Analyze your inner patterns & outer impressions.",
		Features:    []string{"Self-Analysis", "Inner Pattern (Saju)", "Outer Impression (Face)", "Conflict Origins"},
	},
	{
		ID:          "relationship_check",
		Title:       "Is this person right for me?",
		Price:       24.99,
		Description: "Compatibility check & red flag detection.",
		Features:    []string{"Two-person Analysis", "Attraction Logic", "Conflict Points", "Communication Guide"},
	},
	{
		ID:          "marriage_timing",
		Title:       "Is marriage in our future?",
		Price:       29.99,
		Description: "Long-term commitment & timing analysis.",
		Features:    []string{"Marriage Timing", "Long-term Risks", "Critical Conversations"},
	},
	{
		ID:          "breakup_recovery",
		Title:       "Why did we break up?",
		Price:       34.99,
		Description: "Closure & recovery strategy.",
		Features:    []string{"Breakup Autopsy", "Reconnection Risk", "Recovery Plan"},
	},
	{
		ID:          "comprehensive_pack",
		Title:       "Total Relationship Reset (All-in-One)",
		Price:       49.99,
		Description: "Full analysis package + PDF download.",
		Badge:       "Most Popular",
		Features:    []string{"Pattern + Compatibility + Timing", "Comprehensive Strategy", "PDF Download", "Priority Support"},
	},
	{
		ID:          "deep_dive",
		Title:       "Deep Dive Simulation",
		Price:       89.99,
		Description: "Premium detailed report with specific simulations.",
		Features:    []string{"10+ Page Report", "Specific Scenario Sims", "Detailed Q&A"},
	},
}

var issues = []Issue{
	{ID: "repeat_pattern", Label: "I always meet similar types of people."},
	{ID: "loss_interest", Label: "I lose interest as time goes on."},
	{ID: "avoidant_partner", Label: "My partners avoid responsibility/commitment."},
	{ID: "marriage_fear", Label: "We drift apart when marriage is mentioned."},
	{ID: "unbalanced_love", Label: "I always end up loving them more."},
	{ID: "cant_forget", Label: "I can't forget my ex."},
	{ID: "uncertainty", Label: "I'm unsure if this relationship is right."},
}

// Products returns a copy of the fixed catalog in display order.
func Products() []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

func Issues() []Issue {
	return append([]Issue(nil), issues...)
}

func FindProduct(id string) (Product, error) {
	id = strings.TrimSpace(id)
	for _, p := range products {
		if p.ID == id {
			p.Features = append([]string(nil), p.Features...)
			return p, nil
		}
	}
	return Product{}, pattern.ErrProductNotFound
}

// ResolveIssue accepts either an issue id or its exact label and returns the
// canonical entry.
func ResolveIssue(idOrLabel string) (Issue, error) {
	key := strings.TrimSpace(idOrLabel)
	for _, is := range issues {
		if is.ID == key || is.Label == key {
			return is, nil
		}
	}
	return Issue{}, pattern.ErrIssueNotFound
}
