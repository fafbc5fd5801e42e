// Package render maps an AnalysisResult onto the ten fixed report pages.
// It holds no business logic: every field is copied through as-is and an
// absent field is an empty block, never an error.
package render

import (
	"fmt"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

const (
	PageCount = 10

	HeaderLeft  = "Confidential Analysis"
	HeaderRight = "LovePattern Report"
	FooterLeft  = "Generated by LovePattern AI"

	ResultHeadline    = "분석이 완료되었습니다"
	ResultSubheadline = "총 10페이지의 심층 리포트가 생성되었습니다."

	CoverHeading  = "Relationship Pattern Analysis Report"
	CoverSubtitle = "본 리포트는 귀하의 내면 패턴과 외부 인식 패턴을 교차 분석하여 구조적인 해결책을 제안합니다."
)

type BlockKind string

const (
	BlockText     BlockKind = "text"
	BlockQuote    BlockKind = "quote"
	BlockList     BlockKind = "list"
	BlockNumbered BlockKind = "numbered"
	BlockRows     BlockKind = "rows"
)

// Cell is one labelled value inside a row, e.g. the "Heard As" line of a
// correction example.
type Cell struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

type Row struct {
	Cells []Cell `json:"cells" yaml:"cells"`
}

type Block struct {
	Label string    `json:"label" yaml:"label"`
	Kind  BlockKind `json:"kind" yaml:"kind"`
	Text  string    `json:"text,omitempty" yaml:"text,omitempty"`
	Items []string  `json:"items,omitempty" yaml:"items,omitempty"`
	Rows  []Row     `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Section is one printed page.
type Section struct {
	Number   int     `json:"number" yaml:"number"`
	Key      string  `json:"key" yaml:"key"`
	Title    string  `json:"title" yaml:"title"`
	Heading  string  `json:"heading,omitempty" yaml:"heading,omitempty"`
	Subtitle string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	PhotoURL string  `json:"photo_url,omitempty" yaml:"photo_url,omitempty"`
	Blocks   []Block `json:"blocks" yaml:"blocks"`
}

// Footer is the "Page N of 10" line.
func (s Section) Footer() string {
	return fmt.Sprintf("Page %d of %d", s.Number, PageCount)
}

// Document is everything the exporters need.
type Document struct {
	ReportID     string    `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	ProductTitle string    `json:"product_title,omitempty" yaml:"product_title,omitempty"`
	UserName     string    `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	Headline     string    `json:"headline" yaml:"headline"`
	Subheadline  string    `json:"subheadline" yaml:"subheadline"`
	Sections     []Section `json:"sections" yaml:"sections"`
}

// RenderReport renders a stored report.
func RenderReport(r *pattern.Report) Document {
	if r == nil {
		return Document{}
	}
	doc := Render(r.Result, r.UserPhotoURL)
	doc.ReportID = r.ID
	doc.ProductTitle = r.ProductTitle
	doc.UserName = r.UserName
	return doc
}

// Render is pure: equal inputs give equal documents.
func Render(r pattern.AnalysisResult, photoURL string) Document {
	return Document{
		Headline:    ResultHeadline,
		Subheadline: ResultSubheadline,
		Sections: []Section{
			executiveSummary(r.ExecutiveSummary),
			foundation(r.FoundationLayer),
			persona(r.PersonaLayer, photoURL),
			inflow(r.InflowLayer),
			conflict(r.ConflictLayer),
			shadow(r.ShadowLayer),
			communication(r.CommunicationLayer),
			timeline(r.TimelineLayer),
			action(r.ActionLayer),
			roadmap(r.RoadmapLayer),
		},
	}
}

func text(label, v string) Block  { return Block{Label: label, Kind: BlockText, Text: v} }
func quote(label, v string) Block { return Block{Label: label, Kind: BlockQuote, Text: v} }

func list(label string, kind BlockKind, items []string) Block {
	return Block{Label: label, Kind: kind, Items: append([]string(nil), items...)}
}

func executiveSummary(l pattern.ExecutiveSummary) Section {
	return Section{
		Number:   1,
		Key:      pattern.LayerExecutiveSummary,
		Title:    l.ReportTitle,
		Heading:  CoverHeading,
		Subtitle: CoverSubtitle,
		Blocks: []Block{
			text("Analysis Target", l.AnalysisTarget),
			text("Analysis Purpose", l.Purpose),
			list("Key Findings", BlockNumbered, l.KeyFindings),
			text("Structural Summary", l.StructuralSummary),
		},
	}
}

func foundation(l pattern.FoundationLayer) Section {
	return Section{
		Number: 2,
		Key:    pattern.LayerFoundation,
		Title:  l.Title,
		Blocks: []Block{
			text("Core Energy (Saju)", l.CoreEnergy),
			text("Emotional Baseline", l.EmotionalBaseline),
			text("Decision Pattern", l.DecisionPattern),
			text("Hidden Potential", l.HiddenPotential),
		},
	}
}

func persona(l pattern.PersonaLayer, photoURL string) Section {
	return Section{
		Number:   3,
		Key:      pattern.LayerPersona,
		Title:    l.Title,
		PhotoURL: photoURL,
		Blocks: []Block{
			text("Visual Analysis", l.FaceAnalysisSummary),
			text("The Misunderstanding", l.MisunderstandingPoint),
			text("First Impression Impact", l.FirstImpressionImpact),
			text("Strategic Visual Adjustment", l.VisualStrategy),
		},
	}
}

func inflow(l pattern.InflowLayer) Section {
	return Section{
		Number: 4,
		Key:    pattern.LayerInflow,
		Title:  l.Title,
		Blocks: []Block{
			quote("Your Attraction Trigger", l.AttractionTrigger),
			text("You Attract", l.PartnerTypeAttracted),
			text("The Failure Point", l.WhyItFails),
			text("How to Break the Pattern", l.PatternBreakTip),
		},
	}
}

func conflict(l pattern.ConflictLayer) Section {
	return Section{
		Number: 5,
		Key:    pattern.LayerConflict,
		Title:  l.Title,
		Blocks: []Block{
			text("The Trigger", l.TriggerPoint),
			text("Defense Mechanism (Auto-Pilot)", l.DefenseMechanism),
			text("Escalation Pattern", l.EscalationPattern),
			text("De-escalation Key", l.DeEscalationKey),
		},
	}
}

func shadow(l pattern.ShadowLayer) Section {
	return Section{
		Number: 6,
		Key:    pattern.LayerShadow,
		Title:  l.Title,
		Blocks: []Block{
			quote("Conscious Desire", l.ConsciousDesire),
			quote("Subconscious Craving", l.SubconsciousCraving),
			text("How Shadow Manifests", l.ShadowManifestation),
			text("Integration Advice", l.IntegrationAdvice),
		},
	}
}

func communication(l pattern.CommunicationLayer) Section {
	rows := make([]Row, 0, len(l.CorrectionExamples))
	for _, ex := range l.CorrectionExamples {
		rows = append(rows, Row{Cells: []Cell{
			{Label: "Original", Text: ex.Original},
			{Label: "Heard As", Text: ex.Distortion},
			{Label: "Correction", Text: ex.Correction},
		}})
	}
	return Section{
		Number: 7,
		Key:    pattern.LayerCommunication,
		Title:  l.Title,
		Blocks: []Block{
			text("My Output Filter", l.MyFilter),
			text("Listener Distortion", l.ListenerDistortion),
			{Label: "Correction Examples", Kind: BlockRows, Rows: rows},
		},
	}
}

func timeline(l pattern.TimelineLayer) Section {
	return Section{
		Number: 8,
		Key:    pattern.LayerTimeline,
		Title:  l.Title,
		Blocks: []Block{
			quote("Current Relationship Season", l.CurrentSeason),
			text("Long-term Flow", l.LongTermFlow),
			text("Caution Period", l.CautionPeriod),
			text("Opportunity Window", l.OpportunityWindow),
		},
	}
}

func action(l pattern.ActionLayer) Section {
	rows := make([]Row, 0, len(l.Scripts))
	for _, s := range l.Scripts {
		rows = append(rows, Row{Cells: []Cell{{Label: s.Situation, Text: s.Script}}})
	}
	return Section{
		Number: 9,
		Key:    pattern.LayerAction,
		Title:  l.Title,
		Blocks: []Block{
			list("Immediate Tactics", BlockList, l.ImmediateFixes),
			list("Red Flags (Stop)", BlockList, l.RedFlags),
			list("Green Flags (Go)", BlockList, l.GreenFlags),
			{Label: "Emergency Scripts", Kind: BlockRows, Rows: rows},
		},
	}
}

func roadmap(l pattern.RoadmapLayer) Section {
	return Section{
		Number: 10,
		Key:    pattern.LayerRoadmap,
		Title:  l.Title,
		Blocks: []Block{
			text("Phase 1: Awareness", l.Phase1Awareness),
			text("Phase 2: Calibration", l.Phase2Calibration),
			text("Phase 3: Mastery", l.Phase3Mastery),
			quote("Final Message", l.FinalMessage),
		},
	}
}
