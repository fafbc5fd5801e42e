package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// UnknownBirthTime replaces an empty birth time in the narrative prompt.
	UnknownBirthTime = "Unknown (assume a hypothetical analysis based on the birth date alone)"

	// NoVisionData replaces the face read when no photo was supplied.
	NoVisionData = "NONE (no photo was provided; no visual data exists)"

	DefaultLanguage = "KOREAN (한국어)"

	visionOpenTag  = "<vision_data>"
	visionCloseTag = "</vision_data>"
)

type sectionGuide struct {
	Key   string
	Title string
	Focus string
}

var narrativeSections = []sectionGuide{
	{"executive_summary", "LovePattern Analysis Report", "the overall diagnosis: who is analyzed, the purpose, exactly 3 key findings and a structural summary of the loop they are caught in"},
	{"foundation_layer", "Page 2: Inner Nature Analysis", "innate temperament read from the birth data (Saju): core energy, emotional baseline, how decisions get made, untapped potential"},
	{"persona_layer", "Page 3: Outer Persona & Impression", "what the face data projects to others, where that impression is misread, its first-impression impact and a concrete visual adjustment"},
	{"inflow_layer", "Page 4: The Attraction Trap", "what triggers their attraction, the partner type that keeps arriving, why it fails and how to break the pattern"},
	{"conflict_layer", "Page 5: Conflict Mechanism", "the trigger, the automatic defense, how a fight escalates and the key to de-escalation"},
	{"shadow_layer", "Page 6: Subconscious Shadow", "the conscious desire against the subconscious craving, how the shadow shows up in relationships and how to integrate it"},
	{"communication_layer", "Page 7: Communication Filters", "their output filter, how listeners distort it and exactly 2 correction examples (original, distortion, correction)"},
	{"timeline_layer", "Page 8: Timing & Seasonality", "the current relationship season, caution period, opportunity window and long-term flow"},
	{"action_layer", "Page 9: Tactical Action Plan", "exactly 3 immediate fixes, 2 red flags, 2 green flags and 2 ready-to-use scripts (situation, script)"},
	{"roadmap_layer", "Page 10: Grinding Roadmap", "three phases (awareness, calibration, mastery) and a closing message"},
}

// SectionTitles returns the titles the narrative prompt asks for, in order.
func SectionTitles() []string {
	out := make([]string, len(narrativeSections))
	for i, s := range narrativeSections {
		out[i] = s.Title
	}
	return out
}

func sectionGuideText() string {
	var b strings.Builder
	for i, s := range narrativeSections {
		fmt.Fprintf(&b, "%d. %s (title: %q): %s.\n", i+1, s.Key, s.Title, s.Focus)
	}
	return strings.TrimSpace(b.String())
}

func narrativeSchemaText() string {
	raw, err := json.MarshalIndent(NarrativeSchema(), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(raw)
}

var narrativeSpec = Spec{
	Name:       PromptRelationshipNarrative,
	Version:    1,
	SchemaName: "analysis_result",
	Schema:     NarrativeSchema,
	Validators: []Validator{
		RequireNonEmpty("issue_type", func(in Input) string { return in.IssueType }),
		RequireNonEmpty("birth_date", func(in Input) string { return in.BirthDate }),
		RequireNonEmpty("language", func(in Input) string { return in.Language }),
	},
	System: `
Role: senior relationship consultant and behavioral analyst.
Output language: {{.Language}}. Every narrative value must be written in this language; JSON keys stay in English.
You write a 10-page professional report that explains why the client's relationships keep following the same pattern.

Depth:
- Each major narrative field is 150-200 words across 3-5 paragraphs.
- For every claim cover the psychological mechanism, the structural reason and how it shows up in real life.

Strategy:
- Structure over fortune: explain mechanisms, never predict fate.
- Contrast: set inner nature (birth data) against outer impression (face data) and name the gap.
- Action: every section ends in something the client can do.
- Grinding: frame growth as repeated, deliberate practice.

Return only one JSON object matching the schema below. No markdown, no code fences.

Sections, in order:
` + sectionGuideText() + `

Schema:
` + narrativeSchemaText(),
	User: `
[Client Data]
- Presenting issue: {{.IssueType}}
- Birth date: {{.BirthDate}}
- Birth time: {{.BirthTime}}
- Gender: {{.Gender}}

[Face Reading Data]
{{if .HasVision}}` + visionOpenTag + `
{{.VisionJSON}}
` + visionCloseTag + `{{else}}` + NoVisionData + `{{end}}

Write the full report now.`,
}
