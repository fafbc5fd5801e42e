// Package patterntest holds shared fixtures for tests that need a complete
// analysis payload.
package patterntest

import (
	"encoding/json"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

// ResultJSON is a well-formed narrative response.
const ResultJSON = `{
  "executive_summary": {
    "report_title": "LovePattern Analysis Report",
    "analysis_target": "1990-05-14 female",
    "purpose": "반복되는 관계 패턴의 구조 파악",
    "key_findings": ["finding one", "finding two", "finding three"],
    "structural_summary": "summary paragraph"
  },
  "foundation_layer": {
    "title": "Page 2: Inner Nature Analysis",
    "core_energy": "core",
    "emotional_baseline": "baseline",
    "decision_pattern": "decision",
    "hidden_potential": "potential"
  },
  "persona_layer": {
    "title": "Page 3: Outer Persona & Impression",
    "face_analysis_summary": "face",
    "misunderstanding_point": "misunderstanding",
    "first_impression_impact": "impact",
    "visual_strategy": "strategy"
  },
  "inflow_layer": {
    "title": "Page 4: The Attraction Trap",
    "attraction_trigger": "trigger",
    "partner_type_attracted": "partner",
    "why_it_fails": "fails",
    "pattern_break_tip": "tip"
  },
  "conflict_layer": {
    "title": "Page 5: Conflict Mechanism",
    "trigger_point": "trigger point",
    "defense_mechanism": "defense",
    "escalation_pattern": "escalation",
    "de_escalation_key": "key"
  },
  "shadow_layer": {
    "title": "Page 6: Subconscious Shadow",
    "conscious_desire": "desire",
    "subconscious_craving": "craving",
    "shadow_manifestation": "manifestation",
    "integration_advice": "advice"
  },
  "communication_layer": {
    "title": "Page 7: Communication Filters",
    "my_filter": "filter",
    "listener_distortion": "distortion",
    "correction_examples": [
      {"original": "o1", "distortion": "d1", "correction": "c1"},
      {"original": "o2", "distortion": "d2", "correction": "c2"}
    ]
  },
  "timeline_layer": {
    "title": "Page 8: Timing & Seasonality",
    "current_season": "season",
    "caution_period": "caution",
    "opportunity_window": "window",
    "long_term_flow": "flow"
  },
  "action_layer": {
    "title": "Page 9: Tactical Action Plan",
    "immediate_fixes": ["fix one", "fix two", "fix three"],
    "red_flags": ["red one", "red two"],
    "green_flags": ["green one", "green two"],
    "scripts": [
      {"situation": "s1", "script": "script one"},
      {"situation": "s2", "script": "script two"}
    ]
  },
  "roadmap_layer": {
    "title": "Page 10: Grinding Roadmap",
    "phase_1_awareness": "awareness",
    "phase_2_calibration": "calibration",
    "phase_3_mastery": "mastery",
    "final_message": "message"
  }
}`

// Result decodes ResultJSON. It panics on a broken fixture.
func Result() pattern.AnalysisResult {
	var r pattern.AnalysisResult
	if err := json.Unmarshal([]byte(ResultJSON), &r); err != nil {
		panic(err)
	}
	return r
}

// Titles lists the layer titles of ResultJSON in report order.
var Titles = []string{
	"LovePattern Analysis Report",
	"Page 2: Inner Nature Analysis",
	"Page 3: Outer Persona & Impression",
	"Page 4: The Attraction Trap",
	"Page 5: Conflict Mechanism",
	"Page 6: Subconscious Shadow",
	"Page 7: Communication Filters",
	"Page 8: Timing & Seasonality",
	"Page 9: Tactical Action Plan",
	"Page 10: Grinding Roadmap",
}

// Input is the no-photo intake used across scenario tests.
func Input() pattern.UserInput {
	return pattern.UserInput{
		IssueType: "I always meet similar types of people.",
		BirthDate: "1990-05-14",
		Gender:    pattern.GenderFemale,
	}
}

// PNG is a minimal valid 1x1 PNG.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0xf0,
	0x1f, 0x00, 0x05, 0x00, 0x01, 0xff, 0x89, 0x99, 0x3d, 0x1d, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
