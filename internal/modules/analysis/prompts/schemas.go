package prompts

func StringSchema(description string) map[string]any {
	s := map[string]any{"type": "string"}
	if description != "" {
		s["description"] = description
	}
	return s
}

func StringArraySchema(description string) map[string]any {
	s := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	if description != "" {
		s["description"] = description
	}
	return s
}

func NumberSchema() map[string]any {
	return map[string]any{"type": "number"}
}

// ObjectSchema builds a closed object whose listed properties are all
// required, the shape strict structured-output modes expect.
func ObjectSchema(properties map[string]any, order ...string) map[string]any {
	required := make([]any, 0, len(order))
	for _, k := range order {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func stringFields(fields ...string) (map[string]any, []string) {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f] = StringSchema("")
	}
	return props, fields
}

func featureSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"position": ObjectSchema(map[string]any{
			"x": NumberSchema(),
			"y": NumberSchema(),
		}, "x", "y"),
		"impression_keywords": StringArraySchema("Short impression tags."),
		"notes":               StringSchema("One clinical, descriptive sentence."),
	}, "position", "impression_keywords", "notes")
}

// VisionSchema describes VisionAnalysis. Positions are percentages (0-100)
// of the image width and height.
func VisionSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"eyes":         featureSchema(),
		"nose":         featureSchema(),
		"mouth":        featureSchema(),
		"overall_vibe": StringSchema("One or two words."),
	}, "eyes", "nose", "mouth", "overall_vibe")
}

func layerSchema(fields ...string) map[string]any {
	props, order := stringFields(fields...)
	return ObjectSchema(props, order...)
}

// NarrativeSchema describes the ten-layer AnalysisResult.
func NarrativeSchema() map[string]any {
	exec, execOrder := stringFields("report_title", "analysis_target", "purpose", "structural_summary")
	exec["key_findings"] = StringArraySchema("Exactly 3 findings.")
	execOrder = []string{"report_title", "analysis_target", "purpose", "key_findings", "structural_summary"}

	comm, commOrder := stringFields("title", "my_filter", "listener_distortion")
	comm["correction_examples"] = map[string]any{
		"type":        "array",
		"description": "Exactly 2 examples.",
		"items":       layerSchema("original", "distortion", "correction"),
	}
	commOrder = append(commOrder, "correction_examples")

	action, actionOrder := stringFields("title")
	action["immediate_fixes"] = StringArraySchema("Exactly 3 fixes.")
	action["red_flags"] = StringArraySchema("Exactly 2 red flags.")
	action["green_flags"] = StringArraySchema("Exactly 2 green flags.")
	action["scripts"] = map[string]any{
		"type":        "array",
		"description": "Exactly 2 scripts.",
		"items":       layerSchema("situation", "script"),
	}
	actionOrder = append(actionOrder, "immediate_fixes", "red_flags", "green_flags", "scripts")

	return ObjectSchema(map[string]any{
		"executive_summary":   ObjectSchema(exec, execOrder...),
		"foundation_layer":    layerSchema("title", "core_energy", "emotional_baseline", "decision_pattern", "hidden_potential"),
		"persona_layer":       layerSchema("title", "face_analysis_summary", "misunderstanding_point", "first_impression_impact", "visual_strategy"),
		"inflow_layer":        layerSchema("title", "attraction_trigger", "partner_type_attracted", "why_it_fails", "pattern_break_tip"),
		"conflict_layer":      layerSchema("title", "trigger_point", "defense_mechanism", "escalation_pattern", "de_escalation_key"),
		"shadow_layer":        layerSchema("title", "conscious_desire", "subconscious_craving", "shadow_manifestation", "integration_advice"),
		"communication_layer": ObjectSchema(comm, commOrder...),
		"timeline_layer":      layerSchema("title", "current_season", "caution_period", "opportunity_window", "long_term_flow"),
		"action_layer":        ObjectSchema(action, actionOrder...),
		"roadmap_layer":       layerSchema("title", "phase_1_awareness", "phase_2_calibration", "phase_3_mastery", "final_message"),
	},
		"executive_summary",
		"foundation_layer",
		"persona_layer",
		"inflow_layer",
		"conflict_layer",
		"shadow_layer",
		"communication_layer",
		"timeline_layer",
		"action_layer",
		"roadmap_layer",
	)
}
