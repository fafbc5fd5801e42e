package pattern

import (
	"fmt"
	"strings"
)

type checker struct {
	problems []string
}

func (c *checker) str(path, v string) {
	if strings.TrimSpace(v) == "" {
		c.problems = append(c.problems, path+" is missing")
	}
}

func (c *checker) list(path string, vs []string) {
	if len(vs) == 0 {
		c.problems = append(c.problems, path+" is empty")
		return
	}
	for i, v := range vs {
		c.str(fmt.Sprintf("%s[%d]", path, i), v)
	}
}

func (c *checker) feature(path string, f FacialFeature) {
	if f.Position.X < 0 || f.Position.X > 100 || f.Position.Y < 0 || f.Position.Y > 100 {
		c.problems = append(c.problems, path+".position is outside 0..100")
	}
	if f.ImpressionKeywords == nil {
		c.problems = append(c.problems, path+".impression_keywords is missing")
	}
}

func (c *checker) err(target string) error {
	if len(c.problems) == 0 {
		return nil
	}
	return &SchemaValidationError{Target: target, Problems: c.problems}
}

// Validate checks every field of the ten layers. Cardinalities the prompt
// asks for (three key findings, two scripts...) are not enforced, only
// non-emptiness.
func (r *AnalysisResult) Validate() error {
	c := &checker{}

	es := r.ExecutiveSummary
	c.str("executive_summary.report_title", es.ReportTitle)
	c.str("executive_summary.analysis_target", es.AnalysisTarget)
	c.str("executive_summary.purpose", es.Purpose)
	c.list("executive_summary.key_findings", es.KeyFindings)
	c.str("executive_summary.structural_summary", es.StructuralSummary)

	f := r.FoundationLayer
	c.str("foundation_layer.title", f.Title)
	c.str("foundation_layer.core_energy", f.CoreEnergy)
	c.str("foundation_layer.emotional_baseline", f.EmotionalBaseline)
	c.str("foundation_layer.decision_pattern", f.DecisionPattern)
	c.str("foundation_layer.hidden_potential", f.HiddenPotential)

	p := r.PersonaLayer
	c.str("persona_layer.title", p.Title)
	c.str("persona_layer.face_analysis_summary", p.FaceAnalysisSummary)
	c.str("persona_layer.misunderstanding_point", p.MisunderstandingPoint)
	c.str("persona_layer.first_impression_impact", p.FirstImpressionImpact)
	c.str("persona_layer.visual_strategy", p.VisualStrategy)

	in := r.InflowLayer
	c.str("inflow_layer.title", in.Title)
	c.str("inflow_layer.attraction_trigger", in.AttractionTrigger)
	c.str("inflow_layer.partner_type_attracted", in.PartnerTypeAttracted)
	c.str("inflow_layer.why_it_fails", in.WhyItFails)
	c.str("inflow_layer.pattern_break_tip", in.PatternBreakTip)

	cf := r.ConflictLayer
	c.str("conflict_layer.title", cf.Title)
	c.str("conflict_layer.trigger_point", cf.TriggerPoint)
	c.str("conflict_layer.defense_mechanism", cf.DefenseMechanism)
	c.str("conflict_layer.escalation_pattern", cf.EscalationPattern)
	c.str("conflict_layer.de_escalation_key", cf.DeEscalationKey)

	sh := r.ShadowLayer
	c.str("shadow_layer.title", sh.Title)
	c.str("shadow_layer.conscious_desire", sh.ConsciousDesire)
	c.str("shadow_layer.subconscious_craving", sh.SubconsciousCraving)
	c.str("shadow_layer.shadow_manifestation", sh.ShadowManifestation)
	c.str("shadow_layer.integration_advice", sh.IntegrationAdvice)

	cm := r.CommunicationLayer
	c.str("communication_layer.title", cm.Title)
	c.str("communication_layer.my_filter", cm.MyFilter)
	c.str("communication_layer.listener_distortion", cm.ListenerDistortion)
	if len(cm.CorrectionExamples) == 0 {
		c.problems = append(c.problems, "communication_layer.correction_examples is empty")
	}
	for i, ex := range cm.CorrectionExamples {
		base := fmt.Sprintf("communication_layer.correction_examples[%d]", i)
		c.str(base+".original", ex.Original)
		c.str(base+".distortion", ex.Distortion)
		c.str(base+".correction", ex.Correction)
	}

	tl := r.TimelineLayer
	c.str("timeline_layer.title", tl.Title)
	c.str("timeline_layer.current_season", tl.CurrentSeason)
	c.str("timeline_layer.caution_period", tl.CautionPeriod)
	c.str("timeline_layer.opportunity_window", tl.OpportunityWindow)
	c.str("timeline_layer.long_term_flow", tl.LongTermFlow)

	ac := r.ActionLayer
	c.str("action_layer.title", ac.Title)
	c.list("action_layer.immediate_fixes", ac.ImmediateFixes)
	c.list("action_layer.red_flags", ac.RedFlags)
	c.list("action_layer.green_flags", ac.GreenFlags)
	if len(ac.Scripts) == 0 {
		c.problems = append(c.problems, "action_layer.scripts is empty")
	}
	for i, s := range ac.Scripts {
		base := fmt.Sprintf("action_layer.scripts[%d]", i)
		c.str(base+".situation", s.Situation)
		c.str(base+".script", s.Script)
	}

	rm := r.RoadmapLayer
	c.str("roadmap_layer.title", rm.Title)
	c.str("roadmap_layer.phase_1_awareness", rm.Phase1Awareness)
	c.str("roadmap_layer.phase_2_calibration", rm.Phase2Calibration)
	c.str("roadmap_layer.phase_3_mastery", rm.Phase3Mastery)
	c.str("roadmap_layer.final_message", rm.FinalMessage)

	return c.err("analysis result")
}

// Validate checks that all three features and the overall vibe are present.
func (v *VisionAnalysis) Validate() error {
	c := &checker{}
	c.feature("eyes", v.Eyes)
	c.feature("nose", v.Nose)
	c.feature("mouth", v.Mouth)
	c.str("overall_vibe", v.OverallVibe)
	return c.err("vision analysis")
}
