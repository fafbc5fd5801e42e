package pattern

type ExecutiveSummary struct {
	ReportTitle       string   `json:"report_title"`
	AnalysisTarget    string   `json:"analysis_target"`
	Purpose           string   `json:"purpose"`
	KeyFindings       []string `json:"key_findings"`
	StructuralSummary string   `json:"structural_summary"`
}

type FoundationLayer struct {
	Title             string `json:"title"`
	CoreEnergy        string `json:"core_energy"`
	EmotionalBaseline string `json:"emotional_baseline"`
	DecisionPattern   string `json:"decision_pattern"`
	HiddenPotential   string `json:"hidden_potential"`
}

type PersonaLayer struct {
	Title                 string `json:"title"`
	FaceAnalysisSummary   string `json:"face_analysis_summary"`
	MisunderstandingPoint string `json:"misunderstanding_point"`
	FirstImpressionImpact string `json:"first_impression_impact"`
	VisualStrategy        string `json:"visual_strategy"`
}

type InflowLayer struct {
	Title                string `json:"title"`
	AttractionTrigger    string `json:"attraction_trigger"`
	PartnerTypeAttracted string `json:"partner_type_attracted"`
	WhyItFails           string `json:"why_it_fails"`
	PatternBreakTip      string `json:"pattern_break_tip"`
}

type ConflictLayer struct {
	Title             string `json:"title"`
	TriggerPoint      string `json:"trigger_point"`
	DefenseMechanism  string `json:"defense_mechanism"`
	EscalationPattern string `json:"escalation_pattern"`
	DeEscalationKey   string `json:"de_escalation_key"`
}

type ShadowLayer struct {
	Title               string `json:"title"`
	ConsciousDesire     string `json:"conscious_desire"`
	SubconsciousCraving string `json:"subconscious_craving"`
	ShadowManifestation string `json:"shadow_manifestation"`
	IntegrationAdvice   string `json:"integration_advice"`
}

type CorrectionExample struct {
	Original   string `json:"original"`
	Distortion string `json:"distortion"`
	Correction string `json:"correction"`
}

type CommunicationLayer struct {
	Title              string              `json:"title"`
	MyFilter           string              `json:"my_filter"`
	ListenerDistortion string              `json:"listener_distortion"`
	CorrectionExamples []CorrectionExample `json:"correction_examples"`
}

type TimelineLayer struct {
	Title             string `json:"title"`
	CurrentSeason     string `json:"current_season"`
	CautionPeriod     string `json:"caution_period"`
	OpportunityWindow string `json:"opportunity_window"`
	LongTermFlow      string `json:"long_term_flow"`
}

type Script struct {
	Situation string `json:"situation"`
	Script    string `json:"script"`
}

type ActionLayer struct {
	Title          string   `json:"title"`
	ImmediateFixes []string `json:"immediate_fixes"`
	RedFlags       []string `json:"red_flags"`
	GreenFlags     []string `json:"green_flags"`
	Scripts        []Script `json:"scripts"`
}

type RoadmapLayer struct {
	Title             string `json:"title"`
	Phase1Awareness   string `json:"phase_1_awareness"`
	Phase2Calibration string `json:"phase_2_calibration"`
	Phase3Mastery     string `json:"phase_3_mastery"`
	FinalMessage      string `json:"final_message"`
}

// AnalysisResult is the ten-layer report body returned by the narrative call.
type AnalysisResult struct {
	ExecutiveSummary   ExecutiveSummary   `json:"executive_summary"`
	FoundationLayer    FoundationLayer    `json:"foundation_layer"`
	PersonaLayer       PersonaLayer       `json:"persona_layer"`
	InflowLayer        InflowLayer        `json:"inflow_layer"`
	ConflictLayer      ConflictLayer      `json:"conflict_layer"`
	ShadowLayer        ShadowLayer        `json:"shadow_layer"`
	CommunicationLayer CommunicationLayer `json:"communication_layer"`
	TimelineLayer      TimelineLayer      `json:"timeline_layer"`
	ActionLayer        ActionLayer        `json:"action_layer"`
	RoadmapLayer       RoadmapLayer       `json:"roadmap_layer"`

	VisionCoordinates *VisionAnalysis `json:"vision_coordinates,omitempty"`
}

// Layer keys in report order.
const (
	LayerExecutiveSummary = "executive_summary"
	LayerFoundation       = "foundation_layer"
	LayerPersona          = "persona_layer"
	LayerInflow           = "inflow_layer"
	LayerConflict         = "conflict_layer"
	LayerShadow           = "shadow_layer"
	LayerCommunication    = "communication_layer"
	LayerTimeline         = "timeline_layer"
	LayerAction           = "action_layer"
	LayerRoadmap          = "roadmap_layer"
)

var LayerOrder = []string{
	LayerExecutiveSummary,
	LayerFoundation,
	LayerPersona,
	LayerInflow,
	LayerConflict,
	LayerShadow,
	LayerCommunication,
	LayerTimeline,
	LayerAction,
	LayerRoadmap,
}
