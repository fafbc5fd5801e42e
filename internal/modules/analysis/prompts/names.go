package prompts

type PromptName string

const (
	PromptVisionFeatures        PromptName = "vision_features"
	PromptRelationshipNarrative PromptName = "relationship_narrative"
)
