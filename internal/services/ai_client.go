package services

import (
	"context"

	"github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
)

// AIClient is the two-call contract the analysis pipeline needs from a
// generative provider. Both calls return raw JSON text; decoding and schema
// checks stay on this side of the interface.
type AIClient interface {
	Vision(ctx context.Context, req prompts.VisionRequest) (string, error)
	Narrative(ctx context.Context, req prompts.NarrativeRequest) (string, error)
}

// VisionCaller and NarrativeCaller let providers that only implement one
// half be composed.
type VisionCaller interface {
	Vision(ctx context.Context, req prompts.VisionRequest) (string, error)
}

type NarrativeCaller interface {
	Narrative(ctx context.Context, req prompts.NarrativeRequest) (string, error)
}

type namedProvider interface {
	Name() string
}

type composedAIClient struct {
	vision    VisionCaller
	narrative NarrativeCaller
}

// ComposeAIClient routes vision and narrative calls to separate providers,
// e.g. Cloud Vision face detection in front of a Gemini narrative model.
func ComposeAIClient(vision VisionCaller, narrative NarrativeCaller) AIClient {
	return &composedAIClient{vision: vision, narrative: narrative}
}

func (c *composedAIClient) Vision(ctx context.Context, req prompts.VisionRequest) (string, error) {
	return c.vision.Vision(ctx, req)
}

func (c *composedAIClient) Narrative(ctx context.Context, req prompts.NarrativeRequest) (string, error) {
	return c.narrative.Narrative(ctx, req)
}

// providerFor returns the concrete provider serving one call type so its
// name and model can be reported.
func providerFor(client AIClient, call string) any {
	if c, ok := client.(*composedAIClient); ok {
		if call == aicall.CallVision {
			return c.vision
		}
		return c.narrative
	}
	return client
}

func providerName(v any) string {
	if n, ok := v.(namedProvider); ok {
		return n.Name()
	}
	return "unknown"
}

func modelName(v any, call string) string {
	switch m := v.(type) {
	case interface{ Models() (string, string) }:
		visionModel, narrativeModel := m.Models()
		if call == aicall.CallVision {
			return visionModel
		}
		return narrativeModel
	case interface{ Model() string }:
		return m.Model()
	}
	return ""
}
