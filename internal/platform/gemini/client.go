package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/platform/promptstyle"
)

const (
	ProviderName          = "gemini"
	DefaultVisionModel    = "gemini-2.5-flash-image"
	DefaultNarrativeModel = "gemini-3-flash-preview"
	jsonMIMEType          = "application/json"
)

type Config struct {
	APIKey         string
	VisionModel    string
	NarrativeModel string
	Timeout        time.Duration
}

// contentGenerator is the slice of *genai.Models this adapter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	log            *logger.Logger
	models         contentGenerator
	visionModel    string
	narrativeModel string
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithGenerator(log, gc.Models, cfg), nil
}

func newWithGenerator(log *logger.Logger, models contentGenerator, cfg Config) *Client {
	vm := strings.TrimSpace(cfg.VisionModel)
	if vm == "" {
		vm = DefaultVisionModel
	}
	nm := strings.TrimSpace(cfg.NarrativeModel)
	if nm == "" {
		nm = DefaultNarrativeModel
	}
	return &Client{
		log:            log.With("service", "GeminiClient"),
		models:         models,
		visionModel:    vm,
		narrativeModel: nm,
	}
}

func (c *Client) Name() string { return ProviderName }

// Models reports the vision and narrative model ids.
func (c *Client) Models() (string, string) { return c.visionModel, c.narrativeModel }

func (c *Client) config(p prompts.Prompt) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: jsonMIMEType}
	if sys := promptstyle.ApplySystem(p.System, "json"); sys != "" {
		cfg.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}
	return cfg
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", model)
	}
	return text, nil
}

// Vision sends the photo inline followed by the extraction instruction.
func (c *Client) Vision(ctx context.Context, req prompts.VisionRequest) (string, error) {
	if len(req.Image) == 0 {
		return "", fmt.Errorf("vision request without image")
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Image, req.MIMEType),
		genai.NewPartFromText(req.Prompt.User),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return c.generate(ctx, c.visionModel, contents, c.config(req.Prompt))
}

func (c *Client) Narrative(ctx context.Context, req prompts.NarrativeRequest) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt.User, genai.RoleUser)}
	return c.generate(ctx, c.narrativeModel, contents, c.config(req.Prompt))
}
