package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	text     string
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func TestVisionSendsInlineImageFirst(t *testing.T) {
	fm := &fakeModels{text: `{"overall_vibe":"Calm"}`}
	c := newWithGenerator(logger.NewNop(), fm, Config{})

	in := patterntest.Input()
	in.Photo = &pattern.Photo{Data: patterntest.PNG, MIMEType: "image/png"}
	req, err := prompts.BuildVisionRequest(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := c.Vision(context.Background(), req)
	if err != nil {
		t.Fatalf("vision: %v", err)
	}
	if out != fm.text {
		t.Fatalf("output: want=%q got=%q", fm.text, out)
	}
	if fm.model != DefaultVisionModel {
		t.Fatalf("model: want=%s got=%s", DefaultVisionModel, fm.model)
	}
	parts := fm.contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/png" {
		t.Fatalf("first part should be the inline image: %+v", parts)
	}
	if !strings.Contains(parts[1].Text, "overall_vibe") {
		t.Fatalf("second part should be the instruction")
	}
	if fm.config.ResponseMIMEType != "application/json" || fm.config.SystemInstruction == nil {
		t.Fatalf("json config not applied: %+v", fm.config)
	}
}

func TestNarrativeUsesNarrativeModel(t *testing.T) {
	fm := &fakeModels{text: "{}"}
	c := newWithGenerator(logger.NewNop(), fm, Config{NarrativeModel: "custom-model"})
	nr, _ := prompts.BuildNarrativeRequest(patterntest.Input(), nil)
	if _, err := c.Narrative(context.Background(), nr); err != nil {
		t.Fatalf("narrative: %v", err)
	}
	if fm.model != "custom-model" {
		t.Fatalf("model: want=custom-model got=%s", fm.model)
	}
}

func TestEmptyTextIsAnError(t *testing.T) {
	fm := &fakeModels{text: "  "}
	c := newWithGenerator(logger.NewNop(), fm, Config{})
	nr, _ := prompts.BuildNarrativeRequest(patterntest.Input(), nil)
	if _, err := c.Narrative(context.Background(), nr); err == nil {
		t.Fatalf("want empty response error")
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	boom := errors.New("quota exceeded")
	c := newWithGenerator(logger.NewNop(), &fakeModels{err: boom}, Config{})
	nr, _ := prompts.BuildNarrativeRequest(patterntest.Input(), nil)
	if _, err := c.Narrative(context.Background(), nr); !errors.Is(err, boom) {
		t.Fatalf("want provider error got=%v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), logger.NewNop(), Config{}); err == nil {
		t.Fatalf("want missing key error")
	}
}
