package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

// Analysis stages reported to progress listeners.
const (
	StageVision    = "vision"
	StageNarrative = "narrative"
)

type AnalysisService interface {
	// GenerateAnalysis runs the vision call (only when a photo is present)
	// and then the narrative call. Vision failures are replaced by the
	// fallback read; narrative and schema failures abort.
	GenerateAnalysis(ctx context.Context, in pattern.UserInput, opts ...AnalysisOption) (*pattern.AnalysisResult, error)
}

type analysisOptions struct {
	submissionID string
	onStage      func(stage string)
}

type AnalysisOption func(*analysisOptions)

// WithSubmission tags call-log rows with the session's submission id.
func WithSubmission(id string) AnalysisOption {
	return func(o *analysisOptions) { o.submissionID = id }
}

// WithStageListener is called before each external call starts.
func WithStageListener(fn func(stage string)) AnalysisOption {
	return func(o *analysisOptions) { o.onStage = fn }
}

func (o *analysisOptions) stage(name string) {
	if o.onStage != nil {
		o.onStage(name)
	}
}

type AnalysisConfig struct {
	// MissingReason explains a nil client; it becomes the ConfigurationError.
	MissingReason string
	MaxConcurrent int64
}

type analysisService struct {
	log     *logger.Logger
	client  AIClient
	missing string
	metrics *observability.Metrics
	calls   AICallRecorder
	sem     *semaphore.Weighted
	timeNow func() time.Time
}

// NewAnalysisService accepts a nil client: the server still starts without
// credentials and every submission fails with a ConfigurationError.
func NewAnalysisService(log *logger.Logger, client AIClient, metrics *observability.Metrics, calls AICallRecorder, cfg AnalysisConfig) AnalysisService {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if strings.TrimSpace(cfg.MissingReason) == "" {
		cfg.MissingReason = "no AI provider credential configured"
	}
	if calls == nil {
		calls = NopAICallRecorder()
	}
	return &analysisService{
		log:     log.With("service", "AnalysisService"),
		client:  client,
		missing: cfg.MissingReason,
		metrics: metrics,
		calls:   calls,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		timeNow: time.Now,
	}
}

func (s *analysisService) GenerateAnalysis(ctx context.Context, in pattern.UserInput, opts ...AnalysisOption) (*pattern.AnalysisResult, error) {
	o := &analysisOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if s.client == nil {
		s.metrics.IncAnalysis("configuration_error")
		return nil, &pattern.ConfigurationError{Reason: s.missing}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	ctx, span := observability.Tracer().Start(ctx, "analysis.generate",
		trace.WithAttributes(attribute.Bool("analysis.photo", in.Photo.Present())))
	defer span.End()

	var vision *pattern.VisionAnalysis
	if in.Photo.Present() {
		o.stage(StageVision)
		vision = s.readFace(ctx, in, o)
	}

	o.stage(StageNarrative)
	result, err := s.narrate(ctx, in, vision, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "narrative failed")
		s.metrics.IncAnalysis(analysisOutcome(err))
		return nil, err
	}
	if vision != nil {
		result.VisionCoordinates = vision
	}
	s.metrics.IncAnalysis("success")
	return result, nil
}

func analysisOutcome(err error) string {
	var schemaErr *pattern.SchemaValidationError
	if errors.As(err, &schemaErr) {
		return "schema_error"
	}
	return "narrative_error"
}

// readFace never fails: every error path returns the fallback read.
func (s *analysisService) readFace(ctx context.Context, in pattern.UserInput, o *analysisOptions) *pattern.VisionAnalysis {
	req, err := prompts.BuildVisionRequest(in)
	if err != nil {
		s.log.Warn("vision request build failed; using fallback", append(ctxutil.LogFields(ctx), "error", err)...)
		s.metrics.IncVisionFallback()
		return pattern.FallbackVision()
	}

	provider := providerFor(s.client, aicall.CallVision)
	ctx, span := observability.Tracer().Start(ctx, "analysis.vision", trace.WithAttributes(
		attribute.String("ai.provider", providerName(provider)),
		attribute.String("ai.model", modelName(provider, aicall.CallVision)),
	))
	defer span.End()

	start := s.timeNow()
	raw, err := s.client.Vision(ctx, req)
	dur := s.timeNow().Sub(start)
	s.metrics.ObserveAICall(providerName(provider), aicall.CallVision, err, dur)

	var vision *pattern.VisionAnalysis
	if err == nil {
		vision, err = decodeVision(raw)
	}
	s.recordCall(ctx, o, aicall.CallVision, provider, req.Prompt, dur, err, len(raw))
	if err != nil {
		verr := &pattern.VisionServiceError{Err: err}
		span.RecordError(verr)
		s.log.Warn("vision call failed; using fallback", append(ctxutil.LogFields(ctx), "error", verr)...)
		s.metrics.IncVisionFallback()
		return pattern.FallbackVision()
	}
	return vision
}

func (s *analysisService) narrate(ctx context.Context, in pattern.UserInput, vision *pattern.VisionAnalysis, o *analysisOptions) (*pattern.AnalysisResult, error) {
	req, err := prompts.BuildNarrativeRequest(in, vision)
	if err != nil {
		return nil, err
	}

	provider := providerFor(s.client, aicall.CallNarrative)
	ctx, span := observability.Tracer().Start(ctx, "analysis.narrative", trace.WithAttributes(
		attribute.String("ai.provider", providerName(provider)),
		attribute.String("ai.model", modelName(provider, aicall.CallNarrative)),
		attribute.Bool("analysis.vision_present", vision != nil),
	))
	defer span.End()

	start := s.timeNow()
	raw, err := s.client.Narrative(ctx, req)
	dur := s.timeNow().Sub(start)
	s.metrics.ObserveAICall(providerName(provider), aicall.CallNarrative, err, dur)

	var result *pattern.AnalysisResult
	if err != nil {
		err = &pattern.NarrativeServiceError{Err: err}
	} else {
		result, err = decodeNarrative(raw)
	}
	s.recordCall(ctx, o, aicall.CallNarrative, provider, req.Prompt, dur, err, len(raw))
	if err != nil {
		span.RecordError(err)
		s.log.Error("narrative call failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, err
	}
	return result, nil
}

func decodeVision(raw string) (*pattern.VisionAnalysis, error) {
	var v pattern.VisionAnalysis
	if err := decodeJSONObject(raw, &v); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeNarrative separates undecodable output (a service failure) from a
// well-formed object with missing fields (a schema failure).
func decodeNarrative(raw string) (*pattern.AnalysisResult, error) {
	var r pattern.AnalysisResult
	if err := decodeJSONObject(raw, &r); err != nil {
		return nil, &pattern.NarrativeServiceError{Err: err}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.VisionCoordinates = nil
	return &r, nil
}

// decodeJSONObject requires exactly one JSON object and nothing after it.
func decodeJSONObject(raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pattern.ErrEmptyResponse
	}
	if !strings.HasPrefix(raw, "{") {
		return fmt.Errorf("response is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON object")
	}
	return nil
}

func (s *analysisService) recordCall(ctx context.Context, o *analysisOptions, call string, provider any, p prompts.Prompt, dur time.Duration, err error, responseBytes int) {
	entry := &aicall.AICallLog{
		SessionHash:   logger.HashValue(ctxutil.SessionID(ctx)),
		SubmissionID:  o.submissionID,
		CallType:      call,
		Provider:      providerName(provider),
		Model:         modelName(provider, call),
		PromptName:    p.Name,
		PromptVersion: p.Version,
		PromptHash:    p.Fingerprint(),
		Success:       err == nil,
		Fallback:      err != nil && call == aicall.CallVision,
		DurationMS:    dur.Milliseconds(),
		Metadata:      callMetadata(map[string]any{"response_bytes": responseBytes}),
	}
	if err != nil {
		entry.Error = truncate(err.Error(), 512)
	}
	s.calls.Record(ctx, entry)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
