package services

import (
	"context"
	"sync"
	"testing"

	"github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

const visionJSON = `{
  "eyes": {"position": {"x": 40, "y": 38}, "impression_keywords": ["Warm"], "notes": "soft gaze"},
  "nose": {"position": {"x": 50, "y": 52}, "impression_keywords": ["Steady"], "notes": "balanced"},
  "mouth": {"position": {"x": 50, "y": 68}, "impression_keywords": ["Gentle"], "notes": "relaxed"},
  "overall_vibe": "Approachable"
}`

// fakeAIClient answers from canned text. A nil narrativeGate lets calls
// proceed immediately.
type fakeAIClient struct {
	mu             sync.Mutex
	visionOut      string
	visionErr      error
	narrativeOut   string
	narrativeErr   error
	narrativeGate  chan struct{}
	visionCalls    int
	narrativeCalls int
	lastNarrative  prompts.NarrativeRequest
}

func newFakeAIClient() *fakeAIClient {
	return &fakeAIClient{visionOut: visionJSON, narrativeOut: patterntest.ResultJSON}
}

func (f *fakeAIClient) Name() string  { return "fake" }
func (f *fakeAIClient) Model() string { return "fake-model" }

func (f *fakeAIClient) Vision(ctx context.Context, req prompts.VisionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visionCalls++
	return f.visionOut, f.visionErr
}

func (f *fakeAIClient) Narrative(ctx context.Context, req prompts.NarrativeRequest) (string, error) {
	if f.narrativeGate != nil {
		select {
		case <-f.narrativeGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.narrativeCalls++
	f.lastNarrative = req
	return f.narrativeOut, f.narrativeErr
}

func (f *fakeAIClient) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visionCalls, f.narrativeCalls
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []*aicall.AICallLog
}

func (r *memoryRecorder) Record(ctx context.Context, e *aicall.AICallLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *memoryRecorder) all() []*aicall.AICallLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*aicall.AICallLog(nil), r.entries...)
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}
