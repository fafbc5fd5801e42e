package services

import (
	"context"

	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

// SessionNotifier turns session changes into SSE events on the session's
// channel. SessionEnded also runs the cleanup hooks given at construction.
type SessionNotifier interface {
	StateChanged(ctx context.Context, s *Session)
	AnalysisProgress(ctx context.Context, sessionID, submissionID, stage string)
	AnalysisCompleted(ctx context.Context, s *Session)
	AnalysisFailed(ctx context.Context, s *Session)
	SessionEnded(ctx context.Context, sessionID string)
}

type sessionNotifier struct {
	emit    SSEEmitter
	onEnded []func(sessionID string)
}

// NewSessionNotifier emits on emit. onEnded hooks run for every ended
// session, typically to drop per-session caches.
func NewSessionNotifier(emit SSEEmitter, onEnded ...func(sessionID string)) SessionNotifier {
	return &sessionNotifier{emit: emit, onEnded: onEnded}
}

// Rough completion percentages for the processing screen.
var stageCompletion = map[string]int{
	StageVision:    25,
	StageNarrative: 60,
}

func (n *sessionNotifier) StateChanged(ctx context.Context, s *Session) {
	if n == nil || n.emit == nil || s == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: s.ID,
		Event:   realtime.SSEEventStateChanged,
		Data: map[string]any{
			"state":        s.State,
			"scroll_epoch": s.ScrollEpoch,
			"logged_in":    s.LoggedIn,
			"notice":       s.Notice,
		},
	})
}

func (n *sessionNotifier) AnalysisProgress(ctx context.Context, sessionID, submissionID, stage string) {
	if n == nil || n.emit == nil || sessionID == "" {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: sessionID,
		Event:   realtime.SSEEventAnalysisProgress,
		Data: map[string]any{
			"submission_id": submissionID,
			"stage":         stage,
			"completion":    stageCompletion[stage],
		},
	})
}

func (n *sessionNotifier) AnalysisCompleted(ctx context.Context, s *Session) {
	if n == nil || n.emit == nil || s == nil {
		return
	}
	data := map[string]any{"state": s.State}
	if s.Report != nil {
		data["report_id"] = s.Report.ID
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: s.ID,
		Event:   realtime.SSEEventAnalysisCompleted,
		Data:    data,
	})
}

func (n *sessionNotifier) AnalysisFailed(ctx context.Context, s *Session) {
	if n == nil || n.emit == nil || s == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: s.ID,
		Event:   realtime.SSEEventAnalysisFailed,
		Data: map[string]any{
			"state":   s.State,
			"message": s.Notice,
		},
	})
}

func (n *sessionNotifier) SessionEnded(ctx context.Context, sessionID string) {
	if n == nil || sessionID == "" {
		return
	}
	for _, fn := range n.onEnded {
		fn(sessionID)
	}
	if n.emit == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: sessionID,
		Event:   realtime.SSEEventSessionEnded,
	})
}
