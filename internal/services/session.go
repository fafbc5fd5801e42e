package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

// SessionService owns every session mutation. Calls for one session are
// serialized; calls for different sessions never block each other beyond a
// shared lock stripe.
type SessionService interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	End(ctx context.Context, id string) error

	Navigate(ctx context.Context, id string, target NavState) (*Session, error)
	SelectProduct(ctx context.Context, id, productID string) (*Session, error)
	CompleteAuth(ctx context.Context, id string) (*Session, error)
	Logout(ctx context.Context, id string) (*Session, error)
	CompletePayment(ctx context.Context, id string) (*Session, error)

	UpdateIntake(ctx context.Context, id string, patch IntakePatch) (*Session, error)
	UploadPhoto(ctx context.Context, id string, raw []byte, fileName string) (*Session, error)
	IntakeNext(ctx context.Context, id string) (*Session, error)
	IntakeBack(ctx context.Context, id string) (*Session, error)
	DismissNotice(ctx context.Context, id string) (*Session, error)

	// Submit moves the session to PROCESSING and runs the analysis in the
	// background on a context detached from the request.
	Submit(ctx context.Context, id string) (*Session, error)
	ViewReport(ctx context.Context, id string) (*Session, error)

	StartJanitor(ctx context.Context, interval time.Duration)
	// Wait blocks until every background analysis has finished.
	Wait()
}

type SessionServiceConfig struct {
	PhotoMaxBytes int64
}

type sessionService struct {
	log      *logger.Logger
	store    SessionStore
	analysis AnalysisService
	notify   SessionNotifier
	metrics  *observability.Metrics
	cfg      SessionServiceConfig

	locks   stripedLocks
	wg      sync.WaitGroup
	timeNow func() time.Time
	newID   func() string
}

func NewSessionService(
	log *logger.Logger,
	store SessionStore,
	analysis AnalysisService,
	notify SessionNotifier,
	metrics *observability.Metrics,
	cfg SessionServiceConfig,
) SessionService {
	if cfg.PhotoMaxBytes <= 0 {
		cfg.PhotoMaxBytes = DefaultPhotoMaxBytes
	}
	return &sessionService{
		log:      log.With("service", "SessionService"),
		store:    store,
		analysis: analysis,
		notify:   notify,
		metrics:  metrics,
		cfg:      cfg,
		timeNow:  time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (ss *sessionService) Create(ctx context.Context) (*Session, error) {
	s := NewSession(ss.newID(), ss.timeNow())
	if err := ss.store.Put(ctx, s); err != nil {
		return nil, err
	}
	ss.refreshGauge(ctx)
	ss.log.Debug("session created", "session_id", s.ID)
	return s, nil
}

func (ss *sessionService) Get(ctx context.Context, id string) (*Session, error) {
	return ss.store.Get(ctx, id)
}

func (ss *sessionService) End(ctx context.Context, id string) error {
	unlock := ss.locks.lock(id)
	err := ss.store.Delete(ctx, id)
	unlock()
	if err != nil {
		return err
	}
	ss.notify.SessionEnded(ctx, id)
	ss.refreshGauge(ctx)
	ss.log.Debug("session ended", "session_id", id)
	return nil
}

// mutate edits one session through the store's atomic Update, then
// publishes a state event if the navigation state moved. The local stripe
// lock only keeps this process's writers from contending in the store.
func (ss *sessionService) mutate(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	unlock := ss.locks.lock(id)
	defer unlock()

	var (
		from  NavState
		epoch int64
	)
	s, err := ss.store.Update(ctx, id, func(s *Session) error {
		from, epoch = s.State, s.ScrollEpoch
		return fn(s)
	})
	if err != nil {
		return nil, err
	}
	if s.ScrollEpoch != epoch {
		ss.metrics.IncTransition(string(from), string(s.State))
		ss.notify.StateChanged(ctx, s)
	}
	return s.Clone(), nil
}

func (ss *sessionService) Navigate(ctx context.Context, id string, target NavState) (*Session, error) {
	target = NavState(strings.ToUpper(strings.TrimSpace(string(target))))
	if !target.Valid() {
		return nil, fmt.Errorf("unknown navigation target %q: %w", target, pattern.ErrInvalidTransition)
	}
	return ss.mutate(ctx, id, func(s *Session) error {
		return s.Navigate(target, ss.timeNow())
	})
}

func (ss *sessionService) SelectProduct(ctx context.Context, id, productID string) (*Session, error) {
	p, err := catalog.FindProduct(productID)
	if err != nil {
		return nil, err
	}
	return ss.mutate(ctx, id, func(s *Session) error {
		return s.SelectProduct(p, ss.timeNow())
	})
}

func (ss *sessionService) CompleteAuth(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		return s.CompleteAuth(ss.timeNow())
	})
}

func (ss *sessionService) Logout(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		s.Logout(ss.timeNow())
		return nil
	})
}

func (ss *sessionService) CompletePayment(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		return s.CompletePayment(ss.timeNow())
	})
}

func requireIntake(s *Session) error {
	if s.State != StateIntake {
		return pattern.ErrInvalidTransition
	}
	return nil
}

func (ss *sessionService) UpdateIntake(ctx context.Context, id string, patch IntakePatch) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		if err := requireIntake(s); err != nil {
			return err
		}
		if err := s.Intake.Apply(patch); err != nil {
			return err
		}
		s.UpdatedAt = ss.timeNow().UTC()
		return nil
	})
}

// UploadPhoto decodes outside the session lock; only the swap is serialized.
// The previous preview id stops resolving once replaced.
func (ss *sessionService) UploadPhoto(ctx context.Context, id string, raw []byte, fileName string) (*Session, error) {
	up, err := ProcessPhoto(raw, fileName, ss.cfg.PhotoMaxBytes)
	if err != nil {
		return nil, err
	}
	photo := &pattern.Photo{Data: up.Data, MIMEType: up.MIMEType, FileName: up.FileName}
	return ss.mutate(ctx, id, func(s *Session) error {
		if err := requireIntake(s); err != nil {
			return err
		}
		old, err := s.Intake.SetPhoto(photo, ss.newID(), up.Preview)
		if err != nil {
			return err
		}
		if old != "" {
			ss.log.Debug("photo preview replaced", "session_id", s.ID, "old_preview", old)
		}
		s.UpdatedAt = ss.timeNow().UTC()
		return nil
	})
}

func (ss *sessionService) IntakeNext(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		if err := requireIntake(s); err != nil {
			return err
		}
		return s.Intake.Next()
	})
}

func (ss *sessionService) IntakeBack(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		if err := requireIntake(s); err != nil {
			return err
		}
		return s.Intake.Back()
	})
}

func (ss *sessionService) DismissNotice(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		s.DismissNotice(ss.timeNow())
		return nil
	})
}

func (ss *sessionService) Submit(ctx context.Context, id string) (*Session, error) {
	submissionID := ss.newID()
	var (
		input        pattern.UserInput
		productTitle string
	)
	s, err := ss.mutate(ctx, id, func(s *Session) error {
		in, err := s.BeginSubmission(submissionID, ss.timeNow())
		if err != nil {
			return err
		}
		input = in
		if s.SelectedProduct != nil {
			productTitle = s.SelectedProduct.Title
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	runCtx := context.WithoutCancel(ctx)
	if ctxutil.SessionID(runCtx) != id {
		rd := &ctxutil.RequestData{SessionID: id}
		if cur := ctxutil.GetRequestData(runCtx); cur != nil {
			cp := *cur
			cp.SessionID = id
			rd = &cp
		}
		runCtx = ctxutil.WithRequestData(runCtx, rd)
	}
	ss.wg.Add(1)
	go ss.runAnalysis(runCtx, id, submissionID, input, productTitle)
	return s, nil
}

func (ss *sessionService) runAnalysis(ctx context.Context, id, submissionID string, input pattern.UserInput, productTitle string) {
	defer ss.wg.Done()

	result, genErr := ss.analysis.GenerateAnalysis(ctx, input,
		WithSubmission(submissionID),
		WithStageListener(func(stage string) {
			ss.notify.AnalysisProgress(ctx, id, submissionID, stage)
		}),
	)

	var outcome Completion
	s, err := ss.mutate(ctx, id, func(s *Session) error {
		now := ss.timeNow()
		if genErr != nil {
			outcome = s.FailSubmission(submissionID, now)
			return nil
		}
		report := pattern.NewReport(now, productTitle, *result)
		report.UserName = input.Name
		if input.Photo.Present() {
			report.UserPhotoURL = ReportPhotoPath(report.ID)
		}
		outcome = s.CompleteSubmission(submissionID, report, input.Photo, now)
		return nil
	})
	switch {
	case errors.Is(err, ErrSessionNotFound):
		ss.log.Info("analysis finished after session ended", "session_id", id, "submission_id", submissionID)
		return
	case err != nil:
		ss.log.Error("storing analysis outcome failed", "session_id", id, "error", err)
		return
	case !outcome.Applied:
		ss.log.Info("dropping stale analysis result", "session_id", id, "submission_id", submissionID)
		return
	}

	if genErr != nil {
		ss.log.Warn("analysis failed", "session_id", id, "submission_id", submissionID, "error", genErr)
		ss.notify.AnalysisFailed(ctx, s)
		return
	}
	ss.log.Info("analysis completed", "session_id", id, "submission_id", submissionID, "report_id", s.Report.ID)
	ss.notify.AnalysisCompleted(ctx, s)
}

func (ss *sessionService) ViewReport(ctx context.Context, id string) (*Session, error) {
	return ss.mutate(ctx, id, func(s *Session) error {
		_, err := s.ViewReport(ss.timeNow())
		return err
	})
}

// StartJanitor expires idle sessions for stores that need it and keeps the
// active-session gauge current. It stops with ctx.
func (ss *sessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	sweeper, _ := ss.store.(SessionSweeper)
	ss.wg.Add(1)
	go func() {
		defer ss.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if sweeper != nil {
					for _, id := range sweeper.Sweep(ss.timeNow()) {
						ss.notify.SessionEnded(ctx, id)
					}
				}
				ss.refreshGauge(ctx)
			}
		}
	}()
}

func (ss *sessionService) refreshGauge(ctx context.Context) {
	if ss.metrics == nil {
		return
	}
	n, err := ss.store.Count(ctx)
	if err != nil {
		ss.log.Warn("session count failed", "error", err)
		return
	}
	ss.metrics.SetActiveSessions(n)
}

func (ss *sessionService) Wait() {
	ss.wg.Wait()
}
