package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

type sessionFixture struct {
	svc    SessionService
	client *fakeAIClient
	events *recordingEmitter
	store  *MemorySessionStore
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	log := testLogger(t)
	client := newFakeAIClient()
	events := &recordingEmitter{}
	store := NewMemorySessionStore(time.Hour)
	analysis := NewAnalysisService(log, client, nil, nil, AnalysisConfig{})
	svc := NewSessionService(log, store, analysis, NewSessionNotifier(events), nil, SessionServiceConfig{})
	return &sessionFixture{svc: svc, client: client, events: events, store: store}
}

// walkToReview drives a new session through product, auth, payment and the
// three input steps.
func (f *sessionFixture) walkToReview(t *testing.T, ctx context.Context) string {
	t.Helper()
	s, err := f.svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := s.ID
	steps := []func() (*Session, error){
		func() (*Session, error) { return f.svc.SelectProduct(ctx, id, "relationship_check") },
		func() (*Session, error) { return f.svc.CompleteAuth(ctx, id) },
		func() (*Session, error) { return f.svc.CompletePayment(ctx, id) },
		func() (*Session, error) {
			return f.svc.UpdateIntake(ctx, id, IntakePatch{IssueID: strPtr("uncertainty"), Name: strPtr("Jiwoo")})
		},
		func() (*Session, error) { return f.svc.IntakeNext(ctx, id) },
		func() (*Session, error) {
			return f.svc.UpdateIntake(ctx, id, IntakePatch{BirthDate: strPtr("1995-07-21"), Gender: strPtr("other")})
		},
		func() (*Session, error) { return f.svc.IntakeNext(ctx, id) },
		func() (*Session, error) { return f.svc.UploadPhoto(ctx, id, encodePNG(t, 64, 64), "me.png") },
		func() (*Session, error) { return f.svc.IntakeNext(ctx, id) },
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	s, _ = f.svc.Get(ctx, id)
	if s.State != StateIntake || s.Intake.Step != StepReview {
		t.Fatalf("want review step, got %s step %d", s.State, s.Intake.Step)
	}
	return id
}

func TestSessionSubmitCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	f := newSessionFixture(t)
	id := f.walkToReview(t, ctx)

	s, err := f.svc.Submit(ctx, id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.State != StateProcessing || s.PendingSubmission == "" {
		t.Fatalf("want PROCESSING, got %s", s.State)
	}
	if _, err := f.svc.Submit(ctx, id); !errors.Is(err, pattern.ErrInvalidTransition) {
		t.Fatalf("double submit: got=%v", err)
	}
	f.svc.Wait()

	s, err = f.svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.State != StateResult || s.Report == nil || s.PendingSubmission != "" {
		t.Fatalf("want RESULT with report, got %s report=%v", s.State, s.Report != nil)
	}
	if s.Report.UserName != "Jiwoo" || s.Report.ProductTitle != "Is this person right for me?" {
		t.Fatalf("report meta: %+v", s.Report)
	}
	if !strings.HasPrefix(s.Report.UserPhotoURL, ReportPhotoPathPrefix) || !s.ReportPhoto.Present() {
		t.Fatalf("report photo: url=%q", s.Report.UserPhotoURL)
	}
	if s.Report.Result.VisionCoordinates == nil {
		t.Fatalf("vision coordinates should be attached")
	}

	evs := f.events.events()
	last := evs[len(evs)-1]
	if last != realtime.SSEEventAnalysisCompleted {
		t.Fatalf("last event: want=%s got=%s (%v)", realtime.SSEEventAnalysisCompleted, last, evs)
	}
	var progress int
	for _, e := range evs {
		if e == realtime.SSEEventAnalysisProgress {
			progress++
		}
	}
	if progress != 2 {
		t.Fatalf("want vision and narrative progress events, got %d", progress)
	}
}

func TestSessionSubmitFailureReturnsToReview(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	f := newSessionFixture(t)
	f.client.narrativeErr = errors.New("quota exceeded")
	id := f.walkToReview(t, ctx)

	if _, err := f.svc.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.svc.Wait()

	s, _ := f.svc.Get(ctx, id)
	if s.State != StateIntake || s.Intake.Step != StepReview || s.Notice != NoticeAnalysisFailed {
		t.Fatalf("want INTAKE review with notice, got %s step %d notice=%q", s.State, s.Intake.Step, s.Notice)
	}
	if s.Report != nil {
		t.Fatalf("failed analysis must not store a report")
	}
	evs := f.events.events()
	if evs[len(evs)-1] != realtime.SSEEventAnalysisFailed {
		t.Fatalf("last event: %v", evs)
	}

	s, err := f.svc.DismissNotice(ctx, id)
	if err != nil || s.Notice != "" {
		t.Fatalf("DismissNotice: notice=%q err=%v", s.Notice, err)
	}
}

func TestSessionLeavingProcessingKeepsReport(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	f := newSessionFixture(t)
	f.client.narrativeGate = make(chan struct{})
	id := f.walkToReview(t, ctx)

	if _, err := f.svc.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Navigate(ctx, id, "dashboard"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	close(f.client.narrativeGate)
	f.svc.Wait()

	s, _ := f.svc.Get(ctx, id)
	if s.State != StateDashboard || s.Report == nil {
		t.Fatalf("want report stored while staying on DASHBOARD, got %s", s.State)
	}
	s, err := f.svc.ViewReport(ctx, id)
	if err != nil || s.State != StateResult {
		t.Fatalf("ViewReport: state=%s err=%v", s.State, err)
	}
}

func TestSessionEndDuringAnalysis(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	f := newSessionFixture(t)
	f.client.narrativeGate = make(chan struct{})
	id := f.walkToReview(t, ctx)

	if _, err := f.svc.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := f.svc.End(ctx, id); err != nil {
		t.Fatalf("End: %v", err)
	}
	close(f.client.narrativeGate)
	f.svc.Wait()

	if _, err := f.svc.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound got=%v", err)
	}
	for _, e := range f.events.events() {
		if e == realtime.SSEEventAnalysisCompleted {
			t.Fatalf("no completion event after the session ended")
		}
	}
}

func TestSessionIntakeRequiresIntakeState(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	s, _ := f.svc.Create(ctx)
	if _, err := f.svc.UpdateIntake(ctx, s.ID, IntakePatch{Name: strPtr("x")}); !errors.Is(err, pattern.ErrInvalidTransition) {
		t.Fatalf("intake edit on LANDING: got=%v", err)
	}
	if _, err := f.svc.SelectProduct(ctx, s.ID, "nope"); !errors.Is(err, pattern.ErrProductNotFound) {
		t.Fatalf("unknown product: got=%v", err)
	}
	if _, err := f.svc.Navigate(ctx, "missing", StateLanding); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown session: got=%v", err)
	}
	_, err := f.svc.Navigate(ctx, s.ID, "bogus")
	if !errors.Is(err, pattern.ErrInvalidTransition) || !strings.Contains(err.Error(), "BOGUS") {
		t.Fatalf("unknown target: got=%v", err)
	}
	if got, _ := f.svc.Get(ctx, s.ID); got.ScrollEpoch != 0 {
		t.Fatalf("rejected target must not scroll, epoch=%d", got.ScrollEpoch)
	}
}

func TestSessionJanitorStops(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSessionFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.svc.StartJanitor(ctx, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	f.svc.Wait()
}

func TestSessionEndRunsCleanupHooks(t *testing.T) {
	ctx := context.Background()
	log := testLogger(t)
	events := &recordingEmitter{}
	var ended []string
	notify := NewSessionNotifier(events, func(id string) { ended = append(ended, id) })
	svc := NewSessionService(log, NewMemorySessionStore(time.Hour), NewAnalysisService(log, newFakeAIClient(), nil, nil, AnalysisConfig{}),
		notify, nil, SessionServiceConfig{})

	s, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.End(ctx, s.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(ended) != 1 || ended[0] != s.ID {
		t.Fatalf("cleanup hooks: want=[%s] got=%v", s.ID, ended)
	}
	evs := events.events()
	if len(evs) == 0 || evs[len(evs)-1] != realtime.SSEEventSessionEnded {
		t.Fatalf("want session_ended event, got %v", evs)
	}

	if err := svc.End(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second End: got=%v", err)
	}
	if len(ended) != 1 {
		t.Fatalf("hooks ran for a missing session: %v", ended)
	}
}

// interleavingStore runs during once, inside the first Update that sees a
// PROCESSING session, before the caller's change is applied.
type interleavingStore struct {
	SessionStore
	once   sync.Once
	during func(s *Session)
}

func (st *interleavingStore) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	return st.SessionStore.Update(ctx, id, func(s *Session) error {
		if s.State == StateProcessing {
			st.once.Do(func() { st.during(s) })
		}
		return fn(s)
	})
}

func TestSessionWritesFromTwoInstancesDoNotClobber(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	log := testLogger(t)
	shared := NewMemorySessionStore(time.Hour)

	other := NewSessionService(log, shared, NewAnalysisService(log, newFakeAIClient(), nil, nil, AnalysisConfig{}),
		NewSessionNotifier(&recordingEmitter{}), nil, SessionServiceConfig{})
	logoutDone := make(chan error, 1)
	hooked := &interleavingStore{SessionStore: shared, during: func(s *Session) {
		id := s.ID
		go func() {
			_, err := other.Logout(ctx, id)
			logoutDone <- err
		}()
		// Give the other instance time to reach the store.
		time.Sleep(20 * time.Millisecond)
	}}

	client := newFakeAIClient()
	events := &recordingEmitter{}
	analysis := NewAnalysisService(log, client, nil, nil, AnalysisConfig{})
	f := &sessionFixture{
		svc:    NewSessionService(log, hooked, analysis, NewSessionNotifier(events), nil, SessionServiceConfig{}),
		client: client,
		events: events,
		store:  shared,
	}
	id := f.walkToReview(t, ctx)

	if _, err := f.svc.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.svc.Wait()
	if err := <-logoutDone; err != nil {
		t.Fatalf("Logout: %v", err)
	}

	s, err := f.svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.State != StateResult || s.Report == nil {
		t.Fatalf("completion lost: state=%s report=%v", s.State, s.Report != nil)
	}
	if s.LoggedIn {
		t.Fatalf("logout from the other instance was overwritten")
	}
}
