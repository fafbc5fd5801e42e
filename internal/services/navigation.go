package services

import (
	"time"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

// moveTo is the single place state changes. Every accepted navigation bumps
// ScrollEpoch, even when the target equals the current state.
func (s *Session) moveTo(to NavState, now time.Time) {
	s.State = to
	s.ScrollEpoch++
	s.UpdatedAt = now.UTC()
}

// Navigate is the global header navigation. LANDING is always reachable,
// AUTH only while logged out and DASHBOARD only while logged in. Leaving
// PROCESSING does not cancel the analysis.
func (s *Session) Navigate(target NavState, now time.Time) error {
	switch target {
	case StateLanding:
	case StateAuth:
		if s.LoggedIn {
			return pattern.ErrInvalidTransition
		}
	case StateDashboard:
		if !s.LoggedIn {
			return pattern.ErrInvalidTransition
		}
	default:
		return pattern.ErrInvalidTransition
	}
	s.moveTo(target, now)
	return nil
}

// SelectProduct overwrites any earlier selection.
func (s *Session) SelectProduct(p catalog.Product, now time.Time) error {
	if s.State != StateLanding {
		return pattern.ErrInvalidTransition
	}
	s.SelectedProduct = &p
	if s.LoggedIn {
		s.moveTo(StatePayment, now)
	} else {
		s.moveTo(StateAuth, now)
	}
	return nil
}

func (s *Session) CompleteAuth(now time.Time) error {
	if s.State != StateAuth {
		return pattern.ErrInvalidTransition
	}
	s.LoggedIn = true
	if s.SelectedProduct != nil {
		s.moveTo(StatePayment, now)
	} else {
		s.moveTo(StateDashboard, now)
	}
	return nil
}

// Logout only clears the flag; the current view stays.
func (s *Session) Logout(now time.Time) {
	s.LoggedIn = false
	s.UpdatedAt = now.UTC()
}

// CompletePayment opens a fresh wizard.
func (s *Session) CompletePayment(now time.Time) error {
	if s.State != StatePayment || s.SelectedProduct == nil {
		return pattern.ErrInvalidTransition
	}
	s.Intake = NewWizard()
	s.Notice = ""
	s.moveTo(StateIntake, now)
	return nil
}

// BeginSubmission gates on the review step and moves to PROCESSING. The
// returned input is the snapshot the analysis runs on.
func (s *Session) BeginSubmission(submissionID string, now time.Time) (pattern.UserInput, error) {
	if s.State != StateIntake {
		return pattern.UserInput{}, pattern.ErrInvalidTransition
	}
	if err := s.Intake.ReadyToSubmit(); err != nil {
		return pattern.UserInput{}, err
	}
	s.PendingSubmission = submissionID
	s.Notice = ""
	s.moveTo(StateProcessing, now)
	return s.Intake.Input, nil
}

// Completion outcome flags.
type Completion struct {
	Applied bool
	Moved   bool
}

// CompleteSubmission stores the report if submissionID is still the pending
// one. The session only moves to RESULT if the user is still waiting on the
// processing screen.
func (s *Session) CompleteSubmission(submissionID string, report *pattern.Report, photo *pattern.Photo, now time.Time) Completion {
	if submissionID == "" || s.PendingSubmission != submissionID {
		return Completion{}
	}
	s.PendingSubmission = ""
	s.Report = report
	s.ReportPhoto = photo
	s.UpdatedAt = now.UTC()
	if s.State != StateProcessing {
		return Completion{Applied: true}
	}
	s.moveTo(StateResult, now)
	return Completion{Applied: true, Moved: true}
}

// FailSubmission surfaces the notice and returns to the review step with the
// entered input untouched.
func (s *Session) FailSubmission(submissionID string, now time.Time) Completion {
	if submissionID == "" || s.PendingSubmission != submissionID {
		return Completion{}
	}
	s.PendingSubmission = ""
	s.Notice = NoticeAnalysisFailed
	s.UpdatedAt = now.UTC()
	if s.State != StateProcessing {
		return Completion{Applied: true}
	}
	s.Intake.Step = StepReview
	s.moveTo(StateIntake, now)
	return Completion{Applied: true, Moved: true}
}

// ViewReport opens the stored report from the dashboard. Without one the
// session stays put and the caller shows DashboardEmptyMessage.
func (s *Session) ViewReport(now time.Time) (bool, error) {
	if s.State != StateDashboard {
		return false, pattern.ErrInvalidTransition
	}
	if s.Report == nil {
		return false, nil
	}
	s.moveTo(StateResult, now)
	return true, nil
}

// DismissNotice clears a surfaced failure notice.
func (s *Session) DismissNotice(now time.Time) {
	s.Notice = ""
	s.UpdatedAt = now.UTC()
}
