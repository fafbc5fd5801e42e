package services

import (
	"errors"
	"time"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

type NavState string

const (
	StateLanding    NavState = "LANDING"
	StateAuth       NavState = "AUTH"
	StatePayment    NavState = "PAYMENT"
	StateIntake     NavState = "INTAKE"
	StateProcessing NavState = "PROCESSING"
	StateResult     NavState = "RESULT"
	StateDashboard  NavState = "DASHBOARD"
)

func (s NavState) Valid() bool {
	switch s {
	case StateLanding, StateAuth, StatePayment, StateIntake, StateProcessing, StateResult, StateDashboard:
		return true
	default:
		return false
	}
}

const (
	NoticeAnalysisFailed  = "분석 생성 중 오류가 발생했습니다. API Key를 확인하거나 다시 시도해주세요."
	DashboardEmptyMessage = "아직 생성된 리포트가 없습니다."
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the whole per-visitor context: navigation state, the one
// selected product, the login flag, the wizard and the last report. It never
// leaves the session store.
type Session struct {
	ID                string           `json:"id"`
	State             NavState         `json:"state"`
	LoggedIn          bool             `json:"logged_in"`
	SelectedProduct   *catalog.Product `json:"selected_product,omitempty"`
	Report            *pattern.Report  `json:"report,omitempty"`
	ReportPhoto       *pattern.Photo   `json:"report_photo,omitempty"`
	Intake            Wizard           `json:"intake"`
	Notice            string           `json:"notice,omitempty"`
	ScrollEpoch       int64            `json:"scroll_epoch"`
	PendingSubmission string           `json:"pending_submission,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateLanding,
		Intake:    NewWizard(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Clone copies everything a caller might mutate. Photo, preview and report
// payloads are replaced wholesale, never edited, so they are shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.SelectedProduct != nil {
		p := *s.SelectedProduct
		p.Features = append([]string(nil), s.SelectedProduct.Features...)
		cp.SelectedProduct = &p
	}
	return &cp
}
