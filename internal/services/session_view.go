package services

import (
	"time"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
)

const (
	IntakePreviewPathPrefix = "/api/session/intake/photo/preview/"
	ReportPhotoPathPrefix   = "/api/session/report/photo/"
)

// ReportPhotoPath is the session-scoped URL of a report's photo. Clients add
// ?token= when loading it from an <img>.
func ReportPhotoPath(reportID string) string {
	return ReportPhotoPathPrefix + reportID
}

// SessionView is the client-facing projection of a Session. Photo bytes,
// previews and the report body are served by their own endpoints.
type SessionView struct {
	ID               string           `json:"id"`
	State            NavState         `json:"state"`
	LoggedIn         bool             `json:"logged_in"`
	SelectedProduct  *catalog.Product `json:"selected_product,omitempty"`
	HasReport        bool             `json:"has_report"`
	Report           *ReportMeta      `json:"report,omitempty"`
	Processing       bool             `json:"processing"`
	Notice           string           `json:"notice,omitempty"`
	DashboardMessage string           `json:"dashboard_message,omitempty"`
	ScrollEpoch      int64            `json:"scroll_epoch"`
	Intake           *IntakeView      `json:"intake,omitempty"`
}

type ReportMeta struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	ProductTitle string    `json:"product_title"`
	UserPhotoURL string    `json:"user_photo_url,omitempty"`
	UserName     string    `json:"user_name,omitempty"`
}

type IntakeView struct {
	Step       int          `json:"step"`
	Steps      int          `json:"steps"`
	Progress   float64      `json:"progress"`
	IssueID    string       `json:"issue_id,omitempty"`
	Input      IntakeFields `json:"input"`
	Photo      *PhotoView   `json:"photo,omitempty"`
	CanAdvance bool         `json:"can_advance"`
	Blocker    string       `json:"blocker,omitempty"`
	Review     *Review      `json:"review,omitempty"`
}

type IntakeFields struct {
	IssueType string `json:"issue_type"`
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time"`
	Gender    string `json:"gender"`
	UserName  string `json:"user_name,omitempty"`
}

type PhotoView struct {
	FileName   string `json:"file_name"`
	MIMEType   string `json:"mime_type"`
	PreviewURL string `json:"preview_url,omitempty"`
}

func BuildSessionView(s *Session) SessionView {
	v := SessionView{
		ID:              s.ID,
		State:           s.State,
		LoggedIn:        s.LoggedIn,
		SelectedProduct: s.SelectedProduct,
		HasReport:       s.Report != nil,
		Processing:      s.PendingSubmission != "",
		Notice:          s.Notice,
		ScrollEpoch:     s.ScrollEpoch,
	}
	if s.Report != nil {
		v.Report = &ReportMeta{
			ID:           s.Report.ID,
			Date:         s.Report.Date,
			ProductTitle: s.Report.ProductTitle,
			UserPhotoURL: s.Report.UserPhotoURL,
			UserName:     s.Report.UserName,
		}
	}
	if s.State == StateDashboard && s.Report == nil {
		v.DashboardMessage = DashboardEmptyMessage
	}
	if s.State == StateIntake || s.State == StateProcessing {
		iv := BuildIntakeView(s.Intake)
		v.Intake = &iv
	}
	return v
}

func BuildIntakeView(w Wizard) IntakeView {
	in := w.Input
	iv := IntakeView{
		Step:     w.Step,
		Steps:    WizardSteps,
		Progress: w.Progress(),
		IssueID:  w.IssueID,
		Input: IntakeFields{
			IssueType: in.IssueType,
			BirthDate: in.BirthDate,
			BirthTime: in.BirthTime,
			Gender:    string(in.Gender),
			UserName:  in.Name,
		},
	}
	if in.Photo.Present() {
		iv.Photo = &PhotoView{FileName: in.Photo.FileName, MIMEType: in.Photo.MIMEType}
		if w.PreviewID != "" {
			iv.Photo.PreviewURL = IntakePreviewPathPrefix + w.PreviewID
		}
	}
	gate := w.Gate
	if w.Step == StepReview {
		r := w.Review()
		iv.Review = &r
		gate = w.ReadyToSubmit
	}
	if err := gate(); err != nil {
		iv.Blocker = err.Error()
	} else {
		iv.CanAdvance = true
	}
	return iv
}
