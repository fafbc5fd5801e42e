package services

import (
	"strings"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

const (
	WizardSteps = 4

	StepIssue  = 1
	StepBirth  = 2
	StepPhoto  = 3
	StepReview = 4

	UnknownBirthTimeLabel = "모름 (가설 분석)"
)

// Wizard is the four-step intake. Values survive back navigation.
type Wizard struct {
	Step      int               `json:"step"`
	Input     pattern.UserInput `json:"input"`
	IssueID   string            `json:"issue_id,omitempty"`
	PreviewID string            `json:"preview_id,omitempty"`
	Preview   []byte            `json:"preview,omitempty"`
}

func NewWizard() Wizard {
	return Wizard{Step: StepIssue, Input: pattern.DefaultInput()}
}

// Progress is the proportional indicator step/4.
func (w Wizard) Progress() float64 {
	return float64(w.Step) / WizardSteps
}

// Gate reports why the current step cannot advance, or nil.
func (w Wizard) Gate() error {
	switch w.Step {
	case StepIssue:
		if strings.TrimSpace(w.Input.IssueType) == "" {
			return &pattern.ValidationError{Step: StepIssue, Field: "issue_type", Reason: "required"}
		}
	case StepBirth:
		if strings.TrimSpace(w.Input.BirthDate) == "" {
			return &pattern.ValidationError{Step: StepBirth, Field: "birth_date", Reason: "required"}
		}
		if err := w.Input.Validate(); err != nil {
			return withStep(err, StepBirth)
		}
	case StepPhoto:
		if !w.Input.Photo.Present() {
			return &pattern.ValidationError{Step: StepPhoto, Field: "photo", Reason: "required"}
		}
	case StepReview:
		// The review step submits instead of advancing.
		return pattern.ErrInvalidTransition
	default:
		return pattern.ErrInvalidTransition
	}
	return nil
}

func withStep(err error, step int) error {
	if ve, ok := err.(*pattern.ValidationError); ok {
		cp := *ve
		cp.Step = step
		return &cp
	}
	return err
}

func (w *Wizard) Next() error {
	if err := w.Gate(); err != nil {
		return err
	}
	w.Step++
	return nil
}

// Back is allowed on steps 2..4.
func (w *Wizard) Back() error {
	if w.Step <= StepIssue || w.Step > StepReview {
		return pattern.ErrInvalidTransition
	}
	w.Step--
	return nil
}

// IntakePatch carries the editable fields; nil means unchanged. Issue takes
// either an issue id or its label.
type IntakePatch struct {
	Issue     *string `json:"issue_type,omitempty"`
	IssueID   *string `json:"issue_id,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	BirthTime *string `json:"birth_time,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Name      *string `json:"user_name,omitempty"`
}

// Apply edits the wizard. The review step is read-only. Nothing changes
// unless every supplied field is valid.
func (w *Wizard) Apply(p IntakePatch) error {
	if w.Step == StepReview {
		return pattern.ErrInvalidTransition
	}
	next := w.Input
	issueID := w.IssueID

	issueKey := p.Issue
	if p.IssueID != nil {
		issueKey = p.IssueID
	}
	if issueKey != nil {
		if strings.TrimSpace(*issueKey) == "" {
			next.IssueType = ""
			issueID = ""
		} else {
			is, err := catalog.ResolveIssue(*issueKey)
			if err != nil {
				return err
			}
			next.IssueType = is.Label
			issueID = is.ID
		}
	}
	if p.BirthDate != nil {
		next.BirthDate = strings.TrimSpace(*p.BirthDate)
	}
	if p.BirthTime != nil {
		next.BirthTime = strings.TrimSpace(*p.BirthTime)
	}
	if p.Gender != nil {
		next.Gender = pattern.Gender(strings.ToLower(strings.TrimSpace(*p.Gender)))
	}
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	w.Input = next
	w.IssueID = issueID
	return nil
}

// SetPhoto replaces the photo and its preview and returns the preview id it
// discarded.
func (w *Wizard) SetPhoto(photo *pattern.Photo, previewID string, preview []byte) (string, error) {
	if w.Step != StepPhoto {
		return "", pattern.ErrInvalidTransition
	}
	old := w.PreviewID
	w.Input.Photo = photo
	w.PreviewID = previewID
	w.Preview = preview
	return old, nil
}

// ReadyToSubmit is the final gate: review step with every required field.
func (w Wizard) ReadyToSubmit() error {
	if w.Step != StepReview {
		return pattern.ErrInvalidTransition
	}
	if err := w.Input.ValidateComplete(); err != nil {
		return withStep(err, StepReview)
	}
	return nil
}

// Review is the read-only summary shown on step 4.
type Review struct {
	IssueType     string `json:"issue_type"`
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	Gender        string `json:"gender"`
	PhotoFileName string `json:"photo_file_name,omitempty"`
}

func (w Wizard) Review() Review {
	r := Review{
		IssueType: w.Input.IssueType,
		BirthDate: w.Input.BirthDate,
		BirthTime: w.Input.BirthTime,
		Gender:    string(w.Input.Gender),
	}
	if !w.Input.HasBirthTime() {
		r.BirthTime = UnknownBirthTimeLabel
	}
	if w.Input.Photo.Present() {
		r.PhotoFileName = w.Input.Photo.FileName
	}
	return r
}
