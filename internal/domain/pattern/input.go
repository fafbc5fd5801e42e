package pattern

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther:
		return true
	default:
		return false
	}
}

const (
	BirthDateLayout = "2006-01-02"
	BirthTimeLayout = "15:04"
)

// Photo is an uploaded face image held in memory for the life of a session.
type Photo struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
	FileName string `json:"file_name"`
}

func (p *Photo) Present() bool { return p != nil && len(p.Data) > 0 }

// UserInput is what the intake wizard collects. IssueType holds the issue
// label (not its id), since the label is what the narrative prompt quotes.
type UserInput struct {
	IssueType string `json:"issue_type"`
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time,omitempty"`
	Gender    Gender `json:"gender"`
	Name      string `json:"name,omitempty"`
	Photo     *Photo `json:"photo,omitempty"`
}

// DefaultInput is the blank intake a fresh wizard starts from.
func DefaultInput() UserInput {
	return UserInput{Gender: GenderFemale}
}

func (in UserInput) HasBirthTime() bool {
	return strings.TrimSpace(in.BirthTime) != ""
}

// Validate checks field formats without applying wizard gating; empty
// optional fields pass.
func (in UserInput) Validate() error {
	if d := strings.TrimSpace(in.BirthDate); d != "" {
		if _, err := time.Parse(BirthDateLayout, d); err != nil {
			return &ValidationError{Field: "birth_date", Reason: "must be a YYYY-MM-DD calendar date"}
		}
	}
	if in.HasBirthTime() {
		if _, err := time.Parse(BirthTimeLayout, strings.TrimSpace(in.BirthTime)); err != nil {
			return &ValidationError{Field: "birth_time", Reason: "must be an HH:MM clock time"}
		}
	}
	if !in.Gender.Valid() {
		return &ValidationError{Field: "gender", Reason: "must be one of female, male, other"}
	}
	return nil
}

// ValidateComplete additionally requires every field the analysis needs.
func (in UserInput) ValidateComplete() error {
	if strings.TrimSpace(in.IssueType) == "" {
		return &ValidationError{Field: "issue_type", Reason: "required"}
	}
	if strings.TrimSpace(in.BirthDate) == "" {
		return &ValidationError{Field: "birth_date", Reason: "required"}
	}
	if !in.Photo.Present() {
		return &ValidationError{Field: "photo", Reason: "required"}
	}
	return in.Validate()
}
