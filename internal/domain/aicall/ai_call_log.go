package aicall

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CallVision    = "vision"
	CallNarrative = "narrative"
)

// AICallLog records one outbound AI call. It deliberately holds no prompt or
// response text: those carry birth data and the face read.
type AICallLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionHash   string         `gorm:"column:session_hash;index" json:"session_hash,omitempty"`
	SubmissionID  string         `gorm:"column:submission_id;index" json:"submission_id,omitempty"`
	CallType      string         `gorm:"column:call_type;not null;index" json:"call_type"`
	Provider      string         `gorm:"column:provider;not null" json:"provider"`
	Model         string         `gorm:"column:model" json:"model"`
	PromptName    string         `gorm:"column:prompt_name" json:"prompt_name"`
	PromptVersion int            `gorm:"column:prompt_version" json:"prompt_version"`
	PromptHash    string         `gorm:"column:prompt_hash" json:"prompt_hash"`
	Success       bool           `gorm:"column:success;not null" json:"success"`
	Fallback      bool           `gorm:"column:fallback;not null;default:false" json:"fallback"`
	Error         string         `gorm:"column:error" json:"error,omitempty"`
	DurationMS    int64          `gorm:"column:duration_ms" json:"duration_ms"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AICallLog) TableName() string { return "ai_call_log" }

func (l *AICallLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}
