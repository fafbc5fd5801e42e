package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	aicallrepo "github.com/yungbote/lovepattern-backend/internal/data/repos/aicall"
	"github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

// AICallRecorder persists call metadata. Failures are logged, never returned:
// the call log must not decide whether an analysis succeeds.
type AICallRecorder interface {
	Record(ctx context.Context, entry *aicall.AICallLog)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *aicall.AICallLog) {}

func NopAICallRecorder() AICallRecorder { return nopRecorder{} }

type aiCallRecorder struct {
	log  *logger.Logger
	repo aicallrepo.AICallLogRepo
}

func NewAICallRecorder(log *logger.Logger, repo aicallrepo.AICallLogRepo) AICallRecorder {
	if repo == nil {
		return NopAICallRecorder()
	}
	return &aiCallRecorder{log: log.With("service", "AICallRecorder"), repo: repo}
}

func (r *aiCallRecorder) Record(ctx context.Context, entry *aicall.AICallLog) {
	if entry == nil {
		return
	}
	// The analysis context may be close to its deadline; the row is written
	// on its own short budget.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := r.repo.Create(writeCtx, entry); err != nil {
		r.log.Warn("ai call log write failed", "call_type", entry.CallType, "error", err)
	}
}

func callMetadata(m map[string]any) datatypes.JSON {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
