package aicall

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

type AICallLogRepo interface {
	Create(ctx context.Context, entry *types.AICallLog) error
	ListRecent(ctx context.Context, limit int) ([]*types.AICallLog, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{
		db:  db,
		log: baseLog.With("repo", "AICallLogRepo"),
	}
}

func (r *aiCallLogRepo) Create(ctx context.Context, entry *types.AICallLog) error {
	if entry == nil {
		return nil
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *aiCallLogRepo) ListRecent(ctx context.Context, limit int) ([]*types.AICallLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*types.AICallLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aiCallLogRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*types.AICallLog, error) {
	var out []*types.AICallLog
	if submissionID == "" {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
