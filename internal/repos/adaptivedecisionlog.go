package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

// AdaptiveDecisionLogRepo is append-only: decisions are training data and
// are never updated or deleted.
type AdaptiveDecisionLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.AdaptiveDecisionLog) ([]*types.AdaptiveDecisionLog, error)
	GetRecentByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.AdaptiveDecisionLog, error)
}

type adaptiveDecisionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdaptiveDecisionLogRepo(db *gorm.DB, baseLog *logger.Logger) AdaptiveDecisionLogRepo {
	repoLog := baseLog.With("repo", "AdaptiveDecisionLogRepo")
	return &adaptiveDecisionLogRepo{db: db, log: repoLog}
}

func (r *adaptiveDecisionLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.AdaptiveDecisionLog) ([]*types.AdaptiveDecisionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(logs) == 0 {
		return []*types.AdaptiveDecisionLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *adaptiveDecisionLogRepo) GetRecentByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.AdaptiveDecisionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AdaptiveDecisionLog
	if userID == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("decided_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
