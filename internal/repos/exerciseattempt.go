package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

type ExerciseAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.ExerciseAttempt) ([]*types.ExerciseAttempt, error)
	GetRecentByTrack(ctx context.Context, tx *gorm.DB, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error)
}

type exerciseAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseAttemptRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseAttemptRepo {
	repoLog := baseLog.With("repo", "ExerciseAttemptRepo")
	return &exerciseAttemptRepo{db: db, log: repoLog}
}

func (r *exerciseAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.ExerciseAttempt) ([]*types.ExerciseAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.ExerciseAttempt{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// GetRecentByTrack returns the most recent attempts for one learning track,
// newest first.
func (r *exerciseAttemptRepo) GetRecentByTrack(ctx context.Context, tx *gorm.DB, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExerciseAttempt
	if userID == "" || learningLanguage == "" || exerciseType == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_language = ? AND exercise_type = ?", userID, learningLanguage, exerciseType).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
