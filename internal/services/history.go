package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/Libras-Play/adaptive-service/internal/clients/redis"
	"github.com/Libras-Play/adaptive-service/internal/engine"
	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/repos"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

// ErrHistoryUnavailable marks a failed attempt-history read. It is
// retryable; the engine never guesses a default history.
var ErrHistoryUnavailable = errors.New("attempt history unavailable")

// AttemptHistoryService is the attempt-history reader plus the write path
// that populates it. Reads go through the redis window cache when one is
// configured and degrade to Postgres when it misses or fails.
type AttemptHistoryService interface {
	// GetRecentAttempts returns up to limit attempts for the track, newest
	// first.
	GetRecentAttempts(ctx context.Context, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error)
	RecordAttempt(ctx context.Context, attempt *types.ExerciseAttempt) (*types.ExerciseAttempt, error)
}

type attemptHistoryService struct {
	db          *gorm.DB
	log         *logger.Logger
	attemptRepo repos.ExerciseAttemptRepo
	cache       redisclient.AttemptCache
	window      int
}

// NewAttemptHistoryService builds the reader. cache may be nil; the service
// then reads straight from Postgres.
func NewAttemptHistoryService(db *gorm.DB, baseLog *logger.Logger, attemptRepo repos.ExerciseAttemptRepo, cache redisclient.AttemptCache, window int) AttemptHistoryService {
	return &attemptHistoryService{
		db:          db,
		log:         baseLog.With("service", "AttemptHistoryService"),
		attemptRepo: attemptRepo,
		cache:       cache,
		window:      window,
	}
}

func (s *attemptHistoryService) GetRecentAttempts(ctx context.Context, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRecent(ctx, userID, learningLanguage, exerciseType, limit)
		if err != nil {
			s.log.Warn("Attempt cache read failed, falling back to Postgres",
				"user_id", userID, "learning_language", learningLanguage, "exercise_type", exerciseType, "error", err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	attempts, err := s.attemptRepo.GetRecentByTrack(ctx, nil, userID, learningLanguage, exerciseType, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return attempts, nil
}

func (s *attemptHistoryService) RecordAttempt(ctx context.Context, attempt *types.ExerciseAttempt) (*types.ExerciseAttempt, error) {
	if attempt == nil {
		return nil, &engine.ValidationError{Field: "attempt", Msg: "attempt is required"}
	}
	if attempt.UserID == "" {
		return nil, &engine.ValidationError{Field: "user_id", Msg: "user_id is required"}
	}
	if attempt.LearningLanguage == "" {
		return nil, &engine.ValidationError{Field: "learning_language", Msg: "learning_language is required"}
	}
	if attempt.TimeSpentSeconds < 0 {
		return nil, &engine.ValidationError{Field: "time_spent_seconds", Msg: "must not be negative"}
	}
	if attempt.ExerciseType == "" {
		attempt.ExerciseType = "general"
	}
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now().UTC()
	}

	created, err := s.attemptRepo.Create(ctx, nil, []*types.ExerciseAttempt{attempt})
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Push(ctx, created[0], s.window); err != nil {
			s.log.Warn("Attempt cache push failed",
				"user_id", attempt.UserID, "learning_language", attempt.LearningLanguage, "exercise_type", attempt.ExerciseType, "error", err)
		}
	}
	return created[0], nil
}
