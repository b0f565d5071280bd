package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Libras-Play/adaptive-service/internal/engine"
	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/repos"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

// DifficultyService runs one evaluation end to end: read the attempt
// window, evaluate the strategy, append the audit row, return the decision.
// The audit append is best effort; a logging outage must never fail a
// learning session.
type DifficultyService interface {
	NextDifficulty(ctx context.Context, userID, learningLanguage, exerciseType string, currentDifficulty *int) (*engine.Decision, error)
	RecentDecisions(ctx context.Context, userID string, limit int) ([]*types.AdaptiveDecisionLog, error)
}

type difficultyService struct {
	db              *gorm.DB
	log             *logger.Logger
	cfg             engine.Config
	strategy        engine.Strategy
	history         AttemptHistoryService
	decisionLogRepo repos.AdaptiveDecisionLogRepo
}

func NewDifficultyService(db *gorm.DB, baseLog *logger.Logger, cfg engine.Config, strategy engine.Strategy, history AttemptHistoryService, decisionLogRepo repos.AdaptiveDecisionLogRepo) DifficultyService {
	return &difficultyService{
		db:              db,
		log:             baseLog.With("service", "DifficultyService"),
		cfg:             cfg,
		strategy:        strategy,
		history:         history,
		decisionLogRepo: decisionLogRepo,
	}
}

func (s *difficultyService) NextDifficulty(ctx context.Context, userID, learningLanguage, exerciseType string, currentDifficulty *int) (*engine.Decision, error) {
	if userID == "" {
		return nil, &engine.ValidationError{Field: "user_id", Msg: "user_id is required"}
	}
	if learningLanguage == "" {
		return nil, &engine.ValidationError{Field: "learning_language", Msg: "learning_language is required"}
	}
	if exerciseType == "" {
		exerciseType = "general"
	}

	// Newest first from the reader.
	recent, err := s.history.GetRecentAttempts(ctx, userID, learningLanguage, exerciseType, s.cfg.AttemptWindow)
	if err != nil {
		return nil, err
	}

	// Resolution order: explicit request value, then the most recent
	// attempt's difficulty, then the floor for brand-new users.
	current := s.cfg.MinDifficulty
	if currentDifficulty != nil {
		current = *currentDifficulty
	} else if len(recent) > 0 {
		current = recent[0].Difficulty
	}

	dctx := engine.Context{
		UserID:            userID,
		LearningLanguage:  learningLanguage,
		ExerciseType:      exerciseType,
		CurrentDifficulty: current,
		RecentAttempts:    toEngineAttempts(recent),
	}

	decision, err := s.strategy.Evaluate(dctx)
	if err != nil {
		return nil, err
	}

	s.appendDecisionLog(ctx, dctx, decision)
	return decision, nil
}

func (s *difficultyService) RecentDecisions(ctx context.Context, userID string, limit int) ([]*types.AdaptiveDecisionLog, error) {
	if userID == "" {
		return nil, &engine.ValidationError{Field: "user_id", Msg: "user_id is required"}
	}
	return s.decisionLogRepo.GetRecentByUser(ctx, nil, userID, limit)
}

// appendDecisionLog persists decision + inputs for the future ML training
// set. Failures are reported to the log and swallowed.
func (s *difficultyService) appendDecisionLog(ctx context.Context, dctx engine.Context, decision *engine.Decision) {
	row := &types.AdaptiveDecisionLog{
		UserID:                dctx.UserID,
		LearningLanguage:      dctx.LearningLanguage,
		ExerciseType:          dctx.ExerciseType,
		CurrentDifficulty:     decision.CurrentDifficulty,
		NextDifficulty:        decision.NextDifficulty,
		MasteryScore:          decision.MasteryScore,
		Reason:                decision.Reason,
		ConsistencyAdjustment: decision.Adjustments.Consistency,
		ErrorAdjustment:       decision.Adjustments.ErrorRate,
		SpeedAdjustment:       decision.Adjustments.Speed,
		ModelUsed:             decision.ModelUsed,
		DecidedAt:             decision.Timestamp,
	}

	if n := len(dctx.RecentAttempts); n > 0 {
		latest := dctx.RecentAttempts[n-1].Correct
		row.LatestCorrect = &latest

		errCount := 0
		timeSum, timed := 0.0, 0
		for _, a := range dctx.RecentAttempts {
			if !a.Correct {
				errCount++
			}
			if a.TimeSpentSeconds > 0 {
				timeSum += a.TimeSpentSeconds
				timed++
			}
		}
		rate := float64(errCount) / float64(n)
		row.ErrorRate = &rate
		if timed > 0 {
			avg := timeSum / float64(timed)
			row.AvgTimeSpentSeconds = &avg
		}
	}

	if snapshot, err := json.Marshal(dctx.RecentAttempts); err == nil {
		row.WindowSnapshot = snapshot
	}

	if _, err := s.decisionLogRepo.Create(ctx, nil, []*types.AdaptiveDecisionLog{row}); err != nil {
		s.log.Error("Failed to append adaptive decision log",
			"user_id", dctx.UserID,
			"learning_language", dctx.LearningLanguage,
			"exercise_type", dctx.ExerciseType,
			"error", err,
		)
	}
}

// toEngineAttempts reverses the reader's newest-first order into the
// oldest-first order the rules expect.
func toEngineAttempts(recent []*types.ExerciseAttempt) []engine.Attempt {
	attempts := make([]engine.Attempt, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		attempts = append(attempts, engine.Attempt{
			Correct:          recent[i].Correct,
			TimeSpentSeconds: recent[i].TimeSpentSeconds,
			Timestamp:        recent[i].AttemptedAt,
		})
	}
	return attempts
}
