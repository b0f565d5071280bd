package repos

import (
	"context"
	"testing"
	"time"

	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

func TestAdaptiveDecisionLogRepo_CreateAndGetRecent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdaptiveDecisionLogRepo(db, logger.NewNop())

	base := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	rate := 0.2
	rows := []*types.AdaptiveDecisionLog{}
	for i := 0; i < 5; i++ {
		rows = append(rows, &types.AdaptiveDecisionLog{
			UserID:            "u1",
			LearningLanguage:  "LSB",
			ExerciseType:      "test",
			CurrentDifficulty: 2,
			NextDifficulty:    3,
			MasteryScore:      0.8,
			Reason:            "consecutive correct answers",
			ErrorRate:         &rate,
			ModelUsed:         false,
			WindowSnapshot:    []byte(`[{"correct":true,"timeSpentSeconds":4}]`),
			DecidedAt:         base.Add(time.Duration(i) * time.Hour),
		})
	}
	if _, err := repo.Create(context.Background(), nil, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetRecentByUser(context.Background(), nil, "u1", 3)
	if err != nil {
		t.Fatalf("GetRecentByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if !got[0].DecidedAt.After(got[2].DecidedAt) {
		t.Fatalf("rows not newest first")
	}
	if got[0].ErrorRate == nil || *got[0].ErrorRate != 0.2 {
		t.Fatalf("error rate not round-tripped: %v", got[0].ErrorRate)
	}
	if len(got[0].WindowSnapshot) == 0 {
		t.Fatalf("window snapshot not round-tripped")
	}
}

func TestAdaptiveDecisionLogRepo_EmptyUserReturnsNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdaptiveDecisionLogRepo(db, logger.NewNop())

	got, err := repo.GetRecentByUser(context.Background(), nil, "", 10)
	if err != nil {
		t.Fatalf("GetRecentByUser: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows for empty user id, got %d", len(got))
	}
}
