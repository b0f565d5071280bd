package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Libras-Play/adaptive-service/internal/engine"
	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/services"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

type fakeDifficultyService struct {
	decision *engine.Decision
	err      error
}

func (f *fakeDifficultyService) NextDifficulty(ctx context.Context, userID, learningLanguage, exerciseType string, currentDifficulty *int) (*engine.Decision, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

func (f *fakeDifficultyService) RecentDecisions(ctx context.Context, userID string, limit int) ([]*types.AdaptiveDecisionLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*types.AdaptiveDecisionLog{}, nil
}

type fakeHistoryService struct {
	err error
}

func (f *fakeHistoryService) GetRecentAttempts(ctx context.Context, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error) {
	return nil, nil
}

func (f *fakeHistoryService) RecordAttempt(ctx context.Context, attempt *types.ExerciseAttempt) (*types.ExerciseAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return attempt, nil
}

func newTestRouter(difficultySvc services.DifficultyService, historySvc services.AttemptHistoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdaptiveHandler(logger.NewNop(), difficultySvc, historySvc)
	router := gin.New()
	router.POST("/api/v1/next-difficulty", h.NextDifficulty)
	router.POST("/api/v1/attempts", h.RecordAttempt)
	router.GET("/api/v1/decisions/:user_id", h.RecentDecisions)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNextDifficultyEndpoint_OK(t *testing.T) {
	decision := &engine.Decision{
		CurrentDifficulty: 2,
		NextDifficulty:    3,
		MasteryScore:      0.8,
		Reason:            "consecutive correct answers",
		Adjustments:       engine.Adjustments{Consistency: 1},
		Timestamp:         time.Now().UTC(),
	}
	router := newTestRouter(&fakeDifficultyService{decision: decision}, &fakeHistoryService{})

	w := postJSON(t, router, "/api/v1/next-difficulty", gin.H{
		"user_id":           "u1",
		"learning_language": "LSB",
		"exercise_type":     "test",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["user_id"] != "u1" {
		t.Fatalf("expected user_id echoed, got %v", resp["user_id"])
	}
	if resp["nextDifficulty"] != float64(3) {
		t.Fatalf("expected nextDifficulty 3, got %v", resp["nextDifficulty"])
	}
	if resp["modelUsed"] != false {
		t.Fatalf("expected modelUsed=false, got %v", resp["modelUsed"])
	}
	adjustments, ok := resp["adjustments"].(map[string]any)
	if !ok || adjustments["consistency"] != float64(1) {
		t.Fatalf("expected adjustments breakdown, got %v", resp["adjustments"])
	}
}

func TestNextDifficultyEndpoint_MissingFields(t *testing.T) {
	router := newTestRouter(&fakeDifficultyService{}, &fakeHistoryService{})
	w := postJSON(t, router, "/api/v1/next-difficulty", gin.H{"user_id": "u1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNextDifficultyEndpoint_ValidationError(t *testing.T) {
	svc := &fakeDifficultyService{err: &engine.ValidationError{Field: "current_difficulty", Msg: "9 outside [1,5]"}}
	router := newTestRouter(svc, &fakeHistoryService{})
	w := postJSON(t, router, "/api/v1/next-difficulty", gin.H{
		"user_id":            "u1",
		"learning_language":  "LSB",
		"current_difficulty": 9,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNextDifficultyEndpoint_HistoryUnavailable(t *testing.T) {
	svc := &fakeDifficultyService{err: fmt.Errorf("%w: timeout", services.ErrHistoryUnavailable)}
	router := newTestRouter(svc, &fakeHistoryService{})
	w := postJSON(t, router, "/api/v1/next-difficulty", gin.H{
		"user_id":           "u1",
		"learning_language": "LSB",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRecordAttemptEndpoint_Created(t *testing.T) {
	router := newTestRouter(&fakeDifficultyService{}, &fakeHistoryService{})
	w := postJSON(t, router, "/api/v1/attempts", gin.H{
		"user_id":            "u1",
		"learning_language":  "LSB",
		"correct":            true,
		"time_spent_seconds": 7.5,
		"difficulty":         2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecentDecisionsEndpoint_BadLimit(t *testing.T) {
	router := newTestRouter(&fakeDifficultyService{}, &fakeHistoryService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions/u1?limit=nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
