package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Libras-Play/adaptive-service/internal/engine"
	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/services"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

type AdaptiveHandler struct {
	log           *logger.Logger
	difficultySvc services.DifficultyService
	historySvc    services.AttemptHistoryService
}

func NewAdaptiveHandler(log *logger.Logger, difficultySvc services.DifficultyService, historySvc services.AttemptHistoryService) *AdaptiveHandler {
	return &AdaptiveHandler{
		log:           log.With("handler", "AdaptiveHandler"),
		difficultySvc: difficultySvc,
		historySvc:    historySvc,
	}
}

type nextDifficultyRequest struct {
	UserID            string `json:"user_id" binding:"required"`
	LearningLanguage  string `json:"learning_language" binding:"required"`
	ExerciseType      string `json:"exercise_type"`
	CurrentDifficulty *int   `json:"current_difficulty"`
}

type nextDifficultyResponse struct {
	UserID string `json:"user_id"`
	*engine.Decision
}

// POST /api/v1/next-difficulty
// Recommend the next difficulty level for a learning track.
func (h *AdaptiveHandler) NextDifficulty(c *gin.Context) {
	var req nextDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	decision, err := h.difficultySvc.NextDifficulty(c.Request.Context(), req.UserID, req.LearningLanguage, req.ExerciseType, req.CurrentDifficulty)
	if err != nil {
		h.respondDecisionError(c, err)
		return
	}

	RespondOK(c, nextDifficultyResponse{UserID: req.UserID, Decision: decision})
}

type recordAttemptRequest struct {
	UserID           string     `json:"user_id" binding:"required"`
	LearningLanguage string     `json:"learning_language" binding:"required"`
	ExerciseType     string     `json:"exercise_type"`
	Correct          bool       `json:"correct"`
	TimeSpentSeconds float64    `json:"time_spent_seconds"`
	Difficulty       int        `json:"difficulty"`
	AttemptedAt      *time.Time `json:"attempted_at"`
}

// POST /api/v1/attempts
// Record one exercise attempt into the history store.
func (h *AdaptiveHandler) RecordAttempt(c *gin.Context) {
	var req recordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	attempt := &types.ExerciseAttempt{
		UserID:           req.UserID,
		LearningLanguage: req.LearningLanguage,
		ExerciseType:     req.ExerciseType,
		Correct:          req.Correct,
		TimeSpentSeconds: req.TimeSpentSeconds,
		Difficulty:       req.Difficulty,
	}
	if req.AttemptedAt != nil {
		attempt.AttemptedAt = *req.AttemptedAt
	}

	created, err := h.historySvc.RecordAttempt(c.Request.Context(), attempt)
	if err != nil {
		h.respondDecisionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/v1/decisions/:user_id
// Recent audit rows for a user, newest first. This is the export surface
// for the ML training dataset.
func (h *AdaptiveHandler) RecentDecisions(c *gin.Context) {
	userID := c.Param("user_id")
	limit := 50
	if q := c.Query("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	decisions, err := h.difficultySvc.RecentDecisions(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondDecisionError(c, err)
		return
	}
	RespondOK(c, decisions)
}

func (h *AdaptiveHandler) respondDecisionError(c *gin.Context, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondError(c, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, services.ErrHistoryUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "history_unavailable", err)
	default:
		h.log.Error("Unhandled adaptive error", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
