package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version        string
	modelAvailable bool
}

func NewHealthHandler(version string, modelAvailable bool) *HealthHandler {
	return &HealthHandler{version: version, modelAvailable: modelAvailable}
}

// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "adaptive-service",
		"version":          h.version,
		"mlModelAvailable": h.modelAvailable,
		"timestamp":        time.Now().UTC(),
	})
}
