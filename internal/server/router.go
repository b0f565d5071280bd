package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Libras-Play/adaptive-service/internal/handlers"
)

type RouterConfig struct {
	AdaptiveHandler *handlers.AdaptiveHandler
	HealthHandler   *handlers.HealthHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/health", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/next-difficulty", cfg.AdaptiveHandler.NextDifficulty)
		api.POST("/attempts", cfg.AdaptiveHandler.RecordAttempt)
		api.GET("/decisions/:user_id", cfg.AdaptiveHandler.RecentDecisions)
	}

	return router
}
