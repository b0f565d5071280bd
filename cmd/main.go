package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	redisclient "github.com/Libras-Play/adaptive-service/internal/clients/redis"
	"github.com/Libras-Play/adaptive-service/internal/db"
	"github.com/Libras-Play/adaptive-service/internal/engine"
	"github.com/Libras-Play/adaptive-service/internal/handlers"
	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/repos"
	"github.com/Libras-Play/adaptive-service/internal/server"
	"github.com/Libras-Play/adaptive-service/internal/services"
	"github.com/Libras-Play/adaptive-service/internal/utils"
)

const serviceVersion = "1.0.0"

func main() {
	// .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Engine config
	log.Info("Loading engine configuration from main...")
	cfg := engine.DefaultConfig()
	cfg.MinDifficulty = utils.GetEnvAsInt("MIN_DIFFICULTY", cfg.MinDifficulty, log)
	cfg.MaxDifficulty = utils.GetEnvAsInt("MAX_DIFFICULTY", cfg.MaxDifficulty, log)
	cfg.ConsecutiveCorrectThreshold = utils.GetEnvAsInt("CONSECUTIVE_CORRECT_THRESHOLD", cfg.ConsecutiveCorrectThreshold, log)
	cfg.ErrorRateThreshold = utils.GetEnvAsFloat("ERROR_RATE_THRESHOLD", cfg.ErrorRateThreshold, log)
	cfg.FastResponseSeconds = utils.GetEnvAsFloat("FAST_RESPONSE_TIME", cfg.FastResponseSeconds, log)
	cfg.HighAccuracyThreshold = utils.GetEnvAsFloat("HIGH_ACCURACY_THRESHOLD", cfg.HighAccuracyThreshold, log)
	cfg.AttemptWindow = utils.GetEnvAsInt("ATTEMPT_WINDOW", cfg.AttemptWindow, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional window cache)
	var attemptCache redisclient.AttemptCache
	if cache, err := redisclient.NewAttemptCache(log); err != nil {
		log.Warn("Attempt cache unavailable, reading history from Postgres only", "error", err)
	} else {
		attemptCache = cache
		defer attemptCache.Close()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	attemptRepo := repos.NewExerciseAttemptRepo(thePG, log)
	decisionLogRepo := repos.NewAdaptiveDecisionLogRepo(thePG, log)

	// Strategy: picked once here, never per call.
	var strategy engine.Strategy
	modelAvailable := false
	if utils.GetEnvAsBool("ML_MODEL_ENABLED", false, log) {
		modelPath := utils.GetEnv("ML_MODEL_PATH", "", log)
		modelStrategy, err := engine.NewModelBasedStrategy(modelPath, log)
		if err != nil {
			log.Warn("Model strategy unavailable, falling back to rules", "error", err)
		} else {
			strategy = modelStrategy
			modelAvailable = true
		}
	}
	if strategy == nil {
		ruleStrategy, err := engine.NewRuleBasedStrategy(cfg, log)
		if err != nil {
			log.Error("Could not init rule strategy", "error", err)
			os.Exit(1)
		}
		strategy = ruleStrategy
	}

	// Services
	log.Info("Setting up Services from main...")
	historyService := services.NewAttemptHistoryService(thePG, log, attemptRepo, attemptCache, cfg.AttemptWindow)
	difficultyService := services.NewDifficultyService(thePG, log, cfg, strategy, historyService, decisionLogRepo)

	// Handlers
	adaptiveHandler := handlers.NewAdaptiveHandler(log, difficultyService, historyService)
	healthHandler := handlers.NewHealthHandler(serviceVersion, modelAvailable)

	// Router
	log.Info("Setting up router from main...")
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	router := server.NewRouter(server.RouterConfig{
		AdaptiveHandler: adaptiveHandler,
		HealthHandler:   healthHandler,
		AllowOrigins:    allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
