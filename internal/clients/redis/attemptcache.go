package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Libras-Play/adaptive-service/internal/logger"
	"github.com/Libras-Play/adaptive-service/internal/types"
)

const attemptCacheTTL = 24 * time.Hour

// AttemptCache keeps the recent attempt window per learning track as a
// redis list, newest first, so the hot path of every evaluation skips
// Postgres. It is an optimization only; callers must fall back to the repo
// when it fails.
type AttemptCache interface {
	GetRecent(ctx context.Context, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error)
	Push(ctx context.Context, attempt *types.ExerciseAttempt, window int) error
	Close() error
}

type attemptCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewAttemptCache(log *logger.Logger) (AttemptCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &attemptCache{
		log: log.With("service", "RedisAttemptCache"),
		rdb: rdb,
	}, nil
}

func trackKey(userID, learningLanguage, exerciseType string) string {
	return fmt.Sprintf("adaptive:attempts:%s:%s:%s", userID, learningLanguage, exerciseType)
}

// GetRecent returns up to limit cached attempts, newest first. An empty
// slice means a cache miss, not an empty history.
func (c *attemptCache) GetRecent(ctx context.Context, userID, learningLanguage, exerciseType string, limit int) ([]*types.ExerciseAttempt, error) {
	raw, err := c.rdb.LRange(ctx, trackKey(userID, learningLanguage, exerciseType), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}

	attempts := make([]*types.ExerciseAttempt, 0, len(raw))
	for _, item := range raw {
		var a types.ExerciseAttempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("unmarshal cached attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	return attempts, nil
}

func (c *attemptCache) Push(ctx context.Context, attempt *types.ExerciseAttempt, window int) error {
	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}

	key := trackKey(attempt.UserID, attempt.LearningLanguage, attempt.ExerciseType)
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(window-1))
	pipe.Expire(ctx, key, attemptCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push attempt: %w", err)
	}
	return nil
}

func (c *attemptCache) Close() error {
	return c.rdb.Close()
}
