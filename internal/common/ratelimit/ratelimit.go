// internal/common/ratelimit/ratelimit.go

// Package ratelimit implements a fixed-window request limiter over Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"jobtrack/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.Logger
}

// New builds a limiter allowing limit requests per window per key.
func New(client *redis.Client, limit int, window time.Duration, log logger.Logger) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		logger: log.WithFields(map[string]interface{}{"component": "ratelimit"}),
	}
}

// Allow reports whether the caller identified by key may proceed. Redis
// failures fail open: availability over strict limiting.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return true
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}

	return count <= int64(l.limit)
}
