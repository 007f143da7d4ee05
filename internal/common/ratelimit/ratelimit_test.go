// internal/common/ratelimit/ratelimit_test.go
package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"jobtrack/internal/common/logger"
)

func TestAllow_UnderTheLimit(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	limiter := New(client, 5, time.Minute, logger.NewTestLogger(t))

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"), "request %d", i+1)
	}
}

func TestAllow_BlocksOverTheLimit(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	limiter := New(client, 3, time.Minute, logger.NewTestLogger(t))

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	}
	assert.False(t, limiter.Allow(context.Background(), "10.0.0.1"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	limiter := New(client, 1, time.Minute, logger.NewTestLogger(t))

	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.False(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.True(t, limiter.Allow(context.Background(), "10.0.0.2"))
}

func TestAllow_WindowResetClearsTheBudget(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	limiter := New(client, 1, time.Minute, logger.NewTestLogger(t))

	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.False(t, limiter.Allow(context.Background(), "10.0.0.1"))

	// Expiring the counter simulates the window rolling over.
	srv.FastForward(2 * time.Minute)
	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
}

func TestAllow_RedisFailureFailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectIncr(`ratelimit:10\.0\.0\.1:\d+`).SetErr(assert.AnError)

	limiter := New(client, 1, time.Minute, logger.NewTestLogger(t))
	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
