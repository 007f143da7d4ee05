// cmd/api-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobtrack/internal/api"
	commonaws "jobtrack/internal/common/aws"
	"jobtrack/internal/common/config"
	"jobtrack/internal/common/database"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/common/ratelimit"
	"jobtrack/internal/notify"
	"jobtrack/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if err := store.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	// --- Init Redis with retry (optional) ---
	var limiter *ratelimit.Limiter
	if cfg.Database.Redis.Enabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		if cfg.RateLimit.Enabled {
			limiter = ratelimit.New(redisClient.Client, cfg.RateLimit.RequestsPerMinute, time.Minute, log)
			zapLog.Info("Rate limiter enabled",
				zap.Int("requestsPerMinute", cfg.RateLimit.RequestsPerMinute))
		}
	}

	// --- Init Notification Channels (optional) ---
	var listener api.TransitionListener
	if cfg.Notifications.Enabled {
		var sesClient notify.SESService
		var snsClient notify.SNSService
		if cfg.Notifications.SES.Enabled {
			client, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
			if err != nil {
				zapLog.Fatal("SES client failed", zap.Error(err))
			}
			sesClient = client
		}
		if cfg.Notifications.SNS.Enabled {
			client, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
			if err != nil {
				zapLog.Fatal("SNS client failed", zap.Error(err))
			}
			snsClient = client
		}
		listener = notify.New(cfg.Notifications, sesClient, snsClient, log)
		zapLog.Info("Notifications enabled",
			zap.Bool("ses", cfg.Notifications.SES.Enabled),
			zap.Bool("sns", cfg.Notifications.SNS.Enabled),
		)
	}

	// --- Wire Stores and HTTP Server ---
	applications := store.NewApplicationStore(pg.DB, log)
	analytics := store.NewAnalyticsStore(pg.DB, log)

	server := api.NewServer(cfg, api.Deps{
		Applications:  applications,
		Analytics:     analytics,
		Listener:      listener,
		Limiter:       limiter,
		Observability: obs,
		DB:            pg,
	}, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// --- Ops Server: metrics, pprof, liveness ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.OpsPort)
		zapLog.Info("Ops server listening", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Ops server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...",
			zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error during server shutdown", zap.Error(err))
		}
	}

	zapLog.Info("Api server stopped gracefully")
}
