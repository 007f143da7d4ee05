// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"jobtrack/internal/common/config"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/common/ratelimit"
)

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the public HTTP surface of the tracking service.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// Deps carries everything the router wires together. Listener, Limiter,
// and Observability are optional.
type Deps struct {
	Applications  ApplicationService
	Analytics     AnalyticsService
	Listener      TransitionListener
	Limiter       *ratelimit.Limiter
	Observability *observability.Observability
	DB            Pinger
}

func NewServer(cfg *config.Config, deps Deps, log logger.Logger) *Server {
	router := NewRouter(cfg, deps, log)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
		},
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// NewRouter builds the route table with the shared middleware stack. It is
// exported separately so tests can mount it on httptest servers.
func NewRouter(cfg *config.Config, deps Deps, log logger.Logger) *mux.Router {
	apps := NewApplicationHandler(deps.Applications, deps.Listener, log)
	analytics := NewAnalyticsHandler(deps.Analytics, log)

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware(log))
	router.Use(MetricsMiddleware(deps.Observability))
	if deps.Limiter != nil {
		router.Use(RateLimitMiddleware(deps.Limiter))
	}
	router.Use(TimeoutMiddleware(time.Duration(cfg.Server.RequestTimeout) * time.Millisecond))

	router.HandleFunc("/applications", apps.Create).Methods(http.MethodPost)
	router.HandleFunc("/applications", apps.List).Methods(http.MethodGet)
	router.HandleFunc("/applications/{id}", apps.Get).Methods(http.MethodGet)
	router.HandleFunc("/applications/{id}", apps.Update).Methods(http.MethodPatch)
	router.HandleFunc("/applications/{id}", apps.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/applications/{id}/status", apps.Transition).Methods(http.MethodPost)
	router.HandleFunc("/applications/{id}/history", apps.History).Methods(http.MethodGet)

	router.HandleFunc("/analytics/summary", analytics.Summary).Methods(http.MethodGet)
	router.HandleFunc("/analytics/timeline", analytics.Timeline).Methods(http.MethodGet)

	router.HandleFunc("/health", healthHandler(deps.DB)).Methods(http.MethodGet)

	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"reason": "database unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping", nil)
	return s.httpServer.Shutdown(ctx)
}
