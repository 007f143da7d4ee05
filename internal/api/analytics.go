// internal/api/analytics.go
package api

import (
	"context"
	"net/http"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/models"
	"jobtrack/internal/store"
)

// AnalyticsService is the read-only aggregate surface for /analytics.
type AnalyticsService interface {
	Summary(ctx context.Context, includeDeleted bool) (*models.AnalyticsSummary, error)
	Timeline(ctx context.Context, days int, includeDeleted bool) (*models.Timeline, error)
}

type AnalyticsHandler struct {
	service AnalyticsService
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewAnalyticsHandler(service AnalyticsService, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := queryBool(r, "include_deleted")
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), includeDeleted)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := queryBool(r, "include_deleted")
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	days, hasDays, err := queryInt(r, "days")
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if !hasDays {
		days = store.TimelineDefaultDays
	}

	timeline, err := h.service.Timeline(r.Context(), days, includeDeleted)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}
