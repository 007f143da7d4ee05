// internal/api/applications.go

// Package api exposes the tracking service over HTTP: application CRUD,
// status transitions, history, and analytics, plus the request middleware
// stack shared by all routes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
)

// maxBodyBytes bounds request payloads; application records are small.
const maxBodyBytes = 1 << 20

// ApplicationService is the store surface the handlers depend on.
type ApplicationService interface {
	Create(ctx context.Context, input *models.CreateApplicationInput) (*models.Application, error)
	Get(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Application, error)
	UpdateFields(ctx context.Context, id int64, input *models.UpdateApplicationInput) (*models.Application, error)
	TransitionStatus(ctx context.Context, id int64, target models.Status, note *string) (*models.TransitionResult, error)
	SoftDelete(ctx context.Context, id int64) error
	ListHistory(ctx context.Context, id int64) ([]models.StatusHistoryEntry, error)
}

// TransitionListener is notified after a transition commits. Listeners run
// on the request goroutine and must not block; slow work goes async inside
// the listener.
type TransitionListener interface {
	StatusChanged(ctx context.Context, app *models.Application, result *models.TransitionResult)
}

// ApplicationHandler serves the /applications routes.
type ApplicationHandler struct {
	service  ApplicationService
	listener TransitionListener
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewApplicationHandler(service ApplicationService, listener TransitionListener, log logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service:  service,
		listener: listener,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// listResponse wraps a page of applications with the paging actually used.
type listResponse struct {
	Items  []models.Application `json:"items"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

// transitionBody is the status-change request payload.
type transitionBody struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// transitionResponse reports a committed transition with the fresh record.
type transitionResponse struct {
	From        models.Status       `json:"from"`
	To          models.Status       `json:"to"`
	Application *models.Application `json:"application"`
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if err := validation.ValidateCreateApplication(body); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	var input models.CreateApplicationInput
	if err := json.Unmarshal(body, &input); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	app, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	includeDeleted, err := queryBool(r, "include_deleted")
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}

	filter := models.ListFilter{
		IncludeDeleted: includeDeleted,
		Offset:         offset,
		Limit:          limit,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("source"); raw != "" {
		filter.Source = &raw
	}

	apps, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: apps, Offset: offset, Limit: limit})
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if err := validation.ValidateUpdateApplication(body); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	var input models.UpdateApplicationInput
	if err := json.Unmarshal(body, &input); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	app, err := h.service.UpdateFields(r.Context(), id, &input)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if err := validation.ValidateTransition(body); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	var payload transitionBody
	if err := json.Unmarshal(body, &payload); err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}
	target, err := models.ParseStatus(payload.Status)
	if err != nil {
		h.errors.WriteResponse(w, r, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	result, err := h.service.TransitionStatus(r.Context(), id, target, payload.Note)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeInvalidTransition {
			metrics.StatusTransitionsRejected.WithLabelValues(
				metadataString(stdErr, "from"), metadataString(stdErr, "to")).Inc()
		}
		h.errors.WriteResponse(w, r, err)
		return
	}
	metrics.StatusTransitionsApplied.WithLabelValues(string(result.From), string(result.To)).Inc()

	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if h.listener != nil {
		h.listener.StatusChanged(r.Context(), app, result)
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		From:        result.From,
		To:          result.To,
		Application: app,
	})
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	metrics.ApplicationsSoftDeleted.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ApplicationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	entries, err := h.service.ListHistory(r.Context(), id)
	if err != nil {
		h.errors.WriteResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewValidationFailedError("unable to read request body")
	}
	if len(body) == 0 {
		return nil, apperrors.NewValidationFailedError("request body is required")
	}
	return body, nil
}

func metadataString(err *apperrors.StandardError, key string) string {
	if v, ok := err.Metadata[key].(string); ok {
		return v
	}
	return "unknown"
}
