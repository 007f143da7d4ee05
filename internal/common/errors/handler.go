// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrorHandler translates errors into HTTP responses with standardized bodies.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
}

// WriteResponse normalizes err, logs it, and writes the mapped HTTP response.
// Domain errors log at warn; everything else at error.
func (h *ErrorHandler) WriteResponse(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"code":   string(stdErr.Code),
		"status": status,
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(stdErr.Message, fields)
	} else {
		h.logger.Warn(stdErr.Message, fields)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   detailsFor(stdErr, status),
		Retryable: stdErr.Retryable,
	})
}

// detailsFor hides internal details on 5xx responses.
func detailsFor(stdErr *StandardError, status int) string {
	if status >= http.StatusInternalServerError {
		return ""
	}
	return stdErr.Details
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
