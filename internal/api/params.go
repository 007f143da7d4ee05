// internal/api/params.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/models"
)

// pathID extracts the {id} route variable as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationFailedError(fmt.Sprintf("invalid application id %q", raw))
	}
	return id, nil
}

// queryBool parses an optional boolean query parameter, defaulting to false.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationFailedError(fmt.Sprintf("%s must be a boolean, got %q", name, raw))
	}
	return v, nil
}

func queryInt(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperrors.NewValidationFailedError(fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return v, true, nil
}

// pagination resolves offset and limit from either page/size (1-indexed
// pages) or skip/limit (raw offsets). The two families cannot be mixed.
func pagination(r *http.Request) (offset, limit int, err error) {
	page, hasPage, err := queryInt(r, "page")
	if err != nil {
		return 0, 0, err
	}
	size, hasSize, err := queryInt(r, "size")
	if err != nil {
		return 0, 0, err
	}
	skip, hasSkip, err := queryInt(r, "skip")
	if err != nil {
		return 0, 0, err
	}
	rawLimit, hasLimit, err := queryInt(r, "limit")
	if err != nil {
		return 0, 0, err
	}

	if (hasPage || hasSize) && (hasSkip || hasLimit) {
		return 0, 0, apperrors.NewValidationFailedError("use either page/size or skip/limit, not both")
	}

	switch {
	case hasPage || hasSize:
		if !hasPage {
			page = 1
		}
		if !hasSize {
			size = models.DefaultPageSize
		}
		if page < 1 {
			return 0, 0, apperrors.NewValidationFailedError("page must be >= 1")
		}
		if size < 1 || size > models.MaxPageSize {
			return 0, 0, apperrors.NewValidationFailedError(
				fmt.Sprintf("size must be in [1, %d]", models.MaxPageSize))
		}
		return (page - 1) * size, size, nil

	case hasSkip || hasLimit:
		if !hasLimit {
			rawLimit = models.DefaultPageSize
		}
		if skip < 0 {
			return 0, 0, apperrors.NewValidationFailedError("skip must be >= 0")
		}
		if rawLimit < 1 || rawLimit > models.MaxPageSize {
			return 0, 0, apperrors.NewValidationFailedError(
				fmt.Sprintf("limit must be in [1, %d]", models.MaxPageSize))
		}
		return skip, rawLimit, nil

	default:
		return 0, models.DefaultPageSize, nil
	}
}
