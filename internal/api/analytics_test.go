// internal/api/analytics_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/models"
	"jobtrack/internal/store"
)

func TestAnalyticsSummary_ReturnsAggregates(t *testing.T) {
	analytics := &stubAnalyticsService{
		summaryFn: func(ctx context.Context, includeDeleted bool) (*models.AnalyticsSummary, error) {
			assert.True(t, includeDeleted)
			return &models.AnalyticsSummary{
				TotalApplications: 4,
				ByStatus:          map[models.Status]int{models.StatusApplied: 4},
				BySource:          map[string]int{"UNKNOWN": 4},
				InterviewRate:     0.0,
				IncludeDeleted:    true,
			}, nil
		},
	}
	router := newTestRouter(t, &stubApplicationService{}, analytics, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/summary?include_deleted=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["total_applications"])
	assert.Equal(t, true, body["include_deleted"])
	// The rate is present even when zero.
	assert.Contains(t, body, "interview_rate")
}

func TestAnalyticsSummary_BadBoolIs422(t *testing.T) {
	router := newTestRouter(t, &stubApplicationService{}, &stubAnalyticsService{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/summary?include_deleted=maybe", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyticsTimeline_DefaultsToThirtyDays(t *testing.T) {
	var gotDays int
	analytics := &stubAnalyticsService{
		timelineFn: func(ctx context.Context, days int, includeDeleted bool) (*models.Timeline, error) {
			gotDays = days
			return &models.Timeline{Days: days, Series: []models.TimelinePoint{}}, nil
		},
	}
	router := newTestRouter(t, &stubApplicationService{}, analytics, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/timeline", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.TimelineDefaultDays, gotDays)
}

func TestAnalyticsTimeline_ExplicitWindowIsPassedThrough(t *testing.T) {
	var gotDays int
	analytics := &stubAnalyticsService{
		timelineFn: func(ctx context.Context, days int, includeDeleted bool) (*models.Timeline, error) {
			gotDays = days
			return &models.Timeline{Days: days, Series: []models.TimelinePoint{}}, nil
		},
	}
	router := newTestRouter(t, &stubApplicationService{}, analytics, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/timeline?days=90", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 90, gotDays)
}

func TestAnalyticsTimeline_OutOfRangeWindowIs422(t *testing.T) {
	analytics := &stubAnalyticsService{
		timelineFn: func(ctx context.Context, days int, includeDeleted bool) (*models.Timeline, error) {
			return nil, apperrors.NewValidationFailedError("days must be in [7, 365], got 2")
		},
	}
	router := newTestRouter(t, &stubApplicationService{}, analytics, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/timeline?days=2", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyticsTimeline_NonNumericDaysIs422(t *testing.T) {
	router := newTestRouter(t, &stubApplicationService{}, &stubAnalyticsService{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/analytics/timeline?days=soon", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
