// internal/store/analytics_test.go
package store

import (
	"context"
	"testing"

	"jobtrack/internal/common/logger"
	"jobtrack/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobtrack/internal/common/errors"
)

func newTestAnalytics(t *testing.T) (*AnalyticsStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := NewAnalyticsStore(db, logger.NewTestLogger(t))
	return store, mock, func() { db.Close() }
}

func expectSummaryQueries(mock sqlmock.Sqlmock, total int, statusRows, sourceRows *sqlmock.Rows, interviews, last7 int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(total))
	mock.ExpectQuery(`SELECT current_status, COUNT\(\*\) FROM applications`).
		WillReturnRows(statusRows)
	mock.ExpectQuery(`SELECT COALESCE\(source, 'UNKNOWN'\), COUNT\(\*\) FROM applications`).
		WillReturnRows(sourceRows)
	mock.ExpectQuery(`current_status IN \(\$1, \$2, \$3\)`).
		WithArgs(models.StatusHRInterview, models.StatusTechInterview, models.StatusCaseStudy).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(interviews))
	mock.ExpectQuery(`applied_date IS NOT NULL AND applied_date >= \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(last7))
}

func TestSummary_AggregatesAllSections(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	statusRows := sqlmock.NewRows([]string{"current_status", "count"}).
		AddRow(string(models.StatusApplied), 6).
		AddRow(string(models.StatusHRInterview), 3).
		AddRow(string(models.StatusOffer), 1)
	sourceRows := sqlmock.NewRows([]string{"source", "count"}).
		AddRow("linkedin", 7).
		AddRow("UNKNOWN", 3)
	expectSummaryQueries(mock, 10, statusRows, sourceRows, 3, 4)

	summary, err := store.Summary(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalApplications)
	assert.Equal(t, 6, summary.ByStatus[models.StatusApplied])
	assert.Equal(t, 3, summary.ByStatus[models.StatusHRInterview])
	assert.Equal(t, 7, summary.BySource["linkedin"])
	assert.Equal(t, 3, summary.BySource["UNKNOWN"])
	assert.Equal(t, 3, summary.InterviewCount)
	assert.InDelta(t, 0.3, summary.InterviewRate, 1e-9)
	assert.Equal(t, 4, summary.AppliedLast7Days)
	assert.False(t, summary.IncludeDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary_EmptyStoreHasZeroRateNotNaN(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	expectSummaryQueries(mock, 0,
		sqlmock.NewRows([]string{"current_status", "count"}),
		sqlmock.NewRows([]string{"source", "count"}),
		0, 0)

	summary, err := store.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalApplications)
	assert.Equal(t, 0.0, summary.InterviewRate)
	assert.Empty(t, summary.ByStatus)
	assert.Empty(t, summary.BySource)
}

func TestSummary_IncludeDeletedIsEchoed(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	expectSummaryQueries(mock, 1,
		sqlmock.NewRows([]string{"current_status", "count"}).AddRow(string(models.StatusWithdrawn), 1),
		sqlmock.NewRows([]string{"source", "count"}).AddRow("UNKNOWN", 1),
		0, 0)

	summary, err := store.Summary(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, summary.IncludeDeleted)
}

func TestTimeline_SeriesIsDenseAndAscending(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	today := models.Today()
	rows := sqlmock.NewRows([]string{"applied_date", "count"}).
		AddRow(today.AddDays(-3).Time, 2).
		AddRow(today.Time, 5)
	mock.ExpectQuery(`GROUP BY applied_date`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	timeline, err := store.Timeline(context.Background(), 7, false)
	require.NoError(t, err)

	assert.Equal(t, 7, timeline.Days)
	assert.Equal(t, today.AddDays(-6).String(), timeline.From)
	assert.Equal(t, today.String(), timeline.To)
	require.Len(t, timeline.Series, 7)

	// Every day is present in order, gaps filled with zero.
	for i, point := range timeline.Series {
		assert.Equal(t, today.AddDays(-6+i).String(), point.Date)
	}
	assert.Equal(t, 2, timeline.Series[3].Count)
	assert.Equal(t, 5, timeline.Series[6].Count)
	assert.Equal(t, 0, timeline.Series[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeline_RejectsOutOfRangeWindows(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	for _, days := range []int{0, 6, 366, -5} {
		_, err := store.Timeline(context.Background(), days, false)
		require.Error(t, err, "days=%d", days)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeline_BoundaryWindowsAreAccepted(t *testing.T) {
	store, mock, done := newTestAnalytics(t)
	defer done()

	for _, days := range []int{TimelineMinDays, TimelineMaxDays} {
		mock.ExpectQuery(`GROUP BY applied_date`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"applied_date", "count"}))

		timeline, err := store.Timeline(context.Background(), days, false)
		require.NoError(t, err)
		assert.Len(t, timeline.Series, days)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
