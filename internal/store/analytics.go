// internal/store/analytics.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/models"
)

const (
	// TimelineMinDays and TimelineMaxDays bound the timeline window.
	TimelineMinDays = 7
	TimelineMaxDays = 365
	// TimelineDefaultDays is used when the caller does not pick a window.
	TimelineDefaultDays = 30
)

// AnalyticsStore computes aggregates over the live record set on demand.
// It reads the same tables the ApplicationStore writes; there is no cache,
// so every answer reflects the snapshot at query time.
type AnalyticsStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAnalyticsStore(db *sql.DB, log logger.Logger) *AnalyticsStore {
	return &AnalyticsStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "analytics"}),
	}
}

// Summary aggregates counts and rates over applications.
func (s *AnalyticsStore) Summary(ctx context.Context, includeDeleted bool) (*models.AnalyticsSummary, error) {
	cond := deletionCond(includeDeleted)

	var total int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM applications WHERE %s`, cond)).Scan(&total)
	if err != nil {
		return nil, s.wrapDBError("summary total", err)
	}

	byStatus, err := s.countByStatus(ctx, cond)
	if err != nil {
		return nil, err
	}

	bySource, err := s.countBySource(ctx, cond)
	if err != nil {
		return nil, err
	}

	interview := models.InterviewStatuses()
	var interviewCount int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM applications WHERE %s AND current_status IN ($1, $2, $3)`, cond),
		interview[0], interview[1], interview[2]).Scan(&interviewCount)
	if err != nil {
		return nil, s.wrapDBError("summary interview count", err)
	}

	var last7 int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM applications WHERE %s AND applied_date IS NOT NULL AND applied_date >= $1`, cond),
		models.Today().AddDays(-7)).Scan(&last7)
	if err != nil {
		return nil, s.wrapDBError("summary last 7 days", err)
	}

	interviewRate := 0.0
	if total > 0 {
		interviewRate = float64(interviewCount) / float64(total)
	}

	return &models.AnalyticsSummary{
		TotalApplications: total,
		ByStatus:          byStatus,
		BySource:          bySource,
		InterviewCount:    interviewCount,
		InterviewRate:     interviewRate,
		AppliedLast7Days:  last7,
		IncludeDeleted:    includeDeleted,
	}, nil
}

// Timeline returns a dense daily series of application counts keyed on
// applied_date over the last days calendar days, gaps filled with zero.
func (s *AnalyticsStore) Timeline(ctx context.Context, days int, includeDeleted bool) (*models.Timeline, error) {
	if days < TimelineMinDays || days > TimelineMaxDays {
		return nil, apperrors.NewValidationFailedError(
			fmt.Sprintf("days must be in [%d, %d], got %d", TimelineMinDays, TimelineMaxDays, days))
	}

	today := models.Today()
	start := today.AddDays(-(days - 1))
	cond := deletionCond(includeDeleted)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT applied_date, COUNT(*)
			FROM applications
			WHERE %s AND applied_date IS NOT NULL AND applied_date >= $1
			GROUP BY applied_date
			ORDER BY applied_date ASC`, cond),
		start)
	if err != nil {
		return nil, s.wrapDBError("timeline", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day models.Date
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, s.wrapDBError("timeline", err)
		}
		counts[day.String()] = count
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapDBError("timeline", err)
	}

	series := make([]models.TimelinePoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDays(i).String()
		series = append(series, models.TimelinePoint{Date: day, Count: counts[day]})
	}

	return &models.Timeline{
		Days:           days,
		From:           start.String(),
		To:             today.String(),
		Series:         series,
		IncludeDeleted: includeDeleted,
	}, nil
}

func (s *AnalyticsStore) countByStatus(ctx context.Context, cond string) (map[models.Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT current_status, COUNT(*) FROM applications WHERE %s GROUP BY current_status`, cond))
	if err != nil {
		return nil, s.wrapDBError("summary by status", err)
	}
	defer rows.Close()

	out := make(map[models.Status]int)
	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, s.wrapDBError("summary by status", err)
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapDBError("summary by status", err)
	}
	return out, nil
}

func (s *AnalyticsStore) countBySource(ctx context.Context, cond string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(source, 'UNKNOWN'), COUNT(*) FROM applications WHERE %s GROUP BY COALESCE(source, 'UNKNOWN')`, cond))
	if err != nil {
		return nil, s.wrapDBError("summary by source", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, s.wrapDBError("summary by source", err)
		}
		out[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapDBError("summary by source", err)
	}
	return out, nil
}

// deletionCond returns the WHERE fragment excluding soft-deleted rows
// unless the caller opted in.
func deletionCond(includeDeleted bool) string {
	if includeDeleted {
		return "TRUE"
	}
	return "is_deleted = FALSE"
}

func (s *AnalyticsStore) wrapDBError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(operation)
	}
	return apperrors.NewQueryExecutionFailedError(operation, err)
}
