// internal/store/applications.go

// Package store implements the persistence layer: the application record
// store, its append-only status history, and the analytics read path.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/models"
)

const applicationColumns = `id, company, position, location, job_type, source, applied_date, notes, current_status, is_deleted, created_at, updated_at`

// ApplicationStore owns the applications table and its history ledger.
// Every mutation pairs the record write with the ledger append in one
// transaction; a failure of either persists neither.
type ApplicationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// Create inserts a new application. Status is forced to APPLIED and one
// "created" history entry is appended in the same transaction.
func (s *ApplicationStore) Create(ctx context.Context, input *models.CreateApplicationInput) (*models.Application, error) {
	if strings.TrimSpace(input.Company) == "" || strings.TrimSpace(input.Position) == "" {
		return nil, apperrors.NewValidationFailedError("company and position must be non-empty")
	}
	if input.JobType != nil && !models.ValidJobType(*input.JobType) {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown job_type %q", *input.JobType))
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.wrapDBError("create application", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO applications (
			company, position, location, job_type, source, applied_date, notes,
			current_status, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $9)
		RETURNING id`,
		input.Company,
		input.Position,
		input.Location,
		input.JobType,
		input.Source,
		input.AppliedDate,
		input.Notes,
		models.StatusApplied,
		now,
	).Scan(&id)
	if err != nil {
		return nil, s.wrapDBError("create application", err)
	}

	note := "created"
	if err := appendHistoryTx(ctx, tx, id, models.StatusApplied, &note, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, s.wrapDBError("create application", err)
	}
	committed = true

	s.logger.Info("application created", map[string]interface{}{
		"applicationId": id,
		"company":       input.Company,
		"position":      input.Position,
	})

	return &models.Application{
		ID:            id,
		Company:       input.Company,
		Position:      input.Position,
		Location:      input.Location,
		JobType:       input.JobType,
		Source:        input.Source,
		AppliedDate:   input.AppliedDate,
		Notes:         input.Notes,
		CurrentStatus: models.StatusApplied,
		IsDeleted:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Get returns the application regardless of its deleted flag.
func (s *ApplicationStore) Get(ctx context.Context, id int64) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewApplicationNotFoundError(id)
		}
		return nil, s.wrapDBError("get application", err)
	}
	return app, nil
}

// List returns applications ordered by updated_at descending. Deleted
// records are excluded unless the filter opts in.
func (s *ApplicationStore) List(ctx context.Context, filter models.ListFilter) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`

	var conds []string
	var args []interface{}
	if !filter.IncludeDeleted {
		conds = append(conds, "is_deleted = FALSE")
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("current_status = $%d", len(args)))
	}
	if filter.Source != nil {
		args = append(args, *filter.Source)
		conds = append(conds, fmt.Sprintf("source = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrapDBError("list applications", err)
	}
	defer rows.Close()

	apps := make([]models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, s.wrapDBError("list applications", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapDBError("list applications", err)
	}
	return apps, nil
}

// UpdateFields applies a partial update to non-status fields. Soft-deleted
// records are immutable and report NotFound, same as absent ids.
func (s *ApplicationStore) UpdateFields(ctx context.Context, id int64, input *models.UpdateApplicationInput) (*models.Application, error) {
	if input.Empty() {
		return s.getActive(ctx, id)
	}
	if input.Company != nil && strings.TrimSpace(*input.Company) == "" {
		return nil, apperrors.NewValidationFailedError("company must be non-empty")
	}
	if input.Position != nil && strings.TrimSpace(*input.Position) == "" {
		return nil, apperrors.NewValidationFailedError("position must be non-empty")
	}
	if input.JobType != nil && !models.ValidJobType(*input.JobType) {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown job_type %q", *input.JobType))
	}

	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Company != nil {
		set("company", *input.Company)
	}
	if input.Position != nil {
		set("position", *input.Position)
	}
	if input.Location != nil {
		set("location", *input.Location)
	}
	if input.JobType != nil {
		set("job_type", *input.JobType)
	}
	if input.Source != nil {
		set("source", *input.Source)
	}
	if input.AppliedDate != nil {
		set("applied_date", *input.AppliedDate)
	}
	if input.Notes != nil {
		set("notes", *input.Notes)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE applications SET %s WHERE id = $%d AND is_deleted = FALSE RETURNING `+applicationColumns,
		strings.Join(sets, ", "), len(args))

	row := s.db.QueryRowContext(ctx, query, args...)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewApplicationNotFoundError(id)
		}
		return nil, s.wrapDBError("update application", err)
	}
	return app, nil
}

// TransitionStatus moves the application to target if the policy allows it
// from the current status, appending one history entry atomically. The row
// is locked for the duration of the check-then-act, and the update is
// additionally guarded on the status it was checked against.
func (s *ApplicationStore) TransitionStatus(ctx context.Context, id int64, target models.Status, note *string) (*models.TransitionResult, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown status %q", target))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.wrapDBError("transition status", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current models.Status
	var isDeleted bool
	err = tx.QueryRowContext(ctx,
		`SELECT current_status, is_deleted FROM applications WHERE id = $1 FOR UPDATE`, id).
		Scan(&current, &isDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewApplicationNotFoundError(id)
		}
		return nil, s.wrapDBError("transition status", err)
	}
	if isDeleted {
		return nil, apperrors.NewApplicationNotFoundError(id)
	}

	if !models.CanTransition(current, target) {
		return nil, apperrors.NewInvalidTransitionError(string(current), string(target))
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE applications SET current_status = $1, updated_at = $2 WHERE id = $3 AND current_status = $4`,
		target, now, id, current)
	if err != nil {
		return nil, s.wrapDBError("transition status", err)
	}
	// The row lock makes a lost update impossible here; the guard stays as
	// a backstop for stores running at weaker isolation.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.NewConcurrencyConflictError(id)
	}

	if err := appendHistoryTx(ctx, tx, id, target, note, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, s.wrapDBError("transition status", err)
	}
	committed = true

	s.logger.Info("status transition applied", map[string]interface{}{
		"applicationId": id,
		"from":          string(current),
		"to":            string(target),
	})

	return &models.TransitionResult{From: current, To: target}, nil
}

// SoftDelete marks the record deleted and forces WITHDRAWN, bypassing the
// transition policy. Deleting an already-deleted record is an idempotent
// no-op: it succeeds without mutating anything or duplicating history.
func (s *ApplicationStore) SoftDelete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrapDBError("soft delete", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var isDeleted bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_deleted FROM applications WHERE id = $1 FOR UPDATE`, id).
		Scan(&isDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewApplicationNotFoundError(id)
		}
		return s.wrapDBError("soft delete", err)
	}
	if isDeleted {
		s.logger.Debug("application already deleted", map[string]interface{}{
			"applicationId": id,
		})
		return nil
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE applications SET is_deleted = TRUE, current_status = $1, updated_at = $2 WHERE id = $3`,
		models.StatusWithdrawn, now, id)
	if err != nil {
		return s.wrapDBError("soft delete", err)
	}

	note := "soft deleted"
	if err := appendHistoryTx(ctx, tx, id, models.StatusWithdrawn, &note, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.wrapDBError("soft delete", err)
	}
	committed = true

	s.logger.Info("application soft deleted", map[string]interface{}{
		"applicationId": id,
	})
	return nil
}

func (s *ApplicationStore) getActive(ctx context.Context, id int64) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND is_deleted = FALSE`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewApplicationNotFoundError(id)
		}
		return nil, s.wrapDBError("get application", err)
	}
	return app, nil
}

func (s *ApplicationStore) wrapDBError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(operation)
	}
	return apperrors.NewQueryExecutionFailedError(operation, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app         models.Application
		location    sql.NullString
		jobType     sql.NullString
		source      sql.NullString
		appliedDate sql.NullTime
		notes       sql.NullString
	)
	err := row.Scan(
		&app.ID,
		&app.Company,
		&app.Position,
		&location,
		&jobType,
		&source,
		&appliedDate,
		&notes,
		&app.CurrentStatus,
		&app.IsDeleted,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		app.Location = &location.String
	}
	if jobType.Valid {
		app.JobType = &jobType.String
	}
	if source.Valid {
		app.Source = &source.String
	}
	if appliedDate.Valid {
		d := models.NewDate(appliedDate.Time.Year(), appliedDate.Time.Month(), appliedDate.Time.Day())
		app.AppliedDate = &d
	}
	if notes.Valid {
		app.Notes = &notes.String
	}
	return &app, nil
}
