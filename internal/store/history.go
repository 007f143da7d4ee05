// internal/store/history.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/models"
)

// appendHistoryTx writes one ledger entry inside the caller's transaction.
// This is the only write path into the history table; external callers go
// through the ApplicationStore mutations so the ledger stays consistent
// with the record it describes.
func appendHistoryTx(ctx context.Context, tx *sql.Tx, applicationID int64, status models.Status, note *string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO application_status_history (application_id, status, note, changed_at) VALUES ($1, $2, $3, $4)`,
		applicationID, status, note, at)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("append history", err)
	}
	return nil
}

// ListHistory returns the audit trail for an application, newest first.
// An unknown id yields an empty slice, not an error.
func (s *ApplicationStore) ListHistory(ctx context.Context, applicationID int64) ([]models.StatusHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, application_id, status, note, changed_at
		 FROM application_status_history
		 WHERE application_id = $1
		 ORDER BY changed_at DESC, id DESC`,
		applicationID)
	if err != nil {
		return nil, s.wrapDBError("list history", err)
	}
	defer rows.Close()

	entries := make([]models.StatusHistoryEntry, 0)
	for rows.Next() {
		var entry models.StatusHistoryEntry
		var note sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ApplicationID, &entry.Status, &note, &entry.ChangedAt); err != nil {
			return nil, s.wrapDBError("list history", err)
		}
		if note.Valid {
			entry.Note = &note.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapDBError("list history", err)
	}
	return entries, nil
}
