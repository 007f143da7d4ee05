// internal/store/schema.go
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaDDL creates the two tables owned by this service. History rows
// cascade only on hard deletion of the owning application, which no API
// surface currently performs.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS applications (
	id BIGSERIAL PRIMARY KEY,
	company VARCHAR(255) NOT NULL,
	position VARCHAR(255) NOT NULL,
	location VARCHAR(255),
	job_type VARCHAR(20),
	source VARCHAR(255),
	applied_date DATE,
	notes TEXT,
	current_status VARCHAR(50) NOT NULL DEFAULT 'APPLIED',
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS application_status_history (
	id BIGSERIAL PRIMARY KEY,
	application_id BIGINT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	status VARCHAR(50) NOT NULL,
	note TEXT,
	changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applications_updated_at ON applications (updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_applications_applied_date ON applications (applied_date);
CREATE INDEX IF NOT EXISTS idx_history_application_id ON application_status_history (application_id);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
