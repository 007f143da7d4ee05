// internal/models/application.go
package models

import "time"

// JobType enumerates the optional work arrangement of an application.
type JobType string

const (
	JobTypeRemote JobType = "remote"
	JobTypeHybrid JobType = "hybrid"
	JobTypeOnsite JobType = "onsite"
)

// ValidJobType reports whether s is a known job type literal.
func ValidJobType(s string) bool {
	switch JobType(s) {
	case JobTypeRemote, JobTypeHybrid, JobTypeOnsite:
		return true
	}
	return false
}

// Application is one tracked job application. CurrentStatus is never set
// directly; it changes only through the transition and soft-delete paths.
type Application struct {
	ID            int64     `json:"id"`
	Company       string    `json:"company"`
	Position      string    `json:"position"`
	Location      *string   `json:"location,omitempty"`
	JobType       *string   `json:"job_type,omitempty"`
	Source        *string   `json:"source,omitempty"`
	AppliedDate   *Date     `json:"applied_date,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CurrentStatus Status    `json:"current_status"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatusHistoryEntry is one row of the append-only audit trail. Entries are
// immutable once written.
type StatusHistoryEntry struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Status        Status    `json:"status"`
	Note          *string   `json:"note,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// CreateApplicationInput carries the caller-supplied fields for Create.
// Status is not accepted; new records always start at APPLIED.
type CreateApplicationInput struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Location    *string `json:"location,omitempty"`
	JobType     *string `json:"job_type,omitempty"`
	Source      *string `json:"source,omitempty"`
	AppliedDate *Date   `json:"applied_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateApplicationInput carries a partial update. Nil fields are left
// untouched; status and identity are not updatable here.
type UpdateApplicationInput struct {
	Company     *string `json:"company,omitempty"`
	Position    *string `json:"position,omitempty"`
	Location    *string `json:"location,omitempty"`
	JobType     *string `json:"job_type,omitempty"`
	Source      *string `json:"source,omitempty"`
	AppliedDate *Date   `json:"applied_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (in *UpdateApplicationInput) Empty() bool {
	return in.Company == nil && in.Position == nil && in.Location == nil &&
		in.JobType == nil && in.Source == nil && in.AppliedDate == nil && in.Notes == nil
}

// TransitionResult reports a successful status change.
type TransitionResult struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}
