// internal/models/query_types.go
package models

const (
	// DefaultPageSize is used when the caller supplies no page size or limit.
	DefaultPageSize = 20
	// MaxPageSize bounds both page/size and skip/limit pagination.
	MaxPageSize = 100
)

// ListFilter selects and pages the application listing. Deleted records are
// excluded unless IncludeDeleted is set; Status and Source are optional
// equality filters. Offset/Limit are resolved by the HTTP layer from either
// page/size or skip/limit parameters.
type ListFilter struct {
	IncludeDeleted bool
	Status         *Status
	Source         *string
	Offset         int
	Limit          int
}

// AnalyticsSummary aggregates the live record set at query time.
type AnalyticsSummary struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[Status]int `json:"by_status"`
	BySource          map[string]int `json:"by_source"`
	InterviewCount    int            `json:"interview_count"`
	InterviewRate     float64        `json:"interview_rate"`
	AppliedLast7Days  int            `json:"applied_last_7_days"`
	IncludeDeleted    bool           `json:"include_deleted"`
}

// TimelinePoint is one calendar day in a dense timeline series.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Timeline is a gap-free daily series of application counts keyed on
// applied_date, covering the closed range [From, To].
type Timeline struct {
	Days           int             `json:"days"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Series         []TimelinePoint `json:"series"`
	IncludeDeleted bool            `json:"include_deleted"`
}
