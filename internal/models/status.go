// internal/models/status.go

// Package models defines the domain types shared by the store, the HTTP
// layer, and the notifier: applications, statuses, the transition policy,
// history entries, and analytics shapes.
package models

import (
	"fmt"
	"strings"
)

// Status is the lifecycle stage of an application. The zero value is not a
// valid status; use ParseStatus at input boundaries.
type Status string

const (
	StatusApplied       Status = "APPLIED"
	StatusHRInterview   Status = "HR_INTERVIEW"
	StatusTechInterview Status = "TECH_INTERVIEW"
	StatusCaseStudy     Status = "CASE_STUDY"
	StatusOffer         Status = "OFFER"
	StatusRejected      Status = "REJECTED"
	StatusWithdrawn     Status = "WITHDRAWN"
)

// allowedTransitions is the single source of truth for the lifecycle.
// Statuses absent from the map (or mapped to an empty set) are terminal.
var allowedTransitions = map[Status][]Status{
	StatusApplied:       {StatusHRInterview, StatusRejected, StatusWithdrawn},
	StatusHRInterview:   {StatusTechInterview, StatusRejected},
	StatusTechInterview: {StatusCaseStudy, StatusOffer, StatusRejected},
	StatusCaseStudy:     {StatusOffer, StatusRejected},
	StatusOffer:         {StatusWithdrawn},
	StatusRejected:      {},
	StatusWithdrawn:     {},
}

// AllStatuses returns every defined status in funnel order.
func AllStatuses() []Status {
	return []Status{
		StatusApplied,
		StatusHRInterview,
		StatusTechInterview,
		StatusCaseStudy,
		StatusOffer,
		StatusRejected,
		StatusWithdrawn,
	}
}

// InterviewStatuses returns the stages counted as interview progress.
func InterviewStatuses() []Status {
	return []Status{StatusHRInterview, StatusTechInterview, StatusCaseStudy}
}

// ParseStatus converts raw input into a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// AllowedNextStatuses returns the statuses reachable from s in one step.
// The slice is a copy; callers may mutate it freely.
func AllowedNextStatuses(s Status) []Status {
	next := allowedTransitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether the policy permits moving from one status
// to another in a single step.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
