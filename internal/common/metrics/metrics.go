// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "jobtrack_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	StatusTransitionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_status_transitions_total",
			Help: "Total number of applied status transitions",
		},
		[]string{"from", "to"},
	)

	StatusTransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_status_transitions_rejected_total",
			Help: "Total number of status transitions rejected by policy",
		},
		[]string{"from", "to"},
	)

	ApplicationsSoftDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_applications_soft_deleted_total",
			Help: "Total number of soft-deleted applications",
		},
	)

	RateLimitedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobtrack_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
