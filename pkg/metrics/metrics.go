package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"key_prefix"},
	)

	AdminActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_admin_actions_total",
			Help: "Successful admin writes by section and action",
		},
		[]string{"section", "action"},
	)

	DocumentSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_document_save_duration_seconds",
			Help:    "Time spent serializing and replacing the data document",
			Buckets: prometheus.DefBuckets,
		},
	)

	DocumentSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_document_save_errors_total",
			Help: "Failed document saves",
		},
	)

	AuditWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_audit_write_errors_total",
			Help: "Audit records that could not be appended",
		},
	)

	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"outcome"}, // "accepted", "rejected"
	)
)

func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAdminAction(section, action string) {
	AdminActions.WithLabelValues(section, action).Inc()
}

func RecordDocumentSave(duration time.Duration, err error) {
	DocumentSaveDuration.Observe(duration.Seconds())
	if err != nil {
		DocumentSaveErrors.Inc()
	}
}

func RecordRateLimitHit(prefix string) {
	APIRateLimitHits.WithLabelValues(prefix).Inc()
}

func RecordContactSubmission(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	ContactSubmissions.WithLabelValues(outcome).Inc()
}
