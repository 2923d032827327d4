// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by route, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spendsplit_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spendsplit_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// ExpensesCreated counts persisted expenses by source (api or ai).
	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spendsplit_expenses_created_total",
		Help: "Expenses persisted, by creation source.",
	}, []string{"source"})

	// ParserFailures counts failed calls to the AI parsing service.
	ParserFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spendsplit_parser_failures_total",
		Help: "Failed AI parser calls.",
	})
)
