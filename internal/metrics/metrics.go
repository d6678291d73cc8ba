// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider labels.
const (
	ProviderSerper = "serper"
	ProviderGemini = "gemini"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeQuota   = "quota_exceeded"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizscout_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizscout_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizscout_provider_calls_total",
			Help: "Total number of outbound provider operations by outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizscout_provider_call_duration_seconds",
			Help:    "Duration of outbound provider operations in seconds, retries included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "operation"},
	)

	ProviderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizscout_provider_retries_total",
			Help: "Total number of retried provider attempts",
		},
		[]string{"provider", "operation"},
	)

	Opportunities = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bizscout_opportunity_score",
			Help:    "Distribution of computed opportunity scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

// ObserveProvider records one provider operation.
func ObserveProvider(provider, operation, outcome string, started time.Time) {
	ProviderCalls.WithLabelValues(provider, operation, outcome).Inc()
	ProviderDuration.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}
