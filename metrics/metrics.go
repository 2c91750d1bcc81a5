// Package metrics defines the prometheus collectors shared across the
// backend client and the REST adapter.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendCallDuration tracks Gmail API call latency per operation.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailpilot_backend_call_duration_seconds",
			Help:    "Gmail API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"operation", "status"},
	)

	// HTTPRequestDuration tracks REST adapter request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailpilot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// EmailsCategorized counts normalized emails by whether any rule matched.
	EmailsCategorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailpilot_emails_categorized_total",
			Help: "Total number of emails run through the category matcher",
		},
		[]string{"outcome"}, // outcome: matched, uncategorized
	)
)

// ObserveBackendCall records one Gmail API call.
func ObserveBackendCall(operation, status string, duration time.Duration) {
	BackendCallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one REST request.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
