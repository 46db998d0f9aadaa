package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	AuthorizationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_count",
			Help: "Total number of requests denied by the policy engine",
		},
		[]string{"resource", "action"},
	)

	AccountErasureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_erasure_count",
			Help: "Total number of right-to-erasure requests",
		},
		[]string{"status"}, // status: success, failed
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func IncrementAuthorizationDenied(resource, action string) {
	AuthorizationDenied.WithLabelValues(resource, action).Inc()
}

func IncrementAccountErasure(status string) {
	AccountErasureCount.WithLabelValues(status).Inc()
}
