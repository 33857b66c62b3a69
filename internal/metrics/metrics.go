package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TreesCreated counts tree creations by ownership (owned, anonymous).
	TreesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trees_created_total",
			Help: "Total number of trees created by ownership",
		},
		[]string{"ownership"},
	)

	// Logins counts login attempts by result (success, failure).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, TreesCreated, Logins)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /trees/123 -> /trees/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncTreesCreated increments the created-trees counter. ownership is "owned" or "anonymous".
func IncTreesCreated(ownership string) {
	TreesCreated.WithLabelValues(ownership).Inc()
}

// IncLogins increments the login counter for the given result (success, failure).
func IncLogins(result string) {
	Logins.WithLabelValues(result).Inc()
}
