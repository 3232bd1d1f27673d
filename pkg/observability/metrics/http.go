package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func newHTTPRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
}

func newHTTPRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
}

func newHTTPRequestsInFlight() prometheus.Gauge {
	return prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

// RecordHTTPMetrics updates the duration histogram and request counter.
// path should be a route template, not the raw URL, to keep cardinality bounded.
func (r *Registry) RecordHTTPMetrics(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	r.httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// IncrementInFlight increments the in-flight requests gauge.
func (r *Registry) IncrementInFlight() {
	r.httpRequestsInFlight.Inc()
}

// DecrementInFlight decrements the in-flight requests gauge.
func (r *Registry) DecrementInFlight() {
	r.httpRequestsInFlight.Dec()
}
