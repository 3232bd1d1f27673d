// Package metrics provides Prometheus metrics for the catalog service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the service collectors and exposes them over HTTP.
// It includes HTTP metrics, store query metrics and Go runtime metrics.
type Registry struct {
	registry *prometheus.Registry

	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestsInFlight prometheus.Gauge
	storeQueriesTotal    *prometheus.CounterVec
	storeQueryDuration   *prometheus.HistogramVec
}

// NewRegistry creates a registry with the HTTP, store and runtime collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry:             prometheus.NewRegistry(),
		httpRequestDuration:  newHTTPRequestDuration(),
		httpRequestsTotal:    newHTTPRequestsTotal(),
		httpRequestsInFlight: newHTTPRequestsInFlight(),
		storeQueriesTotal:    newStoreQueriesTotal(),
		storeQueryDuration:   newStoreQueryDuration(),
	}

	r.registry.MustRegister(
		r.httpRequestDuration,
		r.httpRequestsTotal,
		r.httpRequestsInFlight,
		r.storeQueriesTotal,
		r.storeQueryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Register registers an additional collector.
func (r *Registry) Register(collector prometheus.Collector) error {
	return r.registry.Register(collector)
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
// It is mounted on the management server at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
