package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store query outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

func newStoreQueriesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_queries_total",
			Help: "Total number of document store queries",
		},
		[]string{"collection", "op", "outcome"},
	)
}

func newStoreQueryDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_store_query_duration_seconds",
			Help:    "Document store query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)
}

// RecordStoreQuery counts one store query and observes its duration.
func (r *Registry) RecordStoreQuery(collection, op, outcome string, duration time.Duration) {
	r.storeQueriesTotal.WithLabelValues(collection, op, outcome).Inc()
	r.storeQueryDuration.WithLabelValues(collection, op).Observe(duration.Seconds())
}
