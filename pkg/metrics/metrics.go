package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts read-through cache lookups by namespace and result (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medisearch_cache_lookups_total",
			Help: "Total number of read-through cache lookups",
		},
		[]string{"namespace", "result"},
	)

	// StoreQueries counts document store operations by operation and result (ok|error).
	StoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medisearch_store_queries_total",
			Help: "Total number of document store queries",
		},
		[]string{"operation", "result"},
	)

	// Submissions counts review submissions by outcome (accepted|conflict|invalid|error).
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medisearch_submissions_total",
			Help: "Total number of questions submitted for review",
		},
		[]string{"outcome"},
	)

	// CacheEntries tracks the number of entries held by the in-process cache.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medisearch_cache_entries",
			Help: "Number of entries held by the in-process cache",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medisearch_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveStore records the outcome of a store operation.
func ObserveStore(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreQueries.WithLabelValues(operation, result).Inc()
}
