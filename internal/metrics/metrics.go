// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache-aside outcomes by namespace",
		},
		[]string{"namespace", "result"}, // hit, miss, timeout, error, bypass, write_error
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Latency of remote cache operations in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 1.5, 3},
		},
		[]string{"operation"}, // get, set, delete_pattern
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Pattern invalidations by result",
		},
		[]string{"result"}, // ok, timeout, error
	)

	// Engine Metrics
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to compute a recommendation list on cache miss",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_source_failures_total",
			Help: "Candidate sources that failed and were excluded from a merge",
		},
		[]string{"source"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of results returned per computed list",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"kind"}, // item, bundle
	)

	BundlesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundles_generated_total",
			Help: "Bundles synthesized by source path",
		},
		[]string{"source"}, // favorites, fallback
	)

	WeightUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weight_updates_total",
			Help: "Number of recommendation weight overrides installed",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheResult counts one cache-aside outcome.
func RecordCacheResult(namespace, result string) {
	CacheOperations.WithLabelValues(namespace, result).Inc()
}

// RecordCacheOperation observes the latency of a remote cache call.
func RecordCacheOperation(operation string, duration time.Duration) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordInvalidation counts one pattern invalidation.
func RecordInvalidation(result string) {
	CacheInvalidations.WithLabelValues(result).Inc()
}

// RecordSourceFailure counts a candidate source dropped from a merge.
func RecordSourceFailure(source string) {
	RecommendSourceFailures.WithLabelValues(source).Inc()
}

// RecordRecommendation observes a computed recommendation list.
func RecordRecommendation(duration time.Duration, items, bundles int) {
	RecommendDuration.Observe(duration.Seconds())
	RecommendResults.WithLabelValues("item").Observe(float64(items))
	RecommendResults.WithLabelValues("bundle").Observe(float64(bundles))
}

// RecordBundle counts a synthesized bundle.
func RecordBundle(source string) {
	BundlesGenerated.WithLabelValues(source).Inc()
}

// RecordDBQuery records a DuckDB query metric.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
