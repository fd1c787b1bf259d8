// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics defines the Prometheus collectors for both tiers.
//
// Collectors register with the default registry through promauto and are
// served by promhttp on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Index Build Metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_index_build_duration_seconds",
			Help:    "Time to build the TF-IDF vectors and similarity matrix",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_index_items",
			Help: "Number of catalog items in the published index",
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_index_vocabulary_size",
			Help: "Number of distinct tags in the published index",
		},
	)

	IndexReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_index_ready",
			Help: "1 once the engine has been published, 0 before",
		},
	)

	// Query Metrics
	RecommendQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_queries_total",
			Help: "Engine recommendation queries by outcome",
		},
		[]string{"outcome"}, // ok, not_found, invalid_k, not_ready
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_recommend_duration_seconds",
			Help:    "Engine top-k query latency",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// Gateway Metrics
	GatewayForwards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_gateway_forwards_total",
			Help: "Gateway requests forwarded to the engine by transport and outcome",
		},
		[]string{"transport", "outcome"}, // outcome: ok, invalid_input, not_found, unavailable
	)

	GatewayForwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_gateway_forward_duration_seconds",
			Help:    "Gateway to engine round trip duration",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"transport"},
	)

	// Catalog Metrics
	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_catalog_load_duration_seconds",
			Help:    "Time to load the catalog",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CatalogLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_catalog_load_errors_total",
			Help: "Catalog load failures",
		},
		[]string{"source"},
	)

	// NATS Metrics
	NATSResponderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_nats_responder_requests_total",
			Help: "Requests answered by the engine NATS responder",
		},
		[]string{"kind", "status"}, // kind: recommend, ready
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordIndexBuild records a completed index build.
func RecordIndexBuild(duration time.Duration, items, vocabulary int) {
	IndexBuildDuration.Observe(duration.Seconds())
	IndexItems.Set(float64(items))
	IndexVocabularySize.Set(float64(vocabulary))
}

// SetIndexReady flips the readiness gauge.
func SetIndexReady(ready bool) {
	if ready {
		IndexReady.Set(1)
		return
	}
	IndexReady.Set(0)
}

// RecordRecommendQuery records one engine query.
func RecordRecommendQuery(outcome string, duration time.Duration) {
	RecommendQueries.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		RecommendDuration.Observe(duration.Seconds())
	}
}

// RecordGatewayForward records one gateway request.
func RecordGatewayForward(transport, outcome string, duration time.Duration) {
	GatewayForwards.WithLabelValues(transport, outcome).Inc()
	GatewayForwardDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// RecordCatalogLoad records a catalog load attempt.
func RecordCatalogLoad(source string, duration time.Duration, err error) {
	CatalogLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		CatalogLoadErrors.WithLabelValues(source).Inc()
	}
}

// RecordNATSResponse records a reply sent by the engine responder.
func RecordNATSResponse(kind, status string) {
	NATSResponderRequests.WithLabelValues(kind, status).Inc()
}
