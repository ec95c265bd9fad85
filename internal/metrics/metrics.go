// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package metrics provides Prometheus instrumentation for the ShopSense
// service:
//   - API endpoint latency and throughput
//   - Database query performance (DuckDB)
//   - Ollama LLM call latency, errors, and circuit breaker state
//   - Recommendation generation and feedback
//   - Recommendation cache efficiency
//   - Background trainer runs
//
// All metrics are registered with the default registry via promauto and
// exposed at /metrics.
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
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

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// LLM Metrics
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Duration of Ollama API calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"}, // "generate", "embed"
	)

	LLMCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_call_errors_total",
			Help: "Total number of failed Ollama API calls",
		},
		[]string{"operation", "error_type"}, // error_type: "timeout", "breaker_open", "http", "decode"
	)

	LLMFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_fallbacks_total",
			Help: "Total number of deterministic fallbacks used when LLM analysis failed",
		},
		[]string{"analysis"}, // "customer_insights", "product_insights", "explanation"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Recommendation Metrics
	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of recommendations generated",
		},
		[]string{"strategy"}, // "collaborative", "content_based", "popularity", "hybrid"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	FeedbackReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_received_total",
			Help: "Total number of recommendation feedback events",
		},
		[]string{"sentiment"}, // "positive", "negative"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommendation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or capacity)",
		},
		[]string{"cache_type"},
	)

	// Trainer Metrics
	TrainerRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trainer_run_duration_seconds",
			Help:    "Duration of embedding trainer runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TrainerEmbeddingsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainer_embeddings_built_total",
			Help: "Total number of embeddings built by the background trainer",
		},
	)

	TrainerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainer_errors_total",
			Help: "Total number of trainer run errors",
		},
	)

	TrainerLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trainer_last_success_timestamp",
			Help: "Unix timestamp of last successful trainer run",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordLLMCall records an LLM call metric with an error category.
func RecordLLMCall(operation string, duration time.Duration, errorType string) {
	LLMCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errorType != "" {
		LLMCallErrors.WithLabelValues(operation, errorType).Inc()
	}
}

// RecordRecommendation records a recommendation generation metric.
func RecordRecommendation(strategy string, count int, duration time.Duration) {
	RecommendationsGenerated.WithLabelValues(strategy).Add(float64(count))
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordFeedback records a feedback event metric.
func RecordFeedback(feedback int) {
	if feedback > 0 {
		FeedbackReceived.WithLabelValues("positive").Inc()
	} else if feedback < 0 {
		FeedbackReceived.WithLabelValues("negative").Inc()
	}
}

// RecordTrainerRun records a background trainer run.
func RecordTrainerRun(duration time.Duration, embeddingsBuilt int, err error) {
	TrainerRunDuration.Observe(duration.Seconds())
	TrainerEmbeddingsBuilt.Add(float64(embeddingsBuilt))
	if err != nil {
		TrainerErrors.Inc()
	} else {
		TrainerLastSuccess.Set(float64(time.Now().Unix()))
	}
}
