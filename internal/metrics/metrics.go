// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package metrics defines the Prometheus instruments exported at /metrics.
// Instruments are registered with promauto at package load and updated via
// the Record* helpers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics

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

	DBCircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_circuit_breaker_state",
			Help: "Database circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API metrics

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
			Help: "Number of API requests currently being handled",
		},
	)

	// Recommendation metrics

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total recommendation requests served, by scoring method",
		},
		[]string{"method"}, // latent-factor, genre-based, collaborative, popularity
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent scoring one recommendation request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total recommendation requests that failed",
		},
		[]string{"reason"}, // data_unavailable, timeout, internal
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of unrated candidate movies per request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Latent model metrics

	LatentModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "latent_model_loaded",
			Help: "Whether a latent factor model artifact is loaded (0 or 1)",
		},
	)

	LatentModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "latent_model_users",
			Help: "Number of users covered by the loaded latent factor model",
		},
	)
)

// RecordDBQuery records one database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one successfully scored request.
func RecordRecommendation(method string, candidates int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(method).Inc()
	RecommendationDuration.WithLabelValues(method).Observe(duration.Seconds())
	RecommendationCandidates.Observe(float64(candidates))
}

// RecordRecommendationError records one failed request by reason.
func RecordRecommendationError(reason string) {
	RecommendationErrors.WithLabelValues(reason).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetLatentModelInfo publishes latent model availability.
func SetLatentModelInfo(loaded bool, users int) {
	if loaded {
		LatentModelLoaded.Set(1)
	} else {
		LatentModelLoaded.Set(0)
	}
	LatentModelUsers.Set(float64(users))
}
