// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation Metrics
	GeneratedInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_generated_interactions_total",
			Help: "Total number of generated interactions by domain and label",
		},
		[]string{"domain", "label"}, // label: "positive", "negative"
	)

	GeneratedSparsity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "synthrec_generated_sparsity_ratio",
			Help: "Realized sparsity of the most recent generation run",
		},
		[]string{"domain"},
	)

	NegativeSamplingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_negative_sampling_attempts_total",
			Help: "Total number of rejection-sampling draws for negatives",
		},
		[]string{"domain"},
	)

	// Training Metrics
	TrainingEpochs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_training_epochs_total",
			Help: "Total number of completed training epochs",
		},
		[]string{"domain"},
	)

	TrainingEpochLoss = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "synthrec_training_epoch_loss",
			Help: "Mean binary cross-entropy of the last completed epoch",
		},
		[]string{"domain"},
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "synthrec_training_duration_seconds",
			Help:    "Duration of full training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"domain"},
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_recommendations_total",
			Help: "Total number of recommendation lists produced",
		},
		[]string{"domain", "source"}, // source: "live", "precomputed", "bulk"
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_recommendation_errors_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"domain", "reason"},
	)

	PrecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "synthrec_precompute_duration_seconds",
			Help:    "Duration of bulk precomputation per domain in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	PrecomputedUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "synthrec_precomputed_users",
			Help: "Number of users covered by the last precomputation",
		},
		[]string{"domain"},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_model_reloads_total",
			Help: "Model reload cycles by result",
		},
		[]string{"result"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "synthrec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthrec_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordGeneration records the outcome of one generation run.
func RecordGeneration(domain string, positives, negatives int, sparsity float64) {
	GeneratedInteractions.WithLabelValues(domain, "positive").Add(float64(positives))
	GeneratedInteractions.WithLabelValues(domain, "negative").Add(float64(negatives))
	GeneratedSparsity.WithLabelValues(domain).Set(sparsity)
}

// RecordNegativeSampling records the number of draws spent on negatives.
func RecordNegativeSampling(domain string, attempts int) {
	NegativeSamplingAttempts.WithLabelValues(domain).Add(float64(attempts))
}

// RecordEpoch records a completed training epoch.
func RecordEpoch(domain string, loss float64) {
	TrainingEpochs.WithLabelValues(domain).Inc()
	TrainingEpochLoss.WithLabelValues(domain).Set(loss)
}

// RecordTraining records a full training run.
func RecordTraining(domain string, duration time.Duration) {
	TrainingDuration.WithLabelValues(domain).Observe(duration.Seconds())
}

// RecordRecommendation records a produced recommendation list.
func RecordRecommendation(domain, source string) {
	RecommendationsServed.WithLabelValues(domain, source).Inc()
}

// RecordRecommendationError records a failed recommendation request.
// reason must be a short fixed string such as "user_out_of_range".
func RecordRecommendationError(domain, reason string) {
	RecommendationErrors.WithLabelValues(domain, reason).Inc()
}

// RecordPrecompute records a bulk precomputation.
func RecordPrecompute(domain string, users int, duration time.Duration) {
	PrecomputeDuration.WithLabelValues(domain).Observe(duration.Seconds())
	PrecomputedUsers.WithLabelValues(domain).Set(float64(users))
	RecommendationsServed.WithLabelValues(domain, "bulk").Add(float64(users))
}

// RecordModelReload records one reload cycle. result is "swapped",
// "unchanged" or "error".
func RecordModelReload(result string) {
	ModelReloads.WithLabelValues(result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// WriteTextfile writes the default registry in Prometheus text format, for
// batch commands whose process exits before any scrape could happen.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
