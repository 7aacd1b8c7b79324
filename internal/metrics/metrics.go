// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package metrics provides Prometheus instrumentation for the scoring API,
// the analytics refresher, and the derived recommendation store.
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

	// Scoring Metrics
	CustomersScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customers_scored_total",
			Help: "Total number of customer records scored",
		},
		[]string{"endpoint"},
	)

	RecommendationsProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_produced_total",
			Help: "Total number of product recommendations emitted by the rule engine",
		},
	)

	// Analytics Refresher Metrics
	AggregationRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_aggregation_runs_total",
			Help: "Total number of analytics aggregation passes",
		},
	)

	AggregationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_aggregation_failures_total",
			Help: "Total number of failed analytics aggregation passes",
		},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytics_aggregation_duration_seconds",
			Help:    "Duration of analytics aggregation passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_snapshot_age_seconds",
			Help: "Age of the currently served analytics snapshot in seconds",
		},
	)

	// Recommendation Store Metrics
	RecStoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recstore_entries",
			Help: "Number of per-account entries in the recommendation store",
		},
	)

	RecStoreGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recstore_generation_duration_seconds",
			Help:    "Duration of recommendation store regeneration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordScoring records one scored customer and the recommendations emitted.
func RecordScoring(endpoint string, recommendations int) {
	CustomersScored.WithLabelValues(endpoint).Inc()
	RecommendationsProduced.Add(float64(recommendations))
}

// RecordAggregation records one analytics aggregation pass.
func RecordAggregation(duration time.Duration, err error) {
	AggregationRuns.Inc()
	AggregationDuration.Observe(duration.Seconds())
	if err != nil {
		AggregationFailures.Inc()
	}
}
