// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package metrics provides Prometheus instrumentation for the HTTP
// surface, the document store, the recommendation engine, and the
// in-process event bus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventmesh_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventmesh_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Store metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventmesh_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "kind"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_store_operation_errors_total",
			Help: "Total number of document store operation errors",
		},
		[]string{"operation", "kind"},
	)

	// Recommendation metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventmesh_recommendation_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"}, // "events", "connections", "event_buddies"
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_recommendations_served_total",
			Help: "Total number of recommendation responses served",
		},
		[]string{"kind", "cached"},
	)

	// Snapshot refresh metrics
	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_snapshot_refreshes_total",
			Help: "Total number of recommendation snapshot refreshes",
		},
		[]string{"result"}, // "success", "error", "skipped"
	)

	SnapshotRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventmesh_snapshot_refresh_duration_seconds",
			Help:    "Duration of snapshot refreshes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventmesh_snapshot_age_seconds",
			Help: "Age of the current recommendation snapshot in seconds",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventmesh_snapshot_users",
			Help: "Number of users in the current snapshot",
		},
	)

	SnapshotEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventmesh_snapshot_events",
			Help: "Number of events in the current snapshot",
		},
	)

	GraphAsymmetricEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventmesh_graph_asymmetric_edges",
			Help: "Number of one-sided connection references in the current social graph",
		},
	)

	// Response cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Event bus metrics
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_bus_messages_published_total",
			Help: "Total number of messages published to the event bus",
		},
		[]string{"topic"},
	)

	BusMessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventmesh_bus_messages_handled_total",
			Help: "Total number of event bus messages handled",
		},
		[]string{"topic", "result"},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStoreOp records a document store operation.
func RecordStoreOp(operation, kind string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation, kind).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, kind).Inc()
	}
}

// RecordRecommendation records a served recommendation response.
func RecordRecommendation(kind string, cached bool, duration time.Duration) {
	label := "false"
	if cached {
		label = "true"
	}
	RecommendationsServed.WithLabelValues(kind, label).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordSnapshotRefresh records the outcome of a snapshot refresh.
func RecordSnapshotRefresh(result string, duration time.Duration) {
	SnapshotRefreshes.WithLabelValues(result).Inc()
	if result == "success" {
		SnapshotRefreshDuration.Observe(duration.Seconds())
	}
}

// UpdateSnapshotGauges updates the gauges describing the current snapshot.
func UpdateSnapshotGauges(users, events, asymmetricEdges int, age time.Duration) {
	SnapshotUsers.Set(float64(users))
	SnapshotEvents.Set(float64(events))
	GraphAsymmetricEdges.Set(float64(asymmetricEdges))
	SnapshotAge.Set(age.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
