// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - search and recommendation latency and outcomes
// - derived index builds per catalog snapshot
// - catalog store access and circuit breaker state
// - API endpoint latency and throughput

var (
	// Search Metrics
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_search_requests_total",
			Help: "Total number of search requests",
		},
		[]string{"entity", "outcome"}, // outcome: "hit", "empty", "invalid", "error"
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"entity"},
	)

	SearchResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_search_cache_hits_total",
			Help: "Total number of search responses served from cache",
		},
	)

	SearchResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_search_cache_misses_total",
			Help: "Total number of search responses computed",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode"}, // mode: "content", "cold_start", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_recommend_cache_hits_total",
			Help: "Total number of recommendations served from cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_recommend_cache_misses_total",
			Help: "Total number of recommendations computed",
		},
	)

	InteractionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_interaction_events_total",
			Help: "Total number of interaction events consumed",
		},
		[]string{"kind"}, // kind: "rating_put", "rating_deleted", "favorite_put", "favorite_deleted"
	)

	// Derived Index Metrics
	IndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_index_builds_total",
			Help: "Total number of derived index builds",
		},
		[]string{"kind"}, // kind: "text", "features"
	)

	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_index_build_duration_seconds",
			Help:    "Duration of derived index builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	IndexedWords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelmatch_indexed_words",
			Help: "Number of distinct words per text index field",
		},
		[]string{"field"},
	)

	// Catalog Metrics
	CatalogVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_catalog_version",
			Help: "Version of the catalog snapshot currently served",
		},
	)

	CatalogFilms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_catalog_films",
			Help: "Number of films in the current catalog snapshot",
		},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_store_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_store_operation_errors_total",
			Help: "Total number of failed catalog store operations",
		},
		[]string{"operation"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_events_published_total",
			Help: "Total number of catalog events published",
		},
		[]string{"topic"},
	)

	// Backup Metrics
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_backups_total",
			Help: "Total number of catalog backups attempted",
		},
		[]string{"result"}, // result: "success", "failure"
	)

	BackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_backup_duration_seconds",
			Help:    "Duration of catalog backups in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	BackupSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_backup_last_size_bytes",
			Help: "Size of the most recent successful backup in bytes",
		},
	)

	BackupsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_backups_pruned_total",
			Help: "Total number of backups deleted by the retention policy",
		},
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

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// RecordSearch records the outcome and latency of a search.
func RecordSearch(entity, outcome string, duration time.Duration) {
	SearchRequests.WithLabelValues(entity, outcome).Inc()
	SearchDuration.WithLabelValues(entity).Observe(duration.Seconds())
}

// RecordSearchCache records a search response cache lookup.
func RecordSearchCache(hit bool) {
	if hit {
		SearchResultCacheHits.Inc()
	} else {
		SearchResultCacheMisses.Inc()
	}
}

// RecordRecommend records the mode and latency of a recommendation.
func RecordRecommend(mode string, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordRecommendCache records a recommendation cache lookup.
func RecordRecommendCache(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordInteractionEvent counts a consumed interaction event.
func RecordInteractionEvent(kind string) {
	InteractionEvents.WithLabelValues(kind).Inc()
}

// RecordIndexBuild records a derived index build.
func RecordIndexBuild(kind string, duration time.Duration) {
	IndexBuilds.WithLabelValues(kind).Inc()
	IndexBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetIndexedWords publishes the word count per text index field.
func SetIndexedWords(stats map[string]int) {
	for field, n := range stats {
		IndexedWords.WithLabelValues(field).Set(float64(n))
	}
}

// SetCatalog publishes the served snapshot version and size.
func SetCatalog(version uint64, films int) {
	CatalogVersion.Set(float64(version))
	CatalogFilms.Set(float64(films))
}

// RecordStoreOperation records a catalog store call.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordEventPublished counts a published catalog event.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordBackup records a backup attempt. size is ignored on failure.
func RecordBackup(result string, duration time.Duration, size int64) {
	BackupsTotal.WithLabelValues(result).Inc()
	BackupDuration.Observe(duration.Seconds())
	if result == "success" {
		BackupSizeBytes.Set(float64(size))
	}
}

// RecordBackupsPruned counts backups removed by retention.
func RecordBackupsPruned(n int) {
	BackupsPruned.Add(float64(n))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
