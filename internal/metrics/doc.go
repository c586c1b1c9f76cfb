// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus metrics for the discovery service.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Search:
  - reelmatch_search_requests_total{entity,outcome}
  - reelmatch_search_duration_seconds{entity}
  - reelmatch_search_cache_hits_total, reelmatch_search_cache_misses_total

Recommendations:
  - reelmatch_recommend_requests_total{mode}
  - reelmatch_recommend_duration_seconds
  - reelmatch_recommend_cache_hits_total, reelmatch_recommend_cache_misses_total

Derived indexes:
  - reelmatch_index_builds_total{kind}
  - reelmatch_index_build_duration_seconds{kind}
  - reelmatch_indexed_words{field}

Catalog:
  - reelmatch_catalog_version, reelmatch_catalog_films
  - reelmatch_store_operation_duration_seconds{operation}
  - reelmatch_store_operation_errors_total{operation}
  - reelmatch_events_published_total{topic}
  - reelmatch_interaction_events_total{kind}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_state_transitions_total{name,from_state,to_state}

Backups:
  - reelmatch_backups_total{result}, reelmatch_backup_duration_seconds
  - reelmatch_backup_last_size_bytes, reelmatch_backups_pruned_total

API:
  - reelmatch_api_requests_total{method,route,status}
  - reelmatch_api_request_duration_seconds{method,route}
  - reelmatch_api_active_requests

# Usage

	start := time.Now()
	results, err := svc.SearchEntities(ctx, q, opts)
	metrics.RecordSearch("film", "hit", time.Since(start))

All collectors are registered with the default registry through promauto.
*/
package metrics
