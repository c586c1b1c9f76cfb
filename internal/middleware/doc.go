// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package middleware provides HTTP middleware shared by the API router.

Every middleware has the chi signature func(http.Handler) http.Handler and can
be installed with r.Use:

  - RequestID: assigns or propagates X-Request-ID and stores it for logging
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - Compression: gzip for responses of at least MinCompressSize bytes
  - SlowRequests: warns about requests slower than a threshold
  - MaxBodyBytes: caps request body size

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(time.Second))
	r.Use(middleware.Compression)

Route labels come from the chi route pattern (for example
/api/v1/users/{userID}/recommendations) so metric cardinality does not grow
with path parameters.
*/
package middleware
