// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the HTTP REST API for reelmatch.

Routes are served by a chi router (see NewRouter) and every response uses the
APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1}}
	{"success": false, "error": {"code": "BAD_REQUEST", "message": "..."}}

Endpoints:

Health:
  - GET  /api/v1/health              catalog version and uptime
  - GET  /api/v1/health/live         liveness probe
  - GET  /api/v1/health/ready        readiness probe (503 until the store answers)

Search:
  - GET  /api/v1/search?q=&type=film|user|tag&limit=&distance=&min_score=&explain=
  - GET  /api/v1/tags/suggest?prefix=&limit=

Films and catalog:
  - GET  /api/v1/films/{filmID}
  - GET  /api/v1/catalog             version and entity counts
  - POST /api/v1/catalog             replace the catalog (JSON or YAML body)

Users:
  - GET    /api/v1/users/{userID}/recommendations?limit=
  - PUT    /api/v1/users/{userID}/ratings/{filmID}     {"rating": 0-10}
  - DELETE /api/v1/users/{userID}/ratings/{filmID}
  - PUT    /api/v1/users/{userID}/favorites/{filmID}
  - DELETE /api/v1/users/{userID}/favorites/{filmID}

Metrics:
  - GET  /metrics                    Prometheus exposition

Error mapping: catalog.ErrInvalidInput and request validation failures are 400,
catalog.ErrNotFound is 404, an open store circuit breaker is 503 and anything
else is 500.
*/
package api
