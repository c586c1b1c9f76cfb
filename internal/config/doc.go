// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config loads the Reelmatch service configuration with koanf.

# Sources

Configuration is layered, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, ./config.yaml or /etc/reelmatch/config.yaml
 3. Environment variables

Only the environment variables listed in envMappings are read, so unrelated
variables in the process environment never leak into the configuration.

# Example File

	server:
	  port: 8080
	  environment: production
	storage:
	  path: /data/reelmatch
	catalog:
	  seed_path: /etc/reelmatch/films.yaml
	search:
	  max_edit_distance: 2
	  prune_mode: bound
	  weights:
	    title: 0.6
	    director: 0.15
	recommend:
	  default_limit: 5
	  favorite_weight: 15

# Environment Variables

Server: HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT, ENVIRONMENT

Logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER, LOG_TIMESTAMP

Storage: BADGER_PATH (empty keeps data in memory), CATALOG_SEED_PATH,
CATALOG_REFRESH_INTERVAL, CATALOG_EVENT_BUFFER

Search: SEARCH_MAX_EDIT_DISTANCE, SEARCH_MAX_RESULTS, SEARCH_CANDIDATE_LIMIT,
SEARCH_PRUNE_MODE, SEARCH_CACHE_SIZE, SEARCH_CACHE_TTL, SEARCH_WEIGHT_*

Recommend: RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT, RECOMMEND_FAVORITE_WEIGHT

Security: CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS,
RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, MAX_BODY_BYTES

Circuit breaker: BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO
*/
package config
