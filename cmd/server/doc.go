// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the entry point for the Reelmatch server.

Reelmatch answers fuzzy search queries over films, users and tags, and
recommends films to users from their ratings and favorites using genre and
director feature vectors.

# Application Architecture

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   └── Backup scheduler (optional, BACKUP_ENABLED=true)
	├── IndexSupervisor ("index-layer")
	│   ├── Catalog watcher (warms indexes on catalog.changed and on a timer)
	│   └── Interaction watcher (evicts cached recommendations on interaction.changed)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Startup order:

 1. Configuration: koanf defaults, optional YAML file, environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: BadgerDB (on disk, or in memory when BADGER_PATH is empty)
 4. Event bus: Watermill in-process pub/sub for catalog and interaction changes
 5. Restore or seed: optional backup (BACKUP_RESTORE_FROM) or catalog file
    loaded into an empty store
 6. Discovery service: search indexes and feature space cached per snapshot version
 7. Supervisor tree: suture v4 with the watchers and the HTTP server

# Configuration

Priority: environment variables > config file > defaults

	HTTP_PORT=8080
	LOG_LEVEL=info                    # trace, debug, info, warn, error
	LOG_FORMAT=json                   # json or console
	BADGER_PATH=/data/reelmatch
	CATALOG_SEED_PATH=/seed/films.yaml
	SEARCH_MAX_EDIT_DISTANCE=2
	SEARCH_PRUNE_MODE=bound           # bound or query_prefix

The config file is watched; a change to logging.level applies without a
restart.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for server.shutdown_timeout before the store closes.
*/
package main
