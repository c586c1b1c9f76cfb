// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for Reelmatch components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve method and implements fmt.Stringer so supervisor log lines name it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Drains connections for a configurable timeout once the context is cancelled
  - Listener failures are returned so the supervisor restarts the server

Catalog Watcher (CatalogWatcherService):
  - Subscribes to catalog.changed on the Watermill event bus
  - Warms the search indexes and recommendation feature space for each new
    snapshot version, skipping versions it has already applied
  - Optionally re-warms on a refresh interval to pick up writes made by
    other processes sharing the store

Interaction Watcher (InteractionWatcherService):
  - Subscribes to interaction.changed on the Watermill event bus
  - Evicts the changed user's cached recommendations from the discovery
    service and counts events per kind
  - Malformed events are acked and dropped

Backup Scheduler (BackupService):
  - Runs backup.Manager on the configured interval, at the preferred hour for
    daily and longer intervals
  - Applies the retention policy after each run
  - Failures are logged and retried at the next slot

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewBackupService(backups, cfg.Backup, logging.Logger()))
	tree.AddIndexService(services.NewCatalogWatcherService(events, svc, services.CatalogWatcherConfig{
	    WarmOnStartup:   true,
	    RefreshInterval: cfg.Catalog.RefreshInterval,
	}, logging.Logger()))
	tree.AddIndexService(services.NewInteractionWatcherService(events, svc, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	return tree.Serve(ctx)

# Error Handling

Return values determine supervisor behavior:

	nil         -> service stopped cleanly, will not restart
	error       -> service failed, supervisor restarts it with backoff
	ctx.Err()   -> shutdown requested, normal termination
*/
package services
