// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package cache provides the cross-request caches of the discovery service.
//
//   - Versioned keeps the text indexes and feature space derived from the latest catalog
//     snapshot, swapped atomically when the snapshot version changes.
//   - LRU keeps recent search responses. Keys include the snapshot version, so a catalog
//     change never serves stale results.
package cache
