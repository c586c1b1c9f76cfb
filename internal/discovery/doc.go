// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package discovery serves entity search, tag suggestions and film
recommendations on top of a catalog store.

Every call resolves the current catalog snapshot first. The text indexes and
the film feature space are derived from that snapshot and cached per snapshot
version, so they are built at most once per catalog change and every reader
sees artifacts that match the snapshot it loaded:

	snapshot v7 ──► text indexes v7 ──► SearchEntities / SuggestTags
	            └─► feature space v7 ─► Recommend

Search responses are additionally kept in a bounded LRU keyed by snapshot
version and request, so a catalog change makes every earlier entry
unreachable without explicit invalidation.

Interactions are read from the store on every Recommend call. A per-user
recommendation LRU is consulted only when the snapshot version, the limit and
the freshly read interactions all match the cached entry. InvalidateUser drops
an entry early when an interaction.changed event arrives.

A zero search.Options means exact matching. Start from DefaultSearchOptions
and override single fields.
*/
package discovery
