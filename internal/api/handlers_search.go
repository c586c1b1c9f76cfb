// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/search"
)

// Search handles GET /api/v1/search.
//
// Query parameters:
//   - q: search text, required, at most 200 characters
//   - type: film (default), user or tag
//   - limit: maximum results, 0 selects the configured default
//   - distance: maximum edit distance 0-5, -1 or absent selects the default
//   - min_score: drop results scoring below this value (0-1)
//   - explain: include the per-component score breakdown for films
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		respondServiceError(w, r, err, "Search")
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}
	kind, err := search.ParseEntityKind(req.Type)
	if err != nil {
		respondServiceError(w, r, err, "Search")
		return
	}
	opts := req.Options(h.svc.DefaultSearchOptions(kind))

	ctx, cancel := h.context(r.Context())
	defer cancel()

	results, err := h.svc.SearchEntities(ctx, req.Query, opts)
	if err != nil {
		respondServiceError(w, r, err, "Search")
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	if !req.Explain {
		for i := range results {
			results[i].Breakdown = nil
		}
	}

	NewResponseWriter(w, r).List(results, len(results))
}

// SuggestTags handles GET /api/v1/tags/suggest?prefix=&limit=.
func (h *Handler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	req, err := parseTagSuggestRequest(r)
	if err != nil {
		respondServiceError(w, r, err, "Tag suggestion")
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	tags, err := h.svc.SuggestTags(ctx, req.Prefix, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "Tag suggestion")
		return
	}
	NewResponseWriter(w, r).List(tags, len(tags))
}
