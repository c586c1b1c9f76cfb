// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/search"
)

// MaxQueryLength bounds search queries and tag prefixes.
const MaxQueryLength = 200

// SearchRequest holds the query parameters of GET /api/v1/search.
type SearchRequest struct {
	Query    string  `json:"q" validate:"required,notblank,max=200"`
	Type     string  `json:"type" validate:"omitempty,entitykind"`
	Limit    int     `json:"limit" validate:"min=0,max=100"`
	Distance int     `json:"distance" validate:"gte=-1,lte=5"`
	MinScore float64 `json:"min_score" validate:"gte=0,lte=1"`
	Explain  bool    `json:"explain"`
}

func parseSearchRequest(r *http.Request) (SearchRequest, error) {
	req := SearchRequest{
		Query: r.URL.Query().Get("q"),
		Type:  r.URL.Query().Get("type"),
	}
	var err error
	if req.Limit, err = queryInt(r, "limit", 0); err != nil {
		return req, err
	}
	if req.Distance, err = queryInt(r, "distance", -1); err != nil {
		return req, err
	}
	if req.MinScore, err = queryFloat(r, "min_score", 0); err != nil {
		return req, err
	}
	if req.Explain, err = queryBool(r, "explain"); err != nil {
		return req, err
	}
	return req, nil
}

// Options overrides defaults with the parameters the request sets. A negative
// distance, a zero limit and a zero min_score keep the default.
func (req SearchRequest) Options(defaults search.Options) search.Options {
	opts := defaults
	if req.Distance >= 0 {
		opts.MaxEditDistance = req.Distance
	}
	if req.Limit > 0 {
		opts.MaxResults = req.Limit
	}
	if req.MinScore > 0 {
		opts.MinScore = req.MinScore
	}
	return opts
}

// TagSuggestRequest holds the query parameters of GET /api/v1/tags/suggest.
type TagSuggestRequest struct {
	Prefix string `json:"prefix" validate:"required,notblank,max=200"`
	Limit  int    `json:"limit" validate:"min=0,max=50"`
}

func parseTagSuggestRequest(r *http.Request) (TagSuggestRequest, error) {
	req := TagSuggestRequest{Prefix: r.URL.Query().Get("prefix")}
	var err error
	req.Limit, err = queryInt(r, "limit", 0)
	return req, err
}

// RecommendRequest holds the parameters of GET /api/v1/users/{userID}/recommendations.
// Limit 0 selects the configured default; values above the configured maximum are
// clamped by the engine.
type RecommendRequest struct {
	UserID int `json:"userID" validate:"gt=0"`
	Limit  int `json:"limit" validate:"min=0"`
}

// RatingRequest is the body of PUT /api/v1/users/{userID}/ratings/{filmID}.
type RatingRequest struct {
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=10"`
}
