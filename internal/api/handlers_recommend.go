// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// RecommendationsResponse is the payload of the recommendations endpoint.
type RecommendationsResponse struct {
	UserID     int                   `json:"user_id"`
	ColdStart  bool                  `json:"cold_start"`
	Candidates []recommend.Candidate `json:"candidates"`
	FilmIDs    []int                 `json:"film_ids"`
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations?limit=.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondServiceError(w, r, err, "Recommendation")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondServiceError(w, r, err, "Recommendation")
		return
	}
	req := RecommendRequest{UserID: userID, Limit: limit}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	res, err := h.svc.Recommend(ctx, req.UserID, req.Limit)
	if err != nil {
		respondServiceError(w, r, err, "Recommendation")
		return
	}
	if res.Candidates == nil {
		res.Candidates = []recommend.Candidate{}
	}

	NewResponseWriter(w, r).Success(RecommendationsResponse{
		UserID:     req.UserID,
		ColdStart:  res.ColdStart,
		Candidates: res.Candidates,
		FilmIDs:    res.FilmIDs(),
	})
}
