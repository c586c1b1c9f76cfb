// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// PutRating handles PUT /api/v1/users/{userID}/ratings/{filmID} with body {"rating": 0-10}.
// An existing rating is overwritten.
func (h *Handler) PutRating(w http.ResponseWriter, r *http.Request) {
	userID, filmID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, r, err, "Rating")
		return
	}
	var req RatingRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondServiceError(w, r, err, "Rating")
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	rating := catalog.Rating{UserID: userID, FilmID: filmID, Value: *req.Rating}
	if err := h.svc.RateFilm(ctx, rating); err != nil {
		respondServiceError(w, r, err, "Rating")
		return
	}
	NewResponseWriter(w, r).Success(rating)
}

// DeleteRating handles DELETE /api/v1/users/{userID}/ratings/{filmID}.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, filmID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, r, err, "Rating removal")
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	if err := h.svc.UnrateFilm(ctx, userID, filmID); err != nil {
		respondServiceError(w, r, err, "Rating removal")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// PutFavorite handles PUT /api/v1/users/{userID}/favorites/{filmID}.
func (h *Handler) PutFavorite(w http.ResponseWriter, r *http.Request) {
	userID, filmID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, r, err, "Favorite")
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	if err := h.svc.FavoriteFilm(ctx, userID, filmID); err != nil {
		respondServiceError(w, r, err, "Favorite")
		return
	}
	NewResponseWriter(w, r).Success(catalog.Favorite{UserID: userID, FilmID: filmID})
}

// DeleteFavorite handles DELETE /api/v1/users/{userID}/favorites/{filmID}.
func (h *Handler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, filmID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, r, err, "Favorite removal")
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	if err := h.svc.UnfavoriteFilm(ctx, userID, filmID); err != nil {
		respondServiceError(w, r, err, "Favorite removal")
		return
	}
	NewResponseWriter(w, r).NoContent()
}
