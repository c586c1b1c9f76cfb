// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// ReplaceCatalogResponse reports the version created by a catalog replacement.
type ReplaceCatalogResponse struct {
	Version   uint64 `json:"version"`
	Films     int    `json:"films"`
	Genres    int    `json:"genres"`
	Directors int    `json:"directors"`
	Tags      int    `json:"tags"`
	Users     int    `json:"users"`
}

// GetCatalog handles GET /api/v1/catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r.Context())
	defer cancel()

	summary, err := h.svc.Summary(ctx)
	if err != nil {
		respondServiceError(w, r, err, "Catalog summary")
		return
	}
	NewResponseWriter(w, r).Success(summary)
}

// ReplaceCatalog handles POST /api/v1/catalog. The body is a full catalog in JSON, or
// YAML when Content-Type is application/yaml. Entities are replaced; ratings and
// favorites in the body are merged into the stored ones.
func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	format, err := catalogFormat(r.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(w, r, err, "Catalog replacement")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondServiceError(w, r, err, "Catalog replacement")
		return
	}
	data, err := catalog.Decode(bytes.NewReader(body), format)
	if err != nil {
		respondServiceError(w, r, err, "Catalog replacement")
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	version, err := h.svc.ReplaceCatalog(ctx, data)
	if err != nil {
		respondServiceError(w, r, err, "Catalog replacement")
		return
	}

	logging.Ctx(r.Context()).Info().
		Uint64("version", version).
		Int("films", len(data.Films)).
		Str("format", format).
		Msg("Catalog replaced")

	NewResponseWriter(w, r).Created(ReplaceCatalogResponse{
		Version:   version,
		Films:     len(data.Films),
		Genres:    len(data.Genres),
		Directors: len(data.Directors),
		Tags:      len(data.Tags),
		Users:     len(data.Users),
	})
}

// GetFilm handles GET /api/v1/films/{filmID}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "filmID")
	if err != nil {
		respondServiceError(w, r, err, "Film lookup")
		return
	}

	ctx, cancel := h.context(r.Context())
	defer cancel()

	film, err := h.svc.Film(ctx, filmID)
	if err != nil {
		respondServiceError(w, r, err, "Film lookup")
		return
	}
	NewResponseWriter(w, r).Success(film)
}

func catalogFormat(contentType string) (string, error) {
	if contentType == "" {
		return catalog.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: bad Content-Type %q", catalog.ErrInvalidInput, contentType)
	}
	switch mediaType {
	case "application/json":
		return catalog.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return catalog.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported Content-Type %q", catalog.ErrInvalidInput, mediaType)
	}
}
