// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	rw := NewResponseWriter(w, r)

	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		rw.BadRequest(err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound(err.Error())
	case errors.As(err, &maxErr):
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
	case errors.Is(err, catalog.ErrUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Str("action", action).Msg("Catalog store unavailable")
		rw.ServiceUnavailable("Catalog store temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Warn().Err(err).Str("action", action).Msg("Request timed out")
		rw.ServiceUnavailable("Request timed out")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("action", action).Msg("API error")
		rw.InternalError(action + " failed")
	}
}

// validateRequest runs struct validation and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
	return false
}

// pathID parses a positive integer chi URL parameter.
func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", catalog.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// pathIDs parses the userID and filmID URL parameters.
func pathIDs(r *http.Request) (userID, filmID int, err error) {
	if userID, err = pathID(r, "userID"); err != nil {
		return 0, 0, err
	}
	if filmID, err = pathID(r, "filmID"); err != nil {
		return 0, 0, err
	}
	return userID, filmID, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", catalog.ErrInvalidInput, key)
	}
	return v, nil
}

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", catalog.ErrInvalidInput, key)
	}
	return v, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", catalog.ErrInvalidInput, key)
	}
	return v, nil
}

// decodeJSONBody decodes a single JSON object into dst, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", catalog.ErrInvalidInput)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: request body is required", catalog.ErrInvalidInput)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", catalog.ErrInvalidInput, err)
	}
	return nil
}
