// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata after the first use. Field names in messages come from the json
// tag, so errors name the query or body parameter the client sent.
//
// Custom tags:
//   - notblank: string must contain a non-space character
//   - entitykind: one of film, user, tag
//
// Example:
//
//	type SearchRequest struct {
//	    Query string `json:"q" validate:"required,notblank,max=200"`
//	    Type  string `json:"type" validate:"omitempty,entitykind"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
