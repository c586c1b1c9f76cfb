// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"fmt"
)

// Rating bounds accepted by stores.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Store persists the catalog and user interactions.
//
// Snapshot returns an immutable view whose Version increases with every
// committed catalog replacement. Interactions are read per call and are not
// part of the snapshot.
type Store interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Interactions(ctx context.Context, userID int) (Interactions, error)

	// ReplaceCatalog swaps every film, genre, director, tag and user for the
	// content of d and returns the new version. Ratings and favorites in d
	// are merged into the existing interaction data.
	ReplaceCatalog(ctx context.Context, d Data) (uint64, error)

	PutRating(ctx context.Context, r Rating) error
	DeleteRating(ctx context.Context, userID, filmID int) error
	PutFavorite(ctx context.Context, f Favorite) error
	DeleteFavorite(ctx context.Context, userID, filmID int) error

	Close() error
}

// ValidateRating checks ids and the rating range.
func ValidateRating(r Rating) error {
	if r.UserID <= 0 || r.FilmID <= 0 {
		return fmt.Errorf("%w: user and film ids must be positive", ErrInvalidInput)
	}
	if r.Value < MinRating || r.Value > MaxRating {
		return fmt.Errorf("%w: rating %.2f outside [%.0f, %.0f]", ErrInvalidInput, r.Value, MinRating, MaxRating)
	}
	return nil
}

func validateIDs(userID, filmID int) error {
	if userID <= 0 || filmID <= 0 {
		return fmt.Errorf("%w: user and film ids must be positive", ErrInvalidInput)
	}
	return nil
}
