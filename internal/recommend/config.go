// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"
)

// Config contains the recommendation tunables.
type Config struct {
	// DefaultLimit is used when a caller does not ask for a specific number of films.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the number of films a single call may return.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// FavoriteWeight is the profile weight of a favorited film. It exceeds the top
	// rating so that favorites dominate rated films.
	FavoriteWeight float64 `json:"favorite_weight" koanf:"favorite_weight"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:   5,
		MaxLimit:       50,
		FavoriteWeight: 15.0,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be at least default_limit (%d), got %d", c.DefaultLimit, c.MaxLimit)
	}
	if c.FavoriteWeight <= 0 || math.IsNaN(c.FavoriteWeight) || math.IsInf(c.FavoriteWeight, 0) {
		return fmt.Errorf("favorite_weight must be a positive number, got %f", c.FavoriteWeight)
	}
	return nil
}

// Limit resolves a requested result count against the defaults.
func (c Config) Limit(requested int) int {
	switch {
	case requested <= 0:
		return c.DefaultLimit
	case requested > c.MaxLimit:
		return c.MaxLimit
	default:
		return requested
	}
}
