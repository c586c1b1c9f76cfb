// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package search

import (
	"fmt"
	"math"
)

// Weights are the per-signal multipliers of the composite film score.
type Weights struct {
	Title      float64 `koanf:"title"`
	Director   float64 `koanf:"director"`
	Genre      float64 `koanf:"genre"`
	Year       float64 `koanf:"year"`
	Rating     float64 `koanf:"rating"`
	Popularity float64 `koanf:"popularity"`
}

// DefaultWeights returns the production weighting. The weights add up to 1.2; the
// composite is clamped to [0,1] afterwards.
func DefaultWeights() Weights {
	return Weights{
		Title:      0.60,
		Director:   0.15,
		Genre:      0.15,
		Year:       0.10,
		Rating:     0.10,
		Popularity: 0.10,
	}
}

// Validate rejects negative weights and an all-zero weighting.
func (w Weights) Validate() error {
	all := []struct {
		name string
		v    float64
	}{
		{"title", w.Title}, {"director", w.Director}, {"genre", w.Genre},
		{"year", w.Year}, {"rating", w.Rating}, {"popularity", w.Popularity},
	}
	sum := 0.0
	for _, f := range all {
		if f.v < 0 || math.IsNaN(f.v) {
			return fmt.Errorf("weight %s must be non-negative, got %v", f.name, f.v)
		}
		sum += f.v
	}
	if sum == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// Candidate is a film prepared for scoring.
type Candidate struct {
	ID        int
	Title     string
	Directors []string
	Genres    []string
	Year      int
	Rating    float64
	VoteCount int
}

// Breakdown holds the individual signals of a score, each in [0,1].
type Breakdown struct {
	Total      float64 `json:"total"`
	Title      float64 `json:"title"`
	Director   float64 `json:"director"`
	Genre      float64 `json:"genre"`
	Year       float64 `json:"year"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// Scorer ranks film candidates against a parsed query.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score computes the composite relevance of c for q. maxVoteCount values below 1 are
// treated as 1.
func (s *Scorer) Score(c Candidate, q Query, maxVoteCount int) Breakdown {
	b := Breakdown{
		Title:      clamp01(max(FuzzyRatio(q.Raw, c.Title), TokenOverlap(q.Tokens, c.Title))),
		Rating:     clamp01(c.Rating / 10),
		Popularity: popularity(c.VoteCount, maxVoteCount),
	}

	for _, d := range c.Directors {
		b.Director = max(b.Director, FuzzyRatio(q.Raw, d))
	}
	b.Director = clamp01(b.Director)

	for _, g := range c.Genres {
		b.Genre = max(b.Genre, TokenOverlap(q.Tokens, g), FuzzyRatio(q.Raw, g))
	}
	b.Genre = clamp01(b.Genre)

	if q.HasYear(c.Year) {
		b.Year = 1
	}

	w := s.weights
	b.Total = clamp01(b.Title*w.Title +
		b.Director*w.Director +
		b.Genre*w.Genre +
		b.Year*w.Year +
		b.Rating*w.Rating +
		b.Popularity*w.Popularity)
	return b
}

func popularity(votes, maxVotes int) float64 {
	if votes <= 0 {
		return 0
	}
	if maxVotes < 1 {
		maxVotes = 1
	}
	return clamp01(math.Sqrt(float64(votes) / float64(maxVotes)))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
