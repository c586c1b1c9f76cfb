// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"sort"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Rank scores every film of space not in exclude against profile and returns the best
// limit candidates, ordered by similarity descending then film id ascending.
func Rank(space *FeatureSpace, profile Profile, exclude map[int]struct{}, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return []Candidate{}, nil
	}

	candidates := make([]Candidate, 0, space.Len())
	for _, id := range space.Films() {
		if _, skip := exclude[id]; skip {
			continue
		}
		v, _ := space.Vector(id)
		score, err := Cosine(profile.Vector, v)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{FilmID: id, Score: score})
	}

	sortCandidates(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Popular returns the limit films with the most votes, ties broken by ascending id.
// Score carries the vote count.
func Popular(snap *catalog.Snapshot, limit int) []Candidate {
	if snap == nil || limit <= 0 {
		return []Candidate{}
	}

	candidates := make([]Candidate, 0, len(snap.Films))
	seen := make(map[int]struct{}, len(snap.Films))
	for _, f := range snap.Films {
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}
		candidates = append(candidates, Candidate{FilmID: f.ID, Score: float64(f.VoteCount)})
	}

	sortCandidates(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func sortCandidates(c []Candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].FilmID < c[j].FilmID
	})
}
