// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "github.com/tomtom215/reelmatch/internal/catalog"

// Profile is a user's taste vector in the dimension of one FeatureSpace.
type Profile struct {
	Vector []float64
	Weight float64 // total weight of the signals that were averaged
}

// BuildProfile averages the vectors of the user's rated and favorited films. A rating
// weighs its value, a favorite weighs favoriteWeight. A film that is both rated and
// favorited contributes both terms. Films missing from the space are skipped.
//
// The second return value is false on cold start, when the user has neither ratings nor
// favorites.
func BuildProfile(space *FeatureSpace, in catalog.Interactions, favoriteWeight float64) (Profile, bool) {
	if in.Empty() {
		return Profile{}, false
	}

	p := Profile{Vector: make([]float64, space.Dim())}
	accumulate := func(filmID int, w float64) {
		v, ok := space.Vector(filmID)
		if !ok {
			return
		}
		for i, x := range v {
			p.Vector[i] += w * x
		}
		p.Weight += w
	}

	for _, r := range in.Ratings {
		accumulate(r.FilmID, r.Value)
	}
	for _, id := range in.Favorites {
		accumulate(id, favoriteWeight)
	}

	if p.Weight != 0 {
		for i := range p.Vector {
			p.Vector[i] /= p.Weight
		}
	}
	return p, true
}
