// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements content-based film recommendations.
//
// # Pipeline
//
//   - Vectorize maps every film of a catalog snapshot to a feature vector laid out as
//     [genre one-hot..., language one-hot..., director one-hot..., normalized year].
//   - BuildProfile averages the vectors of the films a user rated or favorited,
//     weighted by the rating value or by the favorite weight.
//   - Rank orders the films the user has not interacted with by cosine similarity to
//     the profile.
//   - Popular is the cold-start fallback for users with no ratings or favorites: the
//     most voted films of the catalog.
//
// # Usage
//
//	space := recommend.Vectorize(snap)
//	engine := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	res, err := engine.Recommend(space, snap, interactions, 5)
//
// # Thread Safety
//
// A FeatureSpace is immutable once built and may be shared by concurrent callers.
// Profiles are built per call.
package recommend
