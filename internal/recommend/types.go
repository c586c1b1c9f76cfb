// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

// Candidate is a scored film.
type Candidate struct {
	FilmID int     `json:"film_id"`
	Score  float64 `json:"score"`
}

// Result is the outcome of one recommendation call.
type Result struct {
	// Candidates in rank order. Score is the cosine similarity, or the vote count when
	// ColdStart is set.
	Candidates []Candidate `json:"candidates"`

	// ColdStart is true when the user had no signal and popularity ranking was used.
	ColdStart bool `json:"cold_start"`
}

// FilmIDs returns the ranked film ids.
func (r Result) FilmIDs() []int {
	ids := make([]int, len(r.Candidates))
	for i, c := range r.Candidates {
		ids[i] = c.FilmID
	}
	return ids
}

// Layout reports the block sizes of a feature vector.
type Layout struct {
	Genres    int `json:"genres"`
	Languages int `json:"languages"`
	Directors int `json:"directors"`
}

// Dim returns the full vector dimension, including the year scalar.
func (l Layout) Dim() int {
	return l.Genres + l.Languages + l.Directors + 1
}
