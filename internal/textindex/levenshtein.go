// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package textindex

// Levenshtein returns the unit-cost insert/delete/substitute distance between a and b,
// measured in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}
	for _, r := range rb {
		row = nextRow(row, ra, r)
	}
	return row[len(ra)]
}

// nextRow computes the DP row for one more rune of the candidate word given the previous
// row against query. prev[i] is the distance between the candidate prefix and query[:i].
func nextRow(prev []int, query []rune, r rune) []int {
	row := make([]int, len(prev))
	row[0] = prev[0] + 1
	for i := 1; i < len(row); i++ {
		cost := 1
		if query[i-1] == r {
			cost = 0
		}
		row[i] = min(
			row[i-1]+1,     // insertion
			prev[i]+1,      // deletion
			prev[i-1]+cost, // substitution
		)
	}
	return row
}
