// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package search

import (
	"github.com/pmezard/go-difflib/difflib"
)

// FuzzyRatio returns the sequence-matcher similarity of the normalized forms of a and b,
// in [0,1]. Either side normalizing to empty yields 0.
func FuzzyRatio(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	m := difflib.NewMatcher(splitChars(na), splitChars(nb))
	return m.Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// TokenOverlap returns the fraction of tokens present among the tokens of text.
// Repeated query tokens count once per occurrence.
func TokenOverlap(tokens []string, text string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	target := Tokenize(text)
	if len(target) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(target))
	for _, t := range target {
		set[t] = struct{}{}
	}

	matched := 0
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
