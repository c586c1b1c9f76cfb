// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package search

import (
	"regexp"
	"strconv"
	"strings"
)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "in": {}, "at": {}, "of": {}, "a": {}, "an": {}, "to": {},
	"for": {}, "on": {}, "with": {}, "by": {}, "from": {}, "as": {}, "that": {}, "this": {},
}

// Query is a parsed free-text search.
type Query struct {
	Raw        string
	Normalized string
	Tokens     []string
	Years      []int
}

// Empty reports whether the query has no searchable text.
func (q Query) Empty() bool {
	return q.Normalized == ""
}

// HasYear reports whether year was mentioned in the query.
func (q Query) HasYear(year int) bool {
	if year == 0 {
		return false
	}
	for _, y := range q.Years {
		if y == year {
			return true
		}
	}
	return false
}

// ParseQuery trims raw and derives its normalized form, tokens and years.
func ParseQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	return Query{
		Raw:        raw,
		Normalized: Normalize(raw),
		Tokens:     Tokenize(raw),
		Years:      ExtractYears(raw),
	}
}

// Normalize lowercases s, replaces every character outside [a-z0-9] with a space and
// collapses runs of spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(cleaned), " ")
}

// Tokenize normalizes s and splits it into words, dropping stop words.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ExtractYears returns every standalone 19xx or 20xx number in s, in order of appearance.
// Duplicates are kept.
func ExtractYears(s string) []int {
	found := yearPattern.FindAllString(s, -1)
	years := make([]int, 0, len(found))
	for _, y := range found {
		n, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		years = append(years, n)
	}
	return years
}
