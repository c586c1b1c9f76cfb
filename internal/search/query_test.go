// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package search

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"The Matrix", "the matrix"},
		{"  Mad   Max:\tFury Road!! ", "mad max fury road"},
		{"Amélie", "am lie"},
		{"Se7en", "se7en"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"The Lord of the Rings", []string{"lord", "rings"}},
		{"a man for all seasons", []string{"man", "all", "seasons"}},
		{"the of and", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []int
	}{
		{"heat 1995", []int{1995}},
		{"2001 a space odyssey 2001", []int{2001, 2001}},
		{"1850 or 2150", []int{}},
		{"19955", []int{}},
		{"blade runner (1982)", []int{1982}},
	}
	for _, tt := range tests {
		if got := ExtractYears(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ExtractYears(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	q := ParseQuery("  The Thing 1982 ")
	if q.Raw != "The Thing 1982" {
		t.Errorf("Raw = %q", q.Raw)
	}
	if q.Normalized != "the thing 1982" {
		t.Errorf("Normalized = %q", q.Normalized)
	}
	if !slices.Equal(q.Tokens, []string{"thing", "1982"}) {
		t.Errorf("Tokens = %v", q.Tokens)
	}
	if !q.HasYear(1982) || q.HasYear(0) || q.HasYear(1983) {
		t.Errorf("HasYear mismatch for years %v", q.Years)
	}
	if q.Empty() {
		t.Error("query should not be empty")
	}
	if !ParseQuery(" ?! ").Empty() {
		t.Error("punctuation-only query should be empty")
	}
}
