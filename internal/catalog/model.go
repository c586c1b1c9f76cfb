// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package catalog holds the film catalog and user interaction data consumed by the
// search and recommendation engines, along with the stores that persist it.
package catalog

import (
	"errors"
	"slices"
)

// Sentinel errors shared by the catalog and the engines built on it.
var (
	// ErrInvalidInput is returned for malformed queries, bad ids or mismatched vectors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCatalog marks a snapshot with nothing to index. Warm reports it; search and
	// recommendation return empty results instead.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrUnavailable is returned while the store circuit breaker rejects reads.
	ErrUnavailable = errors.New("catalog store unavailable")
)

// Film is a catalog entry. Year is 0 when the release date is unknown.
type Film struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Year        int     `json:"year,omitempty" yaml:"year,omitempty"`
	Rating      float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	VoteCount   int     `json:"vote_count,omitempty" yaml:"vote_count,omitempty"`
	Language    string  `json:"language,omitempty" yaml:"language,omitempty"`
	GenreIDs    []int   `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty"`
	DirectorIDs []int   `json:"director_ids,omitempty" yaml:"director_ids,omitempty"`
}

// Genre is a named film genre.
type Genre struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Director is a named film director.
type Director struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Tag is a user-facing label. Usage counts how many users and posts carry it.
type Tag struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Usage int    `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// User is a searchable account.
type User struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
}

// Rating is one user's 0-10 score for a film.
type Rating struct {
	UserID int     `json:"user_id" yaml:"user_id"`
	FilmID int     `json:"film_id" yaml:"film_id"`
	Value  float64 `json:"rating" yaml:"rating"`
}

// Favorite marks a film a user has favorited.
type Favorite struct {
	UserID int `json:"user_id" yaml:"user_id"`
	FilmID int `json:"film_id" yaml:"film_id"`
}

// Data is the raw content of a catalog, as loaded from a seed file or the store.
type Data struct {
	Films     []Film     `json:"films" yaml:"films"`
	Genres    []Genre    `json:"genres" yaml:"genres"`
	Directors []Director `json:"directors" yaml:"directors"`
	Tags      []Tag      `json:"tags" yaml:"tags"`
	Users     []User     `json:"users" yaml:"users"`
	Ratings   []Rating   `json:"ratings,omitempty" yaml:"ratings,omitempty"`
	Favorites []Favorite `json:"favorites,omitempty" yaml:"favorites,omitempty"`
}

// Interactions is one user's rating and favorite history.
type Interactions struct {
	UserID    int
	Ratings   []Rating
	Favorites []int
}

// Empty reports whether the user has no signal at all.
func (in Interactions) Empty() bool {
	return len(in.Ratings) == 0 && len(in.Favorites) == 0
}

// Interacted returns the set of films the user rated or favorited.
func (in Interactions) Interacted() map[int]struct{} {
	seen := make(map[int]struct{}, len(in.Ratings)+len(in.Favorites))
	for _, r := range in.Ratings {
		seen[r.FilmID] = struct{}{}
	}
	for _, id := range in.Favorites {
		seen[id] = struct{}{}
	}
	return seen
}

// InteractionsFor extracts one user's history from d.
func (d Data) InteractionsFor(userID int) Interactions {
	in := Interactions{UserID: userID}
	for _, r := range d.Ratings {
		if r.UserID == userID {
			in.Ratings = append(in.Ratings, r)
		}
	}
	for _, f := range d.Favorites {
		if f.UserID == userID && !slices.Contains(in.Favorites, f.FilmID) {
			in.Favorites = append(in.Favorites, f.FilmID)
		}
	}
	return in
}
