// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package textindex

import "sync"

// Field names used by the search engine.
const (
	FieldFilmTitle    = "film.title"
	FieldFilmDirector = "film.director"
	FieldUserName     = "user.name"
	FieldTagName      = "tag.name"
)

// Set groups one Index per indexed field. All indexes in a set share the same options.
type Set struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	opts    []Option
}

// NewSet creates an empty Set whose indexes are created with opts.
func NewSet(opts ...Option) *Set {
	return &Set{
		indexes: make(map[string]*Index),
		opts:    opts,
	}
}

// GetOrCreate returns the Index for field, creating it when missing.
func (s *Set) GetOrCreate(field string) *Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ix, ok := s.indexes[field]; ok {
		return ix
	}
	ix := New(s.opts...)
	s.indexes[field] = ix
	return ix
}

// Get returns the Index for field, or nil.
func (s *Set) Get(field string) *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexes[field]
}

// Stats returns the number of stored words per field.
func (s *Set) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int, len(s.indexes))
	for field, ix := range s.indexes {
		stats[field] = ix.Size()
	}
	return stats
}
