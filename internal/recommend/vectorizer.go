// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"sort"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// FeatureSpace holds the vectors of every film of one catalog snapshot. All vectors share
// the same dimension. A FeatureSpace is read-only after Vectorize returns.
type FeatureSpace struct {
	Version uint64

	layout    Layout
	genres    map[int]int    // genre id -> offset
	languages map[string]int // language -> offset
	directors map[int]int    // director id -> offset
	order     []int          // film ids in catalog order
	vectors   map[int][]float64
}

// Vectorize builds the feature space for snap.
//
// Genre and director blocks follow catalog order, with ids referenced by films but absent
// from the catalog appended in the order they are first seen. Languages are sorted. The
// trailing scalar is the film year scaled to [0,1] over the known years of the catalog.
func Vectorize(snap *catalog.Snapshot) *FeatureSpace {
	fs := &FeatureSpace{
		genres:    make(map[int]int),
		languages: make(map[string]int),
		directors: make(map[int]int),
		vectors:   make(map[int][]float64),
	}
	if snap == nil {
		fs.layout = Layout{}
		return fs
	}
	fs.Version = snap.Version

	for _, g := range snap.Genres {
		addOffset(fs.genres, g.ID)
	}
	for _, d := range snap.Directors {
		addOffset(fs.directors, d.ID)
	}

	langs := make(map[string]struct{})
	minYear, maxYear := 0, 0
	for _, f := range snap.Films {
		for _, id := range f.GenreIDs {
			addOffset(fs.genres, id)
		}
		for _, id := range f.DirectorIDs {
			addOffset(fs.directors, id)
		}
		if f.Language != "" {
			langs[f.Language] = struct{}{}
		}
		if f.Year != 0 {
			if minYear == 0 || f.Year < minYear {
				minYear = f.Year
			}
			if maxYear == 0 || f.Year > maxYear {
				maxYear = f.Year
			}
		}
	}

	sorted := make([]string, 0, len(langs))
	for l := range langs {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)
	for i, l := range sorted {
		fs.languages[l] = i
	}

	fs.layout = Layout{Genres: len(fs.genres), Languages: len(fs.languages), Directors: len(fs.directors)}

	langBase := fs.layout.Genres
	dirBase := langBase + fs.layout.Languages
	yearPos := dirBase + fs.layout.Directors
	dim := fs.layout.Dim()

	for _, f := range snap.Films {
		v := make([]float64, dim)
		for _, id := range f.GenreIDs {
			v[fs.genres[id]] = 1
		}
		if off, ok := fs.languages[f.Language]; ok {
			v[langBase+off] = 1
		}
		for _, id := range f.DirectorIDs {
			v[dirBase+fs.directors[id]] = 1
		}
		if f.Year != 0 && maxYear != minYear {
			v[yearPos] = float64(f.Year-minYear) / float64(maxYear-minYear)
		}
		if _, dup := fs.vectors[f.ID]; !dup {
			fs.order = append(fs.order, f.ID)
		}
		fs.vectors[f.ID] = v
	}
	return fs
}

func addOffset(m map[int]int, id int) {
	if _, ok := m[id]; !ok {
		m[id] = len(m)
	}
}

// Dim returns the dimension shared by all vectors of the space.
func (fs *FeatureSpace) Dim() int {
	return fs.layout.Dim()
}

// Layout returns the block sizes of the space.
func (fs *FeatureSpace) Layout() Layout {
	return fs.layout
}

// Vector returns the feature vector of filmID. The returned slice must not be modified.
func (fs *FeatureSpace) Vector(filmID int) ([]float64, bool) {
	v, ok := fs.vectors[filmID]
	return v, ok
}

// Films returns the film ids of the space in catalog order.
func (fs *FeatureSpace) Films() []int {
	return fs.order
}

// Len returns the number of vectorized films.
func (fs *FeatureSpace) Len() int {
	return len(fs.order)
}
