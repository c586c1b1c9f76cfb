// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

// Snapshot is an immutable, versioned view of the catalog. Callers must not modify the
// slices it exposes.
type Snapshot struct {
	Version   uint64
	Films     []Film
	Genres    []Genre
	Directors []Director
	Tags      []Tag
	Users     []User

	filmIndex    map[int]int
	genreNames   map[int]string
	directorName map[int]string
	maxVotes     int
}

// NewSnapshot copies the entity lists out of d and builds lookup tables.
// Interaction lists in d are ignored.
func NewSnapshot(version uint64, d Data) *Snapshot {
	s := &Snapshot{
		Version:      version,
		Films:        append([]Film(nil), d.Films...),
		Genres:       append([]Genre(nil), d.Genres...),
		Directors:    append([]Director(nil), d.Directors...),
		Tags:         append([]Tag(nil), d.Tags...),
		Users:        append([]User(nil), d.Users...),
		filmIndex:    make(map[int]int, len(d.Films)),
		genreNames:   make(map[int]string, len(d.Genres)),
		directorName: make(map[int]string, len(d.Directors)),
	}

	for i, f := range s.Films {
		s.filmIndex[f.ID] = i
		if f.VoteCount > s.maxVotes {
			s.maxVotes = f.VoteCount
		}
	}
	for _, g := range s.Genres {
		s.genreNames[g.ID] = g.Name
	}
	for _, d := range s.Directors {
		s.directorName[d.ID] = d.Name
	}
	return s
}

// Empty reports whether the snapshot has no films, users or tags.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Films) == 0 && len(s.Users) == 0 && len(s.Tags) == 0)
}

// Film returns the film with id.
func (s *Snapshot) Film(id int) (Film, bool) {
	i, ok := s.filmIndex[id]
	if !ok {
		return Film{}, false
	}
	return s.Films[i], true
}

// GenreNames resolves a film's genre ids, skipping unknown ids.
func (s *Snapshot) GenreNames(f Film) []string {
	names := make([]string, 0, len(f.GenreIDs))
	for _, id := range f.GenreIDs {
		if name, ok := s.genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// DirectorNames resolves a film's director ids, skipping unknown ids.
func (s *Snapshot) DirectorNames(f Film) []string {
	names := make([]string, 0, len(f.DirectorIDs))
	for _, id := range f.DirectorIDs {
		if name, ok := s.directorName[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// MaxVoteCount returns the largest vote count in the catalog, never less than 1.
func (s *Snapshot) MaxVoteCount() int {
	if s.maxVotes < 1 {
		return 1
	}
	return s.maxVotes
}
