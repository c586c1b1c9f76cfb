// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/textindex"
)

// Errors returned by the engine. Both wrap catalog.ErrInvalidInput.
var (
	ErrInvalidQuery = fmt.Errorf("%w: empty search query", catalog.ErrInvalidInput)
	ErrUnknownKind  = fmt.Errorf("%w: unknown entity kind", catalog.ErrInvalidInput)
)

// EntityKind selects which entities a search targets.
type EntityKind string

// Searchable entity kinds.
const (
	KindFilm EntityKind = "film"
	KindUser EntityKind = "user"
	KindTag  EntityKind = "tag"
)

// ParseEntityKind maps a request value to an EntityKind, defaulting to films.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFilm:
		return KindFilm, nil
	case KindUser:
		return KindUser, nil
	case KindTag:
		return KindTag, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Options tune a single search. A negative MaxEditDistance or non-positive MaxResults
// selects the engine default. The zero value is not the default: a zero
// MaxEditDistance restricts matching to exact and prefix hits. Start from
// Engine.DefaultOptions and override fields instead.
type Options struct {
	Kind            EntityKind
	MaxEditDistance int
	MaxResults      int
	MinScore        float64
}

// Result is one ranked hit.
type Result struct {
	EntityID  int        `json:"entity_id"`
	Kind      EntityKind `json:"kind"`
	Score     float64    `json:"score"`
	Label     string     `json:"label"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

// Config holds the engine defaults.
type Config struct {
	MaxEditDistance int
	MaxResults      int
	CandidateLimit  int
	PruneMode       textindex.PruneMode
	Weights         Weights
}

// DefaultConfig returns the defaults used by the HTTP service.
func DefaultConfig() Config {
	return Config{
		MaxEditDistance: 2,
		MaxResults:      10,
		CandidateLimit:  200,
		PruneMode:       textindex.PruneBound,
		Weights:         DefaultWeights(),
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.MaxEditDistance < 0 || c.MaxEditDistance > 5 {
		return fmt.Errorf("max_edit_distance must be between 0 and 5, got %d", c.MaxEditDistance)
	}
	if c.MaxResults <= 0 || c.MaxResults > 100 {
		return fmt.Errorf("max_results must be between 1 and 100, got %d", c.MaxResults)
	}
	if c.CandidateLimit < c.MaxResults {
		return fmt.Errorf("candidate_limit must be at least max_results (%d), got %d", c.MaxResults, c.CandidateLimit)
	}
	return c.Weights.Validate()
}

// Indexes are the text indexes derived from one catalog snapshot. They are never mutated
// after BuildIndexes returns.
type Indexes struct {
	Version uint64
	set     *textindex.Set
}

// Stats reports the number of indexed words per field.
func (ix *Indexes) Stats() map[string]int {
	return ix.set.Stats()
}

// Engine runs searches against prebuilt Indexes.
type Engine struct {
	cfg    Config
	scorer *Scorer
}

// NewEngine creates an Engine. cfg must already be validated.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, scorer: NewScorer(cfg.Weights)}
}

// Config returns the engine defaults.
func (e *Engine) Config() Config {
	return e.cfg
}

// BuildIndexes indexes film titles and director names, usernames and tag names of snap.
// Whole normalized strings and their individual tokens are both indexed.
func (e *Engine) BuildIndexes(snap *catalog.Snapshot) *Indexes {
	set := textindex.NewSet(textindex.WithPruneMode(e.cfg.PruneMode))
	titles := set.GetOrCreate(textindex.FieldFilmTitle)
	directors := set.GetOrCreate(textindex.FieldFilmDirector)
	users := set.GetOrCreate(textindex.FieldUserName)
	tags := set.GetOrCreate(textindex.FieldTagName)

	if snap != nil {
		for _, f := range snap.Films {
			indexPhrase(titles, f.Title, f.ID)
			for _, name := range snap.DirectorNames(f) {
				indexPhrase(directors, name, f.ID)
			}
		}
		for _, u := range snap.Users {
			users.InsertEntity(strings.ToLower(u.Username), u.ID)
			indexPhrase(users, u.Username, u.ID)
		}
		for _, t := range snap.Tags {
			tags.InsertEntity(strings.ToLower(t.Name), t.ID)
			indexPhrase(tags, t.Name, t.ID)
		}
	}

	ix := &Indexes{set: set}
	if snap != nil {
		ix.Version = snap.Version
	}
	return ix
}

func indexPhrase(ix *textindex.Index, text string, id int) {
	normalized := Normalize(text)
	if normalized == "" {
		return
	}
	ix.InsertEntity(normalized, id)
	for _, tok := range strings.Fields(normalized) {
		ix.InsertEntity(tok, id)
	}
}

func (e *Engine) resolve(opts Options) Options {
	if opts.Kind == "" {
		opts.Kind = KindFilm
	}
	if opts.MaxEditDistance < 0 {
		opts.MaxEditDistance = e.cfg.MaxEditDistance
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = e.cfg.MaxResults
	}
	return opts
}

// DefaultOptions returns Options for kind filled from the engine config.
func (e *Engine) DefaultOptions(kind EntityKind) Options {
	return e.resolve(Options{Kind: kind, MaxEditDistance: -1})
}

// SearchEntities ranks entities of opts.Kind against query. Results are ordered by score
// descending then id ascending and never exceed opts.MaxResults. An empty catalog yields
// an empty result; an empty query is an error.
func (e *Engine) SearchEntities(ix *Indexes, snap *catalog.Snapshot, query string, opts Options) ([]Result, error) {
	q := ParseQuery(query)
	if q.Empty() {
		return nil, ErrInvalidQuery
	}
	opts = e.resolve(opts)
	if snap.Empty() || ix == nil {
		return []Result{}, nil
	}

	var results []Result
	switch opts.Kind {
	case KindFilm:
		results = e.searchFilms(ix, snap, q, opts)
	case KindUser:
		results = e.searchNamed(ix.set.Get(textindex.FieldUserName), q, opts, KindUser, userNames(snap))
	case KindTag:
		results = e.searchNamed(ix.set.Get(textindex.FieldTagName), q, opts, KindTag, tagNames(snap))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}

	return rank(results, opts), nil
}

// candidates gathers ids matching the whole query or any of its tokens, by prefix or
// within the edit distance budget.
func (e *Engine) candidates(ix *textindex.Index, q Query, maxDistance int, into map[int]struct{}) {
	if ix == nil {
		return
	}
	limit := e.cfg.CandidateLimit
	add := func(ids []int) {
		for _, id := range ids {
			into[id] = struct{}{}
		}
	}
	addMatches := func(ms []textindex.Match) {
		for _, m := range ms {
			add(m.IDs)
		}
	}

	add(ix.PrefixIDs(q.Normalized, limit))
	addMatches(ix.SearchByEditDistance(q.Normalized, maxDistance, limit))
	for _, tok := range q.Tokens {
		add(ix.PrefixIDs(tok, limit))
		addMatches(ix.SearchByEditDistance(tok, maxDistance, limit))
	}
}

func (e *Engine) searchFilms(ix *Indexes, snap *catalog.Snapshot, q Query, opts Options) []Result {
	ids := make(map[int]struct{})
	e.candidates(ix.set.Get(textindex.FieldFilmTitle), q, opts.MaxEditDistance, ids)
	e.candidates(ix.set.Get(textindex.FieldFilmDirector), q, opts.MaxEditDistance, ids)
	if len(q.Years) > 0 {
		for _, f := range snap.Films {
			if q.HasYear(f.Year) {
				ids[f.ID] = struct{}{}
			}
		}
	}

	maxVotes := snap.MaxVoteCount()
	results := make([]Result, 0, len(ids))
	for id := range ids {
		f, ok := snap.Film(id)
		if !ok {
			continue
		}
		b := e.scorer.Score(Candidate{
			ID:        f.ID,
			Title:     f.Title,
			Directors: snap.DirectorNames(f),
			Genres:    snap.GenreNames(f),
			Year:      f.Year,
			Rating:    f.Rating,
			VoteCount: f.VoteCount,
		}, q, maxVotes)
		results = append(results, Result{
			EntityID:  f.ID,
			Kind:      KindFilm,
			Score:     b.Total,
			Label:     f.Title,
			Breakdown: &b,
		})
	}
	return results
}

func (e *Engine) searchNamed(ix *textindex.Index, q Query, opts Options, kind EntityKind, names map[int]string) []Result {
	ids := make(map[int]struct{})
	e.candidates(ix, q, opts.MaxEditDistance, ids)
	if ix != nil {
		for _, id := range ix.PrefixIDs(strings.ToLower(q.Raw), e.cfg.CandidateLimit) {
			ids[id] = struct{}{}
		}
	}

	results := make([]Result, 0, len(ids))
	for id := range ids {
		name, ok := names[id]
		if !ok {
			continue
		}
		results = append(results, Result{
			EntityID: id,
			Kind:     kind,
			Score:    NameScore(q, name),
			Label:    name,
		})
	}
	return results
}

// NameScore rates a username or tag name against q.
func NameScore(q Query, name string) float64 {
	return clamp01(max(FuzzyRatio(q.Raw, name), TokenOverlap(q.Tokens, name)))
}

func rank(results []Result, opts Options) []Result {
	kept := results[:0]
	for _, r := range results {
		if r.Score >= opts.MinScore {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].EntityID < kept[j].EntityID
	})
	if len(kept) > opts.MaxResults {
		kept = kept[:opts.MaxResults]
	}
	return kept
}

func userNames(snap *catalog.Snapshot) map[int]string {
	names := make(map[int]string, len(snap.Users))
	for _, u := range snap.Users {
		names[u.ID] = u.Username
	}
	return names
}

func tagNames(snap *catalog.Snapshot) map[int]string {
	names := make(map[int]string, len(snap.Tags))
	for _, t := range snap.Tags {
		names[t.ID] = t.Name
	}
	return names
}

// DefaultTagSuggestions is the number of tags SuggestTags returns when limit is not set.
const DefaultTagSuggestions = 5

// SuggestTags returns tags whose name starts with prefix, case-insensitively, ordered by
// usage descending then name ascending.
func (e *Engine) SuggestTags(ix *Indexes, snap *catalog.Snapshot, prefix string, limit int) ([]catalog.Tag, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, ErrInvalidQuery
	}
	if limit <= 0 {
		limit = DefaultTagSuggestions
	}
	if snap.Empty() || ix == nil || len(snap.Tags) == 0 {
		return []catalog.Tag{}, nil
	}

	byID := make(map[int]catalog.Tag, len(snap.Tags))
	for _, t := range snap.Tags {
		byID[t.ID] = t
	}

	tags := ix.set.Get(textindex.FieldTagName)
	matched := make([]catalog.Tag, 0)
	for _, id := range tags.PrefixIDs(prefix, len(snap.Tags)) {
		t, ok := byID[id]
		if !ok || !strings.HasPrefix(strings.ToLower(t.Name), prefix) {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Usage != matched[j].Usage {
			return matched[i].Usage > matched[j].Usage
		}
		return matched[i].Name < matched[j].Name
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// IsInvalidInput reports whether err should be reported to callers as a bad request.
func IsInvalidInput(err error) bool {
	return errors.Is(err, catalog.ErrInvalidInput)
}
