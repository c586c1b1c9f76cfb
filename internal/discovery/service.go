// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/search"
)

// Config configures a Service.
type Config struct {
	Search    search.Config
	Recommend recommend.Config

	// CacheSize bounds the search response cache and the per-user
	// recommendation cache. Zero disables both.
	CacheSize int
	CacheTTL  time.Duration
}

type resultKey struct {
	version  uint64
	query    string
	kind     search.EntityKind
	distance int
	max      int
	minScore float64
}

// cachedRecommendation is valid while the catalog version, the limit and the
// user's interactions all match.
type cachedRecommendation struct {
	version   uint64
	limit     int
	ratings   []catalog.Rating
	favorites []int
	result    recommend.Result
}

func (c cachedRecommendation) matches(version uint64, limit int, in catalog.Interactions) bool {
	return c.version == version && c.limit == limit &&
		slices.Equal(c.ratings, in.Ratings) && slices.Equal(c.favorites, in.Favorites)
}

// Service is the entry point for search and recommendation requests. It is
// safe for concurrent use.
type Service struct {
	store     catalog.Store
	search    *search.Engine
	recommend *recommend.Engine
	logger    zerolog.Logger

	indexes  cache.Versioned[*search.Indexes]
	features cache.Versioned[*recommend.FeatureSpace]
	results  *cache.LRU[resultKey, []search.Result]
	recs     *cache.LRU[int, cachedRecommendation]
}

// New creates a Service reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(store catalog.Store, cfg Config, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("discovery: store is required")
	}
	if err := cfg.Search.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	rec, err := recommend.NewEngine(cfg.Recommend, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:     store,
		search:    search.NewEngine(cfg.Search),
		recommend: rec,
		logger:    logger.With().Str("component", "discovery").Logger(),
	}
	if cfg.CacheSize > 0 {
		s.results = cache.NewLRU[resultKey, []search.Result](cfg.CacheSize, cfg.CacheTTL)
		s.recs = cache.NewLRU[int, cachedRecommendation](cfg.CacheSize, cfg.CacheTTL)
	}
	return s, nil
}

// SearchConfig returns the search engine defaults.
func (s *Service) SearchConfig() search.Config {
	return s.search.Config()
}

// RecommendConfig returns the recommendation defaults.
func (s *Service) RecommendConfig() recommend.Config {
	return s.recommend.Config()
}

// DefaultSearchOptions returns the configured options for kind. Callers
// should start from these and override single fields.
func (s *Service) DefaultSearchOptions(kind search.EntityKind) search.Options {
	return s.search.DefaultOptions(kind)
}

// SearchEntities ranks entities of opts.Kind against query. At most
// opts.MaxResults results are returned, falling back to the configured
// maximum. An empty catalog yields no results; an empty query is
// catalog.ErrInvalidInput.
//
// A zero search.Options is exact matching only, since MaxEditDistance 0 is
// honored as given. Use DefaultSearchOptions for fuzzy matching.
func (s *Service) SearchEntities(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	start := time.Now()
	kind := string(opts.Kind)
	if kind == "" {
		kind = string(search.KindFilm)
	}

	results, err := s.searchEntities(ctx, query, opts)
	switch {
	case search.IsInvalidInput(err):
		metrics.RecordSearch(kind, "invalid", time.Since(start))
	case err != nil:
		metrics.RecordSearch(kind, "error", time.Since(start))
	case len(results) == 0:
		metrics.RecordSearch(kind, "empty", time.Since(start))
	default:
		metrics.RecordSearch(kind, "hit", time.Since(start))
	}
	return results, err
}

func (s *Service) searchEntities(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	key := resultKey{
		version:  snap.Version,
		query:    strings.ToLower(strings.TrimSpace(query)),
		kind:     opts.Kind,
		distance: opts.MaxEditDistance,
		max:      opts.MaxResults,
		minScore: opts.MinScore,
	}
	if s.results != nil && key.query != "" {
		if cached, ok := s.results.Get(key); ok {
			metrics.RecordSearchCache(true)
			return slices.Clone(cached), nil
		}
		metrics.RecordSearchCache(false)
	}

	results, err := s.search.SearchEntities(s.indexesFor(snap), snap, query, opts)
	if err != nil {
		return nil, err
	}

	if s.results != nil {
		s.results.Add(key, slices.Clone(results))
	}
	s.requestLogger(ctx).Debug().
		Str("kind", string(opts.Kind)).
		Uint64("version", snap.Version).
		Int("results", len(results)).
		Msg("Search served")
	return results, nil
}

// SuggestTags returns up to limit tags starting with prefix, most used first.
func (s *Service) SuggestTags(ctx context.Context, prefix string, limit int) ([]catalog.Tag, error) {
	start := time.Now()
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		metrics.RecordSearch(string(search.KindTag), "error", time.Since(start))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	tags, err := s.search.SuggestTags(s.indexesFor(snap), snap, prefix, limit)
	switch {
	case err != nil:
		metrics.RecordSearch(string(search.KindTag), "invalid", time.Since(start))
	case len(tags) == 0:
		metrics.RecordSearch(string(search.KindTag), "empty", time.Since(start))
	default:
		metrics.RecordSearch(string(search.KindTag), "hit", time.Since(start))
	}
	return tags, err
}

// Recommend returns up to limit films for userID, never including films the
// user rated or favorited. Users without any signal get the most voted
// films. limit <= 0 selects the configured default.
func (s *Service) Recommend(ctx context.Context, userID, limit int) (recommend.Result, error) {
	start := time.Now()
	res, err := s.recommendFor(ctx, userID, limit)

	mode := "content"
	switch {
	case err != nil:
		mode = "error"
	case res.ColdStart:
		mode = "cold_start"
	}
	metrics.RecordRecommend(mode, time.Since(start))
	return res, err
}

func (s *Service) recommendFor(ctx context.Context, userID, limit int) (recommend.Result, error) {
	if userID <= 0 {
		return recommend.Result{}, fmt.Errorf("%w: user id must be positive", catalog.ErrInvalidInput)
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("load catalog: %w", err)
	}
	in, err := s.store.Interactions(ctx, userID)
	if err != nil {
		return recommend.Result{}, fmt.Errorf("load interactions: %w", err)
	}

	if s.recs != nil {
		if cached, ok := s.recs.Get(userID); ok && cached.matches(snap.Version, limit, in) {
			metrics.RecordRecommendCache(true)
			res := cached.result
			res.Candidates = slices.Clone(res.Candidates)
			return res, nil
		}
		metrics.RecordRecommendCache(false)
	}

	res, err := s.recommend.Recommend(s.featuresFor(snap), snap, in, limit)
	if err != nil {
		return recommend.Result{}, err
	}
	if res.Candidates == nil {
		res.Candidates = []recommend.Candidate{}
	}
	if s.recs != nil {
		stored := res
		stored.Candidates = slices.Clone(res.Candidates)
		s.recs.Add(userID, cachedRecommendation{
			version:   snap.Version,
			limit:     limit,
			ratings:   slices.Clone(in.Ratings),
			favorites: slices.Clone(in.Favorites),
			result:    stored,
		})
	}

	s.requestLogger(ctx).Debug().
		Int("user_id", userID).
		Bool("cold_start", res.ColdStart).
		Int("results", len(res.Candidates)).
		Msg("Recommendations served")
	return res, nil
}

// InvalidateUser drops the cached recommendations of userID. It reports
// whether an entry was present.
func (s *Service) InvalidateUser(userID int) bool {
	if s.recs == nil {
		return false
	}
	return s.recs.Remove(userID)
}

// Warm builds the derived artifacts for the current snapshot and returns its
// version. An empty snapshot is still warmed and reported with
// catalog.ErrEmptyCatalog.
func (s *Service) Warm(ctx context.Context) (uint64, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	s.indexesFor(snap)
	s.featuresFor(snap)
	metrics.SetCatalog(snap.Version, len(snap.Films))
	if snap.Empty() {
		return snap.Version, fmt.Errorf("%w: version %d", catalog.ErrEmptyCatalog, snap.Version)
	}
	return snap.Version, nil
}

// Version reports the snapshot version the cached text indexes belong to.
func (s *Service) Version() (uint64, bool) {
	_, v, ok := s.indexes.Peek()
	return v, ok
}

// Ready reports whether the store can produce a snapshot.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.store.Snapshot(ctx)
	return err
}

// Summary describes the catalog currently served.
type Summary struct {
	Version   uint64 `json:"version"`
	Films     int    `json:"films"`
	Genres    int    `json:"genres"`
	Directors int    `json:"directors"`
	Tags      int    `json:"tags"`
	Users     int    `json:"users"`
	Indexed   bool   `json:"indexed"`
}

// Summary reports entity counts for the current snapshot and whether its text indexes
// are built.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load catalog: %w", err)
	}
	indexed, ok := s.Version()
	return Summary{
		Version:   snap.Version,
		Films:     len(snap.Films),
		Genres:    len(snap.Genres),
		Directors: len(snap.Directors),
		Tags:      len(snap.Tags),
		Users:     len(snap.Users),
		Indexed:   ok && indexed == snap.Version,
	}, nil
}

// Film returns one film with its genre and director names resolved.
func (s *Service) Film(ctx context.Context, id int) (FilmDetails, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return FilmDetails{}, fmt.Errorf("load catalog: %w", err)
	}
	f, ok := snap.Film(id)
	if !ok {
		return FilmDetails{}, fmt.Errorf("%w: film %d", catalog.ErrNotFound, id)
	}
	return FilmDetails{
		Film:      f,
		Genres:    snap.GenreNames(f),
		Directors: snap.DirectorNames(f),
	}, nil
}

// FilmDetails is a film with its references resolved to names.
type FilmDetails struct {
	catalog.Film
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
}

// ReplaceCatalog stores d as the new catalog and rebuilds derived artifacts.
func (s *Service) ReplaceCatalog(ctx context.Context, d catalog.Data) (uint64, error) {
	version, err := s.store.ReplaceCatalog(ctx, d)
	if err != nil {
		return 0, err
	}
	if _, err := s.Warm(ctx); err != nil && !errors.Is(err, catalog.ErrEmptyCatalog) {
		s.logger.Warn().Err(err).Uint64("version", version).Msg("Warm after catalog replace failed")
	}
	return version, nil
}

// RateFilm records a rating.
func (s *Service) RateFilm(ctx context.Context, r catalog.Rating) error {
	return s.store.PutRating(ctx, r)
}

// UnrateFilm removes a rating.
func (s *Service) UnrateFilm(ctx context.Context, userID, filmID int) error {
	return s.store.DeleteRating(ctx, userID, filmID)
}

// FavoriteFilm marks a film as favorite.
func (s *Service) FavoriteFilm(ctx context.Context, userID, filmID int) error {
	return s.store.PutFavorite(ctx, catalog.Favorite{UserID: userID, FilmID: filmID})
}

// UnfavoriteFilm removes a favorite.
func (s *Service) UnfavoriteFilm(ctx context.Context, userID, filmID int) error {
	return s.store.DeleteFavorite(ctx, userID, filmID)
}

func (s *Service) indexesFor(snap *catalog.Snapshot) *search.Indexes {
	return s.indexes.Get(snap.Version, func() *search.Indexes {
		start := time.Now()
		ix := s.search.BuildIndexes(snap)
		metrics.RecordIndexBuild("text", time.Since(start))
		metrics.SetIndexedWords(ix.Stats())
		s.logger.Info().
			Uint64("version", snap.Version).
			Dur("took", time.Since(start)).
			Msg("Text indexes built")
		return ix
	})
}

func (s *Service) featuresFor(snap *catalog.Snapshot) *recommend.FeatureSpace {
	return s.features.Get(snap.Version, func() *recommend.FeatureSpace {
		start := time.Now()
		space := recommend.Vectorize(snap)
		metrics.RecordIndexBuild("features", time.Since(start))
		s.logger.Info().
			Uint64("version", snap.Version).
			Int("films", space.Len()).
			Int("dim", space.Dim()).
			Msg("Feature space built")
		return space
	})
}

func (s *Service) requestLogger(ctx context.Context) *zerolog.Logger {
	l := s.logger
	if id := logging.RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}
