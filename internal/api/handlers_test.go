// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/discovery"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/search"
)

const seedJSON = `{
  "films": [
    {"id": 1, "title": "Alpha Strike", "year": 2000, "vote_count": 100, "language": "en", "genre_ids": [1], "director_ids": [1]},
    {"id": 2, "title": "Quiet Drama", "year": 2010, "vote_count": 50, "language": "en", "genre_ids": [2], "director_ids": [2]},
    {"id": 3, "title": "Ghost", "year": 1990, "rating": 7.1, "vote_count": 300, "language": "en", "genre_ids": [2], "director_ids": [3]}
  ],
  "genres": [{"id": 1, "name": "Action"}, {"id": 2, "name": "Drama"}],
  "directors": [{"id": 1, "name": "Jane Doe"}, {"id": 2, "name": "Rick Roe"}, {"id": 3, "name": "Jerry Zucker"}],
  "tags": [{"id": 1, "name": "noir", "usage": 4}, {"id": 2, "name": "nostalgia", "usage": 9}],
  "users": [{"id": 10, "username": "cinephile"}]
}`

// envelope mirrors APIResponse with Data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func setupTestRouter(t *testing.T, cfg RouterConfig) (http.Handler, *discovery.Service) {
	t.Helper()

	db, err := catalog.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	store := catalog.NewBadgerStore(db, nil)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := discovery.New(store, discovery.Config{
		Search:    search.DefaultConfig(),
		Recommend: recommend.DefaultConfig(),
		CacheSize: 32,
		CacheTTL:  time.Minute,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("discovery.New() error = %v", err)
	}

	if cfg.Middleware == nil {
		cfg.Middleware = DefaultChiMiddlewareConfig()
		cfg.Middleware.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(svc, 5*time.Second), cfg), svc
}

func seedRouter(t *testing.T, router http.Handler) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/v1/catalog", seedJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed catalog: status %d body %s", rec.Code, rec.Body.String())
	}
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func TestSearch(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	rec := do(t, router, http.MethodGet, "/api/v1/search?q=gost&type=film", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var results []search.Result
	env := decode(t, rec, &results)
	if !env.Success || len(results) == 0 || results[0].EntityID != 3 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Breakdown != nil {
		t.Error("breakdown should be omitted without explain")
	}
	if env.Meta == nil || env.Meta.Count == nil || *env.Meta.Count != len(results) {
		t.Fatalf("meta count = %+v", env.Meta)
	}
	if rec.Header().Get("X-Request-ID") == "" || env.Meta.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id header %q vs meta %q", rec.Header().Get("X-Request-ID"), env.Meta.RequestID)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/search?q=ghost&explain=true", "")
	results = nil
	decode(t, rec, &results)
	if len(results) == 0 || results[0].Breakdown == nil {
		t.Errorf("explain=true should include breakdown: %+v", results)
	}
}

func TestSearch_BadRequests(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"missing q", "/api/v1/search", ErrCodeValidationFailed},
		{"blank q", "/api/v1/search?q=%20%20", ErrCodeValidationFailed},
		{"long q", "/api/v1/search?q=" + strings.Repeat("a", MaxQueryLength+1), ErrCodeValidationFailed},
		{"unknown type", "/api/v1/search?q=x&type=actor", ErrCodeValidationFailed},
		{"limit too large", "/api/v1/search?q=x&limit=500", ErrCodeValidationFailed},
		{"distance too large", "/api/v1/search?q=x&distance=9", ErrCodeValidationFailed},
		{"non-numeric limit", "/api/v1/search?q=x&limit=ten", ErrCodeBadRequest},
		{"bad explain", "/api/v1/search?q=x&explain=maybe", ErrCodeBadRequest},
		{"punctuation only", "/api/v1/search?q=%21%21%21", ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, router, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			env := decode(t, rec, nil)
			if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestSearch_EmptyCatalog(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	rec := do(t, router, http.MethodGet, "/api/v1/search?q=ghost", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var results []search.Result
	decode(t, rec, &results)
	if results == nil || len(results) != 0 {
		t.Errorf("results = %+v, want empty list", results)
	}
}

func TestSearch_OptionsOverrideDefaults(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	rec := do(t, router, http.MethodGet, "/api/v1/search?q=gost&distance=0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var results []search.Result
	decode(t, rec, &results)
	if len(results) != 0 {
		t.Errorf("distance=0 should disable fuzzy matching: %+v", results)
	}

	defaults := search.Options{Kind: search.KindUser, MaxEditDistance: 2, MaxResults: 10, MinScore: 0.1}
	tests := []struct {
		name string
		req  SearchRequest
		want search.Options
	}{
		{"nothing set", SearchRequest{Distance: -1}, defaults},
		{"distance zero", SearchRequest{Distance: 0}, search.Options{Kind: search.KindUser, MaxResults: 10, MinScore: 0.1}},
		{"limit and score", SearchRequest{Distance: -1, Limit: 3, MinScore: 0.5}, search.Options{Kind: search.KindUser, MaxEditDistance: 2, MaxResults: 3, MinScore: 0.5}},
	}
	for _, tt := range tests {
		if got := tt.req.Options(defaults); got != tt.want {
			t.Errorf("%s: Options() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSuggestTags(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	rec := do(t, router, http.MethodGet, "/api/v1/tags/suggest?prefix=no&limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tags []catalog.Tag
	decode(t, rec, &tags)
	if len(tags) != 1 || tags[0].Name != "nostalgia" {
		t.Errorf("tags = %+v, want [nostalgia]", tags)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/tags/suggest", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing prefix status = %d", rec.Code)
	}
}

func TestRecommendationsFlow(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	var resp RecommendationsResponse
	rec := do(t, router, http.MethodGet, "/api/v1/users/10/recommendations?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &resp)
	if !resp.ColdStart || len(resp.FilmIDs) != 2 || resp.FilmIDs[0] != 3 {
		t.Errorf("cold start = %+v", resp)
	}

	rec = do(t, router, http.MethodPut, "/api/v1/users/10/ratings/1", `{"rating": 9}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PutRating status = %d body %s", rec.Code, rec.Body.String())
	}

	resp = RecommendationsResponse{}
	decode(t, do(t, router, http.MethodGet, "/api/v1/users/10/recommendations", ""), &resp)
	if resp.ColdStart {
		t.Error("rated user should get content-based recommendations")
	}
	for _, id := range resp.FilmIDs {
		if id == 1 {
			t.Errorf("rated film returned: %v", resp.FilmIDs)
		}
	}

	if rec := do(t, router, http.MethodPut, "/api/v1/users/10/favorites/3", ""); rec.Code != http.StatusOK {
		t.Errorf("PutFavorite status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/api/v1/users/10/favorites/3", ""); rec.Code != http.StatusNoContent {
		t.Errorf("DeleteFavorite status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/api/v1/users/10/ratings/1", ""); rec.Code != http.StatusNoContent {
		t.Errorf("DeleteRating status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/api/v1/users/10/ratings/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second DeleteRating status = %d, want 404", rec.Code)
	}
}

func TestInteractions_BadRequests(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"rating above range", http.MethodPut, "/api/v1/users/10/ratings/1", `{"rating": 11}`, http.StatusBadRequest},
		{"rating missing", http.MethodPut, "/api/v1/users/10/ratings/1", `{}`, http.StatusBadRequest},
		{"empty body", http.MethodPut, "/api/v1/users/10/ratings/1", "", http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/api/v1/users/10/ratings/1", `{"rating": 5, "stars": 3}`, http.StatusBadRequest},
		{"unknown film", http.MethodPut, "/api/v1/users/10/ratings/99", `{"rating": 5}`, http.StatusNotFound},
		{"bad user id", http.MethodPut, "/api/v1/users/abc/ratings/1", `{"rating": 5}`, http.StatusBadRequest},
		{"zero user id", http.MethodGet, "/api/v1/users/0/recommendations", "", http.StatusBadRequest},
		{"negative limit", http.MethodGet, "/api/v1/users/10/recommendations?limit=-1", "", http.StatusBadRequest},
		{"favorite unknown film", http.MethodPut, "/api/v1/users/10/favorites/99", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, router, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	var summary discovery.Summary
	rec := do(t, router, http.MethodGet, "/api/v1/catalog", "")
	decode(t, rec, &summary)
	if summary.Films != 3 || !summary.Indexed || summary.Version == 0 {
		t.Errorf("summary = %+v", summary)
	}

	var film discovery.FilmDetails
	rec = do(t, router, http.MethodGet, "/api/v1/films/3", "")
	decode(t, rec, &film)
	if rec.Code != http.StatusOK || film.Title != "Ghost" || len(film.Directors) != 1 {
		t.Errorf("film = %+v (status %d)", film, rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/v1/films/42", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown film status = %d", rec.Code)
	}

	yamlBody := "films:\n  - id: 7\n    title: Heat\n    vote_count: 10\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog", strings.NewReader(yamlBody))
	req.Header.Set("Content-Type", "application/yaml")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("yaml replace status = %d body %s", rec.Code, rec.Body.String())
	}
	var replaced ReplaceCatalogResponse
	decode(t, rec, &replaced)
	if replaced.Films != 1 || replaced.Version <= summary.Version {
		t.Errorf("replace = %+v, previous version %d", replaced, summary.Version)
	}

	var results []search.Result
	decode(t, do(t, router, http.MethodGet, "/api/v1/search?q=ghost", ""), &results)
	for _, r := range results {
		if r.EntityID == 3 {
			t.Error("replaced catalog still returns old film")
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/catalog", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("csv status = %d, want 400", rec.Code)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{MaxBodyBytes: 64})
	rec := do(t, router, http.MethodPost, "/api/v1/catalog", seedJSON)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})
	seedRouter(t, router)

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		rec := do(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s missing security headers", path)
		}
	}

	var status HealthStatus
	decode(t, do(t, router, http.MethodGet, "/api/v1/health", ""), &status)
	if status.Status != "healthy" || status.Catalog.Films != 3 {
		t.Errorf("health = %+v", status)
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t, RouterConfig{})

	if rec := do(t, router, http.MethodGet, "/api/v1/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	rec := do(t, router, http.MethodPost, "/api/v1/search?q=x", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST search status = %d, want 405", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "reelmatch_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	router, _ := setupTestRouter(t, RouterConfig{Middleware: mw})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = do(t, router, http.MethodGet, "/api/v1/search?q=ghost", "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	env := decode(t, last, nil)
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}

	// Health has its own budget.
	if rec := do(t, router, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = []string{"https://films.example"}
	mw.RateLimitDisabled = true
	router, _ := setupTestRouter(t, RouterConfig{Middleware: mw})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://films.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://films.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

// stubDiscovery fails every call with err.
type stubDiscovery struct {
	err error
}

func (s stubDiscovery) DefaultSearchOptions(kind search.EntityKind) search.Options {
	return search.Options{Kind: kind, MaxEditDistance: 2, MaxResults: 10}
}
func (s stubDiscovery) SearchEntities(context.Context, string, search.Options) ([]search.Result, error) {
	return nil, s.err
}
func (s stubDiscovery) SuggestTags(context.Context, string, int) ([]catalog.Tag, error) {
	return nil, s.err
}
func (s stubDiscovery) Recommend(context.Context, int, int) (recommend.Result, error) {
	return recommend.Result{}, s.err
}
func (s stubDiscovery) Film(context.Context, int) (discovery.FilmDetails, error) {
	return discovery.FilmDetails{}, s.err
}
func (s stubDiscovery) Summary(context.Context) (discovery.Summary, error) {
	return discovery.Summary{}, s.err
}
func (s stubDiscovery) ReplaceCatalog(context.Context, catalog.Data) (uint64, error) {
	return 0, s.err
}
func (s stubDiscovery) RateFilm(context.Context, catalog.Rating) error { return s.err }
func (s stubDiscovery) UnrateFilm(context.Context, int, int) error { return s.err }
func (s stubDiscovery) FavoriteFilm(context.Context, int, int) error { return s.err }
func (s stubDiscovery) UnfavoriteFilm(context.Context, int, int) error { return s.err }
func (s stubDiscovery) Ready(context.Context) error { return s.err }

func TestServiceErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unavailable", fmt.Errorf("%w: open", catalog.ErrUnavailable), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
		{"not found", catalog.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := DefaultChiMiddlewareConfig()
			mw.RateLimitDisabled = true
			router := NewRouter(NewHandler(stubDiscovery{err: tt.err}, 0), RouterConfig{Middleware: mw})

			rec := do(t, router, http.MethodGet, "/api/v1/search?q=ghost", "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			env := decode(t, rec, nil)
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want %s", env.Error, tt.code)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestHealth_Degraded(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	router := NewRouter(NewHandler(stubDiscovery{err: catalog.ErrUnavailable}, 0), RouterConfig{Middleware: mw})

	var status HealthStatus
	rec := do(t, router, http.MethodGet, "/api/v1/health", "")
	decode(t, rec, &status)
	if rec.Code != http.StatusOK || status.Status != "degraded" {
		t.Errorf("health = %d %+v", rec.Code, status)
	}
	if rec := do(t, router, http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}
