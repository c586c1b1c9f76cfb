// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/reelmatch/internal/backup"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/search"
	"github.com/tomtom215/reelmatch/internal/textindex"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig          `koanf:"server"`
	Logging   LoggingConfig         `koanf:"logging"`
	Storage   StorageConfig         `koanf:"storage"`
	Catalog   CatalogConfig         `koanf:"catalog"`
	Search    SearchConfig          `koanf:"search"`
	Recommend recommend.Config      `koanf:"recommend"`
	Security  SecurityConfig        `koanf:"security"`
	Breaker   catalog.BreakerConfig `koanf:"breaker"`
	Backup    backup.Config         `koanf:"backup"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging" or "production"
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config without the output writer.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// Logger converts to the logging package's Config.
func (l LoggingConfig) Logger() logging.Config {
	return logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		Caller:    l.Caller,
		Timestamp: l.Timestamp,
	}
}

// StorageConfig locates the Badger database. An empty Path keeps the
// database in memory, which loses all data on restart.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// CatalogConfig controls catalog seeding and change propagation.
type CatalogConfig struct {
	// SeedPath is loaded into an empty store at startup (.json, .yaml, .yml).
	SeedPath string `koanf:"seed_path"`

	// RefreshInterval re-checks the store version even without events.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// EventBuffer sizes each event subscriber channel.
	EventBuffer int64 `koanf:"event_buffer"`
}

// SearchConfig holds the search engine tunables and the response cache.
type SearchConfig struct {
	MaxEditDistance int            `koanf:"max_edit_distance"`
	MaxResults      int            `koanf:"max_results"`
	CandidateLimit  int            `koanf:"candidate_limit"`
	PruneMode       string         `koanf:"prune_mode"` // "bound" or "query_prefix"
	Weights         search.Weights `koanf:"weights"`

	CacheSize int           `koanf:"cache_size"` // 0 disables the response cache
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// Engine converts to the search engine's Config.
func (s SearchConfig) Engine() search.Config {
	return search.Config{
		MaxEditDistance: s.MaxEditDistance,
		MaxResults:      s.MaxResults,
		CandidateLimit:  s.CandidateLimit,
		PruneMode:       textindex.ParsePruneMode(s.PruneMode),
		Weights:         s.Weights,
	}
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}
