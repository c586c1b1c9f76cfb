// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/reelmatch/internal/backup"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/search"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	weights := search.DefaultWeights()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
		Storage: StorageConfig{
			Path: "/data/reelmatch",
		},
		Catalog: CatalogConfig{
			SeedPath:        "",
			RefreshInterval: time.Minute,
			EventBuffer:     64,
		},
		Search: SearchConfig{
			MaxEditDistance: 2,
			MaxResults:      10,
			CandidateLimit:  200,
			PruneMode:       "bound",
			Weights:         weights,
			CacheSize:       1024,
			CacheTTL:        5 * time.Minute,
		},
		Recommend: recommend.DefaultConfig(),
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			MaxBodyBytes:    32 << 20,
		},
		Breaker: catalog.DefaultBreakerConfig(),
		Backup:  backup.DefaultConfig(),
	}
}

// Load builds the configuration from three layers, later layers winning:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
func Load() (*Config, error) {
	return load(FindConfigFile())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FindConfigFile returns the config file Load would read, or "" when none
// exists.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging
	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	// Storage and catalog
	"badger_path":              "storage.path",
	"catalog_seed_path":        "catalog.seed_path",
	"catalog_refresh_interval": "catalog.refresh_interval",
	"catalog_event_buffer":     "catalog.event_buffer",

	// Search
	"search_max_edit_distance": "search.max_edit_distance",
	"search_max_results":       "search.max_results",
	"search_candidate_limit":   "search.candidate_limit",
	"search_prune_mode":        "search.prune_mode",
	"search_cache_size":        "search.cache_size",
	"search_cache_ttl":         "search.cache_ttl",
	"search_weight_title":      "search.weights.title",
	"search_weight_director":   "search.weights.director",
	"search_weight_genre":      "search.weights.genre",
	"search_weight_year":       "search.weights.year",
	"search_weight_rating":     "search.weights.rating",
	"search_weight_popularity": "search.weights.popularity",

	// Recommend
	"recommend_default_limit":   "recommend.default_limit",
	"recommend_max_limit":       "recommend.max_limit",
	"recommend_favorite_weight": "recommend.favorite_weight",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"max_body_bytes":      "security.max_body_bytes",

	// Circuit breaker
	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	// Backup
	"backup_enabled":             "backup.enabled",
	"backup_dir":                 "backup.dir",
	"backup_interval":            "backup.interval",
	"backup_preferred_hour":      "backup.preferred_hour",
	"backup_compress":            "backup.compress",
	"backup_restore_from":        "backup.restore_from",
	"backup_retention_min_count": "backup.retention.min_count",
	"backup_retention_max_count": "backup.retention.max_count",
	"backup_retention_max_days":  "backup.retention.max_age_days",
}

// envTransformFunc maps an environment variable to its koanf path, or ""
// to skip it.
//
//   - HTTP_PORT -> server.port
//   - SEARCH_PRUNE_MODE -> search.prune_mode
//   - BADGER_PATH -> storage.path
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The
// caller owns synchronization of any configuration it reloads.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
