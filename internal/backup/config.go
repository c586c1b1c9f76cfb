// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package backup

import (
	"fmt"
	"time"
)

// Config holds backup settings.
type Config struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`

	// Interval between scheduled backups.
	Interval time.Duration `koanf:"interval"`

	// PreferredHour (0-23, local time) for intervals of a day or longer.
	PreferredHour int `koanf:"preferred_hour"`

	Compress bool `koanf:"compress"`

	// RestoreFrom names a backup ID to restore into an empty store at startup.
	RestoreFrom string `koanf:"restore_from"`

	Retention RetentionPolicy `koanf:"retention"`
}

// RetentionPolicy bounds how many backups are kept. Zero disables a limit.
type RetentionPolicy struct {
	MinCount   int `koanf:"min_count" json:"min_count"`
	MaxCount   int `koanf:"max_count" json:"max_count"`
	MaxAgeDays int `koanf:"max_age_days" json:"max_age_days"`
}

// DefaultConfig returns backups disabled, daily at 03:00 when enabled.
func DefaultConfig() Config {
	return Config{
		Enabled:       false,
		Dir:           "/data/backups",
		Interval:      24 * time.Hour,
		PreferredHour: 3,
		Compress:      true,
		Retention: RetentionPolicy{
			MinCount:   3,
			MaxCount:   14,
			MaxAgeDays: 30,
		},
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Dir == "" {
		return fmt.Errorf("backup dir is required when backups are enabled")
	}
	if c.Interval < time.Minute {
		return fmt.Errorf("backup interval must be at least 1m, got %s", c.Interval)
	}
	if c.PreferredHour < 0 || c.PreferredHour > 23 {
		return fmt.Errorf("backup preferred_hour must be between 0 and 23, got %d", c.PreferredHour)
	}
	if c.Retention.MinCount < 0 || c.Retention.MaxCount < 0 || c.Retention.MaxAgeDays < 0 {
		return fmt.Errorf("backup retention limits must not be negative")
	}
	if c.Retention.MaxCount > 0 && c.Retention.MaxCount < c.Retention.MinCount {
		return fmt.Errorf("backup retention max_count (%d) is below min_count (%d)",
			c.Retention.MaxCount, c.Retention.MinCount)
	}
	return nil
}

// NextRun returns when the next scheduled backup after now should start.
func (c Config) NextRun(now time.Time) time.Time {
	if c.Interval < 24*time.Hour {
		return now.Add(c.Interval)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), c.PreferredHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	if days := int(c.Interval.Hours() / 24); days > 1 {
		next = next.AddDate(0, 0, days-1)
	}
	return next
}
