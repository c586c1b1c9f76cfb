// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package backup

import (
	"errors"
	"time"
)

// Trigger indicates what initiated a backup.
type Trigger string

const (
	// TriggerManual is an operator request.
	TriggerManual Trigger = "manual"

	// TriggerScheduled is the backup scheduler.
	TriggerScheduled Trigger = "scheduled"
)

var (
	// ErrNotFound is returned for an unknown backup ID.
	ErrNotFound = errors.New("backup not found")

	// ErrChecksumMismatch means the backup file no longer matches its
	// recorded checksum.
	ErrChecksumMismatch = errors.New("backup checksum mismatch")

	// ErrTargetNotEmpty is returned when restoring into a store that already
	// holds a catalog.
	ErrTargetNotEmpty = errors.New("restore target already holds a catalog")
)

// Backup describes one backup file.
type Backup struct {
	ID        string    `json:"id"`
	Trigger   Trigger   `json:"trigger"`
	CreatedAt time.Time `json:"created_at"`

	// Duration of the backup in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// FileName is relative to the backup directory.
	FileName   string `json:"file_name"`
	FileSize   int64  `json:"file_size"`
	Checksum   string `json:"checksum"` // hex SHA-256 of the file
	Compressed bool   `json:"compressed"`

	// CatalogVersion is the catalog version committed when the backup ran.
	CatalogVersion uint64 `json:"catalog_version"`

	// ReadTs is the Badger timestamp the backup stream is consistent at.
	ReadTs uint64 `json:"read_ts"`

	Notes string `json:"notes,omitempty"`
}

// metadataFile is the on-disk index of backups.
type metadataFile struct {
	Backups       []*Backup  `json:"backups"`
	LastScheduled *time.Time `json:"last_scheduled,omitempty"`
}
