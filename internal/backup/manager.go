// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package backup

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

const metadataFileName = "metadata.json"

// Manager creates and tracks backups of one Badger database. It is safe for
// concurrent use; backup, delete and restore operations are serialized.
type Manager struct {
	cfg Config
	db  *badger.DB

	mu       sync.Mutex
	metadata metadataFile

	now func() time.Time
}

// NewManager creates the backup directory if needed and loads existing
// metadata.
func NewManager(cfg Config, db *badger.DB) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("backup dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	m := &Manager{cfg: cfg, db: db, now: time.Now}
	if err := m.loadMetadata(); err != nil {
		return nil, err
	}
	return m, nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// CreateBackup writes a full backup of the database.
func (m *Manager) CreateBackup(ctx context.Context, trigger Trigger, notes string) (*Backup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	b, err := m.writeBackup(start, trigger, notes)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordBackup("failure", elapsed, 0)
		logging.Error().Err(err).Str("trigger", string(trigger)).Msg("Backup failed")
		return nil, err
	}
	b.DurationMs = elapsed.Milliseconds()

	m.metadata.Backups = append(m.metadata.Backups, b)
	if trigger == TriggerScheduled {
		m.metadata.LastScheduled = &start
	}
	if err := m.saveMetadataLocked(); err != nil {
		return nil, err
	}

	metrics.RecordBackup("success", elapsed, b.FileSize)
	logging.Info().
		Str("backup_id", b.ID).
		Str("trigger", string(trigger)).
		Uint64("catalog_version", b.CatalogVersion).
		Int64("size_bytes", b.FileSize).
		Dur("duration", elapsed).
		Msg("Backup completed")

	copied := *b
	return &copied, nil
}

func (m *Manager) writeBackup(start time.Time, trigger Trigger, notes string) (*Backup, error) {
	version, err := catalog.StoredVersion(m.db)
	if err != nil {
		return nil, fmt.Errorf("read catalog version: %w", err)
	}

	id := uuid.New().String()
	name := fmt.Sprintf("backup-%s-%s.badger", start.UTC().Format("20060102-150405"), id[:8])
	if m.cfg.Compress {
		name += ".gz"
	}
	path := filepath.Join(m.cfg.Dir, name)
	tmp := path + ".tmp"

	readTs, checksum, err := m.stream(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("finalize backup file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	return &Backup{
		ID:             id,
		Trigger:        trigger,
		CreatedAt:      start,
		FileName:       name,
		FileSize:       info.Size(),
		Checksum:       checksum,
		Compressed:     m.cfg.Compress,
		CatalogVersion: version,
		ReadTs:         readTs,
		Notes:          notes,
	}, nil
}

// stream writes the Badger backup to path and returns the read timestamp and
// the checksum of the bytes on disk.
func (m *Manager) stream(path string) (uint64, string, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600) //nolint:gosec // path is built from the configured dir
	if err != nil {
		return 0, "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	var w io.Writer = io.MultiWriter(f, hasher)
	var gz *gzip.Writer
	if m.cfg.Compress {
		gz = gzip.NewWriter(w)
		w = gz
	}

	readTs, err := m.db.Backup(w, 0)
	if err != nil {
		return 0, "", fmt.Errorf("badger backup: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return 0, "", fmt.Errorf("finish compression: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		return 0, "", fmt.Errorf("sync backup file: %w", err)
	}
	return readTs, hex.EncodeToString(hasher.Sum(nil)), nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() []Backup {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Backup, 0, len(m.metadata.Backups))
	for _, b := range m.sortedLocked() {
		out = append(out, *b)
	}
	return out
}

// GetBackup returns the backup with id.
func (m *Manager) GetBackup(id string) (Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, _ := m.findLocked(id)
	if b == nil {
		return Backup{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *b, nil
}

// DeleteBackup removes a backup file and its metadata entry.
func (m *Manager) DeleteBackup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id)
}

func (m *Manager) deleteLocked(id string) error {
	b, idx := m.findLocked(id)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := os.Remove(filepath.Join(m.cfg.Dir, b.FileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove backup file: %w", err)
	}
	m.metadata.Backups = append(m.metadata.Backups[:idx], m.metadata.Backups[idx+1:]...)
	return m.saveMetadataLocked()
}

func (m *Manager) findLocked(id string) (*Backup, int) {
	for i, b := range m.metadata.Backups {
		if b.ID == id {
			return b, i
		}
	}
	return nil, -1
}

func (m *Manager) sortedLocked() []*Backup {
	sorted := make([]*Backup, len(m.metadata.Backups))
	copy(sorted, m.metadata.Backups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func (m *Manager) loadMetadata() error {
	data, err := os.ReadFile(filepath.Join(m.cfg.Dir, metadataFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read backup metadata: %w", err)
	}
	if err := json.Unmarshal(data, &m.metadata); err != nil {
		return fmt.Errorf("decode backup metadata: %w", err)
	}
	return nil
}

// saveMetadataLocked writes metadata.json atomically via rename.
func (m *Manager) saveMetadataLocked() error {
	data, err := json.MarshalIndent(m.metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup metadata: %w", err)
	}
	path := filepath.Join(m.cfg.Dir, metadataFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write backup metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace backup metadata: %w", err)
	}
	return nil
}
