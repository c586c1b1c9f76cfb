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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// maxPendingWrites bounds Badger's write batching during Load.
const maxPendingWrites = 256

// VerifyBackup recomputes the checksum of a backup file.
func (m *Manager) VerifyBackup(id string) (Backup, error) {
	b, err := m.GetBackup(id)
	if err != nil {
		return Backup{}, err
	}

	f, err := os.Open(filepath.Join(m.cfg.Dir, b.FileName)) //nolint:gosec // file name comes from metadata
	if err != nil {
		return Backup{}, fmt.Errorf("open backup %s: %w", id, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return Backup{}, fmt.Errorf("read backup %s: %w", id, err)
	}
	if got := hex.EncodeToString(hasher.Sum(nil)); got != b.Checksum {
		return Backup{}, fmt.Errorf("%w: %s", ErrChecksumMismatch, id)
	}
	return b, nil
}

// RestoreBackup loads backup id into target, which must never have held a
// catalog. The checksum is verified first.
func (m *Manager) RestoreBackup(ctx context.Context, id string, target *badger.DB) (Backup, error) {
	if err := ctx.Err(); err != nil {
		return Backup{}, err
	}

	b, err := m.VerifyBackup(id)
	if err != nil {
		return Backup{}, err
	}

	version, err := catalog.StoredVersion(target)
	if err != nil {
		return Backup{}, fmt.Errorf("read target version: %w", err)
	}
	if version != 0 {
		return Backup{}, fmt.Errorf("%w: version %d", ErrTargetNotEmpty, version)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	f, err := os.Open(filepath.Join(m.cfg.Dir, b.FileName)) //nolint:gosec // file name comes from metadata
	if err != nil {
		return Backup{}, fmt.Errorf("open backup %s: %w", id, err)
	}
	defer f.Close()

	var r io.Reader = f
	if b.Compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Backup{}, fmt.Errorf("open compressed backup %s: %w", id, err)
		}
		defer gz.Close()
		r = gz
	}

	if err := target.Load(r, maxPendingWrites); err != nil {
		return Backup{}, fmt.Errorf("load backup %s: %w", id, err)
	}

	logging.Info().
		Str("backup_id", id).
		Uint64("catalog_version", b.CatalogVersion).
		Dur("duration", time.Since(start)).
		Msg("Backup restored")
	return b, nil
}
