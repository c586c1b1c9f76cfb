// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package backup

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// expired returns the backups policy says to delete. backups must be sorted
// newest first.
func expired(backups []*Backup, policy RetentionPolicy, now time.Time) []*Backup {
	var cutoff time.Time
	if policy.MaxAgeDays > 0 {
		cutoff = now.AddDate(0, 0, -policy.MaxAgeDays)
	}

	var out []*Backup
	for i, b := range backups {
		switch {
		case i < policy.MinCount:
			continue
		case policy.MaxCount > 0 && i >= policy.MaxCount:
			out = append(out, b)
		case !cutoff.IsZero() && b.CreatedAt.Before(cutoff):
			out = append(out, b)
		}
	}
	return out
}

// ApplyRetentionPolicy deletes expired backups and returns how many were
// removed. A failed deletion is logged and does not stop the others.
func (m *Manager) ApplyRetentionPolicy(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, b := range expired(m.sortedLocked(), m.cfg.Retention, m.now()) {
		if err := m.deleteLocked(b.ID); err != nil {
			logging.Warn().Err(err).Str("backup_id", b.ID).Msg("Failed to delete expired backup")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		metrics.RecordBackupsPruned(deleted)
		logging.Info().Int("deleted", deleted).Msg("Backup retention applied")
	}
	return deleted, nil
}
