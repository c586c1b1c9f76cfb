// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package backup

import (
	"context"
	"testing"
	"time"
)

func backupsAged(now time.Time, days ...int) []*Backup {
	out := make([]*Backup, len(days))
	for i, d := range days {
		out[i] = &Backup{ID: string(rune('a' + i)), CreatedAt: now.AddDate(0, 0, -d)}
	}
	return out
}

func ids(backups []*Backup) string {
	s := ""
	for _, b := range backups {
		s += b.ID
	}
	return s
}

func TestExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ages   []int
		policy RetentionPolicy
		want   string
	}{
		{"no limits", []int{0, 10, 100}, RetentionPolicy{}, ""},
		{"max count", []int{0, 1, 2, 3}, RetentionPolicy{MaxCount: 2}, "cd"},
		{"max age", []int{0, 5, 40, 50}, RetentionPolicy{MaxAgeDays: 30}, "cd"},
		{"min count protects old", []int{40, 50, 60}, RetentionPolicy{MinCount: 2, MaxAgeDays: 30}, "c"},
		{"min count above max count", []int{0, 1, 2}, RetentionPolicy{MinCount: 3, MaxCount: 1}, ""},
		{"combined", []int{0, 1, 2, 45, 50}, RetentionPolicy{MinCount: 1, MaxCount: 4, MaxAgeDays: 30}, "de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(expired(backupsAged(now, tt.ages...), tt.policy, now)); got != tt.want {
				t.Errorf("expired() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_ApplyRetentionPolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t, seededDB(t), true)
	m.cfg.Retention = RetentionPolicy{MinCount: 1, MaxCount: 2}

	for i := 0; i < 4; i++ {
		created := time.Date(2026, 3, 1+i, 3, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return created }
		if _, err := m.CreateBackup(ctx, TriggerScheduled, ""); err != nil {
			t.Fatalf("CreateBackup(%d) error = %v", i, err)
		}
	}

	deleted, err := m.ApplyRetentionPolicy(ctx)
	if err != nil {
		t.Fatalf("ApplyRetentionPolicy() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining := m.ListBackups()
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d, want 2", len(remaining))
	}
	if remaining[0].CreatedAt.Day() != 4 || remaining[1].CreatedAt.Day() != 3 {
		t.Errorf("kept %v and %v, want the two newest", remaining[0].CreatedAt, remaining[1].CreatedAt)
	}
}
