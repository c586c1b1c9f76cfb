// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package backup creates, verifies and restores backups of the catalog store.

A backup is a full Badger backup stream (badger.DB.Backup), optionally gzip
compressed, written to its own file in the backup directory. A SHA-256
checksum of the file is recorded in metadata.json next to the backups so
corruption is caught before a restore.

	backups/
	├── metadata.json
	├── backup-20260301-030000-1f2e3d4c.badger.gz
	└── backup-20260302-030000-9a8b7c6d.badger.gz

# Scheduling

Backups run from services.BackupService under the supervisor's data layer.
Intervals of a day or longer run at Config.PreferredHour; shorter intervals
run every Interval. Retention is applied after each scheduled backup.

# Retention

Backups are ordered newest first and evaluated in turn:

 1. The newest MinCount backups are always kept
 2. Backups beyond MaxCount are deleted
 3. Backups older than MaxAgeDays are deleted

# Restore

Restore only loads into a store that has never held a catalog. Loading over
live data would leave keys absent from the backup in place, and the store
never serves a catalog version older than one it has already served. Set
backup.restore_from (BACKUP_RESTORE_FROM) to a backup ID to restore at
startup, before any seed catalog is applied.
*/
package backup
