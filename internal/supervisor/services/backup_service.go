// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/backup"
)

// BackupRunner creates backups and prunes old ones. Satisfied by
// *backup.Manager.
type BackupRunner interface {
	CreateBackup(ctx context.Context, trigger backup.Trigger, notes string) (*backup.Backup, error)
	ApplyRetentionPolicy(ctx context.Context) (int, error)
}

// BackupService runs scheduled backups. Failures are logged and retried at
// the next scheduled time; they never restart the service.
type BackupService struct {
	runner BackupRunner
	config backup.Config
	logger zerolog.Logger
	name   string

	now func() time.Time
}

// NewBackupService creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBackupService(runner BackupRunner, cfg backup.Config, logger zerolog.Logger) *BackupService {
	return &BackupService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "backup").Logger(),
		name:   "backup-scheduler",
		now:    time.Now,
	}
}

// Serve implements suture.Service.
func (s *BackupService) Serve(ctx context.Context) error {
	next := s.config.NextRun(s.now())
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Time("next_run", next).
		Msg("backup scheduler starting")

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("backup scheduler shutting down")
			return ctx.Err()

		case <-timer.C:
			s.runOnce(ctx)
			next = s.config.NextRun(s.now())
			s.logger.Debug().Time("next_run", next).Msg("next backup scheduled")
			timer.Reset(time.Until(next))
		}
	}
}

func (s *BackupService) runOnce(ctx context.Context) {
	if _, err := s.runner.CreateBackup(ctx, backup.TriggerScheduled, "Scheduled backup"); err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
	}
	if _, err := s.runner.ApplyRetentionPolicy(ctx); err != nil {
		s.logger.Error().Err(err).Msg("retention policy application failed")
	}
}

// String returns the service name for logging.
func (s *BackupService) String() string {
	return s.name
}
