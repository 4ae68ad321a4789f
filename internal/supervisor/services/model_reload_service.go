// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synthrec/internal/metrics"
)

// DefaultReloadInterval is used when ModelReloadConfig.Interval is unset.
const DefaultReloadInterval = time.Minute

// ModelReloader swaps in the newest checkpoint for every domain.
// It returns how many models changed.
type ModelReloader interface {
	ReloadAll(ctx context.Context) (int, error)
}

// ModelReloadConfig holds configuration for the reload loop.
type ModelReloadConfig struct {
	// ReloadOnStartup loads checkpoints before the first tick.
	ReloadOnStartup bool

	// Interval is how often the checkpoint directory is polled.
	Interval time.Duration

	// Timeout bounds a single reload cycle. Zero means Interval.
	Timeout time.Duration
}

// ModelReloadService polls for new checkpoints written by the train command
// and hands them to the registry. Failed cycles are logged and retried on
// the next tick; the previously loaded models keep serving.
type ModelReloadService struct {
	reloader ModelReloader
	config   ModelReloadConfig
	logger   zerolog.Logger
	name     string
}

// NewModelReloadService creates a new reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelReloadService(reloader ModelReloader, cfg ModelReloadConfig, logger zerolog.Logger) *ModelReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultReloadInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &ModelReloadService{
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "model-reload").Logger(),
		name:     "model-reload",
	}
}

// Serve implements suture.Service.
func (s *ModelReloadService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("reload_on_startup", s.config.ReloadOnStartup).
		Dur("interval", s.config.Interval).
		Msg("model reload service starting")

	if s.config.ReloadOnStartup {
		s.reload(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model reload service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *ModelReloadService) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.reloader.ReloadAll(reloadCtx)
	switch {
	case err != nil:
		metrics.RecordModelReload("error")
		s.logger.Warn().Err(err).Int("swapped", n).Msg("model reload failed")
	case n > 0:
		metrics.RecordModelReload("swapped")
		s.logger.Info().Int("swapped", n).Dur("duration", time.Since(start)).Msg("models reloaded")
	default:
		metrics.RecordModelReload("unchanged")
		s.logger.Debug().Msg("no new checkpoints")
	}
}

// String returns the service name for logging.
func (s *ModelReloadService) String() string {
	return s.name
}
