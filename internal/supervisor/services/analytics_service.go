// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package services provides Suture service wrappers for the application's
// long-lived components.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nuru-analytics/nuru/internal/metrics"
)

// SnapshotRefresher runs one full analytics pass: regenerate the
// recommendation store, aggregate, and swap the snapshot cache.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// AnalyticsServiceConfig holds configuration for the analytics service.
type AnalyticsServiceConfig struct {
	// RefreshOnStartup triggers one pass as soon as the service starts.
	RefreshOnStartup bool

	// RefreshInterval is the fixed interval between passes.
	RefreshInterval time.Duration
}

// AnalyticsService drives the snapshot refresher on a fixed interval. A
// failed pass is logged and retried on the next tick; the cache keeps
// serving the previous snapshot in between.
type AnalyticsService struct {
	refresher SnapshotRefresher
	config    AnalyticsServiceConfig
	logger    zerolog.Logger
	name      string

	lastSuccess time.Time
}

// NewAnalyticsService creates the analytics refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAnalyticsService(refresher SnapshotRefresher, cfg AnalyticsServiceConfig, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "analytics").Logger(),
		name:      "analytics-service",
	}
}

// Serve implements the suture.Service interface.
func (s *AnalyticsService) Serve(ctx context.Context) error {
	if s.config.RefreshInterval <= 0 {
		s.config.RefreshInterval = time.Minute
	}

	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("analytics service starting")

	if s.config.RefreshOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial analytics refresh failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("analytics service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if !s.lastSuccess.IsZero() {
				metrics.SnapshotAge.Set(time.Since(s.lastSuccess).Seconds())
			}
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled analytics refresh failed")
			}
		}
	}
}

func (s *AnalyticsService) refresh(ctx context.Context) error {
	if err := s.refresher.Refresh(ctx); err != nil {
		return err
	}
	s.lastSuccess = time.Now()
	return nil
}

// String returns the service name for logging.
func (s *AnalyticsService) String() string {
	return s.name
}
