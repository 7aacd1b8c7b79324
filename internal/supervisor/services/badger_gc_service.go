// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GCRunner triggers a value-log garbage collection cycle on the
// recommendation store.
type GCRunner interface {
	RunGC() error
}

// BadgerGCService runs recommendation store garbage collection on a fixed
// interval. Badger does not reclaim value-log space on its own; a periodic
// RunGC call keeps the on-disk artifact from growing across regenerations.
type BadgerGCService struct {
	store    GCRunner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewBadgerGCService creates the GC service. A non-positive interval falls
// back to 10 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerGCService(store GCRunner, interval time.Duration, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "recstore-gc").Logger(),
		name:     "recstore-gc-service",
	}
}

// Serve implements the suture.Service interface.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("recommendation store GC service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation store GC service shutting down")
			return ctx.Err()

		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("recommendation store GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("recommendation store GC complete")
		}
	}
}

// String returns the service name for logging.
func (s *BadgerGCService) String() string {
	return s.name
}
