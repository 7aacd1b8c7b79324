// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/nuru-analytics/nuru/internal/logging"
	"github.com/nuru-analytics/nuru/internal/metrics"
	"github.com/nuru-analytics/nuru/internal/models"
)

// RecStore is the persisted recommendation artifact the refresher
// regenerates each pass and the aggregator reads back.
type RecStore interface {
	Generate(
		ctx context.Context,
		source func(context.Context, func(*models.CustomerRecord) error) error,
		recommend func(*models.CustomerRecord) []models.Recommendation,
	) (int, error)
	Get(accountNumber string) []models.Recommendation
}

// Refresher runs complete analytics passes: it regenerates the persisted
// recommendation store, aggregates a fresh snapshot, and swaps it into the
// cache. Passes are serialized; a failed pass leaves the previous snapshot
// serving.
type Refresher struct {
	aggregator *Aggregator
	cache      *SnapshotCache
	recs       RecStore
	recommend  func(*models.CustomerRecord) []models.Recommendation
	dataset    Dataset
	timeout    time.Duration

	mu sync.Mutex
}

// NewRefresher wires the refresher. timeout bounds a single pass; zero
// means unbounded.
func NewRefresher(
	aggregator *Aggregator,
	cache *SnapshotCache,
	recs RecStore,
	recommend func(*models.CustomerRecord) []models.Recommendation,
	dataset Dataset,
	timeout time.Duration,
) *Refresher {
	return &Refresher{
		aggregator: aggregator,
		cache:      cache,
		recs:       recs,
		recommend:  recommend,
		dataset:    dataset,
		timeout:    timeout,
	}
}

// Cache exposes the snapshot cache for read handlers.
func (r *Refresher) Cache() *SnapshotCache {
	return r.cache
}

// Refresh runs one pass. On any error the cache is left untouched so
// readers keep getting the last good snapshot.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()

	// Regenerate the persisted recommendations first. If that fails the
	// pass falls back to running the rule engine per row, so a broken
	// store does not block analytics.
	recsFor := RecSource(func(rec *models.CustomerRecord) []models.Recommendation {
		return r.recs.Get(rec.AccountNumber)
	})
	genStart := time.Now()
	entries, err := r.recs.Generate(ctx, r.dataset.ForEach, r.recommend)
	if err != nil {
		logging.Warn().Err(err).
			Msg("Recommendation store regeneration failed, computing recommendations inline")
		recsFor = r.recommend
	} else {
		metrics.RecStoreEntries.Set(float64(entries))
		metrics.RecStoreGenerationDuration.Observe(time.Since(genStart).Seconds())
	}

	snap, err := r.aggregator.Aggregate(ctx, recsFor)
	metrics.RecordAggregation(time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).Msg("Analytics aggregation failed, serving previous snapshot")
		return err
	}

	r.cache.Replace(snap)
	metrics.SnapshotAge.Set(0)

	logging.Info().
		Int("customers", snap.TotalCustomers).
		Int("recommendations", snap.TotalRecommendations).
		Dur("duration", time.Since(start)).
		Msg("Analytics snapshot refreshed")
	return nil
}
