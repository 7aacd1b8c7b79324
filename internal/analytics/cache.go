// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package analytics

import (
	"errors"
	"sync"
	"time"

	"github.com/nuru-analytics/nuru/internal/models"
)

// ErrNoSnapshot is returned when no snapshot has been computed yet.
var ErrNoSnapshot = errors.New("no analytics snapshot available")

// SnapshotCache holds the current analytics snapshot. Replacement is a
// pointer swap under the write lock; stored snapshots are never mutated.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap *models.AnalyticsSnapshot
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Get returns the current snapshot, or ErrNoSnapshot before the first
// successful aggregation pass.
func (c *SnapshotCache) Get() (*models.AnalyticsSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil, ErrNoSnapshot
	}
	return c.snap, nil
}

// Replace swaps in a new snapshot.
func (c *SnapshotCache) Replace(snap *models.AnalyticsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

// Age returns how old the current snapshot is, or false when none exists.
func (c *SnapshotCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	return time.Since(c.snap.LastUpdated), true
}
