// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package api implements the HTTP read API: customer scoring, batch and
// paged recommendations, the analytics snapshot, and health.
package api

import (
	"time"

	"github.com/nuru-analytics/nuru/internal/analytics"
	"github.com/nuru-analytics/nuru/internal/config"
	"github.com/nuru-analytics/nuru/internal/recommend"
	"github.com/nuru-analytics/nuru/internal/store"
)

// Handler holds the dependencies for all API endpoints.
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	scorer    *recommend.Scorer
	refresher *analytics.Refresher
	startTime time.Time
}

// NewHandler creates the API handler. All dependencies must already be
// initialized; the model artifacts in particular are loaded before the
// server starts.
func NewHandler(
	cfg *config.Config,
	st *store.Store,
	scorer *recommend.Scorer,
	refresher *analytics.Refresher,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		scorer:    scorer,
		refresher: refresher,
		startTime: time.Now(),
	}
}
