// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nuru-analytics/nuru/internal/analytics"
	"github.com/nuru-analytics/nuru/internal/logging"
	"github.com/nuru-analytics/nuru/internal/models"
)

// Analytics serves the cached aggregate snapshot. Before the first
// background pass completes, one synchronous pass is attempted so early
// dashboard loads do not fail; only when that also fails is the endpoint
// unavailable.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := h.refresher.Cache().Get()
	if errors.Is(err, analytics.ErrNoSnapshot) {
		logging.Ctx(r.Context()).Debug().Msg("No analytics snapshot yet, computing synchronously")
		if refreshErr := h.refresher.Refresh(r.Context()); refreshErr != nil {
			respondError(w, http.StatusServiceUnavailable, "ANALYTICS_UNAVAILABLE",
				"Unable to calculate analytics and no cache available", refreshErr)
			return
		}
		snap, err = h.refresher.Cache().Get()
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "ANALYTICS_UNAVAILABLE",
			"Unable to calculate analytics and no cache available", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   snap,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      true,
		},
	})
}
