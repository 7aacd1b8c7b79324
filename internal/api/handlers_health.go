// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package api

import (
	"net/http"
	"time"

	"github.com/nuru-analytics/nuru/internal/models"
)

// serviceVersion is reported by the health endpoint.
const serviceVersion = "1.0.0"

// Health reports database connectivity, model availability, and whether an
// analytics snapshot is being served.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	modelLoaded := h.scorer != nil

	var lastRefresh *time.Time
	snapshotAvailable := false
	if h.refresher != nil {
		if snap, err := h.refresher.Cache().Get(); err == nil {
			snapshotAvailable = true
			t := snap.LastUpdated
			lastRefresh = &t
		}
	}

	status := "healthy"
	if !dbConnected || !modelLoaded {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           serviceVersion,
		DatabaseConnected: dbConnected,
		ModelLoaded:       modelLoaded,
		SnapshotAvailable: snapshotAvailable,
		LastRefreshTime:   lastRefresh,
		Uptime:            time.Since(h.startTime).Round(time.Second).String(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
