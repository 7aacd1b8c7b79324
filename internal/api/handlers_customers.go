// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nuru-analytics/nuru/internal/metrics"
	"github.com/nuru-analytics/nuru/internal/models"
	"github.com/nuru-analytics/nuru/internal/store"
)

// GetCustomer scores a single customer by account number, returning the
// live cluster assignment and the ordered recommendation list.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	accountNumber := chi.URLParam(r, "accountNumber")
	if accountNumber == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Account number required", nil)
		return
	}

	rec, err := h.store.GetByAccount(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err)
		return
	}

	scored := h.scorer.ScoreCustomer(rec)
	metrics.RecordScoring("customer", len(scored.RecommendedProducts))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   scored,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
