// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nuru-analytics/nuru/internal/metrics"
	"github.com/nuru-analytics/nuru/internal/models"
)

// BatchRequest is the body of a batch scoring request.
type BatchRequest struct {
	AccountNumbers []string `json:"account_numbers" validate:"required,min=1"`
}

// RecommendBatch scores the customers matching the requested account
// numbers. Unknown accounts are skipped; a request matching no accounts at
// all is a 404.
func (h *Handler) RecommendBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if max := h.cfg.API.MaxBatchSize; len(req.AccountNumbers) > max {
		respondError(w, http.StatusBadRequest, "BATCH_TOO_LARGE",
			fmt.Sprintf("At most %d account numbers per request", max), nil)
		return
	}

	records, err := h.store.GetByAccounts(r.Context(), req.AccountNumbers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err)
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "NO_MATCHING_ACCOUNTS", "No matching account numbers", nil)
		return
	}

	output := make([]models.ScoredCustomer, 0, len(records))
	for i := range records {
		scored := h.scorer.ScoreCustomer(&records[i])
		metrics.RecordScoring("batch", len(scored.RecommendedProducts))
		output = append(output, scored)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   output,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// RecommendAll scores one zero-based page of the full dataset. A page past
// the end returns an empty page, not an error.
func (h *Handler) RecommendAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page := getIntParam(r, "page", 0)
	if page < 0 {
		page = 0
	}
	pageSize := getIntParam(r, "page_size", h.cfg.API.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.API.DefaultPageSize
	}
	if pageSize > h.cfg.API.MaxPageSize {
		pageSize = h.cfg.API.MaxPageSize
	}

	records, err := h.store.Page(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer page", err)
		return
	}

	output := make([]models.ScoredCustomer, 0, len(records))
	for i := range records {
		scored := h.scorer.ScoreCustomer(&records[i])
		metrics.RecordScoring("all", len(scored.RecommendedProducts))
		output = append(output, scored)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.ScoredPage{
			Page:            page,
			PageSize:        pageSize,
			RecordsReturned: len(output),
			Data:            output,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
