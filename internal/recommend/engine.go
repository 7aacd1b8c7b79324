// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package recommend implements the product-eligibility rule engine and the
// customer scorer that combines it with the cluster classifier.
//
// The engine evaluates a fixed, ordered sequence of independent
// predicate->product rules against a customer record. A record may match
// any number of rules; the matched rules' products are appended in rule
// declaration order, duplicates included. The result is never empty: a
// record matching nothing receives the generic fallback product.
package recommend

import (
	"strings"

	"github.com/nuru-analytics/nuru/internal/models"
)

// Engine evaluates the ordered rule set. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	rules []rule
}

// NewEngine creates the rule engine with the standard product rule set.
func NewEngine() *Engine {
	return &Engine{rules: rules}
}

// Recommend returns the ordered, never-empty recommendation list for a
// customer record. The record is not mutated.
func (e *Engine) Recommend(rec *models.CustomerRecord) []models.Recommendation {
	category := strings.ToLower(rec.Category)

	var products []models.Recommendation
	for _, r := range e.rules {
		if r.matches(rec, category) {
			products = append(products, r.products...)
		}
	}

	if len(products) == 0 {
		products = append(products, fallbackProduct)
	}
	return products
}
