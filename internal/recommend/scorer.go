// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package recommend

import (
	"github.com/nuru-analytics/nuru/internal/cluster"
	"github.com/nuru-analytics/nuru/internal/features"
	"github.com/nuru-analytics/nuru/internal/models"
)

// Scorer composes feature extraction, cluster classification, and the rule
// engine into a single per-customer scoring operation. It is a pure
// composition with no shared mutable state, so it is safe to call
// concurrently for different records.
type Scorer struct {
	classifier *cluster.Classifier
	engine     *Engine
}

// NewScorer creates a Scorer over pre-loaded model artifacts.
func NewScorer(classifier *cluster.Classifier, engine *Engine) *Scorer {
	return &Scorer{classifier: classifier, engine: engine}
}

// Score assigns a customer to a behavioral cluster and derives their
// recommended products.
func (s *Scorer) Score(rec *models.CustomerRecord) (int, []models.Recommendation) {
	clusterID := s.classifier.Classify(features.Build(rec))
	return clusterID, s.engine.Recommend(rec)
}

// ScoreCustomer scores a record into the API result shape.
func (s *Scorer) ScoreCustomer(rec *models.CustomerRecord) models.ScoredCustomer {
	clusterID, recs := s.Score(rec)
	return models.ScoredCustomer{
		CustomerID:          rec.CustomerID,
		CustomerName:        rec.CustomerName,
		AccountNumber:       rec.AccountNumber,
		Cluster:             clusterID,
		RecommendedProducts: recs,
	}
}

// Rules exposes the engine for callers that only need recommendations,
// such as the analytics aggregator's direct-compute path.
func (s *Scorer) Rules() *Engine {
	return s.engine
}
