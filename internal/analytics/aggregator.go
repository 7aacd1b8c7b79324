// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package analytics computes the aggregate snapshot served by the
// dashboard endpoint and keeps it fresh in the background. A snapshot is
// built wholesale per pass and swapped in atomically; readers never see a
// partially updated one, and a failed pass leaves the previous snapshot
// in place.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nuru-analytics/nuru/internal/models"
	"github.com/nuru-analytics/nuru/internal/store"
)

// topProductCount bounds the product frequency list.
const topProductCount = 10

// productDescription is the fixed dashboard copy for product entries.
const productDescription = "Top recommended product."

// Dataset is the slice of the customer store the aggregator reads.
type Dataset interface {
	CountUniqueAccounts(ctx context.Context) (int, error)
	ClusterDistribution(ctx context.Context) ([]store.ClusterCount, error)
	SegmentCounts(ctx context.Context) ([]models.SegmentCount, error)
	ForEach(ctx context.Context, fn func(*models.CustomerRecord) error) error
}

// RecSource resolves the recommendation list for one dataset row. The
// refresher wires this to the persisted recommendation store when it is
// populated, and to the rule engine directly when it is not.
type RecSource func(*models.CustomerRecord) []models.Recommendation

// Aggregator builds analytics snapshots from the dataset.
type Aggregator struct {
	dataset Dataset
}

// NewAggregator creates an Aggregator over the customer dataset.
func NewAggregator(dataset Dataset) *Aggregator {
	return &Aggregator{dataset: dataset}
}

// Aggregate computes one complete snapshot. An empty dataset yields a
// snapshot of zero counts, not an error. Duplicate account rows contribute
// to recommendation totals per row but to customer counts once.
func (a *Aggregator) Aggregate(ctx context.Context, recsFor RecSource) (*models.AnalyticsSnapshot, error) {
	totalCustomers, err := a.dataset.CountUniqueAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	totalRecommendations := 0
	productCounts := make(map[string]int)
	err = a.dataset.ForEach(ctx, func(rec *models.CustomerRecord) error {
		recs := recsFor(rec)
		totalRecommendations += len(recs)
		for _, r := range recs {
			productCounts[r.Name]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan recommendations: %w", err)
	}

	avg := 0.0
	if totalCustomers > 0 {
		avg = round2(float64(totalRecommendations) / float64(totalCustomers))
	}

	distribution, err := a.clusterDistribution(ctx, totalCustomers)
	if err != nil {
		return nil, err
	}

	segments, err := a.dataset.SegmentCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("segment counts: %w", err)
	}

	return &models.AnalyticsSnapshot{
		TotalCustomers:         totalCustomers,
		TotalRecommendations:   totalRecommendations,
		ConversionRate:         nil,
		AvgProductsPerCustomer: avg,
		ClusterDistribution:    distribution,
		ProductRecommendations: topProducts(productCounts),
		CustomerSegments:       segments,
		LastUpdated:            time.Now().UTC(),
	}, nil
}

func (a *Aggregator) clusterDistribution(ctx context.Context, totalCustomers int) ([]models.ClusterBucket, error) {
	counts, err := a.dataset.ClusterDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("cluster distribution: %w", err)
	}

	buckets := make([]models.ClusterBucket, 0, len(counts))
	for _, c := range counts {
		pct := 0.0
		if totalCustomers > 0 {
			pct = float64(c.Count) / float64(totalCustomers) * 100
		}
		buckets = append(buckets, models.ClusterBucket{
			Cluster:    fmt.Sprintf("%d", c.Cluster),
			Value:      c.Count,
			Percentage: fmt.Sprintf("%.2f%%", pct),
		})
	}
	return buckets, nil
}

// topProducts returns the ten most frequent products, ordered by
// descending count and then by name so the output is stable run to run.
func topProducts(counts map[string]int) []models.ProductCount {
	products := make([]models.ProductCount, 0, len(counts))
	for name, count := range counts {
		products = append(products, models.ProductCount{
			Name:        name,
			Value:       count,
			Description: productDescription,
		})
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Value != products[j].Value {
			return products[i].Value > products[j].Value
		}
		return products[i].Name < products[j].Name
	})

	if len(products) > topProductCount {
		products = products[:topProductCount]
	}
	return products
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
