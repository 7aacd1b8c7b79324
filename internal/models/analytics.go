// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package models

import "time"

// ClusterBucket is one entry of the cluster distribution: the cluster label,
// the number of unique accounts in it, and that count as a percentage of all
// unique accounts, formatted with two decimals and a trailing percent sign
// (e.g. "23.58%").
type ClusterBucket struct {
	Cluster    string `json:"cluster"`
	Value      int    `json:"value"`
	Percentage string `json:"percentage"`
}

// ProductCount is one entry of the top-product frequency list.
type ProductCount struct {
	Name        string `json:"name"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

// SegmentCount is one entry of the optional customer-segment breakdown.
type SegmentCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AnalyticsSnapshot is an immutable, fully computed analytics summary over
// the entire customer base. It is created wholesale by the aggregator,
// replaces the previous snapshot atomically, and is read-only thereafter.
type AnalyticsSnapshot struct {
	TotalCustomers       int    `json:"totalCustomers"`
	TotalRecommendations int    `json:"totalRecommendations"`
	// ConversionRate is carried for dashboard compatibility and is always
	// null; the service has no conversion signal.
	ConversionRate         *float64        `json:"conversionRate"`
	AvgProductsPerCustomer float64         `json:"avgProductsPerCustomer"`
	ClusterDistribution    []ClusterBucket `json:"clusterDistribution"`
	ProductRecommendations []ProductCount  `json:"productRecommendations"`
	CustomerSegments       []SegmentCount  `json:"customerSegments"`
	LastUpdated            time.Time       `json:"lastUpdated"`
}
