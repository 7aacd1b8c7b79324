// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package models defines the shared data types for the Nuru service:
// customer records, recommendations, analytics snapshots, and the API
// response envelope.
package models

// CustomerRecord is one row of the clustered customer transaction dataset.
//
// Numeric and boolean fields are coercible to zero when absent in the
// source data; the category string is always present but may be empty.
// Cluster is the label assigned by the offline training pass and is only
// meaningful after the dataset has been clustered once.
type CustomerRecord struct {
	AccountNumber string `json:"account_number"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	// Category is the free-text account classification, matched
	// case-insensitively by the rule engine.
	Category string `json:"customer_account_category"`

	TotalTxnCount float64 `json:"total_txn_count"`
	AvgSpendAmt   float64 `json:"avg_spend_amt"`
	TotalSpent    float64 `json:"total_spent"`

	HasPaidSchool          bool `json:"has_paid_school"`
	HasPaidUtility         bool `json:"has_paid_utility"`
	UsesMobileMoney        bool `json:"uses_mobile_money"`
	PaysTaxes              bool `json:"pays_taxes"`
	MerchantPayments       bool `json:"merchant_payments"`
	HasUsedCreditCard      bool `json:"has_used_credit_card"`
	HasPaidTVInternet      bool `json:"has_paid_tv_internet"`
	HasPaidGovServices     bool `json:"has_paid_gov_services"`
	SentMoneyToChina       bool `json:"sent_money_to_china"`
	HasPaidForImportExport bool `json:"has_paid_for_import_export"`

	Cluster int `json:"cluster"`
	// ScoreSegment is an optional marketing segment label; empty when the
	// dataset does not carry the column.
	ScoreSegment string `json:"score_segment,omitempty"`
}

// Recommendation is a single recommended product with the reason it was
// selected. Ordering within a customer's list is significant and duplicates
// are preserved.
type Recommendation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ScoredCustomer is the result of scoring one customer: the live cluster
// assignment plus the ordered recommendation list.
type ScoredCustomer struct {
	CustomerID          string           `json:"customer_id"`
	CustomerName        string           `json:"customer_name"`
	AccountNumber       string           `json:"account_number"`
	Cluster             int              `json:"cluster"`
	RecommendedProducts []Recommendation `json:"recommended_products"`
}

// ScoredPage is one page of batch-scored customers.
type ScoredPage struct {
	Page            int              `json:"page"`
	PageSize        int              `json:"page_size"`
	RecordsReturned int              `json:"records_returned"`
	Data            []ScoredCustomer `json:"data"`
}
