// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package features extracts the fixed, ordered numeric feature vector the
// clustering model was fitted against.
//
// The feature order is part of the model contract: the scaler and cluster
// centroids were both fitted against columns in exactly this order, so the
// order here must never change without retraining.
package features

import "github.com/nuru-analytics/nuru/internal/models"

// NumFeatures is the dimensionality of the model's feature space.
const NumFeatures = 13

// Names lists the model features in contract order.
var Names = [NumFeatures]string{
	"total_txn_count",
	"avg_spend_amt",
	"total_spent",
	"has_paid_school",
	"has_paid_utility",
	"uses_mobile_money",
	"pays_taxes",
	"merchant_payments",
	"has_used_credit_card",
	"has_paid_tv_internet",
	"has_paid_gov_services",
	"sent_money_to_china",
	"has_paid_for_import_export",
}

// Vector is an ordered numeric encoding of a customer's behavioral signals.
type Vector [NumFeatures]float64

// Build derives the feature vector for a customer record. Boolean flags map
// to 0/1; absent numeric values are already zero at this point (the store
// coerces NULLs on scan). Out-of-range values pass through unchanged; any
// normalization is the classifier's responsibility.
func Build(rec *models.CustomerRecord) Vector {
	return Vector{
		rec.TotalTxnCount,
		rec.AvgSpendAmt,
		rec.TotalSpent,
		boolToFloat(rec.HasPaidSchool),
		boolToFloat(rec.HasPaidUtility),
		boolToFloat(rec.UsesMobileMoney),
		boolToFloat(rec.PaysTaxes),
		boolToFloat(rec.MerchantPayments),
		boolToFloat(rec.HasUsedCreditCard),
		boolToFloat(rec.HasPaidTVInternet),
		boolToFloat(rec.HasPaidGovServices),
		boolToFloat(rec.SentMoneyToChina),
		boolToFloat(rec.HasPaidForImportExport),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
