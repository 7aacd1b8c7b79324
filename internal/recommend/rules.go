// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package recommend

import (
	"strings"

	"github.com/nuru-analytics/nuru/internal/models"
)

// Spending thresholds used by the rule predicates, in RWF.
const (
	// mortgageSpendThreshold qualifies salary earners for a mortgage offer.
	mortgageSpendThreshold = 50000
	// creditLineSpendThreshold qualifies credit-card users for secured credit.
	creditLineSpendThreshold = 80000
	// billPaySpendThreshold qualifies active mobile-money users for bill-pay.
	billPaySpendThreshold = 10000
)

// Category phrase sets matched case-insensitively as substrings.
var (
	salaryEarnerPhrases = []string{
		"salary earners public",
		"salary earners private",
		"salary ear priv",
	}
	merchantPhrases = []string{
		"micro sme",
		"sole traders",
		"retail broker",
	}
)

// fallbackProduct is emitted when no rule matches at all. The engine never
// returns an empty list.
var fallbackProduct = models.Recommendation{
	Name:   "General Banking Package",
	Reason: "No clear pattern detected, but offer general BK services",
}

// rule pairs a predicate with the fixed recommendation set it contributes.
// Rules are independent: every rule is evaluated against every record, in
// declaration order, with no short-circuiting, and matched rules append
// their products in that order.
type rule struct {
	name     string
	matches  func(rec *models.CustomerRecord, category string) bool
	products []models.Recommendation
}

// rules is the ordered product-eligibility rule set.
//
// NOTE: the tuition product ("Tuza na BK") appears in two rules on the same
// has_paid_school flag, so school-fee payers receive it twice. This mirrors
// the rule set signed off by the product owners; do not deduplicate without
// their confirmation.
var rules = []rule{
	{
		name: "agriculture",
		matches: func(_ *models.CustomerRecord, category string) bool {
			return strings.Contains(category, "agricul")
		},
		products: []models.Recommendation{
			{Name: "Agri Loan", Reason: "Tailored for agricultural financing needs"},
		},
	},
	{
		name: "salary-earner",
		matches: func(_ *models.CustomerRecord, category string) bool {
			return containsAny(category, salaryEarnerPhrases)
		},
		products: []models.Recommendation{
			{Name: "BK Quick", Reason: "Suitable for salary advances up to RWF 500k"},
			{Name: "BK Quick Plus", Reason: "Higher limit loan with no collateral"},
		},
	},
	{
		name: "salary-earner-mortgage",
		matches: func(rec *models.CustomerRecord, category string) bool {
			return containsAny(category, salaryEarnerPhrases) && rec.AvgSpendAmt > mortgageSpendThreshold
		},
		products: []models.Recommendation{
			{Name: "Mortgage Loan", Reason: "Eligible based on income and expense level"},
		},
	},
	{
		name: "student",
		matches: func(_ *models.CustomerRecord, category string) bool {
			return strings.Contains(category, "student")
		},
		products: []models.Recommendation{
			{Name: "Student Savings Account", Reason: "Ideal for managing low income and savings goals"},
			{Name: "Prepaid Card", Reason: "Smart and safe way to manage student expenses"},
		},
	},
	{
		name: "bk-staff",
		matches: func(_ *models.CustomerRecord, category string) bool {
			return strings.Contains(category, "bk staff")
		},
		products: []models.Recommendation{
			{Name: "BK Quick", Reason: "Special staff access to instant mobile loans"},
			{Name: "BK Quick Plus", Reason: "Larger limit with quicker approval"},
			{Name: "Mortgage Loan", Reason: "Staff-eligible housing finance solution"},
		},
	},
	{
		name: "school-fees",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.HasPaidSchool
		},
		products: []models.Recommendation{
			{Name: "Tuza na BK", Reason: "Supports tuition fee payment with RWF 500k loan"},
			{Name: "Kira Kibondo", Reason: "Children’s saving account for long-term education goals"},
		},
	},
	{
		name: "merchant-sme",
		matches: func(rec *models.CustomerRecord, category string) bool {
			return containsAny(category, merchantPhrases) || rec.MerchantPayments
		},
		products: []models.Recommendation{
			{Name: "SME Stock Loan", Reason: "Support inventory or stock purchase"},
			{Name: "POS Device", Reason: "Enable seamless merchant payments"},
		},
	},
	{
		name: "credit-card-high-spend",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.HasUsedCreditCard && rec.AvgSpendAmt > creditLineSpendThreshold
		},
		products: []models.Recommendation{
			{Name: "Secured Personal Loan", Reason: "Eligible due to card history and high spending"},
			{Name: "Credit Line", Reason: "Ongoing access to flexible credit"},
		},
	},
	{
		name: "import-export",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.HasPaidForImportExport
		},
		products: []models.Recommendation{
			{Name: "SME Bank Guarantee", Reason: "Secure trade operations and guarantee obligations"},
		},
	},
	{
		name: "utility-internet",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.HasPaidUtility && rec.HasPaidTVInternet
		},
		products: []models.Recommendation{
			{Name: "Smart Save", Reason: "Digital savings based on active lifestyle"},
			{Name: "BK Wallet", Reason: "Ideal for digital transactions and mobile pay"},
		},
	},
	{
		name: "school-fees-fallback",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.HasPaidSchool
		},
		products: []models.Recommendation{
			{Name: "Tuza na BK", Reason: "Supports tuition fee payment even without strong profile match"},
		},
	},
	{
		name: "mobile-money-active",
		matches: func(rec *models.CustomerRecord, _ string) bool {
			return rec.AvgSpendAmt > billPaySpendThreshold && rec.UsesMobileMoney
		},
		products: []models.Recommendation{
			{Name: "Bill Payments", Reason: "Customer uses mobile money frequently and can benefit from paying utilities through BK"},
			{Name: "Merchant Services", Reason: "Encourage use of BK POS and BK merchants for smoother digital payments"},
		},
	},
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
