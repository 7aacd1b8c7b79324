// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package recommend

import (
	"testing"

	"github.com/nuru-analytics/nuru/internal/models"
)

func productNames(recs []models.Recommendation) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

func TestRecommendNeverEmpty(t *testing.T) {
	e := NewEngine()

	// A spread of profiles, including ones matching nothing.
	records := []models.CustomerRecord{
		{},
		{Category: "Unknown"},
		{Category: "Salary Earners Public", AvgSpendAmt: 60000},
		{Category: "agriculture cooperative"},
		{HasPaidSchool: true},
		{AvgSpendAmt: 999999, HasUsedCreditCard: true, UsesMobileMoney: true},
		{Category: "Student", HasPaidUtility: true, HasPaidTVInternet: true},
	}

	for i := range records {
		if got := e.Recommend(&records[i]); len(got) == 0 {
			t.Errorf("Recommend(record %d) returned empty list", i)
		}
	}
}

func TestRecommendFallbackOnly(t *testing.T) {
	e := NewEngine()
	rec := models.CustomerRecord{Category: "Unknown"}

	got := e.Recommend(&rec)
	if len(got) != 1 {
		t.Fatalf("Recommend() = %d entries, want exactly 1 fallback", len(got))
	}
	if got[0].Name != "General Banking Package" {
		t.Errorf("fallback product = %q, want General Banking Package", got[0].Name)
	}
}

func TestRecommendTuitionDuplication(t *testing.T) {
	// A school-fee payer matching no other rule receives the tuition
	// product twice: once from the school-fees rule and once from its
	// fallback twin. This duplication is intentional observed behavior.
	e := NewEngine()
	rec := models.CustomerRecord{Category: "Unknown", HasPaidSchool: true}

	got := e.Recommend(&rec)
	count := 0
	for _, r := range got {
		if r.Name == "Tuza na BK" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Tuza na BK appears %d times, want exactly 2\nlist: %v", count, productNames(got))
	}
	if len(got) != 3 {
		t.Errorf("Recommend() = %d entries, want 3 (Tuza, Kira Kibondo, Tuza)", len(got))
	}
}

func TestRecommendMortgageThreshold(t *testing.T) {
	// Two identical salary earners either side of the 50k average-spend
	// threshold must differ by exactly the mortgage entry.
	e := NewEngine()

	below := models.CustomerRecord{Category: "Salary Earners Private", AvgSpendAmt: 49999}
	above := models.CustomerRecord{Category: "Salary Earners Private", AvgSpendAmt: 50001}

	gotBelow := e.Recommend(&below)
	gotAbove := e.Recommend(&above)

	if len(gotAbove)-len(gotBelow) != 1 {
		t.Fatalf("lists differ by %d entries, want 1\nbelow: %v\nabove: %v",
			len(gotAbove)-len(gotBelow), productNames(gotBelow), productNames(gotAbove))
	}
	if gotAbove[2].Name != "Mortgage Loan" {
		t.Errorf("third product above threshold = %q, want Mortgage Loan", gotAbove[2].Name)
	}

	// Exactly at the threshold does not qualify.
	at := models.CustomerRecord{Category: "Salary Earners Private", AvgSpendAmt: 50000}
	if got := e.Recommend(&at); len(got) != len(gotBelow) {
		t.Errorf("at-threshold list has %d entries, want %d", len(got), len(gotBelow))
	}
}

func TestRecommendSalaryEarnerSchoolPayer(t *testing.T) {
	// End-to-end rule ordering scenario: salary earner over the mortgage
	// threshold who has paid school fees, nothing else.
	e := NewEngine()
	rec := models.CustomerRecord{
		Category:      "Salary Earners Public",
		AvgSpendAmt:   60000,
		HasPaidSchool: true,
	}

	got := productNames(e.Recommend(&rec))
	want := []string{
		"BK Quick",
		"BK Quick Plus",
		"Mortgage Loan",
		"Tuza na BK",
		"Kira Kibondo",
		"Tuza na BK",
	}
	if len(got) != len(want) {
		t.Fatalf("Recommend() = %d entries %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("product[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecommendCategoryMatchingCaseInsensitive(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		category string
		want     string
	}{
		{"AGRICULTURE", "Agri Loan"},
		{"Primary Agricultural Producers", "Agri Loan"},
		{"STUDENT ACCOUNT", "Student Savings Account"},
		{"BK Staff", "BK Quick"},
		{"Micro SME", "SME Stock Loan"},
	}

	for _, tt := range tests {
		rec := models.CustomerRecord{Category: tt.category}
		got := e.Recommend(&rec)
		if got[0].Name != tt.want {
			t.Errorf("Recommend(category=%q)[0] = %q, want %q", tt.category, got[0].Name, tt.want)
		}
	}
}

func TestRecommendIndependentRulesAccumulate(t *testing.T) {
	// Merchant flag plus credit-card high spend plus utilities: three
	// separate rules all contribute, in declaration order.
	e := NewEngine()
	rec := models.CustomerRecord{
		Category:          "Unknown",
		MerchantPayments:  true,
		HasUsedCreditCard: true,
		AvgSpendAmt:       90000,
		HasPaidUtility:    true,
		HasPaidTVInternet: true,
		UsesMobileMoney:   true,
	}

	got := productNames(e.Recommend(&rec))
	want := []string{
		"SME Stock Loan",
		"POS Device",
		"Secured Personal Loan",
		"Credit Line",
		"Smart Save",
		"BK Wallet",
		"Bill Payments",
		"Merchant Services",
	}
	if len(got) != len(want) {
		t.Fatalf("Recommend() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("product[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecommendDoesNotMutateRecord(t *testing.T) {
	e := NewEngine()
	rec := models.CustomerRecord{Category: "Salary Earners Public", AvgSpendAmt: 60000, HasPaidSchool: true}
	before := rec

	e.Recommend(&rec)
	if rec != before {
		t.Error("Recommend() mutated the customer record")
	}
}
