// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nuru-analytics/nuru/internal/config"
	"github.com/nuru-analytics/nuru/internal/models"
)

const csvHeader = "account_number,customer_id,customer_name,customer_account_category," +
	"total_txn_count,avg_spend_amt,total_spent," +
	"has_paid_school,has_paid_utility,uses_mobile_money,pays_taxes,merchant_payments," +
	"has_used_credit_card,has_paid_tv_internet,has_paid_gov_services,sent_money_to_china," +
	"has_paid_for_import_export,cluster"

const csvHeaderWithSegment = csvHeader + ",score_segment"

// newTestStore ingests the given CSV lines into an in-memory DuckDB.
func newTestStore(t *testing.T, header string, lines ...string) *Store {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "customers.csv")
	content := header + "\n"
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(csvPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := New(context.Background(),
		&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1},
		&config.DatasetConfig{CSVPath: csvPath})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return s
}

func TestGetByAccount(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,Alice Uwase,Salary Earners Public,90,60000,5400000,true,false,true,false,false,false,false,false,false,false,2",
		"4002,C2,Bob Habimana,Student,5,1200,6000,false,false,false,false,false,false,false,false,false,false,0",
	)

	rec, err := s.GetByAccount(context.Background(), "4001")
	if err != nil {
		t.Fatalf("GetByAccount() failed: %v", err)
	}
	if rec.CustomerName != "Alice Uwase" || rec.Category != "Salary Earners Public" {
		t.Errorf("GetByAccount() = %+v", rec)
	}
	if rec.AvgSpendAmt != 60000 || rec.Cluster != 2 || !rec.HasPaidSchool {
		t.Errorf("GetByAccount() fields = avg %v cluster %d school %v",
			rec.AvgSpendAmt, rec.Cluster, rec.HasPaidSchool)
	}
}

func TestGetByAccountNotFound(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,Alice Uwase,Student,5,100,500,false,false,false,false,false,false,false,false,false,false,0",
	)

	_, err := s.GetByAccount(context.Background(), "9999")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("GetByAccount(unknown) error = %v, want ErrCustomerNotFound", err)
	}
}

func TestGetByAccountDuplicateRowsReturnsFirst(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,First Row,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4001,C1,Second Row,Student,2,200,400,false,false,false,false,false,false,false,false,false,false,1",
	)

	rec, err := s.GetByAccount(context.Background(), "4001")
	if err != nil {
		t.Fatalf("GetByAccount() failed: %v", err)
	}
	if rec.CustomerName != "First Row" {
		t.Errorf("GetByAccount() returned %q, want first dataset row", rec.CustomerName)
	}
}

func TestGetByAccounts(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,Alice,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4002,C2,Bob,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4003,C3,Carol,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,1",
	)

	got, err := s.GetByAccounts(context.Background(), []string{"4003", "4001", "8888"})
	if err != nil {
		t.Fatalf("GetByAccounts() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByAccounts() = %d records, want 2 (unknown accounts skipped)", len(got))
	}
	// Dataset order, not request order.
	if got[0].AccountNumber != "4001" || got[1].AccountNumber != "4003" {
		t.Errorf("GetByAccounts() order = %s, %s", got[0].AccountNumber, got[1].AccountNumber)
	}
}

func TestGetByAccountsEmptyInput(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,Alice,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
	)

	got, err := s.GetByAccounts(context.Background(), nil)
	if err != nil || got != nil {
		t.Errorf("GetByAccounts(nil) = %v, %v, want nil, nil", got, err)
	}
}

func TestPage(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4002,C2,B,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4003,C3,C,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4004,C4,D,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4005,C5,E,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
	)

	page0, err := s.Page(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("Page(0) failed: %v", err)
	}
	page2, err := s.Page(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("Page(2) failed: %v", err)
	}
	beyond, err := s.Page(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("Page(5) failed: %v", err)
	}

	if len(page0) != 2 || page0[0].AccountNumber != "4001" || page0[1].AccountNumber != "4002" {
		t.Errorf("Page(0) = %+v", page0)
	}
	if len(page2) != 1 || page2[0].AccountNumber != "4005" {
		t.Errorf("Page(2) = %+v", page2)
	}
	if len(beyond) != 0 {
		t.Errorf("Page(5) = %d records, want empty", len(beyond))
	}
}

func TestForEach(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4002,C2,B,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4003,C3,C,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
	)

	var visited []string
	err := s.ForEach(context.Background(), func(rec *models.CustomerRecord) error {
		visited = append(visited, rec.AccountNumber)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() failed: %v", err)
	}
	if len(visited) != 3 || visited[0] != "4001" || visited[2] != "4003" {
		t.Errorf("ForEach() visited %v", visited)
	}

	// Callback errors stop iteration and propagate.
	sentinel := errors.New("stop")
	count := 0
	err = s.ForEach(context.Background(), func(*models.CustomerRecord) error {
		count++
		return sentinel
	})
	if !errors.Is(err, sentinel) || count != 1 {
		t.Errorf("ForEach() with failing callback: err=%v visits=%d", err, count)
	}
}

func TestCountUniqueAccounts(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4001,C1,A,Student,2,200,400,false,false,false,false,false,false,false,false,false,false,0",
		"4002,C2,B,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,1",
	)

	count, err := s.CountUniqueAccounts(context.Background())
	if err != nil {
		t.Fatalf("CountUniqueAccounts() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountUniqueAccounts() = %d, want 2", count)
	}
}

func TestClusterDistribution(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,1",
		"4002,C2,B,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
		"4003,C3,C,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,1",
		"4003,C3,C,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,1",
	)

	dist, err := s.ClusterDistribution(context.Background())
	if err != nil {
		t.Fatalf("ClusterDistribution() failed: %v", err)
	}
	want := []ClusterCount{{Cluster: 0, Count: 1}, {Cluster: 1, Count: 2}}
	if len(dist) != len(want) {
		t.Fatalf("ClusterDistribution() = %+v, want %+v", dist, want)
	}
	for i := range want {
		if dist[i] != want[i] {
			t.Errorf("ClusterDistribution()[%d] = %+v, want %+v", i, dist[i], want[i])
		}
	}
}

func TestSegmentCounts(t *testing.T) {
	s := newTestStore(t, csvHeaderWithSegment,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0,Gold",
		"4002,C2,B,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0,Silver",
		"4003,C3,C,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0,Gold",
	)

	segs, err := s.SegmentCounts(context.Background())
	if err != nil {
		t.Fatalf("SegmentCounts() failed: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("SegmentCounts() = %+v, want 2 segments", segs)
	}
	if segs[0].Name != "Gold" || segs[0].Value != 2 {
		t.Errorf("SegmentCounts()[0] = %+v, want Gold=2 first", segs[0])
	}
	if segs[1].Name != "Silver" || segs[1].Value != 1 {
		t.Errorf("SegmentCounts()[1] = %+v", segs[1])
	}
}

func TestSegmentCountsAbsentColumn(t *testing.T) {
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,1,100,100,false,false,false,false,false,false,false,false,false,false,0",
	)

	segs, err := s.SegmentCounts(context.Background())
	if err != nil {
		t.Fatalf("SegmentCounts() failed: %v", err)
	}
	if segs != nil {
		t.Errorf("SegmentCounts() without score_segment = %+v, want nil", segs)
	}
}

func TestNullCoercion(t *testing.T) {
	// Empty numeric and flag cells in the CSV come back as zero values.
	s := newTestStore(t, csvHeader,
		"4001,C1,A,Student,,,,,false,false,false,false,false,false,false,false,false,0",
	)

	rec, err := s.GetByAccount(context.Background(), "4001")
	if err != nil {
		t.Fatalf("GetByAccount() failed: %v", err)
	}
	if rec.TotalTxnCount != 0 || rec.AvgSpendAmt != 0 || rec.TotalSpent != 0 || rec.HasPaidSchool {
		t.Errorf("NULL cells not coerced to zero: %+v", rec)
	}
}

func TestNewMissingCSVFails(t *testing.T) {
	_, err := New(context.Background(),
		&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1},
		&config.DatasetConfig{CSVPath: "/nonexistent/data.csv"})
	if err == nil {
		t.Fatal("New() with missing CSV should fail")
	}
}
