// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package store provides read access to the clustered customer transaction
// dataset. The dataset is a CSV produced by the offline training pipeline;
// it is ingested into DuckDB at startup and queried read-only afterwards.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/nuru-analytics/nuru/internal/config"
	"github.com/nuru-analytics/nuru/internal/logging"
	"github.com/nuru-analytics/nuru/internal/models"
)

// ErrCustomerNotFound is returned when an account number has no record in
// the dataset.
var ErrCustomerNotFound = errors.New("customer not found")

// customersTable is the ingested dataset table.
const customersTable = "customers"

// customerColumns is the shared projection for customer rows. The CSV may
// carry numeric NULLs and integer-typed flags, so every column is cast and
// NULL-coerced here instead of at scan time.
const customerColumns = `
	COALESCE(CAST(account_number AS VARCHAR), ''),
	COALESCE(CAST(customer_id AS VARCHAR), ''),
	COALESCE(CAST(customer_name AS VARCHAR), ''),
	COALESCE(CAST(customer_account_category AS VARCHAR), ''),
	COALESCE(CAST(total_txn_count AS DOUBLE), 0),
	COALESCE(CAST(avg_spend_amt AS DOUBLE), 0),
	COALESCE(CAST(total_spent AS DOUBLE), 0),
	COALESCE(CAST(has_paid_school AS BOOLEAN), false),
	COALESCE(CAST(has_paid_utility AS BOOLEAN), false),
	COALESCE(CAST(uses_mobile_money AS BOOLEAN), false),
	COALESCE(CAST(pays_taxes AS BOOLEAN), false),
	COALESCE(CAST(merchant_payments AS BOOLEAN), false),
	COALESCE(CAST(has_used_credit_card AS BOOLEAN), false),
	COALESCE(CAST(has_paid_tv_internet AS BOOLEAN), false),
	COALESCE(CAST(has_paid_gov_services AS BOOLEAN), false),
	COALESCE(CAST(sent_money_to_china AS BOOLEAN), false),
	COALESCE(CAST(has_paid_for_import_export AS BOOLEAN), false),
	COALESCE(CAST(cluster AS INTEGER), 0)`

// Store wraps the DuckDB connection holding the customer dataset.
type Store struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// hasScoreSegment records whether the optional score_segment column
	// was present in the ingested CSV.
	hasScoreSegment bool
}

// ClusterCount is the number of unique accounts assigned to one cluster.
type ClusterCount struct {
	Cluster int
	Count   int
}

// New opens the DuckDB database and ingests the customer CSV if the table
// is absent or a reload was requested.
func New(ctx context.Context, cfg *config.DatabaseConfig, dataset *config.DatasetConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted
	// network environments.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{conn: conn, cfg: cfg}

	if err := s.ingest(ctx, dataset); err != nil {
		closeQuietly(conn)
		return nil, err
	}
	if err := s.detectScoreSegment(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	count, err := s.CountUniqueAccounts(ctx)
	if err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	logging.Info().
		Int("customers", count).
		Bool("score_segment", s.hasScoreSegment).
		Str("path", cfg.Path).
		Msg("Customer dataset ready")

	return s, nil
}

// ingest loads the CSV into the customers table. The table is replaced
// wholesale when a reload is requested so a stale partial ingest cannot
// survive.
func (s *Store) ingest(ctx context.Context, dataset *config.DatasetConfig) error {
	exists, err := s.tableExists(ctx, customersTable)
	if err != nil {
		return fmt.Errorf("failed to check customers table: %w", err)
	}
	if exists && !dataset.Reload {
		return nil
	}

	if dataset.CSVPath == "" {
		return errors.New("dataset CSV path not configured and no ingested table found")
	}
	if _, err := os.Stat(dataset.CSVPath); err != nil {
		return fmt.Errorf("dataset CSV not readable: %w", err)
	}

	// read_csv_auto takes the path as a literal, not a bind parameter.
	escaped := strings.ReplaceAll(dataset.CSVPath, "'", "''")
	query := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s', header=true)",
		customersTable, escaped)
	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ingest dataset CSV %s: %w", dataset.CSVPath, err)
	}

	logging.Info().Str("csv", dataset.CSVPath).Msg("Ingested customer dataset")
	return nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) detectScoreSegment(ctx context.Context) error {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = 'score_segment'",
		customersTable).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect dataset columns: %w", err)
	}
	s.hasScoreSegment = count > 0
	return nil
}

// segmentColumn returns the score_segment projection, or an empty literal
// when the dataset was trained without segment labels.
func (s *Store) segmentColumn() string {
	if s.hasScoreSegment {
		return "COALESCE(CAST(score_segment AS VARCHAR), '')"
	}
	return "''"
}

func scanCustomer(row interface{ Scan(...any) error }) (*models.CustomerRecord, error) {
	var rec models.CustomerRecord
	err := row.Scan(
		&rec.AccountNumber,
		&rec.CustomerID,
		&rec.CustomerName,
		&rec.Category,
		&rec.TotalTxnCount,
		&rec.AvgSpendAmt,
		&rec.TotalSpent,
		&rec.HasPaidSchool,
		&rec.HasPaidUtility,
		&rec.UsesMobileMoney,
		&rec.PaysTaxes,
		&rec.MerchantPayments,
		&rec.HasUsedCreditCard,
		&rec.HasPaidTVInternet,
		&rec.HasPaidGovServices,
		&rec.SentMoneyToChina,
		&rec.HasPaidForImportExport,
		&rec.Cluster,
		&rec.ScoreSegment,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByAccount returns the first dataset row for an account number, or
// ErrCustomerNotFound.
func (s *Store) GetByAccount(ctx context.Context, accountNumber string) (*models.CustomerRecord, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE CAST(account_number AS VARCHAR) = ? ORDER BY rowid LIMIT 1",
		customerColumns, s.segmentColumn(), customersTable)

	rec, err := scanCustomer(s.conn.QueryRowContext(ctx, query, accountNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer %s: %w", accountNumber, err)
	}
	return rec, nil
}

// GetByAccounts returns all dataset rows whose account number is in the
// given set, in dataset order. Unknown accounts are silently absent from
// the result.
func (s *Store) GetByAccounts(ctx context.Context, accountNumbers []string) ([]models.CustomerRecord, error) {
	if len(accountNumbers) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(accountNumbers))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE CAST(account_number AS VARCHAR) IN (%s) ORDER BY rowid",
		customerColumns, s.segmentColumn(), customersTable, placeholders)

	args := make([]any, len(accountNumbers))
	for i, a := range accountNumbers {
		args[i] = a
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer batch: %w", err)
	}
	defer closeRows(rows)

	return collectCustomers(rows)
}

// Page returns one zero-based page of the dataset in ingestion order.
func (s *Store) Page(ctx context.Context, page, pageSize int) ([]models.CustomerRecord, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s ORDER BY rowid LIMIT ? OFFSET ?",
		customerColumns, s.segmentColumn(), customersTable)

	rows, err := s.conn.QueryContext(ctx, query, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer page %d: %w", page, err)
	}
	defer closeRows(rows)

	return collectCustomers(rows)
}

// ForEach streams every dataset row to fn in ingestion order. Iteration
// stops at the first error fn returns.
func (s *Store) ForEach(ctx context.Context, fn func(*models.CustomerRecord) error) error {
	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY rowid",
		customerColumns, s.segmentColumn(), customersTable)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to scan dataset: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		rec, err := scanCustomer(rows)
		if err != nil {
			return fmt.Errorf("failed to scan customer row: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountUniqueAccounts returns the number of distinct account numbers in
// the dataset.
func (s *Store) CountUniqueAccounts(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(DISTINCT account_number) FROM %s", customersTable)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique accounts: %w", err)
	}
	return count, nil
}

// ClusterDistribution returns unique-account counts per cluster, ordered
// by ascending cluster id.
func (s *Store) ClusterDistribution(ctx context.Context) ([]ClusterCount, error) {
	query := fmt.Sprintf(
		"SELECT COALESCE(CAST(cluster AS INTEGER), 0), COUNT(DISTINCT account_number) FROM %s GROUP BY 1 ORDER BY 1",
		customersTable)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster distribution: %w", err)
	}
	defer closeRows(rows)

	var dist []ClusterCount
	for rows.Next() {
		var c ClusterCount
		if err := rows.Scan(&c.Cluster, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan cluster count: %w", err)
		}
		dist = append(dist, c)
	}
	return dist, rows.Err()
}

// SegmentCounts returns per-segment row counts ordered by descending
// count, then segment name. Returns nil when the dataset has no
// score_segment column.
func (s *Store) SegmentCounts(ctx context.Context) ([]models.SegmentCount, error) {
	if !s.hasScoreSegment {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(CAST(score_segment AS VARCHAR), ''), COUNT(*) FROM %s GROUP BY 1 ORDER BY 2 DESC, 1",
		customersTable)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment counts: %w", err)
	}
	defer closeRows(rows)

	var segs []models.SegmentCount
	for rows.Next() {
		var sc models.SegmentCount
		if err := rows.Scan(&sc.Name, &sc.Value); err != nil {
			return nil, fmt.Errorf("failed to scan segment count: %w", err)
		}
		segs = append(segs, sc)
	}
	return segs, rows.Err()
}

// Ping reports database liveness for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func collectCustomers(rows *sql.Rows) ([]models.CustomerRecord, error) {
	var records []models.CustomerRecord
	for rows.Next() {
		rec, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close result rows")
	}
}
