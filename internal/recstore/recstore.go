// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package recstore persists the derived per-account recommendation lists
// in BadgerDB. The store is an artifact of the analytics refresher: it is
// regenerated wholesale from the dataset and the rule engine, and the
// aggregator reads it back instead of re-running every rule per pass.
package recstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/nuru-analytics/nuru/internal/config"
	"github.com/nuru-analytics/nuru/internal/logging"
	"github.com/nuru-analytics/nuru/internal/models"
)

// recKeyPrefix versions the on-disk key layout. Bump it when the stored
// value shape changes so stale entries are ignored rather than misread.
const recKeyPrefix = "rec:v1:"

// Store is the BadgerDB-backed recommendation artifact.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the recommendation store.
func Open(cfg *config.RecStoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create recommendation store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open recommendation store: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the stored recommendation list for an account. A missing or
// undecodable entry yields an empty list, never an error: the store is a
// derived artifact and the aggregator tolerates gaps.
func (s *Store) Get(accountNumber string) []models.Recommendation {
	var recs []models.Recommendation

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recKeyPrefix + accountNumber))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &recs)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Debug().Err(err).Str("account", accountNumber).
				Msg("Unreadable recommendation entry, treating as empty")
		}
		return nil
	}
	return recs
}

// Put stores one account's recommendation list.
func (s *Store) Put(accountNumber string, recs []models.Recommendation) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recKeyPrefix+accountNumber), data)
	})
}

// Generate rebuilds the store from the dataset. source streams every
// customer record; recommend derives the product list for one record.
// Later duplicate rows for the same account overwrite earlier ones, so
// the final entry reflects the last dataset row. The refresher is the
// sole writer.
func (s *Store) Generate(
	ctx context.Context,
	source func(context.Context, func(*models.CustomerRecord) error) error,
	recommend func(*models.CustomerRecord) []models.Recommendation,
) (int, error) {
	// Batch writes to keep transactions below Badger's size limits.
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	written := 0
	err := source(ctx, func(rec *models.CustomerRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(recommend(rec))
		if err != nil {
			return fmt.Errorf("marshal recommendations for %s: %w", rec.AccountNumber, err)
		}
		if err := wb.Set([]byte(recKeyPrefix+rec.AccountNumber), data); err != nil {
			return fmt.Errorf("write recommendations for %s: %w", rec.AccountNumber, err)
		}
		written++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush recommendation batch: %w", err)
	}

	logging.Info().Int("entries", written).Msg("Regenerated recommendation store")
	return written, nil
}

// Count returns the number of stored recommendation entries.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count recommendation entries: %w", err)
	}
	return count, nil
}

// RunGC runs one value-log garbage collection pass to completion.
func (s *Store) RunGC() error {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("recommendation store GC: %w", err)
		}
	}
}

// Close closes the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}
