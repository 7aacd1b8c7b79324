// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package main is the entry point for the Nuru server.
//
// Nuru scores bank customers into behavioral clusters with a pre-fitted
// nearest-centroid model and derives product recommendations from a fixed
// rule set. It serves a read API over a DuckDB-backed customer dataset and
// keeps an aggregate analytics snapshot refreshed in the background.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered config (env > file > defaults)
//  2. Dataset store: DuckDB, ingesting the customer CSV on first start
//  3. Model: pre-fitted scaler and centroid artifacts loaded from JSON
//  4. Recommendation store: BadgerDB artifact of per-account results
//  5. Analytics: aggregator, snapshot cache, and refresher
//  6. HTTP server: Chi read API plus Prometheus metrics
//  7. Supervisor tree: refresher, Badger GC, and HTTP server under Suture
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests (10s timeout), then the stores are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nuru-analytics/nuru/internal/analytics"
	"github.com/nuru-analytics/nuru/internal/api"
	"github.com/nuru-analytics/nuru/internal/cluster"
	"github.com/nuru-analytics/nuru/internal/config"
	"github.com/nuru-analytics/nuru/internal/logging"
	"github.com/nuru-analytics/nuru/internal/recommend"
	"github.com/nuru-analytics/nuru/internal/recstore"
	"github.com/nuru-analytics/nuru/internal/store"
	"github.com/nuru-analytics/nuru/internal/supervisor"
	"github.com/nuru-analytics/nuru/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("csv_path", cfg.Dataset.CSVPath).
		Str("addr", cfg.Addr()).
		Msg("Starting Nuru")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dataset store. Ingestion runs before the API binds so the service
	// never serves an empty table.
	dataset, err := store.New(ctx, &cfg.Database, &cfg.Dataset)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize customer store")
	}
	defer func() {
		if err := dataset.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing customer store")
		}
	}()

	// Model artifacts are mandatory. A service that cannot classify is
	// not worth starting.
	classifier, err := cluster.Load(cfg.Model.ScalerPath, cfg.Model.ClusterModelPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load model artifacts")
	}
	logging.Info().
		Int("clusters", classifier.Clusters()).
		Msg("Cluster model loaded")

	recs, err := recstore.Open(&cfg.RecStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open recommendation store")
	}
	defer func() {
		if err := recs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation store")
		}
	}()

	engine := recommend.NewEngine()
	scorer := recommend.NewScorer(classifier, engine)

	refresher := analytics.NewRefresher(
		analytics.NewAggregator(dataset),
		analytics.NewSnapshotCache(),
		recs,
		engine.Recommend,
		dataset,
		cfg.Analytics.RefreshTimeout,
	)

	handler := api.NewHandler(cfg, dataset, scorer, refresher)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree. Suture events are logged through the slog adapter
	// over the global zerolog logger.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(services.NewAnalyticsService(refresher, services.AnalyticsServiceConfig{
		RefreshOnStartup: cfg.Analytics.RefreshOnStartup,
		RefreshInterval:  cfg.Analytics.RefreshInterval,
	}, logging.Logger()))

	if !cfg.RecStore.InMemory {
		tree.AddDataService(services.NewBadgerGCService(recs, cfg.RecStore.GCInterval, logging.Logger()))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
