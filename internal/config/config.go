// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package config provides layered application configuration via Koanf v2.
//
// Precedence (highest wins): environment variables > config file > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Model     ModelConfig     `koanf:"model"`
	RecStore  RecStoreConfig  `koanf:"recstore"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings for the customer dataset store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" is accepted for tests.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads = 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// DatasetConfig describes the customer transaction CSV ingested at startup.
type DatasetConfig struct {
	// CSVPath is the clustered customer transaction dataset.
	CSVPath string `koanf:"csv_path"`
	// Reload forces re-ingestion of the CSV even if the customers table exists.
	Reload bool `koanf:"reload"`
}

// ModelConfig locates the pre-fitted model artifacts exported by the
// offline training pipeline.
type ModelConfig struct {
	// ScalerPath is the JSON export of the fitted standard scaler.
	ScalerPath string `koanf:"scaler_path"`
	// ClusterModelPath is the JSON export of the fitted cluster centroids.
	ClusterModelPath string `koanf:"cluster_model_path"`
}

// RecStoreConfig holds BadgerDB settings for the derived recommendations
// artifact.
type RecStoreConfig struct {
	Path string `koanf:"path"`
	// InMemory runs Badger without disk persistence. Used by tests.
	InMemory bool `koanf:"in_memory"`
	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// AnalyticsConfig controls the background snapshot refresher.
type AnalyticsConfig struct {
	// RefreshInterval is the fixed interval between aggregation passes.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	// RefreshOnStartup triggers one aggregation pass when the service starts.
	RefreshOnStartup bool `koanf:"refresh_on_startup"`
	// RefreshTimeout bounds a single aggregation pass.
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`
}

// APIConfig holds pagination limits for the read API.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	// MaxBatchSize caps the number of accounts in a batch scoring request.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// SecurityConfig holds CORS and rate-limit settings.
// Authentication is deliberately out of scope for this service; it runs
// behind the bank's API gateway.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Dataset.CSVPath == "" {
		return fmt.Errorf("dataset.csv_path must not be empty")
	}
	if c.Model.ScalerPath == "" || c.Model.ClusterModelPath == "" {
		return fmt.Errorf("model.scaler_path and model.cluster_model_path are required")
	}
	if c.Analytics.RefreshInterval <= 0 {
		return fmt.Errorf("analytics.refresh_interval must be positive, got %s", c.Analytics.RefreshInterval)
	}
	if c.API.DefaultPageSize <= 0 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api page sizes invalid: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.API.MaxBatchSize <= 0 {
		return fmt.Errorf("api.max_batch_size must be positive, got %d", c.API.MaxBatchSize)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 || c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit requires positive requests and window")
		}
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
