// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package config provides layered configuration for ShopSense using Koanf v2.
//
// Loading order (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (SERVER_PORT, DATABASE_PATH, OLLAMA_MODEL, ...)
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Ollama    OllamaConfig    `koanf:"ollama"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
	Trainer   TrainerConfig   `koanf:"trainer"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - SERVER_HOST: bind address (default 0.0.0.0)
//   - SERVER_PORT: listen port (default 8000)
//   - SERVER_TIMEOUT: read/write timeout (default 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment variables:
//   - DATABASE_PATH: database file path (default data/shopsense.duckdb)
//   - DATABASE_MAX_MEMORY: DuckDB memory limit (default 2GB)
//   - DATABASE_THREADS: worker threads, 0 = runtime.NumCPU()
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// OllamaConfig holds settings for the local LLM runtime.
//
// Environment variables:
//   - OLLAMA_BASE_URL: runtime URL (default http://localhost:11434)
//   - OLLAMA_MODEL: model name for generation and embeddings (default llama3)
//   - OLLAMA_TIMEOUT: per-request timeout (default 60s)
//
// The breaker settings guard against a wedged runtime: after
// BreakerMaxFailures consecutive failures the breaker opens and calls fail
// fast for BreakerOpenTimeout before a half-open probe.
type OllamaConfig struct {
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`

	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	RequestBurst       int           `koanf:"request_burst"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// APIConfig holds pagination and rate limiting settings for the REST API.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// RecommendConfig holds recommendation engine settings.
//
// The hybrid weights blend the per-strategy scores; they are normalized
// before use so only their ratio matters.
type RecommendConfig struct {
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	CacheTTL            time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries     int           `koanf:"cache_max_entries"`
	SimilarityThreshold float64       `koanf:"similarity_threshold"`

	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	ContentWeight       float64 `koanf:"content_weight"`
	PopularityWeight    float64 `koanf:"popularity_weight"`
}

// TrainerConfig holds settings for the background embedding trainer.
type TrainerConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	BatchSize int           `koanf:"batch_size"`
}

// EnrichConfig holds settings for the product info enrichment scraper.
type EnrichConfig struct {
	Enabled   bool          `koanf:"enabled"`
	SearchURL string        `koanf:"search_url"`
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}
	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama.base_url must not be empty")
	}
	if c.Ollama.Model == "" {
		return fmt.Errorf("ollama.model must not be empty")
	}
	if c.Ollama.Timeout <= 0 {
		return fmt.Errorf("ollama.timeout must be positive, got %s", c.Ollama.Timeout)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be between 1 and max_page_size, got %d", c.API.DefaultPageSize)
	}
	if c.Recommend.DefaultLimit < 1 || c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.default_limit must be between 1 and max_limit, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.SimilarityThreshold < 0 || c.Recommend.SimilarityThreshold > 1 {
		return fmt.Errorf("recommend.similarity_threshold must be in [0,1], got %f", c.Recommend.SimilarityThreshold)
	}

	weightSum := c.Recommend.CollaborativeWeight + c.Recommend.ContentWeight + c.Recommend.PopularityWeight
	if weightSum <= 0 {
		return fmt.Errorf("recommend strategy weights must sum to a positive value, got %f", weightSum)
	}

	if c.Trainer.Enabled && c.Trainer.Interval <= 0 {
		return fmt.Errorf("trainer.interval must be positive when trainer is enabled, got %s", c.Trainer.Interval)
	}

	return nil
}
