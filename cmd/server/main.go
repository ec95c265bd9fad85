// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package main is the entry point for the ShopSense server.
//
// ShopSense generates personalized shopping recommendations by combining
// customer profile analysis, product catalog scoring, and adaptive
// recommendation strategies, with an Ollama-hosted LLM for insight and
// explanation generation.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered config (defaults, YAML, env vars)
//  2. Database: DuckDB with the shopping schema
//  3. LLM client: Ollama with rate limiting and a circuit breaker
//  4. Domain services: analyzer, catalog, recommendation engine
//  5. Supervisor tree: embedding trainer and HTTP server under suture
//
// Shutdown on SIGINT/SIGTERM is graceful: the supervisor drains the HTTP
// server and stops the trainer before the database closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsense/shopsense/internal/api"
	"github.com/shopsense/shopsense/internal/catalog"
	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/embedding"
	"github.com/shopsense/shopsense/internal/enrich"
	"github.com/shopsense/shopsense/internal/llm"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/recommend"
	"github.com/shopsense/shopsense/internal/shopper"
	"github.com/shopsense/shopsense/internal/supervisor"
	"github.com/shopsense/shopsense/internal/supervisor/services"
	"github.com/shopsense/shopsense/internal/trainer"
)

func main() {
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
		Str("ollama_url", cfg.Ollama.BaseURL).
		Str("ollama_model", cfg.Ollama.Model).
		Msg("Starting ShopSense")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	llmClient := llm.NewClient(&cfg.Ollama)
	embeddings := embedding.NewStore(db, llmClient)

	var enricher catalog.Enricher
	if cfg.Enrich.Enabled {
		enricher = enrich.NewScraper(&cfg.Enrich)
	}

	analyzer := shopper.NewAnalyzer(db, llmClient, embeddings)
	cat := catalog.New(db, llmClient, embeddings, enricher)
	segments := shopper.NewSegmentation(db)
	engine := recommend.NewEngine(db, analyzer, cat, llmClient, &cfg.Recommend)

	if err := engine.Warm(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to warm strategy memory")
	}

	handler := api.NewHandler(db, engine, analyzer, cat, segments, &cfg.API)
	router := api.NewRouter(handler, &cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slogger := slog.New(logging.NewSlogHandler())
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Trainer.Enabled {
		tr := trainer.New(db, embeddings, &cfg.Trainer)
		tree.AddWorkerService(services.NewTrainerService(tr, cfg.Trainer.Interval))
		logging.Info().
			Dur("interval", cfg.Trainer.Interval).
			Int("batch_size", cfg.Trainer.BatchSize).
			Msg("Embedding trainer enabled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("ShopSense stopped")
}
