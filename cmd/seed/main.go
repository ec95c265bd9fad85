// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package main seeds the ShopSense database, either with the built-in
// sample catalog or from customer and product CSV exports.
//
// Usage:
//
//	seed                                   # built-in sample data
//	seed -customers data/customers.csv     # import customers from CSV
//	seed -products data/products.csv       # import products from CSV
//
// CSV import clears existing customers and products first; pass
// -clear=false to upsert into the existing rows instead.
package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/importer"
	"github.com/shopsense/shopsense/internal/logging"
)

func main() {
	customersPath := flag.String("customers", "", "path to a customers CSV file")
	productsPath := flag.String("products", "", "path to a products CSV file")
	clear := flag.Bool("clear", true, "clear existing customers and products before CSV import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx := context.Background()

	if *customersPath == "" && *productsPath == "" {
		if err := db.SeedSampleData(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed sample data")
		}
		logging.Info().Msg("Sample data seeded")
		return
	}

	if *clear {
		if err := db.ClearCatalog(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to clear catalog")
		}
	}

	if *customersPath != "" {
		importFile(ctx, db, *customersPath, "customers", importer.ImportCustomers)
	}
	if *productsPath != "" {
		importFile(ctx, db, *productsPath, "products", importer.ImportProducts)
	}
}

func importFile(ctx context.Context, db *database.DB, path, kind string, importFn func(context.Context, *database.DB, io.Reader) (*importer.Result, error)) {
	f, err := os.Open(path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", path).Msg("Failed to open CSV file")
	}
	defer f.Close()

	result, err := importFn(ctx, db, f)
	if err != nil {
		logging.Fatal().Err(err).Str("path", path).Msg("Import failed")
	}
	logging.Info().
		Str("kind", kind).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Import complete")
}
