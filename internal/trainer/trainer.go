// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package trainer builds embeddings in the background for customers and
// products that do not have one yet. New records arrive through the REST
// API and the CSV importer without a vector; the trainer backfills them in
// batches so similarity search stays warm without blocking request paths.
package trainer

import (
	"context"
	"time"

	"github.com/shopsense/shopsense/internal/catalog"
	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/embedding"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
	"github.com/shopsense/shopsense/internal/shopper"
)

const defaultBatchSize = 50

// Stats summarizes a single trainer run.
type Stats struct {
	CustomersEmbedded int
	ProductsEmbedded  int
	Failures          int
}

// Total returns the number of embeddings built during the run.
func (s Stats) Total() int {
	return s.CustomersEmbedded + s.ProductsEmbedded
}

// Trainer backfills missing embeddings in fixed-size batches.
type Trainer struct {
	db         *database.DB
	embeddings *embedding.Store
	batchSize  int
}

// New creates a trainer reading batch sizing from cfg.
func New(db *database.DB, embeddings *embedding.Store, cfg *config.TrainerConfig) *Trainer {
	batch := defaultBatchSize
	if cfg != nil && cfg.BatchSize > 0 {
		batch = cfg.BatchSize
	}
	return &Trainer{
		db:         db,
		embeddings: embeddings,
		batchSize:  batch,
	}
}

// RunOnce embeds one batch of customers and one batch of products that
// have no embedding yet. Individual embedding failures are logged and
// counted but do not abort the batch; only listing errors do.
func (t *Trainer) RunOnce(ctx context.Context) (Stats, error) {
	start := time.Now()

	stats, err := t.run(ctx)
	metrics.RecordTrainerRun(time.Since(start), stats.Total(), err)
	if err != nil {
		return stats, err
	}

	if stats.Total() > 0 || stats.Failures > 0 {
		logging.Ctx(ctx).Info().
			Int("customers_embedded", stats.CustomersEmbedded).
			Int("products_embedded", stats.ProductsEmbedded).
			Int("failures", stats.Failures).
			Dur("duration", time.Since(start)).
			Msg("trainer run complete")
	}
	return stats, nil
}

func (t *Trainer) run(ctx context.Context) (Stats, error) {
	var stats Stats

	customers, err := t.db.GetCustomersWithoutEmbedding(ctx, t.batchSize)
	if err != nil {
		return stats, err
	}
	for i := range customers {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		c := &customers[i]
		if _, err := t.embeddings.StoreText(ctx, models.EntityCustomer, c.CustomerID, shopper.ProfileText(c)); err != nil {
			stats.Failures++
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("customer_id", c.CustomerID).
				Msg("failed to build customer embedding")
			continue
		}
		stats.CustomersEmbedded++
	}

	products, err := t.db.GetProductsWithoutEmbedding(ctx, t.batchSize)
	if err != nil {
		return stats, err
	}
	for i := range products {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		p := &products[i]
		if _, err := t.embeddings.StoreText(ctx, models.EntityProduct, p.ProductID, catalog.ProductText(p)); err != nil {
			stats.Failures++
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("product_id", p.ProductID).
				Msg("failed to build product embedding")
			continue
		}
		stats.ProductsEmbedded++
	}

	return stats, nil
}
