// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package database

import (
	"context"
	"fmt"
	"time"
)

// createSchema creates all tables, sequences, and indexes. All statements
// are idempotent so schema creation runs on every startup.
func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS recommendations_id_seq`,
		`CREATE SEQUENCE IF NOT EXISTS agent_memory_id_seq`,

		`CREATE TABLE IF NOT EXISTS customers (
			customer_id        VARCHAR PRIMARY KEY,
			age                INTEGER,
			gender             VARCHAR,
			location           VARCHAR,
			browsing_history   VARCHAR,
			purchase_history   VARCHAR,
			customer_segment   VARCHAR,
			avg_order_value    DOUBLE,
			holiday            BOOLEAN,
			season             VARCHAR,
			last_activity_date TIMESTAMP,
			embedding_id       VARCHAR
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			product_id                 VARCHAR PRIMARY KEY,
			category                   VARCHAR,
			subcategory                VARCHAR,
			price                      DOUBLE,
			brand                      VARCHAR,
			avg_rating_similar         DOUBLE,
			product_rating             DOUBLE,
			sentiment_score            DOUBLE,
			holiday                    BOOLEAN,
			season                     VARCHAR,
			geographical_location      VARCHAR,
			similar_products           VARCHAR,
			recommendation_probability DOUBLE,
			embedding_id               VARCHAR
		)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id          BIGINT PRIMARY KEY DEFAULT nextval('recommendations_id_seq'),
			customer_id VARCHAR,
			product_id  VARCHAR,
			score       DOUBLE,
			reason      VARCHAR,
			timestamp   TIMESTAMP,
			feedback    INTEGER DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS agent_memory (
			id           BIGINT PRIMARY KEY DEFAULT nextval('agent_memory_id_seq'),
			agent_type   VARCHAR,
			memory_key   VARCHAR,
			memory_value VARCHAR,
			timestamp    TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS embeddings (
			id          VARCHAR PRIMARY KEY,
			entity_type VARCHAR,
			entity_id   VARCHAR,
			vector      BLOB,
			timestamp   TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_customers_segment ON customers (customer_segment)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_customer ON recommendations (customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_product ON recommendations (product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_memory_lookup ON agent_memory (agent_type, memory_key)`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_entity ON embeddings (entity_type, entity_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
