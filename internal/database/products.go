// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
)

const productColumns = `product_id, category, subcategory, price, brand,
	avg_rating_similar, product_rating, sentiment_score, holiday, season,
	geographical_location, similar_products, recommendation_probability,
	embedding_id`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var (
		p           models.Product
		similar     sql.NullString
		embeddingID sql.NullString
	)

	err := row.Scan(
		&p.ProductID, &p.Category, &p.Subcategory, &p.Price, &p.Brand,
		&p.AvgRatingSimilar, &p.Rating, &p.SentimentScore, &p.Holiday,
		&p.Season, &p.Location, &similar, &p.Probability, &embeddingID,
	)
	if err != nil {
		return nil, err
	}

	p.SimilarProducts = unmarshalList(similar.String)
	p.EmbeddingID = embeddingID.String

	return &p, nil
}

// GetProduct fetches a single product by ID. Returns ErrNotFound if no
// such product exists.
func (db *DB) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM products WHERE product_id = ?", productColumns)
	row := db.conn.QueryRowContext(ctx, query, productID)

	product, err := scanProduct(row)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	return product, nil
}

// GetProductsByCategory fetches all products in one category.
func (db *DB) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM products WHERE category = ? ORDER BY product_id", productColumns)
	rows, err := db.conn.QueryContext(ctx, query, category)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	return collectProducts(rows)
}

// GetProductsBySubcategory fetches up to limit products in one subcategory.
func (db *DB) GetProductsBySubcategory(ctx context.Context, subcategory string, limit int) ([]models.Product, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM products WHERE subcategory = ? ORDER BY product_id LIMIT ?", productColumns)
	rows, err := db.conn.QueryContext(ctx, query, subcategory, limit)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by subcategory: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	return collectProducts(rows)
}

// ListProducts returns a page of products, optionally filtered by category,
// together with the total count matching the filter.
func (db *DB) ListProducts(ctx context.Context, category string, limit, offset int) ([]models.Product, int, error) {
	start := time.Now()

	var (
		rows  *sql.Rows
		total int
		err   error
	)

	if category != "" {
		err = db.conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM products WHERE category = ?", category).Scan(&total)
	} else {
		err = db.conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM products").Scan(&total)
	}
	if err != nil {
		metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if category != "" {
		query := fmt.Sprintf("SELECT %s FROM products WHERE category = ? ORDER BY product_id LIMIT ? OFFSET ?", productColumns)
		rows, err = db.conn.QueryContext(ctx, query, category, limit, offset)
	} else {
		query := fmt.Sprintf("SELECT %s FROM products ORDER BY product_id LIMIT ? OFFSET ?", productColumns)
		rows, err = db.conn.QueryContext(ctx, query, limit, offset)
	}
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetAllProducts fetches the entire catalog. Used by similarity search and
// the background trainer; catalog sizes stay small enough for this to be
// cheap.
func (db *DB) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM products ORDER BY product_id", productColumns)
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	return collectProducts(rows)
}

// UpsertProduct inserts or replaces a product record.
func (db *DB) UpsertProduct(ctx context.Context, p *models.Product) error {
	start := time.Now()

	query := `INSERT OR REPLACE INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		p.ProductID, p.Category, p.Subcategory, p.Price, p.Brand,
		p.AvgRatingSimilar, p.Rating, p.SentimentScore, p.Holiday,
		p.Season, p.Location, marshalList(p.SimilarProducts),
		p.Probability, nullIfEmpty(p.EmbeddingID),
	)
	metrics.RecordDBQuery("UPSERT", "products", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ProductID, err)
	}

	return nil
}

// SetProductEmbeddingID records the embedding reference on a product.
func (db *DB) SetProductEmbeddingID(ctx context.Context, productID, embeddingID string) error {
	start := time.Now()

	_, err := db.conn.ExecContext(ctx,
		"UPDATE products SET embedding_id = ? WHERE product_id = ?",
		embeddingID, productID)
	metrics.RecordDBQuery("UPDATE", "products", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to set product embedding: %w", err)
	}

	return nil
}

// GetProductsWithoutEmbedding returns up to limit products that have no
// stored embedding yet. Used by the background trainer.
func (db *DB) GetProductsWithoutEmbedding(ctx context.Context, limit int) ([]models.Product, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE embedding_id IS NULL OR embedding_id = ''
		ORDER BY product_id LIMIT ?`, productColumns)
	rows, err := db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products without embedding: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
