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

const customerColumns = `customer_id, age, gender, location, browsing_history,
	purchase_history, customer_segment, avg_order_value, holiday, season,
	last_activity_date, embedding_id`

// scanCustomer scans one customer row. History columns are decoded from
// their stored JSON text.
func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var (
		c            models.Customer
		browsing     sql.NullString
		purchases    sql.NullString
		lastActivity sql.NullTime
		embeddingID  sql.NullString
	)

	err := row.Scan(
		&c.CustomerID, &c.Age, &c.Gender, &c.Location,
		&browsing, &purchases, &c.Segment, &c.AvgOrderValue,
		&c.Holiday, &c.Season, &lastActivity, &embeddingID,
	)
	if err != nil {
		return nil, err
	}

	c.BrowsingHistory = unmarshalList(browsing.String)
	c.PurchaseHistory = unmarshalList(purchases.String)
	if lastActivity.Valid {
		c.LastActivity = lastActivity.Time
	}
	c.EmbeddingID = embeddingID.String

	return &c, nil
}

// GetCustomer fetches a single customer by ID. Returns ErrNotFound if no
// such customer exists.
func (db *DB) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM customers WHERE customer_id = ?", customerColumns)
	row := db.conn.QueryRowContext(ctx, query, customerID)

	customer, err := scanCustomer(row)
	metrics.RecordDBQuery("SELECT", "customers", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}

	return customer, nil
}

// GetAllCustomers fetches every customer. Used by segmentation and the
// background trainer.
func (db *DB) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM customers ORDER BY customer_id", customerColumns)
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer closeWithLog(rows, "customers rows")

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	return customers, rows.Err()
}

// UpsertCustomer inserts or replaces a customer record.
func (db *DB) UpsertCustomer(ctx context.Context, c *models.Customer) error {
	start := time.Now()

	query := `INSERT OR REPLACE INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var lastActivity interface{}
	if !c.LastActivity.IsZero() {
		lastActivity = c.LastActivity
	}

	_, err := db.conn.ExecContext(ctx, query,
		c.CustomerID, c.Age, c.Gender, c.Location,
		marshalList(c.BrowsingHistory), marshalList(c.PurchaseHistory),
		c.Segment, c.AvgOrderValue, c.Holiday, c.Season,
		lastActivity, nullIfEmpty(c.EmbeddingID),
	)
	metrics.RecordDBQuery("UPSERT", "customers", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert customer %s: %w", c.CustomerID, err)
	}

	return nil
}

// UpdateCustomer applies a partial update to an existing customer and
// stamps last_activity_date. Returns ErrNotFound if the customer does not
// exist.
func (db *DB) UpdateCustomer(ctx context.Context, customerID string, update *models.CustomerUpdateRequest) (*models.Customer, error) {
	customer, err := db.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if update.Age != nil {
		customer.Age = *update.Age
	}
	if update.Gender != nil {
		customer.Gender = *update.Gender
	}
	if update.Location != nil {
		customer.Location = *update.Location
	}
	if update.BrowsingHistory != nil {
		customer.BrowsingHistory = update.BrowsingHistory
	}
	if update.PurchaseHistory != nil {
		customer.PurchaseHistory = update.PurchaseHistory
	}
	if update.Segment != nil {
		customer.Segment = *update.Segment
	}
	if update.AvgOrderValue != nil {
		customer.AvgOrderValue = *update.AvgOrderValue
	}
	if update.Holiday != nil {
		customer.Holiday = *update.Holiday
	}
	if update.Season != nil {
		customer.Season = *update.Season
	}
	customer.LastActivity = time.Now()

	if err := db.UpsertCustomer(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// SetCustomerEmbeddingID records the embedding reference on a customer.
func (db *DB) SetCustomerEmbeddingID(ctx context.Context, customerID, embeddingID string) error {
	start := time.Now()

	_, err := db.conn.ExecContext(ctx,
		"UPDATE customers SET embedding_id = ? WHERE customer_id = ?",
		embeddingID, customerID)
	metrics.RecordDBQuery("UPDATE", "customers", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to set customer embedding: %w", err)
	}

	return nil
}

// GetCustomersWithoutEmbedding returns up to limit customers that have no
// stored embedding yet. Used by the background trainer.
func (db *DB) GetCustomersWithoutEmbedding(ctx context.Context, limit int) ([]models.Customer, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM customers
		WHERE embedding_id IS NULL OR embedding_id = ''
		ORDER BY customer_id LIMIT ?`, customerColumns)
	rows, err := db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("SELECT", "customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers without embedding: %w", err)
	}
	defer closeWithLog(rows, "customers rows")

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	return customers, rows.Err()
}

// nullIfEmpty maps an empty string to SQL NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
