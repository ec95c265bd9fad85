// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
)

// GetSegmentSummaries aggregates customer counts and average order value
// per customer segment.
func (db *DB) GetSegmentSummaries(ctx context.Context) ([]models.SegmentSummary, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT customer_segment, COUNT(*), AVG(avg_order_value)
		 FROM customers
		 GROUP BY customer_segment
		 ORDER BY COUNT(*) DESC`)
	metrics.RecordDBQuery("SELECT", "customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate segments: %w", err)
	}
	defer closeWithLog(rows, "segments rows")

	var summaries []models.SegmentSummary
	for rows.Next() {
		var s models.SegmentSummary
		if err := rows.Scan(&s.Segment, &s.CustomerCount, &s.AvgOrderValue); err != nil {
			return nil, fmt.Errorf("failed to scan segment summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetCustomersBySegment fetches all customers in one segment.
func (db *DB) GetCustomersBySegment(ctx context.Context, segment string) ([]models.Customer, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM customers WHERE customer_segment = ? ORDER BY customer_id", customerColumns)
	rows, err := db.conn.QueryContext(ctx, query, segment)
	metrics.RecordDBQuery("SELECT", "customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers by segment: %w", err)
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
