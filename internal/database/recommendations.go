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

// AddRecommendation persists one delivered recommendation.
func (db *DB) AddRecommendation(ctx context.Context, rec *models.Recommendation) error {
	start := time.Now()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO recommendations (customer_id, product_id, score, reason, timestamp, feedback)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.CustomerID, rec.ProductID, rec.Score, rec.Reason, rec.Timestamp, rec.Feedback)
	metrics.RecordDBQuery("INSERT", "recommendations", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to add recommendation: %w", err)
	}

	return nil
}

// AddRecommendations persists a batch of recommendations inside one
// transaction.
func (db *DB) AddRecommendations(ctx context.Context, recs []models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recommendations (customer_id, product_id, score, reason, timestamp, feedback)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	now := time.Now()
	for i := range recs {
		ts := recs[i].Timestamp
		if ts.IsZero() {
			ts = now
		}
		if _, err := stmt.ExecContext(ctx,
			recs[i].CustomerID, recs[i].ProductID, recs[i].Score,
			recs[i].Reason, ts, recs[i].Feedback); err != nil {
			_ = tx.Rollback()
			metrics.RecordDBQuery("INSERT", "recommendations", time.Since(start), err)
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("INSERT", "recommendations", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}

	return nil
}

// GetRecommendationsForCustomer returns the highest scoring persisted
// recommendations for a customer.
func (db *DB) GetRecommendationsForCustomer(ctx context.Context, customerID string, limit int) ([]models.Recommendation, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, customer_id, product_id, score, reason, timestamp, feedback
		 FROM recommendations
		 WHERE customer_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		customerID, limit)
	metrics.RecordDBQuery("SELECT", "recommendations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer closeWithLog(rows, "recommendations rows")

	var recs []models.Recommendation
	for rows.Next() {
		var r models.Recommendation
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.ProductID, &r.Score,
			&r.Reason, &r.Timestamp, &r.Feedback); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}

	return recs, rows.Err()
}

// RecordFeedback stores feedback against the most recent recommendation of
// a product to a customer. Returns the number of rows updated; zero means
// no matching recommendation existed.
func (db *DB) RecordFeedback(ctx context.Context, customerID, productID string, feedback int) (int64, error) {
	start := time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE recommendations SET feedback = ?
		 WHERE id = (
			SELECT id FROM recommendations
			WHERE customer_id = ? AND product_id = ?
			ORDER BY timestamp DESC
			LIMIT 1
		 )`,
		feedback, customerID, productID)
	metrics.RecordDBQuery("UPDATE", "recommendations", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to record feedback: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// FeedbackCounts holds aggregate feedback totals for one customer.
type FeedbackCounts struct {
	Positive int
	Negative int
}

// GetFeedbackCounts aggregates positive and negative feedback for a
// customer across all their recommendations.
func (db *DB) GetFeedbackCounts(ctx context.Context, customerID string) (*FeedbackCounts, error) {
	start := time.Now()

	var counts FeedbackCounts
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE feedback > 0),
			COUNT(*) FILTER (WHERE feedback < 0)
		 FROM recommendations WHERE customer_id = ?`,
		customerID).Scan(&counts.Positive, &counts.Negative)
	metrics.RecordDBQuery("SELECT", "recommendations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}

	return &counts, nil
}
