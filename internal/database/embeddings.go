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
)

// StoredEmbedding is the raw persisted form of an embedding: the vector is
// the serialized little-endian float32 blob. Decoding to []float32 happens
// in the embedding package.
type StoredEmbedding struct {
	ID         string
	EntityType string
	EntityID   string
	Vector     []byte
	Timestamp  time.Time
}

// StoreEmbedding persists a vector for an entity and updates the owning
// record's embedding_id. The embedding ID is "{entity_type}_{entity_id}".
func (db *DB) StoreEmbedding(ctx context.Context, entityType, entityID string, vector []byte) (string, error) {
	start := time.Now()

	embeddingID := fmt.Sprintf("%s_%s", entityType, entityID)

	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (id, entity_type, entity_id, vector, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		embeddingID, entityType, entityID, vector, time.Now())
	metrics.RecordDBQuery("UPSERT", "embeddings", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to store embedding %s: %w", embeddingID, err)
	}

	switch entityType {
	case "customer":
		err = db.SetCustomerEmbeddingID(ctx, entityID, embeddingID)
	case "product":
		err = db.SetProductEmbeddingID(ctx, entityID, embeddingID)
	}
	if err != nil {
		return "", err
	}

	return embeddingID, nil
}

// GetEmbedding fetches a stored embedding by ID. Returns ErrNotFound if
// the embedding does not exist.
func (db *DB) GetEmbedding(ctx context.Context, embeddingID string) (*StoredEmbedding, error) {
	start := time.Now()

	var e StoredEmbedding
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, entity_type, entity_id, vector, timestamp
		 FROM embeddings WHERE id = ?`,
		embeddingID).Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Vector, &e.Timestamp)
	metrics.RecordDBQuery("SELECT", "embeddings", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("embedding %s: %w", embeddingID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding %s: %w", embeddingID, err)
	}

	return &e, nil
}

// GetEmbeddingsByType fetches all stored embeddings of one entity type.
// Used by similarity search, which scans vectors linearly.
func (db *DB) GetEmbeddingsByType(ctx context.Context, entityType string) ([]StoredEmbedding, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, vector, timestamp
		 FROM embeddings WHERE entity_type = ?
		 ORDER BY entity_id`,
		entityType)
	metrics.RecordDBQuery("SELECT", "embeddings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer closeWithLog(rows, "embeddings rows")

	var embeddings []StoredEmbedding
	for rows.Next() {
		var e StoredEmbedding
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Vector, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		embeddings = append(embeddings, e)
	}

	return embeddings, rows.Err()
}
