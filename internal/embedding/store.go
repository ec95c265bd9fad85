// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package embedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/logging"
)

// Embedder generates an embedding vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Match is one similarity search result.
type Match struct {
	EntityID   string  `json:"entity_id"`
	Similarity float64 `json:"similarity"`
}

// Store persists embeddings in the database and runs similarity searches
// over them.
type Store struct {
	db       *database.DB
	embedder Embedder
}

// NewStore creates a store backed by the given database and embedder.
func NewStore(db *database.DB, embedder Embedder) *Store {
	return &Store{db: db, embedder: embedder}
}

// StoreText embeds the given text and persists the vector for the entity.
// Returns the embedding ID.
func (s *Store) StoreText(ctx context.Context, entityType, entityID, text string) (string, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to embed %s %s: %w", entityType, entityID, err)
	}
	return s.StoreVector(ctx, entityType, entityID, vector)
}

// StoreVector persists an already computed vector for the entity.
func (s *Store) StoreVector(ctx context.Context, entityType, entityID string, vector []float32) (string, error) {
	id, err := s.db.StoreEmbedding(ctx, entityType, entityID, Encode(vector))
	if err != nil {
		return "", err
	}

	logging.Debug().
		Str("embedding_id", id).
		Str("entity_type", entityType).
		Int("dimensions", len(vector)).
		Msg("stored embedding")

	return id, nil
}

// GetVector fetches a stored vector by embedding ID.
func (s *Store) GetVector(ctx context.Context, embeddingID string) ([]float32, error) {
	stored, err := s.db.GetEmbedding(ctx, embeddingID)
	if err != nil {
		return nil, err
	}
	return Decode(stored.Vector)
}

// SearchSimilar finds up to limit entities of the given type whose stored
// vectors score at or above threshold against the query vector, ordered by
// similarity descending. Stored vectors that fail to decode are skipped.
func (s *Store) SearchSimilar(ctx context.Context, query []float32, entityType string, limit int, threshold float64) ([]Match, error) {
	stored, err := s.db.GetEmbeddingsByType(ctx, entityType)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(stored))
	for _, emb := range stored {
		vector, err := Decode(emb.Vector)
		if err != nil {
			logging.Warn().
				Str("embedding_id", emb.ID).
				Err(err).
				Msg("skipping undecodable embedding")
			continue
		}

		similarity := Cosine(query, vector)
		if similarity >= threshold {
			matches = append(matches, Match{EntityID: emb.EntityID, Similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SearchSimilarText embeds the query text and delegates to SearchSimilar.
func (s *Store) SearchSimilarText(ctx context.Context, text, entityType string, limit int, threshold float64) ([]Match, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed search query: %w", err)
	}
	return s.SearchSimilar(ctx, query, entityType, limit, threshold)
}
