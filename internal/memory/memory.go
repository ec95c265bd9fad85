// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package memory gives recommendation components durable key-value memory.
// Reads hit an in-process cache first and fall through to the database;
// writes go through to both, so memory survives restarts while staying
// cheap on the hot path.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/metrics"
)

// ErrNotFound is returned when a key has never been stored.
var ErrNotFound = errors.New("memory key not found")

const cacheType = "agent_memory"

// Memory is a write-through store scoped to one owner name, mirroring how
// each recommendation component keeps its own private memory space.
type Memory struct {
	owner string
	db    *database.DB

	mu    sync.RWMutex
	cache map[string]string
}

// New creates a memory space for the given owner.
func New(owner string, db *database.DB) *Memory {
	return &Memory{
		owner: owner,
		db:    db,
		cache: make(map[string]string),
	}
}

// Warm preloads the cache with the latest stored value of every key owned
// by this memory space.
func (m *Memory) Warm(ctx context.Context) error {
	entries, err := m.db.GetAllAgentMemory(ctx, m.owner)
	if err != nil {
		return err
	}

	m.mu.Lock()
	for _, entry := range entries {
		m.cache[entry.Key] = entry.Value
	}
	m.mu.Unlock()

	logging.Debug().
		Str("owner", m.owner).
		Int("entries", len(entries)).
		Msg("warmed agent memory")

	return nil
}

// Store writes a value under the key in both the cache and the database.
func (m *Memory) Store(ctx context.Context, key, value string) error {
	if err := m.db.StoreAgentMemory(ctx, m.owner, key, value); err != nil {
		return err
	}

	m.mu.Lock()
	m.cache[key] = value
	m.mu.Unlock()

	return nil
}

// Recall returns the value stored under the key, consulting the cache
// first and the database on a miss. Database hits populate the cache.
func (m *Memory) Recall(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	value, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		metrics.CacheHits.WithLabelValues(cacheType).Inc()
		return value, nil
	}
	metrics.CacheMisses.WithLabelValues(cacheType).Inc()

	entry, err := m.db.GetAgentMemory(ctx, m.owner, key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	m.mu.Lock()
	m.cache[key] = entry.Value
	m.mu.Unlock()

	return entry.Value, nil
}
