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

// StoreAgentMemory persists a key/value memory entry for an agent type.
// Entries are append-only; readers take the most recent value for a key.
func (db *DB) StoreAgentMemory(ctx context.Context, agentType, key, value string) error {
	start := time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO agent_memory (agent_type, memory_key, memory_value, timestamp)
		 VALUES (?, ?, ?, ?)`,
		agentType, key, value, time.Now())
	metrics.RecordDBQuery("INSERT", "agent_memory", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to store agent memory: %w", err)
	}

	return nil
}

// GetAgentMemory fetches the most recent value for one memory key.
// Returns ErrNotFound when the key has never been written.
func (db *DB) GetAgentMemory(ctx context.Context, agentType, key string) (*models.AgentMemory, error) {
	start := time.Now()

	var m models.AgentMemory
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, agent_type, memory_key, memory_value, timestamp
		 FROM agent_memory
		 WHERE agent_type = ? AND memory_key = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT 1`,
		agentType, key).Scan(&m.ID, &m.AgentType, &m.Key, &m.Value, &m.Timestamp)
	metrics.RecordDBQuery("SELECT", "agent_memory", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memory %s/%s: %w", agentType, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent memory: %w", err)
	}

	return &m, nil
}

// GetAllAgentMemory fetches the latest value of every memory key for one
// agent type. Used to warm the in-process cache at startup.
func (db *DB) GetAllAgentMemory(ctx context.Context, agentType string) ([]models.AgentMemory, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, agent_type, memory_key, memory_value, timestamp
		 FROM agent_memory m
		 WHERE agent_type = ?
		   AND id = (
			SELECT MAX(id) FROM agent_memory
			WHERE agent_type = m.agent_type AND memory_key = m.memory_key
		   )
		 ORDER BY memory_key`,
		agentType)
	metrics.RecordDBQuery("SELECT", "agent_memory", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent memory: %w", err)
	}
	defer closeWithLog(rows, "agent_memory rows")

	var entries []models.AgentMemory
	for rows.Next() {
		var m models.AgentMemory
		if err := rows.Scan(&m.ID, &m.AgentType, &m.Key, &m.Value, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan agent memory: %w", err)
		}
		entries = append(entries, m)
	}

	return entries, rows.Err()
}
