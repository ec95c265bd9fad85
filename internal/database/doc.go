// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package database provides the DuckDB-backed persistence layer for
// ShopSense. It owns the schema (customers, products, recommendations,
// agent_memory, embeddings) and exposes typed CRUD methods used by the
// agents and the HTTP API.
//
// History fields (browsing, purchases, similar products) are stored as JSON
// strings. Embedding vectors are stored as BLOBs of little-endian float32
// values.
package database
