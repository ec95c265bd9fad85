// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package models defines the shared data structures used across the
// ShopSense service: customer and product records, recommendation results,
// agent analysis payloads, and the standardized API response envelope.
//
// All types in this package are plain data carriers with JSON tags. Database
// access lives in internal/database, scoring logic in internal/catalog and
// internal/recommend.
package models
