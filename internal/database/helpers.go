// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package database

import (
	json "github.com/goccy/go-json"
)

// marshalList serializes a string slice to its JSON text representation for
// storage. A nil slice is stored as an empty JSON array.
func marshalList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalList parses a stored JSON array back into a string slice.
// Empty or malformed values decode to an empty slice rather than failing
// the read.
func unmarshalList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	return list
}
