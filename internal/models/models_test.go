// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package models

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestProductRelevanceScoreOmittedWhenZero(t *testing.T) {
	p := Product{ProductID: "P2001", Category: "Electronics", Price: 99.99}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(data), "relevance_score") {
		t.Error("relevance_score should be omitted for unscored products")
	}

	p.RelevanceScore = 0.85
	data, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "relevance_score") {
		t.Error("relevance_score should be present for scored products")
	}
}

func TestCustomerJSONFieldNames(t *testing.T) {
	c := Customer{
		CustomerID:      "C1001",
		Age:             28,
		Segment:         "Occasional Shopper",
		BrowsingHistory: []string{"Books"},
		AvgOrderValue:   80.5,
		Season:          "Winter",
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{"customer_id", "customer_segment", "browsing_history", "avg_order_value"} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected JSON field %q in %s", field, data)
		}
	}
}

func TestAPIResponseErrorOmittedOnSuccess(t *testing.T) {
	resp := APIResponse{
		Status:   "success",
		Data:     map[string]int{"count": 3},
		Metadata: Metadata{Timestamp: time.Now()},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(data), `"error"`) {
		t.Error("error field should be omitted on success responses")
	}
}

func TestFeedbackConstants(t *testing.T) {
	if FeedbackNegative != -1 || FeedbackNone != 0 || FeedbackPositive != 1 {
		t.Errorf("unexpected feedback constants: %d %d %d",
			FeedbackNegative, FeedbackNone, FeedbackPositive)
	}
}

func TestCustomerInsightsRoundTrip(t *testing.T) {
	raw := `{
		"primary_interests": ["Electronics", "Books"],
		"secondary_interests": ["Fashion"],
		"price_sensitivity": "high",
		"likely_next_purchase": ["Headphones"],
		"personalization_notes": "Tech-focused shopper."
	}`

	var insights CustomerInsights
	if err := json.Unmarshal([]byte(raw), &insights); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(insights.PrimaryInterests) != 2 {
		t.Errorf("expected 2 primary interests, got %v", insights.PrimaryInterests)
	}
	if insights.PriceSensitivity != "high" {
		t.Errorf("expected high price sensitivity, got %q", insights.PriceSensitivity)
	}
}
