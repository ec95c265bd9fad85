// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/shopsense/shopsense/internal/catalog"
	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/models"
	"github.com/shopsense/shopsense/internal/shopper"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

func newTestEngine(t *testing.T) (*Engine, *database.DB) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.SeedSampleData(context.Background()); err != nil {
		t.Fatalf("failed to seed sample data: %v", err)
	}

	generator := &stubGenerator{response: "Handpicked for you."}
	analyzer := shopper.NewAnalyzer(db, generator, nil)
	cat := catalog.New(db, generator, nil, nil)

	cfg := &config.RecommendConfig{
		DefaultLimit:        10,
		MaxLimit:            50,
		CacheTTL:            time.Minute,
		CacheMaxEntries:     100,
		SimilarityThreshold: 0.7,
		CollaborativeWeight: 0.4,
		ContentWeight:       0.4,
		PopularityWeight:    0.2,
	}
	return NewEngine(db, analyzer, cat, generator, cfg), db
}

func TestRecommendGeneratesAndPersists(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t)

	result, err := engine.Recommend(ctx, "C1001", 5, "")
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if result.CustomerID != "C1001" {
		t.Errorf("unexpected customer ID %s", result.CustomerID)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if len(result.Recommendations) > 5 {
		t.Errorf("expected at most 5 recommendations, got %d", len(result.Recommendations))
	}
	for i := 1; i < len(result.Recommendations); i++ {
		if result.Recommendations[i].Score > result.Recommendations[i-1].Score {
			t.Error("recommendations not sorted by score descending")
		}
	}
	if result.Explanation != "Handpicked for you." {
		t.Errorf("unexpected explanation %q", result.Explanation)
	}

	// Recommendations are persisted.
	stored, err := db.GetRecommendationsForCustomer(ctx, "C1001", 20)
	if err != nil {
		t.Fatalf("GetRecommendationsForCustomer failed: %v", err)
	}
	if len(stored) != len(result.Recommendations) {
		t.Errorf("expected %d stored recommendations, got %d", len(result.Recommendations), len(stored))
	}
}

func TestRecommendStrategySelection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		customerID string
		want       string
	}{
		// New Visitor
		{"C1003", StrategyPopularity},
		// Frequent Buyer
		{"C1002", StrategyCollaborative},
		// Browsing history longer than purchase history
		{"C1001", StrategyContentBased},
	}

	for _, tt := range tests {
		engine, _ := newTestEngine(t)
		result, err := engine.Recommend(ctx, tt.customerID, 0, "")
		if err != nil {
			t.Fatalf("Recommend(%s) failed: %v", tt.customerID, err)
		}
		if result.Strategy != tt.want {
			t.Errorf("customer %s: expected strategy %s, got %s", tt.customerID, tt.want, result.Strategy)
		}
	}
}

func TestRecommendStoredPreferenceWins(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t)

	if err := db.StoreAgentMemory(ctx, "recommendation", "strategy_preference_C1001", StrategyHybrid); err != nil {
		t.Fatalf("StoreAgentMemory failed: %v", err)
	}

	result, err := engine.Recommend(ctx, "C1001", 0, "")
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Strategy != StrategyHybrid {
		t.Errorf("expected stored preference %s, got %s", StrategyHybrid, result.Strategy)
	}
}

func TestRecommendForcedStrategy(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	result, err := engine.Recommend(ctx, "C1001", 0, StrategyPopularity)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Strategy != StrategyPopularity {
		t.Errorf("expected forced strategy, got %s", result.Strategy)
	}
}

func TestRecommendRejectsUnknownStrategy(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	if _, err := engine.Recommend(ctx, "C1001", 0, "astrology"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestRecommendUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	if _, err := engine.Recommend(ctx, "C9999", 0, ""); err == nil {
		t.Error("expected error for unknown customer")
	}
}

func TestRecommendCaches(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	first, err := engine.Recommend(ctx, "C1001", 5, "")
	if err != nil {
		t.Fatalf("first Recommend failed: %v", err)
	}
	if first.Cached {
		t.Error("first result should not be cached")
	}

	second, err := engine.Recommend(ctx, "C1001", 5, "")
	if err != nil {
		t.Fatalf("second Recommend failed: %v", err)
	}
	if !second.Cached {
		t.Error("second result should come from cache")
	}
	if second.Strategy != first.Strategy {
		t.Errorf("cached strategy %s differs from original %s", second.Strategy, first.Strategy)
	}
	if len(second.Recommendations) != len(first.Recommendations) {
		t.Error("cached recommendations differ from original")
	}
}

func TestRecommendLimitClamped(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	// Above MaxLimit gets capped; the seed catalog is small so just check
	// no error and the default applies for limit 0.
	if _, err := engine.Recommend(ctx, "C1001", 500, ""); err != nil {
		t.Fatalf("Recommend with oversized limit failed: %v", err)
	}

	result, err := engine.Recommend(ctx, "C1002", 0, "")
	if err != nil {
		t.Fatalf("Recommend with zero limit failed: %v", err)
	}
	if len(result.Recommendations) > 10 {
		t.Errorf("expected default limit of 10, got %d", len(result.Recommendations))
	}
}

func TestLearnFromFeedbackPositive(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	if _, err := engine.Recommend(ctx, "C1001", 5, ""); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	result, _ := engine.Recommend(ctx, "C1001", 5, "")
	productID := result.Recommendations[0].ProductID

	response, err := engine.LearnFromFeedback(ctx, "C1001", productID, models.FeedbackPositive)
	if err != nil {
		t.Fatalf("LearnFromFeedback failed: %v", err)
	}
	if !response.Recorded {
		t.Error("expected feedback to be recorded")
	}
	if response.ActionTaken != "maintained_strategy" {
		t.Errorf("positive feedback should keep the strategy, got %s", response.ActionTaken)
	}
}

func TestLearnFromFeedbackNegativeRotatesStrategy(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	// First request selects and stores content_based for C1001.
	first, err := engine.Recommend(ctx, "C1001", 5, "")
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if first.Strategy != StrategyContentBased {
		t.Fatalf("expected content_based, got %s", first.Strategy)
	}

	productID := first.Recommendations[0].ProductID
	response, err := engine.LearnFromFeedback(ctx, "C1001", productID, models.FeedbackNegative)
	if err != nil {
		t.Fatalf("LearnFromFeedback failed: %v", err)
	}

	if response.ActionTaken != "adjusted_strategy" {
		t.Fatalf("expected adjusted_strategy, got %s", response.ActionTaken)
	}
	if response.PreviousStrategy != StrategyContentBased {
		t.Errorf("unexpected previous strategy %s", response.PreviousStrategy)
	}
	if response.NewStrategy != StrategyPopularity {
		t.Errorf("expected rotation to popularity_based, got %s", response.NewStrategy)
	}

	// The next request uses the rotated strategy, not the cache.
	second, err := engine.Recommend(ctx, "C1001", 5, "")
	if err != nil {
		t.Fatalf("Recommend after feedback failed: %v", err)
	}
	if second.Cached {
		t.Error("cache should be invalidated after strategy change")
	}
	if second.Strategy != StrategyPopularity {
		t.Errorf("expected new strategy %s, got %s", StrategyPopularity, second.Strategy)
	}
}

func TestLearnFromFeedbackNoPreference(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	// Negative feedback without a stored preference records but keeps
	// strategy selection untouched.
	response, err := engine.LearnFromFeedback(ctx, "C1001", "P2001", models.FeedbackNegative)
	if err != nil {
		t.Fatalf("LearnFromFeedback failed: %v", err)
	}
	if response.ActionTaken != "maintained_strategy" {
		t.Errorf("expected maintained_strategy, got %s", response.ActionTaken)
	}
}

func TestLearnFromFeedbackRejectsInvalidValue(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	if _, err := engine.LearnFromFeedback(ctx, "C1001", "P2001", 0); err == nil {
		t.Error("expected error for feedback 0")
	}
	if _, err := engine.LearnFromFeedback(ctx, "C1001", "P2001", 5); err == nil {
		t.Error("expected error for feedback 5")
	}
}
