// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package recommend

import (
	"math"
	"strings"
	"testing"

	"github.com/shopsense/shopsense/internal/models"
)

func candidateProducts() []models.Product {
	return []models.Product{
		{ProductID: "P1", Category: "Books", Rating: 4.5, RelevanceScore: 0.8},
		{ProductID: "P2", Category: "Fashion", Rating: 5.0, RelevanceScore: 0.6},
		{ProductID: "P3", Category: "Electronics", Rating: 3.0, RelevanceScore: 0.9},
	}
}

func testAnalysis() *models.CustomerAnalysis {
	return &models.CustomerAnalysis{
		CustomerID:      "C1",
		Segment:         "Occasional Shopper",
		BrowsingHistory: []string{"Books", "Fashion"},
		PurchaseHistory: []string{"Books"},
	}
}

func TestNextStrategy(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{StrategyCollaborative, StrategyContentBased},
		{StrategyContentBased, StrategyPopularity},
		{StrategyPopularity, StrategyHybrid},
		{StrategyHybrid, StrategyCollaborative},
		{"garbage", StrategyContentBased},
	}

	for _, tt := range tests {
		if got := NextStrategy(tt.current); got != tt.want {
			t.Errorf("NextStrategy(%s) = %s, want %s", tt.current, got, tt.want)
		}
	}
}

func TestKnownStrategy(t *testing.T) {
	for _, s := range strategyOrder {
		if !KnownStrategy(s) {
			t.Errorf("expected %s to be known", s)
		}
	}
	if KnownStrategy("random_forest") {
		t.Error("expected unknown strategy to be rejected")
	}
}

func TestCollaborativeStrategy(t *testing.T) {
	scored := collaborative(testAnalysis(), candidateProducts(), 10)

	if len(scored) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(scored))
	}
	if scored[0].Product.ProductID != "P3" {
		t.Errorf("expected highest relevance first, got %s", scored[0].Product.ProductID)
	}
	if scored[0].Score != 0.9 {
		t.Errorf("expected score to be the relevance score, got %f", scored[0].Score)
	}
	want := "Recommended based on preferences of similar Occasional Shopper customers"
	if scored[0].Reason != want {
		t.Errorf("unexpected reason %q", scored[0].Reason)
	}
}

func TestContentBasedStrategy(t *testing.T) {
	scored := contentBased(testAnalysis(), candidateProducts(), 10)

	byID := make(map[string]models.ScoredProduct)
	for _, sp := range scored {
		byID[sp.Product.ProductID] = sp
	}

	// Books: 0.8 + 0.1 browsing + 0.15 purchase = 1.05
	if got := byID["P1"].Score; math.Abs(got-1.05) > 1e-9 {
		t.Errorf("P1: expected 1.05, got %f", got)
	}
	// Fashion: 0.6 + 0.1 browsing = 0.7
	if got := byID["P2"].Score; math.Abs(got-0.7) > 1e-9 {
		t.Errorf("P2: expected 0.7, got %f", got)
	}
	// Electronics: no history match, stays 0.9
	if got := byID["P3"].Score; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("P3: expected 0.9, got %f", got)
	}

	if scored[0].Product.ProductID != "P1" {
		t.Errorf("expected P1 ranked first, got %s", scored[0].Product.ProductID)
	}
	if byID["P1"].Reason != "Recommended based on your interest in Books products" {
		t.Errorf("unexpected reason %q", byID["P1"].Reason)
	}
}

func TestPopularityStrategy(t *testing.T) {
	scored := popularity(testAnalysis(), candidateProducts(), 10)

	if scored[0].Product.ProductID != "P2" {
		t.Errorf("expected highest rated first, got %s", scored[0].Product.ProductID)
	}
	if scored[0].Score != 1.0 {
		t.Errorf("expected rating 5.0 to normalize to 1.0, got %f", scored[0].Score)
	}
	if scored[0].Reason != "Popular Fashion product with a rating of 5.0" {
		t.Errorf("unexpected reason %q", scored[0].Reason)
	}
}

func TestPopularityStrategyRespectsLimit(t *testing.T) {
	scored := popularity(testAnalysis(), candidateProducts(), 2)
	if len(scored) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(scored))
	}
}

func TestHybridStrategyBlendsScores(t *testing.T) {
	weights := hybridWeights{Collaborative: 0.4, Content: 0.4, Popularity: 0.2}
	scored := hybrid(testAnalysis(), candidateProducts(), 10, weights)

	byID := make(map[string]models.ScoredProduct)
	for _, sp := range scored {
		byID[sp.Product.ProductID] = sp
	}

	// P1: 0.8*0.4 collaborative + 1.05*0.4 content + 0.9*0.2 popularity = 0.92
	if got := byID["P1"].Score; math.Abs(got-0.92) > 1e-9 {
		t.Errorf("P1: expected 0.92, got %f", got)
	}
	// P3: 0.9*0.4 + 0.9*0.4 + 0.6*0.2 = 0.84
	if got := byID["P3"].Score; math.Abs(got-0.84) > 1e-9 {
		t.Errorf("P3: expected 0.84, got %f", got)
	}

	// Reasons from collaborative and content strategies are joined.
	if !strings.Contains(byID["P1"].Reason, " and Recommended based on your interest in Books products") {
		t.Errorf("expected joined reason, got %q", byID["P1"].Reason)
	}

	if scored[0].Product.ProductID != "P1" {
		t.Errorf("expected P1 ranked first, got %s", scored[0].Product.ProductID)
	}
}

func TestHybridWeightsNormalized(t *testing.T) {
	// Weights 2/2/1 behave the same as 0.4/0.4/0.2.
	a := hybrid(testAnalysis(), candidateProducts(), 10, hybridWeights{Collaborative: 2, Content: 2, Popularity: 1})
	b := hybrid(testAnalysis(), candidateProducts(), 10, hybridWeights{Collaborative: 0.4, Content: 0.4, Popularity: 0.2})

	for i := range a {
		if math.Abs(a[i].Score-b[i].Score) > 1e-9 {
			t.Errorf("position %d: %f vs %f", i, a[i].Score, b[i].Score)
		}
	}
}

func TestHybridWeightsZeroFallsBackToDefaults(t *testing.T) {
	normalized := hybridWeights{}.normalized()
	if normalized.Collaborative != 0.4 || normalized.Content != 0.4 || normalized.Popularity != 0.2 {
		t.Errorf("unexpected defaults %+v", normalized)
	}
}

func TestStrategiesHandleEmptyCandidates(t *testing.T) {
	analysis := testAnalysis()
	for _, name := range strategyOrder {
		var scored []models.ScoredProduct
		switch name {
		case StrategyCollaborative:
			scored = collaborative(analysis, nil, 10)
		case StrategyContentBased:
			scored = contentBased(analysis, nil, 10)
		case StrategyPopularity:
			scored = popularity(analysis, nil, 10)
		case StrategyHybrid:
			scored = hybrid(analysis, nil, 10, hybridWeights{})
		}
		if len(scored) != 0 {
			t.Errorf("%s: expected no recommendations for empty candidates", name)
		}
	}
}
