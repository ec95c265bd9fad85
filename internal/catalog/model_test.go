// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/shopsense/shopsense/internal/models"
)

func TestScoringModelScore(t *testing.T) {
	model := NewScoringModel(nil)

	customer := &models.Customer{
		CustomerID:    "C1",
		Location:      "Chicago",
		Season:        "Winter",
		AvgOrderValue: 100,
	}

	t.Run("full match", func(t *testing.T) {
		product := &models.Product{
			ProductID:      "P1",
			Probability:    0.8,
			Rating:         4.5,
			Season:         "Winter",
			Location:       "Chicago",
			SentimentScore: 0.9,
			Price:          80,
		}
		// 0.8*0.3 + (4.5/5)*0.2 + 0.15 + 0.15 + 0.9*0.1 + 1*0.1
		want := 0.24 + 0.18 + 0.15 + 0.15 + 0.09 + 0.1
		got := model.Score(customer, product)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Score = %f, want %f", got, want)
		}
	})

	t.Run("price above average decays price factor", func(t *testing.T) {
		product := &models.Product{
			ProductID:   "P2",
			Probability: 0.5,
			Price:       200,
		}
		// 0.5*0.3 + 0 + 0 + 0 + 0 + (100/200)*0.1
		want := 0.15 + 0.05
		got := model.Score(customer, product)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Score = %f, want %f", got, want)
		}
	})

	t.Run("zero probability falls back to base score", func(t *testing.T) {
		product := &models.Product{ProductID: "P3", Price: 50}
		// 0.5*0.3 + price factor 1*0.1
		want := 0.15 + 0.1
		got := model.Score(customer, product)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Score = %f, want %f", got, want)
		}
	})
}

func TestScoringModelUpdateWeights(t *testing.T) {
	model := NewScoringModel(nil)

	updated := model.UpdateWeights(Weights{
		WeightRelevance: 0.6,
		"unknown":       5.0,
	})

	var total float64
	for _, v := range updated {
		total += v
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("weights sum to %f after normalization, want 1", total)
	}
	if _, ok := updated["unknown"]; ok {
		t.Error("unknown factor should be ignored")
	}
	if updated[WeightRelevance] <= updated[WeightRating] {
		t.Error("boosted relevance weight should still dominate rating")
	}

	// Relevance was raised relative to the defaults, so its normalized
	// share grows past the original 0.3.
	if updated[WeightRelevance] <= 0.3 {
		t.Errorf("expected relevance share above 0.3, got %f", updated[WeightRelevance])
	}
}

func TestScoringModelPredict(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	customer := &models.Customer{
		CustomerID:    "C1",
		Location:      "Chicago",
		Season:        "Winter",
		AvgOrderValue: 100,
	}
	if err := db.UpsertCustomer(ctx, customer); err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}

	products := []models.Product{
		{ProductID: "P1", Category: "Books", Price: 50, Probability: 0.9, Rating: 4.5, Season: "Winter", Location: "Chicago"},
		{ProductID: "P2", Category: "Books", Price: 50, Probability: 0.2, Rating: 2.0},
		{ProductID: "P3", Category: "Books", Price: 50, Probability: 0.6, Rating: 4.0, Season: "Winter"},
	}
	for i := range products {
		if err := db.UpsertProduct(ctx, &products[i]); err != nil {
			t.Fatalf("failed to seed product: %v", err)
		}
	}

	model := NewScoringModel(db)

	scored, err := model.Predict(ctx, "C1", nil, 2)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 results, got %d", len(scored))
	}
	if scored[0].Product.ProductID != "P1" {
		t.Errorf("expected P1 first, got %s", scored[0].Product.ProductID)
	}
	if scored[0].Score < scored[1].Score {
		t.Error("results not sorted by score descending")
	}

	// Restricting to explicit IDs skips unknown products.
	scored, err = model.Predict(ctx, "C1", []string{"P2", "P9999"}, 10)
	if err != nil {
		t.Fatalf("Predict with IDs failed: %v", err)
	}
	if len(scored) != 1 || scored[0].Product.ProductID != "P2" {
		t.Errorf("expected only P2, got %+v", scored)
	}
}
