// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package catalog

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/embedding"
	"github.com/shopsense/shopsense/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
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
	return db
}

type stubGenerator struct {
	response string
	err      error
	vectors  map[string][]float32
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

func (s *stubGenerator) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func baseCustomer() *models.CustomerAnalysis {
	return &models.CustomerAnalysis{
		CustomerID:      "C1",
		Segment:         "Occasional Shopper",
		Location:        "Chicago",
		Season:          "Winter",
		HolidayShopping: false,
		AvgOrderValue:   100,
		Insights:        models.CustomerInsights{PriceSensitivity: "medium"},
	}
}

func TestRelevanceScoreBaseline(t *testing.T) {
	// Neutral product: no location, season, or holiday match, affordable
	// price, middling rating and sentiment.
	product := &models.Product{
		Probability:    0.5,
		Price:          50,
		Rating:         3.0,
		SentimentScore: 0.5,
		Location:       "Miami",
		Season:         "Summer",
		Holiday:        true,
	}

	got := RelevanceScore(product, baseCustomer())
	want := 0.6 // 0.5 base + 0.1 price fit
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestRelevanceScoreBoosts(t *testing.T) {
	customer := baseCustomer()

	product := &models.Product{
		Probability:    0.3,
		Price:          50,
		Rating:         4.5,
		SentimentScore: 0.9,
		Location:       "Chicago",
		Season:         "Winter",
		Holiday:        false,
	}

	// 0.3 + 0.15 location + 0.1 season + 0.1 holiday + 0.1 price + 0.1
	// rating + 0.05 sentiment = 0.9
	got := RelevanceScore(product, customer)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("expected 0.9, got %f", got)
	}
}

func TestRelevanceScorePenalties(t *testing.T) {
	customer := baseCustomer()

	product := &models.Product{
		Probability:    0.5,
		Price:          500, // above avg order value
		Rating:         1.5,
		SentimentScore: 0.1,
		Location:       "Miami",
		Season:         "Summer",
		Holiday:        true,
	}

	// 0.5 - 0.1 price - 0.1 rating - 0.05 sentiment = 0.25
	got := RelevanceScore(product, customer)
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %f", got)
	}
}

func TestRelevanceScorePriceSensitivity(t *testing.T) {
	product := &models.Product{
		Probability:    0.5,
		Price:          120,
		Rating:         3.0,
		SentimentScore: 0.5,
		Location:       "Miami",
		Season:         "Summer",
		Holiday:        true,
	}

	// avg order value 100: a 120 product fits a low-sensitivity budget
	// (factor 1.5) but not a high-sensitivity one (factor 0.7).
	low := baseCustomer()
	low.Insights.PriceSensitivity = "low"
	high := baseCustomer()
	high.Insights.PriceSensitivity = "high"

	if got := RelevanceScore(product, low); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("low sensitivity: expected 0.6, got %f", got)
	}
	if got := RelevanceScore(product, high); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("high sensitivity: expected 0.4, got %f", got)
	}
}

func TestRelevanceScoreClamped(t *testing.T) {
	customer := baseCustomer()

	hot := &models.Product{
		Probability:    0.95,
		Price:          10,
		Rating:         5,
		SentimentScore: 0.95,
		Location:       "Chicago",
		Season:         "Winter",
		Holiday:        false,
	}
	if got := RelevanceScore(hot, customer); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}

	cold := &models.Product{
		Probability:    0.05,
		Price:          5000,
		Rating:         1,
		SentimentScore: 0.05,
		Location:       "Miami",
		Season:         "Summer",
		Holiday:        true,
	}
	if got := RelevanceScore(cold, customer); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}
}

func TestRelevanceScoreZeroProbabilityDefaults(t *testing.T) {
	product := &models.Product{
		Price:          50,
		Rating:         3.0,
		SentimentScore: 0.5,
		Location:       "Miami",
		Season:         "Summer",
		Holiday:        true,
	}

	// Unset probability falls back to 0.5 base.
	if got := RelevanceScore(product, baseCustomer()); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("expected 0.6, got %f", got)
	}
}

func TestFindRelevantProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	generator := &stubGenerator{response: "Picked for your love of reading."}
	cat := New(db, generator, nil, nil)

	customer := baseCustomer()
	selection, err := cat.FindRelevantProducts(ctx, []string{"Books", "Electronics"}, customer)
	if err != nil {
		t.Fatalf("FindRelevantProducts failed: %v", err)
	}

	if selection.TotalCount != 4 {
		t.Errorf("expected 4 products from seed data, got %d", selection.TotalCount)
	}
	for i := 1; i < len(selection.Products); i++ {
		if selection.Products[i].RelevanceScore > selection.Products[i-1].RelevanceScore {
			t.Error("products not sorted by relevance descending")
		}
	}
	if selection.CategoryDistribution["Books"] != 2 {
		t.Errorf("expected 2 Books, got %d", selection.CategoryDistribution["Books"])
	}
	if selection.Explanation != "Picked for your love of reading." {
		t.Errorf("unexpected explanation %q", selection.Explanation)
	}
}

func TestFindRelevantProductsNoCategories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cat := New(db, &stubGenerator{}, nil, nil)

	selection, err := cat.FindRelevantProducts(ctx, nil, baseCustomer())
	if err != nil {
		t.Fatalf("FindRelevantProducts failed: %v", err)
	}
	if selection.TotalCount != 0 || len(selection.Products) != 0 {
		t.Errorf("expected empty selection, got %+v", selection)
	}
}

func TestFindRelevantProductsExplanationFallback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cat := New(db, &stubGenerator{err: errors.New("llm down")}, nil, nil)

	selection, err := cat.FindRelevantProducts(ctx, []string{"Books"}, baseCustomer())
	if err != nil {
		t.Fatalf("FindRelevantProducts failed: %v", err)
	}
	if selection.Explanation != fallbackSelectionExplanation {
		t.Errorf("expected fallback explanation, got %q", selection.Explanation)
	}
}

func TestAnalyzeProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	generator := &stubGenerator{response: `{
  "target_demographics": ["Young adults"],
  "key_selling_points": ["Noise cancellation"],
  "suggested_customer_segments": ["Frequent Buyer"],
  "product_insights": "Strong value in its class."
}`}
	store := embedding.NewStore(db, generator)
	cat := New(db, generator, store, nil)

	analysis, err := cat.AnalyzeProduct(ctx, "P2001")
	if err != nil {
		t.Fatalf("AnalyzeProduct failed: %v", err)
	}

	if analysis.ProductID != "P2001" {
		t.Errorf("unexpected product ID %s", analysis.ProductID)
	}
	if analysis.EmbeddingID != "product_P2001" {
		t.Errorf("expected embedding ID product_P2001, got %s", analysis.EmbeddingID)
	}
	if analysis.Insights.Summary != "Strong value in its class." {
		t.Errorf("expected parsed LLM insights, got %+v", analysis.Insights)
	}
	if analysis.Enrichment != nil {
		t.Errorf("expected no enrichment without an enricher, got %+v", analysis.Enrichment)
	}
}

type stubEnricher struct {
	gotName  string
	gotBrand string
	info     *models.ProductEnrichment
}

func (e *stubEnricher) SearchProductInfo(_ context.Context, productName, brand string) *models.ProductEnrichment {
	e.gotName = productName
	e.gotBrand = brand
	return e.info
}

func TestAnalyzeProductEnrichment(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	enricher := &stubEnricher{info: &models.ProductEnrichment{
		Name:        "Headphones",
		Brand:       "SoundWave",
		Description: "Premium wireless headphones.",
		Scraped:     true,
	}}
	cat := New(db, &stubGenerator{}, nil, enricher)

	analysis, err := cat.AnalyzeProduct(ctx, "P2001")
	if err != nil {
		t.Fatalf("AnalyzeProduct failed: %v", err)
	}

	if enricher.gotName != "Headphones" || enricher.gotBrand != "SoundWave" {
		t.Errorf("enricher called with %q/%q", enricher.gotName, enricher.gotBrand)
	}
	if analysis.Enrichment == nil {
		t.Fatal("expected enrichment in analysis")
	}
	if !analysis.Enrichment.Scraped || analysis.Enrichment.Description != "Premium wireless headphones." {
		t.Errorf("unexpected enrichment %+v", analysis.Enrichment)
	}
}

func TestAnalyzeProductFallbackInsights(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cat := New(db, &stubGenerator{err: errors.New("llm down")}, nil, nil)

	analysis, err := cat.AnalyzeProduct(ctx, "P2001")
	if err != nil {
		t.Fatalf("AnalyzeProduct failed: %v", err)
	}
	if analysis.Insights.Summary != "Basic product in its category." {
		t.Errorf("expected fallback insights, got %+v", analysis.Insights)
	}
}

func TestAnalyzeProductUnknown(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cat := New(db, &stubGenerator{}, nil, nil)

	if _, err := cat.AnalyzeProduct(ctx, "P9999"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindSimilarProductsByEmbedding(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	generator := &stubGenerator{vectors: map[string][]float32{}}
	store := embedding.NewStore(db, generator)
	cat := New(db, generator, store, nil)

	// Store embeddings directly so similarity is controlled.
	vectors := map[string][]float32{
		"P2001": {1, 0, 0},
		"P2002": {0.95, 0.05, 0},
		"P2003": {0, 1, 0},
	}
	for id, vector := range vectors {
		if _, err := store.StoreVector(ctx, models.EntityProduct, id, vector); err != nil {
			t.Fatalf("StoreVector(%s) failed: %v", id, err)
		}
	}

	similar, err := cat.FindSimilarProducts(ctx, "P2001", 5)
	if err != nil {
		t.Fatalf("FindSimilarProducts failed: %v", err)
	}

	if len(similar) != 1 {
		t.Fatalf("expected 1 similar product above threshold, got %d", len(similar))
	}
	if similar[0].ProductID != "P2002" {
		t.Errorf("expected P2002, got %s", similar[0].ProductID)
	}
	if similar[0].Similarity < similarityThreshold {
		t.Errorf("similarity %f below threshold", similar[0].Similarity)
	}
}

func TestCategoryDistribution(t *testing.T) {
	products := []models.Product{
		{Category: "Books"},
		{Category: "Books"},
		{Category: "Electronics"},
		{},
	}

	dist := CategoryDistribution(products)
	if dist["Books"] != 2 || dist["Electronics"] != 1 || dist["Unknown"] != 1 {
		t.Errorf("unexpected distribution %v", dist)
	}
}
