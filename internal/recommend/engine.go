// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopsense/shopsense/internal/catalog"
	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/llm"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/memory"
	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
	"github.com/shopsense/shopsense/internal/shopper"
)

// Generator is the LLM surface the engine needs.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// Engine orchestrates a recommendation request end to end: customer
// analysis, candidate selection, strategy scoring, persistence, and
// explanation.
type Engine struct {
	db        *database.DB
	analyzer  *shopper.Analyzer
	catalog   *catalog.Catalog
	generator Generator
	memory    *memory.Memory
	cache     *resultCache
	cfg       *config.RecommendConfig
}

// NewEngine creates a recommendation engine.
func NewEngine(db *database.DB, analyzer *shopper.Analyzer, cat *catalog.Catalog, generator Generator, cfg *config.RecommendConfig) *Engine {
	return &Engine{
		db:        db,
		analyzer:  analyzer,
		catalog:   cat,
		generator: generator,
		memory:    memory.New("recommendation", db),
		cache:     newResultCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		cfg:       cfg,
	}
}

// Warm preloads the engine's strategy preference memory from the database.
func (e *Engine) Warm(ctx context.Context) error {
	return e.memory.Warm(ctx)
}

// Recommend generates recommendations for a customer. An empty strategy
// lets the engine choose one; limit 0 uses the configured default, larger
// requests are capped at the configured maximum.
func (e *Engine) Recommend(ctx context.Context, customerID string, limit int, strategy string) (*models.RecommendationResult, error) {
	start := time.Now()

	limit = e.clampLimit(limit)
	if strategy != "" && !KnownStrategy(strategy) {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	cacheKey := fmt.Sprintf("%s|%s|%d", customerID, strategy, limit)
	if cached, ok := e.cache.get(cacheKey); ok {
		cached.Cached = true
		return &cached, nil
	}

	analysis, err := e.analyzer.AnalyzeProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if strategy == "" {
		strategy = e.selectStrategy(ctx, analysis)
	}

	selection, err := e.catalog.FindRelevantProducts(ctx, analysis.RelevantCategories, analysis)
	if err != nil {
		return nil, err
	}

	scored := e.runStrategy(strategy, analysis, selection.Products, limit)

	recs := make([]models.Recommendation, 0, len(scored))
	now := time.Now().UTC()
	for _, sp := range scored {
		recs = append(recs, models.Recommendation{
			CustomerID: customerID,
			ProductID:  sp.Product.ProductID,
			Score:      sp.Score,
			Reason:     sp.Reason,
			Timestamp:  now,
		})
	}

	if len(recs) > 0 {
		if err := e.db.AddRecommendations(ctx, recs); err != nil {
			return nil, fmt.Errorf("failed to persist recommendations: %w", err)
		}
	}

	result := models.RecommendationResult{
		CustomerID:      customerID,
		Strategy:        strategy,
		Recommendations: recs,
		Explanation:     e.explain(ctx, analysis, recs, scored, strategy),
	}

	metrics.RecordRecommendation(strategy, len(recs), time.Since(start))
	logging.Ctx(ctx).Info().
		Str("customer_id", customerID).
		Str("strategy", strategy).
		Int("count", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("recommendations generated")

	e.cache.put(cacheKey, result)
	return &result, nil
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// selectStrategy picks a strategy for the customer. A stored preference
// wins; otherwise the segment and history shape decide, and the choice is
// remembered for next time.
func (e *Engine) selectStrategy(ctx context.Context, analysis *models.CustomerAnalysis) string {
	key := "strategy_preference_" + analysis.CustomerID

	if stored, err := e.memory.Recall(ctx, key); err == nil && KnownStrategy(stored) {
		return stored
	}

	var strategy string
	switch {
	case analysis.Segment == "New Visitor":
		strategy = StrategyPopularity
	case analysis.Segment == "Frequent Buyer":
		strategy = StrategyCollaborative
	case len(analysis.BrowsingHistory) > len(analysis.PurchaseHistory):
		strategy = StrategyContentBased
	default:
		strategy = StrategyHybrid
	}

	if err := e.memory.Store(ctx, key, strategy); err != nil {
		logging.Warn().
			Str("customer_id", analysis.CustomerID).
			Err(err).
			Msg("failed to store strategy preference")
	}
	return strategy
}

func (e *Engine) runStrategy(strategy string, analysis *models.CustomerAnalysis, products []models.Product, limit int) []models.ScoredProduct {
	switch strategy {
	case StrategyCollaborative:
		return collaborative(analysis, products, limit)
	case StrategyContentBased:
		return contentBased(analysis, products, limit)
	case StrategyPopularity:
		return popularity(analysis, products, limit)
	default:
		return hybrid(analysis, products, limit, hybridWeights{
			Collaborative: e.cfg.CollaborativeWeight,
			Content:       e.cfg.ContentWeight,
			Popularity:    e.cfg.PopularityWeight,
		})
	}
}

func (e *Engine) explain(ctx context.Context, analysis *models.CustomerAnalysis, recs []models.Recommendation, scored []models.ScoredProduct, strategy string) string {
	productsByID := make(map[string]models.Product, len(scored))
	for _, sp := range scored {
		productsByID[sp.Product.ProductID] = sp.Product
	}

	cust := &models.Customer{
		CustomerID:      analysis.CustomerID,
		Segment:         analysis.Segment,
		BrowsingHistory: analysis.BrowsingHistory,
		PurchaseHistory: analysis.PurchaseHistory,
	}
	prompt := llm.RecommendationExplanationPrompt(cust, recs, productsByID, strategy)

	explanation, err := e.generator.Generate(ctx, prompt, llm.RecommendationExplanationSystemPrompt)
	if err != nil || strings.TrimSpace(explanation) == "" {
		logging.Warn().
			Str("customer_id", analysis.CustomerID).
			Err(err).
			Msg("recommendation explanation fell back to static text")
		metrics.LLMFallbacksTotal.WithLabelValues("explanation").Inc()
		return fmt.Sprintf("These products were selected based on your browsing and purchase history, "+
			"as well as your preferences as a %s. We've highlighted items that we think will be most "+
			"relevant to your interests.", analysis.Segment)
	}
	return strings.TrimSpace(explanation)
}

// LearnFromFeedback records feedback on a recommendation and, on negative
// feedback, rotates the customer's strategy preference so the next request
// tries a different approach.
func (e *Engine) LearnFromFeedback(ctx context.Context, customerID, productID string, feedback int) (*models.FeedbackResponse, error) {
	if feedback != models.FeedbackPositive && feedback != models.FeedbackNegative {
		return nil, fmt.Errorf("feedback must be 1 or -1, got %d", feedback)
	}

	affected, err := e.db.RecordFeedback(ctx, customerID, productID, feedback)
	if err != nil {
		return nil, err
	}
	metrics.RecordFeedback(feedback)

	response := &models.FeedbackResponse{
		CustomerID:  customerID,
		ProductID:   productID,
		Feedback:    feedback,
		Recorded:    affected > 0,
		ActionTaken: "maintained_strategy",
	}

	if feedback == models.FeedbackNegative {
		key := "strategy_preference_" + customerID
		current, err := e.memory.Recall(ctx, key)
		if err != nil {
			if !errors.Is(err, memory.ErrNotFound) {
				return nil, err
			}
			return response, nil
		}

		next := NextStrategy(current)
		if err := e.memory.Store(ctx, key, next); err != nil {
			return nil, fmt.Errorf("failed to store adjusted strategy: %w", err)
		}
		e.cache.invalidate(customerID)

		response.ActionTaken = "adjusted_strategy"
		response.PreviousStrategy = current
		response.NewStrategy = next

		logging.Ctx(ctx).Info().
			Str("customer_id", customerID).
			Str("previous_strategy", current).
			Str("new_strategy", next).
			Msg("strategy adjusted from negative feedback")
	}

	return response, nil
}
