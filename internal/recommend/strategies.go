// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package recommend implements the multi-strategy recommendation engine.
// Four strategies score candidate products that have already been relevance
// scored against the customer profile; the engine picks a strategy per
// customer, persists results, and adjusts strategy choice from feedback.
package recommend

import (
	"fmt"
	"sort"

	"github.com/shopsense/shopsense/internal/models"
)

// Strategy names. Order matters: negative feedback rotates a customer to
// the next strategy in this sequence.
const (
	StrategyCollaborative = "collaborative_filtering"
	StrategyContentBased  = "content_based"
	StrategyPopularity    = "popularity_based"
	StrategyHybrid        = "hybrid"
)

var strategyOrder = []string{
	StrategyCollaborative,
	StrategyContentBased,
	StrategyPopularity,
	StrategyHybrid,
}

// KnownStrategy reports whether name is a valid strategy.
func KnownStrategy(name string) bool {
	for _, s := range strategyOrder {
		if s == name {
			return true
		}
	}
	return false
}

// NextStrategy returns the strategy following current in rotation order.
// Unknown strategies rotate from the start of the sequence.
func NextStrategy(current string) string {
	index := 0
	for i, s := range strategyOrder {
		if s == current {
			index = i
			break
		}
	}
	return strategyOrder[(index+1)%len(strategyOrder)]
}

// Content-based boosts applied on top of the relevance score.
const (
	browsingCategoryBoost = 0.1
	purchaseCategoryBoost = 0.15
)

// collaborative ranks products by their relevance score, standing in for
// the preferences of customers in the same segment.
func collaborative(customer *models.CustomerAnalysis, products []models.Product, limit int) []models.ScoredProduct {
	scored := make([]models.ScoredProduct, 0, len(products))
	for _, product := range products {
		scored = append(scored, models.ScoredProduct{
			Product: product,
			Score:   product.RelevanceScore,
			Reason:  fmt.Sprintf("Recommended based on preferences of similar %s customers", customer.Segment),
		})
	}
	return topN(scored, limit)
}

// contentBased boosts products whose category appears in the customer's
// browsing or purchase history.
func contentBased(customer *models.CustomerAnalysis, products []models.Product, limit int) []models.ScoredProduct {
	browsing := toSet(customer.BrowsingHistory)
	purchases := toSet(customer.PurchaseHistory)

	scored := make([]models.ScoredProduct, 0, len(products))
	for _, product := range products {
		score := product.RelevanceScore
		if _, ok := browsing[product.Category]; ok {
			score += browsingCategoryBoost
		}
		if _, ok := purchases[product.Category]; ok {
			score += purchaseCategoryBoost
		}
		scored = append(scored, models.ScoredProduct{
			Product: product,
			Score:   score,
			Reason:  fmt.Sprintf("Recommended based on your interest in %s products", product.Category),
		})
	}
	return topN(scored, limit)
}

// popularity ranks products by rating, normalized to a 0-1 score.
func popularity(_ *models.CustomerAnalysis, products []models.Product, limit int) []models.ScoredProduct {
	scored := make([]models.ScoredProduct, 0, len(products))
	for _, product := range products {
		scored = append(scored, models.ScoredProduct{
			Product: product,
			Score:   product.Rating / 5.0,
			Reason:  fmt.Sprintf("Popular %s product with a rating of %.1f", product.Category, product.Rating),
		})
	}
	return topN(scored, limit)
}

// hybridWeights blends the per-strategy scores in the hybrid strategy.
// Weights are normalized so only their ratio matters.
type hybridWeights struct {
	Collaborative float64
	Content       float64
	Popularity    float64
}

func (w hybridWeights) normalized() hybridWeights {
	total := w.Collaborative + w.Content + w.Popularity
	if total <= 0 {
		return hybridWeights{Collaborative: 0.4, Content: 0.4, Popularity: 0.2}
	}
	return hybridWeights{
		Collaborative: w.Collaborative / total,
		Content:       w.Content / total,
		Popularity:    w.Popularity / total,
	}
}

// hybrid blends all three strategies. Products ranked by more than one
// strategy accumulate weighted scores; reasons from the collaborative and
// content strategies are joined.
func hybrid(customer *models.CustomerAnalysis, products []models.Product, limit int, weights hybridWeights) []models.ScoredProduct {
	weights = weights.normalized()

	combined := make(map[string]*models.ScoredProduct)
	var order []string

	merge := func(recs []models.ScoredProduct, weight float64, joinReason bool) {
		for _, rec := range recs {
			id := rec.Product.ProductID
			if existing, ok := combined[id]; ok {
				existing.Score += rec.Score * weight
				if joinReason {
					existing.Reason += " and " + rec.Reason
				}
				continue
			}
			entry := rec
			entry.Score = rec.Score * weight
			combined[id] = &entry
			order = append(order, id)
		}
	}

	merge(collaborative(customer, products, limit), weights.Collaborative, false)
	merge(contentBased(customer, products, limit), weights.Content, true)
	merge(popularity(customer, products, limit), weights.Popularity, false)

	scored := make([]models.ScoredProduct, 0, len(combined))
	for _, id := range order {
		scored = append(scored, *combined[id])
	}
	return topN(scored, limit)
}

// topN sorts by score descending and cuts to limit. The sort is stable so
// equal scores keep their candidate order.
func topN(scored []models.ScoredProduct, limit int) []models.ScoredProduct {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
