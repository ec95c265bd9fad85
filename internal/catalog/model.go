// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package catalog

import (
	"context"
	"sort"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/models"
)

// Weights are the factor weights of the scoring model, keyed by factor name.
type Weights map[string]float64

// Factor names accepted by ScoringModel.UpdateWeights.
const (
	WeightRelevance = "relevance_score"
	WeightRating    = "product_rating"
	WeightSeason    = "season_match"
	WeightLocation  = "location_match"
	WeightSentiment = "sentiment_score"
	WeightPrice     = "price_factor"
)

// ScoringModel ranks products for a customer with a weighted factor sum.
// Unlike RelevanceScore, which applies fixed boosts on top of a base score,
// the model blends each factor by a tunable weight so the mix can be
// adjusted at runtime.
type ScoringModel struct {
	db      *database.DB
	weights Weights
}

// NewScoringModel creates a model with the default factor weights.
func NewScoringModel(db *database.DB) *ScoringModel {
	return &ScoringModel{
		db: db,
		weights: Weights{
			WeightRelevance: 0.3,
			WeightRating:    0.2,
			WeightSeason:    0.15,
			WeightLocation:  0.15,
			WeightSentiment: 0.1,
			WeightPrice:     0.1,
		},
	}
}

// Weights returns a copy of the current factor weights.
func (m *ScoringModel) Weights() Weights {
	out := make(Weights, len(m.weights))
	for k, v := range m.weights {
		out[k] = v
	}
	return out
}

// UpdateWeights overwrites the given factors and re-normalizes all weights
// to sum to 1. Unknown factor names are ignored. Returns the resulting
// weights.
func (m *ScoringModel) UpdateWeights(updates Weights) Weights {
	for k, v := range updates {
		if _, ok := m.weights[k]; ok {
			m.weights[k] = v
		}
	}

	var total float64
	for _, v := range m.weights {
		total += v
	}
	if total > 0 {
		for k := range m.weights {
			m.weights[k] /= total
		}
	}
	return m.Weights()
}

// Predict scores products for a customer and returns the top results in
// descending score order. A nil productIDs scores the whole catalog;
// unknown IDs are skipped.
func (m *ScoringModel) Predict(ctx context.Context, customerID string, productIDs []string, limit int) ([]models.ScoredProduct, error) {
	customer, err := m.db.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if len(productIDs) > 0 {
		products = make([]models.Product, 0, len(productIDs))
		for _, id := range productIDs {
			p, err := m.db.GetProduct(ctx, id)
			if err != nil {
				continue
			}
			products = append(products, *p)
		}
	} else {
		products, err = m.db.GetAllProducts(ctx)
		if err != nil {
			return nil, err
		}
	}

	scored := make([]models.ScoredProduct, 0, len(products))
	for i := range products {
		scored = append(scored, models.ScoredProduct{
			Product: products[i],
			Score:   m.Score(customer, &products[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Score computes the weighted factor sum for one product, clamped to [0,1].
func (m *ScoringModel) Score(customer *models.Customer, product *models.Product) float64 {
	probability := product.Probability
	if probability == 0 {
		probability = defaultBaseScore
	}
	score := probability * m.weights[WeightRelevance]

	score += (product.Rating / 5.0) * m.weights[WeightRating]

	if product.Season == customer.Season {
		score += m.weights[WeightSeason]
	}
	if product.Location == customer.Location {
		score += m.weights[WeightLocation]
	}

	score += product.SentimentScore * m.weights[WeightSentiment]

	// Price factor is 1 at or below the customer's average order value and
	// decays proportionally above it.
	priceFactor := 1.0
	if product.Price > customer.AvgOrderValue && product.Price > 0 {
		priceFactor = customer.AvgOrderValue / product.Price
	}
	score += priceFactor * m.weights[WeightPrice]

	return clamp(score)
}
