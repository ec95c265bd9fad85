// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package catalog provides product intelligence: relevance scoring against
// a customer profile, product analysis with LLM insights, and similarity
// search over product embeddings.
package catalog

import (
	"github.com/shopsense/shopsense/internal/models"
)

// Price range factors by price sensitivity. A less price-sensitive
// customer tolerates products priced above their average order value.
var priceFactors = map[string]float64{
	"low":    1.5,
	"medium": 1.0,
	"high":   0.7,
}

// Score adjustments applied on top of a product's base recommendation
// probability.
const (
	defaultBaseScore = 0.5

	locationBoost = 0.15
	seasonBoost   = 0.1
	holidayBoost  = 0.1

	priceAdjustment = 0.1

	ratingAdjustment  = 0.1
	highRatingCutoff  = 4.0
	lowRatingCutoff   = 2.0
	sentimentAdjust   = 0.05
	highSentimentMark = 0.7
	lowSentimentMark  = 0.3
)

// RelevanceScore scores a product against a customer analysis, clamped to
// [0, 1]. The base score is the product's recommendation probability with
// boosts for matching location, season, and holiday context, and
// adjustments for price fit, rating, and review sentiment.
func RelevanceScore(product *models.Product, customer *models.CustomerAnalysis) float64 {
	score := product.Probability
	if score == 0 {
		score = defaultBaseScore
	}

	if product.Location == customer.Location {
		score += locationBoost
	}
	if product.Season == customer.Season {
		score += seasonBoost
	}
	if product.Holiday == customer.HolidayShopping {
		score += holidayBoost
	}

	factor, ok := priceFactors[customer.Insights.PriceSensitivity]
	if !ok {
		factor = priceFactors["medium"]
	}
	if product.Price <= customer.AvgOrderValue*factor {
		score += priceAdjustment
	} else {
		score -= priceAdjustment
	}

	if product.Rating >= highRatingCutoff {
		score += ratingAdjustment
	} else if product.Rating <= lowRatingCutoff {
		score -= ratingAdjustment
	}

	if product.SentimentScore >= highSentimentMark {
		score += sentimentAdjust
	} else if product.SentimentScore <= lowSentimentMark {
		score -= sentimentAdjust
	}

	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
