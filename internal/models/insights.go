// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package models

// CustomerInsights holds the structured output of an LLM customer profile
// analysis. When the LLM is unavailable or returns malformed JSON, a
// deterministic fallback derived from browsing history is used instead.
//
// PriceSensitivity is one of "low", "medium", or "high" and feeds the
// price adjustment during catalog relevance scoring.
type CustomerInsights struct {
	PrimaryInterests     []string `json:"primary_interests"`
	SecondaryInterests   []string `json:"secondary_interests"`
	PriceSensitivity     string   `json:"price_sensitivity"`
	LikelyNextPurchase   []string `json:"likely_next_purchase"`
	PersonalizationNotes string   `json:"personalization_notes"`
}

// CustomerAnalysis is the full result of analyzing a customer profile:
// demographics, history, derived categories, and LLM insights.
type CustomerAnalysis struct {
	CustomerID         string           `json:"customer_id"`
	Segment            string           `json:"customer_segment"`
	AgeGroup           string           `json:"age_group"`
	BrowsingHistory    []string         `json:"browsing_history"`
	PurchaseHistory    []string         `json:"purchase_history"`
	RelevantCategories []string         `json:"relevant_categories"`
	Insights           CustomerInsights `json:"insights"`
	EmbeddingID        string           `json:"embedding_id,omitempty"`
	Location           string           `json:"location"`
	Season             string           `json:"season"`
	HolidayShopping    bool             `json:"holiday_shopping"`
	AvgOrderValue      float64          `json:"avg_order_value"`
}

// ProductInsights holds the structured output of an LLM product analysis,
// with a deterministic fallback used on LLM failure.
type ProductInsights struct {
	TargetDemographics []string `json:"target_demographics"`
	KeySellingPoints   []string `json:"key_selling_points"`
	SuggestedSegments  []string `json:"suggested_customer_segments"`
	Summary            string   `json:"product_insights"`
}

// ProductAnalysis is the full result of analyzing a catalog product:
// the product record, LLM insights, and its nearest catalog neighbors.
type ProductAnalysis struct {
	ProductID       string             `json:"product_id"`
	Product         Product            `json:"product_details"`
	Insights        ProductInsights    `json:"insights"`
	EmbeddingID     string             `json:"embedding_id,omitempty"`
	SimilarProducts []SimilarProduct   `json:"similar_products"`
	Enrichment      *ProductEnrichment `json:"enrichment,omitempty"`
}

// ProductEnrichment is supplementary product data fetched from an
// external page. Scraped reports whether the data came from a live page
// or the deterministic fallback.
type ProductEnrichment struct {
	Name           string   `json:"name"`
	Brand          string   `json:"brand,omitempty"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
	AverageRating  float64  `json:"average_rating"`
	ReviewCount    int      `json:"review_count"`
	AdditionalInfo string   `json:"additional_info"`
	Scraped        bool     `json:"scraped"`
}

// SimilarProduct is one entry in a product similarity result, combining
// catalog attributes with the computed similarity score (0 to 1).
type SimilarProduct struct {
	ProductID   string  `json:"product_id"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"product_rating"`
	Similarity  float64 `json:"similarity"`
}

// ProductSelection is the result of finding relevant products for a
// customer: scored products, a natural-language explanation, and the
// category breakdown of the selection.
type ProductSelection struct {
	Products             []Product      `json:"products"`
	Explanation          string         `json:"explanation"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	TotalCount           int            `json:"total_count"`
}

// RecommendationResult is the payload of a recommendation request:
// the ranked recommendations, the strategy that produced them, and a
// natural-language explanation.
type RecommendationResult struct {
	CustomerID      string           `json:"customer_id"`
	Strategy        string           `json:"strategy"`
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation"`
	Cached          bool             `json:"cached,omitempty"`
}
