// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package models

import (
	"time"
)

// Customer represents a shopper profile with demographic attributes,
// activity history, and shopping context.
//
// Fields:
//   - CustomerID: Unique customer identifier (e.g., "C1001")
//   - Age: Customer age in years
//   - Gender: Self-reported gender
//   - Location: Customer's geographic location (city or region)
//   - BrowsingHistory: Product categories the customer has browsed
//   - PurchaseHistory: Product categories the customer has purchased from
//   - Segment: Customer segment label (e.g., "New Visitor", "Frequent Buyer")
//   - AvgOrderValue: Average order value in the store currency
//   - Holiday: Whether the customer is currently holiday shopping
//   - Season: Current shopping season ("Spring", "Summer", "Autumn", "Winter")
//   - LastActivity: Timestamp of the customer's most recent activity
//   - EmbeddingID: Reference to the customer's stored embedding, empty if none
//
// Example:
//
//	{
//	  "customer_id": "C1001",
//	  "age": 28,
//	  "gender": "Female",
//	  "location": "Chicago",
//	  "browsing_history": ["Books", "Fashion"],
//	  "purchase_history": ["Books"],
//	  "customer_segment": "Occasional Shopper",
//	  "avg_order_value": 80.5,
//	  "holiday": false,
//	  "season": "Winter"
//	}
type Customer struct {
	CustomerID      string    `json:"customer_id"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	Location        string    `json:"location"`
	BrowsingHistory []string  `json:"browsing_history"`
	PurchaseHistory []string  `json:"purchase_history"`
	Segment         string    `json:"customer_segment"`
	AvgOrderValue   float64   `json:"avg_order_value"`
	Holiday         bool      `json:"holiday"`
	Season          string    `json:"season"`
	LastActivity    time.Time `json:"last_activity_date,omitempty"`
	EmbeddingID     string    `json:"embedding_id,omitempty"`
}

// Product represents a catalog item with ratings, sentiment, and
// contextual recommendation signals.
//
// Fields:
//   - ProductID: Unique product identifier (e.g., "P2001")
//   - Category: Top-level product category (e.g., "Electronics")
//   - Subcategory: More specific product type (e.g., "Headphones")
//   - Price: Product price in the store currency
//   - Brand: Product brand name
//   - AvgRatingSimilar: Average rating of similar products
//   - Rating: This product's average customer rating (0 to 5)
//   - SentimentScore: Aggregated review sentiment (0 to 1)
//   - Holiday: Whether the product is flagged for holiday promotion
//   - Season: Season the product is most relevant for
//   - Location: Geographic region where the product performs well
//   - SimilarProducts: Subcategory names of similar products
//   - Probability: Baseline recommendation probability (0 to 1)
//   - EmbeddingID: Reference to the product's stored embedding, empty if none
//   - RelevanceScore: Computed per-customer relevance (0 to 1), populated
//     only in scored responses and not persisted
type Product struct {
	ProductID        string   `json:"product_id"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	Price            float64  `json:"price"`
	Brand            string   `json:"brand"`
	AvgRatingSimilar float64  `json:"avg_rating_similar"`
	Rating           float64  `json:"product_rating"`
	SentimentScore   float64  `json:"sentiment_score"`
	Holiday          bool     `json:"holiday"`
	Season           string   `json:"season"`
	Location         string   `json:"geographical_location"`
	SimilarProducts  []string `json:"similar_products"`
	Probability      float64  `json:"recommendation_probability"`
	EmbeddingID      string   `json:"embedding_id,omitempty"`
	RelevanceScore   float64  `json:"relevance_score,omitempty"`
}

// Feedback values recorded against a recommendation.
const (
	FeedbackNegative = -1
	FeedbackNone     = 0
	FeedbackPositive = 1
)

// Recommendation represents a single recommendation delivered to a customer,
// persisted for feedback tracking and strategy learning.
//
// Fields:
//   - ID: Auto-incrementing recommendation identifier
//   - CustomerID: Customer the recommendation was made for
//   - ProductID: Recommended product
//   - Score: Recommendation score (0 to 1), higher is more relevant
//   - Reason: Human-readable explanation of why the product was recommended
//   - Timestamp: When the recommendation was generated
//   - Feedback: Customer reaction (-1 negative, 0 none, 1 positive)
type Recommendation struct {
	ID         int64     `json:"id,omitempty"`
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Score      float64   `json:"score"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
	Feedback   int       `json:"feedback"`
}

// ScoredProduct pairs a product with its recommendation score and reason,
// as returned by recommendation strategies before persistence.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// AgentMemory represents a persisted key/value memory entry scoped to an
// agent type. Values are stored as JSON strings.
type AgentMemory struct {
	ID        int64     `json:"id,omitempty"`
	AgentType string    `json:"agent_type"`
	Key       string    `json:"memory_key"`
	Value     string    `json:"memory_value"`
	Timestamp time.Time `json:"timestamp"`
}

// Embedding entity types. Embedding IDs are composed as
// "{entity_type}_{entity_id}", e.g. "customer_C1001".
const (
	EntityCustomer = "customer"
	EntityProduct  = "product"
)

// Embedding represents a stored vector for a customer or product.
// The vector is serialized as little-endian float32 values in the database.
type Embedding struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Vector     []float32 `json:"vector,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SegmentSummary aggregates customer counts and spend for one segment.
type SegmentSummary struct {
	Segment       string  `json:"segment"`
	CustomerCount int     `json:"customer_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
}
