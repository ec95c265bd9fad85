// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/shopsense/shopsense/internal/models"
)

// System prompts paired with the templates below. Keeping them here rather
// than in the calling packages keeps all model-facing text in one place.
const (
	CustomerAnalysisSystemPrompt = "You are an AI assistant that analyzes customer shopping profiles. " +
		"Based on the customer data provided, identify their preferences, interests, and potential product needs. " +
		"Focus on extracting insights that would be useful for personalized product recommendations."

	ProductAnalysisSystemPrompt = "You are an AI assistant that analyzes product data. " +
		"Based on the product information provided, generate insights about this product, " +
		"its potential customer appeal, and selling points."

	SelectionExplanationSystemPrompt = "You are an AI assistant that explains product recommendations. " +
		"Based on the products selected and customer data, explain why these products were chosen " +
		"in a clear, concise manner that highlights the personalization aspects."

	RecommendationExplanationSystemPrompt = "You are an AI assistant that explains product recommendations. " +
		"Based on the recommended products and customer data, explain why these specific recommendations " +
		"were made in a personalized, conversational manner. Focus on highlighting the personalization " +
		"aspects and the benefits to the customer."
)

// explanationProductLimit caps how many products are included in an
// explanation prompt so the model is not flooded with the full list.
const explanationProductLimit = 5

// CustomerAnalysisPrompt builds the prompt asking the model for structured
// insights about a customer profile. The response is expected to be JSON
// matching models.CustomerInsights.
func CustomerAnalysisPrompt(customer *models.Customer) string {
	var b strings.Builder

	b.WriteString("Analyze the following customer data and provide insights on their preferences and potential product interests:\n\n")
	fmt.Fprintf(&b, "Customer ID: %s\n", customer.CustomerID)
	fmt.Fprintf(&b, "Age: %d\n", customer.Age)
	fmt.Fprintf(&b, "Gender: %s\n", customer.Gender)
	fmt.Fprintf(&b, "Location: %s\n", customer.Location)
	fmt.Fprintf(&b, "Customer Segment: %s\n", customer.Segment)
	fmt.Fprintf(&b, "Average Order Value: $%.2f\n", customer.AvgOrderValue)
	fmt.Fprintf(&b, "Browsing History: %s\n", strings.Join(customer.BrowsingHistory, ", "))
	fmt.Fprintf(&b, "Purchase History: %s\n", strings.Join(customer.PurchaseHistory, ", "))
	fmt.Fprintf(&b, "Season: %s\n", customer.Season)
	fmt.Fprintf(&b, "Holiday Shopping: %s\n", yesNo(customer.Holiday))

	b.WriteString("\nProvide insights in JSON format with the following structure:\n")
	b.WriteString(`{
    "primary_interests": ["category1", "category2"],
    "secondary_interests": ["category3", "category4"],
    "price_sensitivity": "high/medium/low",
    "likely_next_purchase": ["product1", "product2"],
    "personalization_notes": "brief analysis of customer preferences"
}`)

	return b.String()
}

// ProductAnalysisPrompt builds the prompt asking the model for structured
// insights about a product. The response is expected to be JSON matching
// models.ProductInsights.
func ProductAnalysisPrompt(product *models.Product) string {
	var b strings.Builder

	b.WriteString("Analyze the following product data and provide insights:\n\n")
	fmt.Fprintf(&b, "Product ID: %s\n", product.ProductID)
	fmt.Fprintf(&b, "Category: %s\n", product.Category)
	fmt.Fprintf(&b, "Subcategory: %s\n", product.Subcategory)
	fmt.Fprintf(&b, "Price: $%.2f\n", product.Price)
	fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	fmt.Fprintf(&b, "Product Rating: %.1f\n", product.Rating)
	fmt.Fprintf(&b, "Customer Sentiment Score: %.2f\n", product.SentimentScore)
	fmt.Fprintf(&b, "Season: %s\n", product.Season)
	fmt.Fprintf(&b, "Applicable for Holidays: %s\n", yesNo(product.Holiday))
	fmt.Fprintf(&b, "Similar Products: %s\n", strings.Join(product.SimilarProducts, ", "))

	b.WriteString("\nProvide insights in JSON format with the following structure:\n")
	b.WriteString(`{
    "target_demographics": ["demographic1", "demographic2"],
    "key_selling_points": ["point1", "point2"],
    "suggested_customer_segments": ["segment1", "segment2"],
    "product_insights": "brief analysis of the product's appeal"
}`)

	return b.String()
}

// selectionProductInfo is the compact product summary embedded in selection
// explanation prompts.
type selectionProductInfo struct {
	ID             string  `json:"id"`
	Category       string  `json:"category"`
	Subcategory    string  `json:"subcategory"`
	Price          float64 `json:"price"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SelectionExplanationPrompt builds the prompt asking the model to explain
// why a set of products was selected for a customer.
func SelectionExplanationPrompt(customer *models.Customer, products []models.Product) string {
	top := products
	if len(top) > explanationProductLimit {
		top = top[:explanationProductLimit]
	}

	info := make([]selectionProductInfo, 0, len(top))
	for _, p := range top {
		info = append(info, selectionProductInfo{
			ID:             p.ProductID,
			Category:       p.Category,
			Subcategory:    p.Subcategory,
			Price:          p.Price,
			RelevanceScore: p.RelevanceScore,
		})
	}
	infoJSON, _ := json.MarshalIndent(info, "", "  ")

	var b strings.Builder
	b.WriteString("Based on the customer data and selected products, generate a brief explanation for why these products were selected for the customer.\n\n")
	fmt.Fprintf(&b, "Customer ID: %s\n", customer.CustomerID)
	fmt.Fprintf(&b, "Customer Segment: %s\n", customer.Segment)
	fmt.Fprintf(&b, "Browsing History: %s\n", strings.Join(customer.BrowsingHistory, ", "))
	fmt.Fprintf(&b, "Purchase History: %s\n", strings.Join(customer.PurchaseHistory, ", "))
	fmt.Fprintf(&b, "\nSelected Products:\n%s\n", infoJSON)
	b.WriteString("\nGenerate a concise explanation (2-3 sentences) focusing on the personalization aspects.")

	return b.String()
}

// recommendationInfo is the compact recommendation summary embedded in
// recommendation explanation prompts.
type recommendationInfo struct {
	ProductID string  `json:"product_id"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Reason    string  `json:"reason"`
}

// RecommendationExplanationPrompt builds the prompt asking the model to
// explain a set of recommendations produced by the given strategy. Product
// categories and prices come from the catalog keyed by product ID; unknown
// products keep zero values.
func RecommendationExplanationPrompt(customer *models.Customer, recs []models.Recommendation, catalog map[string]models.Product, strategy string) string {
	top := recs
	if len(top) > explanationProductLimit {
		top = top[:explanationProductLimit]
	}

	info := make([]recommendationInfo, 0, len(top))
	for _, rec := range top {
		product := catalog[rec.ProductID]
		info = append(info, recommendationInfo{
			ProductID: rec.ProductID,
			Category:  product.Category,
			Price:     product.Price,
			Reason:    rec.Reason,
		})
	}
	infoJSON, _ := json.MarshalIndent(info, "", "  ")

	var b strings.Builder
	b.WriteString("Based on the customer data and recommended products, generate a personalized explanation for why these products were recommended to the customer.\n\n")
	fmt.Fprintf(&b, "Customer ID: %s\n", customer.CustomerID)
	fmt.Fprintf(&b, "Customer Segment: %s\n", customer.Segment)
	fmt.Fprintf(&b, "Recommendation Strategy: %s\n", strategy)
	fmt.Fprintf(&b, "Browsing History: %s\n", strings.Join(customer.BrowsingHistory, ", "))
	fmt.Fprintf(&b, "Purchase History: %s\n", strings.Join(customer.PurchaseHistory, ", "))
	fmt.Fprintf(&b, "\nRecommended Products:\n%s\n", infoJSON)
	b.WriteString("\nGenerate a friendly, personalized explanation (2-4 sentences) that would help the customer understand why these items were recommended specifically for them.")

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
