// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package shopper analyzes customer profiles: demographics, shopping
// history, embeddings, and LLM-derived preference insights.
package shopper

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/embedding"
	"github.com/shopsense/shopsense/internal/llm"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/memory"
	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
)

// Generator is the LLM surface the analyzer needs.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// Analyzer produces customer profile analyses.
type Analyzer struct {
	db         *database.DB
	generator  Generator
	embeddings *embedding.Store
	memory     *memory.Memory
}

// NewAnalyzer creates a customer analyzer.
func NewAnalyzer(db *database.DB, generator Generator, embeddings *embedding.Store) *Analyzer {
	return &Analyzer{
		db:         db,
		generator:  generator,
		embeddings: embeddings,
		memory:     memory.New("customer", db),
	}
}

// AnalyzeProfile builds the full analysis for one customer: embedding
// (generated on first sight), derived categories, and LLM insights. The
// insights are stored in agent memory under "insights_{customer_id}" so
// later recommendation runs can reuse them without another LLM call.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, customerID string) (*models.CustomerAnalysis, error) {
	customer, err := a.db.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	embeddingID := customer.EmbeddingID
	if embeddingID == "" && a.embeddings != nil {
		embeddingID, err = a.embeddings.StoreText(ctx, models.EntityCustomer, customerID, ProfileText(customer))
		if err != nil {
			// Embeddings are an enhancement, the analysis proceeds without one.
			logging.Warn().
				Str("customer_id", customerID).
				Err(err).
				Msg("failed to generate customer embedding")
			embeddingID = ""
		}
	}

	insights := a.analyzeInsights(ctx, customer)

	return &models.CustomerAnalysis{
		CustomerID:         customer.CustomerID,
		Segment:            customer.Segment,
		AgeGroup:           AgeGroup(customer.Age),
		BrowsingHistory:    customer.BrowsingHistory,
		PurchaseHistory:    customer.PurchaseHistory,
		RelevantCategories: RelevantCategories(customer),
		Insights:           insights,
		EmbeddingID:        embeddingID,
		Location:           customer.Location,
		Season:             customer.Season,
		HolidayShopping:    customer.Holiday,
		AvgOrderValue:      customer.AvgOrderValue,
	}, nil
}

// analyzeInsights asks the LLM for structured customer insights, falling
// back to a deterministic result derived from browsing history when the
// call fails or returns malformed JSON.
func (a *Analyzer) analyzeInsights(ctx context.Context, customer *models.Customer) models.CustomerInsights {
	prompt := llm.CustomerAnalysisPrompt(customer)

	response, err := a.generator.Generate(ctx, prompt, llm.CustomerAnalysisSystemPrompt)
	if err == nil {
		var insights models.CustomerInsights
		if jsonErr := json.Unmarshal([]byte(llm.ExtractJSON(response)), &insights); jsonErr == nil {
			a.storeInsights(ctx, customer.CustomerID, insights)
			return insights
		}
		err = fmt.Errorf("malformed insights JSON")
	}

	logging.Warn().
		Str("customer_id", customer.CustomerID).
		Err(err).
		Msg("customer insight analysis fell back to history-derived defaults")
	metrics.LLMFallbacksTotal.WithLabelValues("customer_insights").Inc()

	insights := FallbackInsights(customer)
	a.storeInsights(ctx, customer.CustomerID, insights)
	return insights
}

func (a *Analyzer) storeInsights(ctx context.Context, customerID string, insights models.CustomerInsights) {
	encoded, err := json.Marshal(insights)
	if err != nil {
		return
	}
	if err := a.memory.Store(ctx, "insights_"+customerID, string(encoded)); err != nil {
		logging.Warn().
			Str("customer_id", customerID).
			Err(err).
			Msg("failed to persist customer insights")
	}
}

// RecallInsights returns previously stored insights for a customer, or
// memory.ErrNotFound when the customer has never been analyzed.
func (a *Analyzer) RecallInsights(ctx context.Context, customerID string) (models.CustomerInsights, error) {
	var insights models.CustomerInsights

	value, err := a.memory.Recall(ctx, "insights_"+customerID)
	if err != nil {
		return insights, err
	}
	if err := json.Unmarshal([]byte(value), &insights); err != nil {
		return insights, fmt.Errorf("failed to decode stored insights: %w", err)
	}
	return insights, nil
}

// FallbackInsights derives insights from history alone, used when the LLM
// is unavailable.
func FallbackInsights(customer *models.Customer) models.CustomerInsights {
	primary := customer.BrowsingHistory
	if len(primary) > 2 {
		primary = primary[:2]
	}
	return models.CustomerInsights{
		PrimaryInterests:     primary,
		SecondaryInterests:   []string{},
		PriceSensitivity:     "medium",
		LikelyNextPurchase:   []string{},
		PersonalizationNotes: "Basic analysis based on browsing and purchase history.",
	}
}

// ProfileText composes the text used to embed a customer profile.
func ProfileText(customer *models.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer %s from %s is %d years old, %s. ",
		customer.CustomerID, customer.Location, customer.Age, customer.Gender)
	fmt.Fprintf(&b, "They browse %s and have purchased %s. ",
		strings.Join(customer.BrowsingHistory, ", "), strings.Join(customer.PurchaseHistory, ", "))
	fmt.Fprintf(&b, "They are a %s with average order value of %.2f.",
		customer.Segment, customer.AvgOrderValue)
	return b.String()
}

// RelevantCategories returns the unique categories appearing in the
// customer's browsing and purchase history, browsing entries first.
func RelevantCategories(customer *models.Customer) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0, len(customer.BrowsingHistory)+len(customer.PurchaseHistory))
	for _, category := range append(append([]string{}, customer.BrowsingHistory...), customer.PurchaseHistory...) {
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	return categories
}

// AgeGroup buckets an age into a demographic label.
func AgeGroup(age int) string {
	switch {
	case age < 18:
		return "under_18"
	case age < 25:
		return "18_24"
	case age < 35:
		return "25_34"
	case age < 45:
		return "35_44"
	case age < 55:
		return "45_54"
	case age < 65:
		return "55_64"
	default:
		return "65_plus"
	}
}
