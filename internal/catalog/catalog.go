// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package catalog

import (
	"context"
	"fmt"
	"sort"
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

// similarityThreshold is the minimum cosine similarity for a product to
// count as a neighbor in embedding search.
const similarityThreshold = 0.7

// fallbackSelectionExplanation is used when the LLM cannot produce one.
const fallbackSelectionExplanation = "Products were selected based on your browsing and purchase history, " +
	"as well as seasonal relevance and product ratings."

// Generator is the LLM surface the catalog needs.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// Enricher supplies supplementary product information from external
// sources. Lookups are best effort and never return an error.
type Enricher interface {
	SearchProductInfo(ctx context.Context, productName, brand string) *models.ProductEnrichment
}

// Catalog scores, analyzes, and relates products.
type Catalog struct {
	db         *database.DB
	generator  Generator
	embeddings *embedding.Store
	enricher   Enricher
	memory     *memory.Memory
}

// New creates a catalog service. The enricher is optional; when nil,
// product analyses carry no enrichment data.
func New(db *database.DB, generator Generator, embeddings *embedding.Store, enricher Enricher) *Catalog {
	return &Catalog{
		db:         db,
		generator:  generator,
		embeddings: embeddings,
		enricher:   enricher,
		memory:     memory.New("product", db),
	}
}

// FindRelevantProducts selects and scores products from the given
// categories for a customer. Products come back sorted by relevance
// descending with an LLM-generated explanation of the selection.
func (c *Catalog) FindRelevantProducts(ctx context.Context, categories []string, customer *models.CustomerAnalysis) (*models.ProductSelection, error) {
	if len(categories) == 0 {
		return &models.ProductSelection{
			Products:             []models.Product{},
			Explanation:          "No categories specified",
			CategoryDistribution: map[string]int{},
		}, nil
	}

	var all []models.Product
	for _, category := range categories {
		products, err := c.db.GetProductsByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to load products for category %s: %w", category, err)
		}
		all = append(all, products...)
	}

	if len(all) == 0 {
		return &models.ProductSelection{
			Products:             []models.Product{},
			Explanation:          "No products found in specified categories",
			CategoryDistribution: map[string]int{},
		}, nil
	}

	for i := range all {
		all[i].RelevanceScore = RelevanceScore(&all[i], customer)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})

	return &models.ProductSelection{
		Products:             all,
		Explanation:          c.selectionExplanation(ctx, customer, all),
		CategoryDistribution: CategoryDistribution(all),
		TotalCount:           len(all),
	}, nil
}

// CategoryDistribution counts products per category.
func CategoryDistribution(products []models.Product) map[string]int {
	distribution := make(map[string]int)
	for _, product := range products {
		category := product.Category
		if category == "" {
			category = "Unknown"
		}
		distribution[category]++
	}
	return distribution
}

func (c *Catalog) selectionExplanation(ctx context.Context, customer *models.CustomerAnalysis, products []models.Product) string {
	cust := &models.Customer{
		CustomerID:      customer.CustomerID,
		Segment:         customer.Segment,
		BrowsingHistory: customer.BrowsingHistory,
		PurchaseHistory: customer.PurchaseHistory,
	}
	prompt := llm.SelectionExplanationPrompt(cust, products)

	explanation, err := c.generator.Generate(ctx, prompt, llm.SelectionExplanationSystemPrompt)
	if err != nil || strings.TrimSpace(explanation) == "" {
		logging.Warn().
			Str("customer_id", customer.CustomerID).
			Err(err).
			Msg("selection explanation fell back to static text")
		metrics.LLMFallbacksTotal.WithLabelValues("explanation").Inc()
		return fallbackSelectionExplanation
	}
	return strings.TrimSpace(explanation)
}

// AnalyzeProduct builds the full analysis for one product: embedding
// (generated on first sight), LLM insights with a deterministic fallback,
// external enrichment data when an enricher is configured, and its
// nearest neighbors in the catalog. Insights are stored in agent memory
// under "insights_{product_id}".
func (c *Catalog) AnalyzeProduct(ctx context.Context, productID string) (*models.ProductAnalysis, error) {
	product, err := c.db.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	embeddingID := product.EmbeddingID
	if embeddingID == "" && c.embeddings != nil {
		embeddingID, err = c.embeddings.StoreText(ctx, models.EntityProduct, productID, ProductText(product))
		if err != nil {
			logging.Warn().
				Str("product_id", productID).
				Err(err).
				Msg("failed to generate product embedding")
			embeddingID = ""
		}
	}

	insights := c.analyzeInsights(ctx, product)

	var enrichment *models.ProductEnrichment
	if c.enricher != nil {
		enrichment = c.enricher.SearchProductInfo(ctx, product.Subcategory, product.Brand)
	}

	similar, err := c.FindSimilarProducts(ctx, productID, 5)
	if err != nil {
		logging.Warn().
			Str("product_id", productID).
			Err(err).
			Msg("similar product lookup failed")
		similar = []models.SimilarProduct{}
	}

	return &models.ProductAnalysis{
		ProductID:       productID,
		Product:         *product,
		Insights:        insights,
		EmbeddingID:     embeddingID,
		SimilarProducts: similar,
		Enrichment:      enrichment,
	}, nil
}

func (c *Catalog) analyzeInsights(ctx context.Context, product *models.Product) models.ProductInsights {
	prompt := llm.ProductAnalysisPrompt(product)

	response, err := c.generator.Generate(ctx, prompt, llm.ProductAnalysisSystemPrompt)
	if err == nil {
		var insights models.ProductInsights
		if jsonErr := json.Unmarshal([]byte(llm.ExtractJSON(response)), &insights); jsonErr == nil {
			c.storeInsights(ctx, product.ProductID, insights)
			return insights
		}
		err = fmt.Errorf("malformed insights JSON")
	}

	logging.Warn().
		Str("product_id", product.ProductID).
		Err(err).
		Msg("product insight analysis fell back to generic defaults")
	metrics.LLMFallbacksTotal.WithLabelValues("product_insights").Inc()

	insights := FallbackInsights()
	c.storeInsights(ctx, product.ProductID, insights)
	return insights
}

func (c *Catalog) storeInsights(ctx context.Context, productID string, insights models.ProductInsights) {
	encoded, err := json.Marshal(insights)
	if err != nil {
		return
	}
	if err := c.memory.Store(ctx, "insights_"+productID, string(encoded)); err != nil {
		logging.Warn().
			Str("product_id", productID).
			Err(err).
			Msg("failed to persist product insights")
	}
}

// FallbackInsights is the generic product analysis used when the LLM is
// unavailable.
func FallbackInsights() models.ProductInsights {
	return models.ProductInsights{
		TargetDemographics: []string{"General"},
		KeySellingPoints:   []string{"Quality product"},
		SuggestedSegments:  []string{"All segments"},
		Summary:            "Basic product in its category.",
	}
}

// ProductText composes the text used to embed a product.
func ProductText(product *models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product %s: %s - %s from %s. ",
		product.ProductID, product.Category, product.Subcategory, product.Brand)
	fmt.Fprintf(&b, "Price: %.2f. Rating: %.1f. ", product.Price, product.Rating)
	fmt.Fprintf(&b, "Sentiment score: %.2f. Season: %s.", product.SentimentScore, product.Season)
	return b.String()
}

// FindSimilarProducts returns up to limit products similar to the given
// one. When the product has an embedding, neighbors come from vector
// search; otherwise the stored similar-product subcategory names are used
// as a catalog lookup fallback.
func (c *Catalog) FindSimilarProducts(ctx context.Context, productID string, limit int) ([]models.SimilarProduct, error) {
	product, err := c.db.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.EmbeddingID != "" && c.embeddings != nil {
		similar, err := c.similarByEmbedding(ctx, product, limit)
		if err == nil {
			return similar, nil
		}
		logging.Warn().
			Str("product_id", productID).
			Err(err).
			Msg("vector similarity failed, using subcategory fallback")
	}

	return c.similarBySubcategory(ctx, product, limit)
}

func (c *Catalog) similarByEmbedding(ctx context.Context, product *models.Product, limit int) ([]models.SimilarProduct, error) {
	vector, err := c.embeddings.GetVector(ctx, product.EmbeddingID)
	if err != nil {
		return nil, err
	}

	// Fetch one extra match since the product itself is its own nearest
	// neighbor.
	matches, err := c.embeddings.SearchSimilar(ctx, vector, models.EntityProduct, limit+1, similarityThreshold)
	if err != nil {
		return nil, err
	}

	similar := make([]models.SimilarProduct, 0, limit)
	for _, match := range matches {
		if match.EntityID == product.ProductID {
			continue
		}
		neighbor, err := c.db.GetProduct(ctx, match.EntityID)
		if err != nil {
			continue
		}
		similar = append(similar, toSimilarProduct(neighbor, match.Similarity))
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

func (c *Catalog) similarBySubcategory(ctx context.Context, product *models.Product, limit int) ([]models.SimilarProduct, error) {
	similar := make([]models.SimilarProduct, 0, limit)

	for _, subcategory := range product.SimilarProducts {
		neighbors, err := c.db.GetProductsBySubcategory(ctx, subcategory, limit)
		if err != nil {
			return nil, err
		}
		for i := range neighbors {
			if neighbors[i].ProductID == product.ProductID {
				continue
			}
			similar = append(similar, toSimilarProduct(&neighbors[i], 0))
			if len(similar) == limit {
				return similar, nil
			}
		}
	}
	return similar, nil
}

func toSimilarProduct(product *models.Product, similarity float64) models.SimilarProduct {
	return models.SimilarProduct{
		ProductID:   product.ProductID,
		Category:    product.Category,
		Subcategory: product.Subcategory,
		Brand:       product.Brand,
		Price:       product.Price,
		Rating:      product.Rating,
		Similarity:  similarity,
	}
}
