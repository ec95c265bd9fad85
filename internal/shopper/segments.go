// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package shopper

import (
	"context"
	"sort"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/models"
)

// CategoryCount pairs a product category with how many customers in a
// segment have it in their history.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SegmentAnalysis describes the aggregate shopping behavior of one
// customer segment.
type SegmentAnalysis struct {
	Segment       string          `json:"segment"`
	CustomerCount int             `json:"customer_count"`
	AvgOrderValue float64         `json:"avg_order_value"`
	TopBrowsing   []CategoryCount `json:"top_browsing"`
	TopPurchases  []CategoryCount `json:"top_purchases"`
}

// Segmentation summarizes customer segments from the database.
type Segmentation struct {
	db *database.DB
}

// NewSegmentation creates a segmentation tool.
func NewSegmentation(db *database.DB) *Segmentation {
	return &Segmentation{db: db}
}

// Segments returns all segments with customer counts and average order
// values, largest segment first.
func (s *Segmentation) Segments(ctx context.Context) ([]models.SegmentSummary, error) {
	return s.db.GetSegmentSummaries(ctx)
}

// AnalyzeSegment aggregates the browsing and purchase patterns of every
// customer in a segment. An unknown segment yields a zero-count analysis
// rather than an error.
func (s *Segmentation) AnalyzeSegment(ctx context.Context, segment string) (*SegmentAnalysis, error) {
	customers, err := s.db.GetCustomersBySegment(ctx, segment)
	if err != nil {
		return nil, err
	}

	analysis := &SegmentAnalysis{
		Segment:       segment,
		CustomerCount: len(customers),
		TopBrowsing:   []CategoryCount{},
		TopPurchases:  []CategoryCount{},
	}
	if len(customers) == 0 {
		return analysis, nil
	}

	browsing := make(map[string]int)
	purchases := make(map[string]int)
	var totalOrderValue float64

	for _, customer := range customers {
		totalOrderValue += customer.AvgOrderValue
		for _, category := range customer.BrowsingHistory {
			browsing[category]++
		}
		for _, category := range customer.PurchaseHistory {
			purchases[category]++
		}
	}

	analysis.AvgOrderValue = totalOrderValue / float64(len(customers))
	analysis.TopBrowsing = sortCounts(browsing)
	analysis.TopPurchases = sortCounts(purchases)

	return analysis, nil
}

// sortCounts orders categories by count descending, ties broken by name
// for deterministic output.
func sortCounts(counts map[string]int) []CategoryCount {
	result := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result
}
