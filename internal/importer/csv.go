// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package importer loads customer and product catalogs into the database
// from CSV files, and converts the upstream Excel dumps to CSV. Malformed
// rows are skipped with a warning rather than failing the whole import.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/models"
)

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Customer CSV columns as exported from the upstream dataset.
const (
	colCustomerID      = "Customer_ID"
	colAge             = "Age"
	colGender          = "Gender"
	colLocation        = "Location"
	colBrowsingHistory = "Browsing_History"
	colPurchaseHistory = "Purchase_History"
	colCustomerSegment = "Customer_Segment"
	colAvgOrderValue   = "Avg_Order_Value"
	colHoliday         = "Holiday"
	colSeason          = "Season"
)

// Product CSV columns.
const (
	colProductID        = "Product_ID"
	colCategory         = "Category"
	colSubcategory      = "Subcategory"
	colPrice            = "Price"
	colBrand            = "Brand"
	colAvgRatingSimilar = "Average_Rating_of_Similar_Products"
	colProductRating    = "Product_Rating"
	colSentimentScore   = "Customer_Review_Sentiment_Score"
	colGeoLocation      = "Geographical_Location"
	colSimilarProducts  = "Similar_Product_List"
	colProbability      = "Probability_of_Recommendation"
)

// ImportCustomers reads customer rows from r and upserts them. Returns how
// many rows were imported and how many were skipped as malformed.
func ImportCustomers(ctx context.Context, db *database.DB, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read customer CSV header: %w", err)
	}
	columns := indexColumns(header)

	required := []string{colCustomerID, colAge, colCustomerSegment}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("customer CSV missing required column %s", col)
		}
	}

	result := &Result{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Warn().Int("line", line).Err(err).Msg("skipping unreadable customer row")
			result.Skipped++
			continue
		}

		customer, err := parseCustomer(columns, record)
		if err != nil {
			logging.Warn().Int("line", line).Err(err).Msg("skipping malformed customer row")
			result.Skipped++
			continue
		}

		if err := db.UpsertCustomer(ctx, customer); err != nil {
			return result, fmt.Errorf("failed to import customer %s: %w", customer.CustomerID, err)
		}
		result.Imported++
	}

	logging.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("customer import complete")

	return result, nil
}

func parseCustomer(columns map[string]int, record []string) (*models.Customer, error) {
	id := field(columns, record, colCustomerID)
	if id == "" {
		return nil, fmt.Errorf("empty customer ID")
	}

	age, err := strconv.Atoi(field(columns, record, colAge))
	if err != nil {
		return nil, fmt.Errorf("invalid age: %w", err)
	}

	avgOrderValue, err := strconv.ParseFloat(field(columns, record, colAvgOrderValue), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid average order value: %w", err)
	}

	return &models.Customer{
		CustomerID:      id,
		Age:             age,
		Gender:          field(columns, record, colGender),
		Location:        field(columns, record, colLocation),
		BrowsingHistory: ParseListLiteral(field(columns, record, colBrowsingHistory)),
		PurchaseHistory: ParseListLiteral(field(columns, record, colPurchaseHistory)),
		Segment:         field(columns, record, colCustomerSegment),
		AvgOrderValue:   avgOrderValue,
		Holiday:         parseYesNo(field(columns, record, colHoliday)),
		Season:          field(columns, record, colSeason),
	}, nil
}

// ImportProducts reads product rows from r and upserts them.
func ImportProducts(ctx context.Context, db *database.DB, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read product CSV header: %w", err)
	}
	columns := indexColumns(header)

	required := []string{colProductID, colCategory, colPrice}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("product CSV missing required column %s", col)
		}
	}

	result := &Result{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Warn().Int("line", line).Err(err).Msg("skipping unreadable product row")
			result.Skipped++
			continue
		}

		product, err := parseProduct(columns, record)
		if err != nil {
			logging.Warn().Int("line", line).Err(err).Msg("skipping malformed product row")
			result.Skipped++
			continue
		}

		if err := db.UpsertProduct(ctx, product); err != nil {
			return result, fmt.Errorf("failed to import product %s: %w", product.ProductID, err)
		}
		result.Imported++
	}

	logging.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("product import complete")

	return result, nil
}

func parseProduct(columns map[string]int, record []string) (*models.Product, error) {
	id := field(columns, record, colProductID)
	if id == "" {
		return nil, fmt.Errorf("empty product ID")
	}

	price, err := strconv.ParseFloat(field(columns, record, colPrice), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	product := &models.Product{
		ProductID:       id,
		Category:        field(columns, record, colCategory),
		Subcategory:     field(columns, record, colSubcategory),
		Price:           price,
		Brand:           field(columns, record, colBrand),
		Holiday:         parseYesNo(field(columns, record, colHoliday)),
		Season:          field(columns, record, colSeason),
		Location:        field(columns, record, colGeoLocation),
		SimilarProducts: ParseListLiteral(field(columns, record, colSimilarProducts)),
	}

	// Numeric quality columns default to zero when absent or unparsable.
	product.AvgRatingSimilar, _ = strconv.ParseFloat(field(columns, record, colAvgRatingSimilar), 64)
	product.Rating, _ = strconv.ParseFloat(field(columns, record, colProductRating), 64)
	product.SentimentScore, _ = strconv.ParseFloat(field(columns, record, colSentimentScore), 64)
	product.Probability, _ = strconv.ParseFloat(field(columns, record, colProbability), 64)

	return product, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

func field(columns map[string]int, record []string, name string) string {
	index, ok := columns[name]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseYesNo(value string) bool {
	return strings.EqualFold(value, "yes")
}

// ParseListLiteral parses the dataset's Python-style list literals, e.g.
// ['Books', 'Fashion'], into a string slice. Bare comma-separated values
// without brackets are accepted too. Returns an empty slice for anything
// unparsable.
func ParseListLiteral(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}

	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	if strings.TrimSpace(value) == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		item = strings.Trim(item, `'"`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
