// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package database

import (
	"context"
	"fmt"

	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/models"
)

// ClearCatalog removes all customer and product rows. Used by seeding and
// import flows to prevent duplicate entries.
func (db *DB) ClearCatalog(ctx context.Context) error {
	for _, table := range []string{"customers", "products"} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSampleData loads a small demo dataset of customers and products.
// Existing catalog rows are removed first.
func (db *DB) SeedSampleData(ctx context.Context) error {
	if err := db.ClearCatalog(ctx); err != nil {
		return err
	}

	for i := range sampleCustomers {
		if err := db.UpsertCustomer(ctx, &sampleCustomers[i]); err != nil {
			return err
		}
	}
	for i := range sampleProducts {
		if err := db.UpsertProduct(ctx, &sampleProducts[i]); err != nil {
			return err
		}
	}

	logging.Info().
		Int("customers", len(sampleCustomers)).
		Int("products", len(sampleProducts)).
		Msg("seeded sample data")

	return nil
}

var sampleCustomers = []models.Customer{
	{
		CustomerID: "C1001", Age: 28, Gender: "Female", Location: "Chicago",
		BrowsingHistory: []string{"Books", "Fashion"},
		PurchaseHistory: []string{"Books"},
		Segment:         "Occasional Shopper", AvgOrderValue: 80.5,
		Holiday: false, Season: "Winter",
	},
	{
		CustomerID: "C1002", Age: 35, Gender: "Male", Location: "New York",
		BrowsingHistory: []string{"Electronics", "Sports"},
		PurchaseHistory: []string{"Electronics", "Electronics", "Sports"},
		Segment:         "Frequent Buyer", AvgOrderValue: 210.0,
		Holiday: true, Season: "Winter",
	},
	{
		CustomerID: "C1003", Age: 19, Gender: "Female", Location: "Austin",
		BrowsingHistory: []string{"Beauty", "Fashion", "Fitness"},
		PurchaseHistory: []string{},
		Segment:         "New Visitor", AvgOrderValue: 0,
		Holiday: false, Season: "Summer",
	},
	{
		CustomerID: "C1004", Age: 44, Gender: "Male", Location: "Seattle",
		BrowsingHistory: []string{"Home Decor"},
		PurchaseHistory: []string{"Home Decor", "Electronics"},
		Segment:         "Occasional Shopper", AvgOrderValue: 150.75,
		Holiday: false, Season: "Autumn",
	},
	{
		CustomerID: "C1005", Age: 67, Gender: "Female", Location: "Chicago",
		BrowsingHistory: []string{"Books", "Home Decor", "Beauty"},
		PurchaseHistory: []string{"Books", "Home Decor"},
		Segment:         "Frequent Buyer", AvgOrderValue: 95.25,
		Holiday: true, Season: "Winter",
	},
}

var sampleProducts = []models.Product{
	{
		ProductID: "P2001", Category: "Electronics", Subcategory: "Headphones",
		Price: 129.99, Brand: "SoundWave", AvgRatingSimilar: 4.1, Rating: 4.5,
		SentimentScore: 0.82, Holiday: true, Season: "Winter", Location: "New York",
		SimilarProducts: []string{"Earbuds", "Speakers"}, Probability: 0.72,
	},
	{
		ProductID: "P2002", Category: "Electronics", Subcategory: "Smartwatch",
		Price: 249.99, Brand: "PulseTech", AvgRatingSimilar: 3.9, Rating: 4.2,
		SentimentScore: 0.75, Holiday: false, Season: "Summer", Location: "New York",
		SimilarProducts: []string{"Fitness Tracker"}, Probability: 0.64,
	},
	{
		ProductID: "P2003", Category: "Books", Subcategory: "Mystery",
		Price: 14.99, Brand: "Harbor Press", AvgRatingSimilar: 4.3, Rating: 4.7,
		SentimentScore: 0.88, Holiday: false, Season: "Winter", Location: "Chicago",
		SimilarProducts: []string{"Thriller", "Crime"}, Probability: 0.7,
	},
	{
		ProductID: "P2004", Category: "Books", Subcategory: "Cookbook",
		Price: 24.5, Brand: "Harbor Press", AvgRatingSimilar: 4.0, Rating: 3.8,
		SentimentScore: 0.66, Holiday: true, Season: "Autumn", Location: "Chicago",
		SimilarProducts: []string{"Baking"}, Probability: 0.55,
	},
	{
		ProductID: "P2005", Category: "Fashion", Subcategory: "Jacket",
		Price: 89.0, Brand: "Northline", AvgRatingSimilar: 4.2, Rating: 4.4,
		SentimentScore: 0.79, Holiday: true, Season: "Winter", Location: "Chicago",
		SimilarProducts: []string{"Coat", "Sweater"}, Probability: 0.68,
	},
	{
		ProductID: "P2006", Category: "Fashion", Subcategory: "Sneakers",
		Price: 74.99, Brand: "StrideOne", AvgRatingSimilar: 4.4, Rating: 4.6,
		SentimentScore: 0.85, Holiday: false, Season: "Summer", Location: "Austin",
		SimilarProducts: []string{"Running Shoes"}, Probability: 0.71,
	},
	{
		ProductID: "P2007", Category: "Sports", Subcategory: "Yoga Mat",
		Price: 29.99, Brand: "FlexFit", AvgRatingSimilar: 4.1, Rating: 4.3,
		SentimentScore: 0.8, Holiday: false, Season: "Spring", Location: "Austin",
		SimilarProducts: []string{"Resistance Bands"}, Probability: 0.62,
	},
	{
		ProductID: "P2008", Category: "Sports", Subcategory: "Dumbbells",
		Price: 59.99, Brand: "FlexFit", AvgRatingSimilar: 3.8, Rating: 3.5,
		SentimentScore: 0.58, Holiday: false, Season: "Winter", Location: "New York",
		SimilarProducts: []string{"Kettlebell"}, Probability: 0.5,
	},
	{
		ProductID: "P2009", Category: "Home Decor", Subcategory: "Table Lamp",
		Price: 45.0, Brand: "Lumo Home", AvgRatingSimilar: 4.0, Rating: 4.1,
		SentimentScore: 0.73, Holiday: true, Season: "Autumn", Location: "Seattle",
		SimilarProducts: []string{"Floor Lamp"}, Probability: 0.6,
	},
	{
		ProductID: "P2010", Category: "Home Decor", Subcategory: "Wall Art",
		Price: 120.0, Brand: "Lumo Home", AvgRatingSimilar: 3.7, Rating: 2.0,
		SentimentScore: 0.28, Holiday: false, Season: "Spring", Location: "Seattle",
		SimilarProducts: []string{"Posters"}, Probability: 0.4,
	},
	{
		ProductID: "P2011", Category: "Beauty", Subcategory: "Moisturizer",
		Price: 32.5, Brand: "Dewpoint", AvgRatingSimilar: 4.5, Rating: 4.8,
		SentimentScore: 0.91, Holiday: false, Season: "Summer", Location: "Austin",
		SimilarProducts: []string{"Serum", "Cleanser"}, Probability: 0.75,
	},
	{
		ProductID: "P2012", Category: "Beauty", Subcategory: "Lipstick",
		Price: 19.99, Brand: "Dewpoint", AvgRatingSimilar: 4.2, Rating: 4.0,
		SentimentScore: 0.7, Holiday: true, Season: "Winter", Location: "Chicago",
		SimilarProducts: []string{"Lip Gloss"}, Probability: 0.63,
	},
}
