// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

const customerCSV = `Customer_ID,Age,Gender,Location,Browsing_History,Purchase_History,Customer_Segment,Avg_Order_Value,Holiday,Season
C1001,28,Female,Chicago,"['Books', 'Fashion']","['Books']",Occasional Shopper,80.5,No,Winter
C1002,34,Male,New York,"['Electronics']","['Electronics', 'Books']",Frequent Buyer,210.0,Yes,Winter
C1003,not-a-number,Other,Austin,[],[],New Visitor,0,No,Spring
`

const productCSV = `Product_ID,Category,Subcategory,Price,Brand,Average_Rating_of_Similar_Products,Product_Rating,Customer_Review_Sentiment_Score,Holiday,Season,Geographical_Location,Similar_Product_List,Probability_of_Recommendation
P2001,Electronics,Headphones,149.99,SoundCore,4.2,4.5,0.85,No,Winter,Chicago,"['Earbuds', 'Speakers']",0.82
P2002,Books,Fiction,14.99,Penguin,4.0,4.3,0.78,Yes,Winter,New York,"['Non-fiction']",0.74
P2003,Fashion,,not-a-price,Zara,3.9,4.0,0.7,No,Summer,Miami,[],0.6
`

func TestImportCustomers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	result, err := ImportCustomers(ctx, db, strings.NewReader(customerCSV))
	if err != nil {
		t.Fatalf("ImportCustomers failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped (bad age), got %d", result.Skipped)
	}

	customer, err := db.GetCustomer(ctx, "C1001")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if customer.Age != 28 || customer.Segment != "Occasional Shopper" {
		t.Errorf("unexpected customer %+v", customer)
	}
	if len(customer.BrowsingHistory) != 2 || customer.BrowsingHistory[0] != "Books" {
		t.Errorf("unexpected browsing history %v", customer.BrowsingHistory)
	}
	if customer.Holiday {
		t.Error("expected Holiday No to parse as false")
	}

	frequent, err := db.GetCustomer(ctx, "C1002")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if !frequent.Holiday {
		t.Error("expected Holiday Yes to parse as true")
	}
}

func TestImportCustomersMissingColumn(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	csv := "Customer_ID,Gender\nC1,Female\n"
	if _, err := ImportCustomers(ctx, db, strings.NewReader(csv)); err == nil {
		t.Error("expected error for missing required columns")
	}
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	result, err := ImportProducts(ctx, db, strings.NewReader(productCSV))
	if err != nil {
		t.Fatalf("ImportProducts failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped (bad price), got %d", result.Skipped)
	}

	product, err := db.GetProduct(ctx, "P2001")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product.Price != 149.99 || product.Rating != 4.5 {
		t.Errorf("unexpected product %+v", product)
	}
	if len(product.SimilarProducts) != 2 || product.SimilarProducts[1] != "Speakers" {
		t.Errorf("unexpected similar products %v", product.SimilarProducts)
	}
	if product.Probability != 0.82 {
		t.Errorf("unexpected probability %f", product.Probability)
	}
}

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single quotes", `['Books', 'Fashion']`, []string{"Books", "Fashion"}},
		{"double quotes", `["Books", "Fashion"]`, []string{"Books", "Fashion"}},
		{"empty list", `[]`, []string{}},
		{"empty string", ``, []string{}},
		{"single item", `['Books']`, []string{"Books"}},
		{"bare values", `Books, Fashion`, []string{"Books", "Fashion"}},
		{"whitespace", ` [ 'Books' , 'Fashion' ] `, []string{"Books", "Fashion"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseListLiteral(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseListLiteral(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("item %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConvertExcelToCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "customers.xlsx")
	csvPath := filepath.Join(dir, "out", "customers.csv")

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	rows := [][]interface{}{
		{"Customer_ID", "Age", "Gender", "Location", "Browsing_History", "Purchase_History", "Customer_Segment", "Avg_Order_Value", "Holiday", "Season"},
		{"C1001", 28, "Female", "Chicago", "['Books']", "['Books']", "Occasional Shopper", 80.5, "No", "Winter"},
		{"C1002", 34, "Male", "New York", "['Electronics']", "[]", "Frequent Buyer", 210.0, "Yes", "Winter"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := workbook.SaveAs(xlsxPath); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	if err := workbook.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	count, err := ConvertExcelToCSV(xlsxPath, csvPath, "")
	if err != nil {
		t.Fatalf("ConvertExcelToCSV failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 data rows, got %d", count)
	}

	// The produced CSV imports cleanly.
	ctx := context.Background()
	db := newTestDB(t)

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("failed to open converted CSV: %v", err)
	}
	defer func() { _ = f.Close() }()

	result, err := ImportCustomers(ctx, db, f)
	if err != nil {
		t.Fatalf("ImportCustomers on converted CSV failed: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("unexpected import result %+v", result)
	}
}
