// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package main converts Excel workbooks of customer and product data into
// the CSV layout consumed by the seed importer.
//
// Usage:
//
//	convert -in customer_data.xlsx -out data/customers.csv
//	convert -in product_data.xlsx -out data/products.csv -sheet Sheet1
package main

import (
	"flag"

	"github.com/shopsense/shopsense/internal/importer"
	"github.com/shopsense/shopsense/internal/logging"
)

func main() {
	input := flag.String("in", "", "path to the Excel workbook")
	output := flag.String("out", "", "path of the CSV file to write")
	sheet := flag.String("sheet", "", "worksheet name (default: first sheet)")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		logging.Fatal().Msg("both -in and -out are required")
	}

	rows, err := importer.ConvertExcelToCSV(*input, *output, *sheet)
	if err != nil {
		logging.Fatal().Err(err).Str("input", *input).Msg("Conversion failed")
	}

	logging.Info().
		Str("input", *input).
		Str("output", *output).
		Int("rows", rows).
		Msg("Conversion complete")
}
