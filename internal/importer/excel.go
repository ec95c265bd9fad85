// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/shopsense/shopsense/internal/logging"
)

// ConvertExcelToCSV extracts one sheet of an Excel workbook into a CSV
// file. An empty sheetName selects the workbook's first sheet. Returns the
// number of data rows written (excluding the header).
func ConvertExcelToCSV(inputPath, outputPath, sheetName string) (int, error) {
	workbook, err := excelize.OpenFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook %s: %w", inputPath, err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			logging.Warn().Str("path", inputPath).Err(err).Msg("failed to close workbook")
		}
	}()

	if sheetName == "" {
		sheetName = workbook.GetSheetName(0)
	}

	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet %s is empty", sheetName)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer func() { _ = out.Close() }()

	writer := csv.NewWriter(out)

	// Rows can come back ragged when trailing cells are empty; pad to the
	// header width so every CSV record has the same shape.
	width := len(rows[0])
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", outputPath, err)
	}

	dataRows := len(rows) - 1
	logging.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Str("sheet", sheetName).
		Int("rows", dataRows).
		Msg("converted workbook to CSV")

	return dataRows, nil
}
