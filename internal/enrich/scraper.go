// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package enrich fetches supplementary product information from the web.
// Scraping is best effort: any failure falls back to a deterministic
// summary so enrichment never blocks analysis.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/models"
)

// Scraper fetches product pages and extracts basic metadata.
type Scraper struct {
	enabled    bool
	searchURL  string
	userAgent  string
	httpClient *http.Client
}

// NewScraper creates a scraper from configuration. When disabled, every
// lookup returns the static fallback immediately.
func NewScraper(cfg *config.EnrichConfig) *Scraper {
	return &Scraper{
		enabled:   cfg.Enabled,
		searchURL: cfg.SearchURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SearchProductInfo looks up supplementary information for a product by
// name and optional brand. Network or parse failures degrade to the
// static fallback rather than returning an error.
func (s *Scraper) SearchProductInfo(ctx context.Context, productName, brand string) *models.ProductEnrichment {
	if !s.enabled || s.searchURL == "" {
		return fallbackInfo(productName, brand)
	}

	query := productName
	if brand != "" {
		query += " " + brand
	}

	info, err := s.scrape(ctx, query)
	if err != nil {
		logging.Debug().
			Str("product_name", productName).
			Err(err).
			Msg("product enrichment scrape failed, using fallback")
		return fallbackInfo(productName, brand)
	}

	info.Name = productName
	info.Brand = brand
	info.Scraped = true
	return info
}

func (s *Scraper) scrape(ctx context.Context, query string) (*models.ProductEnrichment, error) {
	target := strings.ReplaceAll(s.searchURL, "{query}", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	info := &models.ProductEnrichment{Features: []string{}}

	// Prefer Open Graph metadata, then fall back to document structure.
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		info.Description = strings.TrimSpace(desc)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		info.Description = strings.TrimSpace(desc)
	} else {
		info.Description = strings.TrimSpace(doc.Find("p").First().Text())
	}

	doc.Find("ul li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" && len(text) < 120 {
			info.Features = append(info.Features, text)
		}
		return len(info.Features) < 5
	})

	if info.Description == "" && len(info.Features) == 0 {
		return nil, fmt.Errorf("no usable product information on page")
	}

	info.AdditionalInfo = strings.TrimSpace(doc.Find("title").First().Text())
	return info, nil
}

// fallbackInfo mirrors the deterministic summary used before scraping
// existed.
func fallbackInfo(productName, brand string) *models.ProductEnrichment {
	return &models.ProductEnrichment{
		Name:        productName,
		Brand:       brand,
		Description: fmt.Sprintf("This is a high-quality %s that offers excellent performance and reliability.", productName),
		Features: []string{
			"Durable construction",
			"Easy to use",
			"Modern design",
		},
		AverageRating:  4.2,
		ReviewCount:    128,
		AdditionalInfo: fmt.Sprintf("Popular %s in its category.", productName),
		Scraped:        false,
	}
}
