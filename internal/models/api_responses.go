// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all
// HTTP endpoints. It provides consistent structure for both successful and
// error responses, with metadata for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"customer_id": "C1001", "recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-30T12:00:00Z",
//	    "query_time_ms": 45
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "customer C9999 not found"
//	  },
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance
// tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Request processing time in milliseconds
//   - Cached: Whether the result was served from cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query execution failure
//   - NOT_FOUND: Resource doesn't exist
//   - LLM_ERROR: Language model backend failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo contains offset-based pagination metadata for list
// endpoints such as product listing.
type PaginationInfo struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	TotalCount int  `json:"total_count"`
}

// ProductListResponse wraps a page of catalog products with pagination info.
type ProductListResponse struct {
	Products   []Product      `json:"products"`
	Pagination PaginationInfo `json:"pagination"`
}

// RecommendationRequest is the body of POST /api/v1/recommendations.
//
// Fields:
//   - CustomerID: Customer to generate recommendations for (required)
//   - Limit: Maximum recommendations to return (optional, capped server-side)
//   - Strategy: Force a specific strategy (optional; one of
//     "collaborative_filtering", "content_based", "popularity_based",
//     "hybrid"). When empty the engine picks a strategy from the customer
//     profile and past feedback.
type RecommendationRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1"`
	Strategy   string `json:"strategy,omitempty" validate:"omitempty,oneof=collaborative_filtering content_based popularity_based hybrid"`
}

// FeedbackRequest is the body of POST /api/v1/feedback. Feedback is 1 for
// positive and -1 for negative; 0 means no feedback and is rejected.
type FeedbackRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	Feedback   int    `json:"feedback" validate:"required,oneof=-1 1"`
}

// FeedbackResponse confirms a recorded feedback event. When negative
// feedback triggers a strategy change the previous and new strategies are
// included.
type FeedbackResponse struct {
	CustomerID       string `json:"customer_id"`
	ProductID        string `json:"product_id"`
	Feedback         int    `json:"feedback"`
	Recorded         bool   `json:"recorded"`
	ActionTaken      string `json:"action_taken"`
	PreviousStrategy string `json:"previous_strategy,omitempty"`
	NewStrategy      string `json:"new_strategy,omitempty"`
}

// CustomerUpdateRequest is the body of POST /api/v1/customers/{id}.
// All fields are optional; only present fields are applied.
type CustomerUpdateRequest struct {
	Age             *int     `json:"age,omitempty" validate:"omitempty,min=1,max=120"`
	Gender          *string  `json:"gender,omitempty"`
	Location        *string  `json:"location,omitempty"`
	BrowsingHistory []string `json:"browsing_history,omitempty"`
	PurchaseHistory []string `json:"purchase_history,omitempty"`
	Segment         *string  `json:"customer_segment,omitempty"`
	AvgOrderValue   *float64 `json:"avg_order_value,omitempty" validate:"omitempty,min=0"`
	Holiday         *bool    `json:"holiday,omitempty"`
	Season          *string  `json:"season,omitempty" validate:"omitempty,oneof=Spring Summer Autumn Winter"`
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ServiceInfo is the payload of the root endpoint, describing the service
// and its primary endpoints.
type ServiceInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}
