// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package api

import "net/http"

// openAPIDocument serves the Swagger document consumed by the /docs UI.
func openAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(openAPISpec))
}

const openAPISpec = `{
  "swagger": "2.0",
  "info": {
    "title": "ShopSense API",
    "description": "Personalized shopping recommendations driven by customer profiles, product analysis, and adaptive strategies.",
    "version": "1.0.0"
  },
  "basePath": "/",
  "paths": {
    "/": {
      "get": {"summary": "Service info", "produces": ["application/json"], "responses": {"200": {"description": "Service name, version, description, and endpoint map"}}}
    },
    "/api/v1/health/live": {
      "get": {"summary": "Liveness probe", "responses": {"200": {"description": "Process is alive"}}}
    },
    "/api/v1/health/ready": {
      "get": {"summary": "Readiness probe", "responses": {"200": {"description": "Service ready"}, "503": {"description": "Database unreachable"}}}
    },
    "/api/v1/recommendations": {
      "post": {
        "summary": "Generate recommendations for a customer",
        "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"customer_id": {"type": "string"}, "limit": {"type": "integer"}, "strategy": {"type": "string", "enum": ["collaborative_filtering", "content_based", "popularity_based", "hybrid"]}}, "required": ["customer_id"]}}],
        "responses": {"200": {"description": "Ranked recommendations with explanation"}, "400": {"description": "Validation failed"}, "404": {"description": "Customer not found"}}
      }
    },
    "/api/v1/feedback": {
      "post": {
        "summary": "Record recommendation feedback",
        "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"customer_id": {"type": "string"}, "product_id": {"type": "string"}, "feedback": {"type": "integer", "enum": [-1, 1]}}, "required": ["customer_id", "product_id", "feedback"]}}],
        "responses": {"200": {"description": "Feedback recorded; strategy may be adjusted"}, "400": {"description": "Validation failed"}}
      }
    },
    "/api/v1/customers/{id}": {
      "get": {"summary": "Fetch a customer profile", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Customer"}, "404": {"description": "Not found"}}},
      "post": {"summary": "Update a customer profile", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Updated customer"}, "404": {"description": "Not found"}}}
    },
    "/api/v1/products": {
      "get": {"summary": "List products", "parameters": [{"name": "category", "in": "query", "type": "string"}, {"name": "limit", "in": "query", "type": "integer"}, {"name": "offset", "in": "query", "type": "integer"}], "responses": {"200": {"description": "Paginated products"}}}
    },
    "/api/v1/products/{id}": {
      "get": {"summary": "Fetch a product", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Product"}, "404": {"description": "Not found"}}}
    },
    "/api/v1/products/{id}/similar": {
      "get": {"summary": "Find similar products", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "Similar products"}, "404": {"description": "Not found"}}}
    },
    "/api/v1/analyze/customer/{id}": {
      "post": {"summary": "Analyze a customer profile", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Customer analysis"}, "404": {"description": "Not found"}}}
    },
    "/api/v1/analyze/product/{id}": {
      "post": {"summary": "Analyze a product", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Product analysis"}, "404": {"description": "Not found"}}}
    },
    "/api/v1/segments": {
      "get": {"summary": "List customer segments", "responses": {"200": {"description": "Segment summaries"}}}
    },
    "/api/v1/segments/{segment}": {
      "get": {"summary": "Analyze a customer segment", "parameters": [{"name": "segment", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Segment analysis"}}}
    }
  }
}`
