// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/shopsense/shopsense/internal/catalog"
	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/database"
	"github.com/shopsense/shopsense/internal/llm"
	"github.com/shopsense/shopsense/internal/models"
	"github.com/shopsense/shopsense/internal/recommend"
	"github.com/shopsense/shopsense/internal/shopper"
	"github.com/shopsense/shopsense/internal/validation"
)

const (
	serviceName        = "ShopSense"
	serviceVersion     = "1.0.0"
	serviceDescription = "Personalized e-commerce recommendation service"

	defaultSimilarLimit = 5
)

// Handler holds the dependencies for all HTTP endpoints.
type Handler struct {
	db       *database.DB
	engine   *recommend.Engine
	analyzer *shopper.Analyzer
	catalog  *catalog.Catalog
	segments *shopper.Segmentation
	api      *config.APIConfig
}

// NewHandler creates the endpoint handler set.
func NewHandler(db *database.DB, engine *recommend.Engine, analyzer *shopper.Analyzer, cat *catalog.Catalog, segments *shopper.Segmentation, apiCfg *config.APIConfig) *Handler {
	return &Handler{
		db:       db,
		engine:   engine,
		analyzer: analyzer,
		catalog:  cat,
		segments: segments,
		api:      apiCfg,
	}
}

// ServiceInfo handles GET /.
func (h *Handler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	rw.Success(models.ServiceInfo{
		Name:        serviceName,
		Version:     serviceVersion,
		Description: serviceDescription,
		Endpoints: map[string]string{
			"docs":            "/docs",
			"metrics":         "/metrics",
			"health":          "/api/v1/health/live",
			"recommendations": "/api/v1/recommendations",
			"feedback":        "/api/v1/feedback",
			"customers":       "/api/v1/customers/{id}",
			"products":        "/api/v1/products",
			"segments":        "/api/v1/segments",
		},
	})
}

// HealthLive handles GET /api/v1/health/live. It reports process liveness
// only and never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	rw.Success(models.HealthResponse{
		Status:    "alive",
		Version:   serviceVersion,
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady handles GET /api/v1/health/ready. Readiness requires a
// responsive database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	checks := map[string]string{"database": "ok"}
	if err := h.db.Ping(r.Context()); err != nil {
		checks["database"] = err.Error()
		rw.writeJSON(http.StatusServiceUnavailable, models.APIResponse{
			Status: "error",
			Data: models.HealthResponse{
				Status:    "not_ready",
				Version:   serviceVersion,
				Checks:    checks,
				Timestamp: time.Now().UTC(),
			},
			Error: &models.APIError{
				Code:    ErrCodeDatabaseError,
				Message: "database is not reachable",
			},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		})
		return
	}

	rw.Success(models.HealthResponse{
		Status:    "ready",
		Version:   serviceVersion,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	var req models.RecommendationRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	result, err := h.engine.Recommend(r.Context(), req.CustomerID, req.Limit, req.Strategy)
	if err != nil {
		h.recommendError(rw, req.CustomerID, err)
		return
	}

	rw.SuccessCached(result, result.Cached)
}

// Feedback handles POST /api/v1/feedback.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	var req models.FeedbackRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	result, err := h.engine.LearnFromFeedback(r.Context(), req.CustomerID, req.ProductID, req.Feedback)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("customer or product not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(result)
}

// GetCustomer handles GET /api/v1/customers/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	customerID := chi.URLParam(r, "id")

	customer, err := h.db.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("customer " + customerID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(customer)
}

// UpdateCustomer handles POST /api/v1/customers/{id}. Only the fields
// present in the body are applied.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	customerID := chi.URLParam(r, "id")

	var req models.CustomerUpdateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	customer, err := h.db.UpdateCustomer(r.Context(), customerID, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("customer " + customerID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(customer)
}

// ListProducts handles GET /api/v1/products with optional category filter
// and offset pagination.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	category := r.URL.Query().Get("category")
	limit, err := queryInt(r, "limit", h.api.DefaultPageSize)
	if err != nil {
		rw.BadRequest("limit must be a positive integer")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		rw.BadRequest("offset must be a non-negative integer")
		return
	}
	if limit > h.api.MaxPageSize {
		limit = h.api.MaxPageSize
	}

	products, total, err := h.db.ListProducts(r.Context(), category, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(models.ProductListResponse{
		Products: products,
		Pagination: models.PaginationInfo{
			Limit:      limit,
			Offset:     offset,
			HasMore:    offset+len(products) < total,
			TotalCount: total,
		},
	})
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	productID := chi.URLParam(r, "id")

	product, err := h.db.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("product " + productID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(product)
}

// SimilarProducts handles GET /api/v1/products/{id}/similar.
func (h *Handler) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	productID := chi.URLParam(r, "id")

	limit, err := queryInt(r, "limit", defaultSimilarLimit)
	if err != nil {
		rw.BadRequest("limit must be a positive integer")
		return
	}

	similar, err := h.catalog.FindSimilarProducts(r.Context(), productID, limit)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("product " + productID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(map[string]interface{}{
		"product_id":       productID,
		"similar_products": similar,
	})
}

// AnalyzeCustomer handles POST /api/v1/analyze/customer/{id}.
func (h *Handler) AnalyzeCustomer(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	customerID := chi.URLParam(r, "id")

	analysis, err := h.analyzer.AnalyzeProfile(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("customer " + customerID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(analysis)
}

// AnalyzeProduct handles POST /api/v1/analyze/product/{id}.
func (h *Handler) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	productID := chi.URLParam(r, "id")

	analysis, err := h.catalog.AnalyzeProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("product " + productID + " not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(analysis)
}

// Segments handles GET /api/v1/segments.
func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	summaries, err := h.segments.Segments(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(map[string]interface{}{"segments": summaries})
}

// AnalyzeSegment handles GET /api/v1/segments/{segment}. Unknown segments
// return an empty analysis rather than an error.
func (h *Handler) AnalyzeSegment(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)
	segment := chi.URLParam(r, "segment")

	analysis, err := h.segments.AnalyzeSegment(r.Context(), segment)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(analysis)
}

// recommendError maps engine failures to API errors.
func (h *Handler) recommendError(rw *responseWriter, customerID string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("customer " + customerID + " not found")
	case errors.Is(err, llm.ErrUnavailable):
		rw.Error(http.StatusServiceUnavailable, ErrCodeLLMError, "language model backend is unavailable")
	case strings.HasPrefix(err.Error(), "unknown strategy"):
		rw.BadRequest(err.Error())
	default:
		rw.DatabaseError(err)
	}
}

// decodeAndValidate decodes a JSON body into dst and validates it. On
// failure it writes the error response and returns false.
func decodeAndValidate(rw *responseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}
