// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package api provides HTTP routing using the Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/middleware"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler *Handler
	cfg     *config.APIConfig
}

// NewRouter creates a router around the given handler set.
func NewRouter(handler *Handler, cfg *config.APIConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup configures all HTTP routes and the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Get("/", router.handler.ServiceInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/docs/doc.json", openAPIDocument)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))
	r.Get("/docs", http.RedirectHandler("/docs/index.html", http.StatusMovedPermanently).ServeHTTP)

	// Health endpoints skip rate limiting so monitors are never rejected.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/feedback", router.handler.Feedback)

		r.Get("/customers/{id}", router.handler.GetCustomer)
		r.Post("/customers/{id}", router.handler.UpdateCustomer)

		r.Get("/products", router.handler.ListProducts)
		r.Get("/products/{id}", router.handler.GetProduct)
		r.Get("/products/{id}/similar", router.handler.SimilarProducts)

		r.Post("/analyze/customer/{id}", router.handler.AnalyzeCustomer)
		r.Post("/analyze/product/{id}", router.handler.AnalyzeProduct)

		r.Get("/segments", router.handler.Segments)
		r.Get("/segments/{segment}", router.handler.AnalyzeSegment)
	})

	return r
}

// rateLimit builds the per-IP limiter for the API routes. A zero request
// budget disables limiting.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.cfg.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		router.cfg.RateLimitReqs,
		router.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			rw := newResponseWriter(w, r)
			rw.Error(http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
		}),
	)
}
