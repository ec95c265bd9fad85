// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

// Package llm provides the Ollama client used for text generation and
// embeddings. All calls go through a client-side rate limiter and a circuit
// breaker so a slow or unavailable Ollama backend cannot stall the API;
// callers are expected to fall back to deterministic results when a call
// fails.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/shopsense/shopsense/internal/config"
	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/metrics"
)

// ErrUnavailable wraps failures where the LLM backend could not serve the
// request (circuit open, timeout, transport error). Callers match on it to
// switch to fallback behavior.
var ErrUnavailable = errors.New("llm backend unavailable")

const breakerName = "ollama"

// Client calls the Ollama HTTP API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates an Ollama client from configuration.
// Circuit breaker: opens after the configured number of consecutive
// failures, waits the configured timeout before probing again.
func NewClient(cfg *config.OllamaConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	burst := cfg.RequestBurst
	if burst <= 0 {
		burst = int(rps)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: breaker,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// embedRequest is the body of POST /api/embeddings.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate produces a completion for the given prompt. The system prompt
// is optional.
func (c *Client) Generate(ctx context.Context, prompt, system string) (string, error) {
	start := time.Now()

	body, err := c.post(ctx, "/api/generate", generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	})
	if err != nil {
		metrics.RecordLLMCall("generate", time.Since(start), classifyError(err))
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordLLMCall("generate", time.Since(start), "decode")
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	metrics.RecordLLMCall("generate", time.Since(start), "")
	return result.Response, nil
}

// Embed produces an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	body, err := c.post(ctx, "/api/embeddings", embedRequest{
		Model:  c.model,
		Prompt: text,
	})
	if err != nil {
		metrics.RecordLLMCall("embed", time.Since(start), classifyError(err))
		return nil, err
	}

	var result embedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordLLMCall("embed", time.Since(start), "decode")
		return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
	}

	vector := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		vector[i] = float32(v)
	}

	metrics.RecordLLMCall("embed", time.Since(start), "")
	return vector, nil
}

// post sends a JSON request through the rate limiter and circuit breaker
// and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %s", ErrUnavailable, err)
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			// Read a bounded amount for diagnostics
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, msg)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	return body, nil
}

// classifyError maps an error to a metrics label.
func classifyError(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "http"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
