// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopsense/shopsense/internal/logging"
	"github.com/shopsense/shopsense/internal/trainer"
)

const defaultTrainerInterval = time.Hour

// TrainerRunner matches the embedding trainer's batch entry point.
// Satisfied by *trainer.Trainer.
type TrainerRunner interface {
	RunOnce(ctx context.Context) (trainer.Stats, error)
}

// TrainerService runs the embedding trainer on a fixed interval as a
// supervised service. One run happens immediately on startup so a fresh
// import doesn't wait a full interval for its embeddings.
//
// Run errors are logged rather than returned; returning would make suture
// restart the service and re-run immediately, which against an unavailable
// embedding backend just burns the failure budget. The interval acts as
// the retry backoff.
type TrainerService struct {
	runner   TrainerRunner
	interval time.Duration
	name     string
}

// NewTrainerService creates a supervised wrapper around the trainer.
func NewTrainerService(runner TrainerRunner, interval time.Duration) *TrainerService {
	if interval <= 0 {
		interval = defaultTrainerInterval
	}
	return &TrainerService{
		runner:   runner,
		interval: interval,
		name:     "embedding-trainer",
	}
}

// Serve implements suture.Service.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *TrainerService) runOnce(ctx context.Context) {
	if _, err := s.runner.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("service", s.name).
			Msg("trainer run failed")
	}
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *TrainerService) String() string {
	return s.name
}
