// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/shopsense/shopsense/internal/trainer"
)

type mockTrainer struct {
	runs   atomic.Int32
	runErr error
}

func (m *mockTrainer) RunOnce(_ context.Context) (trainer.Stats, error) {
	m.runs.Add(1)
	return trainer.Stats{}, m.runErr
}

func TestTrainerServiceInterface(t *testing.T) {
	var _ suture.Service = (*TrainerService)(nil)
}

func TestTrainerServiceDefaults(t *testing.T) {
	svc := NewTrainerService(&mockTrainer{}, 0)
	if svc.interval != defaultTrainerInterval {
		t.Errorf("expected default interval %v, got %v", defaultTrainerInterval, svc.interval)
	}
	if svc.String() != "embedding-trainer" {
		t.Errorf("expected name 'embedding-trainer', got %q", svc.String())
	}
}

func TestTrainerServiceRunsImmediatelyAndOnInterval(t *testing.T) {
	runner := &mockTrainer{}
	svc := NewTrainerService(runner, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for runner.runs.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 runs, got %d", runner.runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop in time")
	}
}

func TestTrainerServiceKeepsRunningAfterFailure(t *testing.T) {
	runner := &mockTrainer{runErr: errors.New("embedding backend unavailable")}
	svc := NewTrainerService(runner, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for runner.runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected service to keep running after failures, got %d runs", runner.runs.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop in time")
	}
}
