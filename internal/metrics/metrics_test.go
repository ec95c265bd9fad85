// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/products", "200"))

	RecordAPIRequest("GET", "/api/v1/products", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/products", "200"))
	if after != before+1 {
		t.Errorf("expected counter increment, before=%f after=%f", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("expected gauge %f, got %f", before+1, got)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("expected gauge restored to %f, got %f", before, got)
	}
}

func TestRecordDBQueryErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "products"))

	RecordDBQuery("SELECT", "products", 5*time.Millisecond, nil)
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "products")); got != before {
		t.Errorf("successful query should not increment errors, got %f", got)
	}

	RecordDBQuery("SELECT", "products", 5*time.Millisecond, errors.New("no such table"))
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "products")); got != before+1 {
		t.Errorf("failed query should increment errors, got %f", got)
	}
}

func TestRecordFeedback(t *testing.T) {
	posBefore := testutil.ToFloat64(FeedbackReceived.WithLabelValues("positive"))
	negBefore := testutil.ToFloat64(FeedbackReceived.WithLabelValues("negative"))

	RecordFeedback(1)
	RecordFeedback(-1)
	RecordFeedback(0) // no feedback, should not count

	if got := testutil.ToFloat64(FeedbackReceived.WithLabelValues("positive")); got != posBefore+1 {
		t.Errorf("expected positive count %f, got %f", posBefore+1, got)
	}
	if got := testutil.ToFloat64(FeedbackReceived.WithLabelValues("negative")); got != negBefore+1 {
		t.Errorf("expected negative count %f, got %f", negBefore+1, got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("hybrid"))

	RecordRecommendation("hybrid", 10, 120*time.Millisecond)

	after := testutil.ToFloat64(RecommendationsGenerated.WithLabelValues("hybrid"))
	if after != before+10 {
		t.Errorf("expected counter +10, before=%f after=%f", before, after)
	}
}

func TestRecordTrainerRun(t *testing.T) {
	errBefore := testutil.ToFloat64(TrainerErrors)

	RecordTrainerRun(2*time.Second, 25, nil)
	if got := testutil.ToFloat64(TrainerErrors); got != errBefore {
		t.Errorf("successful run should not increment errors, got %f", got)
	}
	if got := testutil.ToFloat64(TrainerLastSuccess); got == 0 {
		t.Error("successful run should set last success timestamp")
	}

	RecordTrainerRun(time.Second, 0, errors.New("ollama unavailable"))
	if got := testutil.ToFloat64(TrainerErrors); got != errBefore+1 {
		t.Errorf("failed run should increment errors, got %f", got)
	}
}
