// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Each test uses its own domain label so counters do not interfere
// across tests sharing the default registry.

func TestRecordGeneration(t *testing.T) {
	RecordGeneration("test_gen", 40, 60, 0.9)

	if got := testutil.ToFloat64(GeneratedInteractions.WithLabelValues("test_gen", "positive")); got != 40 {
		t.Errorf("positive interactions = %v, want 40", got)
	}
	if got := testutil.ToFloat64(GeneratedInteractions.WithLabelValues("test_gen", "negative")); got != 60 {
		t.Errorf("negative interactions = %v, want 60", got)
	}
	if got := testutil.ToFloat64(GeneratedSparsity.WithLabelValues("test_gen")); got != 0.9 {
		t.Errorf("sparsity = %v, want 0.9", got)
	}

	RecordGeneration("test_gen", 10, 0, 0.8)
	if got := testutil.ToFloat64(GeneratedInteractions.WithLabelValues("test_gen", "positive")); got != 50 {
		t.Errorf("positive interactions after second run = %v, want 50", got)
	}
	if got := testutil.ToFloat64(GeneratedSparsity.WithLabelValues("test_gen")); got != 0.8 {
		t.Errorf("sparsity gauge should hold the latest run, got %v", got)
	}
}

func TestRecordNegativeSampling(t *testing.T) {
	RecordNegativeSampling("test_neg", 7)
	RecordNegativeSampling("test_neg", 3)
	if got := testutil.ToFloat64(NegativeSamplingAttempts.WithLabelValues("test_neg")); got != 10 {
		t.Errorf("attempts = %v, want 10", got)
	}
}

func TestRecordEpoch(t *testing.T) {
	losses := []float64{0.69, 0.55, 0.41}
	for _, l := range losses {
		RecordEpoch("test_epoch", l)
	}

	if got := testutil.ToFloat64(TrainingEpochs.WithLabelValues("test_epoch")); got != 3 {
		t.Errorf("epochs = %v, want 3", got)
	}
	if got := testutil.ToFloat64(TrainingEpochLoss.WithLabelValues("test_epoch")); got != 0.41 {
		t.Errorf("epoch loss = %v, want 0.41", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name   string
		source string
		calls  int
	}{
		{"live", "live", 3},
		{"precomputed", "precomputed", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < tt.calls; i++ {
				RecordRecommendation("test_rec", tt.source)
			}
			if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("test_rec", tt.source)); got != float64(tt.calls) {
				t.Errorf("served(%s) = %v, want %d", tt.source, got, tt.calls)
			}
		})
	}

	RecordRecommendationError("test_rec", "user_out_of_range")
	if got := testutil.ToFloat64(RecommendationErrors.WithLabelValues("test_rec", "user_out_of_range")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestRecordPrecompute(t *testing.T) {
	RecordPrecompute("test_pre", 200, 150*time.Millisecond)

	if got := testutil.ToFloat64(PrecomputedUsers.WithLabelValues("test_pre")); got != 200 {
		t.Errorf("precomputed users = %v, want 200", got)
	}
	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("test_pre", "bulk")); got != 200 {
		t.Errorf("bulk recommendations = %v, want 200", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode int
	}{
		{"health", "GET", "/api/health", 200},
		{"live recommend", "POST", "/api/recommend", 200},
		{"bad request", "POST", "/api/recommend", 400},
		{"missing precomputed", "GET", "/api/recommendations/{dataType}/{userId}", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, strconv.Itoa(tt.statusCode)))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, 5*time.Millisecond)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, strconv.Itoa(tt.statusCode)))
			if after-before != 1 {
				t.Errorf("request counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	before := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/test/limited"))
	RecordRateLimitHit("/test/limited")
	if got := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/test/limited")) - before; got != 1 {
		t.Errorf("rate limit hits delta = %v, want 1", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				RecordEpoch("test_concurrent", 0.5)
				RecordRecommendation("test_concurrent", "live")
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(TrainingEpochs.WithLabelValues("test_concurrent")); got != 1000 {
		t.Errorf("epochs = %v, want 1000", got)
	}
	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("test_concurrent", "live")); got != 1000 {
		t.Errorf("served = %v, want 1000", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordEpoch("test_textfile", 0.25)

	path := filepath.Join(t.TempDir(), "synthrec.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `synthrec_training_epoch_loss{domain="test_textfile"} 0.25`) {
		t.Errorf("textfile missing epoch loss sample:\n%s", data)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "synthrec.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestMetricsLint(t *testing.T) {
	RecordGeneration("test_lint", 1, 1, 0.5)
	RecordTraining("test_lint", time.Second)
	RecordAPIRequest("GET", "/api/stats", 200, time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		if strings.HasPrefix(p.Metric, "synthrec_") {
			t.Errorf("lint problem in %s: %s", p.Metric, p.Text)
		}
	}
}
