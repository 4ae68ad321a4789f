// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/synthrec/internal/dataset"
	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/algorithms"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/synth"
)

const (
	testUsers = 4
	testItems = 6
)

// testEnvelope mirrors APIResponse with a raw payload for typed decoding.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type fixture struct {
	dataDir   string
	outputDir string
	models    *ModelRegistry
	store     *storage.RecommendationStore
	handler   *Handler
	server    http.Handler
	ottModel  *algorithms.NCF
	precomp   recommend.Precomputed
}

type fixtureOptions struct {
	noStore    bool
	noRegistry bool
	middleware *ChiMiddlewareConfig
}

// newFixture lays out a data dir with OTT and social metadata, an OTT
// precomputed file and store entries, and a trained-looking OTT checkpoint.
// Media has nothing on disk.
func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	ctx := context.Background()
	root := t.TempDir()
	f := &fixture{
		dataDir:   filepath.Join(root, "data"),
		outputDir: filepath.Join(root, "output"),
	}

	writeMetadata(t, f.dataDir, synth.DomainOTT, &synth.Metadata{
		Type: synth.DomainOTT.DisplayName(), Domain: synth.DomainOTT,
		NumUsers: 100, NumItems: 50, NumInteractions: 420, Sparsity: 0.916,
		NumPositive: 420, NumNegative: 420, NumTotal: 840,
	})
	writeMetadata(t, f.dataDir, synth.DomainSocial, &synth.Metadata{
		Type: synth.DomainSocial.DisplayName(), Domain: synth.DomainSocial,
		NumUsers: 80, NumItems: 40, NumInteractions: 300, Sparsity: 0.906,
	})

	f.precomp = recommend.Precomputed{
		0: {{ItemID: 5, Score: 0.9}, {ItemID: 2, Score: 0.8}, {ItemID: 1, Score: 0.3}},
		1: {{ItemID: 0, Score: 0.7}, {ItemID: 3, Score: 0.6}, {ItemID: 4, Score: 0.1}},
	}
	if err := storage.WritePrecomputed(storage.PrecomputedPath(f.outputDir, synth.DomainOTT), f.precomp); err != nil {
		t.Fatalf("WritePrecomputed: %v", err)
	}

	var reader RecommendationReader
	if !opts.noStore {
		store, err := storage.OpenRecommendationStore("")
		if err != nil {
			t.Fatalf("OpenRecommendationStore: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		if err := store.ReplaceDomain(ctx, synth.DomainOTT, f.precomp); err != nil {
			t.Fatalf("ReplaceDomain: %v", err)
		}
		f.store = store
		reader = store
	}

	if !opts.noRegistry {
		checkpoints, err := storage.NewCheckpointStore(filepath.Join(root, "models"), 2, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewCheckpointStore: %v", err)
		}
		f.ottModel = saveTestModel(t, checkpoints, synth.DomainOTT, 7)

		f.models = NewModelRegistry(checkpoints, zerolog.Nop())
		if n, err := f.models.ReloadAll(ctx); err != nil || n != 1 {
			t.Fatalf("ReloadAll = %d, %v; want 1, nil", n, err)
		}
	}

	f.handler = NewHandler(HandlerConfig{
		DataDir:   f.dataDir,
		OutputDir: f.outputDir,
	}, reader, f.models)
	t.Cleanup(f.handler.Close)

	mw := opts.middleware
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	f.server = NewRouter(f.handler, mw).Setup()
	return f
}

func writeMetadata(t *testing.T, dir string, domain synth.Domain, meta *synth.Metadata) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataset.PathsFor(dir, domain).Metadata, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func saveTestModel(t *testing.T, checkpoints *storage.CheckpointStore, domain synth.Domain, seed uint64) *algorithms.NCF {
	t.Helper()
	model, err := algorithms.NewNCF(algorithms.DefaultNCFConfig(testUsers, testItems), synth.NewRand(seed))
	if err != nil {
		t.Fatalf("NewNCF: %v", err)
	}
	_, err = checkpoints.SaveCheckpoint(context.Background(), &storage.Checkpoint{
		Domain:       domain,
		Model:        model.State(),
		Losses:       []float64{0.69},
		TrainedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TrainingTime: time.Second,
	})
	if err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	return model
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json (body %s)", ct, rec.Body.String())
	}
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
	return out
}

func intPtr(v int) *int { return &v }
