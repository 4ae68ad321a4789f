// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/synth"
)

func openTestRecStore(t *testing.T) *RecommendationStore {
	t.Helper()
	store, err := OpenRecommendationStore("")
	if err != nil {
		t.Fatalf("OpenRecommendationStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecommendationStore_ReplaceAndGet(t *testing.T) {
	t.Parallel()

	store := openTestRecStore(t)
	ctx := context.Background()

	recs := recommend.Precomputed{
		0:  {{ItemID: 4, Score: 0.8}, {ItemID: 2, Score: 0.6}},
		12: {{ItemID: 1, Score: 0.9}},
	}
	if err := store.ReplaceDomain(ctx, synth.DomainOTT, recs); err != nil {
		t.Fatalf("ReplaceDomain() error = %v", err)
	}

	got, err := store.Get(ctx, synth.DomainOTT, 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 || got[0].ItemID != 4 || got[1].Score != 0.6 {
		t.Errorf("Get(0) = %+v", got)
	}

	// Key "recs/ott/1" must not be confused with "recs/ott/12".
	if _, err := store.Get(ctx, synth.DomainOTT, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(1) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, synth.DomainMedia, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(media, 0) error = %v, want ErrNotFound", err)
	}

	count, err := store.CountUsers(ctx, synth.DomainOTT)
	if err != nil || count != 2 {
		t.Errorf("CountUsers() = %d, %v, want 2", count, err)
	}
}

func TestRecommendationStore_ReplaceDropsOldEntries(t *testing.T) {
	t.Parallel()

	store := openTestRecStore(t)
	ctx := context.Background()

	first := recommend.Precomputed{0: {{ItemID: 1, Score: 1}}, 1: {{ItemID: 2, Score: 1}}, 2: {{ItemID: 3, Score: 1}}}
	if err := store.ReplaceDomain(ctx, synth.DomainSocial, first); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceDomain(ctx, synth.DomainMedia, recommend.Precomputed{0: {{ItemID: 9, Score: 1}}}); err != nil {
		t.Fatal(err)
	}

	second := recommend.Precomputed{1: {{ItemID: 7, Score: 0.5}}}
	if err := store.ReplaceDomain(ctx, synth.DomainSocial, second); err != nil {
		t.Fatal(err)
	}

	if n, _ := store.CountUsers(ctx, synth.DomainSocial); n != 1 {
		t.Errorf("social users = %d, want 1", n)
	}
	if _, err := store.Get(ctx, synth.DomainSocial, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale user 0 still present: %v", err)
	}
	got, err := store.Get(ctx, synth.DomainSocial, 1)
	if err != nil || got[0].ItemID != 7 {
		t.Errorf("Get(social, 1) = %+v, %v", got, err)
	}

	if n, _ := store.CountUsers(ctx, synth.DomainMedia); n != 1 {
		t.Errorf("media users = %d, want 1 (other domains untouched)", n)
	}
}

func TestRecommendationStore_Persistent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recs.badger")
	ctx := context.Background()

	store, err := OpenRecommendationStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceDomain(ctx, synth.DomainOTT, recommend.Precomputed{5: {{ItemID: 1, Score: 0.3}}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenRecommendationStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, synth.DomainOTT, 5)
	if err != nil || len(got) != 1 || got[0].Score != 0.3 {
		t.Errorf("Get after reopen = %+v, %v", got, err)
	}
}

func TestRecommendationStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store := openTestRecStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.ReplaceDomain(ctx, synth.DomainOTT, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("ReplaceDomain() error = %v", err)
	}
	if _, err := store.Get(ctx, synth.DomainOTT, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := store.CountUsers(ctx, synth.DomainOTT); !errors.Is(err, context.Canceled) {
		t.Errorf("CountUsers() error = %v", err)
	}
}
