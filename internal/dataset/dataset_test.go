// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/tomtom215/synthrec/internal/synth"
)

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	ds, meta, err := synth.BuildTrainingSet(synth.DomainOTT, synth.Params{
		NumUsers: 30, NumItems: 20, Sparsity: 0.8, Seed: 42,
	}, 1.0)
	if err != nil {
		t.Fatalf("BuildTrainingSet() error = %v", err)
	}

	if err := Save(dir, synth.DomainOTT, ds, meta); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p := PathsFor(dir, synth.DomainOTT)
	for _, f := range []string{p.UserIDs, p.ItemIDs, p.Labels, p.Metadata} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("expected %s to exist: %v", f, err)
		}
	}

	got, gotMeta, err := Load(dir, synth.DomainOTT)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(got.UserIDs, ds.UserIDs) || !slices.Equal(got.ItemIDs, ds.ItemIDs) || !slices.Equal(got.Labels, ds.Labels) {
		t.Error("arrays changed across save and load")
	}
	if gotMeta.NumTotal != meta.NumTotal || gotMeta.Type != "OTT" || !slices.Equal(gotMeta.PopularItems, meta.PopularItems) {
		t.Errorf("metadata = %+v, want %+v", gotMeta, meta)
	}
}

func TestMetadataJSONFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	meta := &synth.Metadata{
		Type: "Social Media", Domain: synth.DomainSocial,
		NumUsers: 2, NumItems: 2, NumInteractions: 1, Sparsity: 0.75,
		ViralItems: []int{1}, Influencers: []int{0},
		NumPositive: 1, NumNegative: 1, NumTotal: 2,
	}
	ds := &synth.Dataset{UserIDs: []int64{0, 1}, ItemIDs: []int64{1, 0}, Labels: []float64{1, 0}}
	if err := Save(dir, synth.DomainSocial, ds, meta); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(PathsFor(dir, synth.DomainSocial).Metadata)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"type"`, `"n_users"`, `"n_items"`, `"n_interactions"`, `"sparsity"`,
		`"viral_items"`, `"influencers"`, `"n_positive"`, `"n_negative"`, `"n_total"`} {
		if !strings.Contains(string(raw), field) {
			t.Errorf("metadata JSON missing %s:\n%s", field, raw)
		}
	}
	if strings.Contains(string(raw), `"popular_items"`) {
		t.Error("social metadata should omit OTT subsets")
	}
}

func TestMetadataJSON_EmptyDomainSubsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain synth.Domain
		want   []string
		absent []string
	}{
		{synth.DomainOTT, []string{`"popular_items":[]`, `"power_users":[]`}, []string{`"viral_items"`, `"trending_items"`}},
		{synth.DomainSocial, []string{`"viral_items":[]`, `"influencers":[]`}, []string{`"popular_items"`, `"trending_items"`}},
		{synth.DomainMedia, []string{`"trending_items":[]`}, []string{`"power_users"`, `"influencers"`}},
	}

	for _, tt := range tests {
		t.Run(string(tt.domain), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			meta := &synth.Metadata{
				Type: tt.domain.DisplayName(), Domain: tt.domain,
				NumUsers: 1, NumItems: 2, NumInteractions: 1, Sparsity: 0.5,
				NumPositive: 1, NumNegative: 0, NumTotal: 1,
			}
			ds := &synth.Dataset{UserIDs: []int64{0}, ItemIDs: []int64{1}, Labels: []float64{1}}
			if err := Save(dir, tt.domain, ds, meta); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(PathsFor(dir, tt.domain).Metadata)
			if err != nil {
				t.Fatal(err)
			}
			raw := strings.Join(strings.Fields(string(data)), "")
			for _, field := range append(tt.want, `"n_negative":0`) {
				if !strings.Contains(raw, field) {
					t.Errorf("metadata JSON missing %s:\n%s", field, raw)
				}
			}
			for _, field := range tt.absent {
				if strings.Contains(raw, field) {
					t.Errorf("metadata JSON carries foreign subset %s:\n%s", field, raw)
				}
			}

			got, err := LoadMetadata(dir, tt.domain)
			if err != nil {
				t.Fatal(err)
			}
			if got.NumPositive != 1 || got.Domain != tt.domain {
				t.Errorf("LoadMetadata() = %+v", got)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := Load(t.TempDir(), synth.DomainMedia)
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Load() error = %v, want ErrDatasetNotFound", err)
	}
	if _, err := LoadMetadata(t.TempDir(), synth.DomainMedia); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("LoadMetadata() error = %v, want ErrDatasetNotFound", err)
	}
}

func TestSave_RejectsMismatchedColumns(t *testing.T) {
	t.Parallel()

	bad := &synth.Dataset{UserIDs: []int64{1}, ItemIDs: []int64{1, 2}, Labels: []float64{1}}
	if err := Save(t.TempDir(), synth.DomainOTT, bad, &synth.Metadata{}); err == nil {
		t.Error("expected error for mismatched columns")
	}
}
