// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/algorithms"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/synth"
)

// CheckpointSource is the part of storage.CheckpointStore the registry uses.
type CheckpointSource interface {
	LatestVersion(domain synth.Domain) (version int, ok bool, err error)
	LoadCheckpoint(ctx context.Context, domain synth.Domain, version int) (*storage.Checkpoint, *storage.ModelMetadata, error)
}

// LoadedModel is a servable model with the checkpoint it came from.
type LoadedModel struct {
	Domain      synth.Domain
	Version     int
	TrainedAt   time.Time
	LoadedAt    time.Time
	Recommender *recommend.Recommender
}

// ModelInfo describes a loaded model for the health endpoint.
type ModelInfo struct {
	Domain    string    `json:"domain"`
	Version   int       `json:"version"`
	NumUsers  int       `json:"nUsers"`
	NumItems  int       `json:"nItems"`
	TrainedAt time.Time `json:"trainedAt"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// ModelRegistry holds the newest trained model per domain for live
// inference and swaps in new checkpoints as they appear.
type ModelRegistry struct {
	source CheckpointSource
	logger zerolog.Logger

	mu     sync.RWMutex
	models map[synth.Domain]*LoadedModel
}

// NewModelRegistry creates an empty registry over source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelRegistry(source CheckpointSource, logger zerolog.Logger) *ModelRegistry {
	return &ModelRegistry{
		source: source,
		logger: logger.With().Str("component", "model_registry").Logger(),
		models: make(map[synth.Domain]*LoadedModel),
	}
}

// Get returns the loaded model for domain.
func (r *ModelRegistry) Get(domain synth.Domain) (*LoadedModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[domain]
	return m, ok
}

// Models lists the loaded models in domain order.
func (r *ModelRegistry) Models() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ModelInfo, 0, len(r.models))
	for _, d := range synth.AllDomains() {
		m, ok := r.models[d]
		if !ok {
			continue
		}
		out = append(out, ModelInfo{
			Domain:    string(d),
			Version:   m.Version,
			NumUsers:  m.Recommender.NumUsers(),
			NumItems:  m.Recommender.NumItems(),
			TrainedAt: m.TrainedAt,
			LoadedAt:  m.LoadedAt,
		})
	}
	return out
}

// Reload loads the newest checkpoint for domain unless that version is
// already loaded. It reports whether a new model was swapped in. A domain
// without checkpoints yields an error wrapping storage.ErrModelNotFound and
// keeps whatever model was loaded before.
func (r *ModelRegistry) Reload(ctx context.Context, domain synth.Domain) (bool, error) {
	latest, ok, err := r.source.LatestVersion(domain)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", domain, err)
	}
	if !ok {
		return false, fmt.Errorf("reload %s: %w", domain, storage.ErrModelNotFound)
	}
	if cur, loaded := r.Get(domain); loaded && cur.Version == latest {
		return false, nil
	}

	cp, meta, err := r.source.LoadCheckpoint(ctx, domain, latest)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", domain, err)
	}
	model, err := algorithms.NewNCFFromState(&cp.Model)
	if err != nil {
		return false, fmt.Errorf("reload %s v%d: %w", domain, meta.Version, err)
	}

	loaded := &LoadedModel{
		Domain:      domain,
		Version:     meta.Version,
		TrainedAt:   cp.TrainedAt,
		LoadedAt:    time.Now().UTC(),
		Recommender: recommend.NewRecommender(string(domain), model, r.logger),
	}

	r.mu.Lock()
	r.models[domain] = loaded
	r.mu.Unlock()

	r.logger.Info().
		Str("domain", string(domain)).
		Int("version", meta.Version).
		Int("users", model.NumUsers()).
		Int("items", model.NumItems()).
		Msg("Model loaded")

	return true, nil
}

// ReloadAll reloads every domain. Domains without a checkpoint are skipped.
// It returns how many models were swapped in and any other failures joined.
func (r *ModelRegistry) ReloadAll(ctx context.Context) (int, error) {
	var (
		changed int
		errs    []error
	)
	for _, d := range synth.AllDomains() {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		swapped, err := r.Reload(ctx, d)
		switch {
		case errors.Is(err, storage.ErrModelNotFound):
			r.logger.Debug().Str("domain", string(d)).Msg("No checkpoint to load")
		case err != nil:
			errs = append(errs, err)
		case swapped:
			changed++
		}
	}
	return changed, errors.Join(errs...)
}
