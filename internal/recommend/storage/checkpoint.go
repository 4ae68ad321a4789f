// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synthrec/internal/synth"
)

// CheckpointSchemaVersion is bumped whenever Checkpoint or NCFModelState
// change shape incompatibly.
const CheckpointSchemaVersion = 1

// DenseLayerState holds one fully connected layer. Weights is row-major
// with Out rows of In columns.
type DenseLayerState struct {
	In      int
	Out     int
	Weights []float64
	Bias    []float64
}

// NCFModelState is the serializable state of an NCF model.
type NCFModelState struct {
	NumUsers     int
	NumItems     int
	EmbeddingDim int
	HiddenDims   []int

	// UserEmbeddings is row-major, NumUsers rows of EmbeddingDim.
	UserEmbeddings []float64

	// ItemEmbeddings is row-major, NumItems rows of EmbeddingDim.
	ItemEmbeddings []float64

	// Layers holds the hidden layers followed by the single-output layer.
	Layers []DenseLayerState
}

// Checkpoint bundles trained weights with training history and the
// metadata of the data they were trained on.
type Checkpoint struct {
	SchemaVersion int
	Domain        synth.Domain
	Model         NCFModelState
	Losses        []float64
	Dataset       synth.Metadata
	TrainedAt     time.Time
	TrainingTime  time.Duration
}

// CheckpointName returns the store name for a domain's model.
func CheckpointName(domain synth.Domain) string {
	return string(domain) + "_ncf"
}

// CheckpointStore saves and loads NCF checkpoints per domain on top of Store.
type CheckpointStore struct {
	store        *Store
	keepVersions int
	logger       zerolog.Logger
}

// NewCheckpointStore opens a checkpoint store in dir. After each save, all
// but the newest keepVersions checkpoints of that domain are removed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointStore(dir string, keepVersions int, logger zerolog.Logger) (*CheckpointStore, error) {
	store, err := NewStore(dir)
	if err != nil {
		return nil, err
	}
	return &CheckpointStore{
		store:        store,
		keepVersions: keepVersions,
		logger:       logger.With().Str("component", "checkpoints").Logger(),
	}, nil
}

// SaveCheckpoint writes cp as the next version for its domain and returns
// that version.
func (c *CheckpointStore) SaveCheckpoint(ctx context.Context, cp *Checkpoint) (int, error) {
	cp.SchemaVersion = CheckpointSchemaVersion
	name := CheckpointName(cp.Domain)

	latest, _ := c.store.GetLatestVersion(name)
	version := latest + 1

	meta := ModelMetadata{
		TrainedAt:          cp.TrainedAt,
		InteractionCount:   cp.Dataset.TotalInteractions(),
		ItemCount:          cp.Model.NumItems,
		UserCount:          cp.Model.NumUsers,
		TrainingDurationMS: cp.TrainingTime.Milliseconds(),
	}
	if err := c.store.Save(ctx, name, version, cp, meta); err != nil {
		return 0, fmt.Errorf("save %s checkpoint: %w", cp.Domain, err)
	}

	removed, err := c.store.Prune(ctx, name, c.keepVersions)
	if err != nil {
		return version, fmt.Errorf("prune %s checkpoints: %w", cp.Domain, err)
	}

	c.logger.Info().
		Str("domain", string(cp.Domain)).
		Int("version", version).
		Ints("pruned", removed).
		Str("path", c.store.ModelPath(name, version)).
		Msg("Checkpoint saved")

	return version, nil
}

// LoadCheckpoint loads a domain's checkpoint. Version 0 loads the latest.
// A missing checkpoint yields an error wrapping ErrModelNotFound.
func (c *CheckpointStore) LoadCheckpoint(ctx context.Context, domain synth.Domain, version int) (*Checkpoint, *ModelMetadata, error) {
	cp := &Checkpoint{}
	meta, err := c.store.Load(ctx, CheckpointName(domain), version, cp)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s checkpoint: %w", domain, err)
	}
	if cp.SchemaVersion != CheckpointSchemaVersion {
		return nil, nil, fmt.Errorf("load %s checkpoint: schema version %d, want %d",
			domain, cp.SchemaVersion, CheckpointSchemaVersion)
	}
	return cp, meta, nil
}

// LatestVersion rescans the directory and returns the newest checkpoint
// version for domain. ok is false when the domain has none.
func (c *CheckpointStore) LatestVersion(domain synth.Domain) (version int, ok bool, err error) {
	if err := c.store.Rescan(); err != nil {
		return 0, false, err
	}
	version, ok = c.store.GetLatestVersion(CheckpointName(domain))
	return version, ok, nil
}

// ListCheckpoints returns metadata for the latest checkpoint of each domain.
func (c *CheckpointStore) ListCheckpoints(ctx context.Context) ([]ModelMetadata, error) {
	return c.store.ListModels(ctx)
}
