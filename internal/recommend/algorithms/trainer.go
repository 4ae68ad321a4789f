// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package algorithms

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/synthrec/internal/metrics"
	"github.com/tomtom215/synthrec/internal/recommend"
)

// TrainerConfig contains configuration for NCF training.
type TrainerConfig struct {
	// Epochs is the number of passes over the data.
	// Default: 20.
	Epochs int

	// BatchSize is the number of samples per optimizer step.
	// The last batch of an epoch may be shorter.
	// Default: 256.
	BatchSize int

	// LearningRate is the Adam step size.
	// Default: 0.01.
	LearningRate float64

	// Domain labels logs and metrics.
	Domain string

	// LogEvery is how many epochs pass between info-level progress logs.
	// Every epoch is logged at debug level regardless.
	// Default: 5.
	LogEvery int
}

// DefaultTrainerConfig returns the default training hyperparameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Epochs:       20,
		BatchSize:    256,
		LearningRate: 0.01,
		LogEvery:     5,
	}
}

// Validate checks the hyperparameters.
func (c TrainerConfig) Validate() error {
	if c.Epochs < 1 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	}
	return nil
}

// Trainer fits an NCF model with Adam on binary cross-entropy.
type Trainer struct {
	config TrainerConfig
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewTrainer creates a trainer. rng drives the per-epoch sample order.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(cfg TrainerConfig, rng *rand.Rand, logger zerolog.Logger) *Trainer {
	if cfg.LogEvery < 1 {
		cfg.LogEvery = DefaultTrainerConfig().LogEvery
	}
	return &Trainer{
		config: cfg,
		rng:    rng,
		logger: logger.With().Str("component", "trainer").Str("domain", cfg.Domain).Logger(),
	}
}

// Train runs the configured number of epochs over the samples and returns
// the mean batch loss of each epoch. Each epoch visits the samples in a new
// random order, split into contiguous batches with one optimizer step per
// batch. Cancelling ctx stops training at the next epoch boundary.
func (t *Trainer) Train(ctx context.Context, model *NCF, users, items []int, labels []float64) ([]float64, error) {
	if err := t.config.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("train: model is required")
	}
	if len(users) != len(items) || len(users) != len(labels) {
		return nil, fmt.Errorf("train: %w: %d users, %d items, %d labels",
			recommend.ErrLengthMismatch, len(users), len(items), len(labels))
	}
	n := len(users)
	if n == 0 {
		return nil, fmt.Errorf("train: %w: no samples", ErrEmptyBatch)
	}

	start := time.Now()
	opt := NewAdam(AdamConfig{LearningRate: t.config.LearningRate})
	batchSize := t.config.BatchSize
	numBatches := (n + batchSize - 1) / batchSize

	t.logger.Info().
		Int("samples", n).
		Int("epochs", t.config.Epochs).
		Int("batch_size", batchSize).
		Float64("learning_rate", t.config.LearningRate).
		Int("params", model.NumParams()).
		Msg("Training started")

	batchUsers := make([]int, 0, batchSize)
	batchItems := make([]int, 0, batchSize)
	batchLabels := make([]float64, 0, batchSize)

	progress := rate.Sometimes{Every: t.config.LogEvery}
	losses := make([]float64, 0, t.config.Epochs)
	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return nil, fmt.Errorf("train: stopped before epoch %d: %w", epoch, ctx.Err())
		}

		perm := t.rng.Perm(n)
		var total float64
		for b := 0; b < numBatches; b++ {
			lo := b * batchSize
			hi := min(lo+batchSize, n)

			batchUsers, batchItems, batchLabels = batchUsers[:0], batchItems[:0], batchLabels[:0]
			for _, idx := range perm[lo:hi] {
				batchUsers = append(batchUsers, users[idx])
				batchItems = append(batchItems, items[idx])
				batchLabels = append(batchLabels, labels[idx])
			}

			grads, loss, err := model.ComputeGradients(batchUsers, batchItems, batchLabels)
			if err != nil {
				return nil, fmt.Errorf("train: epoch %d batch %d: %w", epoch, b, err)
			}
			if err := model.ApplyGradientStep(opt, grads); err != nil {
				return nil, fmt.Errorf("train: epoch %d batch %d: %w", epoch, b, err)
			}
			total += loss
		}

		epochLoss := total / float64(numBatches)
		losses = append(losses, epochLoss)
		metrics.RecordEpoch(t.config.Domain, epochLoss)

		t.logger.Debug().Int("epoch", epoch).Float64("loss", epochLoss).Msg("Epoch complete")
		progress.Do(func() {
			t.logger.Info().
				Int("epoch", epoch).
				Int("epochs", t.config.Epochs).
				Float64("loss", epochLoss).
				Msg("Training progress")
		})
	}

	model.markTrained()
	elapsed := time.Since(start)
	metrics.RecordTraining(t.config.Domain, elapsed)

	t.logger.Info().
		Float64("final_loss", losses[len(losses)-1]).
		Dur("duration", elapsed).
		Int("steps", opt.Steps()).
		Msg("Training complete")

	return losses, nil
}
