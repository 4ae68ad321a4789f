// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synthrec/internal/config"
	"github.com/tomtom215/synthrec/internal/dataset"
	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/algorithms"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/synth"
	"github.com/tomtom215/synthrec/internal/validation"
)

// Runner executes the batch stages against one configuration.
type Runner struct {
	cfg    *config.Config
	logger zerolog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewRunner creates a runner. cfg must already be validated.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRunner(cfg *config.Config, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger.With().Str("component", "pipeline").Logger(),
		now:    time.Now,
	}
}

// Generate builds a training set per requested domain and writes it to the
// data directory. Every domain uses the configured seed, so the output of
// one domain does not depend on which others were requested.
func (r *Runner) Generate(ctx context.Context, req GenerateRequest) ([]*synth.Metadata, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	gen := r.cfg.Generate

	var opts []synth.NegativeOption
	if gen.MaxNegativeAttempts > 0 {
		opts = append(opts, synth.WithMaxAttempts(gen.MaxNegativeAttempts))
	}

	out := make([]*synth.Metadata, 0, len(req.DataTypes))
	for _, domain := range toDomains(req.DataTypes) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		sparsity, err := gen.Sparsity.For(string(domain))
		if err != nil {
			return out, err
		}
		params := synth.Params{
			NumUsers: gen.NumUsers,
			NumItems: gen.NumItems,
			Sparsity: sparsity,
			Seed:     gen.Seed,
		}

		ds, meta, err := synth.BuildTrainingSet(domain, params, gen.NegativeRatio, opts...)
		if err != nil {
			return out, fmt.Errorf("generate %s: %w", domain, err)
		}
		if err := dataset.Save(r.cfg.Paths.DataDir, domain, ds, meta); err != nil {
			return out, err
		}

		r.logger.Info().
			Str("domain", string(domain)).
			Int("positive", meta.NumPositive).
			Int("negative", meta.NumNegative).
			Float64("sparsity", meta.Sparsity).
			Str("dir", r.cfg.Paths.DataDir).
			Msg("Dataset generated")
		out = append(out, meta)
	}
	return out, nil
}

// TrainResult summarises a finished training run.
type TrainResult struct {
	Domain   synth.Domain
	Version  int
	Losses   []float64
	Seed     uint64
	Duration time.Duration
}

// FinalLoss returns the loss of the last epoch.
func (t *TrainResult) FinalLoss() float64 {
	if len(t.Losses) == 0 {
		return 0
	}
	return t.Losses[len(t.Losses)-1]
}

// Train fits a model on the stored dataset for one domain and saves it as
// the next checkpoint version.
func (r *Runner) Train(ctx context.Context, req TrainRequest) (*TrainResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	domain := synth.Domain(req.DataType)
	tc := r.cfg.Train

	ds, meta, err := dataset.Load(r.cfg.Paths.DataDir, domain)
	if err != nil {
		return nil, err
	}

	seed := tc.Seed
	if seed == 0 {
		seed = uint64(r.now().UnixNano()) //nolint:gosec // G115: any bit pattern is a valid seed
	}
	rng := synth.NewRand(seed)

	model, err := algorithms.NewNCF(algorithms.NCFConfig{
		NumUsers:     meta.NumUsers,
		NumItems:     meta.NumItems,
		EmbeddingDim: tc.EmbeddingDim,
		HiddenDims:   tc.HiddenDims,
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", domain, err)
	}

	trainer := algorithms.NewTrainer(algorithms.TrainerConfig{
		Epochs:       tc.Epochs,
		BatchSize:    tc.BatchSize,
		LearningRate: tc.LearningRate,
		Domain:       string(domain),
	}, rng, r.logger)

	start := r.now()
	losses, err := trainer.Train(ctx, model, ds.Users(), ds.Items(), ds.Labels)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", domain, err)
	}
	elapsed := r.now().Sub(start)

	checkpoints, err := r.checkpoints()
	if err != nil {
		return nil, err
	}
	version, err := checkpoints.SaveCheckpoint(ctx, &storage.Checkpoint{
		Domain:       domain,
		Model:        model.State(),
		Losses:       losses,
		Dataset:      *meta,
		TrainedAt:    r.now().UTC(),
		TrainingTime: elapsed,
	})
	if err != nil {
		return nil, err
	}

	return &TrainResult{
		Domain:   domain,
		Version:  version,
		Losses:   losses,
		Seed:     seed,
		Duration: elapsed,
	}, nil
}

// Infer ranks every item for one user with the latest checkpoint.
func (r *Runner) Infer(ctx context.Context, req InferRequest) (*recommend.UserRecommendations, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	checkpoints, err := r.checkpoints()
	if err != nil {
		return nil, err
	}
	rec, err := r.loadRecommender(ctx, checkpoints, synth.Domain(req.DataType))
	if err != nil {
		return nil, err
	}

	recs, err := rec.Recommend(ctx, req.UserID, nil, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("infer %s user %d: %w", req.DataType, req.UserID, err)
	}
	return &recommend.UserRecommendations{UserID: req.UserID, Recommendations: recs}, nil
}

// PrecomputeResult describes one domain written by Precompute.
type PrecomputeResult struct {
	Domain   synth.Domain
	Users    int
	Path     string
	Duration time.Duration
}

// Precompute writes the top-k list of every user to the JSON output file and
// the badger store. With DataType "all", domains without a checkpoint are
// skipped with a warning; the run fails only if every domain was skipped.
func (r *Runner) Precompute(ctx context.Context, req PrecomputeRequest) ([]PrecomputeResult, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	checkpoints, err := r.checkpoints()
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenRecommendationStore(r.cfg.Precompute.StorePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			r.logger.Error().Err(cerr).Msg("Failed to close recommendation store")
		}
	}()

	skipMissing := req.DataType == AllDataTypes
	var results []PrecomputeResult
	for _, domain := range req.Domains() {
		res, err := r.precomputeDomain(ctx, checkpoints, store, domain, req.TopK)
		if errors.Is(err, storage.ErrModelNotFound) && skipMissing {
			r.logger.Warn().Str("domain", string(domain)).Msg("No trained model, skipping domain")
			continue
		}
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("precompute: no domain had a trained model: %w", storage.ErrModelNotFound)
	}
	return results, nil
}

func (r *Runner) precomputeDomain(ctx context.Context, checkpoints *storage.CheckpointStore, store *storage.RecommendationStore, domain synth.Domain, k int) (*PrecomputeResult, error) {
	rec, err := r.loadRecommender(ctx, checkpoints, domain)
	if err != nil {
		return nil, err
	}

	start := r.now()
	all, err := rec.PrecomputeAll(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("precompute %s: %w", domain, err)
	}

	path := storage.PrecomputedPath(r.cfg.Paths.OutputDir, domain)
	if err := storage.WritePrecomputed(path, all); err != nil {
		return nil, err
	}
	if err := store.ReplaceDomain(ctx, domain, all); err != nil {
		return nil, err
	}

	return &PrecomputeResult{
		Domain:   domain,
		Users:    len(all),
		Path:     path,
		Duration: r.now().Sub(start),
	}, nil
}

func (r *Runner) checkpoints() (*storage.CheckpointStore, error) {
	return storage.NewCheckpointStore(r.cfg.Paths.ModelDir, r.cfg.Train.KeepVersions, r.logger)
}

// loadRecommender builds a recommender from the latest checkpoint. A
// missing checkpoint yields an error wrapping storage.ErrModelNotFound.
func (r *Runner) loadRecommender(ctx context.Context, checkpoints *storage.CheckpointStore, domain synth.Domain) (*recommend.Recommender, error) {
	cp, meta, err := checkpoints.LoadCheckpoint(ctx, domain, 0)
	if err != nil {
		return nil, err
	}
	model, err := algorithms.NewNCFFromState(&cp.Model)
	if err != nil {
		return nil, fmt.Errorf("restore %s v%d: %w", domain, meta.Version, err)
	}
	r.logger.Debug().
		Str("domain", string(domain)).
		Int("version", meta.Version).
		Time("trained_at", cp.TrainedAt).
		Msg("Model loaded")
	return recommend.NewRecommender(string(domain), model, r.logger), nil
}
