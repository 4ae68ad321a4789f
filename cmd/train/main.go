// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Train fits the NCF model on one domain's generated data and saves it as
// the next checkpoint version in the model directory.
//
//	train --data-type ott [--epochs 20] [--batch-size 256] [--lr 0.01] [--embedding-dim 16]
package main

import (
	"context"
	"io"
	"strings"

	"github.com/tomtom215/synthrec/internal/cli"
	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/pipeline"
)

func main() {
	cli.Main("train", run)
}

func run(ctx context.Context, args []string, _ io.Writer) error {
	cmd := cli.New("train", map[string]string{
		"epochs":        "train.epochs",
		"batch-size":    "train.batch_size",
		"lr":            "train.learning_rate",
		"embedding-dim": "train.embedding_dim",
		"seed":          "train.seed",
	})
	dataType := cmd.Flags.String("data-type", "ott", "domain to train (ott, social, media)")
	cmd.Flags.Int("epochs", 20, "training epochs")
	cmd.Flags.Int("batch-size", 256, "samples per optimizer step")
	cmd.Flags.Float64("lr", 0.01, "Adam learning rate")
	cmd.Flags.Int("embedding-dim", 16, "embedding width")
	cmd.Flags.Uint64("seed", 0, "initialisation seed (0 derives one from the clock)")
	if err := cmd.Load(args); err != nil {
		return err
	}

	runner := pipeline.NewRunner(cmd.Config, logging.Logger())
	res, err := runner.Train(ctx, pipeline.TrainRequest{DataType: strings.ToLower(*dataType)})
	if err != nil {
		return err
	}

	logging.Info().
		Str("domain", string(res.Domain)).
		Int("version", res.Version).
		Int("epochs", len(res.Losses)).
		Float64("final_loss", res.FinalLoss()).
		Uint64("seed", res.Seed).
		Dur("duration", res.Duration).
		Msg("Model trained")
	return cmd.Finish()
}
