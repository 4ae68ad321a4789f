// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Generate writes synthetic training sets for the ott, social and media
// domains: positive interactions from each domain's pattern plus sampled
// negatives, saved as .npy arrays with a metadata JSON file per domain.
//
//	generate [--data-type ott,social] [--seed 42] [--data-dir data]
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
	cli.Main("generate", run)
}

func run(ctx context.Context, args []string, _ io.Writer) error {
	cmd := cli.New("generate", map[string]string{
		"seed":           "generate.seed",
		"n-users":        "generate.n_users",
		"n-items":        "generate.n_items",
		"negative-ratio": "generate.negative_ratio",
	})
	dataTypes := cmd.Flags.String("data-type", "ott,social,media", "comma-separated domains to generate")
	cmd.Flags.Uint64("seed", 42, "random seed")
	cmd.Flags.Int("n-users", 200, "number of users")
	cmd.Flags.Int("n-items", 100, "number of items")
	cmd.Flags.Float64("negative-ratio", 1.0, "negatives per positive")
	if err := cmd.Load(args); err != nil {
		return err
	}

	runner := pipeline.NewRunner(cmd.Config, logging.Logger())
	metas, err := runner.Generate(ctx, pipeline.GenerateRequest{DataTypes: splitList(*dataTypes)})
	if err != nil {
		return err
	}

	for _, m := range metas {
		logging.Info().
			Str("domain", string(m.Domain)).
			Int("users", m.NumUsers).
			Int("items", m.NumItems).
			Int("interactions", m.NumTotal).
			Float64("sparsity", m.Sparsity).
			Msg("Generated")
	}
	return cmd.Finish()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
