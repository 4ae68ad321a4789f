// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Precompute ranks every item for every user with the latest checkpoint and
// writes {output-dir}/{domain}_recommendations.json plus the badger store
// the API server reads.
//
// With --data-type all, domains without a trained model are skipped; the
// command fails only when none has one.
//
//	precompute [--data-type all] [--top-k 10] [--store-path data/recommendations.badger]
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
	cli.Main("precompute", run)
}

func run(ctx context.Context, args []string, _ io.Writer) error {
	cmd := cli.New("precompute", map[string]string{
		"top-k":      "precompute.top_k",
		"store-path": "precompute.store_path",
	})
	dataType := cmd.Flags.String("data-type", pipeline.AllDataTypes, "domain (ott, social, media, all)")
	cmd.Flags.Int("top-k", 10, "recommendations per user")
	cmd.Flags.String("store-path", "data/recommendations.badger", "badger store for the API server")
	if err := cmd.Load(args); err != nil {
		return err
	}

	runner := pipeline.NewRunner(cmd.Config, logging.Logger())
	results, err := runner.Precompute(ctx, pipeline.PrecomputeRequest{
		DataType: strings.ToLower(*dataType),
		TopK:     cmd.Config.Precompute.TopK,
	})
	if err != nil {
		return err
	}

	for _, res := range results {
		logging.Info().
			Str("domain", string(res.Domain)).
			Int("users", res.Users).
			Str("path", res.Path).
			Dur("duration", res.Duration).
			Msg("Recommendations precomputed")
	}
	return cmd.Finish()
}
