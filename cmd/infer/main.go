// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Infer prints one user's top-k recommendations from the latest checkpoint
// as JSON on stdout:
//
//	{"userId":3,"recommendations":[{"itemId":17,"score":0.93},...]}
//
// Logs go to stderr.
//
//	infer --data-type ott --user-id 3 [--top-k 10]
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/synthrec/internal/cli"
	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/pipeline"
)

func main() {
	cli.Main("infer", run)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := cli.New("infer", nil)
	dataType := cmd.Flags.String("data-type", "ott", "domain (ott, social, media)")
	userID := cmd.Flags.Int("user-id", 0, "user index")
	topK := cmd.Flags.Int("top-k", 10, "number of recommendations")
	if err := cmd.Load(args); err != nil {
		return err
	}

	runner := pipeline.NewRunner(cmd.Config, logging.Logger())
	out, err := runner.Infer(ctx, pipeline.InferRequest{
		DataType: strings.ToLower(*dataType),
		UserID:   *userID,
		TopK:     *topK,
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	if _, err := fmt.Fprintln(stdout, string(data)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return cmd.Finish()
}
