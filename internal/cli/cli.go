// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package cli holds the start-up and shut-down steps shared by the commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/synthrec/internal/config"
	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/metrics"
)

// commonKeys maps the flags every command registers to config keys.
var commonKeys = map[string]string{
	"log-level":        "logging.level",
	"log-format":       "logging.format",
	"metrics-textfile": "metrics.textfile",
	"data-dir":         "paths.data_dir",
	"model-dir":        "paths.model_dir",
	"output-dir":       "paths.output_dir",
}

// Command is one parsed invocation.
type Command struct {
	Name   string
	Flags  *flag.FlagSet
	Config *config.Config

	keys map[string]string
}

// New creates a flag set with the common flags registered. keys maps the
// command's own flags to config keys.
func New(name string, keys map[string]string) *Command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, console)")
	fs.String("metrics-textfile", "", "write Prometheus metrics to this file on exit")
	fs.String("data-dir", "data", "directory for generated datasets")
	fs.String("model-dir", "models", "directory for model checkpoints")
	fs.String("output-dir", "public/recommendations", "directory for precomputed recommendation files")

	all := make(map[string]string, len(commonKeys)+len(keys))
	for k, v := range commonKeys {
		all[k] = v
	}
	for k, v := range keys {
		all[k] = v
	}
	return &Command{Name: name, Flags: fs, keys: all}
}

// Load parses args, loads the layered configuration and initialises the
// global logger. Logs go to stderr so stdout stays free for command output.
func (c *Command) Load(args []string) error {
	if err := c.Flags.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadWithKoanf(config.FlagOverrides(c.Flags, c.keys))
	if err != nil {
		return err
	}
	c.Config = cfg

	logging.Init(cfg.Logging.ToLogging())
	return nil
}

// Finish writes the metrics textfile when one is configured.
func (c *Command) Finish() error {
	if c.Config == nil || c.Config.Metrics.Textfile == "" {
		return nil
	}
	return metrics.WriteTextfile(c.Config.Metrics.Textfile)
}

// SignalContext returns a context canceled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Main runs fn and exits non-zero on failure. -h exits 0.
func Main(name string, fn func(ctx context.Context, args []string, stdout io.Writer) error) {
	ctx, stop := SignalContext()
	err := fn(ctx, os.Args[1:], os.Stdout)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	default:
		logging.Error().Err(err).Str("command", name).Msg("Command failed")
		os.Exit(1)
	}
}
