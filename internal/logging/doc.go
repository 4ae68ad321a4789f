// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package logging provides centralized zerolog-based structured logging for Synthrec.
//
// Every command initialises the global logger once from configuration and
// components derive child loggers tagged with a component name:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.Component("trainer")
//	logger.Info().Int("epoch", 3).Float64("loss", 0.41).Msg("Epoch complete")
//
// Logs are written to stderr by default. The inference command prints its
// result on stdout, so nothing in this package may write there unless a
// caller passes os.Stdout explicitly.
//
// # Configuration
//
// Environment Variables (mapped through internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Request Context
//
// The HTTP layer stores a request ID and a correlation ID in the request
// context. Ctx(ctx) returns a logger carrying both fields.
//
// # slog Bridge
//
// SlogHandler adapts zerolog to slog.Handler so the suture supervisor's
// sutureslog event hook logs through the same writer.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
