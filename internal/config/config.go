// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/validation"
)

// Config holds all application configuration.
// Every command loads the whole tree and reads the sections it needs.
type Config struct {
	Generate   GenerateConfig   `koanf:"generate"`
	Train      TrainConfig      `koanf:"train"`
	Precompute PrecomputeConfig `koanf:"precompute"`
	Paths      PathsConfig      `koanf:"paths"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// SparsityConfig holds the requested sparsity per synthetic domain.
type SparsityConfig struct {
	OTT    float64 `koanf:"ott" validate:"gte=0,lt=1"`
	Social float64 `koanf:"social" validate:"gte=0,lt=1"`
	Media  float64 `koanf:"media" validate:"gte=0,lt=1"`
}

// For returns the configured sparsity for a domain name.
func (s SparsityConfig) For(domain string) (float64, error) {
	switch domain {
	case "ott":
		return s.OTT, nil
	case "social":
		return s.Social, nil
	case "media":
		return s.Media, nil
	default:
		return 0, fmt.Errorf("no sparsity configured for domain %q", domain)
	}
}

// GenerateConfig controls synthetic data generation.
type GenerateConfig struct {
	NumUsers      int            `koanf:"n_users" validate:"min=1"`
	NumItems      int            `koanf:"n_items" validate:"min=1"`
	Seed          uint64         `koanf:"seed"`
	NegativeRatio float64        `koanf:"negative_ratio" validate:"gte=0"`
	Sparsity      SparsityConfig `koanf:"sparsity"`

	// MaxNegativeAttempts bounds negative rejection sampling.
	// 0 keeps the unbounded behaviour.
	MaxNegativeAttempts int `koanf:"max_negative_attempts" validate:"gte=0"`
}

// TrainConfig controls model construction and training.
type TrainConfig struct {
	Epochs       int     `koanf:"epochs" validate:"min=1"`
	BatchSize    int     `koanf:"batch_size" validate:"min=1"`
	LearningRate float64 `koanf:"learning_rate" validate:"gt=0"`
	EmbeddingDim int     `koanf:"embedding_dim" validate:"min=1,max=1024"`
	HiddenDims   []int   `koanf:"hidden_dims" validate:"min=1,dive,min=1"`

	// Seed seeds weight initialisation and epoch shuffling.
	// 0 derives a seed from the clock, so runs are not reproducible.
	Seed uint64 `koanf:"seed"`

	// KeepVersions is how many checkpoint versions to retain per domain.
	KeepVersions int `koanf:"keep_versions" validate:"min=1"`
}

// PrecomputeConfig controls bulk recommendation output.
type PrecomputeConfig struct {
	TopK      int    `koanf:"top_k" validate:"min=1,max=100"`
	StorePath string `koanf:"store_path" validate:"required"`
}

// PathsConfig holds the on-disk artifact locations.
type PathsConfig struct {
	DataDir   string `koanf:"data_dir" validate:"required"`
	ModelDir  string `koanf:"model_dir" validate:"required"`
	OutputDir string `koanf:"output_dir" validate:"required"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// ReloadInterval is how often the server polls the model directory
	// for checkpoints written by the train command.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ToLogging converts to the logging package configuration.
func (l LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// MetricsConfig holds metrics export settings for batch commands.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus registry in text format
	// after a batch command finishes (node_exporter textfile collector).
	Textfile string `koanf:"textfile"`
}

// Validate checks the configuration with struct tags plus the rules that
// tags cannot express.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitRequests == 0 {
		return fmt.Errorf("server.rate_limit_requests must be positive when rate limiting is enabled")
	}
	return nil
}
