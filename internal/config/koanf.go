// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/synthrec/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file, env vars and flags.
func defaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			NumUsers:      200,
			NumItems:      100,
			Seed:          42,
			NegativeRatio: 1.0,
			Sparsity: SparsityConfig{
				OTT:    0.90,
				Social: 0.85,
				Media:  0.88,
			},
			MaxNegativeAttempts: 0,
		},
		Train: TrainConfig{
			Epochs:       20,
			BatchSize:    256,
			LearningRate: 0.01,
			EmbeddingDim: 16,
			HiddenDims:   []int{32, 16},
			Seed:         0,
			KeepVersions: 3,
		},
		Precompute: PrecomputeConfig{
			TopK:      10,
			StorePath: "data/recommendations.badger",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			ModelDir:  "models",
			OutputDir: "public/recommendations",
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
			ReloadInterval:    time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Built-in defaults (lowest priority)
//  2. Config file (YAML)
//  3. Environment variables
//  4. Explicitly set command-line flags (highest priority)
//
// overrides maps koanf keys ("train.epochs") to typed values; see FlagOverrides.
func LoadWithKoanf(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flag overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FlagOverrides collects the flags that were set on the command line and
// maps them to koanf keys. Flags left at their default are not included, so
// they do not mask values from the config file or environment.
//
//	fs.Int("epochs", 20, "training epochs")
//	overrides := config.FlagOverrides(fs, map[string]string{"epochs": "train.epochs"})
func FlagOverrides(fs *flag.FlagSet, keys map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	fs.Visit(func(f *flag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		if getter, ok := f.Value.(flag.Getter); ok {
			out[key] = getter.Get()
			return
		}
		out[key] = f.Value.String()
	})
	return out
}

// findConfigFile searches for a config file in the default locations.
// The CONFIG_PATH environment variable takes precedence.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists string slice keys that may arrive comma-separated from env vars.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// intSliceConfigPaths lists int slice keys that may arrive comma-separated from env vars.
var intSliceConfigPaths = []string{
	"train.hidden_dims",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		parts, ok := splitCommaValue(k.Get(path))
		if !ok {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	for _, path := range intSliceConfigPaths {
		parts, ok := splitCommaValue(k.Get(path))
		if !ok {
			continue
		}
		ints := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("%s: invalid integer %q", path, p)
			}
			ints = append(ints, n)
		}
		if err := k.Set(path, ints); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// splitCommaValue splits a non-empty string value. Values that are already
// slices are left alone.
func splitCommaValue(val interface{}) ([]string, bool) {
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil, false
	}

	parts := strings.Split(strVal, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed, len(trimmed) > 0
}

// envTransformFunc maps environment variable names to config keys.
// Unmapped variables are dropped so unrelated environment does not leak in.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"synthrec_n_users":               "generate.n_users",
		"synthrec_n_items":               "generate.n_items",
		"synthrec_seed":                  "generate.seed",
		"synthrec_negative_ratio":        "generate.negative_ratio",
		"synthrec_max_negative_attempts": "generate.max_negative_attempts",
		"synthrec_sparsity_ott":          "generate.sparsity.ott",
		"synthrec_sparsity_social":       "generate.sparsity.social",
		"synthrec_sparsity_media":        "generate.sparsity.media",

		"synthrec_epochs":        "train.epochs",
		"synthrec_batch_size":    "train.batch_size",
		"synthrec_learning_rate": "train.learning_rate",
		"synthrec_embedding_dim": "train.embedding_dim",
		"synthrec_hidden_dims":   "train.hidden_dims",
		"synthrec_train_seed":    "train.seed",
		"synthrec_keep_versions": "train.keep_versions",

		"synthrec_top_k":      "precompute.top_k",
		"synthrec_store_path": "precompute.store_path",

		"synthrec_data_dir":   "paths.data_dir",
		"synthrec_model_dir":  "paths.model_dir",
		"synthrec_output_dir": "paths.output_dir",

		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_timeout":          "server.timeout",
		"shutdown_timeout":      "server.shutdown_timeout",
		"rate_limit_requests":   "server.rate_limit_requests",
		"rate_limit_window":     "server.rate_limit_window",
		"disable_rate_limit":    "server.rate_limit_disabled",
		"cors_origins":          "server.cors_origins",
		"model_reload_interval": "server.reload_interval",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"metrics_textfile": "metrics.textfile",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
