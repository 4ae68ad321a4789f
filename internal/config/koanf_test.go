// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and changes into an empty
// directory so no stray config.yaml is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Generate.NumUsers != 200 {
		t.Errorf("Generate.NumUsers = %d, want 200", cfg.Generate.NumUsers)
	}
	if cfg.Generate.NumItems != 100 {
		t.Errorf("Generate.NumItems = %d, want 100", cfg.Generate.NumItems)
	}
	if cfg.Generate.Sparsity.OTT != 0.90 || cfg.Generate.Sparsity.Social != 0.85 || cfg.Generate.Sparsity.Media != 0.88 {
		t.Errorf("Generate.Sparsity = %+v, want {0.9 0.85 0.88}", cfg.Generate.Sparsity)
	}
	if cfg.Generate.NegativeRatio != 1.0 {
		t.Errorf("Generate.NegativeRatio = %v, want 1.0", cfg.Generate.NegativeRatio)
	}
	if cfg.Train.Epochs != 20 {
		t.Errorf("Train.Epochs = %d, want 20", cfg.Train.Epochs)
	}
	if cfg.Train.BatchSize != 256 {
		t.Errorf("Train.BatchSize = %d, want 256", cfg.Train.BatchSize)
	}
	if cfg.Train.LearningRate != 0.01 {
		t.Errorf("Train.LearningRate = %v, want 0.01", cfg.Train.LearningRate)
	}
	if cfg.Train.EmbeddingDim != 16 {
		t.Errorf("Train.EmbeddingDim = %d, want 16", cfg.Train.EmbeddingDim)
	}
	if len(cfg.Train.HiddenDims) != 2 || cfg.Train.HiddenDims[0] != 32 || cfg.Train.HiddenDims[1] != 16 {
		t.Errorf("Train.HiddenDims = %v, want [32 16]", cfg.Train.HiddenDims)
	}
	if cfg.Precompute.TopK != 10 {
		t.Errorf("Precompute.TopK = %d, want 10", cfg.Precompute.TopK)
	}
	if cfg.Server.RateLimitRequests != 30 || cfg.Server.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v, want 30/1m", cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf(nil)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Paths.ModelDir != "models" {
		t.Errorf("Paths.ModelDir = %q, want models", cfg.Paths.ModelDir)
	}
	if len(cfg.Train.HiddenDims) != 2 {
		t.Errorf("Train.HiddenDims = %v, want 2 layers", cfg.Train.HiddenDims)
	}
}

func TestLoadWithKoanf_FileEnvAndFlagsLayering(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
train:
  epochs: 5
  batch_size: 64
generate:
  sparsity:
    ott: 0.5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SYNTHREC_BATCH_SIZE", "128")
	t.Setenv("SYNTHREC_HIDDEN_DIMS", "64, 32, 8")

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.Int("epochs", 20, "")
	fs.Float64("lr", 0.01, "")
	fs.Int("embedding-dim", 16, "")
	if err := fs.Parse([]string{"--lr", "0.05"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	overrides := FlagOverrides(fs, map[string]string{
		"epochs":        "train.epochs",
		"lr":            "train.learning_rate",
		"embedding-dim": "train.embedding_dim",
	})

	cfg, err := LoadWithKoanf(overrides)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Train.Epochs != 5 {
		t.Errorf("Train.Epochs = %d, want 5 from file (unset flag must not override)", cfg.Train.Epochs)
	}
	if cfg.Train.BatchSize != 128 {
		t.Errorf("Train.BatchSize = %d, want 128 from env", cfg.Train.BatchSize)
	}
	if cfg.Train.LearningRate != 0.05 {
		t.Errorf("Train.LearningRate = %v, want 0.05 from flag", cfg.Train.LearningRate)
	}
	if cfg.Train.EmbeddingDim != 16 {
		t.Errorf("Train.EmbeddingDim = %d, want default 16", cfg.Train.EmbeddingDim)
	}
	if got := cfg.Train.HiddenDims; len(got) != 3 || got[0] != 64 || got[2] != 8 {
		t.Errorf("Train.HiddenDims = %v, want [64 32 8]", got)
	}
	if cfg.Generate.Sparsity.OTT != 0.5 {
		t.Errorf("Generate.Sparsity.OTT = %v, want 0.5", cfg.Generate.Sparsity.OTT)
	}
	if cfg.Generate.Sparsity.Social != 0.85 {
		t.Errorf("Generate.Sparsity.Social = %v, want default 0.85", cfg.Generate.Sparsity.Social)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("SYNTHREC_EPOCHS", "0")

	_, err := LoadWithKoanf(nil)
	if err == nil {
		t.Fatal("expected validation error for zero epochs")
	}
	if !strings.Contains(err.Error(), "Train.Epochs") {
		t.Errorf("error = %v, want mention of Train.Epochs", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"sparsity out of range", func(c *Config) { c.Generate.Sparsity.Media = 1.0 }, "Sparsity.Media"},
		{"empty hidden dims", func(c *Config) { c.Train.HiddenDims = nil }, "HiddenDims"},
		{"negative learning rate", func(c *Config) { c.Train.LearningRate = -1 }, "LearningRate"},
		{"top-k too large", func(c *Config) { c.Precompute.TopK = 1000 }, "TopK"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"zero rate limit", func(c *Config) { c.Server.RateLimitRequests = 0 }, "rate_limit_requests"},
		{"zero rate limit but disabled", func(c *Config) {
			c.Server.RateLimitRequests = 0
			c.Server.RateLimitDisabled = true
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"SYNTHREC_EPOCHS": "train.epochs",
		"LOG_LEVEL":       "logging.level",
		"HTTP_PORT":       "server.port",
		"PATH":            "",
		"HOME":            "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSparsityFor(t *testing.T) {
	t.Parallel()

	s := SparsityConfig{OTT: 0.9, Social: 0.85, Media: 0.88}
	if v, err := s.For("social"); err != nil || v != 0.85 {
		t.Errorf("For(social) = %v, %v", v, err)
	}
	if _, err := s.For("books"); err == nil {
		t.Error("For(books) should fail")
	}
}
