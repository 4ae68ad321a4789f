// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package recommend

import "fmt"

// Config holds request limits shared by the CLIs and the API.
type Config struct {
	// DefaultTopK is used when a caller does not ask for a size.
	DefaultTopK int `json:"default_top_k"`

	// MaxTopK caps the list size a caller may request.
	MaxTopK int `json:"max_top_k"`
}

// DefaultConfig returns the default limits.
func DefaultConfig() *Config {
	return &Config{
		DefaultTopK: 10,
		MaxTopK:     100,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultTopK <= 0 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("max_top_k must be >= default_top_k, got %d < %d", c.MaxTopK, c.DefaultTopK)
	}
	return nil
}

// ResolveTopK applies the default for k == 0 and rejects values outside
// [1, MaxTopK].
func (c *Config) ResolveTopK(k int) (int, error) {
	if k == 0 {
		return c.DefaultTopK, nil
	}
	if k < 1 || k > c.MaxTopK {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidTopK, k, c.MaxTopK)
	}
	return k, nil
}
