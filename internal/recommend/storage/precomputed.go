// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/synth"
)

// PrecomputedPath returns {dir}/{domain}_recommendations.json.
func PrecomputedPath(dir string, domain synth.Domain) string {
	return filepath.Join(dir, string(domain)+"_recommendations.json")
}

// WritePrecomputed writes recs as a JSON object keyed by decimal user ID.
func WritePrecomputed(path string, recs recommend.Precomputed) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// String keys keep the file identical to what JSON consumers expect
	// regardless of how the encoder treats integer map keys.
	byUser := make(map[string][]recommend.Recommendation, len(recs))
	for user, list := range recs {
		byUser[strconv.Itoa(user)] = list
	}

	data, err := json.MarshalIndent(byUser, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadPrecomputed loads a file written by WritePrecomputed. A missing file
// yields an error wrapping ErrNotFound.
func ReadPrecomputed(path string) (recommend.Precomputed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path built from a validated domain
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var byUser map[string][]recommend.Recommendation
	if err := json.Unmarshal(data, &byUser); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make(recommend.Precomputed, len(byUser))
	for key, list := range byUser {
		user, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse %s: bad user key %q", path, key)
		}
		out[user] = list
	}
	return out, nil
}
