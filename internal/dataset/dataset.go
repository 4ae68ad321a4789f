// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package dataset persists generated interactions as NumPy .npy arrays plus a
// JSON metadata file, one set per domain:
//
//	{dir}/{domain}_user_ids.npy   int64
//	{dir}/{domain}_item_ids.npy   int64
//	{dir}/{domain}_labels.npy     float64
//	{dir}/{domain}_metadata.json
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/sbinet/npyio"

	"github.com/tomtom215/synthrec/internal/synth"
)

// ErrDatasetNotFound is returned when a domain's files are missing.
var ErrDatasetNotFound = errors.New("dataset not found")

// Paths lists the files that make up one domain's dataset.
type Paths struct {
	UserIDs  string
	ItemIDs  string
	Labels   string
	Metadata string
}

// PathsFor returns the file locations for domain under dir.
func PathsFor(dir string, domain synth.Domain) Paths {
	prefix := filepath.Join(dir, string(domain))
	return Paths{
		UserIDs:  prefix + "_user_ids.npy",
		ItemIDs:  prefix + "_item_ids.npy",
		Labels:   prefix + "_labels.npy",
		Metadata: prefix + "_metadata.json",
	}
}

// Save writes ds and meta for domain, creating dir if needed.
func Save(dir string, domain synth.Domain, ds *synth.Dataset, meta *synth.Metadata) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("save %s dataset: %w", domain, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	p := PathsFor(dir, domain)
	if err := writeNpy(p.UserIDs, ds.UserIDs); err != nil {
		return err
	}
	if err := writeNpy(p.ItemIDs, ds.ItemIDs); err != nil {
		return err
	}
	if err := writeNpy(p.Labels, ds.Labels); err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s metadata: %w", domain, err)
	}
	if err := os.WriteFile(p.Metadata, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", p.Metadata, err)
	}
	return nil
}

// Load reads a domain's arrays and metadata. Missing files yield an error
// wrapping ErrDatasetNotFound.
func Load(dir string, domain synth.Domain) (*synth.Dataset, *synth.Metadata, error) {
	p := PathsFor(dir, domain)
	ds := &synth.Dataset{}

	if err := readNpy(p.UserIDs, &ds.UserIDs); err != nil {
		return nil, nil, err
	}
	if err := readNpy(p.ItemIDs, &ds.ItemIDs); err != nil {
		return nil, nil, err
	}
	if err := readNpy(p.Labels, &ds.Labels); err != nil {
		return nil, nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, nil, fmt.Errorf("load %s dataset: %w", domain, err)
	}

	meta, err := LoadMetadata(dir, domain)
	if err != nil {
		return nil, nil, err
	}
	return ds, meta, nil
}

// LoadMetadata reads only the metadata file for a domain.
func LoadMetadata(dir string, domain synth.Domain) (*synth.Metadata, error) {
	path := PathsFor(dir, domain).Metadata
	data, err := os.ReadFile(path) //nolint:gosec // G304: path built from a validated domain
	if err != nil {
		return nil, wrapNotFound(path, err)
	}
	meta := &synth.Metadata{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return meta, nil
}

func writeNpy(path string, val interface{}) error {
	f, err := os.Create(path) //nolint:gosec // G304: path built from a validated domain
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := npyio.Write(f, val); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func readNpy(path string, ptr interface{}) error {
	f, err := os.Open(path) //nolint:gosec // G304: path built from a validated domain
	if err != nil {
		return wrapNotFound(path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only handle

	if err := npyio.Read(f, ptr); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func wrapNotFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
