// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package storage persists trained models and precomputed recommendations.
//
// # Model Files
//
// Store writes versioned, gob-encoded, gzip-compressed model files with a
// SHA-256 checksum of the uncompressed payload:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ModelMetadata)
//	  - CompressedData (gzip-compressed gob-encoded model state)
//
// Files are written to a temporary name and renamed into place. Loading
// version 0 selects the newest version found on disk.
//
// # Checkpoints
//
// CheckpointStore layers NCF checkpoints on top of Store. Each domain has
// its own name ("ott_ncf", "social_ncf", "media_ncf"); every save takes the
// next version and prunes all but the newest KeepVersions:
//
//	cs, err := storage.NewCheckpointStore("models", 3, logger)
//	version, err := cs.SaveCheckpoint(ctx, &storage.Checkpoint{
//	    Domain: synth.DomainOTT,
//	    Model:  model.State(),
//	    Losses: losses,
//	})
//	cp, meta, err := cs.LoadCheckpoint(ctx, synth.DomainOTT, 0)
//
// # Precomputed Recommendations
//
// WritePrecomputed and ReadPrecomputed handle the per-domain JSON file
// consumed by static frontends:
//
//	{"0": [{"itemId": 12, "score": 0.93}, ...], "1": [...]}
//
// RecommendationStore keeps the same lists in BadgerDB under
// recs/{domain}/{user} so the HTTP server can answer single-user lookups
// without loading whole files.
//
// # Thread Safety
//
// Store and RecommendationStore are safe for concurrent use.
package storage
