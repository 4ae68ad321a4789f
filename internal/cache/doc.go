// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package cache provides a thread-safe in-memory cache with TTL expiry.

The HTTP API uses it to avoid re-reading files on every request:

  - dataset metadata behind /api/stats
  - precomputed recommendation files behind /api/recommend-simple

Entries are keyed by file path. When the pipeline rewrites a file the stale
entry is served until its TTL runs out, so the TTL bounds how long a rerun
of precompute takes to become visible.

# Usage

	c := cache.New[*synth.Metadata](time.Minute, 0)
	defer c.Close()

	meta, err := c.GetOrLoad(path, func() (*synth.Metadata, error) {
	    return dataset.LoadMetadata(dir, domain)
	})

# Thread Safety

All methods are safe for concurrent use. Expired entries are removed lazily
on Get and by a background sweeper that runs until Close.
*/
package cache
