// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package middleware provides chi-compatible HTTP middleware for the API server.

Key Components:

  - PrometheusMetrics: request count and latency per method, route pattern
    and status, exported through internal/metrics
  - Compression: gzip for clients that send Accept-Encoding: gzip

Both have the func(http.Handler) http.Handler shape and are installed with
r.Use:

	r := chi.NewRouter()
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Request IDs, CORS and rate limiting live in internal/api, next to the
response envelope they write into.
*/
package middleware
