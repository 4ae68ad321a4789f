// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package recommend turns a trained scorer into ranked recommendations.
//
// # Architecture
//
// The package has no model of its own. A Scorer (the NCF model in
// internal/recommend/algorithms) maps (user, item) pairs to probabilities and
// ranks candidates; Recommender adds defaults, logging and metrics on top.
//
//   - Recommend: top-K for one user over a candidate set, every item by default
//   - PrecomputeAll: Recommend for every user 0..n-1, in order
//
// Precomputed maps are the only artifact persisted for serving and are
// rebuilt in full whenever the model changes.
//
// # Ordering
//
// Results are sorted by score descending. Equal scores are ordered by
// ascending item ID, so repeated calls on an unchanged model return identical
// lists.
//
// # Usage
//
//	rec := recommend.NewRecommender("ott", model, logger)
//	top, err := rec.Recommend(ctx, userID, nil, 10)
//
//	all, err := rec.PrecomputeAll(ctx, 10)
//
// # Thread Safety
//
// Recommender holds no mutable state. Concurrency safety is that of the
// underlying Scorer; the NCF model allows concurrent scoring.
package recommend
