// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/synthrec/internal/metrics"
)

// progressEvery is how many users PrecomputeAll processes between progress logs.
const progressEvery = 50

// Recommender produces ranked lists from a trained Scorer.
type Recommender struct {
	domain string
	scorer Scorer
	logger zerolog.Logger
}

// NewRecommender creates a recommender for one domain's model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(domain string, scorer Scorer, logger zerolog.Logger) *Recommender {
	return &Recommender{
		domain: domain,
		scorer: scorer,
		logger: logger.With().Str("component", "recommender").Str("domain", domain).Logger(),
	}
}

// NumUsers returns the number of users the model covers.
func (r *Recommender) NumUsers() int {
	return r.scorer.NumUsers()
}

// NumItems returns the number of items the model covers.
func (r *Recommender) NumItems() int {
	return r.scorer.NumItems()
}

// Recommend returns the top k items for userID. A nil candidate set means
// every item. The list has min(k, len(candidates)) entries, so an empty
// non-nil set yields an empty list.
func (r *Recommender) Recommend(ctx context.Context, userID int, candidates []int, k int) ([]Recommendation, error) {
	recs, err := r.recommend(ctx, userID, candidates, k)
	if err != nil {
		metrics.RecordRecommendationError(r.domain, ErrorReason(err))
		return nil, err
	}
	metrics.RecordRecommendation(r.domain, "live")
	return recs, nil
}

func (r *Recommender) recommend(ctx context.Context, userID int, candidates []int, k int) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}
	if candidates == nil {
		candidates = AllItems(r.scorer.NumItems())
	}
	return r.scorer.TopK(userID, candidates, k)
}

// PrecomputeAll runs Recommend over every item for users 0..n-1 in order and
// returns the full mapping. Any failure aborts the whole run.
func (r *Recommender) PrecomputeAll(ctx context.Context, k int) (Precomputed, error) {
	start := time.Now()
	nUsers := r.scorer.NumUsers()
	candidates := AllItems(r.scorer.NumItems())

	r.logger.Info().Int("users", nUsers).Int("top_k", k).Msg("Precomputing recommendations")

	progress := rate.Sometimes{Every: progressEvery}
	out := make(Precomputed, nUsers)
	for user := 0; user < nUsers; user++ {
		progress.Do(func() {
			r.logger.Debug().Int("user", user).Int("total", nUsers).Msg("Precompute progress")
		})

		recs, err := r.recommend(ctx, user, candidates, k)
		if err != nil {
			metrics.RecordRecommendationError(r.domain, ErrorReason(err))
			return nil, fmt.Errorf("precompute user %d: %w", user, err)
		}
		out[user] = recs
	}

	elapsed := time.Since(start)
	metrics.RecordPrecompute(r.domain, nUsers, elapsed)
	r.logger.Info().
		Int("users", nUsers).
		Dur("duration", elapsed).
		Msg("Precomputation complete")

	return out, nil
}
