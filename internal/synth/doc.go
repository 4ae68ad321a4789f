// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package synth generates labelled user-item interactions with hand-crafted
statistical patterns for three domains.

# Domains

  - ott: popular items (20%), power users (10%) and a Dirichlet genre
    preference matched against a one-hot item genre.
  - social: viral items (5%), influencers (5%) and a shared cluster bonus
    over three uniform clusters.
  - media: trending items (15%) and a Beta(2,5) user duration preference
    compared with a Beta(5,2) item duration.

Each candidate pair is drawn uniformly with replacement. Its probability is
the domain base plus bonuses plus Uniform(-0.1, 0.1) noise, clamped to
[0, 1], and one more uniform draw decides acceptance. Accepted duplicates are
kept.

# Determinism

Generate seeds a math/rand/v2 PCG stream from Params.Seed and draws every
value from it, including the gonum distributions. The same domain and
parameters always yield identical arrays.

# Negatives

SampleNegatives rejection-samples pairs outside the positive set. It is
unbounded unless WithMaxAttempts is given.

	ds, meta, err := synth.BuildTrainingSet(synth.DomainOTT, synth.Params{
		NumUsers: 200, NumItems: 100, Sparsity: 0.9, Seed: 42,
	}, 1.0)
*/
package synth
