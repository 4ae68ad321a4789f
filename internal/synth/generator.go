// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomtom215/synthrec/internal/metrics"
)

// noiseAmplitude bounds the uniform noise added to every candidate probability.
const noiseAmplitude = 0.10

// Params sizes one generation run.
type Params struct {
	NumUsers int
	NumItems int
	// Sparsity is the requested fraction of empty (user, item) cells, in [0, 1].
	Sparsity float64
	Seed     uint64
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.NumUsers <= 0 || p.NumItems <= 0 {
		return fmt.Errorf("%w: n_users=%d n_items=%d must be positive", ErrInvalidParams, p.NumUsers, p.NumItems)
	}
	if p.Sparsity < 0 || p.Sparsity > 1 {
		return fmt.Errorf("%w: sparsity %v outside [0, 1]", ErrInvalidParams, p.Sparsity)
	}
	return nil
}

// NewRand returns the pseudo-random stream used for a seeded run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // G404: synthetic data, not security-sensitive
}

// Generate draws positive interactions for a domain. The result depends only
// on domain and p: every random draw comes from a stream seeded with p.Seed.
func Generate(domain Domain, p Params) (*Dataset, *Metadata, error) {
	return generate(NewRand(p.Seed), domain, p)
}

func generate(rng *rand.Rand, domain Domain, p Params) (*Dataset, *Metadata, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	pat, err := newPattern(domain, rng, p.NumUsers, p.NumItems)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", err, domain)
	}

	cells := p.NumUsers * p.NumItems
	candidates := int(float64(cells) * (1 - p.Sparsity))
	noise := distuv.Uniform{Min: -noiseAmplitude, Max: noiseAmplitude, Src: rng}

	ds := newDataset(candidates)
	for n := 0; n < candidates; n++ {
		user := rng.IntN(p.NumUsers)
		item := rng.IntN(p.NumItems)

		prob := clamp01(pat.probability(user, item) + noise.Rand())
		if rng.Float64() < prob {
			ds.append(user, item, 1)
		}
	}

	meta := &Metadata{
		Type:            domain.DisplayName(),
		Domain:          domain,
		NumUsers:        p.NumUsers,
		NumItems:        p.NumItems,
		NumInteractions: ds.Len(),
		Sparsity:        1 - float64(ds.Len())/float64(cells),
	}
	pat.annotate(meta)

	return ds, meta, nil
}

// BuildTrainingSet generates positives, samples int(negativeRatio*positives)
// negatives from the same stream, and returns both shuffled together.
// The metadata gains the positive, negative and total counts.
func BuildTrainingSet(domain Domain, p Params, negativeRatio float64, opts ...NegativeOption) (*Dataset, *Metadata, error) {
	if negativeRatio < 0 {
		return nil, nil, fmt.Errorf("%w: negative ratio %v", ErrInvalidParams, negativeRatio)
	}

	rng := NewRand(p.Seed)
	pos, meta, err := generate(rng, domain, p)
	if err != nil {
		return nil, nil, err
	}

	nNeg := int(negativeRatio * float64(pos.Len()))
	neg, attempts, err := sampleNegatives(rng, pos, p.NumUsers, p.NumItems, nNeg, opts...)
	metrics.RecordNegativeSampling(string(domain), attempts)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %s negatives: %w", domain, err)
	}

	all := pos.Concat(neg)
	all.Shuffle(rng)

	meta.NumPositive = pos.Len()
	meta.NumNegative = neg.Len()
	meta.NumTotal = all.Len()
	metrics.RecordGeneration(string(domain), meta.NumPositive, meta.NumNegative, meta.Sparsity)

	return all, meta, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
