// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import (
	"fmt"
	"math/rand/v2"
)

type negativeOptions struct {
	maxAttempts int
}

// NegativeOption configures SampleNegatives.
type NegativeOption func(*negativeOptions)

// WithMaxAttempts bounds the number of draws. Sampling fails with
// ErrNegativeSamplingExhausted once n draws were spent. n <= 0 means unbounded.
func WithMaxAttempts(n int) NegativeOption {
	return func(o *negativeOptions) {
		o.maxAttempts = n
	}
}

// SampleNegatives rejection-samples n (user, item) pairs that do not appear in
// positives. Accepted negatives may repeat. Labels are 0.
//
// Without WithMaxAttempts the loop only ends once n negatives are found, so a
// nearly dense positive set can take arbitrarily long. A fully dense one fails
// immediately with ErrNoNegativeSpace.
func SampleNegatives(rng *rand.Rand, positives *Dataset, nUsers, nItems, n int, opts ...NegativeOption) (*Dataset, error) {
	ds, _, err := sampleNegatives(rng, positives, nUsers, nItems, n, opts...)
	return ds, err
}

func sampleNegatives(rng *rand.Rand, positives *Dataset, nUsers, nItems, n int, opts ...NegativeOption) (*Dataset, int, error) {
	o := negativeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if nUsers <= 0 || nItems <= 0 || n < 0 {
		return nil, 0, fmt.Errorf("%w: n_users=%d n_items=%d n_negative=%d", ErrInvalidParams, nUsers, nItems, n)
	}
	if err := positives.Validate(); err != nil {
		return nil, 0, err
	}

	key := func(u, i int64) int64 { return u*int64(nItems) + i }

	positive := make(map[int64]struct{}, positives.Len())
	for idx := range positives.UserIDs {
		u, i := positives.UserIDs[idx], positives.ItemIDs[idx]
		if u < 0 || u >= int64(nUsers) || i < 0 || i >= int64(nItems) {
			return nil, 0, fmt.Errorf("%w: positive row %d (%d, %d) outside %dx%d",
				ErrInvalidParams, idx, u, i, nUsers, nItems)
		}
		positive[key(u, i)] = struct{}{}
	}

	neg := newDataset(n)
	if n == 0 {
		return neg, 0, nil
	}
	if len(positive) >= nUsers*nItems {
		return nil, 0, fmt.Errorf("%w: all %d cells are positive", ErrNoNegativeSpace, nUsers*nItems)
	}

	attempts := 0
	for neg.Len() < n {
		if o.maxAttempts > 0 && attempts >= o.maxAttempts {
			return nil, attempts, fmt.Errorf("%w: %d of %d negatives after %d draws",
				ErrNegativeSamplingExhausted, neg.Len(), n, attempts)
		}
		attempts++

		u := rng.IntN(nUsers)
		i := rng.IntN(nItems)
		if _, ok := positive[key(int64(u), int64(i))]; ok {
			continue
		}
		neg.append(u, i, 0)
	}
	return neg, attempts, nil
}
