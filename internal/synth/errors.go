// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import "errors"

var (
	// ErrUnknownDomain is returned for a domain name other than ott, social or media.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrInvalidParams is returned when generation sizes or sparsity are out of range.
	ErrInvalidParams = errors.New("invalid generation parameters")

	// ErrNegativeSamplingExhausted is returned when a bounded negative sampler
	// runs out of attempts before collecting the requested count.
	ErrNegativeSamplingExhausted = errors.New("negative sampling exhausted its attempt budget")

	// ErrNoNegativeSpace is returned when every (user, item) cell is positive,
	// so rejection sampling could never accept a negative.
	ErrNoNegativeSpace = errors.New("no negative pairs exist")
)
