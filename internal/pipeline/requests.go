// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package pipeline

import "github.com/tomtom215/synthrec/internal/synth"

// AllDataTypes selects every domain in a precompute run.
const AllDataTypes = "all"

// GenerateRequest selects the domains to generate.
type GenerateRequest struct {
	DataTypes []string `validate:"min=1,dive,oneof=ott social media"`
}

// TrainRequest selects the domain to train.
type TrainRequest struct {
	DataType string `validate:"required,oneof=ott social media"`
}

// InferRequest asks for one user's top-k list.
type InferRequest struct {
	DataType string `validate:"required,oneof=ott social media"`
	UserID   int    `validate:"min=0"`
	TopK     int    `validate:"min=1,max=100"`
}

// PrecomputeRequest selects the domains to precompute.
type PrecomputeRequest struct {
	DataType string `validate:"required,oneof=ott social media all"`
	TopK     int    `validate:"min=1,max=100"`
}

// Domains expands DataType, with "all" meaning every domain.
func (r PrecomputeRequest) Domains() []synth.Domain {
	if r.DataType == AllDataTypes {
		return synth.AllDomains()
	}
	return []synth.Domain{synth.Domain(r.DataType)}
}

func toDomains(names []string) []synth.Domain {
	out := make([]synth.Domain, len(names))
	for i, n := range names {
		out[i] = synth.Domain(n)
	}
	return out
}
