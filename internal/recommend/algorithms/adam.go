// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package algorithms

import (
	"fmt"
	"math"
)

// AdamConfig contains configuration for the Adam optimizer.
type AdamConfig struct {
	// LearningRate is the step size.
	// Default: 0.01.
	LearningRate float64

	// Beta1 is the decay rate of the first moment estimate.
	// Default: 0.9.
	Beta1 float64

	// Beta2 is the decay rate of the second moment estimate.
	// Default: 0.999.
	Beta2 float64

	// Epsilon is added to the denominator.
	// Default: 1e-8.
	Epsilon float64
}

// DefaultAdamConfig returns the standard Adam hyperparameters.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.01,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Adam implements the Adam optimizer.
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma, Ba, 2014)
//
// Every parameter is updated on every step, including embedding rows that
// received a zero gradient in the current batch: their moment estimates keep
// moving them.
type Adam struct {
	config AdamConfig
	step   int

	// m and v are the first and second moment estimates, shaped like the
	// parameter list passed to the first Step call.
	m [][]float64
	v [][]float64
}

// NewAdam creates an optimizer. Zero fields get defaults.
func NewAdam(cfg AdamConfig) *Adam {
	def := DefaultAdamConfig()
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Beta1 <= 0 {
		cfg.Beta1 = def.Beta1
	}
	if cfg.Beta2 <= 0 {
		cfg.Beta2 = def.Beta2
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	return &Adam{config: cfg}
}

// Steps returns the number of updates applied so far.
func (a *Adam) Steps() int {
	return a.step
}

// Step applies one update of params in place using grads. The shapes of
// params must not change between calls.
func (a *Adam) Step(params, grads [][]float64) error {
	if len(params) != len(grads) {
		return fmt.Errorf("adam step: %d parameter tensors, %d gradient tensors", len(params), len(grads))
	}
	for t := range params {
		if len(params[t]) != len(grads[t]) {
			return fmt.Errorf("adam step: tensor %d has %d parameters, %d gradients", t, len(params[t]), len(grads[t]))
		}
	}

	if a.m == nil {
		a.m = make([][]float64, len(params))
		a.v = make([][]float64, len(params))
		for t := range params {
			a.m[t] = make([]float64, len(params[t]))
			a.v[t] = make([]float64, len(params[t]))
		}
	} else if len(a.m) != len(params) {
		return fmt.Errorf("adam step: optimizer tracks %d tensors, got %d", len(a.m), len(params))
	}
	for t := range params {
		if len(a.m[t]) != len(params[t]) {
			return fmt.Errorf("adam step: tensor %d changed size from %d to %d", t, len(a.m[t]), len(params[t]))
		}
	}

	a.step++
	b1, b2 := a.config.Beta1, a.config.Beta2
	bias1 := 1 - math.Pow(b1, float64(a.step))
	bias2Sqrt := math.Sqrt(1 - math.Pow(b2, float64(a.step)))
	stepSize := a.config.LearningRate / bias1

	for t, p := range params {
		g, m, v := grads[t], a.m[t], a.v[t]
		for j := range p {
			m[j] = b1*m[j] + (1-b1)*g[j]
			v[j] = b2*v[j] + (1-b2)*g[j]*g[j]
			p[j] -= stepSize * m[j] / (math.Sqrt(v[j])/bias2Sqrt + a.config.Epsilon)
		}
	}
	return nil
}
