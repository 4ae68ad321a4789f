// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import (
	"fmt"
	"math/rand/v2"
)

// Dataset holds interactions column-wise. The three slices always have the
// same length; row i is the triple (UserIDs[i], ItemIDs[i], Labels[i]).
type Dataset struct {
	UserIDs []int64
	ItemIDs []int64
	Labels  []float64
}

// Len returns the number of interactions.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Labels)
}

// Validate checks that the columns line up.
func (d *Dataset) Validate() error {
	if len(d.UserIDs) != len(d.ItemIDs) || len(d.ItemIDs) != len(d.Labels) {
		return fmt.Errorf("dataset columns differ in length: users=%d items=%d labels=%d",
			len(d.UserIDs), len(d.ItemIDs), len(d.Labels))
	}
	return nil
}

// Concat returns a new dataset with the rows of d followed by the rows of other.
func (d *Dataset) Concat(other *Dataset) *Dataset {
	n := d.Len() + other.Len()
	out := &Dataset{
		UserIDs: make([]int64, 0, n),
		ItemIDs: make([]int64, 0, n),
		Labels:  make([]float64, 0, n),
	}
	for _, src := range []*Dataset{d, other} {
		if src == nil {
			continue
		}
		out.UserIDs = append(out.UserIDs, src.UserIDs...)
		out.ItemIDs = append(out.ItemIDs, src.ItemIDs...)
		out.Labels = append(out.Labels, src.Labels...)
	}
	return out
}

// Shuffle permutes the rows in place, keeping each triple together.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(d.Len(), func(i, j int) {
		d.UserIDs[i], d.UserIDs[j] = d.UserIDs[j], d.UserIDs[i]
		d.ItemIDs[i], d.ItemIDs[j] = d.ItemIDs[j], d.ItemIDs[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	})
}

// Users returns the user column as ints for model input.
func (d *Dataset) Users() []int {
	return toInts(d.UserIDs)
}

// Items returns the item column as ints for model input.
func (d *Dataset) Items() []int {
	return toInts(d.ItemIDs)
}

func toInts(src []int64) []int {
	out := make([]int, len(src))
	for i, v := range src {
		out[i] = int(v)
	}
	return out
}

func newDataset(capacity int) *Dataset {
	return &Dataset{
		UserIDs: make([]int64, 0, capacity),
		ItemIDs: make([]int64, 0, capacity),
		Labels:  make([]float64, 0, capacity),
	}
}

func (d *Dataset) append(user, item int, label float64) {
	d.UserIDs = append(d.UserIDs, int64(user))
	d.ItemIDs = append(d.ItemIDs, int64(item))
	d.Labels = append(d.Labels, label)
}
