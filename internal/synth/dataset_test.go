// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import "testing"

func TestDataset_ConcatAndShuffle(t *testing.T) {
	t.Parallel()

	a := &Dataset{UserIDs: []int64{0, 1}, ItemIDs: []int64{10, 11}, Labels: []float64{1, 1}}
	b := &Dataset{UserIDs: []int64{2}, ItemIDs: []int64{12}, Labels: []float64{0}}

	all := a.Concat(b)
	if all.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", all.Len())
	}
	if a.Len() != 2 {
		t.Error("Concat modified its receiver")
	}

	all.Shuffle(NewRand(1))
	for i := range all.UserIDs {
		// Rows stay intact: item = user + 10, and only user 2 is negative.
		if all.ItemIDs[i] != all.UserIDs[i]+10 {
			t.Errorf("row %d split apart: (%d, %d)", i, all.UserIDs[i], all.ItemIDs[i])
		}
		if (all.UserIDs[i] == 2) != (all.Labels[i] == 0) {
			t.Errorf("row %d label moved: user %d label %v", i, all.UserIDs[i], all.Labels[i])
		}
	}

	users := all.Users()
	if len(users) != 3 {
		t.Errorf("Users() len = %d, want 3", len(users))
	}
}

func TestDataset_NilLen(t *testing.T) {
	t.Parallel()

	var d *Dataset
	if d.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", d.Len())
	}
}
