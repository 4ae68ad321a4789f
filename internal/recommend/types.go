// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package recommend

import "sort"

// Recommendation is one ranked item for a user.
type Recommendation struct {
	// ItemID is the item index in [0, n_items).
	ItemID int `json:"itemId"`

	// Score is the predicted interaction probability in [0, 1].
	Score float64 `json:"score"`
}

// UserRecommendations is the inference output for a single user.
type UserRecommendations struct {
	UserID          int              `json:"userId"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Precomputed maps every user index to its ranked list.
type Precomputed map[int][]Recommendation

// Scorer is a trained model that can rank items for a user.
type Scorer interface {
	// NumUsers returns the number of user rows.
	NumUsers() int

	// NumItems returns the number of item rows.
	NumItems() int

	// TopK scores every candidate for user and returns the best k,
	// ordered as SortRecommendations does.
	TopK(user int, candidates []int, k int) ([]Recommendation, error)
}

// SortRecommendations orders recs by score descending, then item ID ascending.
func SortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
}

// Truncate returns at most k leading entries.
func Truncate(recs []Recommendation, k int) []Recommendation {
	if k < len(recs) {
		return recs[:k]
	}
	return recs
}

// AllItems returns the candidate set [0, n).
func AllItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}
