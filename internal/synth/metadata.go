// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import "github.com/goccy/go-json"

// Metadata describes one generation run. It is written next to the
// interaction arrays and read back by training and the stats endpoint.
//
// Subset lists only apply to their own domain. MarshalJSON always writes the
// lists of Domain, as [] when a subset rounded down to nothing, and leaves
// out the others. NumPositive, NumNegative and NumTotal are set by
// BuildTrainingSet.
type Metadata struct {
	Type            string  `json:"type"`
	Domain          Domain  `json:"domain"`
	NumUsers        int     `json:"n_users"`
	NumItems        int     `json:"n_items"`
	NumInteractions int     `json:"n_interactions"`
	Sparsity        float64 `json:"sparsity"`

	PopularItems  []int `json:"popular_items,omitempty"`
	PowerUsers    []int `json:"power_users,omitempty"`
	ViralItems    []int `json:"viral_items,omitempty"`
	Influencers   []int `json:"influencers,omitempty"`
	TrendingItems []int `json:"trending_items,omitempty"`

	NumPositive int `json:"n_positive"`
	NumNegative int `json:"n_negative"`
	NumTotal    int `json:"n_total"`
}

// metadataJSON is the file form of Metadata. Subset lists are pointers so
// that an empty list of the run's own domain is still written.
type metadataJSON struct {
	Type            string  `json:"type"`
	Domain          Domain  `json:"domain"`
	NumUsers        int     `json:"n_users"`
	NumItems        int     `json:"n_items"`
	NumInteractions int     `json:"n_interactions"`
	Sparsity        float64 `json:"sparsity"`

	PopularItems  *[]int `json:"popular_items,omitempty"`
	PowerUsers    *[]int `json:"power_users,omitempty"`
	ViralItems    *[]int `json:"viral_items,omitempty"`
	Influencers   *[]int `json:"influencers,omitempty"`
	TrendingItems *[]int `json:"trending_items,omitempty"`

	NumPositive int `json:"n_positive"`
	NumNegative int `json:"n_negative"`
	NumTotal    int `json:"n_total"`
}

// MarshalJSON implements json.Marshaler.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := metadataJSON{
		Type:            m.Type,
		Domain:          m.Domain,
		NumUsers:        m.NumUsers,
		NumItems:        m.NumItems,
		NumInteractions: m.NumInteractions,
		Sparsity:        m.Sparsity,
		NumPositive:     m.NumPositive,
		NumNegative:     m.NumNegative,
		NumTotal:        m.NumTotal,
	}
	owned := func(list []int, domain Domain) *[]int {
		if list == nil && m.Domain != domain {
			return nil
		}
		if list == nil {
			list = []int{}
		}
		return &list
	}
	out.PopularItems = owned(m.PopularItems, DomainOTT)
	out.PowerUsers = owned(m.PowerUsers, DomainOTT)
	out.ViralItems = owned(m.ViralItems, DomainSocial)
	out.Influencers = owned(m.Influencers, DomainSocial)
	out.TrendingItems = owned(m.TrendingItems, DomainMedia)
	return json.Marshal(out)
}

// TotalInteractions prefers the combined positive and negative count when
// the run recorded one.
func (m *Metadata) TotalInteractions() int {
	if m.NumTotal > 0 {
		return m.NumTotal
	}
	return m.NumInteractions
}
