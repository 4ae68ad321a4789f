// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package synth

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

const numGenres = 5

const numClusters = 3

// pattern is the per-domain probability model. Its latent traits are drawn
// once when it is built and then only read.
type pattern interface {
	// probability returns the acceptance probability before noise and clamping.
	probability(user, item int) float64
	// annotate copies the special subsets into the run metadata.
	annotate(m *Metadata)
}

func newPattern(domain Domain, rng *rand.Rand, nUsers, nItems int) (pattern, error) {
	switch domain {
	case DomainOTT:
		return newOTTPattern(rng, nUsers, nItems), nil
	case DomainSocial:
		return newSocialPattern(rng, nUsers, nItems), nil
	case DomainMedia:
		return newMediaPattern(rng, nUsers, nItems), nil
	default:
		return nil, ErrUnknownDomain
	}
}

// subset draws int(n*fraction) distinct indices from [0, n). The count
// rounds down, so small catalogs can get an empty subset.
func subset(rng *rand.Rand, n int, fraction float64) ([]int, []bool) {
	idxs := make([]int, int(float64(n)*fraction))
	member := make([]bool, n)
	if len(idxs) == 0 {
		return idxs, member
	}

	sampleuv.WithoutReplacement(idxs, n, rng)
	for _, i := range idxs {
		member[i] = true
	}
	return idxs, member
}

// ottPattern: popular items, power users and genre affinity.
type ottPattern struct {
	popular    []int
	isPopular  []bool
	power      []int
	isPower    []bool
	genrePref  [][]float64
	itemGenres [][]float64
}

func newOTTPattern(rng *rand.Rand, nUsers, nItems int) *ottPattern {
	p := &ottPattern{}
	p.popular, p.isPopular = subset(rng, nItems, 0.2)
	p.power, p.isPower = subset(rng, nUsers, 0.1)

	dirichlet := distmv.NewDirichlet([]float64{2, 2, 2, 2, 2}, rng)
	p.genrePref = make([][]float64, nUsers)
	for u := range p.genrePref {
		p.genrePref[u] = dirichlet.Rand(nil)
	}

	genre := distuv.NewCategorical([]float64{0.2, 0.2, 0.2, 0.2, 0.2}, rng)
	p.itemGenres = make([][]float64, nItems)
	for i := range p.itemGenres {
		oneHot := make([]float64, numGenres)
		oneHot[int(genre.Rand())] = 1
		p.itemGenres[i] = oneHot
	}
	return p
}

func (p *ottPattern) probability(user, item int) float64 {
	prob := 0.10
	if p.isPopular[item] {
		prob += 0.30
	}
	if p.isPower[user] {
		prob += 0.20
	}
	prob += floats.Dot(p.genrePref[user], p.itemGenres[item]) * 0.20
	return prob
}

func (p *ottPattern) annotate(m *Metadata) {
	m.PopularItems = p.popular
	m.PowerUsers = p.power
}

// socialPattern: viral posts, influencers and echo-chamber clusters.
type socialPattern struct {
	viral        []int
	isViral      []bool
	influencers  []int
	isInfluencer []bool
	userCluster  []int
	itemCluster  []int
}

func newSocialPattern(rng *rand.Rand, nUsers, nItems int) *socialPattern {
	p := &socialPattern{}
	p.viral, p.isViral = subset(rng, nItems, 0.05)
	p.influencers, p.isInfluencer = subset(rng, nUsers, 0.05)

	p.userCluster = make([]int, nUsers)
	for u := range p.userCluster {
		p.userCluster[u] = rng.IntN(numClusters)
	}
	p.itemCluster = make([]int, nItems)
	for i := range p.itemCluster {
		p.itemCluster[i] = rng.IntN(numClusters)
	}
	return p
}

func (p *socialPattern) probability(user, item int) float64 {
	prob := 0.15
	if p.isViral[item] {
		prob += 0.40
	}
	if p.isInfluencer[user] {
		prob += 0.25
	}
	if p.userCluster[user] == p.itemCluster[item] {
		prob += 0.15
	}
	return prob
}

func (p *socialPattern) annotate(m *Metadata) {
	m.ViralItems = p.viral
	m.Influencers = p.influencers
}

// mediaPattern: trending items and watch-duration preference.
type mediaPattern struct {
	trending     []int
	isTrending   []bool
	userPref     []float64
	itemDuration []float64
}

func newMediaPattern(rng *rand.Rand, nUsers, nItems int) *mediaPattern {
	p := &mediaPattern{}
	p.trending, p.isTrending = subset(rng, nItems, 0.15)

	pref := distuv.Beta{Alpha: 2, Beta: 5, Src: rng}
	p.userPref = make([]float64, nUsers)
	for u := range p.userPref {
		p.userPref[u] = pref.Rand()
	}

	duration := distuv.Beta{Alpha: 5, Beta: 2, Src: rng}
	p.itemDuration = make([]float64, nItems)
	for i := range p.itemDuration {
		p.itemDuration[i] = duration.Rand()
	}
	return p
}

func (p *mediaPattern) probability(user, item int) float64 {
	prob := 0.12
	if p.isTrending[item] {
		prob += 0.35
	}
	prob += (1 - math.Abs(p.userPref[user]-p.itemDuration[item])) * 0.20
	return prob
}

func (p *mediaPattern) annotate(m *Metadata) {
	m.TrendingItems = p.trending
}
