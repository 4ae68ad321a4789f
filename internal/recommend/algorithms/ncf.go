// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package algorithms

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
)

var (
	// ErrInvalidConfig is returned for non-positive model dimensions.
	ErrInvalidConfig = errors.New("invalid ncf config")

	// ErrInvalidState is returned when a checkpointed state has inconsistent shapes.
	ErrInvalidState = errors.New("invalid ncf state")

	// ErrEmptyBatch is returned when gradients are requested for zero samples.
	ErrEmptyBatch = errors.New("empty batch")
)

// bceLogFloor matches the clamp applied by the standard BCE loss so a
// saturated sigmoid yields a finite loss.
const bceLogFloor = -100.0

// bceGradEpsilon bounds the p(1-p) denominator in the BCE gradient.
const bceGradEpsilon = 1e-12

// NCFConfig contains configuration for the NCF model.
type NCFConfig struct {
	// NumUsers is the number of user embedding rows.
	NumUsers int

	// NumItems is the number of item embedding rows.
	NumItems int

	// EmbeddingDim is the width of each embedding row.
	// Default: 16.
	EmbeddingDim int

	// HiddenDims are the widths of the ReLU layers, in order.
	// Default: [32, 16].
	HiddenDims []int
}

// DefaultNCFConfig returns the default architecture for the given sizes.
func DefaultNCFConfig(numUsers, numItems int) NCFConfig {
	return NCFConfig{
		NumUsers:     numUsers,
		NumItems:     numItems,
		EmbeddingDim: 16,
		HiddenDims:   []int{32, 16},
	}
}

// Validate checks the dimensions.
func (c NCFConfig) Validate() error {
	if c.NumUsers < 1 || c.NumItems < 1 {
		return fmt.Errorf("%w: need at least one user and item, got %d users and %d items",
			ErrInvalidConfig, c.NumUsers, c.NumItems)
	}
	if c.EmbeddingDim < 1 {
		return fmt.Errorf("%w: embedding dim %d", ErrInvalidConfig, c.EmbeddingDim)
	}
	if len(c.HiddenDims) == 0 {
		return fmt.Errorf("%w: at least one hidden layer is required", ErrInvalidConfig)
	}
	for i, h := range c.HiddenDims {
		if h < 1 {
			return fmt.Errorf("%w: hidden layer %d has width %d", ErrInvalidConfig, i, h)
		}
	}
	return nil
}

// denseLayer is a fully connected layer. w is row-major, out rows of in columns.
type denseLayer struct {
	in, out int
	w       []float64
	b       []float64
}

func (l *denseLayer) row(j int) []float64 {
	return l.w[j*l.in : (j+1)*l.in]
}

// apply computes w·x + b into dst.
func (l *denseLayer) apply(dst, x []float64) {
	for j := 0; j < l.out; j++ {
		dst[j] = floats.Dot(l.row(j), x) + l.b[j]
	}
}

// NCF is a neural collaborative filtering scorer: user and item embeddings
// are concatenated and passed through ReLU layers to a single sigmoid output.
//
// Scoring methods take the shared lock; ApplyGradientStep is the only method
// that writes parameters and takes the exclusive lock.
type NCF struct {
	BaseAlgorithm
	config NCFConfig

	// userEmb is row-major, NumUsers rows of EmbeddingDim.
	userEmb []float64

	// itemEmb is row-major, NumItems rows of EmbeddingDim.
	itemEmb []float64

	// layers holds the hidden layers followed by the output layer.
	layers []denseLayer
}

// NewNCF creates a model with freshly initialized weights. All randomness is
// drawn from rng: user embeddings, item embeddings, then each layer's weights
// and bias in order.
func NewNCF(cfg NCFConfig, rng *rand.Rand) (*NCF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.HiddenDims = append([]int(nil), cfg.HiddenDims...)

	m := &NCF{
		BaseAlgorithm: NewBaseAlgorithm("ncf"),
		config:        cfg,
	}

	d := cfg.EmbeddingDim
	m.userEmb = xavierUniform(rng, cfg.NumUsers, d)
	m.itemEmb = xavierUniform(rng, cfg.NumItems, d)

	in := 2 * d
	widths := append(append([]int(nil), cfg.HiddenDims...), 1)
	for _, out := range widths {
		bound := 1 / math.Sqrt(float64(in))
		m.layers = append(m.layers, denseLayer{
			in:  in,
			out: out,
			w:   uniform(rng, in*out, bound),
			b:   uniform(rng, out, bound),
		})
		in = out
	}

	return m, nil
}

// xavierUniform initializes an n×d table with U(±sqrt(6/(n+d))).
func xavierUniform(rng *rand.Rand, n, d int) []float64 {
	return uniform(rng, n*d, math.Sqrt(6/float64(n+d)))
}

func uniform(rng *rand.Rand, n int, bound float64) []float64 {
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: rng}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// NewNCFFromState rebuilds a model from a checkpointed state.
func NewNCFFromState(state *storage.NCFModelState) (*NCF, error) {
	cfg := NCFConfig{
		NumUsers:     state.NumUsers,
		NumItems:     state.NumItems,
		EmbeddingDim: state.EmbeddingDim,
		HiddenDims:   append([]int(nil), state.HiddenDims...),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	d := cfg.EmbeddingDim
	if len(state.UserEmbeddings) != cfg.NumUsers*d {
		return nil, fmt.Errorf("%w: user embeddings have %d values, want %d",
			ErrInvalidState, len(state.UserEmbeddings), cfg.NumUsers*d)
	}
	if len(state.ItemEmbeddings) != cfg.NumItems*d {
		return nil, fmt.Errorf("%w: item embeddings have %d values, want %d",
			ErrInvalidState, len(state.ItemEmbeddings), cfg.NumItems*d)
	}

	widths := append(append([]int(nil), cfg.HiddenDims...), 1)
	if len(state.Layers) != len(widths) {
		return nil, fmt.Errorf("%w: %d layers, want %d", ErrInvalidState, len(state.Layers), len(widths))
	}

	m := &NCF{
		BaseAlgorithm: NewBaseAlgorithm("ncf"),
		config:        cfg,
		userEmb:       append([]float64(nil), state.UserEmbeddings...),
		itemEmb:       append([]float64(nil), state.ItemEmbeddings...),
	}

	in := 2 * d
	for i, out := range widths {
		ls := state.Layers[i]
		if ls.In != in || ls.Out != out || len(ls.Weights) != in*out || len(ls.Bias) != out {
			return nil, fmt.Errorf("%w: layer %d is %dx%d with %d weights and %d biases, want %dx%d",
				ErrInvalidState, i, ls.In, ls.Out, len(ls.Weights), len(ls.Bias), in, out)
		}
		m.layers = append(m.layers, denseLayer{
			in:  in,
			out: out,
			w:   append([]float64(nil), ls.Weights...),
			b:   append([]float64(nil), ls.Bias...),
		})
		in = out
	}

	m.trained = true
	return m, nil
}

// State returns a deep copy of the parameters for checkpointing.
func (m *NCF) State() storage.NCFModelState {
	m.acquirePredictLock()
	defer m.releasePredictLock()

	state := storage.NCFModelState{
		NumUsers:       m.config.NumUsers,
		NumItems:       m.config.NumItems,
		EmbeddingDim:   m.config.EmbeddingDim,
		HiddenDims:     append([]int(nil), m.config.HiddenDims...),
		UserEmbeddings: append([]float64(nil), m.userEmb...),
		ItemEmbeddings: append([]float64(nil), m.itemEmb...),
		Layers:         make([]storage.DenseLayerState, len(m.layers)),
	}
	for i := range m.layers {
		l := &m.layers[i]
		state.Layers[i] = storage.DenseLayerState{
			In:      l.in,
			Out:     l.out,
			Weights: append([]float64(nil), l.w...),
			Bias:    append([]float64(nil), l.b...),
		}
	}
	return state
}

// Config returns the model configuration.
func (m *NCF) Config() NCFConfig {
	cfg := m.config
	cfg.HiddenDims = append([]int(nil), m.config.HiddenDims...)
	return cfg
}

// NumUsers returns the number of user rows.
func (m *NCF) NumUsers() int { return m.config.NumUsers }

// NumItems returns the number of item rows.
func (m *NCF) NumItems() int { return m.config.NumItems }

// NumParams returns the number of trainable parameters.
func (m *NCF) NumParams() int {
	n := len(m.userEmb) + len(m.itemEmb)
	for i := range m.layers {
		n += len(m.layers[i].w) + len(m.layers[i].b)
	}
	return n
}

func (m *NCF) checkUser(u int) error {
	if u < 0 || u >= m.config.NumUsers {
		return fmt.Errorf("%w: %d not in [0, %d)", recommend.ErrUserOutOfRange, u, m.config.NumUsers)
	}
	return nil
}

func (m *NCF) checkItem(i int) error {
	if i < 0 || i >= m.config.NumItems {
		return fmt.Errorf("%w: %d not in [0, %d)", recommend.ErrItemOutOfRange, i, m.config.NumItems)
	}
	return nil
}

// pass holds the intermediate values of one forward pass. acts[0] is the
// concatenated embedding input and acts[l+1] is the output of layer l after
// its activation. pre[l] is layer l's output before the activation.
type pass struct {
	acts [][]float64
	pre  [][]float64
}

// forward runs one (user, item) pair through the network and returns the
// pre-sigmoid logit. Indices must already be validated.
func (m *NCF) forward(u, i int, p *pass) float64 {
	d := m.config.EmbeddingDim
	x := p.acts[0]
	copy(x[:d], m.userEmb[u*d:(u+1)*d])
	copy(x[d:], m.itemEmb[i*d:(i+1)*d])

	last := len(m.layers) - 1
	for l := range m.layers {
		layer := &m.layers[l]
		layer.apply(p.pre[l], p.acts[l])
		out := p.acts[l+1]
		for j, z := range p.pre[l] {
			if l < last && z < 0 {
				z = 0
			}
			out[j] = z
		}
	}
	return p.pre[last][0]
}

func (m *NCF) newPass() *pass {
	p := &pass{
		acts: make([][]float64, len(m.layers)+1),
		pre:  make([][]float64, len(m.layers)),
	}
	p.acts[0] = make([]float64, 2*m.config.EmbeddingDim)
	for l := range m.layers {
		p.pre[l] = make([]float64, m.layers[l].out)
		p.acts[l+1] = make([]float64, m.layers[l].out)
	}
	return p
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Score returns the interaction probability for one pair.
func (m *NCF) Score(user, item int) (float64, error) {
	if err := m.checkUser(user); err != nil {
		return 0, err
	}
	if err := m.checkItem(item); err != nil {
		return 0, err
	}

	m.acquirePredictLock()
	defer m.releasePredictLock()

	return sigmoid(m.forward(user, item, m.newPass())), nil
}

// PredictBatch scores paired users and items.
func (m *NCF) PredictBatch(users, items []int) ([]float64, error) {
	if len(users) != len(items) {
		return nil, fmt.Errorf("%w: %d users, %d items", recommend.ErrLengthMismatch, len(users), len(items))
	}
	for k := range users {
		if err := m.checkUser(users[k]); err != nil {
			return nil, err
		}
		if err := m.checkItem(items[k]); err != nil {
			return nil, err
		}
	}

	m.acquirePredictLock()
	defer m.releasePredictLock()

	p := m.newPass()
	out := make([]float64, len(users))
	for k := range users {
		out[k] = sigmoid(m.forward(users[k], items[k], p))
	}
	return out, nil
}

// TopK scores every candidate for user and returns the best k, highest score
// first with ties broken by ascending item ID. candidates is not modified.
func (m *NCF) TopK(user int, candidates []int, k int) ([]recommend.Recommendation, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", recommend.ErrInvalidTopK, k)
	}
	if err := m.checkUser(user); err != nil {
		return nil, err
	}
	for _, item := range candidates {
		if err := m.checkItem(item); err != nil {
			return nil, err
		}
	}

	m.acquirePredictLock()
	defer m.releasePredictLock()

	p := m.newPass()
	recs := make([]recommend.Recommendation, len(candidates))
	for idx, item := range candidates {
		recs[idx] = recommend.Recommendation{
			ItemID: item,
			Score:  sigmoid(m.forward(user, item, p)),
		}
	}

	recommend.SortRecommendations(recs)
	return recommend.Truncate(recs, k), nil
}

// Gradients holds dL/dθ for every parameter, shaped like the model.
type Gradients struct {
	UserEmbeddings []float64
	ItemEmbeddings []float64
	Weights        [][]float64
	Biases         [][]float64
}

func (m *NCF) newGradients() *Gradients {
	g := &Gradients{
		UserEmbeddings: make([]float64, len(m.userEmb)),
		ItemEmbeddings: make([]float64, len(m.itemEmb)),
		Weights:        make([][]float64, len(m.layers)),
		Biases:         make([][]float64, len(m.layers)),
	}
	for l := range m.layers {
		g.Weights[l] = make([]float64, len(m.layers[l].w))
		g.Biases[l] = make([]float64, len(m.layers[l].b))
	}
	return g
}

// tensors lists the gradient slices in the same order as NCF.params.
func (g *Gradients) tensors() [][]float64 {
	out := [][]float64{g.UserEmbeddings, g.ItemEmbeddings}
	for l := range g.Weights {
		out = append(out, g.Weights[l], g.Biases[l])
	}
	return out
}

// params lists the parameter slices in initialization order.
func (m *NCF) params() [][]float64 {
	out := [][]float64{m.userEmb, m.itemEmb}
	for l := range m.layers {
		out = append(out, m.layers[l].w, m.layers[l].b)
	}
	return out
}

// bceLoss is binary cross-entropy for one sample with logs clamped at -100.
func bceLoss(p, y float64) float64 {
	return -(y*math.Max(math.Log(p), bceLogFloor) + (1-y)*math.Max(math.Log(1-p), bceLogFloor))
}

// ComputeGradients runs a forward and backward pass over one batch and
// returns the gradient of the mean BCE loss together with that loss. The
// model is only read.
func (m *NCF) ComputeGradients(users, items []int, labels []float64) (*Gradients, float64, error) {
	if len(users) != len(items) || len(users) != len(labels) {
		return nil, 0, fmt.Errorf("%w: %d users, %d items, %d labels",
			recommend.ErrLengthMismatch, len(users), len(items), len(labels))
	}
	if len(users) == 0 {
		return nil, 0, ErrEmptyBatch
	}
	for k := range users {
		if err := m.checkUser(users[k]); err != nil {
			return nil, 0, err
		}
		if err := m.checkItem(items[k]); err != nil {
			return nil, 0, err
		}
	}

	m.acquirePredictLock()
	defer m.releasePredictLock()

	n := float64(len(users))
	d := m.config.EmbeddingDim
	last := len(m.layers) - 1
	g := m.newGradients()
	p := m.newPass()

	// delta[l] is dL/d(pre[l]); dx is dL/d(acts[l]) while walking back.
	delta := make([][]float64, len(m.layers))
	for l := range m.layers {
		delta[l] = make([]float64, m.layers[l].out)
	}
	dx := make([][]float64, len(m.layers))
	for l := range m.layers {
		dx[l] = make([]float64, m.layers[l].in)
	}

	var loss float64
	for k := range users {
		u, i, y := users[k], items[k], labels[k]
		prob := sigmoid(m.forward(u, i, p))
		loss += bceLoss(prob, y)

		pq := prob * (1 - prob)
		delta[last][0] = (prob - y) / math.Max(pq, bceGradEpsilon) * pq / n

		for l := last; l >= 0; l-- {
			layer := &m.layers[l]
			if l < last {
				for j, z := range p.pre[l] {
					if z > 0 {
						delta[l][j] = dx[l+1][j]
					} else {
						delta[l][j] = 0
					}
				}
			}

			for j := range dx[l] {
				dx[l][j] = 0
			}
			gw := g.Weights[l]
			for j, dj := range delta[l] {
				if dj == 0 {
					continue
				}
				floats.AddScaled(gw[j*layer.in:(j+1)*layer.in], dj, p.acts[l])
				g.Biases[l][j] += dj
				floats.AddScaled(dx[l], dj, layer.row(j))
			}
		}

		floats.Add(g.UserEmbeddings[u*d:(u+1)*d], dx[0][:d])
		floats.Add(g.ItemEmbeddings[i*d:(i+1)*d], dx[0][d:])
	}

	return g, loss / n, nil
}

// ApplyGradientStep updates every parameter with one optimizer step.
func (m *NCF) ApplyGradientStep(opt *Adam, g *Gradients) error {
	if opt == nil || g == nil {
		return errors.New("apply gradient step: optimizer and gradients are required")
	}

	m.acquireTrainLock()
	defer m.releaseTrainLock()

	return opt.Step(m.params(), g.tensors())
}
