// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/synth"
)

func newTestNCF(t *testing.T, users, items int, seed uint64) *NCF {
	t.Helper()
	m, err := NewNCF(DefaultNCFConfig(users, items), synth.NewRand(seed))
	if err != nil {
		t.Fatalf("NewNCF() error = %v", err)
	}
	return m
}

func TestNewNCF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  NCFConfig
		wantErr bool
	}{
		{name: "default config", config: DefaultNCFConfig(10, 5)},
		{name: "single hidden layer", config: NCFConfig{NumUsers: 3, NumItems: 3, EmbeddingDim: 4, HiddenDims: []int{8}}},
		{name: "no users", config: DefaultNCFConfig(0, 5), wantErr: true},
		{name: "no items", config: DefaultNCFConfig(5, 0), wantErr: true},
		{name: "zero embedding", config: NCFConfig{NumUsers: 1, NumItems: 1, EmbeddingDim: 0, HiddenDims: []int{4}}, wantErr: true},
		{name: "no hidden layers", config: NCFConfig{NumUsers: 1, NumItems: 1, EmbeddingDim: 4}, wantErr: true},
		{name: "zero width layer", config: NCFConfig{NumUsers: 1, NumItems: 1, EmbeddingDim: 4, HiddenDims: []int{4, 0}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewNCF(tt.config, synth.NewRand(1))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("NewNCF() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNCF() error = %v", err)
			}
			if m.Name() != "ncf" {
				t.Errorf("Name() = %q, want ncf", m.Name())
			}
			if m.IsTrained() {
				t.Error("fresh model should not be trained")
			}
		})
	}
}

func TestNCF_Shapes(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 10, 5, 1)

	// 10*16 + 5*16 + (32*32+32) + (16*32+16) + (1*16+1)
	want := 160 + 80 + 1056 + 528 + 17
	if got := m.NumParams(); got != want {
		t.Errorf("NumParams() = %d, want %d", got, want)
	}
	if m.NumUsers() != 10 || m.NumItems() != 5 {
		t.Errorf("NumUsers/NumItems = %d/%d", m.NumUsers(), m.NumItems())
	}
}

func TestNCF_InitBounds(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 200, 100, 3)

	userBound := math.Sqrt(6.0 / float64(200+16))
	for _, w := range m.userEmb {
		if math.Abs(w) > userBound {
			t.Fatalf("user embedding %v outside ±%v", w, userBound)
		}
	}
	itemBound := math.Sqrt(6.0 / float64(100+16))
	for _, w := range m.itemEmb {
		if math.Abs(w) > itemBound {
			t.Fatalf("item embedding %v outside ±%v", w, itemBound)
		}
	}
	for l, layer := range m.layers {
		bound := 1 / math.Sqrt(float64(layer.in))
		for _, w := range append(append([]float64(nil), layer.w...), layer.b...) {
			if math.Abs(w) > bound {
				t.Fatalf("layer %d parameter %v outside ±%v", l, w, bound)
			}
		}
	}
}

func TestNCF_Deterministic(t *testing.T) {
	t.Parallel()

	a := newTestNCF(t, 8, 6, 99)
	b := newTestNCF(t, 8, 6, 99)
	c := newTestNCF(t, 8, 6, 100)

	sa, _ := a.Score(3, 2)
	sb, _ := b.Score(3, 2)
	sc, _ := c.Score(3, 2)
	if sa != sb {
		t.Errorf("same seed scores differ: %v vs %v", sa, sb)
	}
	if sa == sc {
		t.Errorf("different seeds produced identical score %v", sa)
	}
}

func TestNCF_Score(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 4, 3, 1)

	tests := []struct {
		name    string
		user    int
		item    int
		wantErr error
	}{
		{name: "valid pair", user: 0, item: 0},
		{name: "last pair", user: 3, item: 2},
		{name: "negative user", user: -1, item: 0, wantErr: recommend.ErrUserOutOfRange},
		{name: "user too large", user: 4, item: 0, wantErr: recommend.ErrUserOutOfRange},
		{name: "item too large", user: 0, item: 3, wantErr: recommend.ErrItemOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			score, err := m.Score(tt.user, tt.item)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Score() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if score <= 0 || score >= 1 {
				t.Errorf("Score() = %v, want in (0, 1)", score)
			}
			again, _ := m.Score(tt.user, tt.item)
			if again != score {
				t.Errorf("Score() not pure: %v then %v", score, again)
			}
		})
	}
}

func TestNCF_PredictBatch(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 4, 3, 1)

	scores, err := m.PredictBatch([]int{0, 1, 3}, []int{2, 0, 1})
	if err != nil {
		t.Fatalf("PredictBatch() error = %v", err)
	}
	for k, pair := range [][2]int{{0, 2}, {1, 0}, {3, 1}} {
		want, _ := m.Score(pair[0], pair[1])
		if scores[k] != want {
			t.Errorf("scores[%d] = %v, want %v", k, scores[k], want)
		}
	}

	if _, err := m.PredictBatch([]int{0}, []int{0, 1}); !errors.Is(err, recommend.ErrLengthMismatch) {
		t.Errorf("mismatched lengths error = %v", err)
	}
	if _, err := m.PredictBatch([]int{0}, []int{7}); !errors.Is(err, recommend.ErrItemOutOfRange) {
		t.Errorf("bad item error = %v", err)
	}
}

func TestNCF_TopK(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 5, 20, 11)

	tests := []struct {
		name       string
		candidates []int
		k          int
		wantLen    int
		wantErr    error
	}{
		{name: "all items top 10", candidates: recommend.AllItems(20), k: 10, wantLen: 10},
		{name: "k larger than candidates", candidates: []int{4, 2, 9}, k: 10, wantLen: 3},
		{name: "single result", candidates: recommend.AllItems(20), k: 1, wantLen: 1},
		{name: "empty candidates", candidates: nil, k: 5, wantLen: 0},
		{name: "zero k", candidates: []int{1}, k: 0, wantErr: recommend.ErrInvalidTopK},
		{name: "bad candidate", candidates: []int{1, 20}, k: 3, wantErr: recommend.ErrItemOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := append([]int(nil), tt.candidates...)
			recs, err := m.TopK(2, tt.candidates, tt.k)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("TopK() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TopK() error = %v", err)
			}
			if len(recs) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(recs), tt.wantLen)
			}
			for i := 1; i < len(recs); i++ {
				if recs[i].Score > recs[i-1].Score {
					t.Errorf("not sorted at %d: %v > %v", i, recs[i].Score, recs[i-1].Score)
				}
			}
			for i, c := range tt.candidates {
				if c != before[i] {
					t.Fatal("TopK modified candidates")
				}
			}
		})
	}
}

func TestNCF_TopKMatchesBestScore(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 3, 15, 5)
	recs, err := m.TopK(1, recommend.AllItems(15), 1)
	if err != nil {
		t.Fatal(err)
	}

	best := -1.0
	for i := 0; i < 15; i++ {
		s, _ := m.Score(1, i)
		best = math.Max(best, s)
	}
	if recs[0].Score != best {
		t.Errorf("top score = %v, want %v", recs[0].Score, best)
	}
}

func TestNCF_StateRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 6, 4, 21)
	state := m.State()

	restored, err := NewNCFFromState(&state)
	if err != nil {
		t.Fatalf("NewNCFFromState() error = %v", err)
	}
	if !restored.IsTrained() {
		t.Error("restored model should report trained")
	}
	for u := 0; u < 6; u++ {
		for i := 0; i < 4; i++ {
			want, _ := m.Score(u, i)
			got, _ := restored.Score(u, i)
			if got != want {
				t.Fatalf("Score(%d, %d) = %v after restore, want %v", u, i, got, want)
			}
		}
	}

	// The state is a copy.
	state.UserEmbeddings[0] += 1
	if m.userEmb[0] == state.UserEmbeddings[0] {
		t.Error("State() shares memory with the model")
	}
}

func TestNewNCFFromState_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(s *storage.NCFModelState)
	}{
		{"short user embeddings", func(s *storage.NCFModelState) { s.UserEmbeddings = s.UserEmbeddings[:5] }},
		{"short item embeddings", func(s *storage.NCFModelState) { s.ItemEmbeddings = nil }},
		{"missing layer", func(s *storage.NCFModelState) { s.Layers = s.Layers[:2] }},
		{"wrong layer width", func(s *storage.NCFModelState) { s.Layers[1].In = 7 }},
		{"short bias", func(s *storage.NCFModelState) { s.Layers[2].Bias = nil }},
		{"zero users", func(s *storage.NCFModelState) { s.NumUsers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// State returns a fresh deep copy each call.
			s := newTestNCF(t, 3, 2, 1).State()
			tt.mutate(&s)
			if _, err := NewNCFFromState(&s); !errors.Is(err, ErrInvalidState) {
				t.Errorf("NewNCFFromState() error = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestNCF_ComputeGradientsErrors(t *testing.T) {
	t.Parallel()

	m := newTestNCF(t, 3, 3, 1)

	if _, _, err := m.ComputeGradients(nil, nil, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("empty batch error = %v", err)
	}
	if _, _, err := m.ComputeGradients([]int{0}, []int{0}, nil); !errors.Is(err, recommend.ErrLengthMismatch) {
		t.Errorf("mismatched error = %v", err)
	}
	if _, _, err := m.ComputeGradients([]int{3}, []int{0}, []float64{1}); !errors.Is(err, recommend.ErrUserOutOfRange) {
		t.Errorf("bad user error = %v", err)
	}
}

// meanLoss evaluates the batch loss directly from the forward pass.
func meanLoss(t *testing.T, m *NCF, users, items []int, labels []float64) float64 {
	t.Helper()
	probs, err := m.PredictBatch(users, items)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for k, p := range probs {
		total += bceLoss(p, labels[k])
	}
	return total / float64(len(probs))
}

func TestNCF_GradientsMatchFiniteDifferences(t *testing.T) {
	t.Parallel()

	cfg := NCFConfig{NumUsers: 3, NumItems: 4, EmbeddingDim: 3, HiddenDims: []int{5, 3}}
	m, err := NewNCF(cfg, synth.NewRand(17))
	if err != nil {
		t.Fatal(err)
	}

	// User 2 and item 3 are absent so their rows must get zero gradient.
	users := []int{0, 1, 0, 1, 0}
	items := []int{0, 1, 2, 0, 1}
	labels := []float64{1, 0, 1, 1, 0}

	grads, loss, err := m.ComputeGradients(users, items, labels)
	if err != nil {
		t.Fatalf("ComputeGradients() error = %v", err)
	}
	if want := meanLoss(t, m, users, items, labels); math.Abs(loss-want) > 1e-12 {
		t.Errorf("loss = %v, want %v", loss, want)
	}

	const h = 1e-6
	params := m.params()
	tensors := grads.tensors()
	for ti, p := range params {
		for j := range p {
			orig := p[j]
			p[j] = orig + h
			plus := meanLoss(t, m, users, items, labels)
			p[j] = orig - h
			minus := meanLoss(t, m, users, items, labels)
			p[j] = orig

			numeric := (plus - minus) / (2 * h)
			analytic := tensors[ti][j]
			if diff := math.Abs(numeric - analytic); diff > 1e-6+1e-4*math.Abs(numeric) {
				t.Errorf("tensor %d param %d: analytic %v, numeric %v", ti, j, analytic, numeric)
			}
		}
	}

	d := cfg.EmbeddingDim
	for _, g := range grads.UserEmbeddings[2*d : 3*d] {
		if g != 0 {
			t.Errorf("unused user row has gradient %v", g)
		}
	}
	for _, g := range grads.ItemEmbeddings[3*d : 4*d] {
		if g != 0 {
			t.Errorf("unused item row has gradient %v", g)
		}
	}
}

func TestBCELoss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p, y, want float64
	}{
		{0.5, 1, math.Ln2},
		{0.5, 0, math.Ln2},
		{1, 1, 0},
		{0, 0, 0},
		{0, 1, 100},
		{1, 0, 100},
	}
	for _, tt := range tests {
		if got := bceLoss(tt.p, tt.y); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("bceLoss(%v, %v) = %v, want %v", tt.p, tt.y, got, tt.want)
		}
	}
}
