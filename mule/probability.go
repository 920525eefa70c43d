package mule

import "github.com/andrefpf/pig/cabac"

// Coefficients are 32-bit signed, so magnitude bit positions live in
// [0, 32) and flag decisions in [0, 32] (one slot per reachable top
// bitplane).
const (
	numIntModels  = 32
	numFlagLevels = 33
)

// ProbabilityHandler owns every probability model of one MULE encode
// or decode: a sign model, one model per integer bit position and two
// flag models per bitplane.
type ProbabilityHandler struct {
	signal *cabac.FrequentistModel
	flags  [numFlagLevels * 2]*cabac.FrequentistModel
	ints   [numIntModels]*cabac.FrequentistModel
}

// NewProbabilityHandler creates fresh models at their priors.
func NewProbabilityHandler() *ProbabilityHandler {
	h := &ProbabilityHandler{signal: cabac.NewFrequentistModel()}
	for i := range h.flags {
		h.flags[i] = cabac.NewFrequentistModel()
	}
	for i := range h.ints {
		h.ints[i] = cabac.NewFrequentistModel()
	}
	return h
}

// SignalModel returns the sign model.
func (h *ProbabilityHandler) SignalModel() *cabac.FrequentistModel {
	return h.signal
}

// IntModel returns the model of one magnitude bit position.
func (h *ProbabilityHandler) IntModel(bitplane int) *cabac.FrequentistModel {
	return h.ints[clampIndex(bitplane, numIntModels)]
}

// FlagModel returns one of the two flag models of a bitplane.
func (h *ProbabilityHandler) FlagModel(bitplane, position int) *cabac.FrequentistModel {
	return h.flags[clampIndex(bitplane, numFlagLevels)*2+position]
}

// Push snapshots every model.
func (h *ProbabilityHandler) Push() {
	for _, m := range h.all() {
		m.Push()
	}
}

// Pop restores every model to its most recent snapshot.
func (h *ProbabilityHandler) Pop() {
	for _, m := range h.all() {
		m.Pop()
	}
}

// Discard drops the most recent snapshot of every model, keeping the
// current state.
func (h *ProbabilityHandler) Discard() {
	for _, m := range h.all() {
		m.Discard()
	}
}

// Clear resets every model to its priors.
func (h *ProbabilityHandler) Clear() {
	for _, m := range h.all() {
		m.Clear()
	}
}

// SnapshotDepth returns the deepest pending snapshot stack across all
// models; zero after a balanced optimizer run.
func (h *ProbabilityHandler) SnapshotDepth() int {
	depth := 0
	for _, m := range h.all() {
		if d := m.SnapshotDepth(); d > depth {
			depth = d
		}
	}
	return depth
}

func (h *ProbabilityHandler) all() []*cabac.FrequentistModel {
	models := make([]*cabac.FrequentistModel, 0, 1+len(h.flags)+len(h.ints))
	models = append(models, h.signal)
	for _, m := range h.flags {
		models = append(models, m)
	}
	for _, m := range h.ints {
		models = append(models, m)
	}
	return models
}

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
