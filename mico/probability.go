package mico

import "github.com/andrefpf/pig/cabac"

const (
	numIntModels  = 32
	numFlagLevels = 33
)

// ProbabilityHandler owns every probability model of one MICO encode
// or decode: sign, per-bit-position integer models, the unit flag
// model, per-bitplane significant/split models and the level table
// model.
type ProbabilityHandler struct {
	signal      *cabac.FrequentistModel
	ints        [numIntModels]*cabac.FrequentistModel
	unit        *cabac.FrequentistModel
	split       [numFlagLevels]*cabac.FrequentistModel
	significant [numFlagLevels]*cabac.FrequentistModel
	bitplanes   *cabac.FrequentistModel
}

// NewProbabilityHandler creates fresh models at their priors.
func NewProbabilityHandler() *ProbabilityHandler {
	h := &ProbabilityHandler{
		signal:    cabac.NewFrequentistModel(),
		unit:      cabac.NewFrequentistModel(),
		bitplanes: cabac.NewFrequentistModel(),
	}
	for i := range h.ints {
		h.ints[i] = cabac.NewFrequentistModel()
	}
	for i := range h.split {
		h.split[i] = cabac.NewFrequentistModel()
		h.significant[i] = cabac.NewFrequentistModel()
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

// UnitModel returns the value/zero model for unit regions.
func (h *ProbabilityHandler) UnitModel() *cabac.FrequentistModel {
	return h.unit
}

// SplitModel returns the split/full model for one bitplane.
func (h *ProbabilityHandler) SplitModel(bitplane int) *cabac.FrequentistModel {
	return h.split[clampIndex(bitplane, numFlagLevels)]
}

// SignificantModel returns the empty/coded model for one bitplane.
func (h *ProbabilityHandler) SignificantModel(bitplane int) *cabac.FrequentistModel {
	return h.significant[clampIndex(bitplane, numFlagLevels)]
}

// BitplanesModel returns the model of the level table preamble.
func (h *ProbabilityHandler) BitplanesModel() *cabac.FrequentistModel {
	return h.bitplanes
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
	models := make([]*cabac.FrequentistModel, 0, 3+len(h.ints)+2*len(h.split))
	models = append(models, h.signal, h.unit, h.bitplanes)
	for _, m := range h.ints {
		models = append(models, m)
	}
	for _, m := range h.split {
		models = append(models, m)
	}
	for _, m := range h.significant {
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
