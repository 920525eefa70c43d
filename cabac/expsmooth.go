package cabac

import "math"

// DefaultSmoothFactor is the exponential smoothing weight of the most
// recent observation.
const DefaultSmoothFactor = 0.05

// probability clamp, 2^-16 away from the degenerate endpoints
const (
	minSmoothedProbability = 1.0 / (1 << 16)
	maxSmoothedProbability = 1 - minSmoothedProbability
)

// ExponentialModel estimates P(1) by exponential smoothing, which
// adapts to sudden probability shifts much faster than plain counting.
// The counts are kept alongside for bookkeeping.
type ExponentialModel struct {
	zeros        int
	ones         int
	probOfOnes   float64
	smoothFactor float64
	stack        []expSnapshot
}

type expSnapshot struct {
	zeros        int
	ones         int
	probOfOnes   float64
	smoothFactor float64
}

// NewExponentialModel creates a model at P(1)=0.5 with the default
// smoothing factor.
func NewExponentialModel() *ExponentialModel {
	return NewExponentialModelWithFactor(DefaultSmoothFactor)
}

// NewExponentialModelWithFactor creates a model with a custom smoothing
// factor in (0, 1).
func NewExponentialModelWithFactor(smoothFactor float64) *ExponentialModel {
	return &ExponentialModel{
		zeros:        1,
		ones:         1,
		probOfOnes:   0.5,
		smoothFactor: smoothFactor,
	}
}

// Observe smooths the new bit into P(1) and clamps away from 0 and 1
// so the arithmetic coder always keeps a nonempty interval.
func (m *ExponentialModel) Observe(bit int) {
	b := 0.0
	if bit != 0 {
		m.ones++
		b = 1.0
	} else {
		m.zeros++
	}

	m.probOfOnes = m.smoothFactor*b + (1-m.smoothFactor)*m.probOfOnes
	m.probOfOnes = math.Min(math.Max(m.probOfOnes, minSmoothedProbability), maxSmoothedProbability)
}

// Probability returns the smoothed estimate for one side.
func (m *ExponentialModel) Probability(bit int) float64 {
	if bit != 0 {
		return m.probOfOnes
	}
	return 1 - m.probOfOnes
}

// EstimateBit returns -log2 P(bit).
func (m *ExponentialModel) EstimateBit(bit int) float64 {
	return -math.Log2(m.Probability(bit))
}

// ObserveAndEstimate returns the pre-update cost of the bit, then
// applies the update.
func (m *ExponentialModel) ObserveAndEstimate(bit int) float64 {
	rate := m.EstimateBit(bit)
	m.Observe(bit)
	return rate
}

// TotalBits returns the sum of both counts.
func (m *ExponentialModel) TotalBits() int {
	return m.zeros + m.ones
}

// Push snapshots the counts, the smoothed probability and the factor.
func (m *ExponentialModel) Push() {
	m.stack = append(m.stack, expSnapshot{m.zeros, m.ones, m.probOfOnes, m.smoothFactor})
}

// Pop restores the most recent snapshot.
func (m *ExponentialModel) Pop() {
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.zeros, m.ones = top.zeros, top.ones
	m.probOfOnes, m.smoothFactor = top.probOfOnes, top.smoothFactor
}

// Discard drops the most recent snapshot, keeping the current state.
func (m *ExponentialModel) Discard() {
	m.stack = m.stack[:len(m.stack)-1]
}

// Clear resets to P(1)=0.5 and the (1, 1) counts.
func (m *ExponentialModel) Clear() {
	m.zeros = 1
	m.ones = 1
	m.probOfOnes = 0.5
	m.stack = m.stack[:0]
}

// SnapshotDepth returns the number of pending snapshots.
func (m *ExponentialModel) SnapshotDepth() int {
	return len(m.stack)
}
