package cabac

import "math"

// FrequentistModel estimates probabilities from symbol counts, both
// initialized to 1 so that neither side starts impossible.
type FrequentistModel struct {
	zeros int
	ones  int
	stack [][2]int
}

// NewFrequentistModel creates a model with the (1, 1) priors.
func NewFrequentistModel() *FrequentistModel {
	return &FrequentistModel{zeros: 1, ones: 1}
}

// Observe counts one coded bit.
func (m *FrequentistModel) Observe(bit int) {
	if bit != 0 {
		m.ones++
	} else {
		m.zeros++
	}
}

// Frequency returns the count for one side.
func (m *FrequentistModel) Frequency(bit int) int {
	if bit != 0 {
		return m.ones
	}
	return m.zeros
}

// TotalBits returns the sum of both counts.
func (m *FrequentistModel) TotalBits() int {
	return m.zeros + m.ones
}

// Probability returns count(bit)/total. If either side was forced to
// zero it returns 0 for both outcomes; callers must not estimate a
// zero-probability bit.
func (m *FrequentistModel) Probability(bit int) float64 {
	if m.zeros <= 0 || m.ones <= 0 {
		return 0
	}
	return float64(m.Frequency(bit)) / float64(m.TotalBits())
}

// EstimateBit returns -log2 P(bit).
func (m *FrequentistModel) EstimateBit(bit int) float64 {
	return -math.Log2(m.Probability(bit))
}

// ObserveAndEstimate returns the pre-update cost of the bit, then
// applies the update.
func (m *FrequentistModel) ObserveAndEstimate(bit int) float64 {
	rate := m.EstimateBit(bit)
	m.Observe(bit)
	return rate
}

// Push snapshots the counts.
func (m *FrequentistModel) Push() {
	m.stack = append(m.stack, [2]int{m.zeros, m.ones})
}

// Pop restores the most recent snapshot.
func (m *FrequentistModel) Pop() {
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.zeros, m.ones = top[0], top[1]
}

// Discard drops the most recent snapshot, keeping the current counts.
func (m *FrequentistModel) Discard() {
	m.stack = m.stack[:len(m.stack)-1]
}

// Clear resets to the (1, 1) priors and empties the stack.
func (m *FrequentistModel) Clear() {
	m.zeros = 1
	m.ones = 1
	m.stack = m.stack[:0]
}

// SnapshotDepth returns the number of pending snapshots.
func (m *FrequentistModel) SnapshotDepth() int {
	return len(m.stack)
}

// Equal reports whether two models hold the same counts.
func (m *FrequentistModel) Equal(other *FrequentistModel) bool {
	return m.zeros == other.zeros && m.ones == other.ones
}
