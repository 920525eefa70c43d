package cabac

import "math"

// Model estimates the probability of the next binary symbol for one
// coding context and adapts as symbols are observed.
//
// Models carry a LIFO snapshot stack so that a rate-distortion search
// can explore candidate encodings: Push before trying a candidate, then
// either Pop to roll the updates back or Discard to keep them. Every
// Push must be matched by exactly one Pop or Discard before the search
// returns.
type Model interface {
	// Observe updates the model with one coded bit.
	Observe(bit int)

	// Probability returns P(bit) in [0, 1].
	Probability(bit int) float64

	// EstimateBit returns the coding cost -log2 P(bit) in bits.
	EstimateBit(bit int) float64

	// ObserveAndEstimate returns the cost of the bit at the state in
	// force before the update, then applies the update. This matches
	// the bits the arithmetic coder would emit under the context at
	// that moment.
	ObserveAndEstimate(bit int) float64

	// Push snapshots the full model state.
	Push()

	// Pop restores the most recent snapshot.
	Pop()

	// Discard drops the most recent snapshot, keeping the current state.
	Discard()

	// Clear resets the model to its priors and empties the stack.
	Clear()

	// TotalBits returns the number of observations plus priors.
	TotalBits() int

	// SnapshotDepth returns the number of pending snapshots.
	SnapshotDepth() int
}

// entropy of a binary source with the model's current probabilities.
// Degenerate one-sided models contribute zero.
func modelEntropy(m Model) float64 {
	p0 := m.Probability(0)
	p1 := m.Probability(1)
	if p0 == 0 || p1 == 0 {
		return 0
	}
	return -p0*math.Log2(p0) - p1*math.Log2(p1)
}

// TotalEstimatedRate is a local rate proxy: the model's TotalBits
// (observed bits plus the priors) times its current entropy.
func TotalEstimatedRate(m Model) float64 {
	return float64(m.TotalBits()) * modelEntropy(m)
}
