package metrics

import "math"

// BinaryEntropy returns the empirical entropy in bits/symbol of a
// binary sequence. Degenerate sequences have zero entropy.
func BinaryEntropy(sequence []int) float64 {
	total := len(sequence)
	if total == 0 {
		return 0
	}

	ones := 0
	for _, bit := range sequence {
		if bit != 0 {
			ones++
		}
	}
	if ones == 0 || ones == total {
		return 0
	}

	p1 := float64(ones) / float64(total)
	p0 := 1 - p1
	return -p0*math.Log2(p0) - p1*math.Log2(p1)
}
