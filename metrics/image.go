package metrics

import (
	"math"

	"github.com/andrefpf/pig/block"
)

// SquaredError returns the sum of squared differences between two
// blocks of the same shape.
func SquaredError(baseline, modified *block.Block) int64 {
	var sum int64
	base := baseline.Data()
	mod := modified.Data()
	for i := range base {
		d := int64(base[i]) - int64(mod[i])
		sum += d * d
	}
	return sum
}

// MSE returns the mean squared error between two blocks.
func MSE(baseline, modified *block.Block) float64 {
	return float64(SquaredError(baseline, modified)) / float64(baseline.Size())
}

// PSNR returns the peak signal-to-noise ratio in dB for samples of the
// given bit depth. Identical blocks yield +Inf.
func PSNR(baseline, modified *block.Block, bitDepth int) float64 {
	maxValue := float64(int64(1)<<uint(bitDepth) - 1)
	mse := MSE(baseline, modified)
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(maxValue*maxValue/mse)
}
