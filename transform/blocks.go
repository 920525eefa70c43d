package transform

import (
	"math"

	"github.com/andrefpf/pig/block"
)

// Extract copies a region of an integer block into a float buffer in
// row-major order.
func Extract(b *block.Block, region block.Region) []float64 {
	out := make([]float64, 0, region.Size())
	b.ForEach(region, func(_ int, _ []int, v int32) {
		out = append(out, float64(v))
	})
	return out
}

// ForwardBlock extracts a region, applies the forward DCT and rounds
// the coefficients to a fresh integer block.
func ForwardBlock(b *block.Block, region block.Region) *block.Block {
	shape := region.Shape()
	data := Extract(b, region)
	DCTN(data, shape)

	coeffs := block.New(shape...)
	values := coeffs.Data()
	for i, v := range data {
		values[i] = int32(math.Round(v))
	}
	return coeffs
}

// InverseBlock applies the inverse DCT to a coefficient block and
// writes the rounded samples into a region of the destination.
func InverseBlock(coeffs *block.Block, dst *block.Block, region block.Region) {
	shape := coeffs.Shape()
	data := make([]float64, coeffs.Size())
	for i, v := range coeffs.Data() {
		data[i] = float64(v)
	}
	IDCTN(data, shape)

	i := 0
	dst.ForEach(region, func(idx int, _ []int, _ int32) {
		dst.Data()[idx] = int32(math.Round(data[i]))
		i++
	})
}
