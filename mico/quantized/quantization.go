package quantized

import "math"

// frequency weighting exponent of the quantization matrix
const weightExponent = 0.8

// QuantizationMatrix holds the per-coefficient divisors of one tile
// shape, indexed row-major over the full blockSize^n cube.
type QuantizationMatrix struct {
	blockSize int
	ndim      int
	strides   []int
	values    []float64
}

// NewQuantizationMatrix builds the matrix for a dimensionality and
// quality: step sizes grow with the coefficient position along every
// axis, scaled by quality/10.
func NewQuantizationMatrix(blockSize, ndim, quality int) *QuantizationMatrix {
	size := 1
	strides := make([]int, ndim)
	for i := ndim - 1; i >= 0; i-- {
		strides[i] = size
		size *= blockSize
	}

	q := &QuantizationMatrix{
		blockSize: blockSize,
		ndim:      ndim,
		strides:   strides,
		values:    make([]float64, size),
	}

	pos := make([]int, ndim)
	for i := range q.values {
		value := 1.0
		for _, k := range pos {
			value += math.Pow(float64(k+1), weightExponent)
		}
		value /= float64(ndim + 1)
		value *= float64(quality) / 10
		q.values[i] = value

		for axis := ndim - 1; axis >= 0; axis-- {
			pos[axis]++
			if pos[axis] < blockSize {
				break
			}
			pos[axis] = 0
		}
	}
	return q
}

// At returns the divisor for a position local to the tile.
func (q *QuantizationMatrix) At(pos []int) float64 {
	idx := 0
	for i, p := range pos {
		idx += p * q.strides[i]
	}
	return q.values[idx]
}
