package codec

import "github.com/andrefpf/pig/block"

// GradientBlock builds a deterministic 2-D test block whose values
// ramp smoothly, a stand-in for natural image content in codec tests.
func GradientBlock(width, height, bitDepth int) *block.Block {
	maxValue := int32(1)<<uint(bitDepth) - 1
	b := block.New(height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			value := int32(x*7+y*3) % (maxValue + 1)
			b.Set(value, y, x)
		}
	}
	return b
}
