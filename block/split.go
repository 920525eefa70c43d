package block

// SplitInHalf splits a region into up to 2^n halves by halving every
// axis of size two or more. The halves are produced in lexicographic
// order over the per-axis half indices, low half first.
func SplitInHalf(region Region) []Region {
	halves := make([][]Span, len(region))
	count := 1
	for i, span := range region {
		mid := span.Start + span.Len()/2
		if mid == span.Start {
			halves[i] = []Span{span}
		} else {
			halves[i] = []Span{{span.Start, mid}, {mid, span.Stop}}
		}
		count *= len(halves[i])
	}

	out := make([]Region, 0, count)
	pick := make([]int, len(region))
	for {
		sub := make(Region, len(region))
		for i, choice := range pick {
			sub[i] = halves[i][choice]
		}
		out = append(out, sub)

		axis := len(pick) - 1
		for axis >= 0 {
			pick[axis]++
			if pick[axis] < len(halves[axis]) {
				break
			}
			pick[axis] = 0
			axis--
		}
		if axis < 0 {
			return out
		}
	}
}

// Tiles cuts a shape into equally sized tiles of blockSize per axis,
// in lexicographic order. Boundary tiles may be smaller.
func Tiles(shape []int, blockSize int) []Region {
	spans := make([][]Span, len(shape))
	count := 1
	for i, size := range shape {
		for start := 0; start < size; start += blockSize {
			stop := start + blockSize
			if stop > size {
				stop = size
			}
			spans[i] = append(spans[i], Span{start, stop})
		}
		count *= len(spans[i])
	}

	out := make([]Region, 0, count)
	pick := make([]int, len(shape))
	for {
		tile := make(Region, len(shape))
		for i, choice := range pick {
			tile[i] = spans[i][choice]
		}
		out = append(out, tile)

		axis := len(pick) - 1
		for axis >= 0 {
			pick[axis]++
			if pick[axis] < len(spans[axis]) {
				break
			}
			pick[axis] = 0
			axis--
		}
		if axis < 0 {
			return out
		}
	}
}
