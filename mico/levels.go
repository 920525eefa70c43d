package mico

import "github.com/andrefpf/pig/block"

// LevelTable maps a position level to the smallest number of magnitude
// bits holding every coefficient at that level or deeper. Entries are
// non-increasing; lookups past the end clamp to the last entry.
type LevelTable []int

// FindBitplanePerLevel builds the table for a block. Entry l covers
// the largest magnitude among positions whose level (maximum
// coordinate) is at least l, so the table is a reverse running maximum
// and non-increasing by construction.
func FindBitplanePerLevel(b *block.Block) LevelTable {
	numLevels := block.MaxLevel(b.Shape())
	maxPerLevel := make([]int32, numLevels)

	b.ForEach(b.Full(), func(_ int, pos []int, v int32) {
		level := block.LevelOf(pos)
		if a := block.Abs(v); a > maxPerLevel[level] {
			maxPerLevel[level] = a
		}
	})

	table := make(LevelTable, numLevels)
	var running int32
	for level := numLevels - 1; level >= 0; level-- {
		if maxPerLevel[level] > running {
			running = maxPerLevel[level]
		}
		table[level] = block.BitLength(running)
	}
	return table
}

// At returns the bitplane of a level, clamping indices past the table
// end to the deepest entry.
func (t LevelTable) At(level int) int {
	if level >= len(t) {
		return t[len(t)-1]
	}
	return t[level]
}

// Max returns the largest entry, the table head for a non-increasing
// table.
func (t LevelTable) Max() int {
	max := 0
	for _, bp := range t {
		if bp > max {
			max = bp
		}
	}
	return max
}

// Equal reports whether two tables hold the same entries.
func (t LevelTable) Equal(other LevelTable) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}
