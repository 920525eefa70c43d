package block

// Span is a half-open index interval [Start, Stop) along one axis.
type Span struct {
	Start int
	Stop  int
}

// Len returns the number of indices covered by the span.
func (s Span) Len() int {
	return s.Stop - s.Start
}

// Region describes a rectangular sub-block as one span per axis.
type Region []Span

// FullRegion returns the region covering a whole shape.
func FullRegion(shape []int) Region {
	region := make(Region, len(shape))
	for i, size := range shape {
		region[i] = Span{0, size}
	}
	return region
}

// Shape returns the per-axis sizes of the region.
func (r Region) Shape() []int {
	shape := make([]int, len(r))
	for i, span := range r {
		shape[i] = span.Len()
	}
	return shape
}

// Size returns the number of positions in the region.
func (r Region) Size() int {
	size := 1
	for _, span := range r {
		size *= span.Len()
	}
	return size
}

// IsUnit reports whether the region holds exactly one position.
func (r Region) IsUnit() bool {
	return r.Size() == 1
}

// StartLevel returns the level of the region's first position, the
// maximum of the per-axis starts.
func (r Region) StartLevel() int {
	level := 0
	for _, span := range r {
		if span.Start > level {
			level = span.Start
		}
	}
	return level
}

// StopLevel returns the maximum of the per-axis stops.
func (r Region) StopLevel() int {
	level := 0
	for _, span := range r {
		if span.Stop > level {
			level = span.Stop
		}
	}
	return level
}

// LevelOf returns the level of a position, the maximum coordinate.
func LevelOf(pos []int) int {
	level := 0
	for _, p := range pos {
		if p > level {
			level = p
		}
	}
	return level
}

// MaxLevel returns the number of levels of a shape, the largest axis
// size.
func MaxLevel(shape []int) int {
	max := 0
	for _, size := range shape {
		if size > max {
			max = size
		}
	}
	return max
}
