package chart

import (
	"math"
	"sort"

	"seehuhn.de/go/geom/vec"
)

// Rect is an axis-aligned pixel rectangle. Y grows downwards.
type Rect struct {
	Min, Max vec.Vec2
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p vec.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Locate returns the index whose pixel position along the index axis is
// closest to pointer. positions holds one coordinate per index; NaN entries
// never match. The second result is false when the pointer is outside bounds
// or nothing can match. Ties go to the lower index.
func Locate(pointer vec.Vec2, positions []float64, layout Layout, bounds Rect) (int, bool) {
	if len(positions) == 0 || !bounds.Contains(pointer) {
		return -1, false
	}
	coord := pointer.X
	if layout == Vertical {
		coord = pointer.Y
	}
	if ascending(positions) {
		i := sort.SearchFloat64s(positions, coord)
		switch {
		case i == 0:
			return 0, true
		case i == len(positions):
			return len(positions) - 1, true
		case coord-positions[i-1] <= positions[i]-coord:
			return i - 1, true
		default:
			return i, true
		}
	}
	best, bestDist := -1, math.Inf(1)
	for i, p := range positions {
		if d := math.Abs(p - coord); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

func ascending(positions []float64) bool {
	for i, p := range positions {
		if math.IsNaN(p) || (i > 0 && p < positions[i-1]) {
			return false
		}
	}
	return true
}
