package chart

import "math"

// Scale maps a domain onto a pixel range. The range may be reversed (r0 > r1),
// which is how the value axis grows upwards in a horizontal layout.
type Scale struct {
	domain Domain
	r0, r1 float64
	kind   ScaleKind
}

// Resolve builds a scale for d over pixel range r. Categorical domains use
// evenly spaced band centres in declaration order.
func Resolve(d Domain, r [2]float64) Scale {
	return Scale{domain: d, r0: r[0], r1: r[1], kind: Band}
}

// ResolvePoint is Resolve for categorical domains whose first and last
// categories should sit on the range ends.
func ResolvePoint(d Domain, r [2]float64) Scale {
	return Scale{domain: d, r0: r[0], r1: r[1], kind: Point}
}

func (s Scale) Domain() Domain { return s.domain }

func (s Scale) Range() [2]float64 { return [2]float64{s.r0, s.r1} }

func (s Scale) mid() float64 { return (s.r0 + s.r1) / 2 }

// Map converts a numeric domain value into a pixel coordinate. Values outside
// the domain extrapolate linearly.
func (s Scale) Map(v float64) float64 {
	d := s.domain
	if d.Categorical {
		return s.Position(int(math.Round(v)))
	}
	if d.Min == d.Max {
		return s.mid()
	}
	return s.r0 + (v-d.Min)/(d.Max-d.Min)*(s.r1-s.r0)
}

// Position returns the pixel coordinate of the i-th category.
func (s Scale) Position(i int) float64 {
	n := len(s.domain.Categories)
	if n <= 1 {
		return s.mid()
	}
	if s.kind == Point {
		return s.r0 + float64(i)*(s.r1-s.r0)/float64(n-1)
	}
	step := (s.r1 - s.r0) / float64(n)
	return s.r0 + step*(float64(i)+0.5)
}

// Bandwidth is the width of one category band, zero for point and numeric
// scales.
func (s Scale) Bandwidth() float64 {
	n := len(s.domain.Categories)
	if !s.domain.Categorical || s.kind == Point || n == 0 {
		return 0
	}
	return math.Abs(s.r1-s.r0) / float64(n)
}
