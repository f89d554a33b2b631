package chart

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ResolvedPoint is one series value mapped into pixel space.
type ResolvedPoint struct {
	// Index is relative to the brush window, Absolute to the dataset.
	Index    int
	Absolute int
	Point    vec.Vec2
	// Baseline is the pixel position of the bottom of the area at this
	// index: the stacked base, or the base value for unstacked series.
	Baseline vec.Vec2
	Value    float64
	Null     bool
}

type Label struct {
	Index    int
	Position vec.Vec2
	Text     string
}

type BuildOptions struct {
	Interpolation Interpolation
	Layout        Layout
	ConnectNulls  bool
	Dots          bool
	Labels        bool
}

// Geometry is the drawable output of one series.
type Geometry struct {
	// Area is the closed outline between the curve and the baseline. Curve is
	// the open top edge. Both are nil when there is nothing to connect.
	Area, Curve *PathElement
	Dots        []vec.Vec2
	Labels      []Label
}

// Build turns resolved points into paths and markers.
//
// With no points nothing is produced. A single point yields no paths and
// exactly one dot. With two or more points both paths are produced, even when
// every value is null, in which case they carry no commands.
func Build(points []ResolvedPoint, opts BuildOptions) *Geometry {
	g := &Geometry{}
	switch len(points) {
	case 0:
		return g
	case 1:
		if !points[0].Null {
			g.Dots = []vec.Vec2{points[0].Point}
		}
		if opts.Labels {
			g.Labels = labels(points)
		}
		return g
	}

	run := points
	if opts.ConnectNulls {
		run = make([]ResolvedPoint, 0, len(points))
		for _, p := range points {
			if !p.Null {
				run = append(run, p)
			}
		}
	}
	g.Curve = &PathElement{Data: &path.Data{}}
	g.Area = &PathElement{Data: &path.Data{}}
	drawLine(newCurve(opts.Interpolation, opts.Layout, dataSink{g.Curve.Data}), run)
	drawArea(newCurve(opts.Interpolation, opts.Layout, dataSink{g.Area.Data}), run)

	if opts.Dots {
		for _, p := range points {
			if !p.Null {
				g.Dots = append(g.Dots, p.Point)
			}
		}
	}
	if opts.Labels {
		g.Labels = labels(points)
	}
	return g
}

func labels(points []ResolvedPoint) []Label {
	var out []Label
	for _, p := range points {
		if p.Null {
			continue
		}
		out = append(out, Label{Index: p.Index, Position: p.Point, Text: num(p.Value)})
	}
	return out
}

// drawLine feeds each maximal run of non-null points to c as one line.
func drawLine(c curve, points []ResolvedPoint) {
	defined := false
	for i := 0; i <= len(points); i++ {
		ok := i < len(points) && !points[i].Null
		if ok != defined {
			defined = ok
			if defined {
				c.lineStart()
			} else {
				c.lineEnd()
			}
		}
		if defined {
			c.point(points[i].Point.X, points[i].Point.Y)
		}
	}
}

// drawArea emits one closed region per run of non-null points: the top edge
// forwards, then the baseline backwards.
func drawArea(c curve, points []ResolvedPoint) {
	defined := false
	start := 0
	for i := 0; i <= len(points); i++ {
		ok := i < len(points) && !points[i].Null
		if ok != defined {
			defined = ok
			if defined {
				start = i
				c.areaStart()
				c.lineStart()
			} else {
				c.lineEnd()
				c.lineStart()
				for k := i - 1; k >= start; k-- {
					c.point(points[k].Baseline.X, points[k].Baseline.Y)
				}
				c.lineEnd()
				c.areaEnd()
			}
		}
		if defined {
			c.point(points[i].Point.X, points[i].Point.Y)
		}
	}
}
