package chart

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// A curve consumes an ordered point stream and writes path segments.
// Between lineStart and lineEnd the points form one connected run. Inside
// areaStart/areaEnd two runs are expected, the top edge and then the reversed
// baseline, and the second run continues the first instead of starting a new
// subpath.
type curve interface {
	areaStart()
	areaEnd()
	lineStart()
	lineEnd()
	point(x, y float64)
}

// sink receives path segments from a curve.
type sink interface {
	moveTo(x, y float64)
	lineTo(x, y float64)
	cubeTo(x1, y1, x2, y2, x, y float64)
	closePath()
}

type dataSink struct {
	d *path.Data
}

func (s dataSink) moveTo(x, y float64) { s.d.MoveTo(vec.Vec2{X: x, Y: y}) }
func (s dataSink) lineTo(x, y float64) { s.d.LineTo(vec.Vec2{X: x, Y: y}) }
func (s dataSink) closePath()          { s.d.Close() }
func (s dataSink) cubeTo(x1, y1, x2, y2, x, y float64) {
	s.d.CubeTo(vec.Vec2{X: x1, Y: y1}, vec.Vec2{X: x2, Y: y2}, vec.Vec2{X: x, Y: y})
}

// reflectSink swaps coordinates on the way out, so a curve that is monotone
// or stepped in X becomes monotone or stepped in Y.
type reflectSink struct {
	sink
}

func (s reflectSink) moveTo(x, y float64) { s.sink.moveTo(y, x) }
func (s reflectSink) lineTo(x, y float64) { s.sink.lineTo(y, x) }
func (s reflectSink) cubeTo(x1, y1, x2, y2, x, y float64) {
	s.sink.cubeTo(y1, x1, y2, x2, y, x)
}

type reflected struct {
	curve
}

func (r reflected) point(x, y float64) { r.curve.point(y, x) }

// newCurve returns the curve for kind. Monotone and step curves follow the
// index axis, which is Y in a vertical layout.
func newCurve(kind Interpolation, layout Layout, out sink) curve {
	alongY := layout == Vertical && kind != Linear && kind != Basis
	if alongY {
		out = reflectSink{out}
	}
	rs := runState{line: lineNone}
	var c curve
	switch kind {
	case Monotone:
		c = &monotoneCurve{runState: rs, out: out}
	case Step:
		c = &stepCurve{runState: rs, out: out, t: 0.5}
	case StepBefore:
		c = &stepCurve{runState: rs, out: out, t: 0}
	case StepAfter:
		c = &stepCurve{runState: rs, out: out, t: 1}
	case Basis:
		c = &basisCurve{runState: rs, out: out}
	default:
		c = &linearCurve{runState: rs, out: out}
	}
	if alongY {
		return reflected{c}
	}
	return c
}

// lineNone marks a curve that is drawing a plain line rather than an area.
const lineNone = -1

// runState tracks the area/line bookkeeping shared by all curves.
type runState struct {
	line int
	pt   int
}

func (r *runState) areaStart() { r.line = 0 }
func (r *runState) areaEnd()   { r.line = lineNone }

// start opens a run: a fresh subpath, or a continuation while drawing the
// second edge of an area.
func (r *runState) start(out sink, x, y float64) {
	if r.line == 1 {
		out.lineTo(x, y)
	} else {
		out.moveTo(x, y)
	}
}

// end closes area outlines after their second edge and single-point lines,
// then flips to the next edge.
func (r *runState) end(out sink) {
	if r.line == 1 || (r.line == lineNone && r.pt == 1) {
		out.closePath()
	}
	if r.line != lineNone {
		r.line = 1 - r.line
	}
}

type linearCurve struct {
	runState
	out sink
}

func (c *linearCurve) lineStart() { c.pt = 0 }
func (c *linearCurve) lineEnd()   { c.end(c.out) }

func (c *linearCurve) point(x, y float64) {
	if c.pt == 0 {
		c.pt = 1
		c.start(c.out, x, y)
		return
	}
	c.pt = 2
	c.out.lineTo(x, y)
}

// stepCurve draws horizontal then vertical segments. t places the vertical
// segment: 0 at the previous point, 1 at the next, 0.5 half way.
type stepCurve struct {
	runState
	out  sink
	t    float64
	x, y float64
}

func (c *stepCurve) lineStart() { c.pt = 0 }

func (c *stepCurve) lineEnd() {
	if 0 < c.t && c.t < 1 && c.pt == 2 {
		c.out.lineTo(c.x, c.y)
	}
	c.end(c.out)
	if c.line != lineNone {
		// The reversed baseline of an area steps the other way round.
		c.t = 1 - c.t
	}
}

// areaEnd restores t if the area stopped after its top edge.
func (c *stepCurve) areaEnd() {
	if c.line == 1 {
		c.t = 1 - c.t
	}
	c.runState.areaEnd()
}

func (c *stepCurve) point(x, y float64) {
	switch c.pt {
	case 0:
		c.pt = 1
		c.start(c.out, x, y)
	default:
		c.pt = 2
		if c.t <= 0 {
			c.out.lineTo(c.x, y)
			c.out.lineTo(x, y)
		} else {
			x1 := c.x*(1-c.t) + x*c.t
			c.out.lineTo(x1, c.y)
			c.out.lineTo(x1, y)
		}
	}
	c.x, c.y = x, y
}

// basisCurve is a uniform cubic B-spline through the points, clamped so it
// starts and ends on the first and last point.
type basisCurve struct {
	runState
	out            sink
	x0, y0, x1, y1 float64
}

func (c *basisCurve) lineStart() { c.pt = 0 }

func (c *basisCurve) lineEnd() {
	switch c.pt {
	case 3:
		c.bezier(c.x1, c.y1)
		c.out.lineTo(c.x1, c.y1)
	case 2:
		c.out.lineTo(c.x1, c.y1)
	}
	c.end(c.out)
}

func (c *basisCurve) bezier(x, y float64) {
	c.out.cubeTo(
		(2*c.x0+c.x1)/3, (2*c.y0+c.y1)/3,
		(c.x0+2*c.x1)/3, (c.y0+2*c.y1)/3,
		(c.x0+4*c.x1+x)/6, (c.y0+4*c.y1+y)/6,
	)
}

func (c *basisCurve) point(x, y float64) {
	switch c.pt {
	case 0:
		c.pt = 1
		c.start(c.out, x, y)
	case 1:
		c.pt = 2
	case 2:
		c.pt = 3
		c.out.lineTo((5*c.x0+c.x1)/6, (5*c.y0+c.y1)/6)
		c.bezier(x, y)
	default:
		c.bezier(x, y)
	}
	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
}

// monotoneCurve is a cubic Hermite spline monotone in X (Steffen's method),
// so it never overshoots the data between two points.
type monotoneCurve struct {
	runState
	out                sink
	x0, y0, x1, y1, t0 float64
}

var negZero = math.Copysign(0, -1)

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// slope3 is the tangent at (x1, y1) given the next point.
func (c *monotoneCurve) slope3(x2, y2 float64) float64 {
	h0 := c.x1 - c.x0
	h1 := x2 - c.x1
	d0, d1 := h0, h1
	if d0 == 0 && h1 < 0 {
		d0 = negZero
	}
	if d1 == 0 && h0 < 0 {
		d1 = negZero
	}
	s0 := (c.y1 - c.y0) / d0
	s1 := (y2 - c.y1) / d1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// slope2 is the one-sided tangent used at the ends of a run.
func (c *monotoneCurve) slope2(t float64) float64 {
	if h := c.x1 - c.x0; h != 0 {
		return (3*(c.y1-c.y0)/h - t) / 2
	}
	return t
}

func (c *monotoneCurve) hermite(t0, t1 float64) {
	dx := (c.x1 - c.x0) / 3
	c.out.cubeTo(c.x0+dx, c.y0+dx*t0, c.x1-dx, c.y1-dx*t1, c.x1, c.y1)
}

func (c *monotoneCurve) lineStart() {
	c.pt = 0
	c.x0, c.y0, c.x1, c.y1, c.t0 = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
}

func (c *monotoneCurve) lineEnd() {
	switch c.pt {
	case 2:
		c.out.lineTo(c.x1, c.y1)
	case 3:
		c.hermite(c.t0, c.slope2(c.t0))
	}
	c.end(c.out)
}

func (c *monotoneCurve) point(x, y float64) {
	if x == c.x1 && y == c.y1 {
		return
	}
	t1 := math.NaN()
	switch c.pt {
	case 0:
		c.pt = 1
		c.start(c.out, x, y)
	case 1:
		c.pt = 2
	case 2:
		c.pt = 3
		t1 = c.slope3(x, y)
		c.hermite(c.slope2(t1), t1)
	default:
		t1 = c.slope3(x, y)
		c.hermite(c.t0, t1)
	}
	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
	c.t0 = t1
}
