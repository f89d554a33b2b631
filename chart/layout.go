package chart

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Placement is the edge of the plot an axis is drawn along.
type Placement uint8

const (
	Bottom Placement = iota
	Left
)

func (p Placement) String() string {
	if p == Left {
		return "left"
	}
	return "bottom"
}

// placement returns where an axis of kind k goes in layout l. The index axis
// always runs along the edge parallel to the index direction.
func placement(k AxisKind, l Layout) Placement {
	if (k == IndexAxisKind) == (l == Horizontal) {
		return Bottom
	}
	return Left
}

func (a AxisSpec) size(p Placement) float64 {
	if a.Size > 0 {
		return a.Size
	}
	if p == Left {
		return 60
	}
	return 30
}

// plotArea is the chart box minus margins and the space taken by visible
// axes. It never has negative extent.
func plotArea(o Options) Rect {
	m := o.margin()
	var left, bottom float64
	for _, a := range o.Axes {
		if a.Hide {
			continue
		}
		p := placement(a.Kind, o.Layout)
		if p == Left {
			left += a.size(p)
		} else {
			bottom += a.size(p)
		}
	}
	r := Rect{
		Min: vec.Vec2{X: m.Left + left, Y: m.Top},
		Max: vec.Vec2{X: o.Width - m.Right, Y: o.Height - m.Bottom - bottom},
	}
	r.Max.X = max(r.Max.X, r.Min.X)
	r.Max.Y = max(r.Max.Y, r.Min.Y)
	return r
}

// layoutPass is everything derived from the data and options that all series
// share. It is recomputed only when its structural key changes.
type layoutPass struct {
	key    uint64
	opts   Options
	view   View
	plot   Rect
	index  Scale
	value  Scale
	base   float64
	stacks map[string][]StackedValue
	// positions is the index-axis pixel coordinate of each view index.
	positions []float64
}

// layoutKey hashes every input of a layout pass. The brush enters clamped so
// that equivalent windows share a key.
func layoutKey(ds *Dataset, o Options, brush *BrushWindow) uint64 {
	h := newHasher()
	h.u64(ds.ID())
	h.int(ds.Len())
	h.int(int(o.Layout))
	h.vec(o.Width, o.Height)
	m := o.margin()
	h.vec(m.Top, m.Right)
	h.vec(m.Bottom, m.Left)
	h.str(o.IndexAxis.Field)
	h.int(int(o.IndexAxis.Type))
	h.int(int(o.IndexAxis.Scale))
	h.bool(o.ValueDomain != nil)
	if o.ValueDomain != nil {
		h.vec(o.ValueDomain[0], o.ValueDomain[1])
	}
	h.int(int(o.BaseValue.Mode))
	h.f64(o.BaseValue.Value)
	h.int(len(o.Axes))
	for _, a := range o.Axes {
		h.int(int(a.Kind))
		h.f64(a.Size)
		h.bool(a.Hide)
	}
	h.int(len(o.Series))
	for _, s := range o.Series {
		h.spec(s)
	}
	h.bool(brush != nil)
	if brush != nil {
		w := brush.Clamp(ds.Len())
		h.int(w.Start)
		h.int(w.End)
	}
	return h.sum()
}

// newLayoutPass resolves domains, scales and stacks. o must be normalized.
func newLayoutPass(ds *Dataset, o Options, brush *BrushWindow, key uint64) *layoutPass {
	lp := &layoutPass{
		key:  key,
		opts: o,
		view: Window(ds, brush),
		plot: plotArea(o),
	}
	lp.stacks = Stack(o.Series, lp.view)

	var indexRange, valueRange [2]float64
	if o.Layout == Vertical {
		indexRange = [2]float64{lp.plot.Min.Y, lp.plot.Max.Y}
		valueRange = [2]float64{lp.plot.Min.X, lp.plot.Max.X}
	} else {
		indexRange = [2]float64{lp.plot.Min.X, lp.plot.Max.X}
		valueRange = [2]float64{lp.plot.Max.Y, lp.plot.Min.Y}
	}

	id := indexDomain(lp.view, o.IndexAxis)
	if o.IndexAxis.Scale == Point {
		lp.index = ResolvePoint(id, indexRange)
	} else {
		lp.index = Resolve(id, indexRange)
	}
	vd := valueDomain(o.Series, lp.stacks, o.ValueDomain)
	lp.value = Resolve(vd, valueRange)
	lp.base = baseValue(o.BaseValue, vd)

	lp.positions = make([]float64, lp.view.Len())
	for i := range lp.positions {
		lp.positions[i] = lp.indexPosition(i)
	}
	return lp
}

// indexPosition is the pixel coordinate of view index i along the index
// axis, NaN when a numeric index field has no value for that record.
func (lp *layoutPass) indexPosition(i int) float64 {
	if !lp.index.Domain().Categorical {
		f, ok := lp.view.At(i).Get(lp.opts.IndexAxis.Field).Number()
		if !ok {
			return math.NaN()
		}
		return lp.index.Map(f)
	}
	return lp.index.Position(i)
}

// at converts an index coordinate and a value coordinate into a pixel point.
func (lp *layoutPass) at(index, value float64) vec.Vec2 {
	if lp.opts.Layout == Vertical {
		return vec.Vec2{X: value, Y: index}
	}
	return vec.Vec2{X: index, Y: value}
}

// resolve maps every value of s into pixel space.
func (lp *layoutPass) resolve(s SeriesSpec) []ResolvedPoint {
	vals := lp.stacks[s.ID]
	out := make([]ResolvedPoint, len(vals))
	for i, sv := range vals {
		pos := lp.positions[i]
		base := lp.base
		if s.StackID != "" {
			base = sv.Base
		}
		basePx := lp.value.Map(base)
		rp := ResolvedPoint{
			Index:    i,
			Absolute: lp.view.Absolute(i),
			Null:     sv.Null || math.IsNaN(pos),
		}
		if rp.Null {
			rp.Point = lp.at(pos, basePx)
		} else {
			rp.Value = sv.Top - sv.Base
			rp.Point = lp.at(pos, lp.value.Map(sv.Top))
		}
		rp.Baseline = lp.at(pos, basePx)
		out[i] = rp
	}
	return out
}

// seriesKey covers everything the geometry of s depends on: the shared
// structure, its own declaration and the series stacked beneath it. Other
// series only matter through the value domain, which is hashed directly.
func (lp *layoutPass) seriesKey(s SeriesSpec) uint64 {
	h := newHasher()
	v := lp.view
	h.u64(v.Dataset().ID())
	h.int(v.Offset())
	h.int(v.Len())
	h.int(int(lp.opts.Layout))
	h.rect(lp.plot)
	h.str(lp.opts.IndexAxis.Field)
	h.int(int(lp.opts.IndexAxis.Type))
	h.int(int(lp.opts.IndexAxis.Scale))
	vd := lp.value.Domain()
	h.vec(vd.Min, vd.Max)
	h.f64(lp.base)
	h.spec(s)
	for _, p := range stackPredecessors(lp.opts.Series, s) {
		h.str(p.ID)
		h.str(p.Field)
	}
	return h.sum()
}

func (lp *layoutPass) axisScale(k AxisKind) Scale {
	if k == ValueAxisKind {
		return lp.value
	}
	return lp.index
}

func (lp *layoutPass) axisKey(a AxisSpec) uint64 {
	h := newHasher()
	h.int(int(a.Kind))
	h.f64(a.Size)
	h.int(int(lp.opts.Layout))
	h.rect(lp.plot)
	h.domain(lp.axisScale(a.Kind).Domain())
	h.int(int(lp.index.kind))
	return h.sum()
}
