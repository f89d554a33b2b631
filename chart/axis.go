package chart

import (
	"seehuhn.de/go/geom/vec"
)

type Tick struct {
	Position vec.Vec2
	Label    string
}

// AxisGeometry is a rendered axis: its line along the plot edge and its
// ticks. Numeric axes only tick their domain endpoints.
type AxisGeometry struct {
	Kind      AxisKind
	Placement Placement
	Line      [2]vec.Vec2
	Ticks     []Tick
}

func buildAxis(lp *layoutPass, a AxisSpec) *AxisGeometry {
	p := placement(a.Kind, lp.opts.Layout)
	r := lp.plot
	g := &AxisGeometry{Kind: a.Kind, Placement: p}
	if p == Bottom {
		g.Line = [2]vec.Vec2{{X: r.Min.X, Y: r.Max.Y}, {X: r.Max.X, Y: r.Max.Y}}
	} else {
		g.Line = [2]vec.Vec2{{X: r.Min.X, Y: r.Min.Y}, {X: r.Min.X, Y: r.Max.Y}}
	}
	at := func(c float64) vec.Vec2 {
		if p == Bottom {
			return vec.Vec2{X: c, Y: r.Max.Y}
		}
		return vec.Vec2{X: r.Min.X, Y: c}
	}
	s := lp.axisScale(a.Kind)
	d := s.Domain()
	if d.Categorical {
		for i, c := range d.Categories {
			g.Ticks = append(g.Ticks, Tick{Position: at(s.Position(i)), Label: c})
		}
		return g
	}
	g.Ticks = append(g.Ticks, Tick{Position: at(s.Map(d.Min)), Label: num(d.Min)})
	if !d.Degenerate() {
		g.Ticks = append(g.Ticks, Tick{Position: at(s.Map(d.Max)), Label: num(d.Max)})
	}
	return g
}
