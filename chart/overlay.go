package chart

import (
	"strconv"

	"seehuhn.de/go/geom/vec"
)

// TooltipEntry is one series line of the tooltip.
type TooltipEntry struct {
	SeriesID string
	Name     string
	Value    float64
	Null     bool
	Color    string
}

type ActiveDot struct {
	SeriesID string
	Position vec.Vec2
	Color    string
}

// Overlay is the per-interaction layer drawn above the memoized series. It
// is empty while no index is active.
type Overlay struct {
	Active  ActiveIndex
	Label   string
	Cursor  [2]vec.Vec2
	Entries []TooltipEntry
	Dots    []ActiveDot
}

func buildOverlay(lp *layoutPass, series []*SeriesGeometry, active ActiveIndex) Overlay {
	if !active.Valid || lp == nil || active.Index >= lp.view.Len() {
		return Overlay{Active: NoActiveIndex}
	}
	o := Overlay{Active: active}
	if f := lp.opts.IndexAxis.Field; f != "" {
		o.Label = lp.view.At(active.Index).Get(f).String()
	} else {
		o.Label = strconv.Itoa(active.Absolute)
	}
	pos := lp.positions[active.Index]
	r := lp.plot
	if lp.opts.Layout == Vertical {
		o.Cursor = [2]vec.Vec2{{X: r.Min.X, Y: pos}, {X: r.Max.X, Y: pos}}
	} else {
		o.Cursor = [2]vec.Vec2{{X: pos, Y: r.Min.Y}, {X: pos, Y: r.Max.Y}}
	}
	for _, s := range series {
		if active.Index >= len(s.Points) {
			continue
		}
		p := s.Points[active.Index]
		o.Entries = append(o.Entries, TooltipEntry{
			SeriesID: s.Spec.ID,
			Name:     s.Spec.Name,
			Value:    p.Value,
			Null:     p.Null,
			Color:    s.Spec.Stroke,
		})
		if s.Spec.ActiveDot.Or(true) && !p.Null {
			o.Dots = append(o.Dots, ActiveDot{SeriesID: s.Spec.ID, Position: p.Point, Color: s.Spec.Stroke})
		}
	}
	return o
}
