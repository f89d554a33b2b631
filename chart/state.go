package chart

import (
	"seehuhn.de/go/geom/vec"
)

// Phase is the pointer interaction phase of a chart.
type Phase uint8

const (
	Idle Phase = iota
	Hovering
)

func (p Phase) String() string {
	if p == Hovering {
		return "hovering"
	}
	return "idle"
}

type PointerKind uint8

const (
	PointerEnter PointerKind = iota
	PointerMove
	PointerLeave
)

// PointerEvent is a pointer position in chart pixel coordinates.
type PointerEvent struct {
	Kind     PointerKind
	Position vec.Vec2
}

// ActiveIndex is the index under the pointer. Index is relative to the brush
// window and Absolute to the dataset.
type ActiveIndex struct {
	Index    int
	Absolute int
	Valid    bool
}

var NoActiveIndex = ActiveIndex{Index: -1, Absolute: -1}

// interaction holds the transient pointer state. It never feeds series or
// axis cache keys.
type interaction struct {
	phase   Phase
	pointer vec.Vec2
	active  ActiveIndex
}

// apply advances the state machine for ev and reports whether the pointer
// should be located again.
func (s *interaction) apply(ev PointerEvent) (locate bool) {
	switch ev.Kind {
	case PointerEnter, PointerMove:
		s.phase = Hovering
		s.pointer = ev.Position
		return true
	case PointerLeave:
		s.phase = Idle
		s.active = NoActiveIndex
	}
	return false
}

// locate resolves the active index for the current pointer against lp.
func (s *interaction) locate(lp *layoutPass) {
	if s.phase != Hovering {
		s.active = NoActiveIndex
		return
	}
	i, ok := Locate(s.pointer, lp.positions, lp.opts.Layout, lp.plot)
	if !ok {
		s.active = NoActiveIndex
		return
	}
	s.active = ActiveIndex{Index: i, Absolute: lp.view.Absolute(i), Valid: true}
}
