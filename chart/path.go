package chart

import (
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
)

// PathElement is one drawable path of a series. An element with empty Data
// still exists in the output: it stands for a series that is present but has
// no coordinates to draw.
type PathElement struct {
	Data *path.Data
}

// Empty reports whether the element has no drawing commands.
func (e *PathElement) Empty() bool {
	return e == nil || e.Data == nil || len(e.Data.Cmds) == 0
}

// D formats the element as an SVG path description. Empty elements yield
// the empty string.
func (e *PathElement) D() string {
	if e.Empty() {
		return ""
	}
	return FormatPath(e.Data)
}

// FormatPath renders p in compact SVG syntax ("M0,0L1,1Z").
func FormatPath(p *path.Data) string {
	var b strings.Builder
	i := 0
	coord := func(n int) {
		for k := 0; k < n; k++ {
			if k > 0 {
				b.WriteByte(',')
			}
			pt := p.Coords[i]
			b.WriteString(num(pt.X))
			b.WriteByte(',')
			b.WriteString(num(pt.Y))
			i++
		}
	}
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			b.WriteByte('M')
			coord(1)
		case path.CmdLineTo:
			b.WriteByte('L')
			coord(1)
		case path.CmdQuadTo:
			b.WriteByte('Q')
			coord(2)
		case path.CmdCubeTo:
			b.WriteByte('C')
			coord(3)
		case path.CmdClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
