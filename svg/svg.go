// Package svg renders chart frames as SVG documents.
package svg

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

const (
	DotRadius       = 3
	ActiveDotRadius = 4
	FontSize        = 10
	AxisColor       = "#666666"
	CursorColor     = "#cccccc"
)

type createOptions struct {
	inside *html.Node
	style  map[string]string
	text   string
	attr   []html.Attribute
}

func createSVG(tag string, o createOptions) *html.Node {
	e := &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: "svg",
	}
	if o.inside != nil {
		o.inside.AppendChild(e)
	}
	if len(o.attr) > 0 {
		e.Attr = append(e.Attr, o.attr...)
	}
	if len(o.style) > 0 {
		e.Attr = append(e.Attr, style(o.style))
	}
	if o.text != "" {
		e.AppendChild(&html.Node{Type: html.TextNode, Data: o.text})
	}
	return e
}

func style(m map[string]string) html.Attribute {
	// Sorted so output is stable across runs.
	ls := make([]string, 0, len(m))
	for k := range m {
		ls = append(ls, k)
	}
	sort.Strings(ls)
	var s strings.Builder
	for i := range ls {
		s.WriteString(ls[i])
		s.WriteByte(':')
		s.WriteString(m[ls[i]])
		s.WriteByte(';')
	}
	return html.Attribute{Key: "style", Val: s.String()}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func group(parent *html.Node, className string) *html.Node {
	return createSVG("g", createOptions{
		inside: parent,
		attr:   []html.Attribute{{Key: "class", Val: className}},
	})
}

type pathOpts struct {
	className, stroke, fill, strokeWidth, fillOpacity string
}

// makePath adds a path element. An empty description leaves out the d
// attribute entirely, which marks a series that exists but has nothing to
// draw.
func makePath(parent *html.Node, e *chart.PathElement, o pathOpts) *html.Node {
	if o.stroke == "" {
		o.stroke = "none"
	}
	if o.fill == "" {
		o.fill = "none"
	}
	if o.strokeWidth == "" {
		o.strokeWidth = "1"
	}
	attr := []html.Attribute{{Key: "class", Val: o.className}}
	if d := e.D(); d != "" {
		attr = append(attr, html.Attribute{Key: "d", Val: d})
	}
	st := map[string]string{
		"stroke":       o.stroke,
		"fill":         o.fill,
		"stroke-width": o.strokeWidth,
	}
	if o.fillOpacity != "" {
		st["fill-opacity"] = o.fillOpacity
	}
	return createSVG("path", createOptions{inside: parent, attr: attr, style: st})
}

func circle(parent *html.Node, className string, p vec.Vec2, r float64, stroke, fill string) *html.Node {
	return createSVG("circle", createOptions{
		inside: parent,
		attr: []html.Attribute{
			{Key: "class", Val: className},
			{Key: "cx", Val: num(p.X)},
			{Key: "cy", Val: num(p.Y)},
			{Key: "r", Val: num(r)},
			{Key: "stroke", Val: stroke},
			{Key: "fill", Val: fill},
		},
	})
}

func line(parent *html.Node, className string, l [2]vec.Vec2, stroke string) *html.Node {
	return createSVG("line", createOptions{
		inside: parent,
		attr: []html.Attribute{
			{Key: "class", Val: className},
			{Key: "x1", Val: num(l[0].X)},
			{Key: "y1", Val: num(l[0].Y)},
			{Key: "x2", Val: num(l[1].X)},
			{Key: "y2", Val: num(l[1].Y)},
			{Key: "stroke", Val: stroke},
		},
	})
}

type textOptions struct {
	className, anchor, fill string
	dy                      float64
}

func text(parent *html.Node, p vec.Vec2, s string, o textOptions) *html.Node {
	if o.fill == "" {
		o.fill = AxisColor
	}
	if o.anchor == "" {
		o.anchor = "middle"
	}
	return createSVG("text", createOptions{
		inside: parent,
		text:   s,
		attr: []html.Attribute{
			{Key: "class", Val: o.className},
			{Key: "x", Val: num(p.X)},
			{Key: "y", Val: num(p.Y)},
			{Key: "dy", Val: num(o.dy)},
			{Key: "text-anchor", Val: o.anchor},
		},
		style: map[string]string{
			"font-size": strconv.Itoa(FontSize) + "px",
			"fill":      o.fill,
		},
	})
}

// Render builds the SVG element for f. Series without records produce no
// series groups at all.
func Render(f *chart.Frame) *html.Node {
	root := createSVG("svg", createOptions{
		attr: []html.Attribute{
			{Key: "class", Val: "area-chart"},
			{Key: "xmlns", Val: "http://www.w3.org/2000/svg"},
			{Key: "width", Val: num(f.Width)},
			{Key: "height", Val: num(f.Height)},
			{Key: "viewBox", Val: "0 0 " + num(f.Width) + " " + num(f.Height)},
		},
	})
	for _, a := range f.Axes {
		renderAxis(root, a)
	}
	for _, s := range f.Series {
		renderSeries(root, s)
	}
	renderOverlay(root, f.Overlay)
	return root
}

func renderAxis(root *html.Node, a *chart.AxisGeometry) {
	g := group(root, "area-chart-axis area-chart-"+a.Kind.String()+"-axis")
	line(g, "area-chart-axis-line", a.Line, AxisColor)
	ticks := group(g, "area-chart-axis-ticks")
	for _, t := range a.Ticks {
		o := textOptions{className: "area-chart-axis-tick"}
		if a.Placement == chart.Left {
			o.anchor = "end"
			o.dy = FontSize / 3.0
			t.Position.X -= 4
		} else {
			o.dy = FontSize + 4
		}
		text(ticks, t.Position, t.Label, o)
	}
}

func renderSeries(root *html.Node, s *chart.SeriesGeometry) {
	g := group(root, "area-chart-area")
	g.Attr = append(g.Attr,
		html.Attribute{Key: "data-series", Val: s.Spec.ID},
		html.Attribute{Key: "data-animate", Val: strconv.FormatBool(s.Animate)},
	)
	if s.Area != nil {
		makePath(g, s.Area, pathOpts{
			className:   "area-chart-area-area",
			fill:        s.Spec.Fill,
			fillOpacity: "0.6",
		})
	}
	if s.Curve != nil {
		makePath(g, s.Curve, pathOpts{
			className: "area-chart-area-curve",
			stroke:    s.Spec.Stroke,
		})
	}
	if len(s.Dots) > 0 {
		dots := group(g, "area-chart-area-dots")
		for _, d := range s.Dots {
			circle(dots, "area-chart-area-dot", d, DotRadius, s.Spec.Stroke, "#ffffff")
		}
	}
	if len(s.Labels) > 0 {
		labels := group(g, "area-chart-label-list")
		for _, l := range s.Labels {
			text(labels, l.Position, l.Text, textOptions{className: "area-chart-label", dy: -6})
		}
	}
}

func renderOverlay(root *html.Node, o chart.Overlay) {
	if !o.Active.Valid {
		return
	}
	line(root, "area-chart-tooltip-cursor", o.Cursor, CursorColor)
	for _, d := range o.Dots {
		circle(root, "area-chart-active-dot", d.Position, ActiveDotRadius, "#ffffff", d.Color)
	}
	tip := group(root, "area-chart-tooltip")
	at := vec.Vec2{X: o.Cursor[0].X + 8, Y: o.Cursor[0].Y}
	text(tip, at, o.Label, textOptions{className: "area-chart-tooltip-label", anchor: "start", dy: FontSize})
	for i, e := range o.Entries {
		v := "-"
		if !e.Null {
			v = strconv.FormatFloat(e.Value, 'f', -1, 64)
		}
		text(tip, at, e.Name+": "+v, textOptions{
			className: "area-chart-tooltip-item",
			anchor:    "start",
			fill:      e.Color,
			dy:        float64(FontSize * (i + 2)),
		})
	}
}

// Write renders f and serializes it to w.
func Write(w io.Writer, f *chart.Frame) error {
	return html.Render(w, Render(f))
}

// Find returns every element below n whose class list contains className.
func Find(n *html.Node, className string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, className) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, className string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == className {
					return true
				}
			}
		}
	}
	return false
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
