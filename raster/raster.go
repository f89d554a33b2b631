// Package raster draws chart frames into images.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

const (
	curveSteps  = 16
	strokeWidth = 1.5
	dotRadius   = 3
	fillAlpha   = 0x99
)

var (
	background  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	axisColor   = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	cursorColor = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	fallback    = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

type canvas struct {
	dst *image.RGBA
	r   *vector.Rasterizer
}

func (c *canvas) fill(col color.Color, build func(r *vector.Rasterizer)) {
	b := c.dst.Bounds()
	c.r.Reset(b.Dx(), b.Dy())
	c.r.DrawOp = draw.Over
	build(c.r)
	c.r.Draw(c.dst, b, image.NewUniform(col), image.Point{})
}

func parseColor(s string) color.NRGBA {
	c, err := chart.ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// Render rasterizes f at its own pixel size.
func Render(f *chart.Frame) *image.RGBA {
	w := int(math.Ceil(f.Width))
	h := int(math.Ceil(f.Height))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	c := &canvas{dst: dst, r: vector.NewRasterizer(w, h)}

	for _, a := range f.Axes {
		c.fill(axisColor, func(r *vector.Rasterizer) {
			stroke(r, a.Line[:], 1)
		})
	}
	for _, s := range f.Series {
		if !s.Area.Empty() {
			fill := parseColor(s.Spec.Fill)
			fill.A = uint8(uint16(fill.A) * fillAlpha / 0xff)
			c.fill(fill, func(r *vector.Rasterizer) {
				for _, sub := range flatten(s.Area.Data) {
					polygon(r, sub)
				}
			})
		}
		col := parseColor(s.Spec.Stroke)
		if !s.Curve.Empty() {
			c.fill(col, func(r *vector.Rasterizer) {
				for _, sub := range flatten(s.Curve.Data) {
					stroke(r, sub, strokeWidth)
				}
			})
		}
		for _, d := range s.Dots {
			c.fill(col, func(r *vector.Rasterizer) {
				circle(r, d, dotRadius)
			})
		}
	}
	if f.Overlay.Active.Valid {
		c.fill(cursorColor, func(r *vector.Rasterizer) {
			stroke(r, f.Overlay.Cursor[:], 1)
		})
		for _, d := range f.Overlay.Dots {
			c.fill(parseColor(d.Color), func(r *vector.Rasterizer) {
				circle(r, d.Position, dotRadius+1)
			})
		}
	}
	return dst
}

// WritePNG renders f and encodes it as PNG.
func WritePNG(w io.Writer, f *chart.Frame) error {
	return png.Encode(w, Render(f))
}

// flatten converts p into polylines, one per subpath. Curves are sampled at
// a fixed number of steps.
func flatten(p *path.Data) [][]vec.Vec2 {
	var (
		out  [][]vec.Vec2
		cur  []vec.Vec2
		i    int
		last vec.Vec2
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			flush()
			last = p.Coords[i]
			cur = append(cur, last)
			i++
		case path.CmdLineTo:
			last = p.Coords[i]
			cur = append(cur, last)
			i++
		case path.CmdQuadTo:
			c, e := p.Coords[i], p.Coords[i+1]
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				u := 1 - t
				cur = append(cur, vec.Vec2{
					X: u*u*last.X + 2*u*t*c.X + t*t*e.X,
					Y: u*u*last.Y + 2*u*t*c.Y + t*t*e.Y,
				})
			}
			last = e
			i += 2
		case path.CmdCubeTo:
			c1, c2, e := p.Coords[i], p.Coords[i+1], p.Coords[i+2]
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				u := 1 - t
				cur = append(cur, vec.Vec2{
					X: u*u*u*last.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*e.X,
					Y: u*u*u*last.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*e.Y,
				})
			}
			last = e
			i += 3
		case path.CmdClose:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
				last = cur[0]
			}
		}
	}
	flush()
	return out
}

func polygon(r *vector.Rasterizer, pts []vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
}

// stroke adds one quad per segment of pts. x/image/vector only fills, so this
// is how lines get width.
func stroke(r *vector.Rasterizer, pts []vec.Vec2, width float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*width/2, dx/l*width/2
		r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		r.LineTo(float32(b.X+nx), float32(b.Y+ny))
		r.LineTo(float32(b.X-nx), float32(b.Y-ny))
		r.LineTo(float32(a.X-nx), float32(a.Y-ny))
		r.ClosePath()
	}
}

func circle(r *vector.Rasterizer, c vec.Vec2, radius float32) {
	const k = float32(0.5522847498)
	cx, cy := float32(c.X), float32(c.Y)
	kr := k * radius
	r.MoveTo(cx, cy-radius)
	r.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	r.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	r.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	r.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	r.ClosePath()
}
