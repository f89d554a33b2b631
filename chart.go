package main

import (
	"image"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/backend"
	"git.sr.ht/~whereswaldon/areaplot/chart"
)

var resetIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.NavigationFullscreen)
	return icon
}()

const (
	layoutHorizontal = "horizontal"
	layoutVertical   = "vertical"
	// defaultStack is the stack every series joins when stacking is
	// switched on for series that did not declare one.
	defaultStack = "stack"
)

// ChartView draws a chart.Chart and feeds it pointer, scroll and toggle
// input.
type ChartView struct {
	chart *chart.Chart
	// base is the declaration as loaded, before the toggles below apply.
	base chart.Options
	err  error

	Enabled    []*widget.Bool
	Stacked    widget.Bool
	LayoutEnum widget.Enum
	resetBtn   widget.Clickable
	keyTable   component.GridState
	zoom       gesture.Scroll
	pan        gesture.Scroll
	// panAccum and zoomAccum hold scroll distance not yet converted into
	// whole records.
	panAccum, zoomAccum float32
}

func NewChartView() *ChartView {
	return &ChartView{}
}

// SetData shows ds using cfg. Series declarations are derived from the data
// the first time a dataset arrives; later datasets only replace the records.
func (c *ChartView) SetData(ds *chart.Dataset, cfg backend.Config) {
	if c.chart != nil {
		c.chart.SetData(ds)
		return
	}
	opts, err := cfg.WithSeriesFor(ds).Options()
	if err != nil {
		c.err = err
		return
	}
	ch, err := chart.New(opts)
	if err != nil {
		c.err = err
		return
	}
	c.err = nil
	c.chart = ch
	c.base = opts
	c.chart.SetData(ds)
	c.Enabled = c.Enabled[:0]
	stacked := false
	for _, s := range opts.Series {
		c.Enabled = append(c.Enabled, &widget.Bool{Value: !s.Hide})
		stacked = stacked || s.StackID != ""
	}
	c.Stacked.Value = stacked
	c.LayoutEnum.Value = opts.Layout.String()
}

// Err reports why the declaration could not be turned into a chart.
func (c *ChartView) Err() error {
	return c.err
}

// viewOptions applies the interactive toggles to base.
func viewOptions(base chart.Options, size image.Point, enabled []bool, stacked bool, layoutName string) chart.Options {
	opts := base
	opts.Width = float64(max(size.X, 1))
	opts.Height = float64(max(size.Y, 1))
	if l, err := chart.ParseLayout(layoutName); err == nil {
		opts.Layout = l
	}
	opts.Series = make([]chart.SeriesSpec, len(base.Series))
	for i, s := range base.Series {
		if i < len(enabled) {
			s.Hide = !enabled[i]
		}
		switch {
		case !stacked:
			s.StackID = ""
		case s.StackID == "":
			s.StackID = defaultStack
		}
		opts.Series[i] = s
	}
	return opts
}

// panBrush shifts w by delta records without changing its width or leaving
// a dataset of n records.
func panBrush(w chart.BrushWindow, delta, n int) chart.BrushWindow {
	if n == 0 {
		return w
	}
	delta = clamp(delta, -w.Start, n-1-w.End)
	return chart.BrushWindow{Start: w.Start + delta, End: w.End + delta}
}

// zoomBrush widens w by delta records on each side, or narrows it for a
// negative delta. The window never shrinks below two records.
func zoomBrush(w chart.BrushWindow, delta, n int) chart.BrushWindow {
	if n == 0 {
		return w
	}
	start, end := w.Start-delta, w.End+delta
	if end-start < 1 {
		mid := (w.Start + w.End) / 2
		start, end = mid, mid+1
	}
	return chart.BrushWindow{Start: start, End: end}.Clamp(n)
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func pt(v vec.Vec2) f32.Point {
	return f32.Pt(float32(v.X), float32(v.Y))
}

// clipPath converts a chart path into a gio path.
func clipPath(ops *op.Ops, d *path.Data) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	i := 0
	for _, cmd := range d.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			p.MoveTo(pt(d.Coords[i]))
			i++
		case path.CmdLineTo:
			p.LineTo(pt(d.Coords[i]))
			i++
		case path.CmdQuadTo:
			p.QuadTo(pt(d.Coords[i]), pt(d.Coords[i+1]))
			i += 2
		case path.CmdCubeTo:
			p.CubeTo(pt(d.Coords[i]), pt(d.Coords[i+1]), pt(d.Coords[i+2]))
			i += 3
		case path.CmdClose:
			p.Close()
		}
	}
	return p.End()
}

func (c *ChartView) enabled() []bool {
	out := make([]bool, len(c.Enabled))
	for i, e := range c.Enabled {
		out[i] = e.Value
	}
	return out
}

// Update processes input that arrived since the last frame.
func (c *ChartView) Update(gtx C) {
	if c.chart == nil {
		return
	}
	c.Stacked.Update(gtx)
	c.LayoutEnum.Update(gtx)
	for _, e := range c.Enabled {
		e.Update(gtx)
	}
	if c.resetBtn.Clicked(gtx) {
		c.chart.SetBrush(nil)
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pe := chart.PointerEvent{Position: vec.Vec2{X: float64(e.Position.X), Y: float64(e.Position.Y)}}
		switch e.Kind {
		case pointer.Enter:
			pe.Kind = chart.PointerEnter
		case pointer.Move:
			pe.Kind = chart.PointerMove
		case pointer.Leave, pointer.Cancel:
			pe.Kind = chart.PointerLeave
		default:
			continue
		}
		c.chart.HandlePointer(pe)
	}
	c.updateBrush(gtx)
}

// updateBrush turns horizontal scrolling into panning and vertical
// scrolling into zooming, one record per band of the index axis.
func (c *ChartView) updateBrush(gtx C) {
	n := c.chart.Data().Len()
	if n == 0 {
		return
	}
	w := c.chart.Brush()
	opts := c.chart.Options()
	extent := opts.Width
	if opts.Layout == chart.Vertical {
		extent = opts.Height
	}
	pxPerRecord := float32(extent) / float32(w.End-w.Start+1)
	if pxPerRecord <= 0 {
		return
	}
	c.panAccum += float32(c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0)))
	c.zoomAccum += float32(c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6)))
	if records := int(c.panAccum / pxPerRecord); records != 0 {
		c.panAccum -= float32(records) * pxPerRecord
		w = panBrush(w, records, n)
	}
	if records := int(c.zoomAccum / pxPerRecord); records != 0 {
		c.zoomAccum -= float32(records) * pxPerRecord
		w = zoomBrush(w, records, n)
	}
	c.chart.SetBrush(&w)
}

func (c *ChartView) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	if c.chart == nil {
		return D{Size: gtx.Constraints.Max}
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	macro := op.Record(gtx.Ops)
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	keyDims := c.layoutKey(gtx, th)
	keyCall := macro.Stop()
	gtx.Constraints = origConstraints

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return c.layoutToolbar(gtx, th)
		}),
		layout.Flexed(1, func(gtx C) D {
			return c.layoutPlot(gtx, th)
		}),
		layout.Rigid(func(gtx C) D {
			keyCall.Add(gtx.Ops)
			return keyDims
		}),
	)
}

func (c *ChartView) layoutToolbar(gtx C, th *material.Theme) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, Tab(th, &c.LayoutEnum, layoutHorizontal, "Horizontal").Layout),
		layout.Flexed(1, Tab(th, &c.LayoutEnum, layoutVertical, "Vertical").Layout),
		layout.Rigid(material.CheckBox(th, &c.Stacked, "Stacked").Layout),
		layout.Rigid(func(gtx C) D {
			brush := c.chart.Brush()
			l := material.Body2(th, "records "+strconv.Itoa(brush.Start)+"–"+strconv.Itoa(brush.End))
			return layout.UniformInset(4).Layout(gtx, l.Layout)
		}),
		layout.Rigid(material.IconButton(th, &c.resetBtn, resetIcon, "Show all records").Layout),
	)
}

func (c *ChartView) layoutPlot(gtx C, th *material.Theme) D {
	size := gtx.Constraints.Max
	opts := viewOptions(c.base, size, c.enabled(), c.Stacked.Value, c.LayoutEnum.Value)
	if err := c.chart.SetOptions(opts); err != nil {
		c.err = err
		return D{Size: size}
	}
	frame := c.chart.Frame()

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)
	c.pan.Add(gtx.Ops)
	c.zoom.Add(gtx.Ops)

	macro := op.Record(gtx.Ops)
	c.layoutAxes(gtx, th, frame)
	for _, s := range frame.Series {
		c.layoutSeries(gtx, s)
	}
	call := macro.Stop()
	call.Add(gtx.Ops)
	if frame.Overlay.Active.Valid {
		c.layoutOverlay(gtx, th, frame)
	}
	return D{Size: size}
}

func (c *ChartView) layoutAxes(gtx C, th *material.Theme, f *chart.Frame) {
	for _, a := range f.Axes {
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(pt(a.Line[0]))
		p.LineTo(pt(a.Line[1]))
		paint.FillShape(gtx.Ops, axisColor, clip.Stroke{Path: p.End(), Width: float32(gtx.Dp(1))}.Op())
		for _, t := range a.Ticks {
			l := material.Caption(th, t.Label)
			l.Color = axisColor
			l.MaxLines = 1
			dims, call := rec(gtx, l.Layout)
			at := image.Point{X: int(t.Position.X), Y: int(t.Position.Y)}
			if a.Placement == chart.Left {
				at.X -= dims.Size.X + gtx.Dp(4)
				at.Y -= dims.Size.Y / 2
			} else {
				at.X -= dims.Size.X / 2
				at.Y += gtx.Dp(2)
			}
			stack := op.Offset(at).Push(gtx.Ops)
			call.Add(gtx.Ops)
			stack.Pop()
		}
	}
}

func (c *ChartView) layoutSeries(gtx C, s *chart.SeriesGeometry) {
	if !s.Area.Empty() {
		stack := clip.Outline{Path: clipPath(gtx.Ops, s.Area.Data)}.Op().Push(gtx.Ops)
		paint.Fill(gtx.Ops, seriesColor(s.Spec.Fill, areaAlpha))
		stack.Pop()
	}
	stroke := seriesColor(s.Spec.Stroke, 0xff)
	if !s.Curve.Empty() {
		paint.FillShape(gtx.Ops, stroke, clip.Stroke{
			Path:  clipPath(gtx.Ops, s.Curve.Data),
			Width: float32(gtx.Dp(1.5)),
		}.Op())
	}
	r := gtx.Dp(3)
	for _, d := range s.Dots {
		center := image.Pt(int(d.X), int(d.Y))
		paint.FillShape(gtx.Ops, stroke, clip.Ellipse{
			Min: center.Sub(image.Pt(r, r)),
			Max: center.Add(image.Pt(r, r)),
		}.Op(gtx.Ops))
	}
}

func (c *ChartView) layoutOverlay(gtx C, th *material.Theme, f *chart.Frame) {
	o := f.Overlay
	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(pt(o.Cursor[0]))
	p.LineTo(pt(o.Cursor[1]))
	paint.FillShape(gtx.Ops, cursorColor, clip.Stroke{Path: p.End(), Width: float32(gtx.Dp(1))}.Op())

	r := gtx.Dp(4)
	for _, d := range o.Dots {
		center := image.Pt(int(d.Position.X), int(d.Position.Y))
		paint.FillShape(gtx.Ops, seriesColor(d.Color, 0xff), clip.Ellipse{
			Min: center.Sub(image.Pt(r, r)),
			Max: center.Add(image.Pt(r, r)),
		}.Op(gtx.Ops))
	}

	children := []layout.FlexChild{
		layout.Rigid(material.Body1(th, o.Label).Layout),
	}
	for _, e := range o.Entries {
		e := e
		v := "–"
		if !e.Null {
			v = strconv.FormatFloat(e.Value, 'f', -1, 64)
		}
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, seriesColor(e.Color, 0xff), clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(material.Body2(th, e.Name+": "+v).Layout),
			)
		}))
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	tipDims, tipCall := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				paint.FillShape(gtx.Ops, tooltipBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
				})
			},
		)
	})
	gtx.Constraints = origConstraints

	// Keep the tooltip beside the cursor and inside the plot.
	gap := float32(gtx.Dp(8))
	anchor := pt(o.Cursor[0])
	pos := image.Point{}
	if f.Layout == chart.Vertical {
		pos.X = int(ceil(float32(f.Plot.Max.X))) - tipDims.Size.X
		pos.Y = int(anchor.Y + gap)
		if pos.Y+tipDims.Size.Y > gtx.Constraints.Max.Y {
			pos.Y = int(floor(anchor.Y-gap)) - tipDims.Size.Y
		}
	} else {
		pos.X = int(anchor.X + gap)
		if pos.X+tipDims.Size.X > gtx.Constraints.Max.X {
			pos.X = int(floor(anchor.X-gap)) - tipDims.Size.X
		}
		pos.Y = int(ceil(float32(f.Plot.Min.Y)))
	}
	pos.X = clamp(pos.X, 0, max(gtx.Constraints.Max.X-tipDims.Size.X, 0))
	pos.Y = clamp(pos.Y, 0, max(gtx.Constraints.Max.Y-tipDims.Size.Y, 0))
	stack := op.Offset(pos).Push(gtx.Ops)
	tipCall.Add(gtx.Ops)
	stack.Pop()
}

func (c *ChartView) layoutKey(gtx C, th *material.Theme) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	valueColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 2*valueColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		activeCol
		sumCol
		numCols
	)
	specs := c.base.Series
	active := c.chart.Active()
	data := c.chart.Data()
	value := func(field string, i int) (float64, bool) {
		if i < 0 || i >= data.Len() {
			return 0, false
		}
		return data.At(i).Get(field).Number()
	}
	view := c.chart.Brush()
	sum := func(field string) float64 {
		var total float64
		for i := view.Start; i <= view.End; i++ {
			if v, ok := value(field, i); ok {
				total += v
			}
		}
		return total
	}
	return table.Layout(gtx, len(specs)+1, numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case activeCol, sumCol:
				size = valueColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case seriesNameCol:
				l = material.Body1(th, "Data Series Name")
				l.Alignment = text.Middle
			case activeCol:
				l = material.Body1(th, "Hovered")
				l.Alignment = text.End
			case sumCol:
				l = material.Body1(th, "Visible Sum")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				if row == len(specs) {
					switch col {
					case seriesNameCol:
						return material.Body2(th, "Total of enabled series").Layout(gtx)
					case sumCol:
						total := 0.0
						for i, s := range specs {
							if c.Enabled[i].Value {
								total += sum(s.Field)
							}
						}
						l := material.Body2(th, strconv.FormatFloat(total, 'f', 2, 64))
						l.Alignment = text.End
						return l.Layout(gtx)
					default:
						return D{Size: gtx.Constraints.Min}
					}
				}
				s := specs[row]
				enabled := c.Enabled[row].Value
				switch col {
				case colorCol:
					return c.Enabled[row].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := seriesColor(strokeOf(s, row), 0xff)
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					name := s.Name
					if name == "" {
						name = s.Field
					}
					l := material.Body2(th, name)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case activeCol:
					txt := ""
					if v, ok := value(s.Field, active.Absolute); active.Valid && ok {
						txt = strconv.FormatFloat(v, 'f', -1, 64)
					}
					l := material.Body2(th, txt)
					l.Alignment = text.End
					return l.Layout(gtx)
				case sumCol:
					l := material.Body2(th, strconv.FormatFloat(sum(s.Field), 'f', 2, 64))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 && row < len(specs) {
				paint.FillShape(gtx.Ops, seriesColor(strokeOf(specs[row], row), stripeAlpha), clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}

// strokeOf is the colour the chart gives s at position i.
func strokeOf(s chart.SeriesSpec, i int) string {
	if s.Stroke != "" {
		return s.Stroke
	}
	return chart.Palette[i%len(chart.Palette)]
}
