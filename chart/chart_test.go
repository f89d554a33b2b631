package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func pageData() *Dataset {
	rows := []struct {
		name        string
		uv, pv, amt float64
	}{
		{"Page A", 400, 2400, 2400},
		{"Page B", 300, 4567, 2400},
		{"Page C", 300, 1398, 2400},
		{"Page D", 200, 9800, 2400},
		{"Page E", 278, 3908, 2400},
		{"Page F", 189, 4800, 2400},
	}
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{
			"name": StringValue(r.name),
			"uv":   NumberValue(r.uv),
			"pv":   NumberValue(r.pv),
			"amt":  NumberValue(r.amt),
		}
	}
	return NewDataset(records)
}

func newChart(t *testing.T, opts Options, ds *Dataset) *Chart {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 400, 400
	}
	c, err := New(opts)
	require.NoError(t, err)
	c.SetData(ds)
	return c
}

func TestFrameSeries(t *testing.T) {
	type testcase struct {
		name   string
		data   *Dataset
		opts   Options
		series int
		paths  bool
		dots   int
		labels int
		emptyD bool
	}
	stacked := []SeriesSpec{
		{Field: "uv", StackID: "test"},
		{Field: "pv", StackID: "test"},
	}
	for _, tc := range []testcase{
		{
			name:   "single series",
			data:   pageData(),
			opts:   Options{Series: []SeriesSpec{{Field: "uv"}}},
			series: 1,
			paths:  true,
		},
		{
			name:   "single record",
			data:   NewDataset([]Record{{"uv": NumberValue(400)}}),
			opts:   Options{Series: []SeriesSpec{{Field: "uv"}}},
			series: 1,
			dots:   1,
		},
		{
			name:   "missing field",
			data:   pageData(),
			opts:   Options{Series: []SeriesSpec{{Field: "xx"}}},
			series: 1,
			paths:  true,
			emptyD: true,
		},
		{
			name:   "stacked",
			data:   pageData(),
			opts:   Options{Series: stacked},
			series: 2,
			paths:  true,
		},
		{
			name:   "vertical",
			data:   pageData(),
			opts:   Options{Layout: Vertical, Series: []SeriesSpec{{Field: "uv"}}},
			series: 1,
			paths:  true,
		},
		{
			name:   "dots and labels",
			data:   pageData(),
			opts:   Options{Series: []SeriesSpec{{Field: "uv", Dot: true, Label: true}}},
			series: 1,
			paths:  true,
			dots:   6,
			labels: 6,
		},
		{
			name:   "empty data",
			data:   NewDataset(nil),
			opts:   Options{Series: []SeriesSpec{{Field: "uv"}}},
			series: 0,
		},
		{
			name:   "hidden series",
			data:   pageData(),
			opts:   Options{Series: []SeriesSpec{{Field: "uv"}, {Field: "pv", Hide: true}}},
			series: 1,
			paths:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newChart(t, tc.opts, tc.data).Frame()
			require.Len(t, f.Series, tc.series)
			for _, s := range f.Series {
				if tc.paths {
					require.NotNil(t, s.Area)
					require.NotNil(t, s.Curve)
					require.Equal(t, tc.emptyD, s.Area.D() == "")
					require.Equal(t, tc.emptyD, s.Curve.D() == "")
				} else {
					require.Nil(t, s.Area)
					require.Nil(t, s.Curve)
				}
				require.Len(t, s.Dots, tc.dots)
				require.Len(t, s.Labels, tc.labels)
			}
		})
	}
}

func TestStackedBaselines(t *testing.T) {
	c := newChart(t, Options{Series: []SeriesSpec{
		{Field: "uv", StackID: "a"},
		{Field: "pv", StackID: "a"},
	}}, pageData())
	f := c.Frame()
	require.Len(t, f.Series, 2)
	lower, upper := f.Series[0], f.Series[1]
	for i := range lower.Points {
		require.InDelta(t, lower.Points[i].Point.Y, upper.Points[i].Baseline.Y, 1e-9)
		require.Equal(t, f.Plot.Max.Y, lower.Points[i].Baseline.Y)
	}
	require.Equal(t, 2400.0, upper.Points[0].Value)
}

func TestVerticalLayout(t *testing.T) {
	f := newChart(t, Options{Layout: Vertical, Series: []SeriesSpec{{Field: "uv"}}}, pageData()).Frame()
	require.Len(t, f.Series, 1)
	pts := f.Series[0].Points
	require.Len(t, pts, 6)
	// Index runs down Y in 65px bands; values run along X over [0, 400].
	for i, p := range pts {
		require.Equal(t, 37.5+65*float64(i), p.Point.Y)
		require.Equal(t, 5.0, p.Baseline.X)
	}
	require.Equal(t, 395.0, pts[0].Point.X)
}

func TestLayoutKeepsNullHandling(t *testing.T) {
	uv := []Value{NumberValue(400), NumberValue(300), Null, NumberValue(200), NumberValue(278), NumberValue(189)}
	records := make([]Record, len(uv))
	for i, v := range uv {
		records[i] = Record{"uv": v}
	}
	ds := NewDataset(records)

	moves := func(g *SeriesGeometry) int {
		n := 0
		for _, c := range g.Curve.Data.Cmds {
			if c == path.CmdMoveTo {
				n++
			}
		}
		return n
	}
	for _, interp := range []Interpolation{Linear, Monotone} {
		t.Run(interp.String(), func(t *testing.T) {
			series := []SeriesSpec{{Field: "uv", Interpolation: interp}}
			h := newChart(t, Options{Series: series}, ds).Frame().Series[0]
			v := newChart(t, Options{Layout: Vertical, Series: series}, ds).Frame().Series[0]

			require.Len(t, v.Points, len(h.Points))
			for i := range h.Points {
				require.Equal(t, h.Points[i].Null, v.Points[i].Null, i)
				require.InDelta(t, h.Points[i].Point.X, v.Points[i].Point.Y, 1e-9, i)
			}
			require.True(t, v.Points[2].Null)
			require.Equal(t, 2, moves(h))
			require.Equal(t, moves(h), moves(v))

			// The index coordinate never runs backwards and the value
			// coordinate stays within the data.
			lo, hi := v.Points[0].Point.X, v.Points[0].Point.X
			for _, p := range v.Points {
				if !p.Null {
					lo, hi = min(lo, p.Point.X), max(hi, p.Point.X)
				}
			}
			coords := v.Curve.Data.Coords
			for i, c := range coords {
				if i > 0 {
					require.GreaterOrEqual(t, c.Y, coords[i-1].Y)
				}
				require.GreaterOrEqual(t, c.X, lo-1e-9)
				require.LessOrEqual(t, c.X, hi+1e-9)
			}
		})
	}
}

func TestRenderStability(t *testing.T) {
	c := newChart(t, Options{
		Axes:   []AxisSpec{{Kind: IndexAxisKind}, {Kind: ValueAxisKind}},
		Series: []SeriesSpec{{Field: "uv"}},
	}, pageData())

	first := c.Frame()
	require.Len(t, first.Axes, 2)
	events := []PointerEvent{
		{Kind: PointerEnter, Position: vec.Vec2{X: 100, Y: 100}},
		{Kind: PointerMove, Position: vec.Vec2{X: 200, Y: 200}},
		{Kind: PointerMove, Position: vec.Vec2{X: 300, Y: 150}},
		{Kind: PointerLeave},
	}
	for _, ev := range events {
		c.HandlePointer(ev)
		f := c.Frame()
		require.Same(t, first.Series[0], f.Series[0])
		require.Same(t, first.Axes[0], f.Axes[0])
		require.Equal(t, first.Generation, f.Generation)
	}

	st := c.Stats()
	require.Equal(t, 1, st.LayoutPasses)
	require.Equal(t, 1, st.SeriesBuilds)
	require.Equal(t, 2, st.AxisBuilds)
	require.Equal(t, 1+len(events), st.OverlayBuilds)
}

func TestPointerStates(t *testing.T) {
	c := newChart(t, Options{
		Axes:   []AxisSpec{{Kind: IndexAxisKind}, {Kind: ValueAxisKind}},
		Series: []SeriesSpec{{Field: "uv"}, {Field: "pv", ActiveDot: Off}},
	}, pageData())
	require.Equal(t, Idle, c.Phase())

	// The plot spans X in [65, 395]; band centres sit at 92.5 + 55i.
	c.HandlePointer(PointerEvent{Kind: PointerEnter, Position: vec.Vec2{X: 100, Y: 100}})
	require.Equal(t, Hovering, c.Phase())
	require.Equal(t, ActiveIndex{Index: 0, Absolute: 0, Valid: true}, c.Active())

	c.HandlePointer(PointerEvent{Kind: PointerMove, Position: vec.Vec2{X: 200, Y: 200}})
	require.Equal(t, 2, c.Active().Index)

	o := c.Frame().Overlay
	require.Equal(t, "2", o.Label)
	require.Len(t, o.Entries, 2)
	require.Equal(t, 300.0, o.Entries[0].Value)
	require.Equal(t, 1398.0, o.Entries[1].Value)
	require.Len(t, o.Dots, 1)
	require.Equal(t, 202.5, o.Cursor[0].X)

	c.HandlePointer(PointerEvent{Kind: PointerMove, Position: vec.Vec2{X: 2, Y: 200}})
	require.Equal(t, Hovering, c.Phase())
	require.False(t, c.Active().Valid)

	c.HandlePointer(PointerEvent{Kind: PointerLeave})
	require.Equal(t, Idle, c.Phase())
	require.Equal(t, NoActiveIndex, c.Active())
	require.Empty(t, c.Frame().Overlay.Entries)
}

func TestOverlayLabelFromIndexField(t *testing.T) {
	c := newChart(t, Options{
		IndexAxis: IndexAxis{Field: "name"},
		Series:    []SeriesSpec{{Field: "uv"}},
	}, pageData())
	c.HandlePointer(PointerEvent{Kind: PointerEnter, Position: vec.Vec2{X: 390, Y: 100}})
	require.Equal(t, "Page F", c.Frame().Overlay.Label)
}

func TestOnActiveIndex(t *testing.T) {
	c := newChart(t, Options{Series: []SeriesSpec{{Field: "uv"}}}, pageData())
	var got []ActiveIndex
	cancel := c.OnActiveIndex(func(a ActiveIndex) { got = append(got, a) })

	c.HandlePointer(PointerEvent{Kind: PointerEnter, Position: vec.Vec2{X: 10, Y: 10}})
	c.HandlePointer(PointerEvent{Kind: PointerMove, Position: vec.Vec2{X: 11, Y: 10}})
	c.HandlePointer(PointerEvent{Kind: PointerLeave})
	require.Equal(t, []ActiveIndex{{Index: 0, Absolute: 0, Valid: true}, NoActiveIndex}, got)

	cancel()
	c.HandlePointer(PointerEvent{Kind: PointerEnter, Position: vec.Vec2{X: 10, Y: 10}})
	require.Len(t, got, 2)
}

func TestCancelDuringDispatch(t *testing.T) {
	c := newChart(t, Options{Series: []SeriesSpec{{Field: "uv"}}}, pageData())
	var calls []string
	var cancelLast func()
	c.OnActiveIndex(func(ActiveIndex) {
		calls = append(calls, "first")
		cancelLast()
	})
	c.OnActiveIndex(func(ActiveIndex) { calls = append(calls, "second") })
	cancelLast = c.OnActiveIndex(func(ActiveIndex) { calls = append(calls, "last") })

	c.HandlePointer(PointerEvent{Kind: PointerEnter, Position: vec.Vec2{X: 10, Y: 10}})
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestSetBrush(t *testing.T) {
	c := newChart(t, Options{Series: []SeriesSpec{{Field: "uv"}}}, pageData())
	gen := c.Frame().Generation

	require.False(t, c.SetBrush(&BrushWindow{Start: 0, End: 5}), "full window is the default")
	require.False(t, c.SetBrush(&BrushWindow{Start: -4, End: 40}), "clamps to the full window")
	require.Equal(t, gen, c.Frame().Generation)

	require.True(t, c.SetBrush(&BrushWindow{Start: 1, End: 3}))
	f := c.Frame()
	require.Equal(t, gen+1, f.Generation)
	pts := f.Series[0].Points
	require.Len(t, pts, 3)
	require.Equal(t, 0, pts[0].Index)
	require.Equal(t, 1, pts[0].Absolute)
	require.Equal(t, 300.0, pts[0].Value)

	require.False(t, c.SetBrush(&BrushWindow{Start: 3, End: 1}))
	require.Equal(t, BrushWindow{Start: 1, End: 3}, c.Brush())
	require.Equal(t, 2, c.Stats().SeriesBuilds)

	require.True(t, c.SetBrush(nil))
	require.Len(t, c.Frame().Series[0].Points, 6)
}

func TestSetOptionsRebuildsAffectedSeries(t *testing.T) {
	opts := Options{Width: 400, Height: 400, Series: []SeriesSpec{{Field: "uv"}, {Field: "amt"}}}
	c := newChart(t, opts, pageData())
	before := c.Frame()

	opts.Series = []SeriesSpec{{Field: "uv"}, {Field: "amt", Stroke: "#123456"}}
	require.NoError(t, c.SetOptions(opts))
	after := c.Frame()

	require.Same(t, before.Series[0], after.Series[0])
	require.NotSame(t, before.Series[1], after.Series[1])
	require.Equal(t, "#123456", after.Series[1].Spec.Fill)
	require.Equal(t, 3, c.Stats().SeriesBuilds)
}

func TestSetDataRebuilds(t *testing.T) {
	c := newChart(t, Options{Series: []SeriesSpec{{Field: "uv"}}}, pageData())
	first := c.Frame()
	c.SetData(pageData())
	second := c.Frame()
	require.NotSame(t, first.Series[0], second.Series[0])
	require.Equal(t, first.Series[0].Curve.D(), second.Series[0].Curve.D())
	require.Equal(t, 2, c.Stats().LayoutPasses)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(Options{Width: 400, Height: 400, Series: []SeriesSpec{{Field: ""}, {Field: "uv", Stroke: "red"}}})
	require.ErrorIs(t, err, ErrInvalidSeries)

	_, err = New(Options{Width: -1, Height: 400})
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestDuplicateSeriesIDs(t *testing.T) {
	type testcase struct {
		name   string
		series []SeriesSpec
		ids    []string
		first  []float64
	}
	for _, tc := range []testcase{
		{
			name:   "repeated field",
			series: []SeriesSpec{{Field: "uv"}, {Field: "uv"}},
			ids:    []string{"uv", "uv#1"},
			first:  []float64{400, 400},
		},
		{
			name:   "explicit id after suffix",
			series: []SeriesSpec{{Field: "uv"}, {Field: "uv"}, {ID: "uv#1", Field: "pv"}},
			ids:    []string{"uv", "uv#1", "uv#1#1"},
			first:  []float64{400, 400, 2400},
		},
		{
			name:   "explicit id before suffix",
			series: []SeriesSpec{{ID: "uv#1", Field: "pv"}, {Field: "uv"}, {Field: "uv"}},
			ids:    []string{"uv#1", "uv", "uv#2"},
			first:  []float64{2400, 400, 400},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newChart(t, Options{Series: tc.series}, pageData())
			f := c.Frame()
			require.Len(t, f.Series, len(tc.ids))
			for i, id := range tc.ids {
				require.Equal(t, id, f.Series[i].Spec.ID)
				require.Equal(t, tc.first[i], f.Series[i].Points[0].Value, id)
			}
			builds := c.Stats().SeriesBuilds
			require.Equal(t, len(tc.ids), builds)
			c.Frame()
			require.Equal(t, builds, c.Stats().SeriesBuilds)
		})
	}
}

// captureLog routes the package logger into a buffer for the rest of the
// test. Charts must be created after calling it.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := *Logger()
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func TestMalformedValuesLogged(t *testing.T) {
	buf := captureLog(t)
	ds := NewDataset([]Record{
		{"uv": NumberValue(1)},
		{"uv": StringValue("n/a")},
		{"uv": StringValue("??")},
		{"uv": Null},
	})
	c := newChart(t, Options{Series: []SeriesSpec{{Field: "uv"}, {Field: "pv"}}}, ds)
	f := c.Frame()
	require.True(t, f.Series[0].Points[1].Null)
	c.Frame()

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "non-numeric values plotted as null"))
	require.Contains(t, out, `"count":2`)
	require.Contains(t, out, `"level":"warn"`)
}

func TestReversedBrushNormalizedOnce(t *testing.T) {
	buf := captureLog(t)
	opts := Options{Width: 400, Height: 400, Series: []SeriesSpec{{Field: "uv"}}}
	c := newChart(t, opts, pageData())
	require.True(t, c.SetBrush(&BrushWindow{Start: 4, End: 1}))
	require.Equal(t, BrushWindow{Start: 1, End: 4}, c.Brush())
	require.Len(t, c.Frame().Series[0].Points, 4)

	opts.Width = 500
	require.NoError(t, c.SetOptions(opts))
	require.Len(t, c.Frame().Series[0].Points, 4)
	require.Equal(t, 2, c.Stats().LayoutPasses)
	require.Equal(t, 1, strings.Count(buf.String(), "brush window clamped"))
}
