package chart

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SeriesGeometry is the memoized output for one series. The same pointer is
// returned from Frame until an input of the series changes.
type SeriesGeometry struct {
	Spec   SeriesSpec
	Points []ResolvedPoint
	*Geometry
	// Animate reports whether the series should animate when it first
	// appears.
	Animate bool
}

// Frame is one renderable state of a chart.
type Frame struct {
	// Generation increases every time a layout pass runs.
	Generation uint64
	Layout     Layout
	Width      float64
	Height     float64
	Plot       Rect
	Series     []*SeriesGeometry
	Axes       []*AxisGeometry
	Overlay    Overlay
}

// Stats counts how often each stage of the pipeline ran.
type Stats struct {
	LayoutPasses  int
	SeriesBuilds  int
	AxisBuilds    int
	OverlayBuilds int
}

type listener struct {
	id int
	fn func(ActiveIndex)
}

// Chart owns the state of one chart instance: its options, data, brush and
// pointer interaction. Series and axis geometry are built lazily by Frame and
// reused until one of their structural inputs changes. Pointer events only
// ever rebuild the overlay.
//
// A Chart is not safe for concurrent use.
type Chart struct {
	id    string
	log   zerolog.Logger
	opts  Options
	norm  Options
	data  *Dataset
	brush *BrushWindow

	lp         *layoutPass
	generation uint64
	series     memo[*SeriesGeometry]
	axes       memo[*AxisGeometry]

	st           interaction
	overlay      Overlay
	overlayValid bool

	listeners []listener
	nextID    int
	stats     Stats
}

// New validates opts and returns an idle chart with no data. The chart logs
// through the package logger as it was when New was called.
func New(opts Options) (*Chart, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	c := &Chart{
		id:   id,
		log:  Logger().With().Str("chart", id).Logger(),
		opts: opts,
		norm: opts.normalized(),
		st:   interaction{active: NoActiveIndex},
	}
	return c, nil
}

func (c *Chart) ID() string { return c.id }

func (c *Chart) Options() Options { return c.opts }

// SetOptions replaces the chart options. Series whose inputs are unaffected
// keep their geometry.
func (c *Chart) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	c.opts = opts
	c.norm = opts.normalized()
	return nil
}

// SetData replaces the dataset. Datasets are immutable, so passing the same
// pointer again changes nothing.
func (c *Chart) SetData(ds *Dataset) {
	c.data = ds
}

func (c *Chart) Data() *Dataset { return c.data }

// SetBrush selects the window of the dataset to plot; nil selects all of it.
// It reports whether the effective window changed. A window that clamps to
// the current one is ignored. The window is stored clamped to the current
// dataset with its bounds in order.
func (c *Chart) SetBrush(w *BrushWindow) bool {
	n := c.data.Len()
	if w != nil {
		b := *w
		if n > 0 {
			b = w.Clamp(n)
			if b != *w {
				c.log.Warn().
					Int("start", w.Start).Int("end", w.End).
					Int("clampedStart", b.Start).Int("clampedEnd", b.End).
					Msg("brush window clamped")
			}
		} else if b.Start > b.End {
			b.Start, b.End = b.End, b.Start
		}
		w = &b
	}
	if c.effective(c.brush, n) == c.effective(w, n) {
		return false
	}
	c.brush = w
	c.log.Debug().Interface("brush", c.brush).Msg("brush changed")
	c.refresh()
	return true
}

// effective is the window w selects in a dataset of n records.
func (c *Chart) effective(w *BrushWindow, n int) BrushWindow {
	if n == 0 {
		return BrushWindow{}
	}
	if w == nil {
		return BrushWindow{End: n - 1}
	}
	return w.Clamp(n)
}

// Brush returns the effective window over the current dataset.
func (c *Chart) Brush() BrushWindow {
	return c.effective(c.brush, c.data.Len())
}

// HandlePointer feeds a pointer event through the interaction state machine
// and reports whether the active index changed.
func (c *Chart) HandlePointer(ev PointerEvent) bool {
	c.refresh()
	prev := c.st.active
	if c.st.apply(ev) {
		c.st.locate(c.lp)
	}
	if c.st.active == prev {
		return false
	}
	c.overlayValid = false
	c.notify()
	return true
}

func (c *Chart) Phase() Phase { return c.st.phase }

func (c *Chart) Active() ActiveIndex { return c.st.active }

// OnActiveIndex registers fn to be called whenever the active index changes.
// The returned function removes the registration.
func (c *Chart) OnActiveIndex(fn func(ActiveIndex)) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify calls the listeners registered when dispatch began. A listener
// cancelled by an earlier callback is skipped.
func (c *Chart) notify() {
	ls := append([]listener(nil), c.listeners...)
	for _, l := range ls {
		if c.registered(l.id) {
			l.fn(c.st.active)
		}
	}
}

func (c *Chart) registered(id int) bool {
	for _, l := range c.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func (c *Chart) Stats() Stats { return c.stats }

// refresh runs a new layout pass if any structural input changed. The active
// index is located again against the new layout.
func (c *Chart) refresh() {
	key := layoutKey(c.data, c.norm, c.brush)
	if c.lp != nil && c.lp.key == key {
		return
	}
	c.lp = newLayoutPass(c.data, c.norm, c.brush, key)
	c.generation++
	c.stats.LayoutPasses++
	c.overlayValid = false
	c.log.Debug().
		Uint64("generation", c.generation).
		Int("records", c.lp.view.Len()).
		Int("series", len(c.norm.Series)).
		Msg("layout pass")

	prev := c.st.active
	c.st.locate(c.lp)
	if c.st.active != prev {
		c.notify()
	}
}

// Frame returns the current frame, building only what changed since the
// previous call.
func (c *Chart) Frame() *Frame {
	c.refresh()
	lp := c.lp
	f := &Frame{
		Generation: c.generation,
		Layout:     c.norm.Layout,
		Width:      c.norm.Width,
		Height:     c.norm.Height,
		Plot:       lp.plot,
	}

	keep := make(map[string]bool, len(c.norm.Series))
	if lp.view.Len() > 0 {
		for _, s := range c.norm.Series {
			keep[s.ID] = true
			g, built := c.series.get(s.ID, lp.seriesKey(s), func() *SeriesGeometry {
				return c.buildSeries(lp, s)
			})
			if built {
				c.stats.SeriesBuilds++
			}
			f.Series = append(f.Series, g)
		}
	}
	c.series.retain(keep)

	axisKeep := make(map[string]bool, len(c.norm.Axes))
	for i, a := range c.norm.Axes {
		if a.Hide {
			continue
		}
		id := a.Kind.String() + "/" + strconv.Itoa(i)
		axisKeep[id] = true
		g, built := c.axes.get(id, lp.axisKey(a), func() *AxisGeometry {
			return buildAxis(lp, a)
		})
		if built {
			c.stats.AxisBuilds++
		}
		f.Axes = append(f.Axes, g)
	}
	c.axes.retain(axisKeep)

	if !c.overlayValid {
		c.overlay = buildOverlay(lp, f.Series, c.st.active)
		c.overlayValid = true
		c.stats.OverlayBuilds++
	}
	f.Overlay = c.overlay
	return f
}

func (c *Chart) buildSeries(lp *layoutPass, s SeriesSpec) *SeriesGeometry {
	points := lp.resolve(s)
	g := Build(points, BuildOptions{
		Interpolation: s.Interpolation,
		Layout:        lp.opts.Layout,
		ConnectNulls:  s.ConnectNulls,
		Dots:          s.Dot,
		Labels:        s.Label,
	})
	if !lp.view.Dataset().HasField(s.Field) {
		c.log.Debug().Str("series", s.ID).Str("field", s.Field).Msg("field missing from dataset")
	} else if bad := malformed(lp.view, s.Field); bad > 0 {
		c.log.Warn().Str("series", s.ID).Str("field", s.Field).Int("count", bad).Msg("non-numeric values plotted as null")
	}
	c.log.Debug().Str("series", s.ID).Int("points", len(points)).Msg("series geometry built")
	return &SeriesGeometry{
		Spec:     s,
		Points:   points,
		Geometry: g,
		Animate:  s.AnimationActive.Or(true),
	}
}

// malformed counts the values of field in v that are present but not numbers.
func malformed(v View, field string) int {
	n := 0
	for i := 0; i < v.Len(); i++ {
		val := v.At(i).Get(field)
		if _, ok := val.Number(); !ok && !val.IsNull() {
			n++
		}
	}
	return n
}
