package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidOptions = errors.New("invalid chart options")
	ErrInvalidSeries  = errors.New("invalid series")
)

// Layout selects which pixel axis carries the index axis.
type Layout uint8

const (
	// Horizontal places the index axis along X and values along Y.
	Horizontal Layout = iota
	// Vertical places the index axis along Y and values along X.
	Vertical
)

func (l Layout) String() string {
	if l == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("%w: unknown layout %q", ErrInvalidOptions, s)
}

// Interpolation is the curve family used between consecutive points.
type Interpolation uint8

const (
	Linear Interpolation = iota
	Monotone
	Step
	StepBefore
	StepAfter
	Basis
	numInterpolations
)

var interpolationNames = [...]string{
	Linear:     "linear",
	Monotone:   "monotone",
	Step:       "step",
	StepBefore: "stepBefore",
	StepAfter:  "stepAfter",
	Basis:      "basis",
}

func (i Interpolation) String() string {
	if i < numInterpolations {
		return interpolationNames[i]
	}
	return "Interpolation(" + strconv.Itoa(int(i)) + ")"
}

func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return Linear, nil
	}
	for i, name := range interpolationNames {
		if strings.EqualFold(name, s) {
			return Interpolation(i), nil
		}
	}
	return Linear, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidSeries, s)
}

// Toggle is a boolean option whose zero value means "use the default".
type Toggle uint8

const (
	Default Toggle = iota
	On
	Off
)

// ToggleOf converts b into an explicit toggle.
func ToggleOf(b bool) Toggle {
	if b {
		return On
	}
	return Off
}

// Or resolves t, using def for Default.
func (t Toggle) Or(def bool) bool {
	switch t {
	case On:
		return true
	case Off:
		return false
	default:
		return def
	}
}

// SeriesSpec declares one area series.
//
// Field is required. Every other field is optional:
//   - ID defaults to Field; duplicates get a "#n" suffix.
//   - Name defaults to Field.
//   - Stroke defaults to a palette colour, Fill to Stroke.
//   - Interpolation defaults to Linear.
//   - StackID empty means the series is not stacked.
//   - Dot, Label default to false.
//   - ActiveDot, AnimationActive default to true.
//   - ConnectNulls defaults to false, so nulls split the curve.
//   - Hide defaults to false.
type SeriesSpec struct {
	ID              string
	Field           string
	Name            string
	Stroke          string
	Fill            string
	Interpolation   Interpolation
	StackID         string
	Dot             bool
	Label           bool
	ActiveDot       Toggle
	AnimationActive Toggle
	ConnectNulls    bool
	Hide            bool
}

// Validate reports problems with s without applying defaults.
func (s SeriesSpec) Validate() error {
	if strings.TrimSpace(s.Field) == "" {
		return fmt.Errorf("%w %q: missing field", ErrInvalidSeries, s.ID)
	}
	if s.Interpolation >= numInterpolations {
		return fmt.Errorf("%w %q: %v", ErrInvalidSeries, s.Field, s.Interpolation)
	}
	for _, c := range []string{s.Stroke, s.Fill} {
		if c == "" {
			continue
		}
		if _, err := ParseColor(c); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidSeries, s.Field, err)
		}
	}
	return nil
}

func (s SeriesSpec) withDefaults(i int) SeriesSpec {
	if s.ID == "" {
		s.ID = s.Field
	}
	if s.Name == "" {
		s.Name = s.Field
	}
	if s.Stroke == "" {
		s.Stroke = Palette[i%len(Palette)]
	}
	if s.Fill == "" {
		s.Fill = s.Stroke
	}
	s.ActiveDot = ToggleOf(s.ActiveDot.Or(true))
	s.AnimationActive = ToggleOf(s.AnimationActive.Or(true))
	return s
}

// AxisType is the kind of domain an index axis has.
type AxisType uint8

const (
	Category AxisType = iota
	Number
)

// ScaleKind selects how categories are spread over the pixel range.
type ScaleKind uint8

const (
	// Band places each category at the centre of an equal-width band.
	Band ScaleKind = iota
	// Point places the first and last category on the range ends.
	Point
)

// IndexAxis describes the primary axis. An empty Field positions records by
// their index in the (windowed) dataset.
type IndexAxis struct {
	Field string
	Type  AxisType
	Scale ScaleKind
}

// BaseMode selects the baseline of unstacked series.
type BaseMode uint8

const (
	BaseAuto BaseMode = iota
	BaseDataMin
	BaseDataMax
	BaseNumber
)

type BaseValue struct {
	Mode  BaseMode
	Value float64
}

// AxisKind tells which logical axis an AxisSpec renders.
type AxisKind uint8

const (
	IndexAxisKind AxisKind = iota
	ValueAxisKind
)

func (k AxisKind) String() string {
	if k == ValueAxisKind {
		return "value"
	}
	return "index"
}

// AxisSpec declares an axis. Declared axes take space out of the plot area.
// Size of zero selects 30px for axes along the bottom edge and 60px for axes
// along the left edge.
type AxisSpec struct {
	Kind AxisKind
	Size float64
	Hide bool
}

type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin is used when Options.Margin is nil.
var DefaultMargin = Margin{Top: 5, Right: 5, Bottom: 5, Left: 5}

// Options is everything a chart needs besides data and interaction state.
type Options struct {
	Layout Layout
	Width  float64
	Height float64
	Margin *Margin
	// IndexAxis configures the primary axis.
	IndexAxis IndexAxis
	// ValueDomain overrides the value domain derived from the data.
	ValueDomain *[2]float64
	BaseValue   BaseValue
	Axes        []AxisSpec
	Series      []SeriesSpec
}

// Validate checks the options, joining every series error it finds.
func (o Options) Validate() error {
	var errs []error
	if !(o.Width > 0) || !(o.Height > 0) || math.IsInf(o.Width, 0) || math.IsInf(o.Height, 0) {
		errs = append(errs, fmt.Errorf("%w: size %vx%v", ErrInvalidOptions, o.Width, o.Height))
	}
	if o.Layout > Vertical {
		errs = append(errs, fmt.Errorf("%w: layout %d", ErrInvalidOptions, o.Layout))
	}
	if d := o.ValueDomain; d != nil {
		if math.IsNaN(d[0]) || math.IsNaN(d[1]) || math.IsInf(d[0], 0) || math.IsInf(d[1], 0) || d[0] > d[1] {
			errs = append(errs, fmt.Errorf("%w: value domain %v", ErrInvalidOptions, *d))
		}
	}
	for _, s := range o.Series {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (o Options) margin() Margin {
	if o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// normalized returns a copy of o with series defaults applied and hidden
// series removed.
func (o Options) normalized() Options {
	series := make([]SeriesSpec, 0, len(o.Series))
	ids := map[string]bool{}
	for i, s := range o.Series {
		s = s.withDefaults(i)
		// Suffixes skip over IDs that were declared explicitly.
		if base := s.ID; ids[base] {
			for n := 1; ids[s.ID]; n++ {
				s.ID = base + "#" + strconv.Itoa(n)
			}
		}
		ids[s.ID] = true
		if s.Hide {
			continue
		}
		series = append(series, s)
	}
	o.Series = series
	o.Axes = append([]AxisSpec(nil), o.Axes...)
	return o
}
