package backend

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

// Config is the YAML form of a chart declaration.
//
//	layout: horizontal
//	width: 600
//	height: 400
//	indexAxis: {field: name, scale: point}
//	axes: [{kind: index}, {kind: value}]
//	series:
//	  - {field: uv, stackId: a, type: monotone}
//	  - {field: pv, stackId: a, stroke: "#82ca9d"}
type Config struct {
	Layout      string         `yaml:"layout"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Margin      *MarginConfig  `yaml:"margin"`
	IndexAxis   IndexConfig    `yaml:"indexAxis"`
	ValueDomain []float64      `yaml:"valueDomain"`
	BaseValue   string         `yaml:"baseValue"`
	Axes        []AxisConfig   `yaml:"axes"`
	Series      []SeriesConfig `yaml:"series"`
}

type MarginConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

type IndexConfig struct {
	Field string `yaml:"field"`
	// Type is "category" (default) or "number".
	Type string `yaml:"type"`
	// Scale is "band" (default) or "point".
	Scale string `yaml:"scale"`
}

type AxisConfig struct {
	Kind string  `yaml:"kind"`
	Size float64 `yaml:"size"`
	Hide bool    `yaml:"hide"`
}

type SeriesConfig struct {
	ID           string `yaml:"id"`
	Field        string `yaml:"field"`
	Name         string `yaml:"name"`
	Stroke       string `yaml:"stroke"`
	Fill         string `yaml:"fill"`
	Type         string `yaml:"type"`
	StackID      string `yaml:"stackId"`
	Dot          bool   `yaml:"dot"`
	Label        bool   `yaml:"label"`
	ActiveDot    *bool  `yaml:"activeDot"`
	Animation    *bool  `yaml:"animation"`
	ConnectNulls bool   `yaml:"connectNulls"`
	Hide         bool   `yaml:"hide"`
}

// DefaultConfig is used for datasets opened without a declaration: every
// numeric column becomes one series.
var DefaultConfig = Config{
	Width:  600,
	Height: 400,
	Axes:   []AxisConfig{{Kind: "index"}, {Kind: "value"}},
}

// LoadConfig reads the YAML chart declaration at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed reading config: %w", err)
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig
	cfg.Axes = nil
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed parsing config: %w", err)
	}
	if cfg.Axes == nil {
		cfg.Axes = DefaultConfig.Axes
	}
	return cfg, nil
}

func toggle(b *bool) chart.Toggle {
	if b == nil {
		return chart.Default
	}
	return chart.ToggleOf(*b)
}

func parseBase(s string) (chart.BaseValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return chart.BaseValue{Mode: chart.BaseAuto}, nil
	case "datamin":
		return chart.BaseValue{Mode: chart.BaseDataMin}, nil
	case "datamax":
		return chart.BaseValue{Mode: chart.BaseDataMax}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return chart.BaseValue{}, fmt.Errorf("%w: base value %q", chart.ErrInvalidOptions, s)
	}
	return chart.BaseValue{Mode: chart.BaseNumber, Value: f}, nil
}

// Options converts c into validated chart options.
func (c Config) Options() (chart.Options, error) {
	var errs []error
	layout, err := chart.ParseLayout(c.Layout)
	errs = append(errs, err)
	base, err := parseBase(c.BaseValue)
	errs = append(errs, err)
	opts := chart.Options{
		Layout:    layout,
		Width:     c.Width,
		Height:    c.Height,
		BaseValue: base,
		IndexAxis: chart.IndexAxis{Field: c.IndexAxis.Field},
	}
	if m := c.Margin; m != nil {
		opts.Margin = &chart.Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
	}
	switch strings.ToLower(c.IndexAxis.Type) {
	case "", "category":
	case "number":
		opts.IndexAxis.Type = chart.Number
	default:
		errs = append(errs, fmt.Errorf("%w: index axis type %q", chart.ErrInvalidOptions, c.IndexAxis.Type))
	}
	switch strings.ToLower(c.IndexAxis.Scale) {
	case "", "band":
	case "point":
		opts.IndexAxis.Scale = chart.Point
	default:
		errs = append(errs, fmt.Errorf("%w: index axis scale %q", chart.ErrInvalidOptions, c.IndexAxis.Scale))
	}
	switch len(c.ValueDomain) {
	case 0:
	case 2:
		opts.ValueDomain = &[2]float64{c.ValueDomain[0], c.ValueDomain[1]}
	default:
		errs = append(errs, fmt.Errorf("%w: value domain needs two bounds, got %v", chart.ErrInvalidOptions, c.ValueDomain))
	}
	for _, a := range c.Axes {
		spec := chart.AxisSpec{Size: a.Size, Hide: a.Hide}
		switch strings.ToLower(a.Kind) {
		case "index":
		case "value":
			spec.Kind = chart.ValueAxisKind
		default:
			errs = append(errs, fmt.Errorf("%w: axis kind %q", chart.ErrInvalidOptions, a.Kind))
			continue
		}
		opts.Axes = append(opts.Axes, spec)
	}
	for _, s := range c.Series {
		interp, err := chart.ParseInterpolation(s.Type)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opts.Series = append(opts.Series, chart.SeriesSpec{
			ID:              s.ID,
			Field:           s.Field,
			Name:            s.Name,
			Stroke:          s.Stroke,
			Fill:            s.Fill,
			Interpolation:   interp,
			StackID:         s.StackID,
			Dot:             s.Dot,
			Label:           s.Label,
			ActiveDot:       toggle(s.ActiveDot),
			AnimationActive: toggle(s.Animation),
			ConnectNulls:    s.ConnectNulls,
			Hide:            s.Hide,
		})
	}
	if err := errors.Join(errs...); err != nil {
		return chart.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return chart.Options{}, err
	}
	return opts, nil
}

// WithSeriesFor returns c with one series per numeric column of ds when c
// declares none. The index field is never plotted.
func (c Config) WithSeriesFor(ds *chart.Dataset) Config {
	if len(c.Series) > 0 {
		return c
	}
	out := c
	out.Series = nil
	for _, f := range ds.Fields() {
		if f == c.IndexAxis.Field || !numericColumn(ds, f) {
			continue
		}
		out.Series = append(out.Series, SeriesConfig{Field: f})
	}
	return out
}

func numericColumn(ds *chart.Dataset, field string) bool {
	for i := 0; i < ds.Len(); i++ {
		if _, ok := ds.At(i).Get(field).Number(); ok {
			return true
		}
	}
	return false
}
