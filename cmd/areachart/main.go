// Command areachart renders CSV data as an area chart without a window.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/backend"
	"git.sr.ht/~whereswaldon/areaplot/chart"
	"git.sr.ht/~whereswaldon/areaplot/raster"
	"git.sr.ht/~whereswaldon/areaplot/svg"
)

type chartFlags struct {
	config string
	width  float64
	height float64
	brush  string
	hover  string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML chart declaration (default: one series per numeric column)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "override the configured width")
	cmd.Flags().Float64Var(&f.height, "height", 0, "override the configured height")
	cmd.Flags().StringVar(&f.brush, "brush", "", "restrict the chart to records start:end (inclusive)")
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "areachart",
		Short:         "Render CSV data as area charts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()
			chart.SetLogger(log)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log layout passes and geometry rebuilds")
	root.AddCommand(newRenderCmd(), newLocateCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		flags  chartFlags
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "render data.csv",
		Short: "Render a chart as SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(args[0])
			if err != nil {
				return err
			}
			if flags.hover != "" {
				p, err := parsePoint(flags.hover)
				if err != nil {
					return err
				}
				c.HandlePointer(chart.PointerEvent{Kind: chart.PointerEnter, Position: p})
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			var buf bytes.Buffer
			switch strings.ToLower(format) {
			case "", "svg":
				err = svg.Write(&buf, c.Frame())
			case "png":
				err = raster.WritePNG(&buf, c.Frame())
			default:
				return fmt.Errorf("unknown format %q (must be svg or png)", format)
			}
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}
			if output == "" {
				_, err = io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.hover, "hover", "", "draw the tooltip for the pointer at x,y")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "svg or png (default: from the output extension, else svg)")
	return cmd
}

func newLocateCmd() *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "locate data.csv x,y",
		Short: "Print the record under a pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(args[0])
			if err != nil {
				return err
			}
			p, err := parsePoint(args[1])
			if err != nil {
				return err
			}
			c.HandlePointer(chart.PointerEvent{Kind: chart.PointerEnter, Position: p})
			o := c.Frame().Overlay
			out := cmd.OutOrStdout()
			if !o.Active.Valid {
				fmt.Fprintln(out, "none")
				return nil
			}
			fmt.Fprintf(out, "index %d (%s)\n", o.Active.Absolute, o.Label)
			for _, e := range o.Entries {
				v := "null"
				if !e.Null {
					v = strconv.FormatFloat(e.Value, 'f', -1, 64)
				}
				fmt.Fprintf(out, "%s\t%s\n", e.Name, v)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// build loads the dataset and declaration and returns a chart showing them.
func (f *chartFlags) build(dataPath string) (*chart.Chart, error) {
	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening data: %w", err)
	}
	defer file.Close()
	ds, err := backend.LoadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dataPath, err)
	}
	cfg := backend.DefaultConfig
	if f.config != "" {
		if cfg, err = backend.LoadConfig(f.config); err != nil {
			return nil, err
		}
	}
	if f.width > 0 {
		cfg.Width = f.width
	}
	if f.height > 0 {
		cfg.Height = f.height
	}
	opts, err := cfg.WithSeriesFor(ds).Options()
	if err != nil {
		return nil, err
	}
	c, err := chart.New(opts)
	if err != nil {
		return nil, err
	}
	c.SetData(ds)
	if f.brush != "" {
		w, err := parseBrush(f.brush)
		if err != nil {
			return nil, err
		}
		c.SetBrush(&w)
	}
	return c, nil
}

func parsePoint(s string) (vec.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return vec.Vec2{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return vec.Vec2{X: x, Y: y}, nil
}

func parseBrush(s string) (chart.BrushWindow, error) {
	as, bs, ok := strings.Cut(s, ":")
	if !ok {
		return chart.BrushWindow{}, fmt.Errorf("invalid brush %q (want start:end)", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(as))
	if err != nil {
		return chart.BrushWindow{}, fmt.Errorf("invalid brush %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(bs))
	if err != nil {
		return chart.BrushWindow{}, fmt.Errorf("invalid brush %q: %w", s, err)
	}
	return chart.BrushWindow{Start: a, End: b}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
