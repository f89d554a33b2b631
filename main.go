// Command areaplot is an interactive viewer for CSV data drawn as an area
// chart.
package main

import (
	"context"
	"flag"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"github.com/rs/zerolog"

	"git.sr.ht/~whereswaldon/areaplot/backend"
	"git.sr.ht/~whereswaldon/areaplot/chart"
)

func main() {
	configPath := flag.String("config", "", "YAML chart declaration (default: one series per numeric column)")
	verbose := flag.Bool("v", false, "log layout passes and geometry rebuilds")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	chart.SetLogger(log)

	cfg := backend.DefaultConfig
	if *configPath != "" {
		var err error
		if cfg, err = backend.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed loading config")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bundle, err := backend.NewBundle(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed starting datasource")
	}
	if flag.NArg() > 0 {
		if err := bundle.Datasource.Open(flag.Arg(0)); err != nil {
			log.Fatal().Err(err).Msg("failed opening dataset")
		}
	}

	go func() {
		w := app.NewWindow(app.Title("Area Plot"), app.Size(unit.Dp(900), unit.Dp(700)))
		if err := loop(ctx, w, bundle); err != nil {
			log.Fatal().Err(err).Send()
		}
		bundle.Datasource.Close()
		os.Exit(0)
	}()
	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle) error {
	expl := explorer.NewExplorer(w)
	ws := backend.NewWindowState(ctx, bundle, w)
	ui := NewUI(ws, expl)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
