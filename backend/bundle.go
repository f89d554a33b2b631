package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/rs/zerolog"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the application's non-UI resources.
type Bundle struct {
	Datasource *Datasource
	Config     Config
	Log        zerolog.Logger
}

func NewBundle(ctx context.Context, cfg Config, log zerolog.Logger) (Bundle, error) {
	ds, err := NewDatasource(ctx, log)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Datasource: ds,
		Config:     cfg,
		Log:        log,
	}, nil
}
