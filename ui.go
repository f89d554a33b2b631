package main

import (
	"image"
	"image/color"
	"path/filepath"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/areaplot/backend"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer

	chart       *ChartView
	explorerBtn widget.Clickable
	loadErr     string
	// shown is the ID of the dataset last handed to the chart.
	shown uint64

	th           *material.Theme
	statusStream *stream.Stream[backend.Status]
	status       backend.Status
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	return &UI{
		ws:           ws,
		th:           th,
		expl:         expl,
		chart:        NewChartView(),
		statusStream: stream.New(ws.Controller, ws.Bundle.Datasource.Status),
	}
}

// Update the state of the UI from the datasource and from input events.
func (ui *UI) Update(gtx C) {
	ui.statusStream.ReadInto(gtx, &ui.status, backend.Status{})
	if ui.status.Loaded() && ui.status.Data.ID() != ui.shown {
		ui.shown = ui.status.Data.ID()
		ui.chart.SetData(ui.status.Data, ui.ws.Bundle.Config)
	}
	switch {
	case ui.status.Err != nil:
		ui.loadErr = ui.status.Err.Error()
	case ui.chart.Err() != nil:
		ui.loadErr = ui.chart.Err().Error()
	default:
		ui.loadErr = ""
	}
	if ui.explorerBtn.Clicked(gtx) {
		go func() {
			if err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl); err != nil {
				ui.ws.Bundle.Log.Warn().Err(err).Msg("failed choosing file")
			}
		}()
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return t.border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return t.state.Layout(gtx, t.value, func(gtx layout.Context) layout.Dimensions {
					return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) title() string {
	name := "stream"
	if ui.status.Path != "" {
		name = filepath.Base(ui.status.Path)
	}
	s := name + " (" + strconv.Itoa(ui.status.Data.Len()) + " records"
	if ui.status.Reloads > 0 {
		s += ", reloaded " + strconv.Itoa(ui.status.Reloads) + "×"
	}
	return s + ")"
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					return layout.UniformInset(4).Layout(gtx, material.Body1(ui.th, ui.title()).Layout)
				}),
				layout.Rigid(material.Button(ui.th, &ui.explorerBtn, "Open Another").Layout),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if len(ui.loadErr) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, ui.loadErr)
			l.Color = errorColor
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return ui.chart.Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	msg := "No data yet."
	if ui.status.Path != "" && ui.loadErr == "" {
		msg = "Loading " + filepath.Base(ui.status.Path) + "..."
	}
	l := material.Body1(ui.th, msg)
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.explorerBtn, "Open CSV File").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			l := material.Body2(ui.th, ui.loadErr)
			l.Color = errorColor
			return l.Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.status.Loaded() && ui.chart.Err() == nil {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
