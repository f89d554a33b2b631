package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

func frame(t *testing.T, ds *chart.Dataset) *chart.Frame {
	t.Helper()
	c, err := chart.New(chart.Options{
		Width:  400,
		Height: 400,
		Series: []chart.SeriesSpec{{Field: "uv", Stroke: "#0000ff"}},
	})
	require.NoError(t, err)
	c.SetData(ds)
	return c.Frame()
}

func uv(vals ...float64) *chart.Dataset {
	records := make([]chart.Record, len(vals))
	for i, v := range vals {
		records[i] = chart.Record{"uv": chart.NumberValue(v)}
	}
	return chart.NewDataset(records)
}

func TestRender(t *testing.T) {
	img := Render(frame(t, uv(400, 300, 300, 200, 278, 189)))
	require.Equal(t, 400, img.Bounds().Dx())

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// Left of the first band centre and above the curve stay blank.
	require.Equal(t, white, img.RGBAAt(10, 300))
	require.Equal(t, white, img.RGBAAt(200, 20))
	// Under the curve is tinted with the fill colour.
	inside := img.RGBAAt(40, 300)
	require.NotEqual(t, white, inside)
	require.Greater(t, inside.B, inside.R)
}

func TestRenderEmpty(t *testing.T) {
	img := Render(frame(t, uv()))
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for _, p := range [][2]int{{0, 0}, {200, 200}, {399, 399}} {
		require.Equal(t, white, img.RGBAAt(p[0], p[1]))
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, frame(t, uv(1, 2, 3))))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 400, img.Bounds().Dy())
}

func TestFlatten(t *testing.T) {
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		Close().
		MoveTo(vec.Vec2{X: 20, Y: 0}).
		CubeTo(vec.Vec2{X: 20, Y: 10}, vec.Vec2{X: 30, Y: 10}, vec.Vec2{X: 30, Y: 0})
	subs := flatten(p)
	require.Len(t, subs, 2)
	require.Equal(t, []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}, subs[0])
	require.Len(t, subs[1], 1+curveSteps)
	require.Equal(t, vec.Vec2{X: 30, Y: 0}, subs[1][curveSteps])
}
