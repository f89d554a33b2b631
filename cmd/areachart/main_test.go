package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

const pages = `name,uv,pv
Page A,400,2400
Page B,300,4567
Page C,300,1398
Page D,200,9800
Page E,278,3908
Page F,189,4800
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderSVG(t *testing.T) {
	data := writeTemp(t, "pages.csv", pages)
	out, err := run(t, "render", data)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, `<svg class="area-chart"`))
	require.Equal(t, 2, strings.Count(out, `class="area-chart-area-curve"`))
}

func TestRenderWithConfig(t *testing.T) {
	data := writeTemp(t, "pages.csv", pages)
	cfg := writeTemp(t, "chart.yaml", `
width: 400
height: 400
indexAxis: {field: name}
series:
  - {field: uv, stackId: a}
  - {field: pv, stackId: a, dot: true}
`)
	out, err := run(t, "render", data, "-c", cfg, "--hover", "200,200", "--brush", "1:4")
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(out, `class="area-chart-area-dot"`))
	require.Contains(t, out, `class="area-chart-tooltip-label"`)
}

func TestRenderPNG(t *testing.T) {
	data := writeTemp(t, "pages.csv", pages)
	output := filepath.Join(t.TempDir(), "chart.png")
	_, err := run(t, "render", data, "-o", output, "--width", "320", "--height", "200")
	require.NoError(t, err)
	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderErrors(t *testing.T) {
	data := writeTemp(t, "pages.csv", pages)
	for _, args := range [][]string{
		{"render", filepath.Join(t.TempDir(), "missing.csv")},
		{"render", data, "--format", "gif"},
		{"render", data, "--hover", "200"},
		{"render", data, "--brush", "a:b"},
		{"render", data, "-c", writeTemp(t, "bad.yaml", "series: [{field: uv, type: spline}]")},
		{"locate", data},
	} {
		_, err := run(t, args...)
		require.Error(t, err, args)
	}
}

func TestRenderMissingDataKeepsCause(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, err := run(t, "render", missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), missing)
}

func TestLocate(t *testing.T) {
	data := writeTemp(t, "pages.csv", pages)
	cfg := writeTemp(t, "chart.yaml", `
width: 400
height: 400
indexAxis: {field: name}
axes: []
series: [{field: uv}, {field: pv, name: views}]
`)
	// Six bands of 65px starting at x=5 put the third centre at 167.5.
	out, err := run(t, "locate", data, "180,200", "-c", cfg)
	require.NoError(t, err)
	require.Equal(t, "index 2 (Page C)\nuv\t300\nviews\t1398\n", out)

	out, err = run(t, "locate", data, "1,1", "-c", cfg)
	require.NoError(t, err)
	require.Equal(t, "none\n", out)
}

func TestParseFlags(t *testing.T) {
	p, err := parsePoint(" 1.5, 2 ")
	require.NoError(t, err)
	require.Equal(t, vec.Vec2{X: 1.5, Y: 2}, p)

	w, err := parseBrush("4:1")
	require.NoError(t, err)
	require.Equal(t, chart.BrushWindow{Start: 4, End: 1}, w)
}
