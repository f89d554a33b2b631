package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	cats := CategoryDomain([]string{"a", "b", "c", "d"})

	band := Resolve(cats, [2]float64{0, 100})
	require.Equal(t, 12.5, band.Position(0))
	require.Equal(t, 87.5, band.Position(3))
	require.Equal(t, 25.0, band.Bandwidth())

	point := ResolvePoint(cats, [2]float64{0, 90})
	require.Equal(t, 0.0, point.Position(0))
	require.Equal(t, 30.0, point.Position(1))
	require.Equal(t, 90.0, point.Position(3))
	require.Equal(t, 0.0, point.Bandwidth())

	single := Resolve(CategoryDomain([]string{"only"}), [2]float64{0, 100})
	require.Equal(t, 50.0, single.Position(0))

	// Reversed range: larger values map higher up the screen.
	num := Resolve(NumericDomain(0, 200), [2]float64{300, 100})
	require.Equal(t, 300.0, num.Map(0))
	require.Equal(t, 200.0, num.Map(100))
	require.Equal(t, 100.0, num.Map(200))
	require.Equal(t, 400.0, num.Map(-100))

	flat := Resolve(NumericDomain(5, 5), [2]float64{0, 10})
	require.Equal(t, 5.0, flat.Map(5))
	require.True(t, flat.Domain().Degenerate())
}

func TestIndexDomain(t *testing.T) {
	ds := merge(
		numbers("x", 3, 1, nil, 7),
		[]Record{{"name": StringValue("a")}, {"name": StringValue("b")}, {"name": StringValue("a")}, {}},
	)
	v := Window(ds, nil)

	require.Equal(t, NumericDomain(1, 7), indexDomain(v, IndexAxis{Field: "x", Type: Number}))
	require.Equal(t, CategoryDomain([]string{"a", "b", "a", ""}), indexDomain(v, IndexAxis{Field: "name"}))
	require.Equal(t, CategoryDomain([]string{"0", "1", "2", "3"}), indexDomain(v, IndexAxis{}))

	w := Window(ds, &BrushWindow{Start: 1, End: 2})
	require.Equal(t, CategoryDomain([]string{"1", "2"}), indexDomain(w, IndexAxis{}))
}

func TestWindow(t *testing.T) {
	ds := NewDataset(numbers("v", 0, 1, 2, 3, 4))
	type testcase struct {
		name   string
		brush  *BrushWindow
		offset int
		n      int
	}
	for _, tc := range []testcase{
		{"nil selects all", nil, 0, 5},
		{"inner", &BrushWindow{Start: 1, End: 3}, 1, 3},
		{"reversed", &BrushWindow{Start: 3, End: 1}, 1, 3},
		{"clamped", &BrushWindow{Start: -2, End: 99}, 0, 5},
		{"single", &BrushWindow{Start: 4, End: 4}, 4, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := Window(ds, tc.brush)
			require.Equal(t, tc.offset, v.Offset())
			require.Equal(t, tc.n, v.Len())
			f, ok := v.At(0).Get("v").Number()
			require.True(t, ok)
			require.Equal(t, float64(tc.offset), f)
			require.Equal(t, tc.offset+tc.n-1, v.Absolute(tc.n-1))
			require.Same(t, ds, v.Dataset())
		})
	}

	require.Equal(t, 0, Window(NewDataset(nil), &BrushWindow{Start: 1, End: 2}).Len())
	require.Equal(t, 0, Window(nil, nil).Len())
}

func TestParseValue(t *testing.T) {
	f, ok := ParseValue(" 12.5 ").Number()
	require.True(t, ok)
	require.Equal(t, 12.5, f)

	require.True(t, ParseValue("").IsNull())
	require.Equal(t, KindString, ParseValue("NaN").Kind())
	require.Equal(t, KindString, ParseValue("Page A").Kind())
	_, ok = ParseValue("Page A").Number()
	require.False(t, ok)
}

func TestOptionsValidate(t *testing.T) {
	good := Options{Width: 10, Height: 10, Series: []SeriesSpec{{Field: "v"}}}
	require.NoError(t, good.Validate())

	bad := good
	bad.ValueDomain = &[2]float64{5, 1}
	require.ErrorIs(t, bad.Validate(), ErrInvalidOptions)

	bad = good
	bad.Series = []SeriesSpec{{Field: "v", Interpolation: numInterpolations}}
	require.ErrorIs(t, bad.Validate(), ErrInvalidSeries)

	i, err := ParseInterpolation("StepAfter")
	require.NoError(t, err)
	require.Equal(t, StepAfter, i)
	_, err = ParseInterpolation("spline")
	require.ErrorIs(t, err, ErrInvalidSeries)
}
