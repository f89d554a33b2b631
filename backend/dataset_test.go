package backend

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

func TestLoadCSV(t *testing.T) {
	type testcase struct {
		name    string
		input   string
		fields  []string
		records int
		check   func(t *testing.T, ds *chart.Dataset)
	}
	for _, tc := range []testcase{
		{
			name:    "numbers and names",
			input:   "name, uv, pv\nPage A, 400, 2400\nPage B, 300, 4567\n",
			fields:  []string{"name", "uv", "pv"},
			records: 2,
			check: func(t *testing.T, ds *chart.Dataset) {
				require.Equal(t, "Page B", ds.At(1).Get("name").String())
				v, ok := ds.At(1).Get("pv").Number()
				require.True(t, ok)
				require.Equal(t, 4567.0, v)
			},
		},
		{
			name:    "blank and malformed cells",
			input:   "uv,pv\n,abc\n",
			fields:  []string{"uv", "pv"},
			records: 1,
			check: func(t *testing.T, ds *chart.Dataset) {
				require.True(t, ds.At(0).Get("uv").IsNull())
				_, ok := ds.At(0).Get("pv").Number()
				require.False(t, ok)
			},
		},
		{
			name:    "no trailing newline",
			input:   "uv\n1\n2",
			fields:  []string{"uv"},
			records: 2,
		},
		{
			name:    "ragged records and trailing comma",
			input:   "a, b,\n1\n1, 2, 3, 4\n",
			fields:  []string{"a", "b"},
			records: 2,
			check: func(t *testing.T, ds *chart.Dataset) {
				require.True(t, ds.At(0).Get("b").IsNull())
				v, _ := ds.At(1).Get("b").Number()
				require.Equal(t, 2.0, v)
			},
		},
		{
			name:    "headings only",
			input:   "uv\n",
			fields:  []string{"uv"},
			records: 0,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := LoadCSV(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.fields, ds.Fields())
			require.Equal(t, tc.records, ds.Len())
			if tc.check != nil {
				tc.check(t, ds)
			}
		})
	}
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoHeadings)

	_, err = LoadCSV(strings.NewReader("a\n\"unterminated\n"))
	require.Error(t, err)
}

func TestLoadSettledSkipsPartialLine(t *testing.T) {
	ds, err := loadSettled(strings.NewReader("uv\n1\n2\n3"), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
}

func TestLoadSettledLongRow(t *testing.T) {
	long := strings.Repeat("x", 10000)
	ds, err := loadSettled(strings.NewReader("name,uv\n"+long+",1\nshort,2\n"), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	require.Equal(t, long, ds.At(0).Get("name").String())
	require.Equal(t, "short", ds.At(1).Get("name").String())
}
