package chart

import "golang.org/x/exp/constraints"

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// BrushWindow selects the inclusive index range [Start, End] of a dataset.
type BrushWindow struct {
	Start, End int
}

// Clamp fits w into a dataset of n records. Reversed bounds are swapped.
// The result is meaningless when n == 0.
func (w BrushWindow) Clamp(n int) BrushWindow {
	if w.Start > w.End {
		w.Start, w.End = w.End, w.Start
	}
	if n <= 0 {
		return BrushWindow{}
	}
	return BrushWindow{
		Start: clamp(w.Start, 0, n-1),
		End:   clamp(w.End, 0, n-1),
	}
}

// View is a read-only window over a Dataset. Indices passed to At are
// relative to the window; Absolute translates them back.
type View struct {
	ds     *Dataset
	offset int
	n      int
}

// Window returns the view of ds selected by brush. A nil brush selects the
// whole dataset. The dataset is neither copied nor modified.
func Window(ds *Dataset, brush *BrushWindow) View {
	n := ds.Len()
	if n == 0 {
		return View{ds: ds}
	}
	if brush == nil {
		return View{ds: ds, n: n}
	}
	w := brush.Clamp(n)
	if w != *brush {
		Logger().Debug().
			Int("start", brush.Start).Int("end", brush.End).
			Int("clampedStart", w.Start).Int("clampedEnd", w.End).
			Msg("brush window clamped")
	}
	return View{ds: ds, offset: w.Start, n: w.End - w.Start + 1}
}

func (v View) Len() int { return v.n }

func (v View) At(i int) Record { return v.ds.At(v.offset + i) }

func (v View) Offset() int { return v.offset }

func (v View) Absolute(i int) int { return v.offset + i }

func (v View) Dataset() *Dataset { return v.ds }
