package chart

import (
	"math"
	"strconv"
)

// Domain is either a numeric interval or an ordered set of categories.
type Domain struct {
	Categorical bool
	Min, Max    float64
	Categories  []string
}

func NumericDomain(lo, hi float64) Domain {
	return Domain{Min: min(lo, hi), Max: max(lo, hi)}
}

func CategoryDomain(categories []string) Domain {
	return Domain{Categorical: true, Categories: categories}
}

// Degenerate reports whether the domain collapses to a single position.
func (d Domain) Degenerate() bool {
	if d.Categorical {
		return len(d.Categories) <= 1
	}
	return d.Min == d.Max
}

// indexDomain derives the index axis domain of a view. Category domains keep
// one entry per record, duplicates included, so positions follow record
// order.
func indexDomain(v View, axis IndexAxis) Domain {
	if axis.Type == Number && axis.Field != "" {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < v.Len(); i++ {
			f, ok := v.At(i).Get(axis.Field).Number()
			if !ok {
				continue
			}
			lo, hi = min(lo, f), max(hi, f)
		}
		if lo > hi {
			return NumericDomain(0, 0)
		}
		return NumericDomain(lo, hi)
	}
	cats := make([]string, v.Len())
	for i := range cats {
		if axis.Field != "" {
			cats[i] = v.At(i).Get(axis.Field).String()
		} else {
			cats[i] = strconv.Itoa(v.Absolute(i))
		}
	}
	return CategoryDomain(cats)
}

// valueDomain spans every defined top and stacked baseline, extended to
// include zero on the low end.
func valueDomain(specs []SeriesSpec, stacks map[string][]StackedValue, override *[2]float64) Domain {
	if override != nil {
		return NumericDomain(override[0], override[1])
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range specs {
		for _, sv := range stacks[s.ID] {
			if sv.Null {
				continue
			}
			lo, hi = min(lo, sv.Top), max(hi, sv.Top)
			if s.StackID != "" {
				lo, hi = min(lo, sv.Base), max(hi, sv.Base)
			}
		}
	}
	if lo > hi {
		return NumericDomain(0, 0)
	}
	return NumericDomain(min(lo, 0), hi)
}

// baseValue resolves the baseline of unstacked series against the value
// domain.
func baseValue(b BaseValue, d Domain) float64 {
	switch b.Mode {
	case BaseDataMin:
		return d.Min
	case BaseDataMax:
		return d.Max
	case BaseNumber:
		return b.Value
	}
	if d.Max < 0 {
		return d.Max
	}
	return max(d.Min, 0)
}
