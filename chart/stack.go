package chart

// StackedValue is the logical extent of one series at one index.
type StackedValue struct {
	Base, Top float64
	// Null marks a missing or non-numeric value. A null still contributes
	// zero to the running total of its stack group.
	Null bool
}

// StackGroup is the ordered list of series sharing one stack identifier.
type StackGroup struct {
	ID     string
	Series []SeriesSpec
}

// Groups partitions specs into stack groups in order of first appearance.
// Unstacked series are not part of any group.
func Groups(specs []SeriesSpec) []StackGroup {
	var groups []StackGroup
	index := map[string]int{}
	for _, s := range specs {
		if s.StackID == "" {
			continue
		}
		i, ok := index[s.StackID]
		if !ok {
			i = len(groups)
			index[s.StackID] = i
			groups = append(groups, StackGroup{ID: s.StackID})
		}
		groups[i].Series = append(groups[i].Series, s)
	}
	return groups
}

// Stack computes the base and top of every series in specs over v. Each group
// accumulates independently, in declaration order; series outside any group
// get a base of zero.
func Stack(specs []SeriesSpec, v View) map[string][]StackedValue {
	out := make(map[string][]StackedValue, len(specs))
	n := v.Len()
	for _, s := range specs {
		if s.StackID != "" {
			continue
		}
		vals := make([]StackedValue, n)
		for i := range vals {
			f, ok := v.At(i).Get(s.Field).Number()
			vals[i] = StackedValue{Top: f, Null: !ok}
		}
		out[s.ID] = vals
	}
	for _, g := range Groups(specs) {
		cumulative := make([]float64, n)
		for _, s := range g.Series {
			vals := make([]StackedValue, n)
			for i := range vals {
				f, ok := v.At(i).Get(s.Field).Number()
				vals[i] = StackedValue{
					Base: cumulative[i],
					Top:  cumulative[i] + f,
					Null: !ok,
				}
				cumulative[i] += f
			}
			out[s.ID] = vals
		}
	}
	return out
}

// stackPredecessors returns the series that come before s in its group.
func stackPredecessors(specs []SeriesSpec, s SeriesSpec) []SeriesSpec {
	if s.StackID == "" {
		return nil
	}
	var out []SeriesSpec
	for _, o := range specs {
		if o.ID == s.ID {
			break
		}
		if o.StackID == s.StackID {
			out = append(out, o)
		}
	}
	return out
}
