package chart

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// Value is a single cell of a Record.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null is the absent value.
var Null = Value{}

func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ParseValue interprets a raw text cell. Empty cells are null, cells that
// parse as finite floats are numbers, and everything else is a string.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Null
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumberValue(f)
	}
	return StringValue(raw)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric content of v. Strings, nulls, and non-finite
// numbers report ok == false, so callers degrade them to missing points.
func (v Value) Number() (f float64, ok bool) {
	if v.kind != KindNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	return v.num, true
}

// String formats v for labels and category names.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Record maps field names to values.
type Record map[string]Value

// Get returns the value of field, or Null if the record lacks it.
func (r Record) Get(field string) Value {
	if r == nil {
		return Null
	}
	return r[field]
}

var datasetCounter atomic.Uint64

// Dataset is an immutable ordered sequence of records. Its position in the
// sequence is the implicit index axis.
type Dataset struct {
	id      uint64
	records []Record
	fields  []string
}

// NewDataset takes ownership of records; callers must not mutate them
// afterwards. Each call yields a dataset with a new identity.
func NewDataset(records []Record) *Dataset {
	seen := map[string]bool{}
	var fields []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	sort.Strings(fields)
	return NewTable(fields, records)
}

// NewTable is NewDataset with an explicit column order, as read from a file
// header. Fields present in records but missing from fields are still
// reachable through Record.Get; they are only absent from Fields.
func NewTable(fields []string, records []Record) *Dataset {
	return &Dataset{
		id:      datasetCounter.Add(1),
		records: records,
		fields:  fields,
	}
}

// Fields lists the dataset's columns.
func (d *Dataset) Fields() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.fields...)
}

// ID is the identity of the dataset. Two datasets built from the same records
// still have distinct identities.
func (d *Dataset) ID() uint64 {
	if d == nil {
		return 0
	}
	return d.id
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// HasField reports whether any record carries field.
func (d *Dataset) HasField(field string) bool {
	if d == nil {
		return false
	}
	for _, r := range d.records {
		if _, ok := r[field]; ok {
			return true
		}
	}
	return false
}
