package chart

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// hasher builds structural cache keys. Everything written is length or tag
// prefixed so that adjacent fields cannot run into each other.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher() *hasher {
	return &hasher{d: xxhash.New()}
}

func (h *hasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
}

func (h *hasher) int(v int)     { h.u64(uint64(v)) }
func (h *hasher) f64(f float64) { h.u64(math.Float64bits(f)) }

func (h *hasher) vec(a, b float64) {
	h.f64(a)
	h.f64(b)
}

func (h *hasher) bool(b bool) {
	if b {
		h.u64(1)
	} else {
		h.u64(0)
	}
}

func (h *hasher) str(s string) {
	h.int(len(s))
	h.d.WriteString(s)
}

func (h *hasher) rect(r Rect) {
	h.vec(r.Min.X, r.Min.Y)
	h.vec(r.Max.X, r.Max.Y)
}

func (h *hasher) spec(s SeriesSpec) {
	h.str(s.ID)
	h.str(s.Field)
	h.str(s.Name)
	h.str(s.Stroke)
	h.str(s.Fill)
	h.int(int(s.Interpolation))
	h.str(s.StackID)
	h.bool(s.Dot)
	h.bool(s.Label)
	h.int(int(s.ActiveDot))
	h.int(int(s.AnimationActive))
	h.bool(s.ConnectNulls)
	h.bool(s.Hide)
}

func (h *hasher) domain(d Domain) {
	h.bool(d.Categorical)
	h.f64(d.Min)
	h.f64(d.Max)
	h.int(len(d.Categories))
	for _, c := range d.Categories {
		h.str(c)
	}
}

func (h *hasher) sum() uint64 { return h.d.Sum64() }

type memoEntry[T any] struct {
	key uint64
	val T
}

// memo keeps the last value built for each id together with the key it was
// built for.
type memo[T any] struct {
	entries map[string]memoEntry[T]
}

// get returns the cached value for id if it was built for key, and builds
// and stores a new one otherwise.
func (m *memo[T]) get(id string, key uint64, build func() T) (val T, built bool) {
	if e, ok := m.entries[id]; ok && e.key == key {
		return e.val, false
	}
	if m.entries == nil {
		m.entries = make(map[string]memoEntry[T])
	}
	val = build()
	m.entries[id] = memoEntry[T]{key: key, val: val}
	return val, true
}

// retain drops every entry whose id is not in keep.
func (m *memo[T]) retain(keep map[string]bool) {
	for id := range m.entries {
		if !keep[id] {
			delete(m.entries, id)
		}
	}
}
