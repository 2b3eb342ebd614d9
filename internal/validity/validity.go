// Package validity tracks which elements of a container hold no usable
// value. The mask stores the positions of invalid elements in a Roaring
// bitmap, so fully-valid containers (the common case in pipeline data) cost
// almost nothing.
package validity

import (
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mask records the invalid positions of a container of length n.
// Positions outside [0, n) are never stored.
//
// Mask is not safe for concurrent mutation.
type Mask struct {
	rb *roaring.Bitmap
	n  int
}

// New creates a mask of length n with every element valid.
func New(n int) *Mask {
	return &Mask{rb: roaring.New(), n: n}
}

// NewInvalid creates a mask of length n with every element invalid.
// Freshly allocated containers start in this state until written.
func NewInvalid(n int) *Mask {
	m := New(n)
	if n > 0 {
		m.rb.AddRange(0, uint64(n))
	}
	return m
}

// Len returns the length of the mask.
func (m *Mask) Len() int { return m.n }

// MarkInvalid flags position i as invalid. Out-of-range positions are ignored.
func (m *Mask) MarkInvalid(i int) {
	if i >= 0 && i < m.n {
		m.rb.Add(uint32(i))
	}
}

// MarkValid flags position i as valid. Out-of-range positions are ignored.
func (m *Mask) MarkValid(i int) {
	if i >= 0 && i < m.n {
		m.rb.Remove(uint32(i))
	}
}

// MarkRangeInvalid flags positions [from, to) as invalid.
func (m *Mask) MarkRangeInvalid(from, to int) {
	from = max(from, 0)
	to = min(to, m.n)
	if from < to {
		m.rb.AddRange(uint64(from), uint64(to))
	}
}

// MarkRangeValid flags positions [from, to) as valid.
func (m *Mask) MarkRangeValid(from, to int) {
	from = max(from, 0)
	to = min(to, m.n)
	if from < to {
		m.rb.RemoveRange(uint64(from), uint64(to))
	}
}

// IsValid reports whether position i holds a usable value.
// Out-of-range positions report false.
func (m *Mask) IsValid(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return !m.rb.Contains(uint32(i))
}

// CountInvalid returns the number of invalid positions.
func (m *Mask) CountInvalid() int {
	return int(m.rb.GetCardinality())
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	return &Mask{rb: m.rb.Clone(), n: m.n}
}

// Resize changes the mask length to n. Truncation drops the mask state of
// removed positions; growth flags the new positions as invalid until written.
func (m *Mask) Resize(n int) {
	switch {
	case n < m.n:
		m.rb.RemoveRange(uint64(n), uint64(m.n))
	case n > m.n:
		m.rb.AddRange(uint64(m.n), uint64(n))
	}
	m.n = n
}

// Insert makes room for count positions at pos, shifting the state of
// positions >= pos upward. The inserted positions are flagged invalid.
func (m *Mask) Insert(pos, count int) {
	if count <= 0 {
		return
	}
	upper := m.rb.Clone()
	upper.RemoveRange(0, uint64(pos))
	m.rb.RemoveRange(uint64(pos), uint64(m.n))
	m.rb.Or(roaring.AddOffset64(upper, int64(count)))
	m.n += count
	m.rb.AddRange(uint64(pos), uint64(pos+count))
}

// Erase removes count positions starting at pos, shifting the state of the
// positions above the erased range downward.
func (m *Mask) Erase(pos, count int) {
	if count <= 0 {
		return
	}
	upper := m.rb.Clone()
	upper.RemoveRange(0, uint64(pos+count))
	m.rb.RemoveRange(uint64(pos), uint64(m.n))
	m.rb.Or(roaring.AddOffset64(upper, int64(-count)))
	m.n -= count
}

// Slice returns a new mask covering positions [from, from+count) of m.
func (m *Mask) Slice(from, count int) *Mask {
	out := New(count)
	for i := 0; i < count; i++ {
		if !m.IsValid(from + i) {
			out.rb.Add(uint32(i))
		}
	}
	return out
}

// ForEachInvalid calls fn with each invalid position in ascending order.
// Iteration stops early when fn returns false.
func (m *Mask) ForEachInvalid(fn func(i int) bool) {
	it := m.rb.Iterator()
	for it.HasNext() {
		if !fn(int(it.Next())) {
			return
		}
	}
}

// WriteTo serializes the invalid-position bitmap in the portable Roaring
// format. The mask length is not included; callers persist it alongside.
func (m *Mask) WriteTo(w io.Writer) (int64, error) {
	m.rb.RunOptimize()
	return m.rb.WriteTo(w)
}

// ReadFrom replaces the bitmap state from the portable Roaring format.
func (m *Mask) ReadFrom(r io.Reader) (int64, error) {
	return m.rb.ReadFrom(r)
}
