package validity

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllValid(t *testing.T) {
	m := New(10)
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, 0, m.CountInvalid())
	for i := 0; i < 10; i++ {
		assert.True(t, m.IsValid(i))
	}
}

func TestNewInvalid(t *testing.T) {
	m := NewInvalid(5)
	assert.Equal(t, 5, m.CountInvalid())
	assert.False(t, m.IsValid(0))
	assert.False(t, m.IsValid(4))
}

func TestMarkAndRanges(t *testing.T) {
	m := New(8)
	m.MarkInvalid(3)
	m.MarkInvalid(5)
	assert.False(t, m.IsValid(3))
	assert.False(t, m.IsValid(5))
	assert.Equal(t, 2, m.CountInvalid())

	m.MarkValid(3)
	assert.True(t, m.IsValid(3))

	m.MarkRangeInvalid(0, 4)
	assert.Equal(t, 5, m.CountInvalid()) // 0,1,2,3 plus 5
	m.MarkRangeValid(0, 8)
	assert.Equal(t, 0, m.CountInvalid())

	// Out of range is a no-op, not a panic.
	m.MarkInvalid(-1)
	m.MarkInvalid(100)
	assert.Equal(t, 0, m.CountInvalid())
	assert.False(t, m.IsValid(-1))
	assert.False(t, m.IsValid(100))
}

func TestResize(t *testing.T) {
	m := New(4)
	m.MarkInvalid(3)

	m.Resize(8)
	assert.Equal(t, 8, m.Len())
	// Grown positions start invalid.
	for i := 4; i < 8; i++ {
		assert.False(t, m.IsValid(i))
	}
	assert.False(t, m.IsValid(3))

	m.Resize(2)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.CountInvalid())
}

func TestInsertShiftsState(t *testing.T) {
	m := New(5)
	m.MarkInvalid(1)
	m.MarkInvalid(4)

	m.Insert(2, 3)
	require.Equal(t, 8, m.Len())

	assert.False(t, m.IsValid(1)) // below insertion point, untouched
	for i := 2; i < 5; i++ {
		assert.False(t, m.IsValid(i), "inserted position %d", i)
	}
	assert.True(t, m.IsValid(5)) // was position 2
	assert.False(t, m.IsValid(7)) // was position 4
}

func TestEraseShiftsState(t *testing.T) {
	m := New(6)
	m.MarkInvalid(0)
	m.MarkInvalid(2)
	m.MarkInvalid(5)

	m.Erase(1, 2) // removes positions 1 and 2
	require.Equal(t, 4, m.Len())

	assert.False(t, m.IsValid(0))
	assert.True(t, m.IsValid(1)) // was position 3
	assert.True(t, m.IsValid(2)) // was position 4
	assert.False(t, m.IsValid(3)) // was position 5
	assert.Equal(t, 2, m.CountInvalid())
}

func TestSlice(t *testing.T) {
	m := New(6)
	m.MarkInvalid(2)
	m.MarkInvalid(4)

	s := m.Slice(2, 3)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsValid(0))
	assert.True(t, s.IsValid(1))
	assert.False(t, s.IsValid(2))
}

func TestCloneIsIndependent(t *testing.T) {
	m := New(4)
	m.MarkInvalid(1)
	c := m.Clone()
	c.MarkInvalid(2)

	assert.Equal(t, 1, m.CountInvalid())
	assert.Equal(t, 2, c.CountInvalid())
}

func TestForEachInvalid(t *testing.T) {
	m := New(10)
	m.MarkInvalid(7)
	m.MarkInvalid(1)
	m.MarkInvalid(4)

	var got []int
	m.ForEachInvalid(func(i int) bool {
		got = append(got, i)
		return true
	})
	assert.Equal(t, []int{1, 4, 7}, got)

	got = got[:0]
	m.ForEachInvalid(func(i int) bool {
		got = append(got, i)
		return false
	})
	assert.Equal(t, []int{1}, got)
}

func TestSerializationRoundTrip(t *testing.T) {
	m := New(100)
	m.MarkInvalid(0)
	m.MarkRangeInvalid(10, 20)
	m.MarkInvalid(99)

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	out := New(100)
	_, err = out.ReadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.CountInvalid(), out.CountInvalid())
	for i := 0; i < 100; i++ {
		assert.Equal(t, m.IsValid(i), out.IsValid(i), "position %d", i)
	}
}
