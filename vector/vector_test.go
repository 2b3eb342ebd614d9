package vector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/core"
)

func TestNew(t *testing.T) {
	v, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Size())
	assert.Equal(t, 0.0, v.Sum())

	_, err = New(0)
	assert.ErrorIs(t, err, core.ErrIllegalInput)
}

func TestWrap(t *testing.T) {
	data := []float64{1, 2, 3}
	v, err := Wrap(data)
	require.NoError(t, err)

	// Ownership: the slice aliases the vector.
	require.NoError(t, v.Set(0, 9))
	assert.Equal(t, 9.0, data[0])

	_, err = Wrap(nil)
	assert.ErrorIs(t, err, core.ErrNullInput)
	_, err = Wrap([]float64{})
	assert.ErrorIs(t, err, core.ErrIllegalInput)
}

func TestGetSet(t *testing.T) {
	v, _ := New(2)
	require.NoError(t, v.Set(1, 4.5))
	x, err := v.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, x)

	_, err = v.Get(5)
	assert.ErrorIs(t, err, core.ErrAccessOutOfRange)
	assert.ErrorIs(t, v.Set(-1, 0), core.ErrAccessOutOfRange)
}

func TestDuplicateAndCopy(t *testing.T) {
	v, _ := Wrap([]float64{1, 2})
	d, err := Duplicate(v)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 7))
	x, _ := v.Get(0)
	assert.Equal(t, 1.0, x)

	dst, _ := New(2)
	require.NoError(t, dst.Copy(v))
	assert.Equal(t, []float64{1, 2}, dst.Data())

	short, _ := New(1)
	assert.ErrorIs(t, dst.Copy(short), core.ErrIncompatibleInput)
	assert.ErrorIs(t, dst.Copy(nil), core.ErrNullInput)

	_, err = Duplicate(nil)
	assert.ErrorIs(t, err, core.ErrNullInput)
}

func TestResize(t *testing.T) {
	v, _ := Wrap([]float64{1, 2})
	old := v.Data()

	require.NoError(t, v.Resize(4))
	assert.Equal(t, []float64{1, 2, 0, 0}, v.Data())

	// Resize reallocates; the old slice no longer aliases the vector.
	old[0] = 99
	x, _ := v.Get(0)
	assert.Equal(t, 1.0, x)

	assert.ErrorIs(t, v.Resize(0), core.ErrIllegalInput)
}

func TestArithmetic(t *testing.T) {
	a, _ := Wrap([]float64{1, 2, 3})
	b, _ := Wrap([]float64{4, 5, 6})

	require.NoError(t, a.Add(b))
	assert.Equal(t, []float64{5, 7, 9}, a.Data())

	require.NoError(t, a.Subtract(b))
	assert.Equal(t, []float64{1, 2, 3}, a.Data())

	require.NoError(t, a.Multiply(b))
	assert.Equal(t, []float64{4, 10, 18}, a.Data())

	require.NoError(t, a.Divide(b))
	assert.Equal(t, []float64{1, 2, 3}, a.Data())

	a.AddScalar(1)
	assert.Equal(t, []float64{2, 3, 4}, a.Data())
	a.MultiplyScalar(2)
	assert.Equal(t, []float64{4, 6, 8}, a.Data())

	a.Power(2)
	assert.Equal(t, []float64{16, 36, 64}, a.Data())
}

func TestDivideByZeroLeavesInputUntouched(t *testing.T) {
	a, _ := Wrap([]float64{1, 2})
	z, _ := Wrap([]float64{2, 0})

	err := a.Divide(z)
	assert.ErrorIs(t, err, core.ErrIllegalInput)
	assert.Equal(t, []float64{1, 2}, a.Data(), "no element written on failure")
}

func TestArithmeticSizeMismatch(t *testing.T) {
	a, _ := Wrap([]float64{1, 2})
	b, _ := Wrap([]float64{1})
	assert.ErrorIs(t, a.Add(b), core.ErrIncompatibleInput)
	assert.ErrorIs(t, a.Multiply(nil), core.ErrNullInput)
}

func TestStatistics(t *testing.T) {
	v, _ := Wrap([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 40.0, v.Sum())
	assert.Equal(t, 5.0, v.Mean())
	assert.Equal(t, 2.0, v.Min())
	assert.Equal(t, 9.0, v.Max())
	assert.InDelta(t, 2.13809, v.Stdev(), 1e-5)
	assert.Equal(t, 4.5, v.Median())

	odd, _ := Wrap([]float64{3, 1, 2})
	assert.Equal(t, 2.0, odd.Median())
	assert.Equal(t, []float64{3, 1, 2}, odd.Data(), "median leaves data untouched")

	single, _ := Wrap([]float64{5})
	assert.Equal(t, 0.0, single.Stdev())
}

func TestSort(t *testing.T) {
	v, _ := Wrap([]float64{3, 1, 2})
	require.NoError(t, v.Sort(Ascending))
	assert.Equal(t, []float64{1, 2, 3}, v.Data())

	require.NoError(t, v.Sort(Descending))
	assert.Equal(t, []float64{3, 2, 1}, v.Data())

	assert.ErrorIs(t, v.Sort(Direction(9)), core.ErrIllegalInput)
}

func TestFindClosest(t *testing.T) {
	v, _ := Wrap([]float64{0, 10, 20, 30})

	assert.Equal(t, 0, v.FindClosest(-5))
	assert.Equal(t, 0, v.FindClosest(4))
	assert.Equal(t, 1, v.FindClosest(6))
	assert.Equal(t, 1, v.FindClosest(10))
	assert.Equal(t, 3, v.FindClosest(100))

	// Equidistant resolves to the lower index.
	assert.Equal(t, 0, v.FindClosest(5))
}

func TestFillAndDump(t *testing.T) {
	v, _ := New(2)
	v.Fill(1.5)
	assert.Equal(t, []float64{1.5, 1.5}, v.Data())

	var sb strings.Builder
	require.NoError(t, v.Dump(&sb))
	assert.Equal(t, "0\t1.5\n1\t1.5\n", sb.String())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "ascending", Ascending.String())
	assert.Equal(t, "descending", Descending.String())
	assert.True(t, Ascending.Valid())
	assert.False(t, Direction(0).Valid())
	assert.Contains(t, Direction(9).String(), "vector.Direction")
}
