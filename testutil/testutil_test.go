package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/dtype"
)

func TestFillUniform(t *testing.T) {
	rng := NewRNG(4711)

	data := make([]float64, 64)
	rng.FillUniform(data)

	for _, v := range data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestFillUniformRange(t *testing.T) {
	rng := NewRNG(4711)

	data := make([]float64, 64)
	rng.FillUniformRange(data, -5, 5)

	for _, v := range data {
		assert.GreaterOrEqual(t, v, -5.0)
		assert.Less(t, v, 5.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)

	a := make([]float64, 16)
	rng.FillUniform(a)

	rng.Reset()
	b := make([]float64, 16)
	rng.FillUniform(b)

	assert.Equal(t, a, b)
}

func TestMonotoneAbscissas(t *testing.T) {
	rng := NewRNG(1)

	xs := rng.MonotoneAbscissas(100, 0, 10)
	require.Len(t, xs, 100)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 10.0, xs[99])

	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1], "index %d", i)
	}
}

func TestMonotoneAbscissasDegenerate(t *testing.T) {
	rng := NewRNG(1)

	assert.Nil(t, rng.MonotoneAbscissas(0, 0, 1))
	assert.Equal(t, []float64{3}, rng.MonotoneAbscissas(1, 3, 9))
}

func TestLinearSamples(t *testing.T) {
	ys := LinearSamples([]float64{0, 1, 2}, 2, 1)
	assert.Equal(t, []float64{1, 3, 5}, ys)
}

func TestLinearBivector(t *testing.T) {
	rng := NewRNG(7)

	b := rng.LinearBivector(50, 0, 1, 3, -1)
	require.Equal(t, 50, b.Size())

	xs := b.X().Data()
	ys := b.Y().Data()
	for i := range xs {
		assert.InDelta(t, 3*xs[i]-1, ys[i], 1e-12)
	}
}

func TestRandomArray(t *testing.T) {
	rng := NewRNG(99)

	a, err := rng.RandomArray(dtype.Float64, 1000, 0.2)
	require.NoError(t, err)
	require.Equal(t, 1000, a.Size())

	// Roughly 20% invalid, with generous slack.
	invalid := a.CountInvalid()
	assert.Greater(t, invalid, 100)
	assert.Less(t, invalid, 350)
}

func TestRandomArrayComplex(t *testing.T) {
	rng := NewRNG(99)

	a, err := rng.RandomArray(dtype.Complex128, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, a.CountInvalid())

	v, ok, err := a.GetComplex(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, real(v), -imag(v))
}
