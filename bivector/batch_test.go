package bivector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/core"
)

func TestInterpolateAll(t *testing.T) {
	ref := wrap(t, []float64{0, 1, 2}, []float64{0, 10, 20})

	targets := make([]*Bivector, 16)
	for i := range targets {
		targets[i] = wrap(t, []float64{0.25, 1.75}, make([]float64, 2))
	}

	require.NoError(t, InterpolateAll(context.Background(), ref, targets, 4))
	for _, target := range targets {
		assert.Equal(t, []float64{2.5, 17.5}, target.Y().Data())
	}
}

func TestInterpolateAllPropagatesFailure(t *testing.T) {
	ref := wrap(t, []float64{0, 1}, []float64{0, 10})
	targets := []*Bivector{
		wrap(t, []float64{0.5}, make([]float64, 1)),
		wrap(t, []float64{5}, make([]float64, 1)), // out of domain
	}

	err := InterpolateAll(context.Background(), ref, targets, 1)
	assert.ErrorIs(t, err, core.ErrDataNotFound)
}

func TestInterpolateAllNilReference(t *testing.T) {
	err := InterpolateAll(context.Background(), nil, nil, 0)
	assert.ErrorIs(t, err, core.ErrNullInput)
}

func TestInterpolateAllHonorsCancel(t *testing.T) {
	ref := wrap(t, []float64{0, 1}, []float64{0, 10})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []*Bivector{wrap(t, []float64{0.5}, make([]float64, 1))}
	err := InterpolateAll(ctx, ref, targets, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
