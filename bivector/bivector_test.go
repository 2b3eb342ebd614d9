package bivector

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/vector"
)

func wrap(t *testing.T, xs, ys []float64) *Bivector {
	t.Helper()
	x, err := vector.Wrap(xs)
	require.NoError(t, err)
	y, err := vector.Wrap(ys)
	require.NoError(t, err)
	b, err := Wrap(x, y)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Size())
	assert.Equal(t, 3, b.X().Size())
	assert.Equal(t, 3, b.Y().Size())

	_, err = New(0)
	assert.ErrorIs(t, err, core.ErrIllegalInput)
}

func TestWrapValidation(t *testing.T) {
	x, _ := vector.Wrap([]float64{1, 2})
	y, _ := vector.Wrap([]float64{1})

	_, err := Wrap(nil, x)
	assert.ErrorIs(t, err, core.ErrNullInput)
	_, err = Wrap(x, nil)
	assert.ErrorIs(t, err, core.ErrNullInput)
	_, err = Wrap(x, y)
	assert.ErrorIs(t, err, core.ErrIncompatibleInput)
}

func TestWrapTakesOwnership(t *testing.T) {
	xs := []float64{1, 2}
	b := wrap(t, xs, []float64{3, 4})

	require.NoError(t, b.X().Set(0, 9))
	assert.Equal(t, 9.0, xs[0], "no copy on wrap")
}

func TestDuplicate(t *testing.T) {
	b := wrap(t, []float64{1, 2}, []float64{3, 4})
	d, err := Duplicate(b)
	require.NoError(t, err)

	require.NoError(t, d.X().Set(0, 99))
	x, _ := b.X().Get(0)
	assert.Equal(t, 1.0, x)

	_, err = Duplicate(nil)
	assert.ErrorIs(t, err, core.ErrNullInput)
}

func TestDuplicateCorruptedPair(t *testing.T) {
	b := wrap(t, []float64{1, 2}, []float64{3, 4})
	// Resizing one side through an aliased vector corrupts the pair.
	require.NoError(t, b.Y().Resize(5))

	_, err := Duplicate(b)
	assert.ErrorIs(t, err, core.ErrIncompatibleInput)
}

func TestUnwrap(t *testing.T) {
	b := wrap(t, []float64{1}, []float64{2})
	x, y := b.Unwrap()
	assert.Equal(t, []float64{1}, x.Data())
	assert.Equal(t, []float64{2}, y.Data())

	err := InterpolateLinear(b, b)
	assert.ErrorIs(t, err, core.ErrNullInput, "unwrapped bivector unusable")
}

func TestInterpolateLinearKnotsAndMidpoints(t *testing.T) {
	ref := wrap(t, []float64{0, 1, 2}, []float64{0, 10, 20})
	target := wrap(t, []float64{0, 0.5, 1, 1.5, 2}, make([]float64, 5))

	require.NoError(t, InterpolateLinear(target, ref))
	assert.Equal(t, []float64{0, 5, 10, 15, 20}, target.Y().Data())
}

func TestInterpolateLinearExactAtKnots(t *testing.T) {
	// Knot ordinates must be returned exactly, with no slope round-off.
	ref := wrap(t, []float64{0, 0.1, 0.3}, []float64{1.0000000000000002, -7, 3.3333333333333335})
	target := wrap(t, []float64{0, 0.1, 0.3}, make([]float64, 3))

	require.NoError(t, InterpolateLinear(target, ref))
	assert.Equal(t, ref.Y().Data(), target.Y().Data())
}

func TestInterpolateLinearReproducesLinearFunction(t *testing.T) {
	// y = 3x - 2 sampled at irregular knots.
	a, b := 3.0, -2.0
	xs := []float64{-1, 0.5, 1.25, 4, 9}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = a*x + b
	}
	ref := wrap(t, xs, ys)

	tx := []float64{-1, -0.25, 0.5, 2, 3.9999, 8.5, 9}
	target := wrap(t, tx, make([]float64, len(tx)))
	require.NoError(t, InterpolateLinear(target, ref))

	for i, x := range tx {
		assert.InDelta(t, a*x+b, target.Y().Data()[i], 1e-12, "x=%g", x)
	}
}

func TestInterpolateLinearNoExtrapolation(t *testing.T) {
	ref := wrap(t, []float64{0, 1}, []float64{0, 10})

	above := wrap(t, []float64{2}, []float64{0})
	err := InterpolateLinear(above, ref)
	assert.ErrorIs(t, err, core.ErrDataNotFound)
	assert.Equal(t, 0.0, above.Y().Data()[0], "output untouched")

	below := wrap(t, []float64{-0.5, 0.5}, []float64{0, 0})
	err = InterpolateLinear(below, ref)
	assert.ErrorIs(t, err, core.ErrDataNotFound)

	var de *core.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, -0.5, de.Value)
}

func TestInterpolateLinearMonotonicityViolation(t *testing.T) {
	// The violation sits in the bracket needed for x=2.5; earlier targets
	// must already be written when the failure surfaces.
	ref := wrap(t, []float64{0, 1, 3, 2, 4}, []float64{0, 10, 30, 20, 40})
	target := wrap(t, []float64{0.5, 3.5}, []float64{-1, -1})

	err := InterpolateLinear(target, ref)
	assert.ErrorIs(t, err, core.ErrIllegalInput)
	assert.Equal(t, 5.0, target.Y().Data()[0], "processed prefix written")
	assert.Equal(t, -1.0, target.Y().Data()[1], "remainder untouched")
}

func TestInterpolateLinearLazyMonotonicityCheck(t *testing.T) {
	// The violation lies beyond every bracket the targets need, so the
	// single pass never sees it.
	ref := wrap(t, []float64{0, 1, 2, 1.5, 3}, []float64{0, 10, 20, 15, 30})
	target := wrap(t, []float64{0.5, 1}, make([]float64, 2))

	require.NoError(t, InterpolateLinear(target, ref))
	assert.Equal(t, []float64{5, 10}, target.Y().Data())
}

func TestInterpolateLinearNilInputs(t *testing.T) {
	b := wrap(t, []float64{0}, []float64{0})
	assert.ErrorIs(t, InterpolateLinear(nil, b), core.ErrNullInput)
	assert.ErrorIs(t, InterpolateLinear(b, nil), core.ErrNullInput)
}

func TestInterpolateLinearSingleKnot(t *testing.T) {
	ref := wrap(t, []float64{5}, []float64{50})
	target := wrap(t, []float64{5}, []float64{0})

	require.NoError(t, InterpolateLinear(target, ref))
	assert.Equal(t, 50.0, target.Y().Data()[0])
}

func TestSortByXAscending(t *testing.T) {
	src := wrap(t, []float64{3, 1, 2}, []float64{30, 10, 20})
	dst := wrap(t, make([]float64, 3), make([]float64, 3))

	require.NoError(t, Sort(dst, src, vector.Ascending, SortByX))
	assert.Equal(t, []float64{1, 2, 3}, dst.X().Data())
	assert.Equal(t, []float64{10, 20, 30}, dst.Y().Data())

	// Source untouched by a gather-copy sort.
	assert.Equal(t, []float64{3, 1, 2}, src.X().Data())
}

func TestSortByYDescending(t *testing.T) {
	src := wrap(t, []float64{1, 2, 3}, []float64{20, 30, 10})
	dst := wrap(t, make([]float64, 3), make([]float64, 3))

	require.NoError(t, Sort(dst, src, vector.Descending, SortByY))
	assert.Equal(t, []float64{30, 20, 10}, dst.Y().Data())
	assert.Equal(t, []float64{2, 1, 3}, dst.X().Data())
}

func TestSortInPlace(t *testing.T) {
	b := wrap(t, []float64{3, 1, 2}, []float64{30, 10, 20})

	require.NoError(t, Sort(b, b, vector.Ascending, SortByX))
	assert.Equal(t, []float64{1, 2, 3}, b.X().Data())
	assert.Equal(t, []float64{10, 20, 30}, b.Y().Data())
}

func TestSortInPlaceMatchesCopySort(t *testing.T) {
	xs := []float64{5, -1, 3, 3, 0, 7}
	ys := []float64{1, 2, 3, 4, 5, 6}

	inPlace := wrap(t, append([]float64(nil), xs...), append([]float64(nil), ys...))
	require.NoError(t, Sort(inPlace, inPlace, vector.Ascending, SortByX))

	src := wrap(t, append([]float64(nil), xs...), append([]float64(nil), ys...))
	dst := wrap(t, make([]float64, len(xs)), make([]float64, len(ys)))
	require.NoError(t, Sort(dst, src, vector.Ascending, SortByX))

	assert.Equal(t, dst.X().Data(), inPlace.X().Data())
	assert.Equal(t, dst.Y().Data(), inPlace.Y().Data())
}

func TestSortIsStable(t *testing.T) {
	// Equal x keys keep their original pair order.
	src := wrap(t, []float64{1, 1, 0, 1}, []float64{10, 20, 5, 30})
	dst := wrap(t, make([]float64, 4), make([]float64, 4))

	require.NoError(t, Sort(dst, src, vector.Ascending, SortByX))
	assert.Equal(t, []float64{0, 1, 1, 1}, dst.X().Data())
	assert.Equal(t, []float64{5, 10, 20, 30}, dst.Y().Data())
}

func TestSortPreservesPairMultiset(t *testing.T) {
	src := wrap(t, []float64{4, 2, 4, 1}, []float64{40, 20, 41, 10})
	dst := wrap(t, make([]float64, 4), make([]float64, 4))

	require.NoError(t, Sort(dst, src, vector.Descending, SortByX))

	type pair struct{ x, y float64 }
	collect := func(b *Bivector) []pair {
		out := make([]pair, b.Size())
		for i := range out {
			out[i] = pair{b.X().Data()[i], b.Y().Data()[i]}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].x != out[j].x {
				return out[i].x < out[j].x
			}
			return out[i].y < out[j].y
		})
		return out
	}
	assert.Equal(t, collect(src), collect(dst))

	// And the ordering itself is non-increasing.
	xs := dst.X().Data()
	for i := 1; i < len(xs); i++ {
		assert.LessOrEqual(t, xs[i], xs[i-1])
	}
}

func TestSortErrors(t *testing.T) {
	b := wrap(t, []float64{1, 2}, []float64{3, 4})
	short := wrap(t, []float64{1}, []float64{2})

	assert.ErrorIs(t, Sort(nil, b, vector.Ascending, SortByX), core.ErrNullInput)
	assert.ErrorIs(t, Sort(b, nil, vector.Ascending, SortByX), core.ErrNullInput)
	assert.ErrorIs(t, Sort(b, short, vector.Ascending, SortByX), core.ErrIncompatibleInput)
	assert.ErrorIs(t, Sort(b, b, vector.Direction(0), SortByX), core.ErrIllegalInput)
	assert.ErrorIs(t, Sort(b, b, vector.Ascending, SortMode(9)), core.ErrUnsupportedMode)
}

func TestSortDegenerateAliasing(t *testing.T) {
	// x and y backed by the same buffer on both operands is meaningless.
	shared := []float64{2, 1}
	x, _ := vector.Wrap(shared)
	y, _ := vector.Wrap(shared)
	b, err := Wrap(x, y)
	require.NoError(t, err)

	err = Sort(b, b, vector.Ascending, SortByX)
	assert.ErrorIs(t, err, core.ErrUnsupportedMode)
}

func TestSortModeString(t *testing.T) {
	assert.Equal(t, "by-x", SortByX.String())
	assert.Equal(t, "by-y", SortByY.String())
	assert.False(t, SortMode(0).Valid())
	assert.Contains(t, SortMode(9).String(), "bivector.SortMode")
}
