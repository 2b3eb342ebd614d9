package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/arraygo/array"
	"github.com/hupe1980/arraygo/bivector"
	"github.com/hupe1980/arraygo/dtype"
	"github.com/hupe1980/arraygo/vector"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + span*r.rand.Float64()
	}
}

// FillGaussian fills dst with standard normally distributed values.
func (r *RNG) FillGaussian(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.NormFloat64()
	}
}

// MonotoneAbscissas returns n strictly increasing values spanning
// [lo, hi]. The interior points are jittered so spacing is irregular, as
// real sampling grids are.
func (r *RNG) MonotoneAbscissas(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	step := (hi - lo) / float64(n-1)
	out[0] = lo
	out[n-1] = hi
	for i := 1; i < n-1; i++ {
		// Jitter by at most 40% of a step so order is preserved.
		jitter := (r.rand.Float64() - 0.5) * 0.8 * step
		out[i] = lo + float64(i)*step + jitter
	}
	return out
}

// UniformVector returns a vector of n uniform values in [0, 1).
func (r *RNG) UniformVector(n int) *vector.Vector {
	data := make([]float64, n)
	r.FillUniform(data)
	v, _ := vector.Wrap(data)
	return v
}

// LinearSamples evaluates y = slope*x + intercept at each abscissa.
func LinearSamples(xs []float64, slope, intercept float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = slope*x + intercept
	}
	return out
}

// LinearBivector returns a series sampling y = slope*x + intercept on a
// jittered monotone grid of n points over [lo, hi].
func (r *RNG) LinearBivector(n int, lo, hi, slope, intercept float64) *bivector.Bivector {
	xs := r.MonotoneAbscissas(n, lo, hi)
	x, _ := vector.Wrap(xs)
	y, _ := vector.Wrap(LinearSamples(xs, slope, intercept))
	b, _ := bivector.Wrap(x, y)
	return b
}

// RandomArray returns an array of n elements of the given type, each valid
// element holding a uniform value in [0, 100), with roughly invalidRatio of
// the elements left invalid.
func (r *RNG) RandomArray(typ dtype.Type, n int, invalidRatio float64) (*array.Array, error) {
	a, err := array.New(typ, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if r.Float64() < invalidRatio {
			continue
		}
		v := r.Float64() * 100
		if typ.IsComplex() {
			err = a.SetComplex(i, complex(v, -v))
		} else {
			err = a.SetFloat(i, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}
