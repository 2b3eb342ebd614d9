// Package vector provides a growable float64 vector used throughout the
// library as the sample container for pipeline signals. Unlike array.Array,
// a Vector has no per-element validity: every element always holds a value.
package vector

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hupe1980/arraygo/core"
)

// Direction selects a sort order.
type Direction uint8

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota + 1
	// Descending sorts largest first.
	Descending
)

// Valid reports whether d is a defined direction.
func (d Direction) Valid() bool { return d == Ascending || d == Descending }

// String returns "ascending" or "descending".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("vector.Direction(%d)", uint8(d))
	}
}

// Vector is an ordered sequence of float64 samples.
//
// Vector is not safe for concurrent mutation.
type Vector struct {
	data []float64
}

// New creates a zero-filled vector of n elements. n must be at least 1.
func New(n int) (*Vector, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: vector length %d", core.ErrIllegalInput, n)
	}
	return &Vector{data: make([]float64, n)}, nil
}

// Wrap takes ownership of data without copying. data must be non-empty.
func Wrap(data []float64) (*Vector, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data", core.ErrNullInput)
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty vector", core.ErrIllegalInput)
	}
	return &Vector{data: data}, nil
}

// Duplicate returns a deep copy of in.
func Duplicate(in *Vector) (*Vector, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: vector", core.ErrNullInput)
	}
	return &Vector{data: append([]float64(nil), in.data...)}, nil
}

// Size returns the number of elements.
func (v *Vector) Size() int { return len(v.data) }

// Get returns the element at i.
func (v *Vector) Get(i int) (float64, error) {
	if i < 0 || i >= len(v.data) {
		return 0, &core.IndexError{Index: i, Len: len(v.data)}
	}
	return v.data[i], nil
}

// Set writes value at i.
func (v *Vector) Set(i int, value float64) error {
	if i < 0 || i >= len(v.data) {
		return &core.IndexError{Index: i, Len: len(v.data)}
	}
	v.data[i] = value
	return nil
}

// Data exposes the backing slice. The slice aliases the vector until the
// next Resize.
func (v *Vector) Data() []float64 { return v.data }

// Fill writes value into every element.
func (v *Vector) Fill(value float64) {
	for i := range v.data {
		v.data[i] = value
	}
}

// Copy overwrites v with the contents of src. Sizes must agree.
func (v *Vector) Copy(src *Vector) error {
	if src == nil {
		return fmt.Errorf("%w: source vector", core.ErrNullInput)
	}
	if len(src.data) != len(v.data) {
		return &core.SizeMismatchError{Expected: len(v.data), Actual: len(src.data)}
	}
	copy(v.data, src.data)
	return nil
}

// Resize changes the vector length to n, preserving the common prefix.
// Grown elements are zero. Slices previously obtained from Data no longer
// alias the vector afterwards.
func (v *Vector) Resize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: vector length %d", core.ErrIllegalInput, n)
	}
	if n == len(v.data) {
		return nil
	}
	out := make([]float64, n)
	copy(out, v.data)
	v.data = out
	return nil
}

func (v *Vector) sizeCheck(other *Vector) error {
	if other == nil {
		return fmt.Errorf("%w: vector", core.ErrNullInput)
	}
	if len(other.data) != len(v.data) {
		return &core.SizeMismatchError{Expected: len(v.data), Actual: len(other.data)}
	}
	return nil
}

// Add adds other to v element-wise.
func (v *Vector) Add(other *Vector) error {
	if err := v.sizeCheck(other); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] += other.data[i]
	}
	return nil
}

// Subtract subtracts other from v element-wise.
func (v *Vector) Subtract(other *Vector) error {
	if err := v.sizeCheck(other); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] -= other.data[i]
	}
	return nil
}

// Multiply multiplies v by other element-wise.
func (v *Vector) Multiply(other *Vector) error {
	if err := v.sizeCheck(other); err != nil {
		return err
	}
	for i := range v.data {
		v.data[i] *= other.data[i]
	}
	return nil
}

// Divide divides v by other element-wise. A zero divisor fails the whole
// call before any element is written.
func (v *Vector) Divide(other *Vector) error {
	if err := v.sizeCheck(other); err != nil {
		return err
	}
	for i := range other.data {
		if other.data[i] == 0 {
			return fmt.Errorf("%w: division by zero at index %d", core.ErrIllegalInput, i)
		}
	}
	for i := range v.data {
		v.data[i] /= other.data[i]
	}
	return nil
}

// AddScalar adds value to every element.
func (v *Vector) AddScalar(value float64) {
	for i := range v.data {
		v.data[i] += value
	}
}

// MultiplyScalar multiplies every element by value.
func (v *Vector) MultiplyScalar(value float64) {
	for i := range v.data {
		v.data[i] *= value
	}
}

// Power raises every element to the given exponent.
func (v *Vector) Power(exponent float64) {
	for i := range v.data {
		v.data[i] = math.Pow(v.data[i], exponent)
	}
}

// Sum returns the sum of all elements.
func (v *Vector) Sum() float64 {
	sum := 0.0
	for _, x := range v.data {
		sum += x
	}
	return sum
}

// Mean returns the arithmetic mean.
func (v *Vector) Mean() float64 {
	return v.Sum() / float64(len(v.data))
}

// Min returns the smallest element.
func (v *Vector) Min() float64 {
	m := v.data[0]
	for _, x := range v.data[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest element.
func (v *Vector) Max() float64 {
	m := v.data[0]
	for _, x := range v.data[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Stdev returns the sample standard deviation. A single-element vector has
// a standard deviation of zero.
func (v *Vector) Stdev() float64 {
	if len(v.data) < 2 {
		return 0
	}
	mean := v.Mean()
	sum := 0.0
	for _, x := range v.data {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(v.data)-1))
}

// Median returns the median, averaging the two middle elements for even
// lengths. The vector itself is left untouched.
func (v *Vector) Median() float64 {
	tmp := append([]float64(nil), v.data...)
	sort.Float64s(tmp)
	n := len(tmp)
	if n%2 == 1 {
		return tmp[n/2]
	}
	return (tmp[n/2-1] + tmp[n/2]) / 2
}

// Sort reorders the elements in place.
func (v *Vector) Sort(dir Direction) error {
	switch dir {
	case Ascending:
		sort.Float64s(v.data)
	case Descending:
		sort.Sort(sort.Reverse(sort.Float64Slice(v.data)))
	default:
		return fmt.Errorf("%w: %s", core.ErrIllegalInput, dir)
	}
	return nil
}

// FindClosest returns the index of the element closest to x.
// The vector must be sorted ascending; the result is unspecified otherwise.
func (v *Vector) FindClosest(x float64) int {
	i := sort.SearchFloat64s(v.data, x)
	if i == len(v.data) {
		return len(v.data) - 1
	}
	if i == 0 {
		return 0
	}
	if x-v.data[i-1] <= v.data[i]-x {
		return i - 1
	}
	return i
}

// Dump writes a plain-text rendition, one element per line.
func (v *Vector) Dump(w io.Writer) error {
	for i, x := range v.data {
		if _, err := fmt.Fprintf(w, "%d\t%g\n", i, x); err != nil {
			return err
		}
	}
	return nil
}
