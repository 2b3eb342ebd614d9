// Package array provides a typed, nullable one-dimensional container for
// pipeline data. An Array has a fixed element type chosen at construction;
// elements can individually be flagged invalid, and aggregates skip invalid
// elements.
//
// The storage itself lives in an internal column primitive; Array is the
// stable public surface over it.
package array

import (
	"fmt"
	"io"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/dtype"
	"github.com/hupe1980/arraygo/internal/column"
)

// Array is a typed, nullable sequence of numeric elements.
//
// Array is not safe for concurrent mutation; callers own synchronization.
type Array struct {
	col *column.Column
}

// New creates an array of n elements of the given type. All elements start
// invalid until written.
func New(typ dtype.Type, n int) (*Array, error) {
	col, err := column.New(typ, n)
	if err != nil {
		return nil, err
	}
	return &Array{col: col}, nil
}

// WrapInt32 takes ownership of data without copying. All elements are valid.
func WrapInt32(data []int32) *Array { return &Array{col: column.WrapInt32(data)} }

// WrapInt64 takes ownership of data without copying. All elements are valid.
func WrapInt64(data []int64) *Array { return &Array{col: column.WrapInt64(data)} }

// WrapFloat32 takes ownership of data without copying. All elements are valid.
func WrapFloat32(data []float32) *Array { return &Array{col: column.WrapFloat32(data)} }

// WrapFloat64 takes ownership of data without copying. All elements are valid.
func WrapFloat64(data []float64) *Array { return &Array{col: column.WrapFloat64(data)} }

// WrapComplex64 takes ownership of data without copying. All elements are valid.
func WrapComplex64(data []complex64) *Array { return &Array{col: column.WrapComplex64(data)} }

// WrapComplex128 takes ownership of data without copying. All elements are valid.
func WrapComplex128(data []complex128) *Array { return &Array{col: column.WrapComplex128(data)} }

// Duplicate returns a deep copy of in, validity included.
func Duplicate(in *Array) (*Array, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: array", core.ErrNullInput)
	}
	return &Array{col: in.col.Duplicate()}, nil
}

// fromColumn wraps an existing column. Used by operations returning new arrays.
func fromColumn(col *column.Column) *Array { return &Array{col: col} }

// Size returns the number of elements.
func (a *Array) Size() int { return a.col.Len() }

// Type returns the element type.
func (a *Array) Type() dtype.Type { return a.col.Type() }

// GetFloat returns the element at i as float64 together with its validity.
// Complex arrays are rejected with ErrInvalidType.
func (a *Array) GetFloat(i int) (float64, bool, error) { return a.col.GetFloat(i) }

// GetComplex returns the element at i as complex128 together with its
// validity. Real elements are widened with a zero imaginary part.
func (a *Array) GetComplex(i int) (complex128, bool, error) { return a.col.GetComplex(i) }

// SetFloat writes value at i, converting to the element type (integer types
// truncate), and flags the element valid.
func (a *Array) SetFloat(i int, value float64) error { return a.col.SetFloat(i, value) }

// SetComplex writes value at i and flags the element valid.
// Only defined for complex arrays.
func (a *Array) SetComplex(i int, value complex128) error { return a.col.SetComplex(i, value) }

// SetInvalid flags the element at i as holding no usable value.
func (a *Array) SetInvalid(i int) error { return a.col.SetInvalid(i) }

// IsValid reports whether the element at i holds a usable value.
func (a *Array) IsValid(i int) (bool, error) { return a.col.IsValid(i) }

// CountInvalid returns the number of invalid elements.
func (a *Array) CountInvalid() int { return a.col.CountInvalid() }

// Fill writes value into every element, flagging the whole array valid.
func (a *Array) Fill(value float64) error { return a.col.Fill(0, a.Size(), value) }

// FillWindow writes value into [from, from+count).
func (a *Array) FillWindow(from, count int, value float64) error {
	return a.col.Fill(from, count, value)
}

// FillComplex writes value into every element of a complex array.
func (a *Array) FillComplex(value complex128) error {
	return a.col.FillComplex(0, a.Size(), value)
}

// Resize changes the array length. Truncation drops the tail; growth appends
// invalid elements. Slices previously obtained from data accessors no longer
// alias the array afterwards.
func (a *Array) Resize(n int) error { return a.col.Resize(n) }

// Insert makes room for count invalid elements at pos.
func (a *Array) Insert(pos, count int) error { return a.col.Insert(pos, count) }

// Erase removes the window [pos, pos+count).
func (a *Array) Erase(pos, count int) error { return a.col.Erase(pos, count) }

// Extract returns a new array holding a deep copy of [from, from+count).
func (a *Array) Extract(from, count int) (*Array, error) {
	col, err := a.col.Extract(from, count)
	if err != nil {
		return nil, err
	}
	return fromColumn(col), nil
}

// Cast returns a new array with the elements converted to the given type,
// validity preserved. Complex arrays can only be cast to complex types.
func (a *Array) Cast(to dtype.Type) (*Array, error) {
	col, err := a.col.Cast(to)
	if err != nil {
		return nil, err
	}
	return fromColumn(col), nil
}

// Min returns the smallest valid element of a non-complex array.
func (a *Array) Min() (float64, error) { return a.col.Min() }

// Max returns the largest valid element of a non-complex array.
func (a *Array) Max() (float64, error) { return a.col.Max() }

// Mean returns the arithmetic mean of the valid elements.
func (a *Array) Mean() (float64, error) { return a.col.Mean() }

// Stdev returns the sample standard deviation of the valid elements.
func (a *Array) Stdev() (float64, error) { return a.col.Stdev() }

// DataInt32 exposes the backing slice of an int32 array. The slice aliases
// the array until the next resize, insert, or erase.
func (a *Array) DataInt32() ([]int32, error) { return a.col.DataInt32() }

// DataInt64 exposes the backing slice of an int64 array.
func (a *Array) DataInt64() ([]int64, error) { return a.col.DataInt64() }

// DataFloat32 exposes the backing slice of a float32 array.
func (a *Array) DataFloat32() ([]float32, error) { return a.col.DataFloat32() }

// DataFloat64 exposes the backing slice of a float64 array.
func (a *Array) DataFloat64() ([]float64, error) { return a.col.DataFloat64() }

// DataComplex64 exposes the backing slice of a complex64 array.
func (a *Array) DataComplex64() ([]complex64, error) { return a.col.DataComplex64() }

// DataComplex128 exposes the backing slice of a complex128 array.
func (a *Array) DataComplex128() ([]complex128, error) { return a.col.DataComplex128() }

// Column exposes the internal storage for the persistence layer.
// Application code should not depend on it.
func (a *Array) Column() *column.Column { return a.col }

// FromColumn wraps an existing column as a public array.
// Used by the persistence layer when materializing loaded containers.
func FromColumn(col *column.Column) (*Array, error) {
	if col == nil {
		return nil, fmt.Errorf("%w: column", core.ErrNullInput)
	}
	return fromColumn(col), nil
}

// Dump writes a plain-text rendition of [from, from+count), one element per
// line, invalid elements shown as "-". Intended for debugging.
func (a *Array) Dump(w io.Writer, from, count int) error {
	if from < 0 || count < 0 || from+count > a.Size() {
		return fmt.Errorf("%w: window [%d, %d) of %d elements",
			core.ErrAccessOutOfRange, from, from+count, a.Size())
	}
	for i := from; i < from+count; i++ {
		var err error
		if a.Type().IsComplex() {
			v, ok, _ := a.GetComplex(i)
			if ok {
				_, err = fmt.Fprintf(w, "%d\t%g\n", i, v)
			} else {
				_, err = fmt.Fprintf(w, "%d\t-\n", i)
			}
		} else {
			v, ok, _ := a.GetFloat(i)
			if ok {
				_, err = fmt.Fprintf(w, "%d\t%g\n", i, v)
			} else {
				_, err = fmt.Fprintf(w, "%d\t-\n", i)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String returns a short diagnostic description.
func (a *Array) String() string {
	return fmt.Sprintf("Array(%s, len=%d, invalid=%d)", a.Type(), a.Size(), a.CountInvalid())
}
