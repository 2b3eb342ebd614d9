// Package column implements the typed storage primitive beneath the public
// array container. A column owns one native slice matching its element type
// plus a validity mask; every operation dispatches on the type tag.
package column

import (
	"fmt"
	"math"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/dtype"
	"github.com/hupe1980/arraygo/internal/validity"
)

// Column is a fixed-type, nullable sequence of numeric elements.
// Exactly one of the data slices is non-nil, selected by typ.
//
// Column is not safe for concurrent mutation.
type Column struct {
	typ  dtype.Type
	i32  []int32
	i64  []int64
	f32  []float32
	f64  []float64
	c64  []complex64
	c128 []complex128
	mask *validity.Mask
}

// New creates a column of n elements of the given type. All elements start
// invalid until written.
func New(typ dtype.Type, n int) (*Column, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidType, typ)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", core.ErrIllegalInput, n)
	}

	c := &Column{typ: typ, mask: validity.NewInvalid(n)}
	switch typ {
	case dtype.Int32:
		c.i32 = make([]int32, n)
	case dtype.Int64:
		c.i64 = make([]int64, n)
	case dtype.Float32:
		c.f32 = make([]float32, n)
	case dtype.Float64:
		c.f64 = make([]float64, n)
	case dtype.Complex64:
		c.c64 = make([]complex64, n)
	case dtype.Complex128:
		c.c128 = make([]complex128, n)
	}
	return c, nil
}

// WrapInt32 takes ownership of data without copying. All elements are valid.
func WrapInt32(data []int32) *Column {
	return &Column{typ: dtype.Int32, i32: data, mask: validity.New(len(data))}
}

// WrapInt64 takes ownership of data without copying. All elements are valid.
func WrapInt64(data []int64) *Column {
	return &Column{typ: dtype.Int64, i64: data, mask: validity.New(len(data))}
}

// WrapFloat32 takes ownership of data without copying. All elements are valid.
func WrapFloat32(data []float32) *Column {
	return &Column{typ: dtype.Float32, f32: data, mask: validity.New(len(data))}
}

// WrapFloat64 takes ownership of data without copying. All elements are valid.
func WrapFloat64(data []float64) *Column {
	return &Column{typ: dtype.Float64, f64: data, mask: validity.New(len(data))}
}

// WrapComplex64 takes ownership of data without copying. All elements are valid.
func WrapComplex64(data []complex64) *Column {
	return &Column{typ: dtype.Complex64, c64: data, mask: validity.New(len(data))}
}

// WrapComplex128 takes ownership of data without copying. All elements are valid.
func WrapComplex128(data []complex128) *Column {
	return &Column{typ: dtype.Complex128, c128: data, mask: validity.New(len(data))}
}

// Type returns the element type.
func (c *Column) Type() dtype.Type { return c.typ }

// Len returns the number of elements.
func (c *Column) Len() int { return c.mask.Len() }

// Mask exposes the validity mask. Persistence serializes it alongside the
// data; other callers should treat it as read-only.
func (c *Column) Mask() *validity.Mask { return c.mask }

// Duplicate returns a deep copy of the column.
func (c *Column) Duplicate() *Column {
	out := &Column{typ: c.typ, mask: c.mask.Clone()}
	switch c.typ {
	case dtype.Int32:
		out.i32 = append([]int32(nil), c.i32...)
	case dtype.Int64:
		out.i64 = append([]int64(nil), c.i64...)
	case dtype.Float32:
		out.f32 = append([]float32(nil), c.f32...)
	case dtype.Float64:
		out.f64 = append([]float64(nil), c.f64...)
	case dtype.Complex64:
		out.c64 = append([]complex64(nil), c.c64...)
	case dtype.Complex128:
		out.c128 = append([]complex128(nil), c.c128...)
	}
	return out
}

func (c *Column) checkIndex(i int) error {
	if i < 0 || i >= c.Len() {
		return &core.IndexError{Index: i, Len: c.Len()}
	}
	return nil
}

func (c *Column) checkWindow(from, count int) error {
	if from < 0 || count < 0 || from+count > c.Len() {
		return fmt.Errorf("%w: window [%d, %d) of %d elements",
			core.ErrAccessOutOfRange, from, from+count, c.Len())
	}
	return nil
}

// floatAt returns the element as float64, ignoring validity.
// Only defined for non-complex types.
func (c *Column) floatAt(i int) float64 {
	switch c.typ {
	case dtype.Int32:
		return float64(c.i32[i])
	case dtype.Int64:
		return float64(c.i64[i])
	case dtype.Float32:
		return float64(c.f32[i])
	default:
		return c.f64[i]
	}
}

// complexAt returns the element as complex128, ignoring validity.
func (c *Column) complexAt(i int) complex128 {
	switch c.typ {
	case dtype.Complex64:
		return complex128(c.c64[i])
	case dtype.Complex128:
		return c.c128[i]
	default:
		return complex(c.floatAt(i), 0)
	}
}

// GetFloat returns the element at i as float64 together with its validity.
// Complex columns are rejected with ErrInvalidType.
func (c *Column) GetFloat(i int) (float64, bool, error) {
	if err := c.checkIndex(i); err != nil {
		return 0, false, err
	}
	if c.typ.IsComplex() {
		return 0, false, fmt.Errorf("%w: %s column has no scalar value", core.ErrInvalidType, c.typ)
	}
	return c.floatAt(i), c.mask.IsValid(i), nil
}

// GetComplex returns the element at i as complex128 together with its
// validity. Non-complex elements are widened with a zero imaginary part.
func (c *Column) GetComplex(i int) (complex128, bool, error) {
	if err := c.checkIndex(i); err != nil {
		return 0, false, err
	}
	return c.complexAt(i), c.mask.IsValid(i), nil
}

// SetFloat writes value at i, converting to the column type, and flags the
// element valid. Conversion to integer types truncates. Complex columns are
// rejected with ErrInvalidType.
func (c *Column) SetFloat(i int, value float64) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	switch c.typ {
	case dtype.Int32:
		c.i32[i] = int32(value)
	case dtype.Int64:
		c.i64[i] = int64(value)
	case dtype.Float32:
		c.f32[i] = float32(value)
	case dtype.Float64:
		c.f64[i] = value
	default:
		return fmt.Errorf("%w: cannot set scalar on %s column", core.ErrInvalidType, c.typ)
	}
	c.mask.MarkValid(i)
	return nil
}

// SetComplex writes value at i and flags the element valid.
// Only defined for complex columns.
func (c *Column) SetComplex(i int, value complex128) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	switch c.typ {
	case dtype.Complex64:
		c.c64[i] = complex64(value)
	case dtype.Complex128:
		c.c128[i] = value
	default:
		return fmt.Errorf("%w: cannot set complex on %s column", core.ErrInvalidType, c.typ)
	}
	c.mask.MarkValid(i)
	return nil
}

// SetInvalid flags the element at i as holding no usable value.
// The stored element is left untouched.
func (c *Column) SetInvalid(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.mask.MarkInvalid(i)
	return nil
}

// IsValid reports whether the element at i holds a usable value.
func (c *Column) IsValid(i int) (bool, error) {
	if err := c.checkIndex(i); err != nil {
		return false, err
	}
	return c.mask.IsValid(i), nil
}

// CountInvalid returns the number of invalid elements.
func (c *Column) CountInvalid() int { return c.mask.CountInvalid() }

// Fill writes value into the window [from, from+count), flagging it valid.
// Complex columns are rejected with ErrInvalidType.
func (c *Column) Fill(from, count int, value float64) error {
	if err := c.checkWindow(from, count); err != nil {
		return err
	}
	if c.typ.IsComplex() {
		return fmt.Errorf("%w: cannot fill %s column with scalar", core.ErrInvalidType, c.typ)
	}
	for i := from; i < from+count; i++ {
		switch c.typ {
		case dtype.Int32:
			c.i32[i] = int32(value)
		case dtype.Int64:
			c.i64[i] = int64(value)
		case dtype.Float32:
			c.f32[i] = float32(value)
		case dtype.Float64:
			c.f64[i] = value
		}
	}
	c.mask.MarkRangeValid(from, from+count)
	return nil
}

// FillComplex writes value into the window [from, from+count), flagging it
// valid. Only defined for complex columns.
func (c *Column) FillComplex(from, count int, value complex128) error {
	if err := c.checkWindow(from, count); err != nil {
		return err
	}
	switch c.typ {
	case dtype.Complex64:
		for i := from; i < from+count; i++ {
			c.c64[i] = complex64(value)
		}
	case dtype.Complex128:
		for i := from; i < from+count; i++ {
			c.c128[i] = value
		}
	default:
		return fmt.Errorf("%w: cannot fill %s column with complex", core.ErrInvalidType, c.typ)
	}
	c.mask.MarkRangeValid(from, from+count)
	return nil
}

// Resize changes the column length to n. Truncation drops the tail; growth
// appends elements flagged invalid until written.
//
// Any slice previously obtained from a data accessor no longer aliases the
// column after a resize.
func (c *Column) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", core.ErrIllegalInput, n)
	}
	switch c.typ {
	case dtype.Int32:
		c.i32 = resized(c.i32, n)
	case dtype.Int64:
		c.i64 = resized(c.i64, n)
	case dtype.Float32:
		c.f32 = resized(c.f32, n)
	case dtype.Float64:
		c.f64 = resized(c.f64, n)
	case dtype.Complex64:
		c.c64 = resized(c.c64, n)
	case dtype.Complex128:
		c.c128 = resized(c.c128, n)
	}
	c.mask.Resize(n)
	return nil
}

// Insert makes room for count elements at pos, shifting the tail upward.
// The inserted elements are flagged invalid until written.
func (c *Column) Insert(pos, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: negative count %d", core.ErrIllegalInput, count)
	}
	if pos < 0 || pos > c.Len() {
		return &core.IndexError{Index: pos, Len: c.Len() + 1}
	}
	if count == 0 {
		return nil
	}
	switch c.typ {
	case dtype.Int32:
		c.i32 = inserted(c.i32, pos, count)
	case dtype.Int64:
		c.i64 = inserted(c.i64, pos, count)
	case dtype.Float32:
		c.f32 = inserted(c.f32, pos, count)
	case dtype.Float64:
		c.f64 = inserted(c.f64, pos, count)
	case dtype.Complex64:
		c.c64 = inserted(c.c64, pos, count)
	case dtype.Complex128:
		c.c128 = inserted(c.c128, pos, count)
	}
	c.mask.Insert(pos, count)
	return nil
}

// Erase removes the window [pos, pos+count), shifting the tail downward.
func (c *Column) Erase(pos, count int) error {
	if err := c.checkWindow(pos, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	switch c.typ {
	case dtype.Int32:
		c.i32 = erased(c.i32, pos, count)
	case dtype.Int64:
		c.i64 = erased(c.i64, pos, count)
	case dtype.Float32:
		c.f32 = erased(c.f32, pos, count)
	case dtype.Float64:
		c.f64 = erased(c.f64, pos, count)
	case dtype.Complex64:
		c.c64 = erased(c.c64, pos, count)
	case dtype.Complex128:
		c.c128 = erased(c.c128, pos, count)
	}
	c.mask.Erase(pos, count)
	return nil
}

// Extract returns a new column holding a deep copy of the window
// [from, from+count), validity included.
func (c *Column) Extract(from, count int) (*Column, error) {
	if err := c.checkWindow(from, count); err != nil {
		return nil, err
	}
	out := &Column{typ: c.typ, mask: c.mask.Slice(from, count)}
	switch c.typ {
	case dtype.Int32:
		out.i32 = append([]int32(nil), c.i32[from:from+count]...)
	case dtype.Int64:
		out.i64 = append([]int64(nil), c.i64[from:from+count]...)
	case dtype.Float32:
		out.f32 = append([]float32(nil), c.f32[from:from+count]...)
	case dtype.Float64:
		out.f64 = append([]float64(nil), c.f64[from:from+count]...)
	case dtype.Complex64:
		out.c64 = append([]complex64(nil), c.c64[from:from+count]...)
	case dtype.Complex128:
		out.c128 = append([]complex128(nil), c.c128[from:from+count]...)
	}
	return out, nil
}

// Cast returns a new column with the elements converted to the given type,
// validity preserved. Complex columns can only be cast to complex types;
// non-complex columns can be cast to any type.
func (c *Column) Cast(to dtype.Type) (*Column, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidType, to)
	}
	if c.typ.IsComplex() && !to.IsComplex() {
		return nil, fmt.Errorf("%w: cannot cast %s to %s", core.ErrInvalidType, c.typ, to)
	}

	out, err := New(to, c.Len())
	if err != nil {
		return nil, err
	}
	out.mask = c.mask.Clone()

	for i := 0; i < c.Len(); i++ {
		if to.IsComplex() {
			v := c.complexAt(i)
			if to == dtype.Complex64 {
				out.c64[i] = complex64(v)
			} else {
				out.c128[i] = v
			}
			continue
		}
		v := c.floatAt(i)
		switch to {
		case dtype.Int32:
			out.i32[i] = int32(v)
		case dtype.Int64:
			out.i64[i] = int64(v)
		case dtype.Float32:
			out.f32[i] = float32(v)
		case dtype.Float64:
			out.f64[i] = v
		}
	}
	return out, nil
}

// aggregate runs fn over every valid element of a non-complex column and
// returns the number of valid elements seen.
func (c *Column) aggregate(fn func(v float64)) (int, error) {
	if c.typ.IsComplex() {
		return 0, fmt.Errorf("%w: no scalar aggregate on %s column", core.ErrInvalidType, c.typ)
	}
	n := 0
	for i := 0; i < c.Len(); i++ {
		if !c.mask.IsValid(i) {
			continue
		}
		fn(c.floatAt(i))
		n++
	}
	return n, nil
}

// Min returns the smallest valid element. It fails with ErrDataNotFound when
// the column holds no valid element.
func (c *Column) Min() (float64, error) {
	m := math.Inf(1)
	n, err := c.aggregate(func(v float64) {
		if v < m {
			m = v
		}
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no valid element", core.ErrDataNotFound)
	}
	return m, nil
}

// Max returns the largest valid element. It fails with ErrDataNotFound when
// the column holds no valid element.
func (c *Column) Max() (float64, error) {
	m := math.Inf(-1)
	n, err := c.aggregate(func(v float64) {
		if v > m {
			m = v
		}
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no valid element", core.ErrDataNotFound)
	}
	return m, nil
}

// Mean returns the arithmetic mean of the valid elements.
func (c *Column) Mean() (float64, error) {
	sum := 0.0
	n, err := c.aggregate(func(v float64) { sum += v })
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no valid element", core.ErrDataNotFound)
	}
	return sum / float64(n), nil
}

// Stdev returns the sample standard deviation of the valid elements.
// A column with a single valid element has a standard deviation of zero.
func (c *Column) Stdev() (float64, error) {
	mean, err := c.Mean()
	if err != nil {
		return 0, err
	}
	sum := 0.0
	n, _ := c.aggregate(func(v float64) {
		d := v - mean
		sum += d * d
	})
	if n < 2 {
		return 0, nil
	}
	return math.Sqrt(sum / float64(n-1)), nil
}

func (c *Column) typeError(want dtype.Type) error {
	return &core.TypeMismatchError{Expected: want.String(), Actual: c.typ.String()}
}

// DataInt32 exposes the backing slice of an int32 column.
// The slice aliases the column until the next resize, insert, or erase.
func (c *Column) DataInt32() ([]int32, error) {
	if c.typ != dtype.Int32 {
		return nil, c.typeError(dtype.Int32)
	}
	return c.i32, nil
}

// DataInt64 exposes the backing slice of an int64 column.
func (c *Column) DataInt64() ([]int64, error) {
	if c.typ != dtype.Int64 {
		return nil, c.typeError(dtype.Int64)
	}
	return c.i64, nil
}

// DataFloat32 exposes the backing slice of a float32 column.
func (c *Column) DataFloat32() ([]float32, error) {
	if c.typ != dtype.Float32 {
		return nil, c.typeError(dtype.Float32)
	}
	return c.f32, nil
}

// DataFloat64 exposes the backing slice of a float64 column.
func (c *Column) DataFloat64() ([]float64, error) {
	if c.typ != dtype.Float64 {
		return nil, c.typeError(dtype.Float64)
	}
	return c.f64, nil
}

// DataComplex64 exposes the backing slice of a complex64 column.
func (c *Column) DataComplex64() ([]complex64, error) {
	if c.typ != dtype.Complex64 {
		return nil, c.typeError(dtype.Complex64)
	}
	return c.c64, nil
}

// DataComplex128 exposes the backing slice of a complex128 column.
func (c *Column) DataComplex128() ([]complex128, error) {
	if c.typ != dtype.Complex128 {
		return nil, c.typeError(dtype.Complex128)
	}
	return c.c128, nil
}

func resized[T any](s []T, n int) []T {
	if n == len(s) {
		return s
	}
	out := make([]T, n)
	copy(out, s)
	return out
}

func inserted[T any](s []T, pos, count int) []T {
	out := make([]T, len(s)+count)
	copy(out, s[:pos])
	copy(out[pos+count:], s[pos:])
	return out
}

func erased[T any](s []T, pos, count int) []T {
	return append(s[:pos:pos], s[pos+count:]...)
}
