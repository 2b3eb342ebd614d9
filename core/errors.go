// Package core defines the error taxonomy shared by all arraygo container
// packages.
//
// Every failure mode in the library unwraps to exactly one of the sentinel
// errors below, so callers can classify failures with errors.Is without
// depending on message text. Typed errors add context (sizes, types, the
// offending value) and can be extracted with errors.As.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNullInput is returned when a required argument is nil.
	ErrNullInput = errors.New("null input")

	// ErrIllegalInput is returned when a numeric argument violates a
	// precondition: a non-positive size, an unknown direction or mode, or a
	// monotonicity violation detected while an algorithm runs.
	ErrIllegalInput = errors.New("illegal input")

	// ErrIncompatibleInput is returned when two arguments that must agree in
	// size or type do not.
	ErrIncompatibleInput = errors.New("incompatible input")

	// ErrUnsupportedMode is returned when a requested mode or aliasing
	// combination is not implemented.
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrDataNotFound is returned when a lookup falls outside the domain
	// covered by the data, e.g. an interpolation point beyond the reference
	// range or an aggregate over a container with no valid element.
	ErrDataNotFound = errors.New("data not found")

	// ErrInvalidType is returned when an element type is unknown or an
	// operation is not defined for it.
	ErrInvalidType = errors.New("invalid type")

	// ErrAccessOutOfRange is returned when an element index or window falls
	// outside the container.
	ErrAccessOutOfRange = errors.New("access out of range")
)

// SizeMismatchError reports two container sizes that must agree but do not.
//
// It unwraps to ErrIncompatibleInput.
type SizeMismatchError struct {
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *SizeMismatchError) Unwrap() error { return ErrIncompatibleInput }

// TypeMismatchError reports an element-type disagreement between an operation
// and its operand.
//
// It unwraps to ErrIncompatibleInput.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return ErrIncompatibleInput }

// DomainError reports an abscissa outside the interval covered by a
// reference data set.
//
// It unwraps to ErrDataNotFound.
type DomainError struct {
	Value  float64
	Lo, Hi float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("value %g outside data domain [%g, %g]", e.Value, e.Lo, e.Hi)
}

func (e *DomainError) Unwrap() error { return ErrDataNotFound }

// MonotonicityError reports a reference abscissa found non-increasing at the
// point an algorithm needed it to advance.
//
// It unwraps to ErrIllegalInput.
type MonotonicityError struct {
	Index int
}

func (e *MonotonicityError) Error() string {
	return fmt.Sprintf("abscissa not increasing at index %d", e.Index)
}

func (e *MonotonicityError) Unwrap() error { return ErrIllegalInput }

// IndexError reports an element index outside a container of a given length.
//
// It unwraps to ErrAccessOutOfRange.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrAccessOutOfRange }
