// Package bivector provides a pair of equal-length float64 vectors treated
// as (x, y) coordinate samples, with monotone linear interpolation and
// co-permutation sorting over the pairs.
package bivector

import (
	"fmt"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/internal/sortutil"
	"github.com/hupe1980/arraygo/vector"
)

// SortMode selects which vector of the source supplies the sort keys.
type SortMode uint8

const (
	// SortByX orders the pairs by their x values.
	SortByX SortMode = iota + 1
	// SortByY orders the pairs by their y values.
	SortByY
)

// Valid reports whether m is a defined sort mode.
func (m SortMode) Valid() bool { return m == SortByX || m == SortByY }

// String returns "by-x" or "by-y".
func (m SortMode) String() string {
	switch m {
	case SortByX:
		return "by-x"
	case SortByY:
		return "by-y"
	default:
		return fmt.Sprintf("bivector.SortMode(%d)", uint8(m))
	}
}

// Bivector owns two vectors of equal length exposed as x/y coordinate
// pairs. The paired API keeps the lengths in lockstep; resizing a vector
// obtained from X or Y behind the wrapper's back corrupts the pair and is
// not auto-corrected.
//
// Bivector is not safe for concurrent mutation.
type Bivector struct {
	x, y *vector.Vector
}

// New creates a bivector of n zero-filled pairs. n must be at least 1.
func New(n int) (*Bivector, error) {
	x, err := vector.New(n)
	if err != nil {
		return nil, err
	}
	y, _ := vector.New(n)
	return &Bivector{x: x, y: y}, nil
}

// Wrap takes ownership of two existing vectors without copying.
// Both must be non-nil and of equal length.
func Wrap(x, y *vector.Vector) (*Bivector, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: vector", core.ErrNullInput)
	}
	if x.Size() != y.Size() {
		return nil, &core.SizeMismatchError{Expected: x.Size(), Actual: y.Size()}
	}
	return &Bivector{x: x, y: y}, nil
}

// Duplicate returns a deep copy of in.
func Duplicate(in *Bivector) (*Bivector, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: bivector", core.ErrNullInput)
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	x, err := vector.Duplicate(in.x)
	if err != nil {
		return nil, err
	}
	y, _ := vector.Duplicate(in.y)
	return &Bivector{x: x, y: y}, nil
}

// Unwrap detaches and returns the two vectors. The bivector must not be
// used afterwards.
func (b *Bivector) Unwrap() (x, y *vector.Vector) {
	x, y = b.x, b.y
	b.x, b.y = nil, nil
	return x, y
}

// X returns the abscissa vector. The vector aliases the bivector.
func (b *Bivector) X() *vector.Vector { return b.x }

// Y returns the ordinate vector. The vector aliases the bivector.
func (b *Bivector) Y() *vector.Vector { return b.y }

// Size returns the number of pairs.
func (b *Bivector) Size() int { return b.x.Size() }

// check verifies the equal-length invariant. It fails on a pair corrupted
// by resizing one side through an aliased vector.
func (b *Bivector) check() error {
	if b.x == nil || b.y == nil {
		return fmt.Errorf("%w: unwrapped bivector", core.ErrNullInput)
	}
	if b.x.Size() != b.y.Size() {
		return &core.SizeMismatchError{Expected: b.x.Size(), Actual: b.y.Size()}
	}
	return nil
}

// InterpolateLinear fills target's ordinate from its pre-filled abscissa by
// piecewise-linear interpolation against reference, whose pairs must be
// sorted by strictly increasing x. Target abscissas must be visited in
// non-decreasing order; a single forward cursor is reused across points, so
// the total cost is O(len(target) + len(reference)).
//
// A target abscissa equal to a reference knot returns that knot's exact
// ordinate with no slope computation. There is no extrapolation: a target
// abscissa outside the reference domain fails with ErrDataNotFound before
// any output is written. Reference monotonicity is only verified where a
// new bracketing pair is needed; when that check fails mid-pass with
// ErrIllegalInput, the already-processed prefix of target's ordinate has
// been written and the remainder is untouched.
func InterpolateLinear(target, reference *Bivector) error {
	if target == nil || reference == nil {
		return fmt.Errorf("%w: bivector", core.ErrNullInput)
	}
	if err := target.check(); err != nil {
		return err
	}
	if err := reference.check(); err != nil {
		return err
	}

	tx := target.x.Data()
	ty := target.y.Data()
	rx := reference.x.Data()
	ry := reference.y.Data()
	m := len(rx)

	lo, hi := rx[0], rx[m-1]
	if tx[len(tx)-1] > hi {
		return &core.DomainError{Value: tx[len(tx)-1], Lo: lo, Hi: hi}
	}
	if tx[0] < lo {
		return &core.DomainError{Value: tx[0], Lo: lo, Hi: hi}
	}

	i := 0
	for j, x := range tx {
		if x == rx[i] {
			ty[j] = ry[i]
			continue
		}
		for i+1 < m && x > rx[i+1] {
			i++
			if rx[i] <= rx[i-1] {
				return &core.MonotonicityError{Index: i}
			}
		}
		if i+1 >= m {
			// Only reachable when the target abscissas are not
			// non-decreasing, so a middle point escaped the endpoint
			// domain checks.
			return &core.DomainError{Value: x, Lo: lo, Hi: hi}
		}
		switch {
		case x == rx[i+1]:
			ty[j] = ry[i+1]
		default:
			if rx[i+1] <= rx[i] {
				return &core.MonotonicityError{Index: i + 1}
			}
			slope := (ry[i+1] - ry[i]) / (rx[i+1] - rx[i])
			ty[j] = ry[i] + slope*(x-rx[i])
		}
	}
	return nil
}

// Sort reorders the pairs of src by the values of the vector selected by
// mode, writing the result into dst. dst may be src for an in-place sort.
// The index permutation is built with a stable sort, so equal keys keep
// their original pair order.
func Sort(dst, src *Bivector, dir vector.Direction, mode SortMode) error {
	if dst == nil || src == nil {
		return fmt.Errorf("%w: bivector", core.ErrNullInput)
	}
	if err := dst.check(); err != nil {
		return err
	}
	if err := src.check(); err != nil {
		return err
	}

	dx, dy := dst.x.Data(), dst.y.Data()
	sx, sy := src.x.Data(), src.y.Data()

	if sameBuffer(dx, dy) && sameBuffer(sx, sy) {
		return fmt.Errorf("%w: x and y share a buffer on both operands", core.ErrUnsupportedMode)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", core.ErrUnsupportedMode, mode)
	}
	if dst.Size() != src.Size() {
		return &core.SizeMismatchError{Expected: src.Size(), Actual: dst.Size()}
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: %s", core.ErrIllegalInput, dir)
	}

	keys := sx
	if mode == SortByY {
		keys = sy
	}
	perm := sortutil.StableIndices(keys, dir == vector.Descending)

	aliased := sameBuffer(dx, sx) || sameBuffer(dx, sy) ||
		sameBuffer(dy, sx) || sameBuffer(dy, sy)
	if !aliased {
		sortutil.Gather(dx, sx, perm)
		sortutil.Gather(dy, sy, perm)
		return nil
	}

	sortutil.ApplyInPlace(perm, sx, sy)
	if !sameBuffer(dx, sx) {
		copy(dx, sx)
	}
	if !sameBuffer(dy, sy) {
		copy(dy, sy)
	}
	return nil
}

// sameBuffer reports whether two non-empty slices share their first element.
func sameBuffer(a, b []float64) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
