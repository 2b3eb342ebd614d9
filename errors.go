package arraygo

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/manifest"
)

// The container packages report failures through the sentinels in core.
// They are re-exported here so callers can match them without importing
// core directly.
var (
	// ErrNullInput is returned when a required input is nil.
	ErrNullInput = core.ErrNullInput
	// ErrIllegalInput is returned when an input value is out of range or
	// violates an ordering requirement.
	ErrIllegalInput = core.ErrIllegalInput
	// ErrIncompatibleInput is returned when inputs disagree in size or type.
	ErrIncompatibleInput = core.ErrIncompatibleInput
	// ErrUnsupportedMode is returned for an invalid operating mode.
	ErrUnsupportedMode = core.ErrUnsupportedMode
	// ErrDataNotFound is returned when requested data does not exist.
	ErrDataNotFound = core.ErrDataNotFound
	// ErrInvalidType is returned when an operation does not apply to the
	// element type.
	ErrInvalidType = core.ErrInvalidType
	// ErrAccessOutOfRange is returned for out-of-bounds element access.
	ErrAccessOutOfRange = core.ErrAccessOutOfRange
)

// ErrClosed is returned when operating on a closed catalog.
var ErrClosed = errors.New("catalog is closed")

// translateError unifies storage-layer not-found errors with the
// container-level ErrDataNotFound sentinel.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, manifest.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrDataNotFound, err)
	}
	return err
}
