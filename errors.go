package closestpos

import (
	"errors"
	"fmt"

	"github.com/hupe1980/closestpos/extract"
	"github.com/hupe1980/closestpos/handle"
	"github.com/hupe1980/closestpos/internal/resource"
	"github.com/hupe1980/closestpos/kdtree"
)

var (
	// ErrInvalidArgument is returned for rejected construction ranges.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceExhausted is returned when an index cannot be built or
	// registered within the configured limits.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrAddressTranslation is returned when a caller address cannot be read.
	ErrAddressTranslation = errors.New("address translation failed")

	// ErrBuildInProgress is returned when another build holds the build slot.
	ErrBuildInProgress = errors.New("index build already in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("service closed")
)

// Handle errors, re-exported for errors.Is checks against Service results.
var (
	ErrNotFound       = handle.ErrNotFound
	ErrTypeMismatch   = handle.ErrTypeMismatch
	ErrAccessDenied   = handle.ErrAccessDenied
	ErrBorrowConflict = handle.ErrBorrowConflict
)

// Native names reported by CallError.
const (
	NativeCreate  = "ClosestPos.ClosestPos"
	NativeFind    = "ClosestPos.Find"
	NativeClone   = "CloneHandle"
	NativeRelease = "CloseHandle"
	NativeInfo    = "ClosestPos.Info"
)

// CallError is the error returned by every Service entry point. It names the
// native call so hosts can report it the way they report native errors.
//
// The original underlying error can be accessed via errors.Unwrap.
type CallError struct {
	Native string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Native, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func callError(native string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Native: native, Err: translateError(err)}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, extract.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Resource normalization.
	if errors.Is(err, resource.ErrMemoryLimitExceeded) ||
		errors.Is(err, kdtree.ErrTooManyPoints) ||
		errors.Is(err, handle.ErrLimitReached) {
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}

	return err
}
