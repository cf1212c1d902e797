package handle

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for invalid, freed or stale handles.
	ErrNotFound = errors.New("handle not found")

	// ErrTypeMismatch is returned when a handle belongs to another type.
	ErrTypeMismatch = errors.New("handle type mismatch")

	// ErrAccessDenied is returned when the requesting identity may not perform
	// the operation.
	ErrAccessDenied = errors.New("handle access denied")

	// ErrBorrowConflict is returned when an object is already borrowed in a
	// conflicting way.
	ErrBorrowConflict = errors.New("handle borrow conflict")

	// ErrLimitReached is returned when the table has no free slot.
	ErrLimitReached = errors.New("handle limit reached")

	// ErrTypeExists is returned when a type name is already registered.
	ErrTypeExists = errors.New("handle type already exists")

	// ErrUnknownType is returned for unregistered or removed types.
	ErrUnknownType = errors.New("unknown handle type")
)

// Error records a failed table operation on a handle.
type Error struct {
	Op     string
	Handle Handle
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("handle: %s %s: %v", e.Op, e.Handle, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func opError(op string, h Handle, err error) error {
	return &Error{Op: op, Handle: h, Err: err}
}
