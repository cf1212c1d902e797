package extract

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the category of every range validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidOffset indicates a byte offset that is negative or leaves no room
// for a coordinate triple inside a record.
type ErrInvalidOffset struct {
	Offset int
	Stride int
}

func (e *ErrInvalidOffset) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("offset must be 0 or greater (given %d)", e.Offset)
	}
	return fmt.Sprintf("offset %d leaves no room for %d coordinate bytes in a %d byte record", e.Offset, CoordBytes, e.Stride)
}

func (e *ErrInvalidOffset) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidStart indicates a start position outside the array.
type ErrInvalidStart struct {
	Start int
	Size  int
}

func (e *ErrInvalidStart) Error() string {
	return fmt.Sprintf("startidx (%d) must be >=0 and less than the array size (%d)", e.Start, e.Size)
}

func (e *ErrInvalidStart) Unwrap() error { return ErrInvalidArgument }

// ErrInvalidCount indicates a count below one.
type ErrInvalidCount struct {
	Count int
}

func (e *ErrInvalidCount) Error() string {
	return fmt.Sprintf("count must be 1 or greater (given %d)", e.Count)
}

func (e *ErrInvalidCount) Unwrap() error { return ErrInvalidArgument }
