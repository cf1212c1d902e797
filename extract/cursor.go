package extract

import (
	"encoding/binary"
	"iter"
	"math"

	"github.com/hupe1980/closestpos/internal/conv"
	"github.com/hupe1980/closestpos/kdtree"
)

// Cursor walks a validated range once, reading one point per record.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	view   ArrayView
	offset int
	pos    int
	end    int
	cur    kdtree.Point
}

// NewCursor validates r against view and returns a cursor positioned before
// the first record.
func NewCursor(view ArrayView, r Range) (*Cursor, error) {
	r, err := r.Resolve(view)
	if err != nil {
		return nil, err
	}
	// Payloads are int32.
	if _, err := conv.IntToInt32(r.End() - 1); err != nil {
		return nil, &ErrInvalidStart{Start: r.Start, Size: view.Len()}
	}
	return &Cursor{
		view:   view,
		offset: r.Offset,
		pos:    r.Start,
		end:    r.End(),
	}, nil
}

// Len returns the number of records not yet read.
func (c *Cursor) Len() int {
	return c.end - c.pos
}

// Next reads the next record. It returns false once the range is exhausted.
func (c *Cursor) Next() bool {
	if c.pos >= c.end {
		return false
	}
	rec := c.view.Record(c.pos)[c.offset : c.offset+CoordBytes]
	c.cur = kdtree.Point{
		Coords: [kdtree.Dims]float32{
			math.Float32frombits(binary.NativeEndian.Uint32(rec[0:4])),
			math.Float32frombits(binary.NativeEndian.Uint32(rec[4:8])),
			math.Float32frombits(binary.NativeEndian.Uint32(rec[8:12])),
		},
		Payload: int32(c.pos), //nolint:gosec // bounded in NewCursor
	}
	c.pos++
	return true
}

// Point returns the point read by the last successful Next.
func (c *Cursor) Point() kdtree.Point {
	return c.cur
}

// All returns an iterator over the remaining points. It consumes the cursor.
func (c *Cursor) All() iter.Seq[kdtree.Point] {
	return func(yield func(kdtree.Point) bool) {
		for c.Next() {
			if !yield(c.cur) {
				return
			}
		}
	}
}
