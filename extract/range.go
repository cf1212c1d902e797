package extract

// CountAll requests every record from Start to the end of the array.
const CountAll = 2147483646

// CoordBytes is the size of one coordinate triple inside a record.
const CoordBytes = 12

// ArrayView is a read-only store of fixed-size records.
type ArrayView interface {
	// Len returns the number of records.
	Len() int
	// Stride returns the size of one record in bytes.
	Stride() int
	// Record returns the bytes of record i. The slice must stay valid until
	// extraction finishes and must not be modified.
	Record(i int) []byte
}

// Range selects the records and the coordinate location to extract.
type Range struct {
	// Offset is the byte offset of the coordinate triple inside each record.
	Offset int
	// Start is the first record position.
	Start int
	// Count is the number of records; it is clamped to the end of the array.
	Count int
}

// All returns a range over every record with the triple at offset.
func All(offset int) Range {
	return Range{Offset: offset, Count: CountAll}
}

// CheckOffset rejects a negative offset. It needs no array, so callers can run
// it before resolving the array the range applies to.
func (r Range) CheckOffset() error {
	if r.Offset < 0 {
		return &ErrInvalidOffset{Offset: r.Offset}
	}
	return nil
}

// Resolve validates r against view and returns the range with Count clamped
// to the records that exist.
func (r Range) Resolve(view ArrayView) (Range, error) {
	if err := r.CheckOffset(); err != nil {
		return Range{}, err
	}

	if stride := view.Stride(); r.Offset > stride-CoordBytes {
		return Range{}, &ErrInvalidOffset{Offset: r.Offset, Stride: stride}
	}

	size := view.Len()
	if r.Start < 0 || r.Start > size-1 {
		return Range{}, &ErrInvalidStart{Start: r.Start, Size: size}
	}

	if r.Count < 1 {
		return Range{}, &ErrInvalidCount{Count: r.Count}
	}

	r.Count = min(r.Count, size-r.Start)
	return r, nil
}

// End returns the position one past the last record of r.
func (r Range) End() int {
	return r.Start + r.Count
}
