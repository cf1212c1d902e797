package cellarray

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// CellSize is the size of one cell in bytes.
const CellSize = 4

var (
	// ErrInvalidBlockSize is returned for block sizes below one cell.
	ErrInvalidBlockSize = errors.New("cellarray: block size must be at least 1")
	// ErrOutOfRange is returned for record or cell positions outside the array.
	ErrOutOfRange = errors.New("cellarray: index out of range")
)

// Array is a growable list of fixed-size records.
//
// An Array is not safe for concurrent mutation.
type Array struct {
	blockSize int
	data      []byte
}

// New returns an empty array whose records hold blockSize cells.
func New(blockSize int) (*Array, error) {
	if blockSize < 1 {
		return nil, ErrInvalidBlockSize
	}
	return &Array{blockSize: blockSize}, nil
}

// BlockSize returns the number of cells per record.
func (a *Array) BlockSize() int {
	return a.blockSize
}

// Len returns the number of records.
func (a *Array) Len() int {
	return len(a.data) / a.Stride()
}

// Stride returns the record size in bytes.
func (a *Array) Stride() int {
	return a.blockSize * CellSize
}

// Record returns the bytes of record i.
func (a *Array) Record(i int) []byte {
	s := a.Stride()
	return a.data[i*s : (i+1)*s : (i+1)*s]
}

// Push appends a zeroed record and returns its position.
func (a *Array) Push() int {
	a.data = append(a.data, make([]byte, a.Stride())...)
	return a.Len() - 1
}

// PushFloats appends a record whose leading cells hold vals.
func (a *Array) PushFloats(vals ...float32) (int, error) {
	if len(vals) > a.blockSize {
		return 0, fmt.Errorf("%w: %d values for block size %d", ErrOutOfRange, len(vals), a.blockSize)
	}
	i := a.Push()
	rec := a.Record(i)
	for c, v := range vals {
		binary.NativeEndian.PutUint32(rec[c*CellSize:], math.Float32bits(v))
	}
	return i, nil
}

// Resize grows or truncates the array to n records. New records are zeroed.
func (a *Array) Resize(n int) {
	if n < 0 {
		n = 0
	}
	size := n * a.Stride()
	if size <= len(a.data) {
		a.data = a.data[:size]
		return
	}
	a.data = append(a.data, make([]byte, size-len(a.data))...)
}

// ReadFrom appends the records read from r until EOF. A trailing partial
// record is an error and is not appended.
func (a *Array) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	rec := make([]byte, a.Stride())
	for {
		k, err := io.ReadFull(r, rec)
		n += int64(k)
		switch {
		case err == nil:
			a.data = append(a.data, rec...)
		case errors.Is(err, io.EOF):
			return n, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return n, fmt.Errorf("cellarray: trailing %d bytes do not fill a %d byte record", k, len(rec))
		default:
			return n, err
		}
	}
}

// Clear removes all records.
func (a *Array) Clear() {
	a.data = a.data[:0]
}

// Cell returns cell block of record i.
func (a *Array) Cell(i, block int) (int32, error) {
	b, err := a.cell(i, block)
	if err != nil {
		return 0, err
	}
	return int32(binary.NativeEndian.Uint32(b)), nil //nolint:gosec // bit reinterpretation
}

// SetCell stores v in cell block of record i.
func (a *Array) SetCell(i, block int, v int32) error {
	b, err := a.cell(i, block)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(b, uint32(v)) //nolint:gosec // bit reinterpretation
	return nil
}

// Float returns cell block of record i as a float32.
func (a *Array) Float(i, block int) (float32, error) {
	b, err := a.cell(i, block)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.NativeEndian.Uint32(b)), nil
}

// SetFloat stores f in cell block of record i.
func (a *Array) SetFloat(i, block int, f float32) error {
	b, err := a.cell(i, block)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(b, math.Float32bits(f))
	return nil
}

// SetVec3 stores a coordinate triple starting at cell block of record i.
func (a *Array) SetVec3(i, block int, v [3]float32) error {
	if block < 0 || block+3 > a.blockSize {
		return fmt.Errorf("%w: cells %d..%d of %d", ErrOutOfRange, block, block+2, a.blockSize)
	}
	for c, f := range v {
		if err := a.SetFloat(i, block+c, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) cell(i, block int) ([]byte, error) {
	if i < 0 || i >= a.Len() || block < 0 || block >= a.blockSize {
		return nil, fmt.Errorf("%w: record %d cell %d", ErrOutOfRange, i, block)
	}
	off := i*a.Stride() + block*CellSize
	return a.data[off : off+CellSize], nil
}
