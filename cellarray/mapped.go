package cellarray

import (
	"fmt"

	"github.com/hupe1980/closestpos/internal/mmap"
)

// MapOptions configures Map.
type MapOptions struct {
	// HeaderBytes is skipped at the start of the file.
	HeaderBytes int
}

// Mapped is a read-only record array backed by a memory-mapped file.
type Mapped struct {
	m         *mmap.Mapping
	records   []byte
	blockSize int
}

// Map opens a file of blockSize-cell records. The record area must be a whole
// number of records.
func Map(path string, blockSize int, optFns ...func(o *MapOptions)) (*Mapped, error) {
	if blockSize < 1 {
		return nil, ErrInvalidBlockSize
	}
	opts := MapOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	region, err := m.Region(opts.HeaderBytes, m.Size()-opts.HeaderBytes)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("cellarray: header of %d bytes: %w", opts.HeaderBytes, err)
	}

	stride := blockSize * CellSize
	if region.Size()%stride != 0 {
		_ = m.Close()
		return nil, fmt.Errorf("cellarray: %s: %d bytes is not a multiple of the %d byte record size", path, region.Size(), stride)
	}
	_ = region.Advise(mmap.AccessSequential)

	return &Mapped{m: m, records: region.Bytes(), blockSize: blockSize}, nil
}

// BlockSize returns the number of cells per record.
func (a *Mapped) BlockSize() int {
	return a.blockSize
}

// Len returns the number of records.
func (a *Mapped) Len() int {
	return len(a.records) / a.Stride()
}

// Stride returns the record size in bytes.
func (a *Mapped) Stride() int {
	return a.blockSize * CellSize
}

// Record returns the bytes of record i. The slice is valid until Close.
func (a *Mapped) Record(i int) []byte {
	s := a.Stride()
	return a.records[i*s : (i+1)*s : (i+1)*s]
}

// Close unmaps the file.
func (a *Mapped) Close() error {
	a.records = nil
	return a.m.Close()
}
