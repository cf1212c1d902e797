// Package mmap maps record files into memory read-only.
//
// A Mapping exposes the file contents as a byte slice without copying them
// onto the Go heap. Region carves out a sub-range, typically the record area
// behind a file header.
//
//	m, err := mmap.Open("points.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	records, err := m.Region(headerSize, m.Size()-headerSize)
//	_ = records.Advise(mmap.AccessSequential)
//
// Unix systems use mmap(2) and madvise(2); Windows uses MapViewOfFile and
// ignores access hints.
//
// Close is idempotent. Slices returned by Bytes must not be used after Close.
package mmap
