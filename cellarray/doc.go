// Package cellarray provides record arrays in the host's cell layout.
//
// An Array is a growable list of records, each BlockSize cells of 4 bytes.
// Cells hold int32 or float32 values in native byte order, so a coordinate
// triple occupies three consecutive cells. Array and Mapped both satisfy
// extract.ArrayView.
package cellarray
