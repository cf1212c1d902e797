// Package pointsource loads point files into record arrays.
//
// Supported inputs:
//   - CSV: one point per row, optionally with a header naming the columns
//   - YAML: a sequence of [x, y, z] triples or {x, y, z} mappings, either at
//     the top level or under a "points" key
//   - SQLite: three numeric columns of a table, in rowid order
//   - Raw binary: native-endian records of 4-byte cells, memory-mapped
//
// CSV, YAML and binary files may be compressed with zstd (.zst) or lz4 (.lz4).
// The payload of each point is its record position, so row k of the input
// becomes record k of the array.
package pointsource
