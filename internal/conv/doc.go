// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// narrowing Go's platform-dependent int to the fixed-width types used by
// native call arguments (int32 cells) and handle slots (uint32).
//
// Use cases:
//   - Validating sizes reported by caller-owned arrays and mapped files
//   - Converting record positions to int32 payloads
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices bounded by an already validated count), use direct type casts.
package conv
