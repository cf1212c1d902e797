// Package testutil provides testing utilities for closestpos.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for 3-D positions
// with different spatial distributions.
//
// # Random Positions
//
//	rng := testutil.NewRNG(4711)
//	pos := rng.UniformPositions(1000, -100, 100) // uniform cube
//	clustered := rng.ClusteredPositions(1000, 8, 2.5)
//	grid := testutil.GridPositions(4)            // 64 points, many ties
package testutil
