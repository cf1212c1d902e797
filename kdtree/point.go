package kdtree

import (
	"fmt"
	"unsafe"
)

// Dims is the dimensionality of every indexed point.
const Dims = 3

// Point is an indexed coordinate triple plus its payload.
type Point struct {
	Coords  [Dims]float32
	Payload int32
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("Point(%g, %g, %g #%d)", p.Coords[0], p.Coords[1], p.Coords[2], p.Payload)
}

// Neighbor is the result of a nearest-neighbor query.
type Neighbor struct {
	// Distance is the squared Euclidean distance to the query.
	Distance float32

	// Payload is the payload of the matched point.
	Payload int32

	// Coords are the coordinates of the matched point.
	Coords [Dims]float32
}

// pointSize is the in-memory footprint of one indexed point.
const pointSize = int64(unsafe.Sizeof(Point{}))

// EstimateBytes returns the memory needed to index n points.
func EstimateBytes(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(n) * pointSize
}

// SquaredDistance calculates the squared Euclidean distance between a and b.
func SquaredDistance(a, b *[Dims]float32) float32 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}
