package kdtree

import (
	"cmp"
	"errors"
	"iter"
	"math"
)

// MaxPoints is the maximum number of points a single tree can hold.
// Payloads and node positions are 32-bit.
const MaxPoints = math.MaxInt32

// ErrTooManyPoints is returned when a build would exceed MaxPoints.
var ErrTooManyPoints = errors.New("kdtree: too many points")

// Tree is an immutable k-d tree over 3-D points.
//
// A Tree is safe for concurrent queries.
type Tree struct {
	nodes []Point
}

// New builds a tree from points. The tree takes ownership of the slice and
// reorders it.
func New(points []Point) (*Tree, error) {
	if len(points) > MaxPoints {
		return nil, ErrTooManyPoints
	}
	layout(points, 0)
	return &Tree{nodes: points}, nil
}

// Build collects every point yielded by seq, inserting each exactly once, and
// builds a tree from them. sizeHint pre-sizes the node slice; it may be 0.
func Build(seq iter.Seq[Point], sizeHint int) (*Tree, error) {
	if sizeHint < 0 || sizeHint > MaxPoints {
		sizeHint = 0
	}
	points := make([]Point, 0, sizeHint)
	for p := range seq {
		if len(points) == MaxPoints {
			return nil, ErrTooManyPoints
		}
		points = append(points, p)
	}
	return New(points)
}

// Len returns the number of indexed points.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Bytes returns the memory held by the tree's nodes.
func (t *Tree) Bytes() int64 {
	if t == nil {
		return 0
	}
	return int64(cap(t.nodes)) * pointSize
}

// Depth returns the number of levels of the tree.
func (t *Tree) Depth() int {
	depth := 0
	for n := t.Len(); n > 0; n /= 2 {
		depth++
	}
	return depth
}

// Bounds returns the axis-aligned bounding box of all indexed points.
// ok is false for an empty tree.
func (t *Tree) Bounds() (lo, hi [Dims]float32, ok bool) {
	if t.Len() == 0 {
		return lo, hi, false
	}
	lo, hi = t.nodes[0].Coords, t.nodes[0].Coords
	for i := 1; i < len(t.nodes); i++ {
		c := t.nodes[i].Coords
		for d := range Dims {
			lo[d] = min(lo[d], c[d])
			hi[d] = max(hi[d], c[d])
		}
	}
	return lo, hi, true
}

// Points returns an iterator over the indexed points in tree layout order.
func (t *Tree) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if t == nil {
			return
		}
		for _, p := range t.nodes {
			if !yield(p) {
				return
			}
		}
	}
}

// layout arranges pts so that the median along axis sits at len(pts)/2 with
// lower-or-equal keys before it and greater-or-equal keys after it, then
// recurses into both halves on the next axis.
func layout(pts []Point, axis int) {
	for len(pts) > 1 {
		mid := len(pts) / 2
		selectNth(pts, mid, axis)
		axis = nextAxis(axis)
		layout(pts[:mid], axis)
		pts = pts[mid+1:]
	}
}

func nextAxis(axis int) int {
	if axis == Dims-1 {
		return 0
	}
	return axis + 1
}

// selectNth partially sorts pts along axis so that pts[k] holds the element
// that would be there in sorted order. cmp.Compare orders NaN first, which
// keeps the partition total.
func selectNth(pts []Point, k, axis int) {
	lo, hi := 0, len(pts)-1
	for hi > lo {
		if hi-lo < 8 {
			insertionSort(pts[lo:hi+1], axis)
			return
		}
		pivot := medianOfThree(
			pts[lo].Coords[axis],
			pts[lo+(hi-lo)/2].Coords[axis],
			pts[hi].Coords[axis],
		)

		// Three-way partition: [lo,lt) < pivot, [lt,gt] == pivot, (gt,hi] > pivot.
		lt, i, gt := lo, lo, hi
		for i <= gt {
			switch c := cmp.Compare(pts[i].Coords[axis], pivot); {
			case c < 0:
				pts[lt], pts[i] = pts[i], pts[lt]
				lt++
				i++
			case c > 0:
				pts[i], pts[gt] = pts[gt], pts[i]
				gt--
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

func medianOfThree(a, b, c float32) float32 {
	if cmp.Less(b, a) {
		a, b = b, a
	}
	if cmp.Less(c, b) {
		b = c
		if cmp.Less(b, a) {
			b = a
		}
	}
	return b
}

func insertionSort(pts []Point, axis int) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && cmp.Less(pts[j].Coords[axis], pts[j-1].Coords[axis]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}
