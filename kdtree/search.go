package kdtree

// best tracks the current nearest candidate during a search.
type best struct {
	idx     int
	dist    float32
	payload int32
}

// offer replaces the candidate when d is strictly closer, or equally close
// with a lower payload. A NaN candidate is replaced by any comparable one;
// among NaN candidates the lowest payload is kept.
func (b *best) offer(idx int, d float32, payload int32) {
	switch {
	case b.idx < 0,
		d < b.dist,
		d == b.dist && payload < b.payload,
		b.dist != b.dist && d == d,
		b.dist != b.dist && d != d && payload < b.payload:
		b.idx, b.dist, b.payload = idx, d, payload
	}
}

// reaches reports whether a splitting plane at signed distance diff may hide
// a point that beats or ties the current candidate.
func (b *best) reaches(diff float32) bool {
	if diff != diff || b.dist != b.dist {
		return true
	}
	return diff*diff <= b.dist
}

// Nearest returns the indexed point closest to q by squared Euclidean
// distance. ok is false only when the tree is empty. It does not allocate.
func (t *Tree) Nearest(q [Dims]float32) (n Neighbor, ok bool) {
	if t.Len() == 0 {
		return Neighbor{}, false
	}
	b := best{idx: -1}
	t.search(&q, 0, len(t.nodes), 0, &b)
	p := &t.nodes[b.idx]
	return Neighbor{Distance: b.dist, Payload: p.Payload, Coords: p.Coords}, true
}

func (t *Tree) search(q *[Dims]float32, lo, hi, axis int, b *best) {
	for lo < hi {
		mid := lo + (hi-lo)/2
		p := &t.nodes[mid]
		b.offer(mid, SquaredDistance(q, &p.Coords), p.Payload)

		diff := q[axis] - p.Coords[axis]
		next := nextAxis(axis)

		nearLo, nearHi, farLo, farHi := mid+1, hi, lo, mid
		if diff < 0 {
			nearLo, nearHi, farLo, farHi = lo, mid, mid+1, hi
		}

		t.search(q, nearLo, nearHi, next, b)
		if !b.reaches(diff) {
			return
		}
		lo, hi, axis = farLo, farHi, next
	}
}

// BruteNearest scans points linearly and applies the same distance and
// tie-break rules as Tree.Nearest. It is the reference implementation used to
// verify tree results.
func BruteNearest(points []Point, q [Dims]float32) (Neighbor, bool) {
	if len(points) == 0 {
		return Neighbor{}, false
	}
	b := best{idx: -1}
	for i := range points {
		b.offer(i, SquaredDistance(&q, &points[i].Coords), points[i].Payload)
	}
	p := &points[b.idx]
	return Neighbor{Distance: b.dist, Payload: p.Payload, Coords: p.Coords}, true
}
