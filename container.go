package closestpos

import (
	"github.com/hupe1980/closestpos/internal/resource"
	"github.com/hupe1980/closestpos/kdtree"
)

// Container couples a built tree with the position of its first record.
// It is immutable once registered.
type Container struct {
	tree       *kdtree.Tree
	baseOffset int32
	res        *resource.Reservation
}

func newContainer(tree *kdtree.Tree, baseOffset int32, res *resource.Reservation) *Container {
	return &Container{tree: tree, baseOffset: baseOffset, res: res}
}

// Lookup returns the record position of the point nearest to q. ok is false
// only for an empty index.
func (c *Container) Lookup(q [3]float32) (int32, bool) {
	n, ok := c.tree.Nearest(q)
	if !ok {
		return NotFound, false
	}
	// Payloads are absolute record positions already.
	return n.Payload, true
}

// Len returns the number of indexed points.
func (c *Container) Len() int {
	return c.tree.Len()
}

// BaseOffset returns the first record position that was indexed.
func (c *Container) BaseOffset() int32 {
	return c.baseOffset
}

// Bytes returns the memory reserved for the index.
func (c *Container) Bytes() int64 {
	return c.res.Bytes()
}

// Info describes a container.
type Info struct {
	Points     int
	BaseOffset int32
	Bytes      int64
	Depth      int
	Min, Max   [3]float32
}

func (c *Container) info() Info {
	lo, hi, _ := c.tree.Bounds()
	return Info{
		Points:     c.tree.Len(),
		BaseOffset: c.baseOffset,
		Bytes:      c.res.Bytes(),
		Depth:      c.tree.Depth(),
		Min:        lo,
		Max:        hi,
	}
}

func (c *Container) destroy() {
	c.res.Release()
}
