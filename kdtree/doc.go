// Package kdtree provides a static, balanced k-d tree over 3-D float32 points
// carrying an int32 payload.
//
// The tree is built once from a bulk sequence of points and is read-only
// afterwards. Nodes are stored in a single slice using an implicit layout: the
// median of every sub-range is its subtree root, so the structure needs no
// child pointers and queries walk it without allocating.
//
// # Usage
//
//	tree, err := kdtree.New([]kdtree.Point{
//	    {Coords: [3]float32{0, 0, 0}, Payload: 0},
//	    {Coords: [3]float32{5, 5, 5}, Payload: 1},
//	})
//	if err != nil { ... }
//
//	if n, ok := tree.Nearest([3]float32{4, 4, 4}); ok {
//	    fmt.Println(n.Payload, n.Distance) // 1 3
//	}
//
// # Distance
//
// Distances are squared Euclidean, summed in float32 in x, y, z order.
// Among equidistant points the one with the lowest payload wins, so results do
// not depend on insertion order. NaN distances never beat comparable ones.
package kdtree
