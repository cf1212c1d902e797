// Package extract reads coordinate triples out of caller-owned record arrays.
//
// An ArrayView is a read-only sequence of fixed-size records. Range selects a
// byte offset inside each record and a window of record positions; NewCursor
// validates the range against the view and returns a single-use Cursor that
// yields one kdtree.Point per record. The payload of each point is its absolute
// record position.
//
//	cur, err := extract.NewCursor(view, extract.Range{Offset: 4, Count: extract.CountAll})
//	if err != nil { ... }
//	tree, err := kdtree.Build(cur.All(), cur.Len())
package extract
