// Package handle implements a capability table for shared objects.
//
// A Table hands out opaque 32-bit handles. Every handle is bound to a type and
// to an owner Identity; resolving it requires the expected type and an
// identity allowed by the type's Access rules. Stale handles fail with
// ErrNotFound. The encoding is masked with a per-table random key, so slot
// numbers and serials cannot be read off a handle.
//
// Objects are reference counted: Clone adds a handle to the same object and
// the object's destructor runs when the last handle is freed. Each object is
// guarded by a non-blocking borrow Guard; conflicting borrows fail with
// ErrBorrowConflict instead of waiting.
//
// # Usage
//
//	table := handle.NewTable()
//	core := handle.NewIdentity("core", nil)
//
//	boxes, err := handle.NewType[*Box](table, "Box", core, handle.Access{}, nil)
//	h, err := boxes.Create(&Box{}, plugin)
//
//	shared, err := boxes.Read(h, plugin)
//	ref, err := shared.TryBorrow()
//	if err != nil { ... } // ErrBorrowConflict on reentrant use
//	defer ref.Release()
//	box := ref.Value()
package handle
