// Package closestpos answers "which indexed point is closest to this position"
// for embedding hosts.
//
// A host owns arrays of fixed-size records and a handle table. Create builds a
// static k-d tree over a coordinate triple inside each record of such an array
// and returns a handle to it; Find resolves that handle and returns the record
// position of the nearest point, or NotFound.
//
// # Quick Start
//
//	host, arrays, _ := closestpos.NewStandaloneHost()
//	svc, _ := closestpos.New(host)
//	defer svc.Close()
//
//	plugin := handle.NewIdentity("plugin", host.Core)
//	list, _ := cellarray.New(4)
//	list.PushFloats(0, 0, 0)
//	list.PushFloats(5, 5, 5)
//	ah, _ := arrays.Create(list, plugin)
//
//	caller := closestpos.NewMemCaller(plugin, 64)
//	h, _ := svc.Create(caller, ah, 0)
//	idx, _ := svc.FindPoint(caller, h, [3]float32{4, 4, 4}) // 1
//
// # Ranges
//
// Create indexes records [start, start+count). Count defaults to CountAll and
// is clamped to the end of the array, so callers can index "to the end"
// without knowing the size. An offset below zero, a start outside the array
// (which includes every start on an empty array) and a count below one are
// rejected with ErrInvalidArgument before anything is built.
//
// # Borrowing
//
// Every index is guarded. Find holds an exclusive borrow while it runs, so a
// reentrant Find on the same index, for example one issued from inside the
// caller's address translation, fails with ErrBorrowConflict instead of
// observing a half-finished call. Releasing the last handle of a borrowed
// index fails the same way.
//
// # Errors
//
// All entry points return *CallError, naming the native that failed. The
// wrapped error matches both its category (ErrInvalidArgument,
// ErrResourceExhausted, ErrNotFound, ...) and the underlying cause via
// errors.Is.
package closestpos
