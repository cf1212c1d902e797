// Package resource accounts for index memory and build slots.
//
// A Controller holds a memory budget and a fixed number of build slots. Both
// are acquired without blocking: callers get ErrMemoryLimitExceeded or false
// back and decide themselves whether to retry.
//
// # Memory
//
// Memory tracking uses a weighted semaphore for the hard limit and an atomic
// counter for usage. Reserve wraps an acquisition in a Reservation whose
// Release is idempotent, so an index can hand its reservation back from any
// teardown path:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	res, err := rc.Reserve(kdtree.EstimateBytes(n))
//	if err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer res.Release()
//
// # Build Slots
//
//	if !rc.TryAcquireBuild() {
//	    // another build is running
//	}
//	defer rc.ReleaseBuild()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
