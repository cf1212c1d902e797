package handle

import "sync/atomic"

const (
	guardFree      = 0
	guardExclusive = -1
	guardDead      = -2
)

// Guard is a non-blocking single-writer/multiple-reader borrow flag.
// A positive state counts shared borrows.
type Guard struct {
	state atomic.Int32
}

// TryLock takes an exclusive borrow.
func (g *Guard) TryLock() error {
	if g.state.CompareAndSwap(guardFree, guardExclusive) {
		return nil
	}
	return g.conflict()
}

// Unlock releases an exclusive borrow.
func (g *Guard) Unlock() {
	g.state.CompareAndSwap(guardExclusive, guardFree)
}

// TryRLock takes a shared borrow.
func (g *Guard) TryRLock() error {
	for {
		s := g.state.Load()
		if s < 0 {
			return g.conflict()
		}
		if g.state.CompareAndSwap(s, s+1) {
			return nil
		}
	}
}

// RUnlock releases a shared borrow.
func (g *Guard) RUnlock() {
	for {
		s := g.state.Load()
		if s <= 0 {
			return
		}
		if g.state.CompareAndSwap(s, s-1) {
			return
		}
	}
}

// Borrowed reports whether any borrow is outstanding.
func (g *Guard) Borrowed() bool {
	s := g.state.Load()
	return s != guardFree && s != guardDead
}

func (g *Guard) conflict() error {
	if g.state.Load() == guardDead {
		return ErrNotFound
	}
	return ErrBorrowConflict
}

// retire marks the guard dead unless it is borrowed.
func (g *Guard) retire() bool {
	return g.state.CompareAndSwap(guardFree, guardDead)
}

// kill marks the guard dead regardless of outstanding borrows.
func (g *Guard) kill() {
	g.state.Store(guardDead)
}
