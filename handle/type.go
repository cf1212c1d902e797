package handle

// Shared is an object reachable through one or more handles.
type Shared[T any] struct {
	value T
	guard Guard
}

// Ref is an outstanding borrow of a shared object.
type Ref[T any] struct {
	s         *Shared[T]
	exclusive bool
}

// TryBorrow takes an exclusive borrow. It fails with ErrBorrowConflict while
// any other borrow is outstanding.
func (s *Shared[T]) TryBorrow() (Ref[T], error) {
	if err := s.guard.TryLock(); err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{s: s, exclusive: true}, nil
}

// TryBorrowShared takes a shared borrow. It fails with ErrBorrowConflict while
// an exclusive borrow is outstanding.
func (s *Shared[T]) TryBorrowShared() (Ref[T], error) {
	if err := s.guard.TryRLock(); err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{s: s}, nil
}

// Borrowed reports whether any borrow is outstanding.
func (s *Shared[T]) Borrowed() bool {
	return s.guard.Borrowed()
}

// Value returns the borrowed value.
func (r Ref[T]) Value() T {
	return r.s.value
}

// Release ends the borrow. Releasing a zero Ref is a no-op.
func (r Ref[T]) Release() {
	switch {
	case r.s == nil:
	case r.exclusive:
		r.s.guard.Unlock()
	default:
		r.s.guard.RUnlock()
	}
}

// Type is a typed view of a table type whose objects hold a T.
type Type[T any] struct {
	table   *Table
	id      TypeID
	owner   *Identity
	destroy func(T)
}

// NewType registers a new type in table. destroy, if set, runs once when the
// last handle of an object is freed.
func NewType[T any](table *Table, name string, owner *Identity, access Access, destroy func(T)) (*Type[T], error) {
	id, err := table.CreateType(name, owner, access)
	if err != nil {
		return nil, err
	}
	return &Type[T]{table: table, id: id, owner: owner, destroy: destroy}, nil
}

// ID returns the table type id.
func (ty *Type[T]) ID() TypeID {
	return ty.id
}

// Create stores v and returns a handle owned by owner.
func (ty *Type[T]) Create(v T, owner *Identity) (Handle, error) {
	s := &Shared[T]{value: v}

	var destroy func()
	if ty.destroy != nil {
		fn := ty.destroy
		destroy = func() { fn(s.value) }
	}
	return ty.table.create(ty.id, s, &s.guard, owner, destroy)
}

// Read resolves h for ident.
func (ty *Type[T]) Read(h Handle, ident *Identity) (*Shared[T], error) {
	v, err := ty.table.read(h, ty.id, ident)
	if err != nil {
		return nil, err
	}
	return v.(*Shared[T]), nil //nolint:forcetypeassert // the type id pins T
}

// Clone returns a new handle owned by newOwner that shares h's object.
func (ty *Type[T]) Clone(h Handle, ident, newOwner *Identity) (Handle, error) {
	return ty.table.clone(h, ty.id, ident, newOwner)
}

// Free releases h.
func (ty *Type[T]) Free(h Handle, ident *Identity) error {
	return ty.table.free(h, ty.id, ident)
}

// Remove unregisters the type, freeing all of its handles.
func (ty *Type[T]) Remove() (int, error) {
	return ty.table.RemoveType(ty.id, ty.owner)
}

// Faux is a read-only adapter over a type registered by someone else. It
// never creates or frees handles; reads use the adapter's own identity.
type Faux[T any] struct {
	table *Table
	id    TypeID
	ident *Identity
}

// NewFaux returns an adapter for the type id of table, reading as ident.
func NewFaux[T any](table *Table, id TypeID, ident *Identity) *Faux[T] {
	return &Faux[T]{table: table, id: id, ident: ident}
}

// ReadEz resolves h with the adapter's identity. A handle whose object does
// not hold a T fails with ErrTypeMismatch.
func (f *Faux[T]) ReadEz(h Handle) (*Shared[T], error) {
	v, err := f.table.read(h, f.id, f.ident)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Shared[T])
	if !ok {
		return nil, opError("read", h, ErrTypeMismatch)
	}
	return s, nil
}
