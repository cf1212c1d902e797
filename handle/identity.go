package handle

// Identity identifies an actor that owns or accesses handles. Identities form
// a tree: an identity may act on handles owned by itself or by any of its
// descendants.
type Identity struct {
	name   string
	parent *Identity
}

// NewIdentity creates an identity below parent. parent may be nil.
func NewIdentity(name string, parent *Identity) *Identity {
	return &Identity{name: name, parent: parent}
}

// Name returns the identity's name.
func (i *Identity) Name() string {
	if i == nil {
		return "<nil>"
	}
	return i.name
}

// Parent returns the parent identity or nil.
func (i *Identity) Parent() *Identity {
	if i == nil {
		return nil
	}
	return i.parent
}

// Contains reports whether other is i or one of its descendants.
func (i *Identity) Contains(other *Identity) bool {
	if i == nil {
		return false
	}
	for o := other; o != nil; o = o.parent {
		if o == i {
			return true
		}
	}
	return false
}

func (i *Identity) String() string {
	return i.Name()
}
