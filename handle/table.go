package handle

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Handle is an opaque capability for one reference to a table object.
type Handle uint32

// Invalid is never a live handle.
const Invalid Handle = 0

func (h Handle) String() string {
	return fmt.Sprintf("0x%08x", uint32(h))
}

// TypeID identifies a registered type within a table.
type TypeID uint32

// Rule decides which identities may perform an operation on a handle.
type Rule uint8

const (
	// RuleOwner allows the handle owner and its ancestors.
	RuleOwner Rule = iota
	// RuleTypeOwner allows the type owner and its ancestors.
	RuleTypeOwner
	// RuleAny allows every identity.
	RuleAny
	// RuleDeny allows nobody.
	RuleDeny
)

// Access holds the per-operation rules of a type.
type Access struct {
	Read  Rule
	Free  Rule
	Clone Rule
}

type typeInfo struct {
	name   string
	owner  *Identity
	access Access
}

// object is the shared referent of one or more handles.
type object struct {
	value   any
	guard   *Guard
	refs    int
	destroy func()
}

type slot struct {
	serial uint16
	typ    TypeID
	owner  *Identity
	obj    *object
}

// Table maps handles to objects. It is safe for concurrent use.
type Table struct {
	mu       sync.Mutex
	opts     Options
	slots    []slot
	freeList []uint32
	live     int

	types  []*typeInfo
	byName map[string]TypeID

	// owned holds the slot indices of every owner's live handles.
	owned map[*Identity]*roaring.Bitmap
}

// NewTable creates an empty table.
func NewTable(optFns ...func(o *Options)) *Table {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxHandles <= 0 || opts.MaxHandles > MaxSlots {
		opts.MaxHandles = MaxSlots
	}
	for opts.Mask == 0 {
		opts.Mask = rand.Uint32()
	}

	return &Table{
		opts:   opts,
		byName: make(map[string]TypeID),
		owned:  make(map[*Identity]*roaring.Bitmap),
	}
}

// CreateType registers a type named name owned by owner.
func (t *Table) CreateType(name string, owner *Identity, access Access) (TypeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byName[name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrTypeExists, name)
	}

	t.types = append(t.types, &typeInfo{name: name, owner: owner, access: access})
	id := TypeID(len(t.types)) //nolint:gosec // bounded by registrations
	t.byName[name] = id
	return id, nil
}

// FindType looks up a type by name.
func (t *Table) FindType(name string) (TypeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return id, nil
}

// TypeName returns the name of a registered type.
func (t *Table) TypeName(id TypeID) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ti, err := t.typeLocked(id)
	if err != nil {
		return "", err
	}
	return ti.name, nil
}

// RemoveType unregisters a type and frees every handle of it, borrowed or
// not. Only the type owner may remove a type. It returns the number of freed
// handles.
func (t *Table) RemoveType(id TypeID, owner *Identity) (int, error) {
	t.mu.Lock()
	ti, err := t.typeLocked(id)
	if err != nil {
		t.mu.Unlock()
		return 0, err
	}
	if !owner.Contains(ti.owner) {
		t.mu.Unlock()
		return 0, fmt.Errorf("remove type %s: %w", ti.name, ErrAccessDenied)
	}

	var (
		dead  []*object
		freed int
	)
	for idx := range t.slots {
		if s := &t.slots[idx]; s.obj != nil && s.typ == id {
			dead = t.releaseLocked(uint32(idx), dead, true) //nolint:gosec // idx < MaxSlots
			freed++
		}
	}
	t.types[id-1] = nil
	delete(t.byName, ti.name)
	t.mu.Unlock()

	destroyAll(dead)
	return freed, nil
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// OwnedBy returns the number of live handles owned by ident itself.
func (t *Table) OwnedBy(ident *Identity) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bm, ok := t.owned[ident]; ok {
		return int(bm.GetCardinality()) //nolint:gosec // at most MaxSlots
	}
	return 0
}

// FreeOwnedBy frees every handle owned by ident or its descendants, borrowed
// or not. Hosts call it when an identity goes away. It returns the number of
// freed handles.
func (t *Table) FreeOwnedBy(ident *Identity) int {
	t.mu.Lock()

	var (
		dead  []*object
		freed int
	)
	for owner, bm := range t.owned {
		if !ident.Contains(owner) {
			continue
		}
		for _, idx := range bm.ToArray() {
			dead = t.releaseLocked(idx, dead, true)
			freed++
		}
	}
	t.mu.Unlock()

	destroyAll(dead)
	return freed
}

// create stores a new object and returns its first handle.
func (t *Table) create(id TypeID, value any, guard *Guard, owner *Identity, destroy func()) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.typeLocked(id); err != nil {
		return Invalid, opError("create", Invalid, err)
	}
	if owner == nil {
		return Invalid, opError("create", Invalid, ErrAccessDenied)
	}

	obj := &object{value: value, guard: guard, destroy: destroy}
	h, err := t.allocLocked(id, owner, obj)
	if err != nil {
		return Invalid, opError("create", Invalid, err)
	}
	return h, nil
}

// read resolves h for ident and returns the shared value.
func (t *Table) read(h Handle, id TypeID, ident *Identity) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ti, err := t.resolveLocked(h, id)
	if err != nil {
		return nil, opError("read", h, err)
	}
	if !allowed(ti.access.Read, ti, s, ident) {
		return nil, opError("read", h, ErrAccessDenied)
	}
	return s.obj.value, nil
}

// clone adds a handle owned by newOwner to the object behind h.
func (t *Table) clone(h Handle, id TypeID, ident, newOwner *Identity) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ti, err := t.resolveLocked(h, id)
	if err != nil {
		return Invalid, opError("clone", h, err)
	}
	if !allowed(ti.access.Clone, ti, s, ident) {
		return Invalid, opError("clone", h, ErrAccessDenied)
	}

	obj := s.obj
	nh, err := t.allocLocked(id, newOwner, obj)
	if err != nil {
		return Invalid, opError("clone", h, err)
	}
	obj.refs++
	return nh, nil
}

// free releases h. Releasing the last reference of a borrowed object fails
// with ErrBorrowConflict and changes nothing.
func (t *Table) free(h Handle, id TypeID, ident *Identity) error {
	t.mu.Lock()

	s, ti, err := t.resolveLocked(h, id)
	if err != nil {
		t.mu.Unlock()
		return opError("free", h, err)
	}
	if !allowed(ti.access.Free, ti, s, ident) {
		t.mu.Unlock()
		return opError("free", h, ErrAccessDenied)
	}
	if s.obj.refs == 1 && !s.obj.guard.retire() {
		t.mu.Unlock()
		return opError("free", h, ErrBorrowConflict)
	}

	idx, _ := t.decode(h)
	dead := t.releaseLocked(idx, nil, false)
	t.mu.Unlock()

	destroyAll(dead)
	return nil
}

func allowed(rule Rule, ti *typeInfo, s *slot, ident *Identity) bool {
	switch rule {
	case RuleOwner:
		return ident.Contains(s.owner)
	case RuleTypeOwner:
		return ident.Contains(ti.owner)
	case RuleAny:
		return true
	default:
		return false
	}
}

func (t *Table) typeLocked(id TypeID) (*typeInfo, error) {
	if id == 0 || int(id) > len(t.types) || t.types[id-1] == nil {
		return nil, ErrUnknownType
	}
	return t.types[id-1], nil
}

func (t *Table) encode(idx uint32, serial uint16) Handle {
	return Handle((uint32(serial)<<16 | idx) ^ t.opts.Mask)
}

func (t *Table) decode(h Handle) (idx uint32, serial uint16) {
	raw := uint32(h) ^ t.opts.Mask
	return raw & 0xffff, uint16(raw >> 16) //nolint:gosec // upper half
}

func (t *Table) resolveLocked(h Handle, id TypeID) (*slot, *typeInfo, error) {
	if h == Invalid {
		return nil, nil, ErrNotFound
	}
	idx, serial := t.decode(h)
	if int(idx) >= len(t.slots) {
		return nil, nil, ErrNotFound
	}
	s := &t.slots[idx]
	if s.obj == nil || s.serial != serial {
		return nil, nil, ErrNotFound
	}
	if s.typ != id {
		return nil, nil, ErrTypeMismatch
	}
	ti, err := t.typeLocked(id)
	if err != nil {
		return nil, nil, err
	}
	return s, ti, nil
}

func (t *Table) allocLocked(id TypeID, owner *Identity, obj *object) (Handle, error) {
	var idx uint32
	switch {
	case len(t.freeList) > 0:
		idx = t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
	case len(t.slots) < t.opts.MaxHandles:
		idx = uint32(len(t.slots)) //nolint:gosec // < MaxSlots
		t.slots = append(t.slots, slot{})
	default:
		return Invalid, ErrLimitReached
	}

	s := &t.slots[idx]
	s.serial, _ = t.nextSerial(idx, s.serial)
	s.typ, s.owner, s.obj = id, owner, obj
	if obj.refs == 0 {
		obj.refs = 1
	}

	bm, ok := t.owned[owner]
	if !ok {
		bm = roaring.New()
		t.owned[owner] = bm
	}
	bm.Add(idx)

	t.live++
	return t.encode(idx, s.serial), nil
}

// nextSerial advances a slot's serial, skipping values that would encode to
// Invalid. It reports false once the serial space of the slot is used up.
func (t *Table) nextSerial(idx uint32, serial uint16) (uint16, bool) {
	for serial < math.MaxUint16 {
		serial++
		if t.encode(idx, serial) != Invalid {
			return serial, true
		}
	}
	return 0, false
}

// releaseLocked empties slot idx and drops one reference of its object.
// Objects whose last reference goes away are appended to dead. With force set
// the guard is killed even while borrowed.
func (t *Table) releaseLocked(idx uint32, dead []*object, force bool) []*object {
	s := &t.slots[idx]
	obj := s.obj

	if bm, ok := t.owned[s.owner]; ok {
		bm.Remove(idx)
		if bm.IsEmpty() {
			delete(t.owned, s.owner)
		}
	}

	s.typ, s.owner, s.obj = 0, nil, nil
	// A slot whose serial would wrap is retired so old handles stay dead.
	// Retired slots keep counting against MaxHandles.
	if _, ok := t.nextSerial(idx, s.serial); ok {
		t.freeList = append(t.freeList, idx)
	}
	t.live--

	obj.refs--
	if obj.refs == 0 {
		if force {
			obj.guard.kill()
		}
		dead = append(dead, obj)
	}
	return dead
}

func destroyAll(dead []*object) {
	for _, obj := range dead {
		if obj.destroy != nil {
			obj.destroy()
		}
	}
}
