package closestpos

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/closestpos/extract"
	"github.com/hupe1980/closestpos/handle"
)

// ErrInvalidAddress is returned by MemCaller for addresses outside its heap.
var ErrInvalidAddress = errors.New("invalid address")

// Caller is the context a native call runs in.
type Caller interface {
	// Identity returns the identity that owns handles created by the caller.
	Identity() *handle.Identity

	// LoadVec3 reads three floats at a caller address.
	LoadVec3(addr int32) ([3]float32, error)
}

// Host is the embedding application's side of the service: its handle table,
// where the array type is registered, and the core identity owning that type.
type Host struct {
	Table *handle.Table
	Core  *handle.Identity
}

// RegisterArrayType registers the array type under name in host's table.
// Arrays are read by the core identity; handles are freed by their owners.
func RegisterArrayType(host Host, name string) (*handle.Type[extract.ArrayView], error) {
	return handle.NewType[extract.ArrayView](host.Table, name, host.Core, handle.Access{
		Read:  handle.RuleTypeOwner,
		Free:  handle.RuleOwner,
		Clone: handle.RuleOwner,
	}, nil)
}

// NewStandaloneHost creates a host with a fresh table, a core identity and the
// default array type, for programs that do not embed into an existing host.
func NewStandaloneHost(optFns ...func(o *handle.Options)) (Host, *handle.Type[extract.ArrayView], error) {
	host := Host{
		Table: handle.NewTable(optFns...),
		Core:  handle.NewIdentity("core", nil),
	}
	arrays, err := RegisterArrayType(host, DefaultArrayTypeName)
	if err != nil {
		return Host{}, nil, err
	}
	return host, arrays, nil
}

// MemCaller is a Caller whose addresses are byte offsets into a private heap.
type MemCaller struct {
	ident *handle.Identity
	heap  []byte

	// BeforeLoad, if set, runs at the start of every LoadVec3. A non-nil
	// error aborts the load.
	BeforeLoad func(addr int32) error
}

// NewMemCaller returns a caller with a zeroed heap of the given number of
// 4-byte cells.
func NewMemCaller(ident *handle.Identity, cells int) *MemCaller {
	return &MemCaller{ident: ident, heap: make([]byte, max(cells, 0)*4)}
}

// Identity implements Caller.
func (c *MemCaller) Identity() *handle.Identity {
	return c.ident
}

// LoadVec3 implements Caller.
func (c *MemCaller) LoadVec3(addr int32) ([3]float32, error) {
	if c.BeforeLoad != nil {
		if err := c.BeforeLoad(addr); err != nil {
			return [3]float32{}, err
		}
	}
	b, err := c.slice(addr)
	if err != nil {
		return [3]float32{}, err
	}
	return [3]float32{
		math.Float32frombits(binary.NativeEndian.Uint32(b[0:])),
		math.Float32frombits(binary.NativeEndian.Uint32(b[4:])),
		math.Float32frombits(binary.NativeEndian.Uint32(b[8:])),
	}, nil
}

// StoreVec3 writes three floats at addr.
func (c *MemCaller) StoreVec3(addr int32, v [3]float32) error {
	b, err := c.slice(addr)
	if err != nil {
		return err
	}
	for i, f := range v {
		binary.NativeEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return nil
}

func (c *MemCaller) slice(addr int32) ([]byte, error) {
	a := int(addr)
	if a < 0 || a%4 != 0 || a > len(c.heap)-extract.CoordBytes {
		return nil, fmt.Errorf("%w: 0x%x", ErrInvalidAddress, addr)
	}
	return c.heap[a : a+extract.CoordBytes], nil
}
