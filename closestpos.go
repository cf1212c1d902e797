package closestpos

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/closestpos/extract"
	"github.com/hupe1980/closestpos/handle"
	"github.com/hupe1980/closestpos/internal/conv"
	"github.com/hupe1980/closestpos/internal/resource"
	"github.com/hupe1980/closestpos/kdtree"
)

// NotFound is returned by Find when the index holds no points.
const NotFound int32 = -1

// Service builds and queries nearest-point indexes on behalf of a host.
//
// Service is safe for concurrent use. Only one build runs at a time; a second
// concurrent Create fails with ErrBuildInProgress.
type Service struct {
	host       Host
	ident      *handle.Identity
	containers *handle.Type[*Container]
	arrays     *handle.Faux[extract.ArrayView]
	rc         *resource.Controller

	logger  *Logger
	metrics MetricsCollector

	live   atomic.Int64
	points atomic.Int64
	closed atomic.Bool
}

// Stats is a snapshot of service state.
type Stats struct {
	// Containers is the number of live indexes.
	Containers int64
	// Points is the number of points across live indexes.
	Points int64
	// MemoryUsage is the memory reserved by live indexes.
	MemoryUsage int64
	// MemoryLimit is the configured limit, 0 if unlimited.
	MemoryLimit int64
	// ActiveBuilds is 1 while a build is running.
	ActiveBuilds int64
}

// New registers the index type in the host's table and returns a service.
// The host's array type must already be registered.
func New(host Host, optFns ...Option) (*Service, error) {
	if host.Table == nil || host.Core == nil {
		return nil, fmt.Errorf("%w: host needs a table and a core identity", ErrInvalidArgument)
	}
	opts := applyOptions(optFns)

	arrayType, err := host.Table.FindType(opts.arrayTypeName)
	if err != nil {
		return nil, err
	}

	s := &Service{
		host:    host,
		ident:   handle.NewIdentity(opts.typeName, host.Core),
		arrays:  handle.NewFaux[extract.ArrayView](host.Table, arrayType, host.Core),
		rc:      resource.NewController(resource.Config{MemoryLimitBytes: opts.memoryLimit, MaxConcurrentBuilds: 1}),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}

	s.containers, err = handle.NewType(host.Table, opts.typeName, s.ident, handle.Access{
		Read:  handle.RuleOwner,
		Free:  handle.RuleOwner,
		Clone: handle.RuleOwner,
	}, s.destroy)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Create indexes the coordinate triple at byte offset in each record of the
// array behind array, over the range selected by opts, and returns a handle
// owned by the caller's identity.
//
// The offset is checked before the array handle is resolved. The range is then
// validated against the array: start must lie inside it and count must be at
// least one; count is clamped to the end of the array.
func (s *Service) Create(caller Caller, array handle.Handle, offset int, opts ...CreateOption) (handle.Handle, error) {
	start := time.Now()

	h, points, err := s.create(caller, array, offset, opts)
	err = callError(NativeCreate, err)

	s.metrics.RecordCreate(points, time.Since(start), err)
	s.logger.LogCreate(h, points, kdtree.EstimateBytes(points), err)
	return h, err
}

func (s *Service) create(caller Caller, array handle.Handle, offset int, opts []CreateOption) (handle.Handle, int, error) {
	if s.closed.Load() {
		return handle.Invalid, 0, ErrClosed
	}

	co := createOptions{count: CountAll}
	for _, fn := range opts {
		fn(&co)
	}
	r := extract.Range{Offset: offset, Start: co.start, Count: co.count}

	if err := r.CheckOffset(); err != nil {
		return handle.Invalid, 0, err
	}
	if caller == nil || caller.Identity() == nil {
		return handle.Invalid, 0, fmt.Errorf("%w: caller has no identity", ErrInvalidArgument)
	}

	if !s.rc.TryAcquireBuild() {
		return handle.Invalid, 0, ErrBuildInProgress
	}
	defer s.rc.ReleaseBuild()

	shared, err := s.arrays.ReadEz(array)
	if err != nil {
		return handle.Invalid, 0, err
	}
	ref, err := shared.TryBorrowShared()
	if err != nil {
		return handle.Invalid, 0, err
	}
	defer ref.Release()

	cur, err := extract.NewCursor(ref.Value(), r)
	if err != nil {
		return handle.Invalid, 0, err
	}
	n := cur.Len()
	base, err := conv.IntToInt32(r.Start)
	if err != nil {
		return handle.Invalid, 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	res, err := s.rc.Reserve(kdtree.EstimateBytes(n))
	if err != nil {
		return handle.Invalid, 0, err
	}

	tree, err := kdtree.Build(cur.All(), n)
	if err != nil {
		res.Release()
		return handle.Invalid, 0, err
	}

	c := newContainer(tree, base, res)
	h, err := s.containers.Create(c, caller.Identity())
	if err != nil {
		c.destroy()
		return handle.Invalid, 0, err
	}

	s.live.Add(1)
	s.points.Add(int64(tree.Len()))
	return h, tree.Len(), nil
}

// Find returns the record position nearest to the three floats at the caller
// address addr, or NotFound for an empty index.
//
// The index is borrowed exclusively for the whole call, including address
// translation; a reentrant Find on the same index fails with
// ErrBorrowConflict.
func (s *Service) Find(caller Caller, h handle.Handle, addr int32) (int32, error) {
	return s.find(caller, h, query{addr: addr})
}

// FindPoint is Find for a query point already in Go memory.
func (s *Service) FindPoint(caller Caller, h handle.Handle, pos [3]float32) (int32, error) {
	return s.find(caller, h, query{pos: pos, direct: true})
}

type query struct {
	addr   int32
	pos    [3]float32
	direct bool
}

func (s *Service) find(caller Caller, h handle.Handle, q query) (int32, error) {
	start := time.Now()

	idx, err := s.lookup(caller, h, q)
	if err != nil {
		err = callError(NativeFind, err)
		s.logger.LogFindError(h, err)
	}

	s.metrics.RecordFind(idx != NotFound, time.Since(start), err)
	return idx, err
}

func (s *Service) lookup(caller Caller, h handle.Handle, q query) (int32, error) {
	shared, err := s.containers.Read(h, caller.Identity())
	if err != nil {
		return NotFound, err
	}
	ref, err := shared.TryBorrow()
	if err != nil {
		return NotFound, err
	}
	defer ref.Release()

	pos := q.pos
	if !q.direct {
		if pos, err = caller.LoadVec3(q.addr); err != nil {
			return NotFound, fmt.Errorf("%w: %w", ErrAddressTranslation, err)
		}
	}

	idx, _ := ref.Value().Lookup(pos)
	return idx, nil
}

// Info describes the index behind h. It takes a shared borrow, so it works
// while other shared readers are active but not during a Find.
func (s *Service) Info(caller Caller, h handle.Handle) (Info, error) {
	shared, err := s.containers.Read(h, caller.Identity())
	if err != nil {
		return Info{}, callError(NativeInfo, err)
	}
	ref, err := shared.TryBorrowShared()
	if err != nil {
		return Info{}, callError(NativeInfo, err)
	}
	defer ref.Release()

	return ref.Value().info(), nil
}

// Clone returns another handle to the index behind h, owned by newOwner.
// The index lives until every handle to it is released.
func (s *Service) Clone(caller Caller, h handle.Handle, newOwner *handle.Identity) (handle.Handle, error) {
	nh, err := s.containers.Clone(h, caller.Identity(), newOwner)
	return nh, callError(NativeClone, err)
}

// Release frees h. The index is destroyed with its last handle.
func (s *Service) Release(caller Caller, h handle.Handle) error {
	err := callError(NativeRelease, s.containers.Free(h, caller.Identity()))
	s.metrics.RecordRelease(err)
	s.logger.LogRelease(h, err)
	return err
}

// Teardown frees every handle owned by ident or its descendants. Hosts call it
// when a plugin unloads. It returns the number of freed handles.
func (s *Service) Teardown(ident *handle.Identity) int {
	freed := s.host.Table.FreeOwnedBy(ident)
	s.logger.LogTeardown(ident, freed)
	return freed
}

// Stats returns a snapshot of service state.
func (s *Service) Stats() Stats {
	return Stats{
		Containers:   s.live.Load(),
		Points:       s.points.Load(),
		MemoryUsage:  s.rc.MemoryUsage(),
		MemoryLimit:  s.rc.MemoryLimit(),
		ActiveBuilds: s.rc.ActiveBuilds(),
	}
}

// Close removes the index type from the host's table, destroying every index.
// It is idempotent.
func (s *Service) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	freed, err := s.containers.Remove()
	if errors.Is(err, handle.ErrUnknownType) {
		err = nil
	}
	s.logger.LogClose(freed, err)
	return err
}

func (s *Service) destroy(c *Container) {
	s.live.Add(-1)
	s.points.Add(-int64(c.Len()))
	s.logger.LogDestroy(c.Len(), c.Bytes())
	c.destroy()
}
