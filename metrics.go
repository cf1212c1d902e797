package closestpos

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCreate is called after each construction. points is the number of
	// indexed points, zero on failure.
	RecordCreate(points int, duration time.Duration, err error)

	// RecordFind is called after each query. found is false when the index
	// was empty or the call failed.
	RecordFind(found bool, duration time.Duration, err error)

	// RecordRelease is called after each handle release.
	RecordRelease(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFind(bool, time.Duration, error)  {}
func (NoopMetricsCollector) RecordRelease(error)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount      atomic.Int64
	CreateErrors     atomic.Int64
	CreatePoints     atomic.Int64
	CreateTotalNanos atomic.Int64
	FindCount        atomic.Int64
	FindErrors       atomic.Int64
	FindMisses       atomic.Int64
	FindTotalNanos   atomic.Int64
	ReleaseCount     atomic.Int64
	ReleaseErrors    atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(points int, duration time.Duration, err error) {
	b.CreateCount.Add(1)
	b.CreateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CreateErrors.Add(1)
		return
	}
	b.CreatePoints.Add(int64(points))
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(found bool, duration time.Duration, err error) {
	b.FindCount.Add(1)
	b.FindTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.FindErrors.Add(1)
	case !found:
		b.FindMisses.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(err error) {
	b.ReleaseCount.Add(1)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:    b.CreateCount.Load(),
		CreateErrors:   b.CreateErrors.Load(),
		CreatePoints:   b.CreatePoints.Load(),
		CreateAvgNanos: avg(b.CreateTotalNanos.Load(), b.CreateCount.Load()),
		FindCount:      b.FindCount.Load(),
		FindErrors:     b.FindErrors.Load(),
		FindMisses:     b.FindMisses.Load(),
		FindAvgNanos:   avg(b.FindTotalNanos.Load(), b.FindCount.Load()),
		ReleaseCount:   b.ReleaseCount.Load(),
		ReleaseErrors:  b.ReleaseErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount    int64
	CreateErrors   int64
	CreatePoints   int64
	CreateAvgNanos int64
	FindCount      int64
	FindErrors     int64
	FindMisses     int64
	FindAvgNanos   int64
	ReleaseCount   int64
	ReleaseErrors  int64
}
