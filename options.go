package closestpos

import (
	"log/slog"

	"github.com/hupe1980/closestpos/extract"
)

// Default type names, as registered by SourceMod-style hosts.
const (
	DefaultTypeName      = "ClosestPos"
	DefaultArrayTypeName = "CellArray"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	memoryLimit      int64
	typeName         string
	arrayTypeName    string
}

// Option configures a Service.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &closestpos.BasicMetricsCollector{}
//	svc, _ := closestpos.New(host, closestpos.WithMetricsCollector(metrics))
//	// ... use svc ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the memory held by all live indexes together.
// Builds that would exceed it fail with ErrResourceExhausted. Zero means
// unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithTypeName sets the name under which the index type is registered.
func WithTypeName(name string) Option {
	return func(o *options) {
		o.typeName = name
	}
}

// WithArrayTypeName sets the name of the host's array type.
func WithArrayTypeName(name string) Option {
	return func(o *options) {
		o.arrayTypeName = name
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		typeName:         DefaultTypeName,
		arrayTypeName:    DefaultArrayTypeName,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

type createOptions struct {
	start int
	count int
}

// CreateOption configures a single Create call.
type CreateOption func(*createOptions)

// WithStart sets the first record position to index. Defaults to 0.
func WithStart(start int) CreateOption {
	return func(o *createOptions) {
		o.start = start
	}
}

// WithCount sets the number of records to index. Defaults to CountAll.
func WithCount(count int) CreateOption {
	return func(o *createOptions) {
		o.count = count
	}
}

// CountAll indexes every record from the start position on.
const CountAll = extract.CountAll
