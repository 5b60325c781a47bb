package sigslot

import (
	"go.uber.org/zap"

	"github.com/dshills/sigslot/storage"
)

// DefaultMaxSlotsPerSignal caps connections per signal unless overridden.
const DefaultMaxSlotsPerSignal = 100

// DefaultDeferredCapacity bounds the shared deferred-emission queue.
const DefaultDeferredCapacity = 256

// Option configures a Hub.
type Option func(*hubConfig)

// hubConfig contains construction-time configuration for a hub.
type hubConfig struct {
	// backend is the signal/subscription storage strategy.
	backend storage.Backend

	// maxSlotsPerSignal caps connections per signal.
	maxSlotsPerSignal int

	// maxNameLen overrides the backend's name limit when non-zero.
	maxNameLen int

	// threadSafe enables the registry-wide lock.
	threadSafe bool

	// namespace is the default prefix for namespaced emission.
	namespace string

	// deferredCapacity bounds the deferred-emission queue.
	deferredCapacity int

	// captureCapacity sizes the interrupt capture queue; zero disables it.
	captureCapacity int

	// profiling enables per-signal emission timing from the start.
	profiling bool

	// logger receives trace output.
	logger *zap.Logger

	// observer is notified on every reported error.
	observer ErrorObserver
}

// defaultHubConfig returns the configuration used when no options are
// given: dynamic storage, thread safety on, no capture queue.
func defaultHubConfig() hubConfig {
	return hubConfig{
		maxSlotsPerSignal: DefaultMaxSlotsPerSignal,
		threadSafe:        true,
		deferredCapacity:  DefaultDeferredCapacity,
		logger:            zap.NewNop(),
	}
}

// WithBackend selects the storage strategy. The default is the unbounded
// dynamic backend; pass a storage.Fixed for bounded-memory operation.
func WithBackend(b storage.Backend) Option {
	return func(c *hubConfig) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithMaxSlotsPerSignal caps connections per signal.
func WithMaxSlotsPerSignal(n int) Option {
	return func(c *hubConfig) {
		if n > 0 {
			c.maxSlotsPerSignal = n
		}
	}
}

// WithMaxNameLength overrides the backend's signal name limit.
func WithMaxNameLength(n int) Option {
	return func(c *hubConfig) {
		if n > 0 {
			c.maxNameLen = n
		}
	}
}

// WithThreadSafety enables or disables the registry-wide lock. When
// disabled the caller is responsible for single-threaded use.
func WithThreadSafety(enabled bool) Option {
	return func(c *hubConfig) {
		c.threadSafe = enabled
	}
}

// WithNamespace sets the default namespace prefix for EmitNamespaced.
func WithNamespace(ns string) Option {
	return func(c *hubConfig) {
		c.namespace = ns
	}
}

// WithDeferredCapacity bounds the deferred-emission queue.
func WithDeferredCapacity(n int) Option {
	return func(c *hubConfig) {
		if n > 0 {
			c.deferredCapacity = n
		}
	}
}

// WithCaptureQueue enables the interrupt capture queue with the given
// capacity. Non-positive capacities use isr.DefaultCapacity.
func WithCaptureQueue(capacity int) Option {
	return func(c *hubConfig) {
		c.captureCapacity = capacity
		if c.captureCapacity <= 0 {
			c.captureCapacity = -1 // enabled, default size
		}
	}
}

// WithProfiling enables per-signal emission timing.
func WithProfiling(enabled bool) Option {
	return func(c *hubConfig) {
		c.profiling = enabled
	}
}

// WithLogger sets the trace logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *hubConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorObserver sets the error side channel.
func WithErrorObserver(o ErrorObserver) Option {
	return func(c *hubConfig) {
		c.observer = o
	}
}

// SignalOption configures a signal at registration.
type SignalOption func(*signalConfig)

type signalConfig struct {
	description string
	priority    Priority
}

// WithDescription attaches a human-readable description to the signal.
func WithDescription(desc string) SignalOption {
	return func(c *signalConfig) {
		c.description = desc
	}
}

// WithDefaultPriority sets the signal's default priority.
func WithDefaultPriority(p Priority) SignalOption {
	return func(c *signalConfig) {
		c.priority = p
	}
}

// ConnectOption configures a connection.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	priority Priority
}

// WithPriority sets the connection's priority. Higher priorities are
// invoked first; equal priorities fire in connection order.
func WithPriority(p Priority) ConnectOption {
	return func(c *connectConfig) {
		c.priority = p
	}
}
