package sigslot

import (
	"time"

	"github.com/dshills/sigslot/payload"
)

// Priority determines slot invocation order within a signal.
// Higher values fire first; ties break by connection order.
type Priority int

const (
	// PriorityLow is for cleanup and logging slots that run last.
	PriorityLow Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 5

	// PriorityHigh is for slots that must observe the payload early.
	PriorityHigh Priority = 10

	// PriorityCritical fires before everything else.
	PriorityCritical Priority = 15
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p >= PriorityCritical:
		return "critical"
	case p >= PriorityHigh:
		return "high"
	case p >= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Slot is the interface for signal subscribers. Notify runs synchronously
// in the emitter's goroutine, while the hub lock is held when thread
// safety is enabled. A slot may call back into the hub (emit, connect,
// disconnect) from the same call chain; calling in from a different
// goroutine during an emission deadlocks.
type Slot interface {
	// Notify processes one emission. The payload is shared across all
	// slots of the emission and must be treated as read-only.
	Notify(d *payload.Data)
}

// SlotFunc is a function adapter for Slot. Closures capture their own
// context; there is no separate user-data parameter.
type SlotFunc func(d *payload.Data)

// Notify implements the Slot interface.
func (f SlotFunc) Notify(d *payload.Data) {
	f(d)
}

// Handle identifies one connection. Handles are assigned from a
// monotonically increasing counter and never reused while the hub is
// live, so a stale handle always reports not-found rather than aliasing a
// newer connection.
type Handle uint64

// InvalidHandle is never assigned to a connection.
const InvalidHandle Handle = 0

// SignalInfo describes one registered signal for introspection.
type SignalInfo struct {
	// Name is the signal's unique name.
	Name string

	// SlotCount is the number of connected slots.
	SlotCount int

	// Description is the optional human-readable description.
	Description string

	// Priority is the signal's default priority.
	Priority Priority
}

// PerfStats holds per-signal emission timings. Counters only advance while
// profiling is enabled.
type PerfStats struct {
	// Emissions is the number of profiled emissions.
	Emissions uint64

	// Total is the cumulative time spent dispatching.
	Total time.Duration

	// Avg is the mean time per emission.
	Avg time.Duration

	// Max is the slowest emission observed.
	Max time.Duration

	// Min is the fastest emission observed. It is zero until the first
	// sample lands.
	Min time.Duration
}

// MemoryStats reports storage backend occupancy. Capacities are zero for
// the unbounded dynamic backend.
type MemoryStats struct {
	SignalsUsed       int
	SignalsCap        int
	SubscriptionsUsed int
	SubscriptionsCap  int
}
