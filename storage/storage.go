// Package storage provides the allocation backends for signal and
// subscription records.
//
// Two interchangeable implementations sit behind the Backend contract:
//
//   - Fixed: preallocated arrays with occupancy flags and linear-scan
//     lookup. No allocation occurs after construction, which makes it
//     suitable for embedded and interrupt-adjacent deployments.
//   - Dynamic: heap-allocated linked lists, unbounded.
//
// The dispatch engine treats both identically; only the overflow error
// path differs.
package storage

import (
	"errors"

	"github.com/dshills/sigslot/payload"
)

// Sentinel errors for backend allocation.
var (
	// ErrOverflow is returned when a fixed backend has no free record.
	ErrOverflow = errors.New("storage capacity exhausted")

	// ErrNameTooLong is returned when a signal name exceeds the backend's
	// fixed name buffer. Names are rejected, never truncated.
	ErrNameTooLong = errors.New("signal name too long")
)

// Slot is the callable attached to a signal. It mirrors sigslot.Slot so
// this package does not import its consumer.
type Slot interface {
	Notify(d *payload.Data)
}

// Subscription is one slot attachment. Nodes are owned by their signal's
// list; Next links them in non-increasing priority order.
type Subscription struct {
	Callback Slot
	Priority int
	Handle   uint64

	// Removed marks the node for deferred deletion while its signal is
	// mid-emission (a tombstone). Tombstoned nodes are skipped by the
	// dispatch walk and physically released by the sweep.
	Removed bool

	Next *Subscription

	index int // fixed backend record index; -1 for dynamic nodes
}

// PerfStats holds per-signal emission counters. All times are nanoseconds.
type PerfStats struct {
	Emissions uint64
	TotalNs   uint64
	AvgNs     uint64
	MaxNs     uint64
	MinNs     uint64
}

// Signal is one named channel record.
type Signal struct {
	Name        string
	Description string
	Priority    int

	Head      *Subscription
	SlotCount int

	// EmitDepth counts nested emissions in progress. Structural removal
	// is deferred (tombstoned) whenever it is non-zero.
	EmitDepth int

	// Doomed marks a signal unregistered mid-emission. It is invisible to
	// lookups and released when the outermost emission sweeps.
	Doomed bool

	Perf PerfStats

	index int     // fixed backend record index; -1 for dynamic nodes
	next  *Signal // dynamic backend list link
}

// Stats reports backend occupancy. Capacities are zero for unbounded
// backends.
type Stats struct {
	SignalsUsed       int
	SignalsCap        int
	SubscriptionsUsed int
	SubscriptionsCap  int
}

// Backend is the allocation contract shared by the fixed and dynamic
// implementations. Backends are not safe for concurrent use; the hub's
// lock serializes access.
type Backend interface {
	// Find returns the live signal with the given name, or nil.
	// Doomed signals are invisible.
	Find(name string) *Signal

	// AllocateSignal creates a signal record. The caller has already
	// validated the name against MaxNameLength and checked for duplicates.
	AllocateSignal(name, description string, priority int) (*Signal, error)

	// ReleaseSignal returns a signal record to the backend. The caller has
	// already released its subscriptions.
	ReleaseSignal(sig *Signal)

	// AllocateSubscription creates an unlinked subscription record.
	AllocateSubscription() (*Subscription, error)

	// ReleaseSubscription returns a subscription record to the backend.
	ReleaseSubscription(sub *Subscription)

	// ForEach visits every live signal, doomed ones included, until fn
	// returns false.
	ForEach(fn func(sig *Signal) bool)

	// Stats reports current occupancy.
	Stats() Stats

	// MaxNameLength is the longest accepted signal name in bytes.
	// Zero means unbounded.
	MaxNameLength() int
}
