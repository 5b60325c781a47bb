// Package sigslot provides an in-process signal/slot dispatcher: named
// event channels ("signals") that callable subscribers ("slots") attach
// to, with synchronous, priority-ordered delivery on emission.
//
// It targets hosts ranging from general-purpose services to
// resource-constrained embedded builds, including code that must record
// events from an interrupt context.
//
// # Architecture
//
//	          ┌──────────────────────────────────────────┐
//	          │                   Hub                     │
//	          │  - signal registry                        │
//	          │  - priority-ordered dispatch              │
//	          │  - deferred / batch replay                │
//	          └──────────────────────────────────────────┘
//	                              │
//	      ┌───────────────────────┼───────────────────────┐
//	      ▼                       ▼                       ▼
//	┌───────────────┐    ┌────────────────┐     ┌────────────────┐
//	│    storage    │    │      isr       │     │    payload     │
//	│  fixed arena  │    │ lock-free      │     │ tagged value   │
//	│  or heap list │    │ capture queue  │     │ cell           │
//	└───────────────┘    └────────────────┘     └────────────────┘
//
// # Dispatch semantics
//
// Emission is unconditionally synchronous: every live slot runs to
// completion, in non-increasing priority order, before Emit returns. Ties
// between equal priorities break by connection order.
//
// Slots may mutate the registry mid-emission. A slot that disconnects
// itself, a peer, or the whole signal, or that re-emits the same signal,
// is safe by construction: the walk snapshots each node's successor before
// invoking it, removal during an emission only tombstones the node, and
// tombstones are swept exactly once when the outermost emission completes.
//
// # Concurrency
//
// One registry-wide reentrant lock, toggleable at runtime, serializes all
// mutating and emitting operations. Slots run while the lock is held: a
// slot that blocks waiting on another goroutine's hub call deadlocks.
// Same-goroutine re-entry is always safe. With the lock disabled the
// caller owns single-threaded discipline.
//
// Interrupt-context code never takes the lock and never allocates; it
// records (signal, value) pairs into the isr capture queue, which normal
// context later replays with DrainCaptured.
//
// # Storage
//
// Signal and subscription records come from a storage.Backend chosen at
// construction: the unbounded heap-backed Dynamic (default), or Fixed,
// which preallocates everything up front and never allocates afterward.
//
//	hub := sigslot.NewHub(
//		sigslot.WithBackend(storage.NewFixed(
//			storage.WithSignalCapacity(16),
//			storage.WithSubscriptionCapacity(64),
//		)),
//		sigslot.WithCaptureQueue(16),
//	)
//
// # Usage
//
//	hub := sigslot.NewHub()
//	defer hub.Close()
//
//	_ = hub.Register("sensor.reading", sigslot.WithDescription("ADC sample"))
//
//	handle, _ := hub.Connect("sensor.reading", sigslot.SlotFunc(func(d *payload.Data) {
//		process(d.IntOr(0))
//	}), sigslot.WithPriority(sigslot.PriorityHigh))
//
//	_ = hub.EmitInt("sensor.reading", 42)
//	_ = hub.DisconnectHandle(handle)
package sigslot
