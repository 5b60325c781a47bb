package sigslot

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/sigslot/payload"
	"github.com/dshills/sigslot/storage"
)

// NamespaceSeparator joins a namespace prefix and a signal name.
const NamespaceSeparator = "::"

// Emit invokes every live slot of a signal synchronously, in priority
// order, with the given payload. A nil payload is delivered as void.
//
// Emitting an unregistered signal returns ErrNotFound; that is a normal
// condition, not a failure, and callers may ignore it.
//
// Slots run while the hub lock is held. A slot may re-enter the hub on the
// same goroutine (including emitting this same signal again, or
// disconnecting itself or a peer) without corrupting the dispatch walk:
// removal mid-emission only tombstones, and the sweep runs once when the
// outermost emission completes.
func (h *Hub) Emit(name string, d *payload.Data) error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "emit: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return h.fail(ErrNotFound, "emit: "+name)
	}
	if d == nil {
		d = payload.Void()
	}

	h.log.Debug("emitting signal",
		zap.String("signal", name),
		zap.Int("slots", sig.SlotCount))

	var start time.Time
	profiled := h.profiling
	if profiled {
		start = time.Now()
	}

	h.dispatch(sig, d)

	// Sample before the doomed release below; the record is dead after.
	if profiled && !sig.Doomed {
		recordEmission(&sig.Perf, time.Since(start))
	}
	if sig.EmitDepth == 0 && sig.Doomed {
		h.releaseSignal(sig)
	}
	return nil
}

// dispatch walks the subscription list once, snapshotting each node's
// successor before invoking it so a slot that detaches itself or its
// neighbor cannot corrupt the walk. Tombstoned nodes are skipped without
// being invoked.
func (h *Hub) dispatch(sig *storage.Signal, d *payload.Data) {
	sig.EmitDepth++

	sub := sig.Head
	for sub != nil {
		next := sub.Next
		if !sub.Removed {
			sub.Callback.Notify(d)
		}
		sub = next
	}

	sig.EmitDepth--
	if sig.EmitDepth == 0 {
		h.sweep(sig)
	}
}

// sweep physically releases every tombstoned subscription and compacts
// the slot count. It runs only when no emission is in progress.
func (h *Hub) sweep(sig *storage.Signal) {
	var prev *storage.Subscription
	sub := sig.Head
	for sub != nil {
		next := sub.Next
		if sub.Removed {
			if prev == nil {
				sig.Head = next
			} else {
				prev.Next = next
			}
			h.store.ReleaseSubscription(sub)
			sig.SlotCount--
		} else {
			prev = sub
		}
		sub = next
	}
}

// recordEmission folds one sample into a signal's perf counters. The min
// comparison is guarded so the initial zero never wins.
func recordEmission(p *storage.PerfStats, elapsed time.Duration) {
	ns := uint64(elapsed.Nanoseconds())
	p.Emissions++
	p.TotalNs += ns
	p.AvgNs = p.TotalNs / p.Emissions
	if ns > p.MaxNs {
		p.MaxNs = ns
	}
	if p.Emissions == 1 || ns < p.MinNs {
		p.MinNs = ns
	}
}

// EmitVoid emits with no payload value.
func (h *Hub) EmitVoid(name string) error {
	return h.Emit(name, payload.Void())
}

// EmitInt emits an integer payload.
func (h *Hub) EmitInt(name string, value int64) error {
	return h.Emit(name, payload.Int(value))
}

// EmitFloat32 emits a float32 payload.
func (h *Hub) EmitFloat32(name string, value float32) error {
	return h.Emit(name, payload.Float32(value))
}

// EmitFloat64 emits a float64 payload.
func (h *Hub) EmitFloat64(name string, value float64) error {
	return h.Emit(name, payload.Float64(value))
}

// EmitString emits a string payload.
func (h *Hub) EmitString(name string, value string) error {
	return h.Emit(name, payload.String(value))
}

// EmitPointer emits a reference payload.
func (h *Hub) EmitPointer(name string, value any) error {
	return h.Emit(name, payload.Pointer(value))
}

// EmitNamespaced emits "ns::name". An empty ns falls back to the hub's
// default namespace; with no default either, the bare name is emitted.
// A composed name that exceeds the configured maximum is rejected with
// ErrNameTooLong.
func (h *Hub) EmitNamespaced(ns, name string, d *payload.Data) error {
	locked := h.lock()
	defer h.unlock(locked)

	if ns == "" {
		ns = h.namespace
	}
	composed := name
	if ns != "" {
		composed = ns + NamespaceSeparator + name
	}
	if err := h.validateName(composed); err != nil {
		return h.fail(err, "emit namespaced: "+composed)
	}
	return h.Emit(composed, d)
}
