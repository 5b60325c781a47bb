package sigslot

import (
	"sync/atomic"

	"github.com/gammazero/deque"
	"go.uber.org/zap"

	"github.com/dshills/sigslot/internal/relock"
	"github.com/dshills/sigslot/isr"
	"github.com/dshills/sigslot/payload"
	"github.com/dshills/sigslot/storage"
)

// Hub is a signal/slot registry and dispatch engine. Each hub is an
// independent universe of signals; create as many as needed and pass them
// explicitly (there is no process-wide instance).
//
// All registry operations and emissions serialize on one reentrant lock
// when thread safety is enabled. Slots run while that lock is held:
// re-entrant calls from a slot on the same goroutine are safe, but a slot
// that blocks on another goroutine's hub call deadlocks.
type Hub struct {
	store storage.Backend
	mu    relock.Mutex

	threadSafe atomic.Bool

	maxSlotsPerSignal int
	maxNameLen        int
	namespace         string
	profiling         bool
	closed            bool

	nextHandle uint64

	deferred    deque.Deque[queuedEmission]
	deferredCap int

	capture *isr.Queue

	log      *zap.Logger
	observer ErrorObserver
}

// queuedEmission is one (signal, payload) pair awaiting replay. The
// payload is cloned on enqueue so the queue never aliases caller-owned
// storage.
type queuedEmission struct {
	name string
	data payload.Data
}

// NewHub creates a hub. The defaults are the unbounded dynamic backend,
// thread safety enabled, a 100-slot per-signal cap, and no capture queue.
func NewHub(opts ...Option) *Hub {
	cfg := defaultHubConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.backend == nil {
		cfg.backend = storage.NewDynamic()
	}

	h := &Hub{
		store:             cfg.backend,
		maxSlotsPerSignal: cfg.maxSlotsPerSignal,
		maxNameLen:        cfg.maxNameLen,
		namespace:         cfg.namespace,
		profiling:         cfg.profiling,
		deferredCap:       cfg.deferredCapacity,
		log:               cfg.logger,
		observer:          cfg.observer,
	}
	h.threadSafe.Store(cfg.threadSafe)

	if cfg.captureCapacity != 0 {
		capacity := cfg.captureCapacity
		if capacity < 0 {
			capacity = isr.DefaultCapacity
		}
		h.capture = isr.New(capacity)
	}

	h.log.Debug("hub initialized",
		zap.Bool("thread_safe", cfg.threadSafe),
		zap.Int("max_slots_per_signal", cfg.maxSlotsPerSignal))
	return h
}

// Close releases every signal, its subscriptions, and all queued deferred
// entries. Operations on a closed hub return ErrClosed. A signal that is
// mid-emission when Close runs (a slot closing its own hub) is doomed
// rather than freed, and released when the emission unwinds.
func (h *Hub) Close() {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return
	}

	h.store.ForEach(func(sig *storage.Signal) bool {
		if sig.EmitDepth > 0 {
			for sub := sig.Head; sub != nil; sub = sub.Next {
				sub.Removed = true
			}
			sig.Doomed = true
			return true
		}
		h.releaseSignal(sig)
		return true
	})
	h.deferred.Clear()
	h.closed = true
	h.log.Debug("hub closed")
}

// SetMaxSlotsPerSignal changes the per-signal connection cap. Signals
// already above the new cap keep their slots; further connects fail.
func (h *Hub) SetMaxSlotsPerSignal(n int) {
	if n <= 0 {
		return
	}
	locked := h.lock()
	defer h.unlock(locked)
	h.maxSlotsPerSignal = n
}

// MaxSlotsPerSignal returns the per-signal connection cap.
func (h *Hub) MaxSlotsPerSignal() int {
	locked := h.lock()
	defer h.unlock(locked)
	return h.maxSlotsPerSignal
}

// SetThreadSafe toggles the registry-wide lock at runtime. Toggling while
// operations are in flight on other goroutines is the caller's
// responsibility; the intended use is a single configuration point before
// concurrent traffic starts.
func (h *Hub) SetThreadSafe(enabled bool) {
	h.threadSafe.Store(enabled)
}

// ThreadSafe reports whether the registry-wide lock is enabled.
func (h *Hub) ThreadSafe() bool {
	return h.threadSafe.Load()
}

// SetNamespace sets the default prefix used by EmitNamespaced. An empty
// string clears it.
func (h *Hub) SetNamespace(ns string) {
	locked := h.lock()
	defer h.unlock(locked)
	h.namespace = ns
}

// Namespace returns the default namespace prefix.
func (h *Hub) Namespace() string {
	locked := h.lock()
	defer h.unlock(locked)
	return h.namespace
}

// EnableProfiling toggles per-signal emission timing.
func (h *Hub) EnableProfiling(enabled bool) {
	locked := h.lock()
	defer h.unlock(locked)
	h.profiling = enabled
}

// ProfilingEnabled reports whether emission timing is being collected.
func (h *Hub) ProfilingEnabled() bool {
	locked := h.lock()
	defer h.unlock(locked)
	return h.profiling
}

// MemoryStats reports storage occupancy.
func (h *Hub) MemoryStats() MemoryStats {
	locked := h.lock()
	defer h.unlock(locked)

	s := h.store.Stats()
	return MemoryStats{
		SignalsUsed:       s.SignalsUsed,
		SignalsCap:        s.SignalsCap,
		SubscriptionsUsed: s.SubscriptionsUsed,
		SubscriptionsCap:  s.SubscriptionsCap,
	}
}

// lock acquires the hub lock when thread safety is enabled. It reports
// whether the lock was taken so the paired unlock stays balanced even if
// the toggle flips mid-operation.
func (h *Hub) lock() bool {
	if !h.threadSafe.Load() {
		return false
	}
	h.mu.Lock()
	return true
}

func (h *Hub) unlock(locked bool) {
	if locked {
		h.mu.Unlock()
	}
}

// validateName rejects empty and over-length names before storage is
// touched. The limit comes from WithMaxNameLength, falling back to the
// backend's own limit.
func (h *Hub) validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	limit := h.maxNameLen
	if limit == 0 {
		limit = h.store.MaxNameLength()
	}
	if limit > 0 && len(name) > limit {
		return ErrNameTooLong
	}
	return nil
}

// releaseSignal frees a signal and every subscription it owns. The caller
// holds the hub lock and has ensured the signal is not mid-emission.
func (h *Hub) releaseSignal(sig *storage.Signal) {
	sub := sig.Head
	for sub != nil {
		next := sub.Next
		h.store.ReleaseSubscription(sub)
		sub = next
	}
	sig.Head = nil
	sig.SlotCount = 0
	h.store.ReleaseSignal(sig)
}
