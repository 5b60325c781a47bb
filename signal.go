package sigslot

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/sigslot/storage"
)

// Register creates a named signal. The name must be non-empty, unique, and
// within the configured length limit; validation happens before storage is
// touched, so a rejected name leaves the registry unchanged.
func (h *Hub) Register(name string, opts ...SignalOption) error {
	cfg := signalConfig{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "register: "+name)
	}
	if err := h.validateName(name); err != nil {
		return h.fail(err, "register: "+name)
	}
	if h.store.Find(name) != nil {
		return h.fail(ErrAlreadyExists, "register: "+name)
	}

	if _, err := h.store.AllocateSignal(name, cfg.description, int(cfg.priority)); err != nil {
		return h.fail(mapStorageErr(err), "register: "+name)
	}

	h.log.Debug("registered signal", zap.String("signal", name))
	return nil
}

// Unregister removes a signal, detaching and releasing all of its
// subscriptions. If the signal is mid-emission on this goroutine, it is
// doomed instead: invisible to lookups immediately, physically released
// when the outermost emission completes. Unregistering a signal that is
// mid-emission on another goroutine with the lock disabled is undefined;
// callers running lock-free own that serialization.
func (h *Hub) Unregister(name string) error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "unregister: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return h.fail(ErrNotFound, "unregister: "+name)
	}

	if sig.EmitDepth > 0 {
		for sub := sig.Head; sub != nil; sub = sub.Next {
			sub.Removed = true
		}
		sig.Doomed = true
		h.log.Debug("doomed signal mid-emission", zap.String("signal", name))
		return nil
	}

	h.releaseSignal(sig)
	h.log.Debug("unregistered signal", zap.String("signal", name))
	return nil
}

// Exists reports whether a signal is registered.
func (h *Hub) Exists(name string) bool {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return false
	}
	return h.store.Find(name) != nil
}

// SignalCount returns the number of registered signals.
func (h *Hub) SignalCount() int {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return 0
	}
	count := 0
	h.store.ForEach(func(sig *storage.Signal) bool {
		if !sig.Doomed {
			count++
		}
		return true
	})
	return count
}

// Signals returns an introspection snapshot of every registered signal,
// sorted by name.
func (h *Hub) Signals() []SignalInfo {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return nil
	}
	var infos []SignalInfo
	h.store.ForEach(func(sig *storage.Signal) bool {
		if sig.Doomed {
			return true
		}
		infos = append(infos, SignalInfo{
			Name:        sig.Name,
			SlotCount:   sig.SlotCount,
			Description: sig.Description,
			Priority:    Priority(sig.Priority),
		})
		return true
	})
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// PerfStats returns the emission timings collected for a signal while
// profiling was enabled.
func (h *Hub) PerfStats(name string) (PerfStats, error) {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return PerfStats{}, h.fail(ErrClosed, "perf stats: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return PerfStats{}, h.fail(ErrNotFound, "perf stats: "+name)
	}
	return PerfStats{
		Emissions: sig.Perf.Emissions,
		Total:     time.Duration(sig.Perf.TotalNs),
		Avg:       time.Duration(sig.Perf.AvgNs),
		Max:       time.Duration(sig.Perf.MaxNs),
		Min:       time.Duration(sig.Perf.MinNs),
	}, nil
}

// ResetPerfStats zeroes the emission timings of every signal.
func (h *Hub) ResetPerfStats() {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return
	}
	h.store.ForEach(func(sig *storage.Signal) bool {
		sig.Perf = storage.PerfStats{}
		return true
	})
}

// mapStorageErr translates backend sentinels into hub sentinels.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrOverflow):
		return ErrCapacity
	case errors.Is(err, storage.ErrNameTooLong):
		return ErrNameTooLong
	default:
		return err
	}
}
