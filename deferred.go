package sigslot

import (
	"go.uber.org/zap"

	"github.com/dshills/sigslot/payload"
)

// DeferEmit queues a (signal, payload) pair for a later FlushDeferred.
// The payload is cloned, so the queue never aliases caller-owned storage.
// The target signal does not need to exist yet; resolution happens at
// flush time. A full queue reports ErrQueueFull.
func (h *Hub) DeferEmit(name string, d *payload.Data) error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "defer emit: "+name)
	}
	if name == "" {
		return h.fail(ErrInvalidName, "defer emit: empty name")
	}
	if h.deferred.Len() >= h.deferredCap {
		return h.fail(ErrQueueFull, "defer emit: "+name)
	}

	h.deferred.PushBack(queuedEmission{name: name, data: d.Clone()})
	return nil
}

// FlushDeferred replays every queued entry, in FIFO order, through the
// normal emission path. The queue length is snapshotted up front, so
// entries deferred by slots running during the flush wait for the next
// flush instead of extending this one. Every entry is attempted; the last
// error encountered is returned.
func (h *Hub) FlushDeferred() error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "flush deferred")
	}

	n := h.deferred.Len()
	if n == 0 {
		return nil
	}
	h.log.Debug("flushing deferred emissions", zap.Int("count", n))

	var last error
	for i := 0; i < n; i++ {
		entry := h.deferred.PopFront()
		if err := h.Emit(entry.name, &entry.data); err != nil {
			last = err
		}
	}
	return last
}

// DeferredLen reports the number of entries awaiting flush.
func (h *Hub) DeferredLen() int {
	locked := h.lock()
	defer h.unlock(locked)
	return h.deferred.Len()
}
