package sigslot

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/dshills/sigslot/storage"
)

// Connect attaches a slot to a signal and returns the connection's handle.
// Slots are kept in non-increasing priority order; among equal priorities
// the first connected fires first.
func (h *Hub) Connect(name string, slot Slot, opts ...ConnectOption) (Handle, error) {
	if slot == nil {
		return InvalidHandle, h.fail(ErrNilSlot, "connect: "+name)
	}
	cfg := connectConfig{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return InvalidHandle, h.fail(ErrClosed, "connect: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return InvalidHandle, h.fail(ErrNotFound, "connect: "+name)
	}
	if sig.SlotCount >= h.maxSlotsPerSignal {
		return InvalidHandle, h.fail(ErrMaxSlots, "connect: "+name)
	}

	sub, err := h.store.AllocateSubscription()
	if err != nil {
		return InvalidHandle, h.fail(mapStorageErr(err), "connect: "+name)
	}

	h.nextHandle++
	sub.Callback = slot
	sub.Priority = int(cfg.priority)
	sub.Handle = h.nextHandle

	insertByPriority(sig, sub)
	sig.SlotCount++

	h.log.Debug("connected slot",
		zap.String("signal", name),
		zap.Uint64("handle", sub.Handle),
		zap.Int("priority", sub.Priority))
	return Handle(sub.Handle), nil
}

// insertByPriority places sub after the last node whose priority is
// greater than or equal to its own. A new highest-priority node lands at
// the head; equal priorities keep connection order.
func insertByPriority(sig *storage.Signal, sub *storage.Subscription) {
	if sig.Head == nil || sig.Head.Priority < sub.Priority {
		sub.Next = sig.Head
		sig.Head = sub
		return
	}
	cur := sig.Head
	for cur.Next != nil && cur.Next.Priority >= sub.Priority {
		cur = cur.Next
	}
	sub.Next = cur.Next
	cur.Next = sub
}

// Disconnect removes the first live connection of the given slot from one
// signal. While the signal is mid-emission the connection is tombstoned
// and released by the end-of-emission sweep.
func (h *Hub) Disconnect(name string, slot Slot) error {
	if slot == nil {
		return h.fail(ErrNilSlot, "disconnect: "+name)
	}

	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "disconnect: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return h.fail(ErrNotFound, "disconnect: "+name)
	}

	var prev *storage.Subscription
	for sub := sig.Head; sub != nil; sub = sub.Next {
		if sub.Removed || !sameSlot(sub.Callback, slot) {
			prev = sub
			continue
		}
		h.removeSub(sig, prev, sub)
		h.log.Debug("disconnected slot", zap.String("signal", name))
		return nil
	}
	return h.fail(ErrNotFound, "disconnect: slot not connected to "+name)
}

// DisconnectHandle removes the connection identified by a handle, scanning
// every signal. A stale handle reports ErrNotFound.
func (h *Hub) DisconnectHandle(handle Handle) error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "disconnect handle")
	}
	if handle == InvalidHandle {
		return h.fail(ErrNotFound, "disconnect handle: invalid")
	}

	found := false
	h.store.ForEach(func(sig *storage.Signal) bool {
		var prev *storage.Subscription
		for sub := sig.Head; sub != nil; sub = sub.Next {
			if sub.Removed || sub.Handle != uint64(handle) {
				prev = sub
				continue
			}
			h.removeSub(sig, prev, sub)
			found = true
			return false
		}
		return true
	})
	if !found {
		return h.fail(ErrNotFound, "disconnect handle: unknown handle")
	}
	h.log.Debug("disconnected handle", zap.Uint64("handle", uint64(handle)))
	return nil
}

// DisconnectAll removes every connection from a signal. Mid-emission the
// whole list is tombstoned and swept when the outermost emission ends.
func (h *Hub) DisconnectAll(name string) error {
	locked := h.lock()
	defer h.unlock(locked)

	if h.closed {
		return h.fail(ErrClosed, "disconnect all: "+name)
	}
	sig := h.store.Find(name)
	if sig == nil {
		return h.fail(ErrNotFound, "disconnect all: "+name)
	}

	if sig.EmitDepth > 0 {
		for sub := sig.Head; sub != nil; sub = sub.Next {
			sub.Removed = true
		}
		return nil
	}

	sub := sig.Head
	for sub != nil {
		next := sub.Next
		h.store.ReleaseSubscription(sub)
		sub = next
	}
	sig.Head = nil
	sig.SlotCount = 0
	h.log.Debug("disconnected all slots", zap.String("signal", name))
	return nil
}

// removeSub tombstones sub while its signal is mid-emission, otherwise
// unlinks and releases it immediately.
func (h *Hub) removeSub(sig *storage.Signal, prev, sub *storage.Subscription) {
	if sig.EmitDepth > 0 {
		sub.Removed = true
		return
	}
	if prev == nil {
		sig.Head = sub.Next
	} else {
		prev.Next = sub.Next
	}
	h.store.ReleaseSubscription(sub)
	sig.SlotCount--
}

// sameSlot compares two slot values. Function-backed slots compare by code
// pointer; other implementations compare by interface equality when their
// type is comparable.
func sameSlot(a storage.Slot, b Slot) bool {
	if a == nil || b == nil {
		return false
	}
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() == reflect.Func && bv.Kind() == reflect.Func {
		return av.Pointer() == bv.Pointer()
	}
	if av.Type() != bv.Type() || !av.Type().Comparable() {
		return false
	}
	return av.Interface() == bv.Interface()
}
