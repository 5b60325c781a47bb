// Package isr provides the lock-free capture queue for interrupt-context
// signal emission.
//
// Code running in a context that may preempt normal execution (a signal
// handler, an ISR on an embedded target) cannot take the hub lock and must
// not allocate. Instead it records a (signal name, integer value) pair into
// a fixed-capacity queue with Capture; normal-context code later replays
// the captured pairs as ordinary emissions via Drain.
//
// # Memory ordering
//
// Each slot's name and value are written before the pending flag's release
// store, and the consumer's acquire load of pending is performed before it
// reads them. A consumer that observes pending == true therefore sees a
// fully written slot. The consumer clears pending only after it has
// finished with the slot's contents.
//
// # Producer contract
//
// Slots are claimed with a plain check of the pending flag: safe when each
// interrupt source captures from its own call site, not safe for arbitrary
// concurrent producers racing onto the same free slot. Callers needing
// multiple concurrent producers must add their own serialization.
package isr

import (
	"errors"
	"sync/atomic"
)

const (
	// DefaultCapacity is the queue length used when none is given.
	DefaultCapacity = 16

	// MaxNameLength is the fixed per-slot name buffer size in bytes.
	MaxNameLength = 32
)

var (
	// ErrOverflow is returned by Capture when every slot is pending.
	ErrOverflow = errors.New("capture queue full")

	// ErrNameTooLong is returned by Capture when the name does not fit the
	// fixed buffer. Names are rejected, never truncated.
	ErrNameTooLong = errors.New("capture name too long")

	// ErrEmptyName is returned by Capture for an empty name.
	ErrEmptyName = errors.New("capture name empty")
)

type slot struct {
	name    [MaxNameLength]byte
	nameLen int32
	value   int64
	pending atomic.Bool
}

// Queue is a fixed-capacity capture queue. All storage is allocated by New;
// Capture performs no allocation and takes no locks.
type Queue struct {
	slots []slot
}

// New creates a queue with the given capacity. Non-positive capacities use
// DefaultCapacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{slots: make([]slot, capacity)}
}

// Capture records a (name, value) pair into the first free slot. It never
// blocks, allocates, or retries; a full queue reports ErrOverflow
// immediately.
func (q *Queue) Capture(name string, value int64) error {
	if len(name) == 0 {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	for i := range q.slots {
		s := &q.slots[i]
		if s.pending.Load() {
			continue
		}
		n := copy(s.name[:], name)
		s.nameLen = int32(n)
		s.value = value
		// Release store: orders the name/value writes before the flag.
		s.pending.Store(true)
		return nil
	}
	return ErrOverflow
}

// Drain invokes fn for every pending slot and frees each slot after fn
// returns. It reports the number of entries drained. Drain must run in
// normal context; it is the consumer side of the acquire/release pairing.
func (q *Queue) Drain(fn func(name string, value int64)) int {
	drained := 0
	for i := range q.slots {
		s := &q.slots[i]
		// Acquire load: pairs with Capture's release store.
		if !s.pending.Load() {
			continue
		}
		name := string(s.name[:s.nameLen])
		value := s.value
		fn(name, value)
		// Free the slot only after its contents are fully consumed.
		s.pending.Store(false)
		drained++
	}
	return drained
}

// Pending reports the number of slots awaiting drain.
func (q *Queue) Pending() int {
	n := 0
	for i := range q.slots {
		if q.slots[i].pending.Load() {
			n++
		}
	}
	return n
}

// Capacity returns the fixed queue length.
func (q *Queue) Capacity() int {
	return len(q.slots)
}
