package sigslot

import (
	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/sigslot/payload"
)

// Batch is a caller-owned group of (signal, payload) pairs replayed
// together through the normal emission path. Unlike the hub's shared
// deferred queue, a batch is repeatable (Emit may be called any number of
// times) and revocable via Clear.
//
// A batch is not safe for concurrent use; it belongs to its creator.
type Batch struct {
	hub     *Hub
	id      string
	entries deque.Deque[queuedEmission]
}

// NewBatch creates an empty batch bound to this hub.
func (h *Hub) NewBatch() *Batch {
	return &Batch{hub: h, id: uuid.NewString()}
}

// ID returns the batch's identity, used in trace output.
func (b *Batch) ID() string {
	return b.id
}

// Add appends an emission to the batch. The payload is cloned so the
// batch never aliases caller-owned storage.
func (b *Batch) Add(name string, d *payload.Data) error {
	if name == "" {
		return b.hub.fail(ErrInvalidName, "batch add: empty name")
	}
	b.entries.PushBack(queuedEmission{name: name, data: d.Clone()})
	return nil
}

// Emit replays every entry in insertion order. Entries are retained, so a
// batch can be emitted repeatedly. Every entry is attempted; the last
// error encountered is returned.
func (b *Batch) Emit() error {
	b.hub.log.Debug("emitting batch",
		zap.String("batch", b.id),
		zap.Int("entries", b.entries.Len()))

	var last error
	for i := 0; i < b.entries.Len(); i++ {
		entry := b.entries.At(i)
		if err := b.hub.Emit(entry.name, &entry.data); err != nil {
			last = err
		}
	}
	return last
}

// Len reports the number of entries in the batch.
func (b *Batch) Len() int {
	return b.entries.Len()
}

// Clear revokes every entry without emitting.
func (b *Batch) Clear() {
	b.entries.Clear()
}
