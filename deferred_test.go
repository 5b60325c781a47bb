package sigslot

import (
	"errors"
	"testing"

	"github.com/dshills/sigslot/payload"
)

func TestHub_DeferEmit_FIFOFlush(t *testing.T) {
	h := NewHub()
	defer h.Close()

	var order []string
	var values []int64
	for _, name := range []string{"alpha", "beta"} {
		name := name
		if err := h.Register(name); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
		if _, err := h.Connect(name, SlotFunc(func(d *payload.Data) {
			order = append(order, name)
			values = append(values, d.IntOr(-1))
		})); err != nil {
			t.Fatalf("Connect %s: %v", name, err)
		}
	}

	if err := h.DeferEmit("alpha", payload.Int(1)); err != nil {
		t.Fatalf("DeferEmit alpha: %v", err)
	}
	if err := h.DeferEmit("beta", payload.Int(2)); err != nil {
		t.Fatalf("DeferEmit beta: %v", err)
	}
	if got := h.DeferredLen(); got != 2 {
		t.Errorf("DeferredLen = %d, want 2", got)
	}
	if len(order) != 0 {
		t.Fatalf("slots fired before flush: %v", order)
	}

	if err := h.FlushDeferred(); err != nil {
		t.Fatalf("FlushDeferred: %v", err)
	}

	if len(order) != 2 || order[0] != "alpha" || order[1] != "beta" {
		t.Errorf("order = %v, want [alpha beta]", order)
	}
	if values[0] != 1 || values[1] != 2 {
		t.Errorf("values = %v, want [1 2]", values)
	}
	if got := h.DeferredLen(); got != 0 {
		t.Errorf("DeferredLen after flush = %d, want 0", got)
	}
}

func TestHub_FlushDeferred_HandlerDeferralWaits(t *testing.T) {
	h := NewHub()
	defer h.Close()

	if err := h.Register("sig"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	fired := 0
	if _, err := h.Connect("sig", SlotFunc(func(*payload.Data) {
		fired++
		if fired == 1 {
			if err := h.DeferEmit("sig", nil); err != nil {
				t.Errorf("DeferEmit from slot: %v", err)
			}
		}
	})); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := h.DeferEmit("sig", nil); err != nil {
		t.Fatalf("DeferEmit: %v", err)
	}

	// The entry deferred during the flush must not extend this flush.
	if err := h.FlushDeferred(); err != nil {
		t.Fatalf("FlushDeferred: %v", err)
	}
	if fired != 1 {
		t.Errorf("fired %d times after first flush, want 1", fired)
	}
	if got := h.DeferredLen(); got != 1 {
		t.Errorf("DeferredLen = %d, want 1", got)
	}

	if err := h.FlushDeferred(); err != nil {
		t.Fatalf("second FlushDeferred: %v", err)
	}
	if fired != 2 {
		t.Errorf("fired %d times after second flush, want 2", fired)
	}
}

func TestHub_DeferEmit_QueueFull(t *testing.T) {
	h := NewHub(WithDeferredCapacity(2))
	defer h.Close()

	for i := 0; i < 2; i++ {
		if err := h.DeferEmit("sig", nil); err != nil {
			t.Fatalf("DeferEmit %d: %v", i, err)
		}
	}
	if err := h.DeferEmit("sig", nil); !errors.Is(err, ErrQueueFull) {
		t.Errorf("DeferEmit past capacity = %v, want ErrQueueFull", err)
	}
	if got := h.DeferredLen(); got != 2 {
		t.Errorf("DeferredLen = %d, want 2", got)
	}
}

func TestHub_FlushDeferred_LastError(t *testing.T) {
	h := NewHub()
	defer h.Close()

	if err := h.Register("known"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	fired := 0
	if _, err := h.Connect("known", SlotFunc(func(*payload.Data) { fired++ })); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := h.DeferEmit("known", nil); err != nil {
		t.Fatalf("DeferEmit known: %v", err)
	}
	if err := h.DeferEmit("unknown", nil); err != nil {
		t.Fatalf("DeferEmit unknown: %v", err)
	}

	// Both entries are attempted; the unresolvable one reports last.
	if err := h.FlushDeferred(); !errors.Is(err, ErrNotFound) {
		t.Errorf("FlushDeferred = %v, want ErrNotFound", err)
	}
	if fired != 1 {
		t.Errorf("known slot fired %d times, want 1", fired)
	}
	if got := h.DeferredLen(); got != 0 {
		t.Errorf("DeferredLen = %d, want 0 (failed entries are not requeued)", got)
	}
}

func TestHub_DeferEmit_ClonesPayload(t *testing.T) {
	h := NewHub()
	defer h.Close()

	if err := h.Register("sig"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var got []byte
	if _, err := h.Connect("sig", SlotFunc(func(d *payload.Data) {
		got = append([]byte(nil), d.Blob()...)
	})); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	d := payload.Blob([]byte{1, 2, 3})
	if err := h.DeferEmit("sig", d); err != nil {
		t.Fatalf("DeferEmit: %v", err)
	}

	// Mutating the caller's payload after enqueue must not leak through.
	d.SetBlob([]byte{9, 9, 9})

	if err := h.FlushDeferred(); err != nil {
		t.Fatalf("FlushDeferred: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("delivered blob = %v, want [1 2 3]", got)
	}
}

func TestHub_DeferEmit_EmptyName(t *testing.T) {
	h := NewHub()
	defer h.Close()

	if err := h.DeferEmit("", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("DeferEmit(\"\") = %v, want ErrInvalidName", err)
	}
}
