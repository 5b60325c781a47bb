package sigslot

import (
	"errors"
	"testing"

	"github.com/dshills/sigslot/isr"
	"github.com/dshills/sigslot/payload"
)

func TestHub_Capture_Disabled(t *testing.T) {
	h := NewHub()
	defer h.Close()

	if err := h.CaptureFromISR("sig", 1); !errors.Is(err, ErrCaptureDisabled) {
		t.Errorf("CaptureFromISR = %v, want ErrCaptureDisabled", err)
	}
	if _, err := h.DrainCaptured(); !errors.Is(err, ErrCaptureDisabled) {
		t.Errorf("DrainCaptured = %v, want ErrCaptureDisabled", err)
	}
	if got := h.CapturePending(); got != 0 {
		t.Errorf("CapturePending = %d, want 0", got)
	}
}

func TestHub_Capture_DrainReplaysAsEmissions(t *testing.T) {
	h := NewHub(WithCaptureQueue(8))
	defer h.Close()

	if err := h.Register("sensor.sample"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var values []int64
	if _, err := h.Connect("sensor.sample", SlotFunc(func(d *payload.Data) {
		values = append(values, d.IntOr(-1))
	})); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	for i := int64(0); i < 3; i++ {
		if err := h.CaptureFromISR("sensor.sample", i*10); err != nil {
			t.Fatalf("CaptureFromISR %d: %v", i, err)
		}
	}
	if got := h.CapturePending(); got != 3 {
		t.Errorf("CapturePending = %d, want 3", got)
	}
	if len(values) != 0 {
		t.Fatalf("slots fired before drain: %v", values)
	}

	n, err := h.DrainCaptured()
	if err != nil {
		t.Fatalf("DrainCaptured: %v", err)
	}
	if n != 3 {
		t.Errorf("drained %d entries, want 3", n)
	}
	if len(values) != 3 || values[0] != 0 || values[1] != 10 || values[2] != 20 {
		t.Errorf("values = %v, want [0 10 20]", values)
	}
	if got := h.CapturePending(); got != 0 {
		t.Errorf("CapturePending after drain = %d, want 0", got)
	}
}

func TestHub_Capture_OverflowAtCapacity(t *testing.T) {
	h := NewHub(WithCaptureQueue(2))
	defer h.Close()

	for i := int64(0); i < 2; i++ {
		if err := h.CaptureFromISR("irq", i); err != nil {
			t.Fatalf("CaptureFromISR %d: %v", i, err)
		}
	}
	if err := h.CaptureFromISR("irq", 99); !errors.Is(err, isr.ErrOverflow) {
		t.Errorf("capture past capacity = %v, want isr.ErrOverflow", err)
	}
}

func TestHub_Capture_UnknownSignalReportsAtDrain(t *testing.T) {
	h := NewHub(WithCaptureQueue(4))
	defer h.Close()

	if err := h.CaptureFromISR("never.registered", 1); err != nil {
		t.Fatalf("CaptureFromISR: %v", err)
	}

	n, err := h.DrainCaptured()
	if n != 1 {
		t.Errorf("drained %d entries, want 1", n)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DrainCaptured = %v, want ErrNotFound", err)
	}
}

func TestHub_Capture_DefaultCapacity(t *testing.T) {
	h := NewHub(WithCaptureQueue(0))
	defer h.Close()

	// Zero means "enabled at the default size", not disabled.
	for i := int64(0); i < int64(isr.DefaultCapacity); i++ {
		if err := h.CaptureFromISR("irq", i); err != nil {
			t.Fatalf("CaptureFromISR %d: %v", i, err)
		}
	}
	if err := h.CaptureFromISR("irq", -1); !errors.Is(err, isr.ErrOverflow) {
		t.Errorf("capture past default capacity = %v, want isr.ErrOverflow", err)
	}
}
