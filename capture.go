package sigslot

import "go.uber.org/zap"

// CaptureFromISR records a (signal, value) pair from interrupt context for
// later replay by DrainCaptured. It takes no locks, performs no
// allocation, and never retries: a full queue reports isr.ErrOverflow
// immediately. The error observer is deliberately not invoked on this
// path; observers may allocate or block.
//
// The hub must have been built with WithCaptureQueue; otherwise
// ErrCaptureDisabled is returned.
func (h *Hub) CaptureFromISR(name string, value int64) error {
	q := h.capture
	if q == nil {
		return ErrCaptureDisabled
	}
	return q.Capture(name, value)
}

// DrainCaptured replays every captured pair as an ordinary integer
// emission, in slot order, from normal context. It reports how many
// entries were drained; every entry is attempted and the last emission
// error is returned.
func (h *Hub) DrainCaptured() (int, error) {
	if h.capture == nil {
		return 0, h.fail(ErrCaptureDisabled, "drain captured")
	}

	var last error
	n := h.capture.Drain(func(name string, value int64) {
		if err := h.EmitInt(name, value); err != nil {
			last = err
		}
	})
	if n > 0 {
		h.log.Debug("drained capture queue", zap.Int("count", n))
	}
	return n, last
}

// CapturePending reports the number of captured pairs awaiting drain, or
// zero when the capture queue is disabled.
func (h *Hub) CapturePending() int {
	if h.capture == nil {
		return 0
	}
	return h.capture.Pending()
}
