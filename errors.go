package sigslot

import (
	"errors"

	"go.uber.org/zap"
)

// Sentinel errors for hub operations.
var (
	// ErrClosed is returned when operations are attempted on a closed hub.
	ErrClosed = errors.New("hub is closed")

	// ErrInvalidName is returned for an empty signal name.
	ErrInvalidName = errors.New("invalid signal name")

	// ErrNameTooLong is returned when a signal name exceeds the configured
	// maximum. Over-length names are rejected, never truncated.
	ErrNameTooLong = errors.New("signal name too long")

	// ErrNotFound is returned when a signal or handle is unknown. Emitting
	// a signal that was never registered is a normal condition callers may
	// choose to ignore.
	ErrNotFound = errors.New("signal not found")

	// ErrAlreadyExists is returned when registering a duplicate signal name.
	ErrAlreadyExists = errors.New("signal already exists")

	// ErrCapacity is returned when a fixed backend has no free record.
	ErrCapacity = errors.New("storage capacity exceeded")

	// ErrMaxSlots is returned when a signal's subscription count has
	// reached the per-signal cap.
	ErrMaxSlots = errors.New("maximum slots per signal reached")

	// ErrQueueFull is returned when the deferred queue is at capacity.
	ErrQueueFull = errors.New("deferred queue full")

	// ErrNilSlot is returned when a nil slot is connected.
	ErrNilSlot = errors.New("slot cannot be nil")

	// ErrCaptureDisabled is returned by the interrupt-capture operations
	// when the hub was built without a capture queue.
	ErrCaptureDisabled = errors.New("capture queue not enabled")
)

// ErrorObserver is an optional side channel notified on every error the
// hub reports, independent of the returned code. Observers run while the
// hub lock is held and must not call back into the hub from another
// goroutine. The interrupt-capture path never invokes the observer.
type ErrorObserver func(err error, msg string)

// fail reports an error through the observer and trace log, then returns
// it unchanged so call sites can use it as the return expression.
func (h *Hub) fail(err error, msg string) error {
	if h.observer != nil {
		h.observer(err, msg)
	}
	h.log.Debug("sigslot error", zap.Error(err), zap.String("detail", msg))
	return err
}
