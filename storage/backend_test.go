package storage

import (
	"errors"
	"testing"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"fixed":   NewFixed(),
		"dynamic": NewDynamic(),
	}
}

func TestBackend_AllocateAndFind(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sig, err := b.AllocateSignal("button.pressed", "desc", 5)
			if err != nil {
				t.Fatalf("AllocateSignal: %v", err)
			}
			if sig.Name != "button.pressed" || sig.Description != "desc" || sig.Priority != 5 {
				t.Errorf("unexpected signal fields: %+v", sig)
			}

			if got := b.Find("button.pressed"); got != sig {
				t.Errorf("Find returned %p, want %p", got, sig)
			}
			if got := b.Find("missing"); got != nil {
				t.Errorf("Find(missing) = %+v, want nil", got)
			}
		})
	}
}

func TestBackend_FindSkipsDoomed(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sig, err := b.AllocateSignal("dying", "", 0)
			if err != nil {
				t.Fatalf("AllocateSignal: %v", err)
			}
			sig.Doomed = true

			if got := b.Find("dying"); got != nil {
				t.Errorf("Find returned doomed signal")
			}
			// ForEach still visits it so the sweep can release it.
			visited := 0
			b.ForEach(func(s *Signal) bool {
				visited++
				return true
			})
			if visited != 1 {
				t.Errorf("ForEach visited %d signals, want 1", visited)
			}
		})
	}
}

func TestBackend_ReleaseSignal(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sig, err := b.AllocateSignal("temp", "", 0)
			if err != nil {
				t.Fatalf("AllocateSignal: %v", err)
			}
			b.ReleaseSignal(sig)

			if got := b.Find("temp"); got != nil {
				t.Errorf("released signal still findable")
			}
			if got := b.Stats().SignalsUsed; got != 0 {
				t.Errorf("SignalsUsed = %d, want 0", got)
			}
		})
	}
}

func TestBackend_SubscriptionLifecycle(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sub, err := b.AllocateSubscription()
			if err != nil {
				t.Fatalf("AllocateSubscription: %v", err)
			}
			if sub.Handle != 0 || sub.Removed || sub.Next != nil {
				t.Errorf("new subscription not zeroed: %+v", sub)
			}
			if got := b.Stats().SubscriptionsUsed; got != 1 {
				t.Errorf("SubscriptionsUsed = %d, want 1", got)
			}

			b.ReleaseSubscription(sub)
			if got := b.Stats().SubscriptionsUsed; got != 0 {
				t.Errorf("SubscriptionsUsed after release = %d, want 0", got)
			}
		})
	}
}

func TestFixed_SignalOverflow(t *testing.T) {
	b := NewFixed(WithSignalCapacity(2))

	for i, name := range []string{"a", "b"} {
		if _, err := b.AllocateSignal(name, "", 0); err != nil {
			t.Fatalf("AllocateSignal %d: %v", i, err)
		}
	}
	if _, err := b.AllocateSignal("c", "", 0); !errors.Is(err, ErrOverflow) {
		t.Errorf("third AllocateSignal error = %v, want ErrOverflow", err)
	}

	// Releasing frees a record for reuse.
	b.ReleaseSignal(b.Find("a"))
	if _, err := b.AllocateSignal("c", "", 0); err != nil {
		t.Errorf("AllocateSignal after release: %v", err)
	}
}

func TestFixed_SubscriptionOverflow(t *testing.T) {
	b := NewFixed(WithSubscriptionCapacity(1))

	sub, err := b.AllocateSubscription()
	if err != nil {
		t.Fatalf("AllocateSubscription: %v", err)
	}
	if _, err := b.AllocateSubscription(); !errors.Is(err, ErrOverflow) {
		t.Errorf("second AllocateSubscription error = %v, want ErrOverflow", err)
	}

	b.ReleaseSubscription(sub)
	if _, err := b.AllocateSubscription(); err != nil {
		t.Errorf("AllocateSubscription after release: %v", err)
	}
}

func TestFixed_NameTooLong(t *testing.T) {
	b := NewFixed(WithNameLength(4))

	if _, err := b.AllocateSignal("abcd", "", 0); err != nil {
		t.Errorf("name at limit rejected: %v", err)
	}
	if _, err := b.AllocateSignal("abcde", "", 0); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("over-length name error = %v, want ErrNameTooLong", err)
	}
}

func TestFixed_Stats(t *testing.T) {
	b := NewFixed(WithSignalCapacity(8), WithSubscriptionCapacity(16))

	if _, err := b.AllocateSignal("a", "", 0); err != nil {
		t.Fatalf("AllocateSignal: %v", err)
	}
	if _, err := b.AllocateSubscription(); err != nil {
		t.Fatalf("AllocateSubscription: %v", err)
	}

	s := b.Stats()
	if s.SignalsUsed != 1 || s.SignalsCap != 8 {
		t.Errorf("signal stats = %d/%d, want 1/8", s.SignalsUsed, s.SignalsCap)
	}
	if s.SubscriptionsUsed != 1 || s.SubscriptionsCap != 16 {
		t.Errorf("subscription stats = %d/%d, want 1/16", s.SubscriptionsUsed, s.SubscriptionsCap)
	}
}

func TestDynamic_UnboundedStats(t *testing.T) {
	b := NewDynamic()

	s := b.Stats()
	if s.SignalsCap != 0 || s.SubscriptionsCap != 0 {
		t.Errorf("dynamic capacities = %d/%d, want 0/0", s.SignalsCap, s.SubscriptionsCap)
	}
	if b.MaxNameLength() != 0 {
		t.Errorf("dynamic MaxNameLength = %d, want 0", b.MaxNameLength())
	}
}

func TestDynamic_ReleaseMiddleOfList(t *testing.T) {
	b := NewDynamic()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := b.AllocateSignal(name, "", 0); err != nil {
			t.Fatalf("AllocateSignal %s: %v", name, err)
		}
	}
	b.ReleaseSignal(b.Find("b"))

	if b.Find("b") != nil {
		t.Errorf("released signal still findable")
	}
	if b.Find("a") == nil || b.Find("c") == nil {
		t.Errorf("neighbors lost after middle release")
	}
	if got := b.Stats().SignalsUsed; got != 2 {
		t.Errorf("SignalsUsed = %d, want 2", got)
	}
}
