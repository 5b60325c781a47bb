package storage

// Dynamic is the heap backend. Signals form a singly linked list; records
// are allocated on demand and released to the garbage collector. Capacity
// is unbounded by design; the per-signal subscription cap still applies at
// the hub level.
type Dynamic struct {
	head        *Signal
	signalCount int
	subCount    int
}

// NewDynamic creates an unbounded heap backend.
func NewDynamic() *Dynamic {
	return &Dynamic{}
}

// Find walks the signal list for a live name match.
func (d *Dynamic) Find(name string) *Signal {
	for sig := d.head; sig != nil; sig = sig.next {
		if !sig.Doomed && sig.Name == name {
			return sig
		}
	}
	return nil
}

// AllocateSignal prepends a new signal record to the list.
func (d *Dynamic) AllocateSignal(name, description string, priority int) (*Signal, error) {
	sig := &Signal{
		Name:        name,
		Description: description,
		Priority:    priority,
		index:       -1,
		next:        d.head,
	}
	d.head = sig
	d.signalCount++
	return sig, nil
}

// ReleaseSignal unlinks a record from the list.
func (d *Dynamic) ReleaseSignal(sig *Signal) {
	if sig == nil {
		return
	}
	if d.head == sig {
		d.head = sig.next
		d.signalCount--
		sig.next = nil
		return
	}
	for cur := d.head; cur != nil; cur = cur.next {
		if cur.next == sig {
			cur.next = sig.next
			d.signalCount--
			sig.next = nil
			return
		}
	}
}

// AllocateSubscription creates a fresh node.
func (d *Dynamic) AllocateSubscription() (*Subscription, error) {
	d.subCount++
	return &Subscription{index: -1}, nil
}

// ReleaseSubscription drops the node for the collector.
func (d *Dynamic) ReleaseSubscription(sub *Subscription) {
	if sub == nil {
		return
	}
	d.subCount--
	sub.Next = nil
	sub.Callback = nil
}

// ForEach visits every signal in the list.
func (d *Dynamic) ForEach(fn func(sig *Signal) bool) {
	for sig := d.head; sig != nil; {
		// Snapshot next so fn may release the current signal.
		next := sig.next
		if !fn(sig) {
			return
		}
		sig = next
	}
}

// Stats reports live record counts. Capacities are zero: unbounded.
func (d *Dynamic) Stats() Stats {
	return Stats{
		SignalsUsed:       d.signalCount,
		SubscriptionsUsed: d.subCount,
	}
}

// MaxNameLength returns zero: names are unbounded.
func (d *Dynamic) MaxNameLength() int {
	return 0
}
