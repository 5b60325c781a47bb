package storage

// Default capacities for the fixed backend. They match the embedded
// profile this backend exists for: tens of signals, not thousands.
const (
	DefaultMaxSignals       = 32
	DefaultMaxSubscriptions = 128
	DefaultMaxNameLength    = 32
)

// Fixed is the bounded backend. All records are preallocated at
// construction; Find and allocation are linear scans over the occupancy
// flags. Nothing is allocated after New.
type Fixed struct {
	signals    []Signal
	signalUsed []bool
	subs       []Subscription
	subUsed    []bool

	signalCount int
	subCount    int
	maxNameLen  int
}

// FixedOption configures a Fixed backend.
type FixedOption func(*Fixed)

// WithSignalCapacity sets the number of preallocated signal records.
func WithSignalCapacity(n int) FixedOption {
	return func(f *Fixed) {
		if n > 0 {
			f.signals = make([]Signal, n)
			f.signalUsed = make([]bool, n)
		}
	}
}

// WithSubscriptionCapacity sets the number of preallocated subscription
// records shared across all signals.
func WithSubscriptionCapacity(n int) FixedOption {
	return func(f *Fixed) {
		if n > 0 {
			f.subs = make([]Subscription, n)
			f.subUsed = make([]bool, n)
		}
	}
}

// WithNameLength sets the longest accepted signal name in bytes.
func WithNameLength(n int) FixedOption {
	return func(f *Fixed) {
		if n > 0 {
			f.maxNameLen = n
		}
	}
}

// NewFixed creates a bounded backend with all storage preallocated.
func NewFixed(opts ...FixedOption) *Fixed {
	f := &Fixed{
		signals:    make([]Signal, DefaultMaxSignals),
		signalUsed: make([]bool, DefaultMaxSignals),
		subs:       make([]Subscription, DefaultMaxSubscriptions),
		subUsed:    make([]bool, DefaultMaxSubscriptions),
		maxNameLen: DefaultMaxNameLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the live signal with the given name, or nil.
func (f *Fixed) Find(name string) *Signal {
	for i := range f.signals {
		if f.signalUsed[i] && !f.signals[i].Doomed && f.signals[i].Name == name {
			return &f.signals[i]
		}
	}
	return nil
}

// AllocateSignal claims the first free signal record.
func (f *Fixed) AllocateSignal(name, description string, priority int) (*Signal, error) {
	if len(name) > f.maxNameLen {
		return nil, ErrNameTooLong
	}
	for i := range f.signals {
		if f.signalUsed[i] {
			continue
		}
		f.signalUsed[i] = true
		f.signalCount++
		sig := &f.signals[i]
		*sig = Signal{
			Name:        name,
			Description: description,
			Priority:    priority,
			index:       i,
		}
		return sig, nil
	}
	return nil, ErrOverflow
}

// ReleaseSignal returns a record to the pool.
func (f *Fixed) ReleaseSignal(sig *Signal) {
	if sig == nil {
		return
	}
	i := sig.index
	if i < 0 || i >= len(f.signals) || !f.signalUsed[i] {
		return
	}
	f.signalUsed[i] = false
	f.signalCount--
	f.signals[i] = Signal{index: i}
}

// AllocateSubscription claims the first free subscription record.
func (f *Fixed) AllocateSubscription() (*Subscription, error) {
	for i := range f.subs {
		if f.subUsed[i] {
			continue
		}
		f.subUsed[i] = true
		f.subCount++
		sub := &f.subs[i]
		*sub = Subscription{index: i}
		return sub, nil
	}
	return nil, ErrOverflow
}

// ReleaseSubscription returns a record to the pool.
func (f *Fixed) ReleaseSubscription(sub *Subscription) {
	if sub == nil {
		return
	}
	i := sub.index
	if i < 0 || i >= len(f.subs) || !f.subUsed[i] {
		return
	}
	f.subUsed[i] = false
	f.subCount--
	f.subs[i] = Subscription{index: i}
}

// ForEach visits every occupied signal record.
func (f *Fixed) ForEach(fn func(sig *Signal) bool) {
	for i := range f.signals {
		if !f.signalUsed[i] {
			continue
		}
		if !fn(&f.signals[i]) {
			return
		}
	}
}

// Stats reports occupancy against the preallocated capacities.
func (f *Fixed) Stats() Stats {
	return Stats{
		SignalsUsed:       f.signalCount,
		SignalsCap:        len(f.signals),
		SubscriptionsUsed: f.subCount,
		SubscriptionsCap:  len(f.subs),
	}
}

// MaxNameLength returns the fixed name buffer size.
func (f *Fixed) MaxNameLength() int {
	return f.maxNameLen
}
