package txbridge

import "sync"

// Slot is a single-occupancy container whose value can be taken out on loan by
// at most one borrower at a time. The value comes back when the borrower
// releases its Lease, or never comes back if the borrower steals it, after
// which the Slot refuses all further leases.
//
// A Slot lets a value be handed to code whose lifetime the creator does not
// control (here: a request context) while the creator keeps a reliable way to
// read the final value back once that code has finished.
type Slot[T any] struct {
	mu     sync.Mutex
	value  T
	filled bool
	leased bool
	stolen bool
}

// NewSlot returns a Slot holding value, ready to be leased.
func NewSlot[T any](value T) *Slot[T] {
	return &Slot[T]{value: value, filled: true}
}

// NewLeasedSlot returns a Slot that is already on loan, together with the
// outstanding Lease. The Lease must be released (or stolen) before the Slot
// can be drained.
func NewLeasedSlot[T any](value T) (*Slot[T], *Lease[T]) {
	s := &Slot[T]{leased: true}
	return s, &Lease[T]{slot: s, value: value}
}

// Lease takes the value out on loan. It reports false when the Slot is empty,
// already on loan, or was poisoned by a previous Steal.
func (s *Slot[T]) Lease() (*Lease[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled || s.leased || s.stolen {
		return nil, false
	}
	v := s.value
	var zero T
	s.value = zero
	s.filled = false
	s.leased = true
	return &Lease[T]{slot: s, value: v}, true
}

// IntoInner drains the Slot, taking ownership of its value. It reports false
// when the Slot is empty or a Lease is still outstanding.
func (s *Slot[T]) IntoInner() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.leased || !s.filled {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.filled = false
	return v, true
}

// onLoan reports whether a Lease is currently outstanding.
func (s *Slot[T]) onLoan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leased
}

// Lease is exclusive, temporary custody of a Slot's value.
type Lease[T any] struct {
	slot  *Slot[T]
	value T
	done  bool
}

// Value returns the leased value.
func (l *Lease[T]) Value() T {
	return l.value
}

// Set replaces the leased value. The replacement is what returns to the Slot
// when the Lease is released.
func (l *Lease[T]) Set(v T) {
	l.value = v
}

// Release returns the value to the Slot, ending the loan. Calls after the
// first, or after Steal, do nothing.
func (l *Lease[T]) Release() {
	if l.done {
		return
	}
	l.done = true
	s := l.slot
	s.mu.Lock()
	s.value = l.value
	s.filled = true
	s.leased = false
	s.mu.Unlock()
	var zero T
	l.value = zero
}

// Steal takes the value for good and poisons the Slot: no further lease will
// ever be issued from it, and draining it yields nothing. Calling Steal after
// Release (or a second time) returns the zero value.
func (l *Lease[T]) Steal() T {
	var zero T
	if l.done {
		return zero
	}
	l.done = true
	v := l.value
	l.value = zero
	s := l.slot
	s.mu.Lock()
	s.leased = false
	s.stolen = true
	s.mu.Unlock()
	return v
}
