// Package slot provides a single-value asynchronous handoff.
//
// A Slot holds the most recently published value and resolves at most one
// pending "wait for the next value" request. It decouples a producer that
// delivers results on its own schedule (the inference callback) from a
// consumer that polls or suspends (the frame loop).
package slot

import (
	"errors"
	"sync"
)

// ErrWaiterPending is returned by Next when a previous waiter has not been
// resolved yet. A slot holds at most one pending waiter.
var ErrWaiterPending = errors.New("slot: waiter already pending")

// Slot delivers the most recently published value to at most one waiter.
// Publish may be called from a different goroutine than Current and Next;
// the waiter handoff is atomic with respect to Publish.
type Slot[T any] struct {
	mu      sync.Mutex
	current T
	filled  bool
	waiter  chan T
}

// New creates an empty slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Current returns the last published value without consuming it.
// It does not affect a pending waiter.
func (s *Slot[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.filled
}

// Publish stores v as the current value. A pending waiter receives v and its
// channel is closed; without a waiter the value is only stored for future
// Current reads.
func (s *Slot[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = v
	s.filled = true
	if s.waiter != nil {
		s.waiter <- v
		close(s.waiter)
		s.waiter = nil
	}
}

// Next registers a waiter for the value published after this call; a value
// already held in the slot does not resolve it. The returned channel yields
// exactly that value and is then closed. It is closed without a value when
// the waiter is cancelled, which a receiver observes as ok == false.
//
// Calling Next while a previous waiter is still pending is a contract
// violation and returns ErrWaiterPending; the pending waiter is preserved.
func (s *Slot[T]) Next() (<-chan T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiter != nil {
		return nil, ErrWaiterPending
	}
	// Capacity 1 so Publish never blocks, even if the receiver has
	// already given up on the channel.
	s.waiter = make(chan T, 1)
	return s.waiter, nil
}

// Cancel releases a pending waiter without a value. It is a no-op when no
// waiter is registered.
func (s *Slot[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiter != nil {
		close(s.waiter)
		s.waiter = nil
	}
}
