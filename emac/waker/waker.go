// Package waker implements a per-instance RX/TX/error waker set,
// translated from a register-a-waker/poll_fn future idiom into idiomatic
// Go: a single-slot buffered channel per event
// class stands in for "holds one waker, replaces the previous one, wakes
// outside any critical section" — sending to an already-full channel is a
// no-op (the prior waiter already has a pending wake), and receiving
// drains it — register/replace/wake-once semantics with no waker-to-channel
// translation table needed.
package waker

import "github.com/tamago-soc/dwmac/emac"

// Set holds the three RX/TX/error wake channels plus the most recently
// observed interrupt status snapshot. It has no package-level state: the
// ISR receives a *Set by reference and acts on exactly that instance.
type Set struct {
	rx  chan struct{}
	tx  chan struct{}
	err chan struct{}

	snapshot emac.InterruptStatus
}

// New builds a Set with its three single-slot wake channels allocated.
func New() *Set {
	return &Set{
		rx:  make(chan struct{}, 1),
		tx:  make(chan struct{}, 1),
		err: make(chan struct{}, 1),
	}
}

// RxChan is the channel an RX waiter selects on.
func (s *Set) RxChan() <-chan struct{} { return s.rx }

// TxChan is the channel a TX waiter selects on.
func (s *Set) TxChan() <-chan struct{} { return s.tx }

// ErrChan is the channel an error waiter selects on.
func (s *Set) ErrChan() <-chan struct{} { return s.err }

// Snapshot returns the interrupt status last observed by HandleInterrupt.
func (s *Set) Snapshot() emac.InterruptStatus { return s.snapshot }

func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// WakeRx signals any RX waiter.
func (s *Set) WakeRx() { wake(s.rx) }

// WakeTx signals any TX waiter.
func (s *Set) WakeTx() { wake(s.tx) }

// WakeErr signals any error waiter.
func (s *Set) WakeErr() { wake(s.err) }

// HandleInterrupt is the ISR entry point: it performs
// Emac's read-and-clear, stores the snapshot, and selectively wakes RX,
// TX, and/or error waiters based on which event classes were observed.
// Summary-only bits never wake anything on their own.
func HandleInterrupt(e *emac.Emac, wakers *Set) emac.InterruptStatus {
	status := e.HandleInterrupt()
	wakers.snapshot = status

	if status.Receive || status.RxBufferUnavail || status.RxOverflow || status.RxWatchdogTimeout {
		wakers.WakeRx()
	}
	if status.Transmit || status.TxBufferUnavail || status.TxUnderflow || status.TxJabberTimeout {
		wakers.WakeTx()
	}
	if status.FatalBusError {
		wakers.WakeErr()
	}

	return status
}
