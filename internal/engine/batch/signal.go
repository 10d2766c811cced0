package batch

import "sync/atomic"

// Signal is a one-way, cooperative cancellation flag. The UI side calls
// Request when the user asks to stop; the Executor polls Requested between
// chunks. Requesting twice has no additional effect, and cancellation
// never interrupts a chunk already in flight.
type Signal struct {
	requested atomic.Bool
}

// NewSignal returns a Signal in the not-requested state.
func NewSignal() *Signal {
	return &Signal{}
}

// Request marks the signal as cancelled. Idempotent.
func (s *Signal) Request() {
	s.requested.Store(true)
}

// Requested reports whether cancellation has been requested.
func (s *Signal) Requested() bool {
	return s.requested.Load()
}
