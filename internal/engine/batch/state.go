package batch

// State identifies where a bulk run is in its lifecycle. A run moves from
// Idle to Running, then terminates in exactly one of Succeeded, Cancelled,
// or Failed. No run state survives past termination.
type State int

const (
	// StateIdle means the run has not started.
	StateIdle State = iota

	// StateRunning means chunks are being submitted.
	StateRunning

	// StateSucceeded means every chunk completed.
	StateSucceeded

	// StateCancelled means the caller requested cancellation before all
	// chunks completed; prior chunks' effects stand.
	StateCancelled

	// StateFailed means a chunk submission failed and the run aborted.
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateCancelled || s == StateFailed
}
