package callx

// State is the lifecycle state of a Call.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the call can no longer change state.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}

// MultiCallState is the lifecycle state of a MultiCall.
type MultiCallState int32

const (
	MultiCallConstructed MultiCallState = iota
	MultiCallDispatched
	MultiCallSettled
)

func (s MultiCallState) String() string {
	switch s {
	case MultiCallConstructed:
		return "constructed"
	case MultiCallDispatched:
		return "dispatched"
	case MultiCallSettled:
		return "settled"
	default:
		return "unknown"
	}
}
