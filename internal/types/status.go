package types

// Status is the observable state of a future.
type Status int

const (
	// StatusPending means no value or error has been set yet.
	StatusPending Status = iota
	// StatusReady means a value has been set.
	StatusReady
	// StatusFailed means an error has been set.
	StatusFailed
	// StatusTimedOut is returned by a timed wait that expired first.
	StatusTimedOut
	// StatusDeferred means the computation is lazy and has not been started.
	StatusDeferred
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	case StatusDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Result carries either a value or the error that replaced it.
type Result[T any] struct {
	Value T
	Err   error
}
