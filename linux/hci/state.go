package hci

import "sync/atomic"

// State is the lifecycle stage of a Controller.
type State int32

const (
	StateIdle State = iota
	StateOpen
	StateScanning
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateScanning:
		return "scanning"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type state struct {
	v int32
}

func (s *state) load() State { return State(atomic.LoadInt32(&s.v)) }

func (s *state) store(n State) { atomic.StoreInt32(&s.v, int32(n)) }

func (s *state) transition(from, to State) bool {
	return atomic.CompareAndSwapInt32(&s.v, int32(from), int32(to))
}
