package reasoner

import "sync/atomic"

// EngineState is one node of the engine's state machine.
type EngineState int32

const (
	StateIdle EngineState = iota
	StateStarting
	StateRunning
	StatePaused
	StateStopping
	StateStopped
	StateError
)

func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// engineStateBox is an atomically-readable/writable EngineState, the
// teacher's lock-free-status idiom (status reads must never contend with
// the hot loops).
type engineStateBox struct {
	v int32
}

func (b *engineStateBox) set(s EngineState)    { atomic.StoreInt32(&b.v, int32(s)) }
func (b *engineStateBox) get() EngineState     { return EngineState(atomic.LoadInt32(&b.v)) }
func (b *engineStateBox) cas(from, to EngineState) bool {
	return atomic.CompareAndSwapInt32(&b.v, int32(from), int32(to))
}
