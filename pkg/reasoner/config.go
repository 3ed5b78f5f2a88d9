package reasoner

import (
	"runtime"
	"time"
)

// Config holds the reasoner's enumerated configuration knobs.
type Config struct {
	// MaxKBSize is the upper bound on assertion count (>= 10).
	MaxKBSize int

	// InferenceWorkers is the size of the inference worker pool (>= 2).
	InferenceWorkers int

	// CommitQueueCapacity bounds the FIFO commit queue.
	CommitQueueCapacity int

	// SubstMaxDepth bounds the substitution fixpoint loop.
	SubstMaxDepth int

	// BroadcastInputEvents controls whether "input" events are forwarded
	// to an external transport. The core always emits them internally;
	// this flag is only consulted by a transport sitting on top of the
	// event sink.
	BroadcastInputEvents bool

	// ReflexivePredicates is handed to the knowledge base. Defaults to
	// ReflexivePredicates. Triviality checks (IsTrivial) always use the
	// package-level ReflexivePredicates set, so a different map here does
	// not change which assertions are trivial.
	ReflexivePredicates map[string]struct{}

	// DeadlockTimeout is how long an inference task may run before the
	// deadlock monitor raises an alert for it. It is never used to cancel
	// the task.
	DeadlockTimeout time.Duration

	// DeadlockCheckInterval is how often the deadlock monitor scans active
	// tasks.
	DeadlockCheckInterval time.Duration
}

// DefaultConfig returns the documented default knob values, in the
// defaults-struct-returning-function style.
func DefaultConfig() Config {
	workers := runtime.NumCPU() / 2
	if workers < 2 {
		workers = 2
	}
	return Config{
		MaxKBSize:             65536,
		InferenceWorkers:      workers,
		CommitQueueCapacity:   10000,
		SubstMaxDepth:         50,
		BroadcastInputEvents:  false,
		ReflexivePredicates:   ReflexivePredicates,
		DeadlockTimeout:       30 * time.Second,
		DeadlockCheckInterval: 5 * time.Second,
	}
}

// normalize clamps fields to their documented minimums so a
// zero-value/partially-filled Config never produces a nonsensical engine.
func (c Config) normalize() Config {
	if c.MaxKBSize < 10 {
		c.MaxKBSize = 10
	}
	if c.InferenceWorkers < 2 {
		c.InferenceWorkers = 2
	}
	if c.CommitQueueCapacity <= 0 {
		c.CommitQueueCapacity = 10000
	}
	if c.SubstMaxDepth <= 0 {
		c.SubstMaxDepth = 50
	}
	if c.ReflexivePredicates == nil {
		c.ReflexivePredicates = ReflexivePredicates
	}
	if c.DeadlockTimeout <= 0 {
		c.DeadlockTimeout = 30 * time.Second
	}
	if c.DeadlockCheckInterval <= 0 {
		c.DeadlockCheckInterval = 5 * time.Second
	}
	return c
}
