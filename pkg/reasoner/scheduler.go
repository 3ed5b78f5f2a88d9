package reasoner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// pauseGate is the pause monitor suspension point: workers wait on it
// between queue takes. wait returns immediately while running;
// it blocks while paused, and is cooperatively released on resume or
// shutdown.
type pauseGate struct {
	mu sync.Mutex
	ch chan struct{}
}

func newPauseGate() *pauseGate {
	g := &pauseGate{ch: make(chan struct{})}
	close(g.ch)
	return g
}

func (g *pauseGate) setPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.ch:
		// currently open (running); pausing installs a fresh, blocking channel.
		if paused {
			g.ch = make(chan struct{})
		}
	default:
		// currently paused (blocking); resuming releases every waiter.
		if !paused {
			close(g.ch)
		}
	}
}

// wait blocks until the gate is open (not paused) or ctx is done, in which
// case it returns false.
func (g *pauseGate) wait(ctx context.Context) bool {
	g.mu.Lock()
	ch := g.ch
	g.mu.Unlock()
	select {
	case <-ch:
		return true
	case <-ctx.Done():
		return false
	}
}

// commitWorkerLoop is the single commit worker: a tight Idle(Commit) →
// Committing → Idle(Commit) cycle, pause checked only between items,
// never mid-commit.
func (e *Engine) commitWorkerLoop(ctx context.Context) error {
	for {
		if !e.pause.wait(ctx) {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pa, ok := <-e.commitQueue:
			if !ok {
				return nil
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						e.log.Error("commit worker exception", zap.Any("panic", r), zap.String("reason", string(ReasonWorkerException)))
						e.enterTransientError()
					}
				}()
				e.processCommit(pa)
			}()
		}
	}
}

func (e *Engine) processCommit(pa *PotentialAssertion) {
	if IsTrivial(pa.Kif) {
		e.log.Debug("dropping trivial assertion", zap.String("reason", string(ReasonTrivial)))
		return
	}
	if e.kb.IsSubsumed(pa.Kif) {
		e.log.Debug("dropping subsumed assertion", zap.String("reason", string(ReasonSubsumed)))
		return
	}

	newID := e.ids.fresh("fact")
	timestamp := e.ids.nextTimestamp()

	assertion, reason, ok := e.kb.Commit(pa, newID, timestamp)
	if !ok {
		e.log.Debug("dropping assertion", zap.String("reason", string(reason)))
		return
	}

	e.sink.Notify(EventAdded, assertion)
	e.callbacks.Fire(EventAdded, assertion)
	e.notes.link(assertion.SourceNoteID, assertion.ID)

	generateTasksForAssertion(assertion, e.kb, e.rules, e.tasks)
}

// inferenceWorkerLoop is one member of the inference worker pool: it
// waits for a submission signal, then drains the priority queue until
// empty before waiting again, checking the pause gate between each task.
func (e *Engine) inferenceWorkerLoop(ctx context.Context) error {
	for {
		if !e.pause.wait(ctx) {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.tasks.Notify():
		}

		for {
			if !e.pause.wait(ctx) {
				return ctx.Err()
			}
			task, ok := e.tasks.TryTake()
			if !ok {
				break
			}
			e.stats.RecordQueueDepth(e.tasks.Len())
			e.executeInferenceTaskSafely(task)
		}
	}
}

func (e *Engine) executeInferenceTaskSafely(task *InferenceTask) {
	taskID := e.ids.fresh("task")
	e.deadlock.RegisterTask(taskID, fmt.Sprintf("kind=%d priority=%.3f", task.Kind, task.Priority))
	defer e.deadlock.UnregisterTask(taskID)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.stats.RecordTaskFailed(fmt.Errorf("panic: %v", r))
			e.log.Error("inference worker exception", zap.Any("panic", r), zap.String("reason", string(ReasonWorkerException)))
			e.enterTransientError()
			return
		}
		e.stats.RecordTaskCompleted(time.Since(start))
	}()
	e.stats.RecordTaskSubmitted()
	ExecuteTask(task, e.kb, e.cfg.SubstMaxDepth, e.submitDerived)
}

// enterTransientError implements the worker-exception recovery path: log,
// set transient Error, sleep briefly, resume Running.
func (e *Engine) enterTransientError() {
	e.state.set(StateError)
	time.Sleep(50 * time.Millisecond)
	e.state.cas(StateError, StateRunning)
}

// submitDerived hands a derived PotentialAssertion to the commit queue,
// blocking if it is full.
func (e *Engine) submitDerived(pa *PotentialAssertion) {
	e.commitQueue <- pa
}
