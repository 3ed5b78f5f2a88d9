package reasoner

import (
	"context"
	"fmt"

	"github.com/gitrdm/kifreasoner/internal/parallel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the snapshot returned by Engine.Status.
type Status struct {
	State            EngineState
	KBSize           int
	CommitQueueDepth int
	TaskQueueDepth   int
	RuleCount        int

	TasksCompleted int64
	TasksFailed    int64
	PeakQueueDepth int
	ActiveAlerts   int64
}

// Engine is the control interface and event source: the single
// composition root wiring the commit queue, the inference task queue, the
// knowledge base, the rule store and the note↔id multimap together.
type Engine struct {
	cfg Config

	kb    *KnowledgeBase
	rules *RuleStore
	notes *noteIndex
	ids   *idGenerator

	sink      EventSink
	callbacks *callbackRegistry

	commitQueue chan *PotentialAssertion
	tasks       *TaskQueue

	pool      *parallel.StaticWorkerPool
	stats     *parallel.ExecutionStats
	deadlock  *parallel.DeadlockDetector

	state engineStateBox
	pause *pauseGate

	log *zap.Logger

	cancel context.CancelFunc
	eg     *errgroup.Group
}

// NewEngine constructs an Engine in the Idle state. cfg is normalized to
// its documented minimums. sink may be nil (events are then dropped).
func NewEngine(cfg Config, sink EventSink, log *zap.Logger) *Engine {
	cfg = cfg.normalize()
	log = newEngineLogger(log)
	if sink == nil {
		sink = EventSinkFunc(func(EventKind, *Assertion) {})
	}

	e := &Engine{
		cfg:         cfg,
		rules:       NewRuleStore(log),
		notes:       newNoteIndex(),
		ids:         newIDGenerator(),
		sink:        sink,
		callbacks:   newCallbackRegistry(),
		commitQueue: make(chan *PotentialAssertion, cfg.CommitQueueCapacity),
		tasks:       NewTaskQueue(),
		pause:       newPauseGate(),
		log:         log,
	}
	e.kb = NewKnowledgeBase(cfg.MaxKBSize, cfg.ReflexivePredicates, e.onEvict, log)
	e.state.set(StateIdle)
	return e
}

func (e *Engine) onEvict(a *Assertion) {
	e.sink.Notify(EventEvict, a)
	e.callbacks.Fire(EventEvict, a)
	e.notes.unlink(a.SourceNoteID, a.ID)
}

// Start transitions Idle → Starting → Running, launching the commit
// worker and the inference worker pool.
func (e *Engine) Start() error {
	if !e.state.cas(StateIdle, StateStarting) && !e.state.cas(StateStopped, StateStarting) {
		return fmt.Errorf("reasoner: cannot start engine in state %s", e.state.get())
	}

	ctx, cancel := context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(ctx)
	e.cancel = cancel
	e.eg = eg

	e.pool = parallel.NewStaticWorkerPool(e.cfg.InferenceWorkers)
	e.stats = parallel.NewExecutionStats()
	e.deadlock = parallel.NewDeadlockDetector(e.cfg.DeadlockTimeout, e.cfg.DeadlockCheckInterval)

	eg.Go(func() error { return e.commitWorkerLoop(egCtx) })
	eg.Go(func() error { return e.drainDeadlockAlerts(egCtx) })

	// Each inference worker loop is submitted once as a long-lived task
	// occupying one pool worker for the engine's lifetime; Submit only
	// queues the closure, it does not wait for it to return, so the pool's
	// own WaitGroup (via Shutdown) is what Stop waits on, not e.eg.
	for i := 0; i < e.cfg.InferenceWorkers; i++ {
		if err := e.pool.Submit(egCtx, func() { e.inferenceWorkerLoop(egCtx) }); err != nil {
			cancel()
			return fmt.Errorf("reasoner: starting inference worker: %w", err)
		}
	}

	e.state.set(StateRunning)
	return nil
}

// drainDeadlockAlerts logs every alert the deadlock monitor raises. A
// raised alert never cancels the offending task.
func (e *Engine) drainDeadlockAlerts(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case alert := <-e.deadlock.GetAlerts():
			e.log.Warn("inference task monitor alert",
				zap.Int("alert_type", int(alert.Type)),
				zap.String("task_id", alert.TaskID),
				zap.String("description", alert.Description))
		}
	}
}

// Stop transitions {Running, Paused} → Stopping → Stopped, canceling
// worker contexts and waiting for them to exit.
func (e *Engine) Stop() error {
	from := e.state.get()
	if from != StateRunning && from != StatePaused {
		return fmt.Errorf("reasoner: cannot stop engine in state %s", from)
	}
	e.state.set(StateStopping)
	e.pause.setPaused(false) // release anyone blocked in the pause gate so they observe ctx.Done
	if e.cancel != nil {
		e.cancel()
	}
	var err error
	if e.eg != nil {
		err = e.eg.Wait()
	}
	e.tasks.Close()
	if e.pool != nil {
		e.pool.Shutdown()
	}
	if e.deadlock != nil {
		e.deadlock.Shutdown()
	}
	if e.stats != nil {
		e.stats.Finalize()
	}
	e.state.set(StateStopped)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// Pause toggles the pause gate: Running ↔ Paused. It does not interrupt
// in-flight work.
func (e *Engine) Pause(paused bool) {
	e.pause.setPaused(paused)
	if paused {
		e.state.cas(StateRunning, StatePaused)
	} else {
		e.state.cas(StatePaused, StateRunning)
	}
}

// Status returns a snapshot of the engine's queues and stores.
func (e *Engine) Status() Status {
	s := Status{
		State:            e.state.get(),
		KBSize:           e.kb.Size(),
		CommitQueueDepth: len(e.commitQueue),
		TaskQueueDepth:   e.tasks.Len(),
		RuleCount:        len(e.rules.All()),
	}
	if e.stats != nil {
		st := e.stats.GetStats()
		s.TasksCompleted = st.TasksCompleted
		s.TasksFailed = st.TasksFailed
		s.PeakQueueDepth = st.PeakQueueDepth
	}
	if e.deadlock != nil {
		s.ActiveAlerts = e.deadlock.GetPotentialDeadlocks()
	}
	return s
}

// SubmitPotentialAssertion enqueues pa on the commit queue.
// A trivial kif is rejected immediately with a log, without occupying a
// queue slot. An empty top-level list is ignored. When pa
// carries a source note id and is a ground non-equality, an immediate
// "input" pre-commit event fires under a temporary id.
func (e *Engine) SubmitPotentialAssertion(pa *PotentialAssertion) {
	if l, ok := pa.Kif.(*List); ok && len(l.Items) == 0 {
		return
	}
	if IsTrivial(pa.Kif) {
		e.log.Debug("rejecting trivial assertion at submission", zap.String("reason", string(ReasonTrivial)))
		return
	}

	if pa.SourceNoteID != "" && !pa.IsEquality {
		if l, ok := pa.Kif.(*List); ok && l.IsGround() {
			e.sink.Notify(EventInput, &Assertion{
				ID:           e.ids.fresh("input"),
				Kif:          l,
				Priority:     pa.Priority,
				SourceNoteID: pa.SourceNoteID,
			})
		}
	}

	e.commitQueue <- pa
}

// SubmitRule parses and stores form as one or two rules, deduplicated by
// rule_form. On insertion, it triggers matching against the existing KB
//.
func (e *Engine) SubmitRule(form Term, priority float64) error {
	rules, warning, err := ParseRuleForm(form, priority, e.ids)
	if err != nil {
		e.log.Warn("rejecting invalid rule", zap.Error(err), zap.String("reason", string(ReasonInvalidRule)))
		return err
	}
	if warning != "" {
		e.log.Warn(warning)
	}

	existing := e.kb.All()
	for _, r := range rules {
		if e.rules.Add(r) {
			generateNewRuleTasks(r, existing, e.tasks)
		}
	}
	return nil
}

// RetractByID removes an assertion, emitting a retracted event and
// detaching it from the note index.
func (e *Engine) RetractByID(id string) (*Assertion, bool) {
	a, ok := e.kb.Retract(id)
	if !ok {
		return nil, false
	}
	e.notes.unlink(a.SourceNoteID, a.ID)
	e.sink.Notify(EventRetracted, a)
	e.callbacks.Fire(EventRetracted, a)
	return a, true
}

// RetractByNoteID atomically detaches noteID's id-set from the multimap
// and retracts each member.
func (e *Engine) RetractByNoteID(noteID string) []*Assertion {
	ids := e.notes.take(noteID)
	out := make([]*Assertion, 0, len(ids))
	for _, id := range ids {
		a, ok := e.kb.Retract(id)
		if !ok {
			continue
		}
		e.sink.Notify(EventRetracted, a)
		e.callbacks.Fire(EventRetracted, a)
		out = append(out, a)
	}
	return out
}

// RetractRule removes the rule whose form equals ruleForm.
func (e *Engine) RetractRule(ruleForm *List) (*Rule, bool) {
	return e.rules.Remove(ruleForm)
}

// ClearAll pauses the engine, snapshots and clears the KB and rule store,
// drains the task queue, emits a retracted event per snapshot member, and
// resumes.
func (e *Engine) ClearAll() {
	wasRunning := e.state.get() == StateRunning
	e.Pause(true)

	snapshot := e.kb.Clear()
	e.rules.Clear()
	e.notes.clear()
	for {
		if _, ok := e.tasks.TryTake(); !ok {
			break
		}
	}

	for _, a := range snapshot {
		e.sink.Notify(EventRetracted, a)
		e.callbacks.Fire(EventRetracted, a)
	}

	if wasRunning {
		e.Pause(false)
	}
}

// RegisterCallback registers fn to fire whenever an emitted event's
// assertion matches pattern.
func (e *Engine) RegisterCallback(pattern Term, fn CallbackFunc) {
	e.callbacks.Register(pattern, fn)
}
