package reasoner

import (
	"container/heap"
	"sync"
)

// TaskKind distinguishes the two inference task shapes.
type TaskKind int

const (
	TaskMatchAntecedent TaskKind = iota
	TaskApplyOrderedRewrite
)

// MatchPayload carries the arguments of a MATCH_ANTECEDENT task: the rule
// being fired, the trigger assertion, the antecedent clauses still to be
// matched (in declared order — no reordering), the accumulated bindings,
// and the accumulated support set.
type MatchPayload struct {
	Rule           *Rule
	Trigger        *Assertion
	RemainingClauses []*List
	Bindings       Bindings
	Support        map[string]struct{}
}

// RewritePayload carries the arguments of an APPLY_ORDERED_REWRITE task:
// the oriented equality used as the rewrite rule, and the assertion being
// rewritten.
type RewritePayload struct {
	Equality *Assertion
	Target   *Assertion
}

// InferenceTask is one unit of work for an inference worker.
// Priority ordering is strictly by Priority, highest first; FIFO among
// equal priorities is unspecified (container/heap ties are arbitrary).
type InferenceTask struct {
	Kind     TaskKind
	Priority float64
	Match    *MatchPayload
	Rewrite  *RewritePayload
}

// taskHeapItem wraps an InferenceTask with its heap index.
type taskHeapItem struct {
	task  *InferenceTask
	index int
}

// taskHeap is a max-heap by task priority (container/heap.Interface).
type taskHeap []*taskHeapItem

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].task.Priority > h[j].task.Priority }
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *taskHeap) Push(x interface{}) {
	item := x.(*taskHeapItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// TaskQueue is a bounded-by-memory, non-blocking-submit max-heap priority
// queue. Neither Submit nor TryTake blocks; a worker waiting for work
// selects on the Notify channel, which is signalled on each submission.
type TaskQueue struct {
	mu     sync.Mutex
	h      taskHeap
	closed bool
	notify chan struct{}
}

func NewTaskQueue() *TaskQueue {
	h := taskHeap{}
	heap.Init(&h)
	return &TaskQueue{h: h, notify: make(chan struct{}, 1)}
}

// Submit enqueues a task. It never blocks.
func (q *TaskQueue) Submit(t *InferenceTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	heap.Push(&q.h, &taskHeapItem{task: t})
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// TryTake removes and returns the highest-priority task, or (nil, false)
// if the queue is currently empty.
func (q *TaskQueue) TryTake() (*InferenceTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.h.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&q.h).(*taskHeapItem)
	return item.task, true
}

// Len returns the current queue depth.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.h.Len()
}

// Notify returns a channel that receives a signal whenever an item is
// submitted; workers select on it between TryTake attempts to avoid a
// busy-poll loop while still honoring pause/shutdown signals.
func (q *TaskQueue) Notify() <-chan struct{} { return q.notify }

// Close marks the queue closed; further submissions are dropped.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
