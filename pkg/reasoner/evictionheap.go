package reasoner

import "container/heap"

// heapItem is one entry in the eviction min-heap: the lowest-priority
// assertion surfaces first.
type heapItem struct {
	id       string
	priority float64
	index    int
}

// priorityHeap implements container/heap.Interface as a min-heap ordered
// by priority, with FIFO order unspecified among ties.
type priorityHeap []*heapItem

func (h priorityHeap) Len() int { return len(h) }
func (h priorityHeap) Less(i, j int) bool {
	return h[i].priority < h[j].priority
}
func (h priorityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *priorityHeap) Push(x interface{}) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *priorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// evictionIndex tracks heap membership by assertion id so retract can
// remove an arbitrary element in O(log n) via heap.Fix/heap.Remove
// instead of a linear scan.
type evictionIndex struct {
	h       priorityHeap
	byID    map[string]*heapItem
}

func newEvictionIndex() *evictionIndex {
	h := priorityHeap{}
	heap.Init(&h)
	return &evictionIndex{h: h, byID: map[string]*heapItem{}}
}

func (e *evictionIndex) push(id string, priority float64) {
	item := &heapItem{id: id, priority: priority}
	heap.Push(&e.h, item)
	e.byID[id] = item
}

// popMin removes and returns the id with the lowest priority, or ("",
// false) if empty.
func (e *evictionIndex) popMin() (string, bool) {
	if e.h.Len() == 0 {
		return "", false
	}
	item := heap.Pop(&e.h).(*heapItem)
	delete(e.byID, item.id)
	return item.id, true
}

// remove drops id from the heap if present (used by retract, which may
// target an assertion other than the current minimum).
func (e *evictionIndex) remove(id string) {
	item, ok := e.byID[id]
	if !ok {
		return
	}
	heap.Remove(&e.h, item.index)
	delete(e.byID, id)
}

func (e *evictionIndex) len() int { return len(e.byID) }
