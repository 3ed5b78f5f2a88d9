package reasoner

import (
	"sync"

	"go.uber.org/zap"
)

// KnowledgeBase is the assertion store: a map by id, a PathIndex, a
// min-priority eviction heap, and a single read-write lock serializing
// commit/retract against readers.
type KnowledgeBase struct {
	mu      sync.RWMutex
	byID    map[string]*Assertion
	index   *PathIndex
	evict   *evictionIndex
	maxSize int
	onEvict func(*Assertion)
	reflexive map[string]struct{}
	log     *zap.Logger
}

// NewKnowledgeBase constructs an empty KB. onEvict is invoked whenever
// capacity eviction removes an assertion; it runs while Commit still holds
// the write lock (see Commit's doc comment).
func NewKnowledgeBase(maxSize int, reflexive map[string]struct{}, onEvict func(*Assertion), log *zap.Logger) *KnowledgeBase {
	if reflexive == nil {
		reflexive = ReflexivePredicates
	}
	return &KnowledgeBase{
		byID:      make(map[string]*Assertion),
		index:     NewPathIndex(),
		evict:     newEvictionIndex(),
		maxSize:   maxSize,
		onEvict:   onEvict,
		reflexive: reflexive,
		log:       newEngineLogger(log),
	}
}

// Commit attempts to insert pa as a new Assertion with the given id and
// timestamp: triviality, duplicate and capacity checks, then store. It is
// write-locked: KB insertion, index update and eviction-heap push are
// atomic with respect to concurrent readers. Eviction notifications are
// invoked through onEvict while still holding the write lock, after the
// new assertion (if any) has been stored; the engine's onEvict emits the
// public "evict" event from there.
func (kb *KnowledgeBase) Commit(pa *PotentialAssertion, newID string, timestamp int64) (*Assertion, DropReason, bool) {
	if IsTrivial(pa.Kif) {
		return nil, ReasonTrivial, false
	}

	kif, ok := pa.Kif.(*List)
	if !ok {
		return nil, ReasonNonGround, false
	}

	ground := kif.IsGround()
	if !pa.IsEquality && !ground {
		return nil, ReasonNonGround, false
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if ground {
		for id := range kb.index.FindInstances(kif) {
			if existing, ok := kb.byID[id]; ok && existing.Kif.Equal(kif) {
				return nil, ReasonDuplicate, false
			}
		}
	}

	var evicted []*Assertion
	for kb.evict.len() >= kb.maxSize {
		id, ok := kb.evict.popMin()
		if !ok {
			break
		}
		a, stillPresent := kb.byID[id]
		if !stillPresent {
			continue
		}
		delete(kb.byID, id)
		kb.index.Remove(id)
		evicted = append(evicted, a)
	}

	if kb.evict.len() >= kb.maxSize {
		kb.log.Warn("kb full after eviction attempt", zap.String("reason", string(ReasonKBFull)))
		for _, a := range evicted {
			kb.notifyEvicted(a)
		}
		return nil, ReasonKBFull, false
	}

	if _, collide := kb.byID[newID]; collide {
		kb.log.Error("assertion id collision", zap.String("id", newID))
		for _, a := range evicted {
			kb.notifyEvicted(a)
		}
		return nil, ReasonIDCollision, false
	}

	isEq, isOriented, _, _ := equalityShape(kif)
	assertion := &Assertion{
		ID:                 newID,
		Kif:                kif,
		Priority:           pa.Priority,
		Timestamp:          timestamp,
		SourceNoteID:       pa.SourceNoteID,
		Support:            cloneSupport(pa.Support),
		IsEquality:         isEq,
		IsOrientedEquality: isOriented,
	}

	kb.byID[newID] = assertion
	kb.index.Insert(newID, assertion.Kif)
	kb.evict.push(newID, assertion.Priority)

	for _, a := range evicted {
		kb.notifyEvicted(a)
	}

	return assertion, "", true
}

func (kb *KnowledgeBase) notifyEvicted(a *Assertion) {
	if kb.onEvict != nil {
		kb.onEvict(a)
	}
}

// Retract removes id from the store, index and eviction heap, returning
// the removed assertion.
func (kb *KnowledgeBase) Retract(id string) (*Assertion, bool) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	a, ok := kb.byID[id]
	if !ok {
		return nil, false
	}
	delete(kb.byID, id)
	kb.index.Remove(id)
	kb.evict.remove(id)
	return a, true
}

// IsSubsumed reports whether some stored generalization already matches
// kif (forward subsumption).
func (kb *KnowledgeBase) IsSubsumed(kif Term) bool {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	for id := range kb.index.FindGeneralizations(kif) {
		a, ok := kb.byID[id]
		if !ok {
			continue
		}
		if _, matched := Match(a.Kif, kif, NewBindings()); matched {
			return true
		}
	}
	return false
}

// FindUnifiableAssertions returns a snapshot of assertions whose Kif may
// unify with q, verified precisely.
func (kb *KnowledgeBase) FindUnifiableAssertions(q Term) []*Assertion {
	kb.mu.RLock()
	candidates := kb.index.FindUnifiable(q)
	out := make([]*Assertion, 0, len(candidates))
	for id := range candidates {
		a, ok := kb.byID[id]
		if !ok {
			continue
		}
		if _, unified := Unify(q, a.Kif, NewBindings()); unified {
			out = append(out, a)
		}
	}
	kb.mu.RUnlock()
	return out
}

// FindInstancesOf returns a snapshot of assertions whose Kif is an
// instance of pattern p, verified precisely with Match.
func (kb *KnowledgeBase) FindInstancesOf(p Term) []*Assertion {
	kb.mu.RLock()
	candidates := kb.index.FindInstances(p)
	out := make([]*Assertion, 0, len(candidates))
	for id := range candidates {
		a, ok := kb.byID[id]
		if !ok {
			continue
		}
		if _, matched := Match(p, a.Kif, NewBindings()); matched {
			out = append(out, a)
		}
	}
	kb.mu.RUnlock()
	return out
}

// FindExact returns the assertion whose Kif equals groundKif exactly, if
// any.
func (kb *KnowledgeBase) FindExact(groundKif Term) (*Assertion, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	for id := range kb.index.FindInstances(groundKif) {
		if a, ok := kb.byID[id]; ok && a.Kif.Equal(groundKif) {
			return a, true
		}
	}
	return nil, false
}

// GetAssertion returns the assertion stored under id, if present.
func (kb *KnowledgeBase) GetAssertion(id string) (*Assertion, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	a, ok := kb.byID[id]
	return a, ok
}

// AllOrientedEqualities returns a snapshot of every currently-stored
// oriented equality, used by task generation's rewrite-firing scan
//.
func (kb *KnowledgeBase) AllOrientedEqualities() []*Assertion {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	var out []*Assertion
	for _, a := range kb.byID {
		if a.IsOrientedEquality {
			out = append(out, a)
		}
	}
	return out
}

// All returns a snapshot of every stored assertion.
func (kb *KnowledgeBase) All() []*Assertion {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]*Assertion, 0, len(kb.byID))
	for _, a := range kb.byID {
		out = append(out, a)
	}
	return out
}

// Size returns the current assertion count.
func (kb *KnowledgeBase) Size() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.byID)
}

// Clear removes every assertion, returning the removed snapshot. Callers
// (Engine.ClearAll) are responsible for pausing the engine around this
// call.
func (kb *KnowledgeBase) Clear() []*Assertion {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	out := make([]*Assertion, 0, len(kb.byID))
	for _, a := range kb.byID {
		out = append(out, a)
	}
	kb.byID = make(map[string]*Assertion)
	kb.index = NewPathIndex()
	kb.evict = newEvictionIndex()
	return out
}
