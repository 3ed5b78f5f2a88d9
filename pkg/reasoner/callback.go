package reasoner

import "sync"

// CallbackFunc receives one event matching a registered pattern.
type CallbackFunc func(kind EventKind, a *Assertion, bindings Bindings)

type registeredCallback struct {
	pattern Term
	fn      CallbackFunc
}

// callbackRegistry holds pattern-filtered callbacks, a lock-free-for-
// readers concurrent set in spirit: a plain RWMutex-guarded
// slice, since registration is rare relative to firing.
type callbackRegistry struct {
	mu   sync.RWMutex
	subs []registeredCallback
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{}
}

// Register adds fn, invoked whenever match(pattern, assertion.kif)
// succeeds for an emitted event.
func (r *callbackRegistry) Register(pattern Term, fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, registeredCallback{pattern: pattern, fn: fn})
}

// Fire invokes every matching callback for (kind, a).
func (r *callbackRegistry) Fire(kind EventKind, a *Assertion) {
	r.mu.RLock()
	subs := append([]registeredCallback(nil), r.subs...)
	r.mu.RUnlock()

	for _, s := range subs {
		if bindings, ok := Match(s.pattern, a.Kif, NewBindings()); ok {
			s.fn(kind, a, bindings)
		}
	}
}
