package reasoner

// Bindings maps a variable name to the term it is bound to. A single
// Bindings value is shared across one unification/matching attempt; it is
// treated as copy-on-write so that backtracking (a failed alternative) never
// corrupts a sibling attempt's environment.
type Bindings map[string]Term

// NewBindings returns an empty binding environment.
func NewBindings() Bindings { return Bindings{} }

func (b Bindings) with(name string, t Term) Bindings {
	next := make(Bindings, len(b)+1)
	for k, v := range b {
		next[k] = v
	}
	next[name] = t
	return next
}

// walk follows a chain of variable bindings to its final value. Unbound
// variables and non-variables are returned unchanged.
func walk(t Term, env Bindings) Term {
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		bound, ok := env[v.Name]
		if !ok {
			return t
		}
		t = bound
	}
}

// Unify performs standard Robinson unification with occurs check. Binding a
// variable v to a term t transitively follows any existing binding of t
// (via walk) and rejects the binding if v occurs in the fully substituted
// t.
func Unify(x, y Term, env Bindings) (Bindings, bool) {
	x = walk(x, env)
	y = walk(y, env)

	if x.Equal(y) {
		return env, true
	}

	if xv, ok := x.(*Variable); ok {
		return bindVariable(xv, y, env)
	}
	if yv, ok := y.(*Variable); ok {
		return bindVariable(yv, x, env)
	}

	xl, xok := x.(*List)
	yl, yok := y.(*List)
	if xok && yok {
		if len(xl.Items) != len(yl.Items) {
			return nil, false
		}
		cur := env
		for i := range xl.Items {
			var ok bool
			cur, ok = Unify(xl.Items[i], yl.Items[i], cur)
			if !ok {
				return nil, false
			}
		}
		return cur, true
	}

	return nil, false
}

func bindVariable(v *Variable, t Term, env Bindings) (Bindings, bool) {
	if occursIn(v, t, env) {
		return nil, false
	}
	return env.with(v.Name, t), true
}

// occursIn reports whether v appears anywhere in the fully-walked structure
// of t.
func occursIn(v *Variable, t Term, env Bindings) bool {
	t = walk(t, env)
	if tv, ok := t.(*Variable); ok {
		return tv.Name == v.Name
	}
	if l, ok := t.(*List); ok {
		for _, it := range l.Items {
			if occursIn(v, it, env) {
				return true
			}
		}
	}
	return false
}

// Match performs one-way matching: only variables occurring in pattern may
// be bound; term is never walked or constrained beyond structural
// comparison. If a pattern variable is already bound, matching recurses on
// the prior binding against term.
func Match(pattern, term Term, env Bindings) (Bindings, bool) {
	if pv, ok := pattern.(*Variable); ok {
		if bound, ok := env[pv.Name]; ok {
			return Match(bound, term, env)
		}
		return env.with(pv.Name, term), true
	}

	switch p := pattern.(type) {
	case *Atom:
		a, ok := term.(*Atom)
		return env, ok && p.Text == a.Text
	case *List:
		l, ok := term.(*List)
		if !ok || len(p.Items) != len(l.Items) {
			return nil, false
		}
		cur := env
		for i := range p.Items {
			var ok2 bool
			cur, ok2 = Match(p.Items[i], l.Items[i], cur)
			if !ok2 {
				return nil, false
			}
		}
		return cur, true
	default:
		return nil, false
	}
}

// substituteOnce applies env to every variable occurrence in t in a single
// pass (variables introduced by one binding are not further substituted
// until the next pass).
func substituteOnce(t Term, env Bindings) Term {
	switch v := t.(type) {
	case *Variable:
		if bound, ok := env[v.Name]; ok {
			return bound
		}
		return t
	case *List:
		changed := false
		items := make([]Term, len(v.Items))
		for i, it := range v.Items {
			ni := substituteOnce(it, env)
			items[i] = ni
			if ni != it {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return NewList(items...)
	default:
		return t
	}
}

// Substitute applies env to t, then re-applies up to maxDepth times until a
// fixpoint is reached. The second return value is true if the depth cap
// was hit before a fixpoint — callers should log a substitution-depth-
// exceeded warning and use the returned (non-fixpoint) term as-is.
func Substitute(t Term, env Bindings, maxDepth int) (Term, bool) {
	cur := t
	for i := 0; i < maxDepth; i++ {
		next := substituteOnce(cur, env)
		if next.Equal(cur) {
			return next, false
		}
		cur = next
	}
	return cur, true
}

// Rewrite finds the first leftmost-outermost subterm of target matching
// lhs and returns target with that subterm replaced by rhs under the
// matched bindings. The caller is expected to only invoke Rewrite with
// oriented equalities.
func Rewrite(target, lhs, rhs Term, maxDepth int) (Term, bool) {
	if env, ok := Match(lhs, target, NewBindings()); ok {
		substituted, _ := Substitute(rhs, env, maxDepth)
		return substituted, true
	}
	if l, ok := target.(*List); ok {
		for i, child := range l.Items {
			if newChild, matched := Rewrite(child, lhs, rhs, maxDepth); matched {
				items := make([]Term, len(l.Items))
				copy(items, l.Items)
				items[i] = newChild
				return NewList(items...), true
			}
		}
	}
	return nil, false
}
