package reasoner

// SubmitFunc hands a derived PotentialAssertion to the commit queue. The
// inference workers never touch the commit queue's internals directly;
// they call this closure instead.
type SubmitFunc func(*PotentialAssertion)

// ExecuteTask runs one InferenceTask to completion, submitting zero or more
// derived PotentialAssertions via submit (a rewrite task submits at most
// one; a match task submits one per successful set of clause matches). maxDepth bounds the substitution
// fixpoint loop.
func ExecuteTask(task *InferenceTask, kb *KnowledgeBase, maxDepth int, submit SubmitFunc) {
	switch task.Kind {
	case TaskMatchAntecedent:
		executeMatchAntecedent(task.Match, kb, maxDepth, submit)
	case TaskApplyOrderedRewrite:
		executeApplyOrderedRewrite(task.Rewrite, kb, maxDepth, submit)
	}
}

// executeMatchAntecedent runs the MATCH_ANTECEDENT task, recursing over
// the remaining antecedent clauses in declared order.
func executeMatchAntecedent(p *MatchPayload, kb *KnowledgeBase, maxDepth int, submit SubmitFunc) {
	if len(p.RemainingClauses) == 0 {
		d, _ := Substitute(p.Rule.Consequent, p.Bindings, maxDepth)
		dl, ok := d.(*List)
		if !ok || !dl.IsGround() || IsTrivial(dl) {
			return
		}
		support := cloneSupport(p.Support)
		support[p.Trigger.ID] = struct{}{}
		priority := derivedPriority(support, p.Rule.Priority, kb)
		noteID := commonNoteID(support, kb)
		submit(NewPotentialAssertion(dl, priority, support, p.Rule.ID, noteID))
		return
	}

	clause := p.RemainingClauses[0]
	rest := p.RemainingClauses[1:]
	cPrime, _ := Substitute(clause, p.Bindings, maxDepth)
	cPrimeList, ok := cPrime.(*List)
	if !ok {
		return
	}

	for _, a := range kb.FindUnifiableAssertions(cPrimeList) {
		env, ok := Unify(cPrimeList, a.Kif, p.Bindings)
		if !ok {
			continue
		}
		support := cloneSupport(p.Support)
		support[a.ID] = struct{}{}
		executeMatchAntecedent(&MatchPayload{
			Rule:             p.Rule,
			Trigger:          p.Trigger,
			RemainingClauses: rest,
			Bindings:         env,
			Support:          support,
		}, kb, maxDepth, submit)
	}
}

// executeApplyOrderedRewrite runs the APPLY_ORDERED_REWRITE task.
func executeApplyOrderedRewrite(p *RewritePayload, kb *KnowledgeBase, maxDepth int, submit SubmitFunc) {
	e, t := p.Equality, p.Target
	if !e.IsEquality || !e.IsOrientedEquality || len(e.Kif.Items) != 3 {
		return
	}
	lhs, rhs := e.Lhs(), e.Rhs()

	rewritten, changed := Rewrite(t.Kif, lhs, rhs, maxDepth)
	if !changed {
		return
	}
	tPrime, ok := rewritten.(*List)
	if !ok || tPrime.Equal(t.Kif) || IsTrivial(tPrime) {
		return
	}

	support := cloneSupport(t.Support)
	support[t.ID] = struct{}{}
	support[e.ID] = struct{}{}

	priority := derivedPriority(support, (e.Priority+t.Priority)/2, kb)
	noteID := commonNoteID(support, kb)

	submit(NewPotentialAssertion(tPrime, priority, support, e.ID, noteID))
}
