package reasoner

// generateTasksForAssertion enqueues rule-firing MATCH tasks and
// rewrite-firing REWRITE tasks onto queue for a newly committed
// assertion n.
func generateTasksForAssertion(n *Assertion, kb *KnowledgeBase, rules *RuleStore, queue *TaskQueue) {
	generateRuleFiringTasks(n, rules.All(), queue)
	generateRewriteFiringTasks(n, kb, queue)
}

// generateRuleFiringTasks attempts to fire every candidate rule's
// antecedent clauses against n (and is reused, with the full assertion
// snapshot, for newly-added-rule firing).
func generateRuleFiringTasks(n *Assertion, candidateRules []*Rule, queue *TaskQueue) {
	for _, r := range candidateRules {
		for i, c := range r.AntecedentClauses {
			op, hasOp := Operator(c)
			nOp, nHasOp := Operator(n.Kif)
			if hasOp && (!nHasOp || op != nOp) {
				continue
			}
			bindings, ok := Unify(c, n.Kif, NewBindings())
			if !ok {
				continue
			}
			remaining := remainingClauses(r.AntecedentClauses, i)
			queue.Submit(&InferenceTask{
				Kind:     TaskMatchAntecedent,
				Priority: (r.Priority + n.Priority) / 2,
				Match: &MatchPayload{
					Rule:             r,
					Trigger:          n,
					RemainingClauses: remaining,
					Bindings:         bindings,
					Support:          map[string]struct{}{n.ID: {}},
				},
			})
		}
	}
}

// generateNewRuleTasks fires a newly added rule r against every existing
// assertion.
func generateNewRuleTasks(r *Rule, existing []*Assertion, queue *TaskQueue) {
	for _, a := range existing {
		generateRuleFiringTasks(a, []*Rule{r}, queue)
	}
}

func remainingClauses(clauses []*List, matchedIndex int) []*List {
	out := make([]*List, 0, len(clauses)-1)
	for i, c := range clauses {
		if i == matchedIndex {
			continue
		}
		out = append(out, c)
	}
	return out
}

// generateRewriteFiringTasks enqueues REWRITE tasks triggered by n.
//
// lhs may occur nested inside a candidate's Kif rather than at its top
// level (e.g. lhs=(double 2) inside (likes Sam (double 2))), so candidates
// are tested with a subterm-aware walk rather than a whole-term
// Match/FindInstancesOf check, which only ever sees the top-level form.
// The path index has no subterm-containment query (spec.md's three
// candidate-set queries are FindUnifiable/FindInstances/
// FindGeneralizations, none of which answer "does t occur somewhere
// inside this assertion"), so the candidate set here is the full
// knowledge base, verified precisely per candidate by hasRewritableSubterm.
func generateRewriteFiringTasks(n *Assertion, kb *KnowledgeBase, queue *TaskQueue) {
	if n.IsOrientedEquality {
		lhs := n.Lhs()
		for _, m := range kb.All() {
			if m.ID == n.ID {
				continue
			}
			if !hasRewritableSubterm(lhs, m.Kif) {
				continue
			}
			queue.Submit(&InferenceTask{
				Kind:     TaskApplyOrderedRewrite,
				Priority: (n.Priority + m.Priority) / 2,
				Rewrite:  &RewritePayload{Equality: n, Target: m},
			})
		}
		return
	}

	for _, e := range kb.AllOrientedEqualities() {
		lhs := e.Lhs()
		if !hasRewritableSubterm(lhs, n.Kif) {
			continue
		}
		queue.Submit(&InferenceTask{
			Kind:     TaskApplyOrderedRewrite,
			Priority: (n.Priority + e.Priority) / 2,
			Rewrite:  &RewritePayload{Equality: e, Target: n},
		})
	}
}

// hasRewritableSubterm reports whether lhs matches term or any subterm of
// term, mirroring the traversal Rewrite itself performs so that a task is
// only enqueued when Rewrite is guaranteed to find something to do.
func hasRewritableSubterm(lhs, term Term) bool {
	if _, ok := Match(lhs, term, NewBindings()); ok {
		return true
	}
	l, ok := term.(*List)
	if !ok {
		return false
	}
	for _, child := range l.Items {
		if hasRewritableSubterm(lhs, child) {
			return true
		}
	}
	return false
}
