package reasoner

// derivedPriority computes a derived fact's priority: an empty support set
// yields the base priority unchanged; otherwise the priority decays to
// 0.95 of the lowest priority among the resolvable members of its
// support, biasing the search toward shallow derivations. If no support
// member resolves in the KB, it falls back to base.
func derivedPriority(support map[string]struct{}, base float64, kb *KnowledgeBase) float64 {
	if len(support) == 0 {
		return base
	}
	min, found := 0.0, false
	for id := range support {
		a, ok := kb.GetAssertion(id)
		if !ok {
			continue
		}
		if !found || a.Priority < min {
			min, found = a.Priority, true
		}
	}
	if !found {
		return base
	}
	return 0.95 * min
}

// commonNoteID performs a breadth-first walk over the support set looking
// for a single, consistent source note id. An
// assertion with no note id defers to its own support; a conflicting note
// id, or a support assertion missing from the KB, abandons the search and
// returns "" (none).
func commonNoteID(support map[string]struct{}, kb *KnowledgeBase) string {
	visited := map[string]struct{}{}
	queue := make([]string, 0, len(support))
	for id := range support {
		queue = append(queue, id)
	}

	found := ""
	haveFound := false

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}

		a, ok := kb.GetAssertion(id)
		if !ok {
			return ""
		}
		if a.SourceNoteID != "" {
			if !haveFound {
				found, haveFound = a.SourceNoteID, true
			} else if found != a.SourceNoteID {
				return ""
			}
			continue
		}
		for sid := range a.Support {
			queue = append(queue, sid)
		}
	}

	return found
}
