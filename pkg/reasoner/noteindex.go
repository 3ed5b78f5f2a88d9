package reasoner

import "sync"

// noteIndex is the external note↔id multimap. Like the
// rule store, it favors a simple RWMutex-guarded map over a lock-free
// structure: single-writer semantics are not required, and writes
// (link/unlink) are far rarer than the steady stream of commits that
// never touch a note id at all.
type noteIndex struct {
	mu     sync.RWMutex
	byNote map[string]map[string]struct{}
}

func newNoteIndex() *noteIndex {
	return &noteIndex{byNote: make(map[string]map[string]struct{})}
}

// link records that assertionID was derived under noteID. A blank noteID
// is a no-op.
func (n *noteIndex) link(noteID, assertionID string) {
	if noteID == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.byNote[noteID]
	if !ok {
		set = make(map[string]struct{})
		n.byNote[noteID] = set
	}
	set[assertionID] = struct{}{}
}

// unlink removes assertionID from noteID's set, dropping the set entirely
// once empty.
func (n *noteIndex) unlink(noteID, assertionID string) {
	if noteID == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.byNote[noteID]
	if !ok {
		return
	}
	delete(set, assertionID)
	if len(set) == 0 {
		delete(n.byNote, noteID)
	}
}

// take atomically removes and returns every assertion id linked to
// noteID, for retract_by_note_id's atomic detach-then-retract.
func (n *noteIndex) take(noteID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.byNote[noteID]
	if !ok {
		return nil
	}
	delete(n.byNote, noteID)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// clear removes every note mapping, e.g. for clear_all.
func (n *noteIndex) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byNote = make(map[string]map[string]struct{})
}
