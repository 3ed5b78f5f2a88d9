package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerivedPriorityEmptySupportReturnsBase(t *testing.T) {
	kb := newTestKB(10)
	require.Equal(t, 0.7, derivedPriority(map[string]struct{}{}, 0.7, kb))
}

func TestDerivedPriorityDecaysFromMinSupport(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.8, nil, "", ""), "a1", 1)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("b")), 0.2, nil, "", ""), "a2", 2)

	priority := derivedPriority(map[string]struct{}{"a1": {}, "a2": {}}, 0.5, kb)
	require.InDelta(t, 0.95*0.2, priority, 1e-9)
}

func TestDerivedPriorityFallsBackWhenSupportUnresolvable(t *testing.T) {
	kb := newTestKB(10)
	priority := derivedPriority(map[string]struct{}{"missing": {}}, 0.6, kb)
	require.Equal(t, 0.6, priority)
}

func TestCommonNoteIDSingleSource(t *testing.T) {
	kb := newTestKB(10)
	pa := NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", "note1")
	kb.Commit(pa, "a1", 1)

	noteID := commonNoteID(map[string]struct{}{"a1": {}}, kb)
	require.Equal(t, "note1", noteID)
}

func TestCommonNoteIDWalksSupportChain(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", "note1"), "root", 1)
	derived := NewPotentialAssertion(list(atom("q"), atom("a")), 0.5, map[string]struct{}{"root": {}}, "", "")
	kb.Commit(derived, "derived1", 2)

	noteID := commonNoteID(map[string]struct{}{"derived1": {}}, kb)
	require.Equal(t, "note1", noteID)
}

func TestCommonNoteIDConflictReturnsEmpty(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", "note1"), "a1", 1)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("b")), 0.5, nil, "", "note2"), "a2", 2)

	noteID := commonNoteID(map[string]struct{}{"a1": {}, "a2": {}}, kb)
	require.Empty(t, noteID)
}

func TestCommonNoteIDMissingSupportReturnsEmpty(t *testing.T) {
	kb := newTestKB(10)
	noteID := commonNoteID(map[string]struct{}{"missing": {}}, kb)
	require.Empty(t, noteID)
}
