package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestKB(maxSize int) *KnowledgeBase {
	return NewKnowledgeBase(maxSize, nil, nil, nil)
}

func TestKBCommitAndGet(t *testing.T) {
	kb := newTestKB(10)
	pa := NewPotentialAssertion(list(atom("likes"), atom("tom"), atom("jerry")), 0.5, nil, "", "")

	a, reason, ok := kb.Commit(pa, "a1", 1)
	require.True(t, ok)
	require.Empty(t, reason)
	require.Equal(t, 1, kb.Size())

	got, found := kb.GetAssertion("a1")
	require.True(t, found)
	require.Same(t, a, got)
}

func TestKBCommitRejectsTrivial(t *testing.T) {
	kb := newTestKB(10)
	pa := NewPotentialAssertion(list(atom("="), atom("a"), atom("a")), 0.5, nil, "", "")

	_, reason, ok := kb.Commit(pa, "a1", 1)
	require.False(t, ok)
	require.Equal(t, ReasonTrivial, reason)
}

func TestKBCommitRejectsNonGroundNonEquality(t *testing.T) {
	kb := newTestKB(10)
	pa := NewPotentialAssertion(list(atom("likes"), v("?x"), atom("jerry")), 0.5, nil, "", "")

	_, reason, ok := kb.Commit(pa, "a1", 1)
	require.False(t, ok)
	require.Equal(t, ReasonNonGround, reason)
}

func TestKBCommitRejectsDuplicate(t *testing.T) {
	kb := newTestKB(10)
	kif := list(atom("likes"), atom("tom"), atom("jerry"))
	pa := NewPotentialAssertion(kif, 0.5, nil, "", "")

	_, _, ok := kb.Commit(pa, "a1", 1)
	require.True(t, ok)

	_, reason, ok := kb.Commit(NewPotentialAssertion(kif, 0.5, nil, "", ""), "a2", 2)
	require.False(t, ok)
	require.Equal(t, ReasonDuplicate, reason)
}

func TestKBCommitEvictsAtCapacity(t *testing.T) {
	var evicted []*Assertion
	kb := NewKnowledgeBase(2, nil, func(a *Assertion) { evicted = append(evicted, a) }, nil)

	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.1, nil, "", ""), "low", 1)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("b")), 0.9, nil, "", ""), "high", 2)
	_, _, ok := kb.Commit(NewPotentialAssertion(list(atom("p"), atom("c")), 0.5, nil, "", ""), "mid", 3)

	require.True(t, ok)
	require.Equal(t, 2, kb.Size())
	require.Len(t, evicted, 1)
	require.Equal(t, "low", evicted[0].ID)
}

func TestKBRetract(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", ""), "a1", 1)

	a, ok := kb.Retract("a1")
	require.True(t, ok)
	require.Equal(t, "a1", a.ID)
	require.Equal(t, 0, kb.Size())

	_, ok = kb.Retract("a1")
	require.False(t, ok)
}

func TestKBIsSubsumed(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("="), list(atom("f"), v("?x")), v("?x")), 0.9, nil, "", ""), "rule-like", 1)

	require.True(t, kb.IsSubsumed(list(atom("="), list(atom("f"), atom("a")), atom("a"))))
	require.False(t, kb.IsSubsumed(list(atom("="), list(atom("g"), atom("a")), atom("a"))))
}

func TestKBFindUnifiableAssertions(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", ""), "a1", 1)
	kb.Commit(NewPotentialAssertion(list(atom("q"), atom("a")), 0.5, nil, "", ""), "a2", 2)

	matches := kb.FindUnifiableAssertions(list(atom("p"), v("?x")))
	require.Len(t, matches, 1)
	require.Equal(t, "a1", matches[0].ID)
}

func TestKBFindInstancesOf(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", ""), "a1", 1)

	matches := kb.FindInstancesOf(list(atom("p"), v("?x")))
	require.Len(t, matches, 1)
}

func TestKBFindExact(t *testing.T) {
	kb := newTestKB(10)
	kif := list(atom("p"), atom("a"))
	kb.Commit(NewPotentialAssertion(kif, 0.5, nil, "", ""), "a1", 1)

	found, ok := kb.FindExact(kif)
	require.True(t, ok)
	require.Equal(t, "a1", found.ID)

	_, ok = kb.FindExact(list(atom("p"), atom("b")))
	require.False(t, ok)
}

func TestKBAllOrientedEqualities(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("="), list(atom("f"), atom("a")), atom("a")), 0.5, nil, "", ""), "eq1", 1)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", ""), "p1", 2)

	eqs := kb.AllOrientedEqualities()
	require.Len(t, eqs, 1)
	require.Equal(t, "eq1", eqs[0].ID)
}

func TestKBClearReturnsSnapshot(t *testing.T) {
	kb := newTestKB(10)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("a")), 0.5, nil, "", ""), "a1", 1)
	kb.Commit(NewPotentialAssertion(list(atom("p"), atom("b")), 0.5, nil, "", ""), "a2", 2)

	snapshot := kb.Clear()
	require.Len(t, snapshot, 2)
	require.Equal(t, 0, kb.Size())
}
