package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func list(items ...Term) *List { return NewList(items...) }
func atom(s string) *Atom      { return NewAtom(s) }
func v(name string) *Variable  { return NewVariable(name) }

func TestUnifyAtoms(t *testing.T) {
	env, ok := Unify(atom("a"), atom("a"), NewBindings())
	require.True(t, ok)
	require.Empty(t, env)

	_, ok = Unify(atom("a"), atom("b"), NewBindings())
	require.False(t, ok)
}

func TestUnifyVariableBinding(t *testing.T) {
	env, ok := Unify(v("?x"), atom("a"), NewBindings())
	require.True(t, ok)
	require.Equal(t, atom("a"), env["?x"])
}

func TestUnifyOccursCheck(t *testing.T) {
	// ?x unifying with (f ?x) must fail.
	_, ok := Unify(v("?x"), list(atom("f"), v("?x")), NewBindings())
	require.False(t, ok)
}

func TestUnifyListsStructural(t *testing.T) {
	env, ok := Unify(
		list(atom("p"), v("?x"), atom("b")),
		list(atom("p"), atom("a"), v("?y")),
		NewBindings(),
	)
	require.True(t, ok)
	require.Equal(t, atom("a"), env["?x"])
	require.Equal(t, atom("b"), env["?y"])
}

func TestUnifyListsDifferentArity(t *testing.T) {
	_, ok := Unify(list(atom("p"), atom("a")), list(atom("p"), atom("a"), atom("b")), NewBindings())
	require.False(t, ok)
}

func TestUnifyTransitiveWalk(t *testing.T) {
	env := NewBindings()
	env, ok := Unify(v("?x"), v("?y"), env)
	require.True(t, ok)
	env, ok = Unify(v("?y"), atom("a"), env)
	require.True(t, ok)
	require.Equal(t, atom("a"), walk(v("?x"), env))
}

func TestMatchOneWay(t *testing.T) {
	// Pattern variables bind; term is never constrained.
	env, ok := Match(list(atom("p"), v("?x")), list(atom("p"), v("?y")), NewBindings())
	require.True(t, ok)
	require.Equal(t, v("?y"), env["?x"])
}

func TestMatchRejectsMismatchedStructure(t *testing.T) {
	_, ok := Match(list(atom("p"), atom("a")), list(atom("q"), atom("a")), NewBindings())
	require.False(t, ok)
}

func TestMatchRepeatedPatternVariable(t *testing.T) {
	env, ok := Match(list(atom("p"), v("?x"), v("?x")), list(atom("p"), atom("a"), atom("a")), NewBindings())
	require.True(t, ok)
	require.Equal(t, atom("a"), env["?x"])

	_, ok = Match(list(atom("p"), v("?x"), v("?x")), list(atom("p"), atom("a"), atom("b")), NewBindings())
	require.False(t, ok)
}

func TestSubstituteFixpoint(t *testing.T) {
	env := Bindings{"?x": v("?y"), "?y": atom("a")}
	result, hitCap := Substitute(v("?x"), env, 10)
	require.False(t, hitCap)
	require.Equal(t, atom("a"), result)
}

func TestSubstituteDepthCap(t *testing.T) {
	// A binding cycle never reaches a fixpoint within the cap.
	env := Bindings{"?x": list(atom("f"), v("?y")), "?y": list(atom("f"), v("?x"))}
	_, hitCap := Substitute(v("?x"), env, 3)
	require.True(t, hitCap)
}

func TestRewriteTopLevel(t *testing.T) {
	lhs := list(atom("f"), v("?x"))
	rhs := v("?x")
	target := list(atom("f"), atom("a"))

	result, ok := Rewrite(target, lhs, rhs, 10)
	require.True(t, ok)
	require.Equal(t, atom("a"), result)
}

func TestRewriteLeftmostOutermostSubterm(t *testing.T) {
	lhs := list(atom("f"), v("?x"))
	rhs := atom("done")
	target := list(atom("g"), list(atom("f"), atom("a")), list(atom("f"), atom("b")))

	result, ok := Rewrite(target, lhs, rhs, 10)
	require.True(t, ok)
	require.Equal(t, list(atom("g"), atom("done"), list(atom("f"), atom("b"))), result)
}

func TestRewriteNoMatch(t *testing.T) {
	lhs := list(atom("f"), v("?x"))
	rhs := atom("done")
	target := list(atom("g"), atom("a"))

	_, ok := Rewrite(target, lhs, rhs, 10)
	require.False(t, ok)
}
