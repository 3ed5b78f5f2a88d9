package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTrivialReflexiveEquality(t *testing.T) {
	require.True(t, IsTrivial(list(atom("="), atom("a"), atom("a"))))
	require.False(t, IsTrivial(list(atom("="), atom("a"), atom("b"))))
}

func TestIsTrivialReflexivePredicate(t *testing.T) {
	require.True(t, IsTrivial(list(atom("instance"), atom("x"), atom("x"))))
	require.False(t, IsTrivial(list(atom("instance"), atom("x"), atom("y"))))
	require.False(t, IsTrivial(list(atom("likes"), atom("x"), atom("x"))))
}

func TestIsTrivialWrongArity(t *testing.T) {
	require.False(t, IsTrivial(list(atom("="), atom("a"))))
	require.False(t, IsTrivial(atom("a")))
}

func TestEqualityShapeOriented(t *testing.T) {
	eq, oriented, lhs, rhs := equalityShape(list(atom("="), list(atom("f"), atom("a")), atom("a")))
	require.True(t, eq)
	require.True(t, oriented)
	require.Equal(t, list(atom("f"), atom("a")), lhs)
	require.Equal(t, atom("a"), rhs)
}

func TestEqualityShapeUnorientedWhenEqualWeight(t *testing.T) {
	_, oriented, _, _ := equalityShape(list(atom("="), atom("a"), atom("b")))
	require.False(t, oriented)
}

func TestEqualityShapeNotEquality(t *testing.T) {
	eq, _, _, _ := equalityShape(list(atom("likes"), atom("a"), atom("b")))
	require.False(t, eq)
}

func TestNewPotentialAssertionDerivesShape(t *testing.T) {
	pa := NewPotentialAssertion(list(atom("="), list(atom("f"), atom("a")), atom("a")), 1.0, nil, "src", "note1")
	require.True(t, pa.IsEquality)
	require.True(t, pa.IsOrientedEquality)
	require.NotNil(t, pa.Support)
	require.Empty(t, pa.Support)
}

func TestCloneSupportIsIndependent(t *testing.T) {
	original := map[string]struct{}{"a": {}}
	clone := cloneSupport(original)
	clone["b"] = struct{}{}
	require.NotContains(t, original, "b")
}

func TestAssertionLhsRhs(t *testing.T) {
	a := &Assertion{Kif: list(atom("="), atom("a"), atom("b"))}
	require.Equal(t, atom("a"), a.Lhs())
	require.Equal(t, atom("b"), a.Rhs())
}
