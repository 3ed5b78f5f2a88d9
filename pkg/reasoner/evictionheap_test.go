package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvictionIndexPopMinOrdering(t *testing.T) {
	e := newEvictionIndex()
	e.push("low", 0.1)
	e.push("high", 0.9)
	e.push("mid", 0.5)

	id, ok := e.popMin()
	require.True(t, ok)
	require.Equal(t, "low", id)

	id, ok = e.popMin()
	require.True(t, ok)
	require.Equal(t, "mid", id)

	id, ok = e.popMin()
	require.True(t, ok)
	require.Equal(t, "high", id)

	_, ok = e.popMin()
	require.False(t, ok)
}

func TestEvictionIndexRemoveArbitrary(t *testing.T) {
	e := newEvictionIndex()
	e.push("a", 0.1)
	e.push("b", 0.2)
	e.push("c", 0.3)

	e.remove("b")
	require.Equal(t, 2, e.len())

	id, ok := e.popMin()
	require.True(t, ok)
	require.Equal(t, "a", id)

	id, ok = e.popMin()
	require.True(t, ok)
	require.Equal(t, "c", id)
}

func TestEvictionIndexRemoveMissingIsNoop(t *testing.T) {
	e := newEvictionIndex()
	e.push("a", 0.1)
	e.remove("nonexistent")
	require.Equal(t, 1, e.len())
}
