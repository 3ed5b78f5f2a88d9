package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRuleFormImplication(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("=>"),
		list(atom("human"), v("?x")),
		list(atom("mortal"), v("?x")),
	)

	rules, warning, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].AntecedentClauses, 1)
}

func TestParseRuleFormConjunctiveAntecedent(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("=>"),
		list(atom("and"),
			list(atom("parent"), v("?x"), v("?y")),
			list(atom("parent"), v("?y"), v("?z")),
		),
		list(atom("grandparent"), v("?x"), v("?z")),
	)

	rules, _, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].AntecedentClauses, 2)
}

func TestParseRuleFormBiconditionalYieldsTwoRules(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("<=>"), list(atom("p"), v("?x")), list(atom("q"), v("?x")))

	rules, _, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestParseRuleFormForallUnwrapped(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("forall"), list(v("?x")),
		list(atom("=>"), list(atom("p"), v("?x")), list(atom("q"), v("?x"))),
	)

	rules, _, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestParseRuleFormUnboundConsequentVariableWarns(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("=>"), list(atom("p"), v("?x")), list(atom("q"), v("?y")))

	rules, warning, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NotEmpty(t, warning)
}

func TestParseRuleFormExistsQuantifiedConsequentVariableNoWarning(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("=>"),
		list(atom("p"), v("?x")),
		list(atom("exists"), list(v("?y")), list(atom("q"), v("?y"))),
	)

	_, warning, err := ParseRuleForm(form, 1.0, ids)
	require.NoError(t, err)
	require.Empty(t, warning)
}

func TestParseRuleFormInvalidOperator(t *testing.T) {
	ids := newIDGenerator()
	form := list(atom("maybe"), list(atom("p"), v("?x")), list(atom("q"), v("?x")))

	_, _, err := ParseRuleForm(form, 1.0, ids)
	require.Error(t, err)
}

func TestParseRuleFormNotAList(t *testing.T) {
	ids := newIDGenerator()
	_, _, err := ParseRuleForm(atom("p"), 1.0, ids)
	require.Error(t, err)
}

func TestRuleStoreDeduplicatesByForm(t *testing.T) {
	rs := NewRuleStore(nil)
	form := list(atom("=>"), list(atom("p"), v("?x")), list(atom("q"), v("?x")))
	r1 := &Rule{RuleForm: form}
	r2 := &Rule{RuleForm: list(atom("=>"), list(atom("p"), v("?x")), list(atom("q"), v("?x")))}

	require.True(t, rs.Add(r1))
	require.False(t, rs.Add(r2))
	require.Len(t, rs.All(), 1)
}

func TestRuleStoreRemoveAndClear(t *testing.T) {
	rs := NewRuleStore(nil)
	form := list(atom("=>"), list(atom("p"), v("?x")), list(atom("q"), v("?x")))
	rs.Add(&Rule{RuleForm: form})

	removed, ok := rs.Remove(form)
	require.True(t, ok)
	require.NotNil(t, removed)
	require.Empty(t, rs.All())

	rs.Add(&Rule{RuleForm: form})
	cleared := rs.Clear()
	require.Len(t, cleared, 1)
	require.Empty(t, rs.All())
}
