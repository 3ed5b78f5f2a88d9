package reasoner

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Rule is a parsed implication or (one half of a) biconditional.
type Rule struct {
	ID                string
	RuleForm          *List
	Antecedent        Term
	Consequent        Term
	Priority          float64
	AntecedentClauses []*List
}

// ParseRuleForm parses one of the accepted input forms — (=> A C), (<=> A
// C), (forall vars (=> A C)) or (forall vars (<=> A C)) — into one or two
// Rule values (a biconditional yields a forward and a reverse rule). The
// returned warning, if non-empty, should be logged but does not prevent
// the rule(s) from being stored.
func ParseRuleForm(form Term, priority float64, ids *idGenerator) (rules []*Rule, warning string, err error) {
	body := form
	for {
		l, ok := body.(*List)
		if !ok {
			return nil, "", fmt.Errorf("invalid-rule: rule form is not a list: %s", form.String())
		}
		op, ok := Operator(l)
		if ok && op == "forall" && len(l.Items) == 3 {
			body = l.Items[2]
			continue
		}
		break
	}

	l, ok := body.(*List)
	if !ok || len(l.Items) != 3 {
		return nil, "", fmt.Errorf("invalid-rule: expected (=> A C) or (<=> A C), got %s", form.String())
	}
	op, ok := Operator(l)
	if !ok {
		return nil, "", fmt.Errorf("invalid-rule: missing operator in %s", form.String())
	}

	switch op {
	case "=>":
		r, w, err := buildRule(l, l.Items[1], l.Items[2], priority, ids)
		if err != nil {
			return nil, "", err
		}
		return []*Rule{r}, w, nil
	case "<=>":
		forwardForm := NewList(NewAtom("=>"), l.Items[1], l.Items[2])
		reverseForm := NewList(NewAtom("=>"), l.Items[2], l.Items[1])
		fwd, w1, err := buildRule(forwardForm, l.Items[1], l.Items[2], priority, ids)
		if err != nil {
			return nil, "", err
		}
		rev, w2, err := buildRule(reverseForm, l.Items[2], l.Items[1], priority, ids)
		if err != nil {
			return nil, "", err
		}
		warn := w1
		if warn == "" {
			warn = w2
		} else if w2 != "" {
			warn = warn + "; " + w2
		}
		return []*Rule{fwd, rev}, warn, nil
	default:
		return nil, "", fmt.Errorf("invalid-rule: expected => or <=>, got operator %q", op)
	}
}

func buildRule(ruleForm *List, antecedent, consequent Term, priority float64, ids *idGenerator) (*Rule, string, error) {
	clauses, err := splitAntecedentClauses(antecedent)
	if err != nil {
		return nil, "", err
	}

	bound := map[string]struct{}{}
	for _, c := range clauses {
		for name := range c.Variables() {
			bound[name] = struct{}{}
		}
	}
	quantified := locallyQuantifiedVars(consequent)

	var warning string
	for name := range consequent.Variables() {
		if _, ok := bound[name]; ok {
			continue
		}
		if _, ok := quantified[name]; ok {
			continue
		}
		warning = fmt.Sprintf("consequent variable %s is not bound by the antecedent of %s", name, ruleForm.String())
		break
	}

	return &Rule{
		ID:                ids.fresh("rule"),
		RuleForm:          ruleForm,
		Antecedent:        antecedent,
		Consequent:        consequent,
		Priority:          priority,
		AntecedentClauses: clauses,
	}, warning, nil
}

// splitAntecedentClauses splits a rule's antecedent into clauses: if the
// antecedent is (and c1 ... cn), the clauses are c1..cn (each must itself
// be a list); otherwise the antecedent itself is the sole clause (and
// must be a list).
func splitAntecedentClauses(antecedent Term) ([]*List, error) {
	l, ok := antecedent.(*List)
	if !ok {
		return nil, fmt.Errorf("invalid-rule: antecedent is not a list: %s", antecedent.String())
	}
	if op, ok := Operator(l); ok && op == "and" {
		clauses := make([]*List, 0, len(l.Items)-1)
		for _, item := range l.Items[1:] {
			cl, ok := item.(*List)
			if !ok {
				return nil, fmt.Errorf("invalid-rule: conjunctive antecedent clause is not a list: %s", item.String())
			}
			clauses = append(clauses, cl)
		}
		return clauses, nil
	}
	return []*List{l}, nil
}

// locallyQuantifiedVars collects variable names bound by nested
// (exists (v...) body) or (forall (v...) body) forms anywhere within t,
// so the unbound-consequent-variable warning does not fire on variables
// that are locally quantified rather than free.
func locallyQuantifiedVars(t Term) map[string]struct{} {
	result := map[string]struct{}{}
	var walk func(Term)
	walk = func(term Term) {
		l, ok := term.(*List)
		if !ok {
			return
		}
		if op, ok := Operator(l); ok && (op == "exists" || op == "forall") && len(l.Items) == 3 {
			if varsList, ok := l.Items[1].(*List); ok {
				for _, v := range varsList.Items {
					if name, ok := v.(*Variable); ok {
						result[name.Name] = struct{}{}
					}
				}
			}
		}
		for _, child := range l.Items {
			walk(child)
		}
	}
	walk(t)
	return result
}

// RuleStore holds the set of active rules, deduplicated structurally on
// RuleForm. Single-writer semantics are not required, so a plain
// sync.RWMutex-guarded map suffices.
type RuleStore struct {
	mu    sync.RWMutex
	byKey map[string]*Rule
	log   *zap.Logger
}

// NewRuleStore constructs an empty rule store.
func NewRuleStore(log *zap.Logger) *RuleStore {
	return &RuleStore{byKey: make(map[string]*Rule), log: newEngineLogger(log)}
}

func ruleKey(form *List) string { return form.String() }

// Add inserts r if no structurally-equal rule is already present. It
// returns whether an insertion happened.
func (rs *RuleStore) Add(r *Rule) bool {
	key := ruleKey(r.RuleForm)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if _, exists := rs.byKey[key]; exists {
		return false
	}
	rs.byKey[key] = r
	return true
}

// Remove deletes the rule whose RuleForm equals form, if any, returning
// it.
func (rs *RuleStore) Remove(form *List) (*Rule, bool) {
	key := ruleKey(form)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.byKey[key]
	if !ok {
		return nil, false
	}
	delete(rs.byKey, key)
	return r, true
}

// All returns a snapshot slice of every active rule.
func (rs *RuleStore) All() []*Rule {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]*Rule, 0, len(rs.byKey))
	for _, r := range rs.byKey {
		out = append(out, r)
	}
	return out
}

// Clear removes every rule, returning the removed set.
func (rs *RuleStore) Clear() []*Rule {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]*Rule, 0, len(rs.byKey))
	for _, r := range rs.byKey {
		out = append(out, r)
	}
	rs.byKey = make(map[string]*Rule)
	return out
}
