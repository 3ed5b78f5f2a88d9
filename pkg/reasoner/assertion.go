package reasoner

// ReflexivePredicates is the fixed set of predicates treated as reflexive
// for triviality checking. A 3-list whose operator is
// one of these, or "=", and whose second and third children are
// structurally equal, is trivial.
var ReflexivePredicates = map[string]struct{}{
	"instance":    {},
	"subclass":    {},
	"subrelation": {},
	"equivalent":  {},
	"same":        {},
	"equal":       {},
	"domain":      {},
	"range":       {},
}

// IsTrivial reports whether a KIF term is trivial: (= x x) or (p x x)
// where p is a reflexive predicate.
func IsTrivial(kif Term) bool {
	l, ok := kif.(*List)
	if !ok || len(l.Items) != 3 {
		return false
	}
	op, ok := Operator(l)
	if !ok {
		return false
	}
	if op != "=" {
		if _, reflexive := ReflexivePredicates[op]; !reflexive {
			return false
		}
	}
	return l.Items[1].Equal(l.Items[2])
}

// equalityShape inspects a term and reports, for the operator "=" with
// arity 3, whether it is an equality and whether it is oriented
// (weight(lhs) > weight(rhs)).
func equalityShape(kif Term) (isEquality, isOriented bool, lhs, rhs Term) {
	l, ok := kif.(*List)
	if !ok || len(l.Items) != 3 {
		return false, false, nil, nil
	}
	op, ok := Operator(l)
	if !ok || op != "=" {
		return false, false, nil, nil
	}
	lhs, rhs = l.Items[1], l.Items[2]
	return true, lhs.Weight() > rhs.Weight(), lhs, rhs
}

// Assertion is a committed fact in the knowledge base.
type Assertion struct {
	ID                string
	Kif               *List
	Priority          float64
	Timestamp         int64
	SourceNoteID      string // empty string means "no note"
	Support           map[string]struct{}
	IsEquality        bool
	IsOrientedEquality bool
}

// Lhs returns the left-hand side of an equality assertion. Callers must
// check IsEquality first.
func (a *Assertion) Lhs() Term { return a.Kif.Items[1] }

// Rhs returns the right-hand side of an equality assertion. Callers must
// check IsEquality first.
func (a *Assertion) Rhs() Term { return a.Kif.Items[2] }

// PotentialAssertion is a not-yet-committed candidate fact produced by a
// submitter or by inference. The commit queue does not deduplicate
// candidates; an exact duplicate of a stored assertion is rejected by
// KnowledgeBase.Commit.
type PotentialAssertion struct {
	Kif                Term
	Priority           float64
	Support            map[string]struct{}
	SourceID           string
	SourceNoteID       string
	IsEquality         bool
	IsOrientedEquality bool
}

// NewPotentialAssertion builds a PotentialAssertion, deriving IsEquality
// and IsOrientedEquality from kif's shape.
func NewPotentialAssertion(kif Term, priority float64, support map[string]struct{}, sourceID, sourceNoteID string) *PotentialAssertion {
	isEq, isOriented, _, _ := equalityShape(kif)
	if support == nil {
		support = map[string]struct{}{}
	}
	return &PotentialAssertion{
		Kif:                kif,
		Priority:           priority,
		Support:            support,
		SourceID:           sourceID,
		SourceNoteID:       sourceNoteID,
		IsEquality:         isEq,
		IsOrientedEquality: isOriented,
	}
}

func cloneSupport(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
