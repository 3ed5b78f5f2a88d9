// Package reasoner implements a priority-driven, concurrent forward-chaining
// reasoner over a Lisp-like knowledge representation language (KIF): atoms,
// variables prefixed with "?", and nested lists. It derives new facts by
// matching rule antecedents against stored assertions and by applying
// oriented equalities as left-to-right rewrite rules.
package reasoner

import (
	"strings"
)

// Term is the immutable sum type of the KIF universe: Atom, Variable, List.
// All three variants implement Term and dispatch statically — there is no
// inheritance, only a closed set of concrete types.
type Term interface {
	// String returns the canonical KIF text form of the term.
	String() string

	// Equal reports whether two terms are structurally identical. Variables
	// are equal by name; atoms by text; lists elementwise.
	Equal(other Term) bool

	// Weight is the syntactic size: 1 for atoms/variables, 1+sum(children)
	// for lists.
	Weight() int

	// Variables returns the set of variable names occurring anywhere in the
	// term.
	Variables() map[string]struct{}

	// IsGround reports whether the term contains no variables.
	IsGround() bool

	hashKey() string
}

// Atom is a textual symbol.
type Atom struct {
	Text string

	cachedKif string
}

// NewAtom constructs an Atom from its raw text (unquoted).
func NewAtom(text string) *Atom {
	return &Atom{Text: text}
}

func (a *Atom) String() string {
	if a.cachedKif != "" {
		return a.cachedKif
	}
	s := a.Text
	if atomNeedsQuote(s) {
		s = quoteAtom(s)
	}
	a.cachedKif = s
	return s
}

func (a *Atom) Equal(other Term) bool {
	o, ok := other.(*Atom)
	return ok && a.Text == o.Text
}

func (a *Atom) Weight() int { return 1 }

func (a *Atom) Variables() map[string]struct{} { return emptyVarSet }

func (a *Atom) IsGround() bool { return true }

func (a *Atom) hashKey() string { return "A:" + a.Text }

// Variable is a logic variable. By KIF convention its Name always starts
// with "?" and has length >= 2 (§3 invariant).
type Variable struct {
	Name string
}

// NewVariable constructs a Variable. Name must already carry the leading
// "?" — callers that accept bare names should prefix it themselves.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (v *Variable) String() string { return v.Name }

func (v *Variable) Equal(other Term) bool {
	o, ok := other.(*Variable)
	return ok && v.Name == o.Name
}

func (v *Variable) Weight() int { return 1 }

func (v *Variable) Variables() map[string]struct{} {
	return map[string]struct{}{v.Name: {}}
}

func (v *Variable) IsGround() bool { return false }

func (v *Variable) hashKey() string { return "V:" + v.Name }

// List is an ordered, possibly empty, sequence of terms.
type List struct {
	Items []Term

	cachedWeight int
	weightKnown  bool
	cachedVars   map[string]struct{}
	varsKnown    bool
	cachedKif    string
	kifKnown     bool
}

// NewList constructs a List term from its children.
func NewList(items ...Term) *List {
	return &List{Items: items}
}

func (l *List) String() string {
	if l.kifKnown {
		return l.cachedKif
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, it := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(it.String())
	}
	b.WriteByte(')')
	l.cachedKif = b.String()
	l.kifKnown = true
	return l.cachedKif
}

func (l *List) Equal(other Term) bool {
	o, ok := other.(*List)
	if !ok || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

func (l *List) Weight() int {
	if l.weightKnown {
		return l.cachedWeight
	}
	w := 1
	for _, it := range l.Items {
		w += it.Weight()
	}
	l.cachedWeight = w
	l.weightKnown = true
	return w
}

func (l *List) Variables() map[string]struct{} {
	if l.varsKnown {
		return l.cachedVars
	}
	vars := map[string]struct{}{}
	for _, it := range l.Items {
		for name := range it.Variables() {
			vars[name] = struct{}{}
		}
	}
	if len(vars) == 0 {
		vars = emptyVarSet
	}
	l.cachedVars = vars
	l.varsKnown = true
	return vars
}

func (l *List) IsGround() bool { return len(l.Variables()) == 0 }

func (l *List) hashKey() string {
	var b strings.Builder
	b.WriteByte('L')
	for _, it := range l.Items {
		b.WriteByte(':')
		b.WriteString(it.hashKey())
	}
	return b.String()
}

// Operator returns the text of the first child when it is an Atom, and
// false otherwise (empty list, or first child is a Variable/List).
func Operator(t Term) (string, bool) {
	l, ok := t.(*List)
	if !ok || len(l.Items) == 0 {
		return "", false
	}
	if a, ok := l.Items[0].(*Atom); ok {
		return a.Text, true
	}
	return "", false
}

var emptyVarSet = map[string]struct{}{}

// IsVariable reports whether a term is a Variable.
func IsVariable(t Term) bool {
	_, ok := t.(*Variable)
	return ok
}

// atomNeedsQuote reports whether an atom's text must be quoted: on
// whitespace, parentheses, quote, semicolon, "?", or empty text.
func atomNeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ')', '"', ';', '?':
			return true
		}
	}
	return false
}

func quoteAtom(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// HashKey returns a canonical string over which a structural hash can be
// computed cheaply; two terms with Equal == true always share a HashKey,
// satisfying the "hash agrees with equality" law.
func HashKey(t Term) string { return t.hashKey() }
