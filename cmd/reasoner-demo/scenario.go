package main

import (
	"fmt"

	"github.com/gitrdm/kifreasoner/pkg/reasoner"
)

// scenario is a self-contained, Go-coded end-to-end exercise of the
// engine, mirroring one of the worked examples in the reasoner's test
// suite. Scenarios build terms directly through the Term constructors;
// the engine takes no textual input format.
type scenario struct {
	Name        string
	Description string
	Configure   func(cfg *reasoner.Config)
	Run         func(e *reasoner.Engine) error
}

func atom(s string) *reasoner.Atom         { return reasoner.NewAtom(s) }
func v(name string) *reasoner.Variable     { return reasoner.NewVariable(name) }
func list(items ...reasoner.Term) *reasoner.List { return reasoner.NewList(items...) }

var scenarios = []scenario{
	{
		Name:        "modus-ponens",
		Description: "a rule plus one matching fact derives exactly one consequence",
		Run: func(e *reasoner.Engine) error {
			if err := e.SubmitRule(
				list(atom("=>"), list(atom("instance"), v("?x"), atom("Dog")), list(atom("instance"), v("?x"), atom("Mammal"))),
				0.8,
			); err != nil {
				return fmt.Errorf("submitting rule: %w", err)
			}
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
				list(atom("instance"), atom("Rex"), atom("Dog")), 5.0, nil, "", "",
			))
			return nil
		},
	},
	{
		Name:        "biconditional",
		Description: "a <=> rule fires symmetrically in both directions",
		Run: func(e *reasoner.Engine) error {
			if err := e.SubmitRule(
				list(atom("<=>"), list(atom("P"), v("?x")), list(atom("Q"), v("?x"))),
				0.8,
			); err != nil {
				return fmt.Errorf("submitting rule: %w", err)
			}
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(list(atom("P"), atom("a")), 1.0, nil, "", ""))
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(list(atom("Q"), atom("b")), 1.0, nil, "", ""))
			return nil
		},
	},
	{
		Name:        "ordered-rewrite",
		Description: "an oriented equality rewrites a later-asserted term containing its left side",
		Run: func(e *reasoner.Engine) error {
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
				list(atom("="), list(atom("double"), atom("2")), atom("4")), 1.0, nil, "", "",
			))
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
				list(atom("likes"), atom("Sam"), list(atom("double"), atom("2"))), 1.0, nil, "", "",
			))
			return nil
		},
	},
	{
		Name:        "subsumption",
		Description: "a stored generalization causes a matching ground equality to be dropped",
		Run: func(e *reasoner.Engine) error {
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
				list(atom("="), list(atom("f"), v("?x")), v("?x")), 1.0, nil, "", "",
			))
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
				list(atom("="), list(atom("f"), atom("a")), atom("a")), 1.0, nil, "", "",
			))
			return nil
		},
	},
	{
		Name:        "triviality",
		Description: "reflexive predicates and trivial equalities are dropped at submission",
		Run: func(e *reasoner.Engine) error {
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(list(atom("instance"), atom("X"), atom("X")), 1.0, nil, "", ""))
			e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(list(atom("="), atom("y"), atom("y")), 1.0, nil, "", ""))
			return nil
		},
	},
	{
		Name:        "eviction",
		Description: "a minimum-sized knowledge base evicts its lowest-priority members under pressure",
		Configure: func(cfg *reasoner.Config) {
			cfg.MaxKBSize = 10 // the engine floors MaxKBSize at 10; see Config.normalize
		},
		Run: func(e *reasoner.Engine) error {
			for i := 1; i <= 11; i++ {
				e.SubmitPotentialAssertion(reasoner.NewPotentialAssertion(
					list(atom("fact"), atom(fmt.Sprintf("n%d", i))), float64(i), nil, "", "",
				))
			}
			return nil
		},
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return scenario{}, false
}
