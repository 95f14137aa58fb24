package rules

import (
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

// Directive is one of the consequent operators spec.md §4.7 defines.
type Directive int

const (
	DirEmit Directive = iota
	DirReplace
	DirRetract
)

// Termination is the declared basis on which a rule is guaranteed to
// stop firing new things forever (spec.md §4.7's termination clause).
type Termination int

const (
	// TermJDecrease declares the rule's antecedent requires a J-typed
	// element — clause (a). The load-time check verifies only that the
	// antecedent constrains some element to type J; it does not check that
	// a firing removes that element.
	TermJDecrease Termination = iota
	// TermSizeDecrease declares a REPLACE rule whose consequent is
	// structurally smaller than its antecedent match — clause (b).
	TermSizeDecrease
	// TermIdempotent declares the rule relies on the KB's content-derived
	// identity (spec.md §4.8 P7) to deduplicate repeat emissions instead
	// of a structural decrease — clause (c). The "fingerprint" spec.md
	// asks for is exactly the KB's UUID-v5 content hash; no separate
	// bookkeeping is needed to detect a repeat.
	TermIdempotent
)

// Action is one concrete effect a rule's Apply produces for a single
// binding, already instantiated against live hyperedge values (as
// opposed to a TemplateRule's consequent, which is still a template).
type Action struct {
	Kind   Directive
	Target hyperedge.Hyperedge // REPLACE/RETRACT: the existing hyperedge
	Result hyperedge.Hyperedge // EMIT/REPLACE: the new hyperedge
}

// Rule is one priority-ordered production the engine evaluates every
// pass. TemplateRule implements it for rules loaded from the text format
// (spec.md §6.5); the built-in Conjunction-Decomposition and Anaphora-
// Resolution rules implement it natively since their consequents have an
// arity that depends on the match (one EMIT per conjunction disjunct),
// which a single static template cannot express.
type Rule interface {
	ID() string
	Priority() int
	Antecedent() *pattern.Node
	// Apply computes this rule's actions for one binding against the
	// hyperedge that produced it. matched is the same value Antecedent
	// was matched against, given alongside the binding so native rules
	// can inspect structure a pattern alone cannot select on (e.g. "does
	// this argument's own nested edge have a pronoun subject").
	Apply(matched hyperedge.Hyperedge, b pattern.Binding) ([]Action, error)
}

// TemplateRule is a single (antecedent, consequent, priority) production
// loaded from the rule text format.
type TemplateRule struct {
	id          string
	priority    int
	term        Termination
	antecedent  *pattern.Node
	directive   Directive
	oldTemplate *pattern.Node // REPLACE/RETRACT
	newTemplate *pattern.Node // EMIT/REPLACE
}

func (r *TemplateRule) ID() string             { return r.id }
func (r *TemplateRule) Priority() int          { return r.priority }
func (r *TemplateRule) Antecedent() *pattern.Node { return r.antecedent }

func (r *TemplateRule) Apply(_ hyperedge.Hyperedge, b pattern.Binding) ([]Action, error) {
	switch r.directive {
	case DirEmit:
		h, err := Instantiate(r.newTemplate, b)
		if err != nil {
			return nil, err
		}
		return []Action{{Kind: DirEmit, Result: h}}, nil

	case DirReplace:
		oldH, err := Instantiate(r.oldTemplate, b)
		if err != nil {
			return nil, err
		}
		newH, err := Instantiate(r.newTemplate, b)
		if err != nil {
			return nil, err
		}
		return []Action{{Kind: DirReplace, Target: oldH, Result: newH}}, nil

	case DirRetract:
		oldH, err := Instantiate(r.oldTemplate, b)
		if err != nil {
			return nil, err
		}
		return []Action{{Kind: DirRetract, Target: oldH}}, nil
	}
	return nil, &Error{Reason: "unknown directive"}
}

var _ Rule = (*TemplateRule)(nil)
