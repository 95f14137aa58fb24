package rules

import (
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

// conjunctionDecomposition is spec.md §4.7's built-in: "(P/P $sub:s (J/J
// $a $b ...)) ⟼ (P/P $sub:s $a), (P/P $sub:s $b), …. Three variants cover
// J in subject, object, and specifier positions." Rather than three
// near-identical antecedent/consequent pairs, this implements all three
// as one pass over a matched predicate's argument positions: whichever
// position directly holds a J-typed hyperedge is decomposed, regardless
// of whether that position carries role s, role o, or no role at all
// (the specifier/unroled case) — the rewrite itself is identical in
// every case, only the role at that position differs.
type conjunctionDecomposition struct {
	antecedent *pattern.Node
}

// NewConjunctionDecomposition returns the built-in Conjunction-
// Decomposition rule.
func NewConjunctionDecomposition() Rule {
	return &conjunctionDecomposition{antecedent: anyPredicatePattern()}
}

func anyPredicatePattern() *pattern.Node {
	return &pattern.Node{
		Kind: pattern.KindCompound,
		Children: []*pattern.Node{
			{Kind: pattern.KindWildcard, Type: hgtype.Predicate},
			{Kind: pattern.KindEllipsis},
		},
	}
}

func (r *conjunctionDecomposition) ID() string                { return "builtin.conjunction-decomposition" }
func (r *conjunctionDecomposition) Priority() int              { return conjunctionDecompositionPriority }
func (r *conjunctionDecomposition) Antecedent() *pattern.Node { return r.antecedent }

func (r *conjunctionDecomposition) Apply(matched hyperedge.Hyperedge, _ pattern.Binding) ([]Action, error) {
	edge, ok := matched.(*hyperedge.Edge)
	if !ok {
		return nil, nil
	}
	args := edge.Args()
	var actions []Action
	for i, arg := range args {
		if arg.TypeOf() != hgtype.Conjunction {
			continue
		}
		conj, ok := arg.(*hyperedge.Edge)
		if !ok {
			continue
		}
		for _, disjunct := range conj.Args() {
			newArgs := append([]hyperedge.Hyperedge(nil), args...)
			newArgs[i] = disjunct
			roles := rolesOf(edge, len(newArgs))
			newEdge, err := hyperedge.NewEdgeWithRoles(append([]hyperedge.Hyperedge{edge.Connector()}, newArgs...), roles)
			if err != nil {
				continue
			}
			actions = append(actions, Action{Kind: DirEmit, Result: newEdge})
		}
	}
	return actions, nil
}

// rolesOf copies edge's per-position role assignments for the first n
// argument positions.
func rolesOf(edge *hyperedge.Edge, n int) map[int]hgtype.Role {
	roles := map[int]hgtype.Role{}
	for i := 0; i < n; i++ {
		if r := edge.RoleOf(i); r != "" {
			roles[i] = r
		}
	}
	return roles
}

var _ Rule = (*conjunctionDecomposition)(nil)

// conjunctionDecompositionPriority is fixed rather than configurable:
// Conjunction-Decomposition must run before Anaphora-Resolution can see
// a decomposed predicate's subject (spec.md §4.7 lists it first among
// the built-ins), but both are still ordinary priority-ordered rules in
// the same fixed-point loop otherwise.
const conjunctionDecompositionPriority = 0

// anaphoraResolution is spec.md §4.7's built-in: "when an inner
// relation's subject is a pronoun (P/P $p:s $…) and the outer relation
// assigns an actor $A as subject, rewrite the inner subject to $A."
type anaphoraResolution struct {
	antecedent *pattern.Node
	pronouns   map[string]bool
}

// NewAnaphoraResolution returns the built-in Anaphora-Resolution rule,
// checking candidate subjects against pronouns (spec.md §4.7: "pronoun
// set is configurable" — internal/config.PronounSet is the shipped
// default, callers may pass their own).
func NewAnaphoraResolution(pronouns map[string]bool) Rule {
	return &anaphoraResolution{
		antecedent: anyPredicatePattern(),
		pronouns:   pronouns,
	}
}

func (r *anaphoraResolution) ID() string                { return "builtin.anaphora-resolution" }
func (r *anaphoraResolution) Priority() int              { return anaphoraResolutionPriority }
func (r *anaphoraResolution) Antecedent() *pattern.Node { return r.antecedent }

const anaphoraResolutionPriority = 10

func (r *anaphoraResolution) Apply(matched hyperedge.Hyperedge, _ pattern.Binding) ([]Action, error) {
	outer, ok := matched.(*hyperedge.Edge)
	if !ok {
		return nil, nil
	}
	outerArgs := outer.Args()
	var subject hyperedge.Hyperedge
	for i, a := range outerArgs {
		if outer.RoleOf(i) == hgtype.RoleSubject {
			subject = a
			break
		}
	}
	if subject == nil || r.isPronoun(subject) {
		return nil, nil
	}

	for i, arg := range outerArgs {
		inner, ok := arg.(*hyperedge.Edge)
		if !ok || inner.TypeOf() != hgtype.Relation {
			continue
		}
		innerArgs := inner.Args()
		for j, innerArg := range innerArgs {
			if inner.RoleOf(j) != hgtype.RoleSubject || !r.isPronoun(innerArg) {
				continue
			}
			newInnerArgs := append([]hyperedge.Hyperedge(nil), innerArgs...)
			newInnerArgs[j] = subject
			newInner, err := hyperedge.NewEdgeWithRoles(
				append([]hyperedge.Hyperedge{inner.Connector()}, newInnerArgs...),
				rolesOf(inner, len(newInnerArgs)),
			)
			if err != nil {
				return nil, nil
			}
			newOuterArgs := append([]hyperedge.Hyperedge(nil), outerArgs...)
			newOuterArgs[i] = newInner
			newOuter, err := hyperedge.NewEdgeWithRoles(
				append([]hyperedge.Hyperedge{outer.Connector()}, newOuterArgs...),
				rolesOf(outer, len(newOuterArgs)),
			)
			if err != nil {
				return nil, nil
			}
			return []Action{{Kind: DirReplace, Target: outer, Result: newOuter}}, nil
		}
	}
	return nil, nil
}

func (r *anaphoraResolution) isPronoun(h hyperedge.Hyperedge) bool {
	atom, ok := h.(*hyperedge.Atom)
	if !ok {
		return false
	}
	return r.pronouns[atom.LemmaOrLabel()]
}

var _ Rule = (*anaphoraResolution)(nil)
