package rules

import (
	"fmt"

	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

// Error reports a malformed rule or a consequent that could not be
// instantiated against a binding.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "rules: " + e.Reason }

// Instantiate builds a concrete hyperedge from a consequent template and
// a binding produced by matching the rule's antecedent (spec.md §4.7
// step 2: "instantiate the consequent template, variables replaced by
// bound hyperedges"). A template reuses pattern.Node: KindVariable means
// substitution, KindLiteral builds a fresh atom, and KindCompound builds
// a fresh edge — a variable child's Role field, meaningless for
// matching here, is read as the role to assign that argument position in
// the built edge (the same field pattern.Parse already populates for
// `$X:role`).
func Instantiate(n *pattern.Node, b pattern.Binding) (hyperedge.Hyperedge, error) {
	switch n.Kind {
	case pattern.KindVariable:
		h, ok := b[n.Name]
		if !ok {
			return nil, &Error{Reason: fmt.Sprintf("unbound variable $%s in consequent", n.Name)}
		}
		return h, nil

	case pattern.KindLiteral:
		return hyperedge.NewAtom(n.Label, n.LiteralType, n.LiteralRole)

	case pattern.KindCompound:
		children := make([]hyperedge.Hyperedge, len(n.Children))
		roles := map[int]hgtype.Role{}
		for i, c := range n.Children {
			h, err := Instantiate(c, b)
			if err != nil {
				return nil, err
			}
			children[i] = h
			if i > 0 && c.Role != "" {
				roles[i-1] = c.Role
			}
		}
		if len(roles) > 0 {
			return hyperedge.NewEdgeWithRoles(children, roles)
		}
		return hyperedge.NewEdge(children)

	default:
		return nil, &Error{Reason: "consequent pattern must not contain a wildcard, ellipsis, or set"}
	}
}

// nodeSize counts a pattern.Node's own tree size the same way
// hyperedge.Size counts a built hyperedge's: 1 per literal/variable/
// wildcard leaf, and a compound counts as the sum of its children's
// sizes, with nothing added for the compound itself. Used only to give
// the load-time size-decrease check (spec.md §4.7's termination clause
// (b)) something concrete to compare; it is a static approximation of
// the runtime hyperedge size the instantiated templates will have.
func nodeSize(n *pattern.Node) int {
	if n.Kind != pattern.KindCompound {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += nodeSize(c)
	}
	return total
}

// containsType reports whether n or any descendant constrains its target
// to typ — used by the load-time J-decrease termination check to confirm
// an antecedent can plausibly consume a conjunction.
func containsType(n *pattern.Node, typ hgtype.Code) bool {
	if n.Type == typ || n.LiteralType == typ {
		return true
	}
	for _, c := range n.Children {
		if containsType(c, typ) {
			return true
		}
	}
	return false
}
