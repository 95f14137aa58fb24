// Package hyperedge is the in-memory recursive hyperedge model: an Atom is
// a typed, irreducible leaf; an Edge is an ordered, non-empty tuple whose
// first element (the connector) determines the composite's type via
// internal/hgtype's inference rules (spec.md §4.2).
package hyperedge

import (
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
)

// Hyperedge is the sum type shared by Atom and Edge. It mirrors the
// teacher's Object interface (small surface, many concrete implementers
// dispatched by type switch) rather than a closed sealed-interface trick,
// since Go has no sum types.
type Hyperedge interface {
	// IsAtom reports whether this hyperedge is an irreducible Atom.
	IsAtom() bool
	// TypeOf is the hyperedge's type code, O(1) (spec.md §4.2 type_of).
	TypeOf() hgtype.Code
	// Elements returns nil for an Atom; for an Edge it returns the
	// connector followed by its arguments, in order.
	Elements() []Hyperedge
	// Equal is structural equality (spec.md §3: "two hyperedges are equal
	// iff they are element-wise equal in order").
	Equal(other Hyperedge) bool
}

// Atom is an irreducible hyperedge of size 1.
type Atom struct {
	Label string
	Type  hgtype.Code
	Role  hgtype.Role // zero value "" means "no role annotation"
	Lemma string      // zero value "" means "lemma == label"
}

// ValidationError reports a role/type combination that violates
// spec.md §3/§4.2 (role codes valid only on P/B atoms, from the fixed
// role alphabet for that owner).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

// NewAtom constructs an Atom, validating the role/type combination
// (spec.md §4.2 new_atom). Pass role = "" for an atom with no role
// annotation.
func NewAtom(label string, typ hgtype.Code, role hgtype.Role) (*Atom, error) {
	return newAtom(normalizeLabel(label), typ, role)
}

// NewAtomRaw constructs an Atom without lowercasing label, for the one
// case spec.md §6.3 carves out: "strings preserve casing when quoted".
// Codec's quoted-label parse path uses this; every other construction
// path goes through NewAtom.
func NewAtomRaw(label string, typ hgtype.Code, role hgtype.Role) (*Atom, error) {
	return newAtom(label, typ, role)
}

func newAtom(label string, typ hgtype.Code, role hgtype.Role) (*Atom, error) {
	if !typ.IsAtomic() {
		return nil, &ValidationError{Reason: "atom type must be one of C,P,M,B,T,J, got " + string(typ)}
	}
	if role != "" {
		if typ != hgtype.Predicate && typ != hgtype.Builder {
			return nil, &ValidationError{Reason: "role code is only valid on P or B atoms"}
		}
		if !hgtype.ValidRoleFor(typ, role) {
			return nil, &ValidationError{Reason: "role " + string(role) + " is not a valid role for type " + string(typ)}
		}
	}
	return &Atom{
		Label: label,
		Type:  typ,
		Role:  role,
	}, nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func (a *Atom) IsAtom() bool          { return true }
func (a *Atom) TypeOf() hgtype.Code   { return a.Type }
func (a *Atom) Elements() []Hyperedge { return nil }

// LemmaOrLabel returns Lemma if set, else Label — the stem used by
// higher-level rules (spec.md §3, Atom entity: "lemma (optional)").
func (a *Atom) LemmaOrLabel() string {
	if a.Lemma != "" {
		return a.Lemma
	}
	return a.Label
}

func (a *Atom) Equal(other Hyperedge) bool {
	o, ok := other.(*Atom)
	if !ok {
		return false
	}
	return a.Label == o.Label && a.Type == o.Type && a.Role == o.Role
}

// Edge is a composite hyperedge: an ordered, non-empty sequence whose
// first element is the connector. Its type is memoized at construction
// time (spec.md §4.2: type_of is guaranteed O(1)).
//
// Argument roles live here, on the edge, rather than on the atom.Role
// field of each argument: spec.md §3 fixes role_code as valid only on an
// atom whose own type_code is P or B, yet §4.2's IR-P restricts a
// predicate's arguments to {C, R, S} — so an argument atom can never
// legally be the P/B-typed atom that rule would require. §4.5's "the
// parser annotates each argument of a P-edge with a role code" is
// therefore implemented as a per-edge, per-argument-position map,
// populated by the β-parser from the dependency tree.
type Edge struct {
	children []Hyperedge
	typ      hgtype.Code
	rule     hgtype.Rule
	roles    map[int]hgtype.Role // argument index (0-based, excludes connector) -> role
}

// NewEdge constructs a composite hyperedge from an ordered, non-empty list
// of children, applying the inference rules to derive its type. It fails
// with a *hgtype.TypeError if no rule applies (invariants I1/I2).
func NewEdge(children []Hyperedge) (*Edge, error) {
	return NewEdgeWithRoles(children, nil)
}

// NewEdgeWithRoles is NewEdge plus an explicit argument-role assignment:
// roles[i] is the role of children[i+1] (the i-th argument, 0-based).
// Only meaningful when the connector is typed P or B; invariant I4 (arity
// <= 10, {s,p,a} each at most once) is checked against this map.
func NewEdgeWithRoles(children []Hyperedge, roles map[int]hgtype.Role) (*Edge, error) {
	if len(children) == 0 {
		return nil, &hgtype.TypeError{Cause: "no-inference-rule-applies: edge has no children"}
	}
	connector := children[0]
	connType := connector.TypeOf()
	if !connType.IsConnector() {
		return nil, &hgtype.TypeError{Cause: "no-inference-rule-applies: connector type " + string(connType) + " is not in {P,M,B,T,J}"}
	}

	argTypes := make([]hgtype.Code, len(children)-1)
	for i, c := range children[1:] {
		argTypes[i] = c.TypeOf()
	}

	resultType, rule, err := hgtype.Infer(connType, argTypes)
	if err != nil {
		return nil, err
	}

	if len(roles) > 0 {
		if err := checkRoles(connType, len(children)-1, roles); err != nil {
			return nil, err
		}
	}
	if connType == hgtype.Predicate {
		if len(children)-1 > 10 {
			return nil, &ValidationError{Reason: "predicate has more than 10 arguments"}
		}
	}

	return &Edge{
		children: append([]Hyperedge(nil), children...),
		typ:      resultType,
		rule:     rule,
		roles:    copyRoles(roles),
	}, nil
}

// checkRoles enforces invariant I4's role-uniqueness clause and rejects
// roles that are not in the owning connector's role alphabet.
func checkRoles(connType hgtype.Code, numArgs int, roles map[int]hgtype.Role) error {
	seen := map[hgtype.Role]int{}
	for idx, role := range roles {
		if idx < 0 || idx >= numArgs {
			return &ValidationError{Reason: "role assignment references out-of-range argument index"}
		}
		if !hgtype.ValidRoleFor(connType, role) {
			return &ValidationError{Reason: "role " + string(role) + " is not valid for connector type " + string(connType)}
		}
		seen[role]++
	}
	for _, r := range []hgtype.Role{hgtype.RoleSubject, hgtype.RolePredicate, hgtype.RoleActor} {
		if seen[r] > 1 {
			return &ValidationError{Reason: "role " + string(r) + " appears more than once among arguments"}
		}
	}
	return nil
}

func copyRoles(roles map[int]hgtype.Role) map[int]hgtype.Role {
	if len(roles) == 0 {
		return nil
	}
	out := make(map[int]hgtype.Role, len(roles))
	for k, v := range roles {
		out[k] = v
	}
	return out
}

func (e *Edge) IsAtom() bool          { return false }
func (e *Edge) TypeOf() hgtype.Code   { return e.typ }
func (e *Edge) Elements() []Hyperedge { return append([]Hyperedge(nil), e.children...) }

// Rule returns which inference rule produced this edge's type, used by the
// β-parser's heuristic tie-break and by rule-engine diagnostics.
func (e *Edge) Rule() hgtype.Rule { return e.rule }

// RoleOf returns the role assigned to the i-th argument (0-based, the
// connector excluded), or "" if none was assigned.
func (e *Edge) RoleOf(i int) hgtype.Role { return e.roles[i] }

// Connector is Elements()[0].
func (e *Edge) Connector() Hyperedge { return e.children[0] }

// Args is Elements()[1:].
func (e *Edge) Args() []Hyperedge { return append([]Hyperedge(nil), e.children[1:]...) }

func (e *Edge) Equal(other Hyperedge) bool {
	o, ok := other.(*Edge)
	if !ok {
		return false
	}
	if len(e.children) != len(o.children) {
		return false
	}
	for i := range e.children {
		if !e.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}
