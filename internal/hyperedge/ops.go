package hyperedge

// Size is 1 for an atom, else the sum of the sizes of its children
// including the connector (spec.md §4.2 size).
func Size(h Hyperedge) int {
	if h.IsAtom() {
		return 1
	}
	total := 0
	for _, c := range h.Elements() {
		total += Size(c)
	}
	return total
}

// Contains is recursive structural membership: does outer contain inner
// anywhere in its tree, including outer itself (spec.md §4.2 contains)?
func Contains(outer, inner Hyperedge) bool {
	if outer.Equal(inner) {
		return true
	}
	if outer.IsAtom() {
		return false
	}
	for _, c := range outer.Elements() {
		if Contains(c, inner) {
			return true
		}
	}
	return false
}

// ContainsSelf reports whether h contains itself transitively through one
// of its own children — a violation of invariant I6 ("rule rewriting
// preserves acyclicity of hyperedge references"). Since Go hyperedges here
// are built bottom-up from immutable children (no back-references are
// constructible), this only ever returns true if a caller has woven a
// cyclic children slice together by hand. Nothing in this module calls it
// during rule application; it is available as a standalone check.
func ContainsSelf(h Hyperedge) bool {
	if h.IsAtom() {
		return false
	}
	for _, c := range h.Elements() {
		if c.Equal(h) || ContainsSelf(c) {
			return true
		}
	}
	return false
}

// Walk visits h and every hyperedge nested within it, depth-first,
// pre-order. It is the traversal helper for degree computation (package
// internal/kb); the pattern matcher does its own recursive descent.
func Walk(h Hyperedge, visit func(Hyperedge)) {
	visit(h)
	if h.IsAtom() {
		return
	}
	for _, c := range h.Elements() {
		Walk(c, visit)
	}
}

// Substitute returns a copy of h with every occurrence of old replaced by
// replacement, reporting whether any replacement occurred. A container
// edge is rebuilt with its role assignments intact (the substitution
// changes content at the same argument positions, never the positions
// themselves). Used by the rule engine's REPLACE directive to rewire
// hyperedges that hold the replaced value as a (possibly nested) element,
// per spec.md §4.7's "replaces an existing hyperedge ... rewires
// containers".
func Substitute(h, old, replacement Hyperedge) (Hyperedge, bool) {
	if h.Equal(old) {
		return replacement, true
	}
	if h.IsAtom() {
		return h, false
	}
	e := h.(*Edge)
	children := make([]Hyperedge, len(e.children))
	changed := false
	for i, c := range e.children {
		nc, did := Substitute(c, old, replacement)
		children[i] = nc
		changed = changed || did
	}
	if !changed {
		return h, false
	}
	rebuilt, err := NewEdgeWithRoles(children, e.roles)
	if err != nil {
		// Substitution produced an ill-typed edge; leave the container
		// untouched rather than propagate a construction error through a
		// tree walk that has no caller-facing error return.
		return h, false
	}
	return rebuilt, true
}
