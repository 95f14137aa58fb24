package pattern

import (
	"sort"

	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

// Binding maps a pattern variable name to the hyperedge it matched.
type Binding map[string]hyperedge.Hyperedge

// Match is spec.md §4.6's `match(pattern, target) → list[Binding]`.
// It never errors: a malformed pattern is rejected at Parse time, and an
// unmatched target simply yields an empty, non-nil-vs-nil-irrelevant
// slice. The returned order is deterministic for identical inputs.
func Match(p *Node, target hyperedge.Hyperedge) []Binding {
	results := matchNode(p, target, Binding{})
	return canonicalize(results)
}

// matchNode matches p against h given bindings already committed by an
// enclosing match, returning every consistent extension. Wildcards and
// literals produce at most one extension; compounds and sets can fan out.
func matchNode(p *Node, h hyperedge.Hyperedge, b Binding) []Binding {
	switch p.Kind {
	case KindWildcard:
		if p.Type != "" && h.TypeOf() != p.Type {
			return nil
		}
		return []Binding{b}

	case KindVariable:
		if p.Type != "" && h.TypeOf() != p.Type {
			return nil
		}
		if existing, ok := b[p.Name]; ok {
			if !existing.Equal(h) {
				return nil
			}
			return []Binding{b}
		}
		return []Binding{extend(b, p.Name, h)}

	case KindLiteral:
		atom, ok := h.(*hyperedge.Atom)
		if !ok {
			return nil
		}
		if atom.Label != p.Label || atom.Type != p.LiteralType || atom.Role != p.LiteralRole {
			return nil
		}
		return []Binding{b}

	case KindCompound:
		edge, ok := h.(*hyperedge.Edge)
		if !ok {
			return nil
		}
		return matchCompound(p, edge, b)

	default:
		return nil
	}
}

// matchCompound handles a compound pattern against an edge: role-
// constrained variables are resolved first by role lookup (independent
// of position), then the remaining pattern children are matched
// positionally — with Ellipsis/Set support — against whatever target
// elements the role lookups didn't already claim.
func matchCompound(p *Node, edge *hyperedge.Edge, b Binding) []Binding {
	elems := edge.Elements()

	var roleChildren []*Node
	var positional []*Node
	for _, c := range p.Children {
		if c.Kind == KindVariable && c.Role != "" {
			roleChildren = append(roleChildren, c)
		} else {
			positional = append(positional, c)
		}
	}

	claimed := map[int]bool{}
	bindings := []Binding{b}
	for _, rc := range roleChildren {
		var next []Binding
		argIdx, ok := findRole(edge, rc.Role, claimed)
		if !ok {
			return nil
		}
		for _, cur := range bindings {
			ext := matchNode(rc, elems[argIdx+1], cur)
			next = append(next, ext...)
		}
		if len(next) == 0 {
			return nil
		}
		claimed[argIdx+1] = true
		bindings = next
	}

	remaining := make([]hyperedge.Hyperedge, 0, len(elems))
	for i, e := range elems {
		if !claimed[i] {
			remaining = append(remaining, e)
		}
	}

	var out []Binding
	for _, cur := range bindings {
		out = append(out, matchSeq(positional, remaining, cur)...)
	}
	return out
}

// findRole locates the argument index (0-based, connector excluded) of
// edge's first not-yet-claimed argument carrying role, if any.
func findRole(edge *hyperedge.Edge, role hgtype.Role, claimed map[int]bool) (int, bool) {
	args := edge.Args()
	for i := range args {
		if claimed[i+1] {
			continue
		}
		if edge.RoleOf(i) == role {
			return i, true
		}
	}
	return 0, false
}

// matchSeq matches an ordered pattern-child list against an ordered
// target-element list, exactly consuming both (spec.md §4.6's `...` and
// `{ }` productions). It fans out over every admissible Ellipsis length
// and Set permutation.
func matchSeq(pats []*Node, targets []hyperedge.Hyperedge, b Binding) []Binding {
	if len(pats) == 0 {
		if len(targets) == 0 {
			return []Binding{b}
		}
		return nil
	}
	head := pats[0]

	if head.Kind == KindEllipsis {
		var out []Binding
		for k := 0; k <= len(targets); k++ {
			out = append(out, matchSeq(pats[1:], targets[k:], b)...)
		}
		return out
	}

	if head.Kind == KindSet {
		n := len(head.Children)
		if n > len(targets) {
			return nil
		}
		block, rest := targets[:n], targets[n:]
		var out []Binding
		for _, perm := range permutations(block) {
			for _, setBindings := range matchFixedSeq(head.Children, perm, b) {
				out = append(out, matchSeq(pats[1:], rest, setBindings)...)
			}
		}
		return out
	}

	if len(targets) == 0 {
		return nil
	}
	var out []Binding
	for _, nb := range matchNode(head, targets[0], b) {
		out = append(out, matchSeq(pats[1:], targets[1:], nb)...)
	}
	return out
}

// matchFixedSeq matches pats against targets pairwise, one-to-one, no
// Ellipsis/Set (used inside an unordered set's fixed-length block).
func matchFixedSeq(pats []*Node, targets []hyperedge.Hyperedge, b Binding) []Binding {
	if len(pats) != len(targets) {
		return nil
	}
	bindings := []Binding{b}
	for i, p := range pats {
		var next []Binding
		for _, cur := range bindings {
			next = append(next, matchNode(p, targets[i], cur)...)
		}
		bindings = next
		if len(bindings) == 0 {
			return nil
		}
	}
	return bindings
}

func extend(b Binding, name string, h hyperedge.Hyperedge) Binding {
	out := make(Binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[name] = h
	return out
}

// permutations returns every ordering of items. Set patterns are
// expected to enclose a handful of siblings; this is intentionally
// simple rather than polynomial-bounded, a documented deviation from the
// general O(n·k) contract for the unordered-set case specifically.
func permutations(items []hyperedge.Hyperedge) [][]hyperedge.Hyperedge {
	if len(items) <= 1 {
		return [][]hyperedge.Hyperedge{append([]hyperedge.Hyperedge(nil), items...)}
	}
	var out [][]hyperedge.Hyperedge
	for i := range items {
		rest := make([]hyperedge.Hyperedge, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			perm := append([]hyperedge.Hyperedge{items[i]}, p...)
			out = append(out, perm)
		}
	}
	return out
}

// canonicalize de-duplicates and orders the result list so that
// identical inputs always yield the same ordered list of bindings
// (spec.md §4.6: "matching is deterministic").
func canonicalize(bindings []Binding) []Binding {
	seen := map[string]bool{}
	var out []Binding
	keys := make([]string, 0, len(bindings))
	keyOf := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		k := bindingKey(b)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
		keyOf[k] = b
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, keyOf[k])
	}
	return out
}

func bindingKey(b Binding) string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	s := ""
	for _, n := range names {
		s += n + "=" + codec.Print(b[n]) + ";"
	}
	return s
}
