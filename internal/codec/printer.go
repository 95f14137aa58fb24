package codec

import (
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

// Print renders h in the canonical textual form of spec.md §4.3:
// `label/TYPE[.role]` for an atom, `(c a1 a2 … an)` for an edge. Print is
// the left inverse Parse needs for P1 (round-trip): Parse(Print(h)) == h
// for every well-formed h.
func Print(h hyperedge.Hyperedge) string {
	var sb strings.Builder
	print(h, &sb)
	return sb.String()
}

func print(h hyperedge.Hyperedge, sb *strings.Builder) {
	if atom, ok := h.(*hyperedge.Atom); ok {
		printAtom(atom, sb)
		return
	}
	edge := h.(*hyperedge.Edge)
	sb.WriteByte('(')
	for i, c := range edge.Elements() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		print(c, sb)
	}
	sb.WriteByte(')')
}

func printAtom(a *hyperedge.Atom, sb *strings.Builder) {
	if needsQuoting(a.Label) {
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(a.Label, `"`, `\"`))
		sb.WriteByte('"')
	} else {
		sb.WriteString(a.Label)
	}
	sb.WriteByte('/')
	sb.WriteString(string(a.Type))
	if a.Role != "" {
		sb.WriteByte('.')
		sb.WriteString(string(a.Role))
	}
}

// needsQuoting reports whether label falls outside the bare
// `[a-z0-9_]+` grammar production and must be printed as a quoted label
// to round-trip (spec.md §6.3, "strings preserve casing when quoted").
// The special tokens `+` and `:` are printed bare, as `+/B` and `:/J`.
func needsQuoting(label string) bool {
	if label == "" {
		return true
	}
	if label == "+" || label == ":" {
		return false
	}
	for _, r := range label {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return true
		}
	}
	return false
}
