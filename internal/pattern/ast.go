// Package pattern is the pattern language and matcher (spec.md §4.6):
// a small extension of the hyperedge notation codec adding wildcards,
// binding variables, a sequence wildcard, and unordered sets, plus a
// deterministic matcher over hyperedge.Hyperedge values.
package pattern

import "github.com/brianmills2718/semantic-hypergraph/internal/hgtype"

// Kind discriminates the pattern AST's node shapes.
type Kind int

const (
	KindWildcard Kind = iota // *        or */T
	KindVariable             // $X       $X/T     $X:role     $X/T:role
	KindLiteral              // label/TYPE[.role] — matches only an equal atom
	KindCompound              // ( p1 p2 … pn )
	KindEllipsis              // ...      — only legal as a direct child of a Compound
	KindSet                   // { p1 p2 … pn } — only legal as a direct child of a Compound
)

// Node is one pattern AST node.
type Node struct {
	Kind Kind

	// Type constrains the matched hyperedge's type; "" means unconstrained.
	// Meaningful for KindWildcard, KindVariable, KindLiteral.
	Type hgtype.Code

	// Role constrains a KindVariable to the target argument carrying this
	// role within its owning P/B edge (spec.md §4.6: "$X:role — role-
	// constrained variable, valid inside a P- or B-edge pattern").
	Role hgtype.Role

	// Name is the variable's binding name (KindVariable only).
	Name string

	// Label/LiteralType/LiteralRole describe a KindLiteral atom pattern.
	Label       string
	LiteralType hgtype.Code
	LiteralRole hgtype.Role

	// Children holds a KindCompound edge's element patterns (connector
	// first) or a KindSet's enclosed patterns.
	Children []*Node
}

// Error is spec.md §4.6's "PatternError{reason} on malformed patterns at
// construction time" — the matcher itself never throws.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "pattern: " + e.Reason }
