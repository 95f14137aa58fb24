package beta

import (
	"testing"

	"github.com/brianmills2718/semantic-hypergraph/internal/alpha"
	"github.com/brianmills2718/semantic-hypergraph/internal/deptree"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

func typedAtom(t *testing.T, tok deptree.Token, label string, typ hgtype.Code) alpha.TypedToken {
	t.Helper()
	a, err := hyperedge.NewAtom(label, typ, "")
	if err != nil {
		t.Fatalf("NewAtom: %v", err)
	}
	return alpha.TypedToken{Token: tok, Atom: a}
}

// Scenario A: "alice likes bananas" -> (likes/P alice/C bananas/C)
func TestAssembleScenarioASimpleTransitive(t *testing.T) {
	tokens := []deptree.Token{
		{Surface: "alice", Dep: "nsubj", Index: 0, HeadIndex: 1},
		{Surface: "likes", Dep: "ROOT", Index: 1, HeadIndex: 1},
		{Surface: "bananas", Dep: "dobj", Index: 2, HeadIndex: 1},
	}
	tree, err := deptree.New(tokens)
	if err != nil {
		t.Fatalf("deptree.New: %v", err)
	}
	typed := []alpha.TypedToken{
		typedAtom(t, tokens[0], "alice", hgtype.Concept),
		typedAtom(t, tokens[1], "likes", hgtype.Predicate),
		typedAtom(t, tokens[2], "bananas", hgtype.Concept),
	}

	h, err := Assemble(tree, typed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edge, ok := h.(*hyperedge.Edge)
	if !ok {
		t.Fatalf("expected an edge, got %T", h)
	}
	if edge.TypeOf() != hgtype.Relation {
		t.Fatalf("expected relation, got %s", edge.TypeOf())
	}
	if edge.RoleOf(0) != hgtype.RoleSubject {
		t.Fatalf("expected alice annotated subject, got %q", edge.RoleOf(0))
	}
	if edge.RoleOf(1) != hgtype.RoleObject {
		t.Fatalf("expected bananas annotated object, got %q", edge.RoleOf(1))
	}
}

// "red car": adjacent unconnected Cs get an implicit +/B builder.
func TestAssembleImplicitBuilder(t *testing.T) {
	tokens := []deptree.Token{
		{Surface: "red", Dep: "amod", Index: 0, HeadIndex: 1},
		{Surface: "car", Dep: "ROOT", Index: 1, HeadIndex: 1},
	}
	tree, err := deptree.New(tokens)
	if err != nil {
		t.Fatalf("deptree.New: %v", err)
	}
	typed := []alpha.TypedToken{
		typedAtom(t, tokens[0], "red", hgtype.Concept),
		typedAtom(t, tokens[1], "car", hgtype.Concept),
	}

	h, err := Assemble(tree, typed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.TypeOf() != hgtype.Concept {
		t.Fatalf("expected builder result type C, got %s", h.TypeOf())
	}
	edge := h.(*hyperedge.Edge)
	if edge.Rule() != hgtype.IRB {
		t.Fatalf("expected IR-B, got %s", edge.Rule())
	}
}

// A single atom with no children or parent assembles to itself.
func TestAssembleSingleAtom(t *testing.T) {
	tokens := []deptree.Token{{Surface: "alice", Index: 0, HeadIndex: 0}}
	tree, err := deptree.New(tokens)
	if err != nil {
		t.Fatalf("deptree.New: %v", err)
	}
	typed := []alpha.TypedToken{typedAtom(t, tokens[0], "alice", hgtype.Concept)}

	h, err := Assemble(tree, typed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, ok := h.(*hyperedge.Atom)
	if !ok || a.Label != "alice" {
		t.Fatalf("expected atom alice, got %+v", h)
	}
}

// Three modifiers under a modifier root, with no well-typed grouping and
// no coordination marker, leave the root with more than one member: a
// BetaError with the unconsumed pieces.
func TestAssembleReportsUnconsumed(t *testing.T) {
	tokens := []deptree.Token{
		{Surface: "a", Dep: "dep", Index: 0, HeadIndex: 2},
		{Surface: "b", Dep: "dep", Index: 1, HeadIndex: 2},
		{Surface: "c", Dep: "ROOT", Index: 2, HeadIndex: 2},
	}
	tree, err := deptree.New(tokens)
	if err != nil {
		t.Fatalf("deptree.New: %v", err)
	}
	// a, b and c all typed M: no P/B/T/J connector, and IR-M takes exactly
	// one argument, so an M connector over the other two does not type-check;
	// not all-C, so no implicit builder either. No grouping action applies.
	typed := []alpha.TypedToken{
		typedAtom(t, tokens[0], "a", hgtype.Modifier),
		typedAtom(t, tokens[1], "b", hgtype.Modifier),
		typedAtom(t, tokens[2], "c", hgtype.Modifier),
	}

	_, err = Assemble(tree, typed)
	if err == nil {
		t.Fatalf("expected BetaError")
	}
	betaErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *beta.Error, got %T", err)
	}
	if len(betaErr.Unconsumed) == 0 {
		t.Fatalf("expected unconsumed members")
	}
}

// Coordination dependency label offers an implicit :/J across C args
// alongside the implicit +/B builder; the sentence assembles to a C.
func TestAssembleImplicitConjunction(t *testing.T) {
	tokens := []deptree.Token{
		{Surface: "apples", Dep: "ROOT", Index: 0, HeadIndex: 0},
		{Surface: "bananas", Dep: "conj", Index: 1, HeadIndex: 0},
	}
	tree, err := deptree.New(tokens)
	if err != nil {
		t.Fatalf("deptree.New: %v", err)
	}
	typed := []alpha.TypedToken{
		typedAtom(t, tokens[0], "apples", hgtype.Concept),
		typedAtom(t, tokens[1], "bananas", hgtype.Concept),
	}

	h, err := Assemble(tree, typed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Both the implicit-builder and implicit-conjunction fallbacks apply
	// here (both produce type C) with equal distance and depth; the builder
	// wins on rule rank (IR-B < IR-J). Only the resulting type is checked.
	if h.TypeOf() != hgtype.Concept {
		t.Fatalf("expected type C, got %s", h.TypeOf())
	}
}
