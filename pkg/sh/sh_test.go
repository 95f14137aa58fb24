package sh

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianmills2718/semantic-hypergraph/internal/alpha"
	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
)

// fixedClassifier maps a handful of POS tags to hgtype labels, enough to
// reproduce spec.md's Scenario A end to end without a real tokenizer.
type fixedClassifier struct{}

func (fixedClassifier) Classify(f alpha.Features) (alpha.Label, error) {
	switch f.Tag {
	case "PROPN", "NOUN":
		return alpha.Label(hgtype.Concept), nil
	case "VERB":
		return alpha.Label(hgtype.Predicate), nil
	case "PUNCT":
		return alpha.Label(alpha.Discard), nil
	default:
		return "", fmt.Errorf("fixedClassifier: no rule for tag %q", f.Tag)
	}
}

// Scenario A: "Alice likes bananas." -> (likes/P alice/C bananas/C).
func TestSystemParseScenarioA(t *testing.T) {
	tree, err := ParseSentenceLine("Alice/PROPN/nsubj/1 likes/VERB/ROOT/1 bananas/NOUN/dobj/1 ./PUNCT/punct/1")
	if err != nil {
		t.Fatalf("ParseSentenceLine: %v", err)
	}

	sys := New(fixedClassifier{})
	edge, alphaErrs, err := sys.Parse(context.Background(), tree)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(alphaErrs) != 0 {
		t.Fatalf("unexpected alpha errors: %v", alphaErrs)
	}

	got := codec.Print(edge)
	want := "(likes/P alice/C bananas/C)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSystemMatch(t *testing.T) {
	sys := New(nil)
	h, err := codec.Parse("alice/C")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	bindings, err := sys.Match("$X/C", h)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(bindings) != 1 || codec.Print(bindings[0]["X"]) != "alice/C" {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}
}

func TestSystemInfer(t *testing.T) {
	sys := New(nil)
	h, err := codec.Parse("(likes/P alice/C bananas/C)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sys.Insert(h)

	ruleText := `
rule tag priority=1 idempotent
  antecedent: (likes/P $S $O)
  consequent: EMIT tagged/C
`
	if err := sys.Infer(context.Background(), ruleText); err != nil {
		t.Fatalf("Infer: %v", err)
	}

	tagged, _ := codec.Parse("tagged/C")
	if _, ok := sys.Store.Get(kb.IDOf(tagged)); !ok {
		t.Fatalf("expected tagged/C to have been emitted")
	}
}
