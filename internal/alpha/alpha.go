// Package alpha is the α-parser (spec.md §4.4): per-token feature
// extraction followed by a pluggable classifier, producing a typed atom
// per non-discarded token while preserving token order. It is stateless
// (spec.md §4.4: "any number of parallel threads may invoke it") — every
// exported function here is a pure function of its arguments.
package alpha

import (
	"fmt"

	"github.com/brianmills2718/semantic-hypergraph/internal/deptree"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

// Discard is the sentinel output domain member (spec.md §4.4/§6.2) that
// tells the caller to drop this token before the β-parser ever sees it.
// It is deliberately not a hgtype.Code: hgtype's eight codes are all
// edge-bearing types, and DISCARD is not one.
const Discard = "DISCARD"

// Label is a classifier's raw output: one of the six hgtype.Code values
// or Discard.
type Label string

// Features is the F5 feature vector spec.md §6.2 fixes as the
// β-parser's only permitted dependency surface: "ordered vector of
// {TAG, DEP, HDEP, HPOS, POS_AFTER}". A Classifier may read more than
// this off the token it was given, but nothing downstream may.
type Features struct {
	Tag      string // TAG  = the token's own POS tag
	Dep      string // DEP  = the token's dependency relation
	HDep     string // HDEP = the head token's dependency relation
	HPos     string // HPOS = the head token's POS tag
	PosAfter string // POS_AFTER = trailing punctuation/whitespace
}

// FeaturesOf projects the F5 feature vector out of a token plus its head.
func FeaturesOf(tok, head deptree.Token) Features {
	return Features{
		Tag:      tok.POS,
		Dep:      tok.Dep,
		HDep:     head.Dep,
		HPos:     head.POS,
		PosAfter: tok.PosAfter,
	}
}

// Classifier is the capability interface spec.md §4.4 abstracts the
// α-stage behind: "any implementation returning one of {C, P, M, B, T,
// J, DISCARD} is acceptable". internal/classifier ships a reference
// rule-table implementation; a trained model is equally valid as long
// as it satisfies this interface.
type Classifier interface {
	Classify(f Features) (Label, error)
}

// Error is spec.md §4.4's "Unknown token types are reported as
// AlphaError{token_index, reason}" — a recoverable per-token failure
// that still yields a DISCARD rather than aborting the sentence.
type Error struct {
	TokenIndex uint32
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("alpha: token %d: %s", e.TokenIndex, e.Reason)
}

// TypedToken pairs a surviving, non-discarded token with the atom the
// classifier produced for it, keeping the original token index so the
// β-parser can still navigate the dependency tree.
type TypedToken struct {
	Token deptree.Token
	Atom  *hyperedge.Atom
}

// Run classifies every token in tree in sentence order, producing one
// TypedToken per non-DISCARD, non-error token. Atoms are lowercase by
// construction (hyperedge.NewAtom). DISCARD tokens are dropped without an
// Error; tokens the classifier fails on or labels with an unknown code
// are dropped and reported as Errors, never aborting the run (spec.md
// §4.4: "recoverable").
func Run(tree *deptree.Tree, clf Classifier) ([]TypedToken, []*Error) {
	var out []TypedToken
	var errs []*Error

	for _, tok := range tree.Tokens() {
		head := tok
		if !tok.IsRoot() {
			head = headOf(tree, tok)
		}
		label, err := clf.Classify(FeaturesOf(tok, head))
		if err != nil {
			errs = append(errs, &Error{TokenIndex: tok.Index, Reason: err.Error()})
			continue
		}
		if label == Discard {
			continue
		}
		typ, ok := asCode(label)
		if !ok {
			errs = append(errs, &Error{TokenIndex: tok.Index, Reason: fmt.Sprintf("unknown classifier label %q", label)})
			continue
		}
		atom, err := hyperedge.NewAtom(tok.Surface, typ, "")
		if err != nil {
			errs = append(errs, &Error{TokenIndex: tok.Index, Reason: err.Error()})
			continue
		}
		out = append(out, TypedToken{Token: tok, Atom: atom})
	}
	return out, errs
}

func headOf(tree *deptree.Tree, tok deptree.Token) deptree.Token {
	for _, t := range tree.Tokens() {
		if t.Index == tok.HeadIndex {
			return t
		}
	}
	return tok
}

func asCode(l Label) (hgtype.Code, bool) {
	switch hgtype.Code(l) {
	case hgtype.Concept, hgtype.Predicate, hgtype.Modifier, hgtype.Builder, hgtype.Trigger, hgtype.Conjunction:
		return hgtype.Code(l), true
	default:
		return "", false
	}
}
