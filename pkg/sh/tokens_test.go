package sh

import "testing"

func TestParseSentenceLineBuildsTreeWithDerivedHeadFields(t *testing.T) {
	tree, err := ParseSentenceLine("Alice/PROPN/nsubj/1 likes/VERB/ROOT/1 bananas/NOUN/dobj/1 ./PUNCT/punct/1")
	if err != nil {
		t.Fatalf("ParseSentenceLine: %v", err)
	}
	if tree.Len() != 4 {
		t.Fatalf("expected 4 tokens, got %d", tree.Len())
	}
	root := tree.Root()
	if root.Surface != "likes" || !root.IsRoot() {
		t.Fatalf("expected likes to be the root, got %+v", root)
	}
	alice := tree.Tokens()[0]
	if alice.HeadPOS != "VERB" || alice.HeadDep != "ROOT" {
		t.Fatalf("expected Alice's head fields derived from likes, got %+v", alice)
	}
}

func TestParseSentenceLineRejectsMalformedToken(t *testing.T) {
	if _, err := ParseSentenceLine("Alice/PROPN/nsubj"); err == nil {
		t.Fatalf("expected an error for a token missing its head index")
	}
}

func TestParseSentenceLineRejectsOutOfRangeHead(t *testing.T) {
	if _, err := ParseSentenceLine("Alice/PROPN/nsubj/9"); err == nil {
		t.Fatalf("expected an error for an out-of-range head index")
	}
}

func TestParseSentenceLineRejectsEmptyLine(t *testing.T) {
	if _, err := ParseSentenceLine("   "); err == nil {
		t.Fatalf("expected an error for an empty line")
	}
}
