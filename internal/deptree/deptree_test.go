package deptree

import "testing"

func simpleSentence() []Token {
	// "alice likes bananas": likes is root, alice/bananas depend on it.
	return []Token{
		{Surface: "alice", POS: "NOUN", Dep: "nsubj", HeadPOS: "VERB", HeadDep: "ROOT", Index: 0, HeadIndex: 1},
		{Surface: "likes", POS: "VERB", Dep: "ROOT", HeadPOS: "VERB", HeadDep: "ROOT", Index: 1, HeadIndex: 1},
		{Surface: "bananas", POS: "NOUN", Dep: "dobj", HeadPOS: "VERB", HeadDep: "ROOT", Index: 2, HeadIndex: 1},
	}
}

func TestNewBuildsTree(t *testing.T) {
	tree, err := New(simpleSentence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Root().Surface != "likes" {
		t.Fatalf("expected root 'likes', got %q", tree.Root().Surface)
	}
	if tree.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", tree.Len())
	}
}

func TestChildrenInSentenceOrder(t *testing.T) {
	tree, err := New(simpleSentence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kids := tree.Children(1)
	if len(kids) != 2 || kids[0].Surface != "alice" || kids[1].Surface != "bananas" {
		t.Fatalf("got %+v", kids)
	}
}

func TestPostOrderVisitsChildrenBeforeParent(t *testing.T) {
	tree, err := New(simpleSentence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var order []string
	tree.PostOrder(func(tok Token) { order = append(order, tok.Surface) })
	if len(order) != 3 || order[2] != "likes" {
		t.Fatalf("expected root visited last, got %v", order)
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty token sequence")
	}
}

func TestNewRejectsNoRoot(t *testing.T) {
	tokens := []Token{
		{Surface: "a", Index: 0, HeadIndex: 1},
		{Surface: "b", Index: 1, HeadIndex: 0},
	}
	if _, err := New(tokens); err == nil {
		t.Fatalf("expected error: no root (cycle masquerading as headless)")
	}
}

func TestNewRejectsMultipleRoots(t *testing.T) {
	tokens := []Token{
		{Surface: "a", Index: 0, HeadIndex: 0},
		{Surface: "b", Index: 1, HeadIndex: 1},
	}
	if _, err := New(tokens); err == nil {
		t.Fatalf("expected error: two roots")
	}
}

func TestNewRejectsDanglingHead(t *testing.T) {
	tokens := []Token{
		{Surface: "a", Index: 0, HeadIndex: 0},
		{Surface: "b", Index: 1, HeadIndex: 5},
	}
	if _, err := New(tokens); err == nil {
		t.Fatalf("expected error: head index not present")
	}
}

func TestNewRejectsCycle(t *testing.T) {
	// 0 is root; 1 and 2 point at each other, neither reachable from root.
	tokens := []Token{
		{Surface: "root", Index: 0, HeadIndex: 0},
		{Surface: "a", Index: 1, HeadIndex: 2},
		{Surface: "b", Index: 2, HeadIndex: 1},
	}
	if _, err := New(tokens); err == nil {
		t.Fatalf("expected error: disconnected cycle")
	}
}

func TestIsRoot(t *testing.T) {
	tok := Token{Index: 3, HeadIndex: 3}
	if !tok.IsRoot() {
		t.Fatalf("expected IsRoot true when HeadIndex == Index")
	}
}
