package rules

import (
	"context"
	"testing"

	"github.com/brianmills2718/semantic-hypergraph/internal/config"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
)

func mustAtom(t *testing.T, label string, typ hgtype.Code) *hyperedge.Atom {
	t.Helper()
	a, err := hyperedge.NewAtom(label, typ, "")
	if err != nil {
		t.Fatalf("NewAtom: %v", err)
	}
	return a
}

// Scenario B: (likes/P alice/C (and/J bananas/C apples/C)) decomposes
// into (likes/P alice/C bananas/C) and (likes/P alice/C apples/C).
func TestConjunctionDecompositionScenarioB(t *testing.T) {
	likes := mustAtom(t, "likes", hgtype.Predicate)
	alice := mustAtom(t, "alice", hgtype.Concept)
	bananas := mustAtom(t, "bananas", hgtype.Concept)
	apples := mustAtom(t, "apples", hgtype.Concept)
	and := mustAtom(t, "and", hgtype.Conjunction)

	conj, err := hyperedge.NewEdge([]hyperedge.Hyperedge{and, bananas, apples})
	if err != nil {
		t.Fatalf("NewEdge conj: %v", err)
	}
	roles := map[int]hgtype.Role{0: hgtype.RoleSubject, 1: hgtype.RoleObject}
	root, err := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{likes, alice, conj}, roles)
	if err != nil {
		t.Fatalf("NewEdgeWithRoles root: %v", err)
	}

	store := kb.New()
	store.Insert(root)

	eng := NewEngine([]Rule{NewConjunctionDecomposition()})
	if err := eng.Run(context.Background(), store); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantA, _ := hyperedge.NewEdge([]hyperedge.Hyperedge{likes, alice, bananas})
	wantB, _ := hyperedge.NewEdge([]hyperedge.Hyperedge{likes, alice, apples})

	var haveA, haveB bool
	for _, h := range store.Iter(nil) {
		if h.Equal(wantA) {
			haveA = true
		}
		if h.Equal(wantB) {
			haveB = true
		}
	}
	if !haveA || !haveB {
		t.Fatalf("expected both decomposed edges in KB, got %d entries", store.Size())
	}
}

func TestConjunctionDecompositionReachesFixedPoint(t *testing.T) {
	likes := mustAtom(t, "likes", hgtype.Predicate)
	alice := mustAtom(t, "alice", hgtype.Concept)
	bananas := mustAtom(t, "bananas", hgtype.Concept)
	apples := mustAtom(t, "apples", hgtype.Concept)
	and := mustAtom(t, "and", hgtype.Conjunction)
	conj, _ := hyperedge.NewEdge([]hyperedge.Hyperedge{and, bananas, apples})
	root, _ := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{likes, alice, conj},
		map[int]hgtype.Role{0: hgtype.RoleSubject, 1: hgtype.RoleObject})

	store := kb.New()
	store.Insert(root)
	eng := NewEngine([]Rule{NewConjunctionDecomposition()})

	if err := eng.Run(context.Background(), store); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	sizeAfterFirst := store.Size()

	// Running again over the now-stable KB must not grow it (P4/idempotent
	// re-emission): this is what guarantees the fixed-point loop itself
	// terminated above rather than looping forever.
	if err := eng.Run(context.Background(), store); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if store.Size() != sizeAfterFirst {
		t.Fatalf("expected a stable fixed point, size went from %d to %d", sizeAfterFirst, store.Size())
	}
}

// Scenario E: (claim/P alice/C (likes/P she/C bananas/C)) resolves the
// inner pronoun subject to alice.
func TestAnaphoraResolutionScenarioE(t *testing.T) {
	claim := mustAtom(t, "claim", hgtype.Predicate)
	alice := mustAtom(t, "alice", hgtype.Concept)
	likes := mustAtom(t, "likes", hgtype.Predicate)
	she := mustAtom(t, "she", hgtype.Concept)
	bananas := mustAtom(t, "bananas", hgtype.Concept)

	inner, err := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{likes, she, bananas},
		map[int]hgtype.Role{0: hgtype.RoleSubject, 1: hgtype.RoleObject})
	if err != nil {
		t.Fatalf("NewEdgeWithRoles inner: %v", err)
	}
	outer, err := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{claim, alice, inner},
		map[int]hgtype.Role{0: hgtype.RoleSubject})
	if err != nil {
		t.Fatalf("NewEdgeWithRoles outer: %v", err)
	}

	store := kb.New()
	outerID := store.Insert(outer)

	eng := NewEngine([]Rule{NewAnaphoraResolution(config.PronounSet)})
	if err := eng.Run(context.Background(), store); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantInner, _ := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{likes, alice, bananas},
		map[int]hgtype.Role{0: hgtype.RoleSubject, 1: hgtype.RoleObject})
	wantOuter, _ := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{claim, alice, wantInner},
		map[int]hgtype.Role{0: hgtype.RoleSubject})

	newID := kb.IDOf(wantOuter)
	got, ok := store.Get(newID)
	if !ok || !got.Equal(wantOuter) {
		t.Fatalf("expected resolved outer edge in KB under its new content ID")
	}
	if _, stillThere := store.Get(outerID); stillThere {
		t.Fatalf("expected the original unresolved edge to have been replaced, not left behind")
	}
}

func TestAnaphoraResolutionSkipsWhenOuterSubjectIsAlsoAPronoun(t *testing.T) {
	claim := mustAtom(t, "claim", hgtype.Predicate)
	he := mustAtom(t, "he", hgtype.Concept)
	likes := mustAtom(t, "likes", hgtype.Predicate)
	she := mustAtom(t, "she", hgtype.Concept)
	bananas := mustAtom(t, "bananas", hgtype.Concept)

	inner, _ := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{likes, she, bananas},
		map[int]hgtype.Role{0: hgtype.RoleSubject, 1: hgtype.RoleObject})
	outer, _ := hyperedge.NewEdgeWithRoles([]hyperedge.Hyperedge{claim, he, inner},
		map[int]hgtype.Role{0: hgtype.RoleSubject})

	store := kb.New()
	id := store.Insert(outer)

	eng := NewEngine([]Rule{NewAnaphoraResolution(config.PronounSet)})
	if err := eng.Run(context.Background(), store); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := store.Get(id); !ok {
		t.Fatalf("expected the edge to be left alone when the outer subject is itself a pronoun")
	}
}

func TestEngineCancellation(t *testing.T) {
	store := kb.New()
	store.Insert(mustAtom(t, "alice", hgtype.Concept))

	eng := NewEngine([]Rule{NewConjunctionDecomposition()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := eng.Run(ctx, store)
	if _, ok := err.(*Cancelled); !ok {
		t.Fatalf("expected *Cancelled, got %v", err)
	}
}
