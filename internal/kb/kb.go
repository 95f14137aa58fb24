// Package kb is the KB facade (spec.md §4.8): an in-memory store of
// hyperedges with content-derived identity, O(1) degree lookups backed
// by maintained inverse indices, and a single-writer/multi-reader
// concurrency discipline (spec.md §6.4's concurrency model, generalized
// from the document level to the KB itself).
package kb

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

// ID is a hyperedge's content-derived identity: a UUID v5 computed from
// its canonical printed form. Two structurally-equal hyperedges always
// get the same ID, which is what makes Insert idempotent up to
// structural equality (spec.md §4.8, P7).
type ID string

// namespace fixes the UUID v5 namespace every hyperedge ID is derived
// under; it has no meaning beyond giving NewSHA1 a stable input.
var namespace = uuid.MustParse("7e5a9f2e-2a6b-4b8a-9a0b-2e9f6c7d8b10")

// IDOf computes h's content-derived ID without requiring it to be in any
// KB — the same hyperedge always yields the same ID.
func IDOf(h hyperedge.Hyperedge) ID {
	return ID(uuid.NewSHA1(namespace, []byte(codec.Print(h))).String())
}

// Subscription callback, fired once per newly inserted hyperedge that
// matches pattern (spec.md §4.8: "used by downstream applications; not
// in the core's inference loop").
type Callback func(h hyperedge.Hyperedge)

type subscription struct {
	pattern  *pattern.Node
	callback Callback
}

// KB is the in-memory hypergraph store.
type KB struct {
	mu     sync.RWMutex
	byID   map[ID]hyperedge.Hyperedge
	order  []ID
	direct map[ID]map[ID]bool // member ID -> set of edges containing it as a direct element
	deep   map[ID]map[ID]bool // member ID -> set of edges containing it anywhere
	subs   []subscription
}

// New returns an empty KB.
func New() *KB {
	return &KB{
		byID:   make(map[ID]hyperedge.Hyperedge),
		direct: make(map[ID]map[ID]bool),
		deep:   make(map[ID]map[ID]bool),
	}
}

// Insert adds h to the KB, returning its ID. Re-inserting a structurally
// equal hyperedge is a no-op that returns the same ID (spec.md §4.8:
// "idempotent up to structural equality").
func (kb *KB) Insert(h hyperedge.Hyperedge) ID {
	id := IDOf(h)

	kb.mu.Lock()
	if _, exists := kb.byID[id]; exists {
		kb.mu.Unlock()
		return id
	}
	kb.byID[id] = h
	kb.order = append(kb.order, id)
	kb.indexMembership(id, h)
	kb.mu.Unlock()

	kb.notify(h)
	return id
}

// indexMembership updates the direct/deep inverse indices for a newly
// inserted hyperedge. Caller holds kb.mu.
func (kb *KB) indexMembership(id ID, h hyperedge.Hyperedge) {
	if !h.IsAtom() {
		for _, c := range h.Elements() {
			cid := IDOf(c)
			addMember(kb.direct, cid, id)
		}
	}
	hyperedge.Walk(h, func(sub hyperedge.Hyperedge) {
		if sub.Equal(h) {
			return
		}
		sid := IDOf(sub)
		addMember(kb.deep, sid, id)
	})
}

func addMember(idx map[ID]map[ID]bool, member, container ID) {
	set, ok := idx[member]
	if !ok {
		set = make(map[ID]bool)
		idx[member] = set
	}
	set[container] = true
}

// Get returns the hyperedge stored under id, if any.
func (kb *KB) Get(id ID) (hyperedge.Hyperedge, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	h, ok := kb.byID[id]
	return h, ok
}

// Iter returns every hyperedge in insertion order, optionally restricted
// to those for which filter returns true. filter == nil means no
// restriction. The KB is small enough in practice that materializing the
// slice under a read lock is simpler and just as safe as a true lazy
// iterator; nothing downstream depends on laziness.
func (kb *KB) Iter(filter func(hyperedge.Hyperedge) bool) []hyperedge.Hyperedge {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]hyperedge.Hyperedge, 0, len(kb.order))
	for _, id := range kb.order {
		h := kb.byID[id]
		if filter == nil || filter(h) {
			out = append(out, h)
		}
	}
	return out
}

// Degree is spec.md §4.2's degree(h): the sum, over every hyperedge that
// contains h as a direct element, of (|outer_edge| - 1). This is not the
// same as the number of containing edges — it only coincides with that
// count when every container is binary.
func (kb *KB) Degree(h hyperedge.Hyperedge) int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.sumArityMinusOne(kb.direct[IDOf(h)])
}

// DeepDegree is the same sum taken over every containing edge at any
// nesting depth (spec.md §4.2: degree "counting all nesting levels").
func (kb *KB) DeepDegree(h hyperedge.Hyperedge) int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.sumArityMinusOne(kb.deep[IDOf(h)])
}

// sumArityMinusOne sums (|container| - 1) over the container IDs in
// containers. Caller holds kb.mu.
func (kb *KB) sumArityMinusOne(containers map[ID]bool) int {
	total := 0
	for cid := range containers {
		if c, ok := kb.byID[cid]; ok {
			total += len(c.Elements()) - 1
		}
	}
	return total
}

// Subscribe registers callback to fire once for every future Insert
// whose hyperedge matches pat (spec.md §4.8). It does not fire for
// hyperedges already in the KB.
func (kb *KB) Subscribe(pat *pattern.Node, callback Callback) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.subs = append(kb.subs, subscription{pattern: pat, callback: callback})
}

func (kb *KB) notify(h hyperedge.Hyperedge) {
	kb.mu.RLock()
	subs := append([]subscription(nil), kb.subs...)
	kb.mu.RUnlock()
	for _, s := range subs {
		if len(pattern.Match(s.pattern, h)) > 0 {
			s.callback(h)
		}
	}
}

// Replace implements spec.md §4.7's REPLACE directive: oldID's hyperedge
// is swapped for newH everywhere it appears, preserving the position of
// every container that held it (their content changes, their own IDs do
// not — REPLACE "preserves ID, rewires containers" refers to the
// containers, since a hyperedge's own ID is always its content hash and
// necessarily changes when its content does). Returns newH's ID.
func (kb *KB) Replace(oldID ID, newH hyperedge.Hyperedge) (ID, error) {
	kb.mu.Lock()
	oldH, ok := kb.byID[oldID]
	if !ok {
		kb.mu.Unlock()
		return "", &ReplaceError{ID: oldID}
	}
	newID := IDOf(newH)

	rewritten := make(map[ID]hyperedge.Hyperedge, len(kb.byID))
	for id, h := range kb.byID {
		if id == oldID {
			continue
		}
		if r, changed := hyperedge.Substitute(h, oldH, newH); changed {
			rewritten[id] = r
		}
	}
	for id, h := range rewritten {
		kb.byID[id] = h
	}
	delete(kb.byID, oldID)
	kb.byID[newID] = newH

	for i, id := range kb.order {
		if id == oldID {
			kb.order[i] = newID
		}
	}

	kb.direct = make(map[ID]map[ID]bool)
	kb.deep = make(map[ID]map[ID]bool)
	for _, id := range kb.order {
		kb.indexMembership(id, kb.byID[id])
	}
	kb.mu.Unlock()

	kb.notify(newH)
	return newID, nil
}

// Retract removes id's hyperedge from the KB outright (spec.md §4.7's
// RETRACT directive). Containers that held it are left as-is: retraction
// only removes the top-level stored entry, it does not rewrite other
// hyperedges' structure.
func (kb *KB) Retract(id ID) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if _, ok := kb.byID[id]; !ok {
		return
	}
	delete(kb.byID, id)
	for i, oid := range kb.order {
		if oid == id {
			kb.order = append(kb.order[:i], kb.order[i+1:]...)
			break
		}
	}
	kb.direct = make(map[ID]map[ID]bool)
	kb.deep = make(map[ID]map[ID]bool)
	for _, oid := range kb.order {
		kb.indexMembership(oid, kb.byID[oid])
	}
}

// ReplaceError reports a Replace call against an ID no longer (or never)
// present in the KB.
type ReplaceError struct {
	ID ID
}

func (e *ReplaceError) Error() string {
	return "kb: replace target not found: " + string(e.ID)
}

// Size is the number of distinct hyperedges currently stored.
func (kb *KB) Size() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.order)
}

// Snapshot serializes the KB's current contents to sink in insertion
// order (spec.md §4.8: "pluggable snapshot/restore left as a
// collaborator interface").
func (kb *KB) Snapshot(sink Sink) error {
	kb.mu.RLock()
	records := make([]Record, len(kb.order))
	for i, id := range kb.order {
		records[i] = Record{ID: string(id), Text: codec.Print(kb.byID[id])}
	}
	kb.mu.RUnlock()
	return sink.Snapshot(records)
}

// Restore loads hyperedges out of sink and inserts them, in the order
// the sink returns them. Parse failures on an individual record are
// collected and returned together rather than aborting the whole
// restore.
func (kb *KB) Restore(sink Sink) ([]ID, error) {
	records, err := sink.Restore()
	if err != nil {
		return nil, err
	}
	ids := make([]ID, 0, len(records))
	var errs []error
	for _, r := range records {
		h, err := codec.Parse(r.Text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, kb.Insert(h))
	}
	if len(errs) > 0 {
		return ids, &RestoreError{Errors: errs}
	}
	return ids, nil
}

// RestoreError collects every record a Restore call failed to parse.
type RestoreError struct {
	Errors []error
}

func (e *RestoreError) Error() string {
	return "kb: restore failed for one or more records"
}

// IDs returns every ID currently stored, in insertion order.
func (kb *KB) IDs() []ID {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := append([]ID(nil), kb.order...)
	return out
}

// SortedIDs returns every ID in lexicographic order — the total order on
// hyperedge IDs the rule engine uses to make binding enumeration
// deterministic (spec.md §4.7: "a total order on hyperedge IDs").
func (kb *KB) SortedIDs() []ID {
	ids := kb.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
