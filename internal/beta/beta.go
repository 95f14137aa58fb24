// Package beta is the β-parser (spec.md §4.5): bottom-up, dependency-
// tree-guided assembly of a typed-atom sequence into one well-formed
// hyperedge. The dependency tree is advisory — it drives traversal order
// and the heuristic tie-break — but internal/hgtype's inference rules
// are the sole arbiter of what may legally combine (spec.md's "Dependency-
// guided assembly without owning a parser").
package beta

import (
	"fmt"
	"sort"

	"github.com/brianmills2718/semantic-hypergraph/internal/alpha"
	"github.com/brianmills2718/semantic-hypergraph/internal/deptree"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

// Error is spec.md §4.5's "BetaError{unconsumed: [...]}" — the parser
// reached the end of its traversal with more than one hyperedge left on
// the stack. Recoverable: the caller marks the sentence Malformed and
// excludes it from inference rather than aborting the document
// (spec.md §4.5 Failure semantics, §7).
type Error struct {
	Unconsumed []hyperedge.Hyperedge
}

func (e *Error) Error() string {
	return fmt.Sprintf("beta: %d hyperedges left unconsumed", len(e.Unconsumed))
}

// DependencyRoles maps a dependency relation label to the argument role
// it implies on a P-edge (spec.md §4.5: "a documented mapping table
// drives this; e.g., nsubj→s, dobj→o, iobj→i, attr→c").
var DependencyRoles = map[string]hgtype.Role{
	"nsubj": hgtype.RoleSubject,
	"nsubjpass": hgtype.RoleSubject,
	"dobj":  hgtype.RoleObject,
	"obj":   hgtype.RoleObject,
	"iobj":  hgtype.RoleIndirect,
	"attr":  hgtype.RoleAttribute,
	"acomp": hgtype.RoleAttribute,
	"advmod": hgtype.RoleModifier2,
	"agent": hgtype.RoleActor,
}

// coordinationDeps are dependency labels the β-parser treats as
// signalling a :/J conjunction across siblings (spec.md §4.5 step 3).
var coordinationDeps = map[string]bool{
	"conj": true,
	"cc":   true,
}

// candidate is one grouping action considered at a subtree node.
type candidate struct {
	connIdx int // index of the connector within group
	edge    hyperedge.Hyperedge
	rule    hgtype.Rule
	depDist int
	depth   int
	leadTok uint32
}

// node tracks the live group of not-yet-merged hyperedges rooted at one
// dependency-tree token, plus bookkeeping the heuristic needs.
type node struct {
	members []member
	depth   int
}

type member struct {
	h       hyperedge.Hyperedge
	tokIdx  uint32
	dep     string
	depth   int
}

// Assemble runs the β-parser over an α-parser output: typed tokens plus
// the dependency tree they were drawn from. It returns the single root
// hyperedge on success, or *Error with everything still unconsumed.
func Assemble(tree *deptree.Tree, typed []alpha.TypedToken) (hyperedge.Hyperedge, error) {
	byIdx := make(map[uint32]alpha.TypedToken, len(typed))
	for _, tt := range typed {
		byIdx[tt.Token.Index] = tt
	}

	nodes := make(map[uint32]*node)

	var walk func(idx uint32) *node
	walk = func(idx uint32) *node {
		depth := 0
		var self []member
		if tt, ok := byIdx[idx]; ok {
			self = []member{{h: tt.Atom, tokIdx: tt.Token.Index, dep: tt.Token.Dep, depth: 0}}
		}

		var group []member
		group = append(group, self...)
		maxChildDepth := 0
		for _, childTok := range tree.Children(idx) {
			childNode := walk(childTok.Index)
			if childNode == nil {
				continue
			}
			for _, m := range childNode.members {
				group = append(group, m)
			}
			if childNode.depth > maxChildDepth {
				maxChildDepth = childNode.depth
			}
		}
		if len(group) == 0 {
			return nil
		}
		depth = maxChildDepth + 1

		sort.SliceStable(group, func(i, j int) bool { return group[i].tokIdx < group[j].tokIdx })

		merged := reduce(group)
		n := &node{members: merged, depth: depth}
		nodes[idx] = n
		return n
	}

	root := walk(tree.Root().Index)
	if root == nil {
		return nil, &Error{}
	}
	if len(root.members) == 1 {
		return root.members[0].h, nil
	}

	leftover := make([]hyperedge.Hyperedge, len(root.members))
	for i, m := range root.members {
		leftover[i] = m.h
	}
	return nil, &Error{Unconsumed: leftover}
}

// reduce repeatedly looks for the best-scoring grouping action among
// group's members and applies it, until no candidate remains or only one
// member is left (spec.md §4.5 steps 3-5).
func reduce(group []member) []member {
	for len(group) > 1 {
		cands := enumerate(group)
		if len(cands) == 0 {
			break
		}
		best := pickBest(cands)
		group = applyCandidate(group, best)
	}
	return group
}

// enumerate lists every grouping action available among group's members:
// any member with connector type as the edge's connector, plus the two
// synthetic fallbacks (implicit +/B over adjacent Cs, implicit :/J over
// coordination-marked siblings).
func enumerate(group []member) []candidate {
	var cands []candidate

	for i, m := range group {
		connType := m.h.TypeOf()
		if !connType.IsConnector() {
			continue
		}
		args := otherMembers(group, i)
		edge, roles, err := tryBuild(m.h, args, connType)
		if err != nil {
			continue
		}
		cands = append(cands, makeCandidate(i, edge, group, args, roles))
	}

	if c, ok := tryImplicitBuilder(group); ok {
		cands = append(cands, c)
	}
	if c, ok := tryImplicitConjunction(group); ok {
		cands = append(cands, c)
	}

	return cands
}

func otherMembers(group []member, skip int) []member {
	out := make([]member, 0, len(group)-1)
	for i, m := range group {
		if i != skip {
			out = append(out, m)
		}
	}
	return out
}

func tryBuild(connector hyperedge.Hyperedge, args []member, connType hgtype.Code) (hyperedge.Hyperedge, map[int]hgtype.Role, error) {
	children := make([]hyperedge.Hyperedge, 0, len(args)+1)
	children = append(children, connector)
	roles := map[int]hgtype.Role{}
	for i, a := range args {
		children = append(children, a.h)
		if connType == hgtype.Predicate {
			if r, ok := DependencyRoles[a.dep]; ok && hgtype.ValidRoleFor(connType, r) {
				roles[i] = r
			}
		}
	}
	edge, err := hyperedge.NewEdgeWithRoles(children, roles)
	if err != nil {
		return nil, nil, err
	}
	return edge, roles, nil
}

func makeCandidate(connPos int, edge hyperedge.Hyperedge, group []member, args []member, roles map[int]hgtype.Role) candidate {
	e, _ := edge.(*hyperedge.Edge)
	rule := hgtype.NoRule
	if e != nil {
		rule = e.Rule()
	}
	return candidate{
		connIdx: connPos,
		edge:    edge,
		rule:    rule,
		depDist: dependencyDistance(group[connPos], args),
		depth:   maxDepth(group),
		leadTok: leadToken(group),
	}
}

func dependencyDistance(conn member, args []member) int {
	dist := 0
	for _, a := range args {
		d := int(a.tokIdx) - int(conn.tokIdx)
		if d < 0 {
			d = -d
		}
		dist += d
	}
	return dist
}

func maxDepth(group []member) int {
	max := 0
	for _, m := range group {
		if m.depth > max {
			max = m.depth
		}
	}
	return max
}

func leadToken(group []member) uint32 {
	min := group[0].tokIdx
	for _, m := range group[1:] {
		if m.tokIdx < min {
			min = m.tokIdx
		}
	}
	return min
}

// tryImplicitBuilder inserts a synthetic +/B connector over two or more
// adjacent C-typed members with no existing connector among them
// (spec.md §4.5 step 3: "inserting an implicit +/B for adjacent
// unconnected Cs").
func tryImplicitBuilder(group []member) (candidate, bool) {
	if len(group) < 2 {
		return candidate{}, false
	}
	for _, m := range group {
		if m.h.TypeOf().IsConnector() {
			return candidate{}, false
		}
	}
	for _, m := range group {
		if m.h.TypeOf() != hgtype.Concept {
			return candidate{}, false
		}
	}
	plus, err := hyperedge.NewAtom("+", hgtype.Builder, "")
	if err != nil {
		return candidate{}, false
	}
	children := make([]hyperedge.Hyperedge, 0, len(group)+1)
	children = append(children, plus)
	for _, m := range group {
		children = append(children, m.h)
	}
	edge, err := hyperedge.NewEdge(children)
	if err != nil {
		return candidate{}, false
	}
	return candidate{
		connIdx: -1, // synthetic: consumes the whole group
		edge:    edge,
		rule:    edge.Rule(),
		depDist: dependencyDistance(member{tokIdx: leadToken(group)}, group),
		depth:   maxDepth(group),
		leadTok: leadToken(group),
	}, true
}

// tryImplicitConjunction inserts a synthetic :/J connector across
// siblings when one of them carries a coordination dependency label
// (spec.md §4.5 step 3: ":/J across siblings when the dependency label
// implies coordination").
func tryImplicitConjunction(group []member) (candidate, bool) {
	if len(group) < 2 {
		return candidate{}, false
	}
	hasCoordination := false
	for _, m := range group {
		if coordinationDeps[m.dep] {
			hasCoordination = true
			break
		}
	}
	if !hasCoordination {
		return candidate{}, false
	}
	colon, err := hyperedge.NewAtom(":", hgtype.Conjunction, "")
	if err != nil {
		return candidate{}, false
	}
	children := make([]hyperedge.Hyperedge, 0, len(group)+1)
	children = append(children, colon)
	for _, m := range group {
		children = append(children, m.h)
	}
	edge, err := hyperedge.NewEdge(children)
	if err != nil {
		return candidate{}, false
	}
	return candidate{
		connIdx: -1,
		edge:    edge,
		rule:    edge.Rule(),
		depDist: dependencyDistance(member{tokIdx: leadToken(group)}, group),
		depth:   maxDepth(group),
		leadTok: leadToken(group),
	}, true
}

// pickBest applies heuristic h (spec.md §4.5 step 4): smaller dependency
// distance, then shallower depth, then rule rank (IR-M < IR-B < IR-T <
// IR-P < IR-J), then leftmost leading token.
func pickBest(cands []candidate) candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if less(c, best) {
			best = c
		}
	}
	return best
}

func less(a, b candidate) bool {
	if a.depDist != b.depDist {
		return a.depDist < b.depDist
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	if a.rule.Rank() != b.rule.Rank() {
		return a.rule.Rank() < b.rule.Rank()
	}
	return a.leadTok < b.leadTok
}

// applyCandidate replaces every group member the winning candidate
// consumed with the single edge it produced.
func applyCandidate(group []member, best candidate) []member {
	if best.connIdx == -1 {
		// Synthetic candidate: consumes the entire group.
		return []member{{h: best.edge, tokIdx: best.leadTok, depth: best.depth + 1}}
	}
	connMember := group[best.connIdx]
	replaced := member{h: best.edge, tokIdx: connMember.tokIdx, depth: best.depth + 1}
	return []member{replaced}
}
