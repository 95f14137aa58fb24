// Package rules is the rule engine (spec.md §4.7): a priority-ordered
// fixed-point loop over (antecedent_pattern, consequent_template,
// priority) productions, built on internal/pattern's matcher and
// internal/kb's facade.
package rules

import (
	"context"
	"sort"

	"github.com/brianmills2718/semantic-hypergraph/internal/diagnostics"
	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

// Engine holds a fixed, priority-sorted rule set and runs it to a fixed
// point against a KB.
type Engine struct {
	rules []Rule
}

// NewEngine builds an Engine from rules, sorted by ascending priority
// (spec.md §4.7: "lower fires first"). It does not itself re-run the
// text-format load-time termination check — that happens in ParseFile,
// before a TemplateRule ever reaches here — but it is the boundary a
// caller should treat as "load time" for any Rule implementation.
func NewEngine(rules []Rule) *Engine {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority() < sorted[j].Priority() })
	return &Engine{rules: sorted}
}

// Cancelled reports that Run was aborted by context cancellation,
// leaving the KB in the state of the last completed iteration (spec.md
// §5, §7).
type Cancelled struct{}

func (e *Cancelled) Error() string { return "rules: inference cancelled" }

// Run executes the fixed-point loop against store (spec.md §4.7 steps
// 1-3): every pass, each rule in priority order is matched against every
// hyperedge currently in the KB (enumerated via store.SortedIDs, the
// deterministic total order spec.md §4.7 requires for replayability),
// and every resulting action is applied. If any pass inserts/replaces at
// least one hyperedge the KB did not already contain, the whole pass
// repeats from priority 0; otherwise the engine has reached a fixed
// point and returns.
func (e *Engine) Run(ctx context.Context, store *kb.KB) error {
	for {
		select {
		case <-ctx.Done():
			return &Cancelled{}
		default:
		}

		progressed := false
		for _, r := range e.rules {
			for _, id := range store.SortedIDs() {
				h, ok := store.Get(id)
				if !ok {
					continue
				}
				for _, b := range pattern.Match(r.Antecedent(), h) {
					actions, err := r.Apply(h, b)
					if err != nil {
						return diagnostics.RuleEngine("RULE001", err.Error())
					}
					for _, a := range actions {
						if apply(store, a) {
							progressed = true
						}
					}
				}
			}
		}
		if !progressed {
			return nil
		}

		select {
		case <-ctx.Done():
			return &Cancelled{}
		default:
		}
	}
}

// apply dispatches one action against store, reporting whether it
// introduced state the KB did not already have (the "produced at least
// one new hyperedge" signal spec.md §4.7 step 3 restarts on).
func apply(store *kb.KB, a Action) bool {
	switch a.Kind {
	case DirEmit:
		id := kb.IDOf(a.Result)
		_, existed := store.Get(id)
		store.Insert(a.Result)
		return !existed

	case DirReplace:
		oldID := kb.IDOf(a.Target)
		newID := kb.IDOf(a.Result)
		if oldID == newID {
			return false
		}
		if _, err := store.Replace(oldID, a.Result); err != nil {
			return false
		}
		return true

	case DirRetract:
		id := kb.IDOf(a.Target)
		if _, ok := store.Get(id); !ok {
			return false
		}
		store.Retract(id)
		return true
	}
	return false
}
