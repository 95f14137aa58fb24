// Package sh is the embeddable library facade (spec.md §6.6): it wires
// internal/alpha, internal/beta, internal/codec, internal/kb,
// internal/pattern and internal/rules into the three operations the
// spec's conformance CLI exposes — Parse, Match, Infer — so that
// cmd/sh and cmd/shd are thin wrappers and never duplicate pipeline
// logic, mirroring the teacher's cmd/funxy-calls-pkg/cli split.
package sh

import (
	"context"
	"log"
	"os"

	"github.com/brianmills2718/semantic-hypergraph/internal/alpha"
	"github.com/brianmills2718/semantic-hypergraph/internal/beta"
	"github.com/brianmills2718/semantic-hypergraph/internal/config"
	"github.com/brianmills2718/semantic-hypergraph/internal/deptree"
	"github.com/brianmills2718/semantic-hypergraph/internal/diagnostics"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
	"github.com/brianmills2718/semantic-hypergraph/internal/rules"
)

// System bundles the pieces a caller needs across repeated Parse/Match/
// Infer calls: a classifier for Parse, a KB for Match/Infer, and the
// level-gated logger spec.md §6.7 asks every ambient failure to flow
// through.
type System struct {
	Store      *kb.KB
	Classifier alpha.Classifier
	Level      config.LogLevel

	logger *log.Logger
}

// New builds a System with a fresh, empty KB and logs to stderr at the
// level SH_LOG_LEVEL names (spec.md §6.7), defaulting to warn.
func New(clf alpha.Classifier) *System {
	return &System{
		Store:      kb.New(),
		Classifier: clf,
		Level:      config.LevelFromEnv(),
		logger:     log.New(os.Stderr, "", 0),
	}
}

func (s *System) logf(at config.LogLevel, format string, args ...interface{}) {
	if s.Level.Enabled(at) {
		s.logger.Printf("["+string(at)+"] "+format, args...)
	}
}

// Parse runs the full α/β pipeline over one sentence's dependency tree
// (tokenization and dependency parsing are external inputs spec.md's
// Non-goals exclude from the core; the tree is advisory input to β, not
// owned by it — §4.6). Recoverable alpha.Errors are logged as warnings
// and returned alongside any edge β still manages to assemble, per
// spec.md §7's "α/β errors are captured per sentence and surfaced as
// warnings; the document is still ingested with the offending sentence
// marked Malformed" policy — a nil edge with a non-nil error (β could not
// assemble the sentence) means the sentence is Malformed; alpha.Errors
// may accompany a successfully assembled edge.
func (s *System) Parse(ctx context.Context, tree *deptree.Tree) (hyperedge.Hyperedge, []*alpha.Error, error) {
	select {
	case <-ctx.Done():
		return nil, nil, diagnostics.Cancelled()
	default:
	}

	typed, errs := alpha.Run(tree, s.Classifier)
	for _, e := range errs {
		s.logf(config.LogWarn, "alpha: %s", e.Error())
	}

	edge, err := beta.Assemble(tree, typed)
	if err != nil {
		s.logf(config.LogError, "beta: %v", err)
		return nil, errs, err
	}
	return edge, errs, nil
}

// Insert stores h and returns its content-derived ID (spec.md §4.8).
func (s *System) Insert(h hyperedge.Hyperedge) kb.ID {
	return s.Store.Insert(h)
}

// Match compiles patText (the pattern grammar of spec.md §6.4) and
// reports every binding against target in the matcher's deterministic
// order (P3).
func (s *System) Match(patText string, target hyperedge.Hyperedge) ([]pattern.Binding, error) {
	p, err := pattern.Parse(patText)
	if err != nil {
		s.logf(config.LogError, "pattern: %v", err)
		return nil, err
	}
	return pattern.Match(p, target), nil
}

// Infer loads ruleText (spec.md §6.5's rule file grammar), runs it
// alongside the two native built-ins (Conjunction-Decomposition,
// Anaphora-Resolution — spec.md §4.7) to a fixed point against the
// System's KB. A malformed or non-terminating rule is rejected by
// rules.ParseFile (a *rules.Error or *pattern.Error) before the KB is
// touched; a rule whose Apply fails during the run yields a
// *diagnostics.Error and stops the run mid-pass, without undoing the
// actions already applied in that pass; context cancellation yields a
// *rules.Cancelled, observed between passes, so the KB holds the state of
// the last completed pass.
func (s *System) Infer(ctx context.Context, ruleText string) error {
	parsed, err := rules.ParseFile(ruleText)
	if err != nil {
		s.logf(config.LogError, "rules: %v", err)
		return err
	}

	rs := []rules.Rule{
		rules.NewConjunctionDecomposition(),
		rules.NewAnaphoraResolution(config.PronounSet),
	}
	for _, r := range parsed {
		rs = append(rs, r)
	}

	eng := rules.NewEngine(rs)
	if err := eng.Run(ctx, s.Store); err != nil {
		s.logf(config.LogWarn, "infer: %v", err)
		return err
	}
	return nil
}
