package rules

import (
	"strconv"
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
)

const conjunctionType = hgtype.Conjunction

// ParseFile parses the rule text format (spec.md §6.5):
//
//	rule RULE_ID priority=NN [idempotent]
//	  antecedent: PATTERN
//	  consequent: PATTERN-OR-DIRECTIVE
//
// one or more blocks back to back, blank lines and `;`-prefixed comment
// lines ignored between and within blocks. A bare consequent pattern is
// an implicit EMIT; `EMIT <p>`, `REPLACE <old> <new>`, and `RETRACT <p>`
// select the other directives.
func ParseFile(text string) ([]*TemplateRule, error) {
	var out []*TemplateRule
	var cur *TemplateRule
	var haveAntecedent, haveConsequent bool

	flush := func() error {
		if cur == nil {
			return nil
		}
		if !haveAntecedent {
			return &Error{Reason: "rule " + cur.id + " has no antecedent"}
		}
		if !haveConsequent {
			return &Error{Reason: "rule " + cur.id + " has no consequent"}
		}
		if err := validateTermination(cur); err != nil {
			return err
		}
		out = append(out, cur)
		return nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "rule "):
			if err := flush(); err != nil {
				return nil, err
			}
			r, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			cur = r
			haveAntecedent, haveConsequent = false, false

		case strings.HasPrefix(line, "antecedent:"):
			if cur == nil {
				return nil, &Error{Reason: "antecedent line outside a rule block"}
			}
			p, err := pattern.Parse(strings.TrimSpace(strings.TrimPrefix(line, "antecedent:")))
			if err != nil {
				return nil, err
			}
			cur.antecedent = p
			haveAntecedent = true

		case strings.HasPrefix(line, "consequent:"):
			if cur == nil {
				return nil, &Error{Reason: "consequent line outside a rule block"}
			}
			if err := parseConsequent(cur, strings.TrimSpace(strings.TrimPrefix(line, "consequent:"))); err != nil {
				return nil, err
			}
			haveConsequent = true

		default:
			return nil, &Error{Reason: "unrecognized rule-file line: " + line}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &Error{Reason: "rule file declares no rules"}
	}
	return out, nil
}

func parseHeader(line string) (*TemplateRule, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, &Error{Reason: "malformed rule header: " + line}
	}
	r := &TemplateRule{id: fields[1]}
	sawPriority := false
	idempotent := false
	for _, f := range fields[2:] {
		if strings.HasPrefix(f, "priority=") {
			n, err := strconv.Atoi(strings.TrimPrefix(f, "priority="))
			if err != nil {
				return nil, &Error{Reason: "malformed priority in rule header: " + line}
			}
			r.priority = n
			sawPriority = true
			continue
		}
		if f == "idempotent" {
			idempotent = true
			continue
		}
		return nil, &Error{Reason: "unrecognized rule header token: " + f}
	}
	if !sawPriority {
		return nil, &Error{Reason: "rule " + r.id + " has no priority"}
	}
	if idempotent {
		r.term = TermIdempotent
	}
	return r, nil
}

func parseConsequent(r *TemplateRule, text string) error {
	switch {
	case strings.HasPrefix(text, "EMIT "):
		p, err := pattern.Parse(strings.TrimSpace(strings.TrimPrefix(text, "EMIT ")))
		if err != nil {
			return err
		}
		r.directive = DirEmit
		r.newTemplate = p

	case strings.HasPrefix(text, "REPLACE "):
		rest := strings.TrimSpace(strings.TrimPrefix(text, "REPLACE "))
		oldText, newText, ok := splitTwoPatterns(rest)
		if !ok {
			return &Error{Reason: "REPLACE requires two patterns: " + text}
		}
		oldP, err := pattern.Parse(oldText)
		if err != nil {
			return err
		}
		newP, err := pattern.Parse(newText)
		if err != nil {
			return err
		}
		r.directive = DirReplace
		r.oldTemplate = oldP
		r.newTemplate = newP

	case strings.HasPrefix(text, "RETRACT "):
		p, err := pattern.Parse(strings.TrimSpace(strings.TrimPrefix(text, "RETRACT ")))
		if err != nil {
			return err
		}
		r.directive = DirRetract
		r.oldTemplate = p

	default:
		p, err := pattern.Parse(text)
		if err != nil {
			return err
		}
		r.directive = DirEmit
		r.newTemplate = p
	}
	return nil
}

// splitTwoPatterns divides a REPLACE consequent's remainder into its two
// parenthesized (or bare-atom) pattern operands by tracking paren depth,
// since a bare space cannot be used to split when either pattern is
// itself a compound containing spaces.
func splitTwoPatterns(s string) (string, string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ' ':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

// validateTermination is the load-time check spec.md §4.7 requires:
// every user rule must declare a basis (J-decrease, size-decrease, or
// idempotent) consistent with its own shape, or the engine refuses to
// load it (RuleEngineError{rule_id, "non-terminating"}).
func validateTermination(r *TemplateRule) error {
	if r.term == TermIdempotent {
		return nil
	}
	switch r.directive {
	case DirRetract:
		return nil // removing a hyperedge is inherently decreasing

	case DirReplace:
		r.term = TermSizeDecrease
		if nodeSize(r.newTemplate) >= nodeSize(r.oldTemplate) {
			return &Error{Reason: "rule " + r.id + ": non-terminating: REPLACE consequent is not structurally smaller than its antecedent match"}
		}
		return nil

	case DirEmit:
		if containsType(r.antecedent, conjunctionType) {
			r.term = TermJDecrease
			return nil
		}
		return &Error{Reason: "rule " + r.id + ": non-terminating: an EMIT rule whose antecedent does not require a J-typed match must be declared idempotent"}
	}
	return &Error{Reason: "rule " + r.id + ": unknown directive"}
}
