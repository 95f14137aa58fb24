// Package classifier is the reference implementation of alpha.Classifier
// (spec.md §4.4's capability interface): a YAML-configured ordered rule
// table, first match wins. It is one possible implementation, not a
// privileged one — any other alpha.Classifier (a trained model, a
// different rule table) plugs in without changing internal/alpha or
// internal/beta.
package classifier

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/brianmills2718/semantic-hypergraph/internal/alpha"
)

// Rule is one row of the table: a set of field patterns (empty pattern
// matches anything) and the label to emit when all of them match.
type Rule struct {
	Tag      string `yaml:"tag,omitempty"`
	Dep      string `yaml:"dep,omitempty"`
	HDep     string `yaml:"hdep,omitempty"`
	HPos     string `yaml:"hpos,omitempty"`
	PosAfter string `yaml:"pos_after,omitempty"`
	Label    string `yaml:"label"`

	compiled [5]*regexp.Regexp
}

// Config is the top-level funxy.yaml-style document this package loads:
// an ordered list of rules plus the label returned when nothing matches.
type Config struct {
	Rules   []Rule `yaml:"rules"`
	Default string `yaml:"default,omitempty"`
}

// RuleTable is the compiled, ready-to-classify form of a Config. It
// satisfies alpha.Classifier.
type RuleTable struct {
	rules   []Rule
	fallback alpha.Label
}

var _ alpha.Classifier = (*RuleTable)(nil)

// LoadFile reads and compiles a rule-table YAML file from disk.
func LoadFile(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles a rule-table YAML document from bytes.
func Parse(data []byte) (*RuleTable, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("classifier: parsing rule table: %w", err)
	}
	return Compile(cfg)
}

// Compile validates and compiles an already-decoded Config.
func Compile(cfg Config) (*RuleTable, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("classifier: rule table has no rules")
	}
	rules := make([]Rule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		if !validLabel(r.Label) {
			return nil, fmt.Errorf("classifier: rules[%d]: invalid label %q", i, r.Label)
		}
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("classifier: rules[%d]: %w", i, err)
		}
		rules[i] = compiled
	}
	fallback := alpha.Label(cfg.Default)
	if cfg.Default != "" && !validLabel(cfg.Default) {
		return nil, fmt.Errorf("classifier: default label %q is invalid", cfg.Default)
	}
	return &RuleTable{rules: rules, fallback: fallback}, nil
}

func compileRule(r Rule) (Rule, error) {
	patterns := [5]string{r.Tag, r.Dep, r.HDep, r.HPos, r.PosAfter}
	for i, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return Rule{}, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		r.compiled[i] = re
	}
	return r, nil
}

func validLabel(l string) bool {
	switch l {
	case "C", "P", "M", "B", "T", "J", alpha.Discard:
		return true
	default:
		return false
	}
}

// Classify implements alpha.Classifier: first matching rule wins; if
// none match, the configured default is returned, or an error if no
// default was configured.
func (t *RuleTable) Classify(f alpha.Features) (alpha.Label, error) {
	fields := [5]string{f.Tag, f.Dep, f.HDep, f.HPos, f.PosAfter}
	for _, r := range t.rules {
		if ruleMatches(r, fields) {
			return alpha.Label(r.Label), nil
		}
	}
	if t.fallback != "" {
		return t.fallback, nil
	}
	return "", fmt.Errorf("no rule matches features %+v and no default is configured", f)
}

func ruleMatches(r Rule, fields [5]string) bool {
	for i, re := range r.compiled {
		if re == nil {
			continue
		}
		if !re.MatchString(fields[i]) {
			return false
		}
	}
	return true
}
