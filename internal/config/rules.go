package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/switchops/exosctl/internal/reconcile"
)

// RuleFile is a YAML list of inverse rules appended to the stock table,
// typically maintained per firmware version. Example:
//
//	version: 1
//	rules:
//	  - match: prefix
//	    prefix: "create meter "
//	    inverse: ["delete meter %s"]
//	  - match: pattern
//	    pattern: 'configure meter (\S+) committed-rate .+'
//	    inverse: ["unconfigure meter ${1}"]
type RuleFile struct {
	Version int        `yaml:"version"`
	Rules   []RuleSpec `yaml:"rules"`
}

// RuleSpec is one rule entry in a rule file.
type RuleSpec struct {
	Match   string   `yaml:"match"`             // "prefix" or "pattern"
	Prefix  string   `yaml:"prefix,omitempty"`  // literal prefix (match: prefix)
	Pattern string   `yaml:"pattern,omitempty"` // regexp (match: pattern)
	Inverse []string `yaml:"inverse"`           // removal command templates, in send order
}

// Compile converts the spec into a reconcile rule.
func (s RuleSpec) Compile() (reconcile.Rule, error) {
	if len(s.Inverse) == 0 {
		return reconcile.Rule{}, fmt.Errorf("rule has no inverse commands")
	}

	switch s.Match {
	case "prefix":
		if s.Prefix == "" {
			return reconcile.Rule{}, fmt.Errorf("prefix rule has an empty prefix")
		}
		return reconcile.PrefixRule(s.Prefix, s.Inverse...), nil
	case "pattern":
		if s.Pattern == "" {
			return reconcile.Rule{}, fmt.Errorf("pattern rule has an empty pattern")
		}
		return reconcile.CompilePatternRule(s.Pattern, s.Inverse)
	default:
		return reconcile.Rule{}, fmt.Errorf("unknown match kind %q (expected prefix or pattern)", s.Match)
	}
}

// LoadRuleFile reads and compiles a YAML rule file. Rule order in the file
// is preserved; file rules are evaluated after the stock table.
func LoadRuleFile(path string) ([]reconcile.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported rule file version: %d (expected 1)", file.Version)
	}

	rules := make([]reconcile.Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d in %s: %w", i+1, path, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// BuildRuleTable returns the stock table, extended with the rule file at
// path when path is non-empty.
func BuildRuleTable(path string) (*reconcile.RuleTable, error) {
	table := reconcile.DefaultRuleTable()
	if path == "" {
		return table, nil
	}
	rules, err := LoadRuleFile(path)
	if err != nil {
		return nil, err
	}
	return table.Append(rules...), nil
}
