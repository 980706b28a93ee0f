package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// UnresolvedLineError reports a running-config line for which the rule
// table has no inverse. It aborts replace synthesis: silently skipping the
// line would leave the device in a diverged, unreviewable state.
type UnresolvedLineError struct {
	// Line is the offending config line, verbatim.
	Line string
}

// Error implements the error interface.
func (e *UnresolvedLineError) Error() string {
	return fmt.Sprintf("no inverse rule matches line: %q", e.Line)
}

// MatchKind distinguishes the two rule variants.
type MatchKind int

const (
	// MatchPrefix matches a literal line prefix; the remainder of the line
	// is substituted for %s in the inverse templates.
	MatchPrefix MatchKind = iota
	// MatchPattern matches a regular expression against the whole line;
	// inverse templates may reference captures as ${1}, ${2}, ...
	MatchPattern
)

// Rule maps one syntactic shape of config line to the command(s) that undo
// its effect, in the order they must be sent to the device.
type Rule struct {
	Kind    MatchKind
	Prefix  string
	Pattern *regexp.Regexp
	Inverse []string
}

// PrefixRule builds a literal-prefix rule. Templates containing %s receive
// the whitespace-trimmed remainder of the matched line.
func PrefixRule(prefix string, inverse ...string) Rule {
	return Rule{Kind: MatchPrefix, Prefix: prefix, Inverse: inverse}
}

// PatternRule builds a regexp-capture rule. The pattern is implicitly
// anchored to the whole line. It panics on an invalid pattern and is meant
// for static tables; use CompilePatternRule for rules from configuration.
func PatternRule(pattern string, inverse ...string) Rule {
	rule, err := CompilePatternRule(pattern, inverse)
	if err != nil {
		panic(err)
	}
	return rule
}

// CompilePatternRule builds a regexp-capture rule, reporting pattern
// compilation errors instead of panicking.
func CompilePatternRule(pattern string, inverse []string) (Rule, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	return Rule{Kind: MatchPattern, Pattern: re, Inverse: inverse}, nil
}

// resolve returns the removal commands for line if the rule matches it.
func (r Rule) resolve(line string) ([]string, bool) {
	switch r.Kind {
	case MatchPrefix:
		if !strings.HasPrefix(line, r.Prefix) {
			return nil, false
		}
		rest := strings.TrimSpace(line[len(r.Prefix):])
		commands := make([]string, len(r.Inverse))
		for i, tmpl := range r.Inverse {
			if strings.Contains(tmpl, "%s") {
				commands[i] = fmt.Sprintf(tmpl, rest)
			} else {
				commands[i] = tmpl
			}
		}
		return commands, true

	case MatchPattern:
		match := r.Pattern.FindStringSubmatchIndex(line)
		if match == nil {
			return nil, false
		}
		commands := make([]string, len(r.Inverse))
		for i, tmpl := range r.Inverse {
			commands[i] = string(r.Pattern.ExpandString(nil, tmpl, line, match))
		}
		return commands, true
	}
	return nil, false
}

// RuleTable is an ordered, immutable inverse-rule lookup. The first rule
// whose pattern matches a line wins, so tables must be ordered from most
// to least specific.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable builds a table from the given rules, preserving order.
func NewRuleTable(rules ...Rule) *RuleTable {
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &RuleTable{rules: owned}
}

// Append returns a new table with the given rules added after the existing
// ones. The receiver is not modified.
func (t *RuleTable) Append(rules ...Rule) *RuleTable {
	combined := make([]Rule, 0, len(t.rules)+len(rules))
	combined = append(combined, t.rules...)
	combined = append(combined, rules...)
	return &RuleTable{rules: combined}
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// ResolveRemoval looks up the first rule matching line and returns the
// synthesized removal command(s) in send order. An unmatched line returns
// *UnresolvedLineError carrying the line verbatim; that is a hard stop for
// the caller, never a silent skip.
func (t *RuleTable) ResolveRemoval(line string) ([]string, error) {
	for _, rule := range t.rules {
		if commands, ok := rule.resolve(line); ok {
			return commands, nil
		}
	}
	return nil, &UnresolvedLineError{Line: line}
}

// DefaultRuleTable returns the stock inverse table for the EXOS command
// grammar this tool is normally pointed at. Firmware-specific additions are
// appended via Append, typically from a YAML rule file.
func DefaultRuleTable() *RuleTable {
	return NewRuleTable(
		// Containers. An STP domain must be disabled before it can be
		// deleted, hence the two-command inverse.
		PrefixRule("create vlan ", "delete vlan %s"),
		PatternRule(`create stpd (\S+)`, "disable stpd ${1}", "delete stpd ${1}"),
		PatternRule(`create account (?:admin|user) (\S+).*`, "delete account ${1}"),

		// VLAN attributes.
		PatternRule(`configure vlan (\S+) ipaddress .+`, "unconfigure vlan ${1} ipaddress"),
		PatternRule(`configure vlan (\S+) add ports ([0-9,:\-]+)(?: (?:tagged|untagged))?`,
			"configure vlan ${1} delete ports ${2}"),

		// Port attributes.
		PatternRule(`configure ports (\S+) display-string .+`, "unconfigure ports ${1} display-string"),

		// Global settings.
		PatternRule(`configure sflow .+`, "unconfigure sflow"),
		PatternRule(`configure snmp sysName .+`, "unconfigure snmp sysName"),
		PatternRule(`configure timezone .+`, "unconfigure timezone"),
		PatternRule(`configure dns-client add (name-server .+)`, "configure dns-client delete ${1}"),
		PatternRule(`configure iproute add default (\S+)`, "configure iproute delete default ${1}"),

		// Generic feature toggle. Last: it matches any "enable ..." line.
		PrefixRule("enable ", "disable %s"),
	)
}
