package reconcile

import (
	"errors"
	"testing"
)

// TestPrefixRuleResolve tests literal-prefix matching and %s substitution
func TestPrefixRuleResolve(t *testing.T) {
	rule := PrefixRule("create vlan ", "delete vlan %s")

	commands, ok := rule.resolve("create vlan test")
	if !ok {
		t.Fatal("expected rule to match")
	}
	if len(commands) != 1 || commands[0] != "delete vlan test" {
		t.Errorf("resolve() = %v, want [delete vlan test]", commands)
	}

	if _, ok := rule.resolve("delete vlan test"); ok {
		t.Error("rule should not match a non-prefixed line")
	}
}

// TestPrefixRuleLiteralInverse tests templates without a %s placeholder
func TestPrefixRuleLiteralInverse(t *testing.T) {
	rule := PrefixRule("enable jumbo-frame ports ", "disable jumbo-frame ports all")

	commands, ok := rule.resolve("enable jumbo-frame ports 1:1-1:48")
	if !ok {
		t.Fatal("expected rule to match")
	}
	if commands[0] != "disable jumbo-frame ports all" {
		t.Errorf("resolve() = %v, want literal inverse", commands)
	}
}

// TestPatternRuleResolve tests regexp capture expansion
func TestPatternRuleResolve(t *testing.T) {
	rule := PatternRule(`configure vlan (\S+) ipaddress .+`, "unconfigure vlan ${1} ipaddress")

	commands, ok := rule.resolve("configure vlan mgmt ipaddress 10.0.0.1/24")
	if !ok {
		t.Fatal("expected rule to match")
	}
	if commands[0] != "unconfigure vlan mgmt ipaddress" {
		t.Errorf("resolve() = %v, want [unconfigure vlan mgmt ipaddress]", commands)
	}
}

// TestPatternRuleAnchored tests that patterns must cover the whole line
func TestPatternRuleAnchored(t *testing.T) {
	rule := PatternRule(`enable sflow`, "disable sflow")

	if _, ok := rule.resolve("enable sflow ports 1:1"); ok {
		t.Error("pattern should not match a longer line")
	}
	if _, ok := rule.resolve("re-enable sflow"); ok {
		t.Error("pattern should not match mid-line")
	}
}

// TestMultiCommandInverse tests rules that need more than one removal command
func TestMultiCommandInverse(t *testing.T) {
	table := DefaultRuleTable()

	commands, err := table.ResolveRemoval("create stpd s0")
	if err != nil {
		t.Fatalf("ResolveRemoval() error = %v", err)
	}

	want := []string{"disable stpd s0", "delete stpd s0"}
	if len(commands) != len(want) {
		t.Fatalf("ResolveRemoval() = %v, want %v", commands, want)
	}
	for i := range want {
		if commands[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, commands[i], want[i])
		}
	}
}

// TestFirstMatchWins tests table ordering semantics
func TestFirstMatchWins(t *testing.T) {
	table := NewRuleTable(
		PrefixRule("enable sflow", "unconfigure sflow"),
		PrefixRule("enable ", "disable %s"),
	)

	commands, err := table.ResolveRemoval("enable sflow")
	if err != nil {
		t.Fatalf("ResolveRemoval() error = %v", err)
	}
	if commands[0] != "unconfigure sflow" {
		t.Errorf("ResolveRemoval() = %v, want the earlier rule to win", commands)
	}
}

// TestResolveRemovalUnresolved tests the hard-stop error for unknown lines
func TestResolveRemovalUnresolved(t *testing.T) {
	table := DefaultRuleTable()

	_, err := table.ResolveRemoval("configure obscure-feature foo")
	if err == nil {
		t.Fatal("expected an error for an unknown line")
	}

	var unresolved *UnresolvedLineError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %T, want *UnresolvedLineError", err)
	}
	if unresolved.Line != "configure obscure-feature foo" {
		t.Errorf("UnresolvedLineError.Line = %q, want the offending line verbatim", unresolved.Line)
	}
}

// TestRuleTableAppend tests that Append extends without mutating the receiver
func TestRuleTableAppend(t *testing.T) {
	base := DefaultRuleTable()
	baseLen := base.Len()

	extended := base.Append(PatternRule(`configure obscure-feature (\S+)`, "unconfigure obscure-feature ${1}"))

	if base.Len() != baseLen {
		t.Errorf("Append mutated the receiver: len = %d, want %d", base.Len(), baseLen)
	}
	if extended.Len() != baseLen+1 {
		t.Errorf("extended table len = %d, want %d", extended.Len(), baseLen+1)
	}

	if _, err := base.ResolveRemoval("configure obscure-feature foo"); err == nil {
		t.Error("base table should still not resolve the new shape")
	}

	commands, err := extended.ResolveRemoval("configure obscure-feature foo")
	if err != nil {
		t.Fatalf("extended ResolveRemoval() error = %v", err)
	}
	if commands[0] != "unconfigure obscure-feature foo" {
		t.Errorf("extended ResolveRemoval() = %v", commands)
	}
}

// TestCompilePatternRuleInvalid tests error reporting for bad patterns
func TestCompilePatternRuleInvalid(t *testing.T) {
	if _, err := CompilePatternRule(`create vlan (`, []string{"delete vlan ${1}"}); err == nil {
		t.Error("expected an error for an unbalanced pattern")
	}
}

// TestDefaultRuleTableShapes spot-checks the stock EXOS inverses
func TestDefaultRuleTableShapes(t *testing.T) {
	table := DefaultRuleTable()

	cases := []struct {
		line string
		want string
	}{
		{"create vlan test", "delete vlan test"},
		{"enable sflow", "disable sflow"},
		{"enable ssh2", "disable ssh2"},
		{"configure vlan mgmt add ports 1:1-1:4 tagged", "configure vlan mgmt delete ports 1:1-1:4"},
		{"configure snmp sysName core-sw-01", "unconfigure snmp sysName"},
		{"configure timezone name CET 60 autodst", "unconfigure timezone"},
		{"configure dns-client add name-server 10.0.0.53", "configure dns-client delete name-server 10.0.0.53"},
		{"configure iproute add default 10.0.0.1", "configure iproute delete default 10.0.0.1"},
		{"create account admin operator encrypted abc123", "delete account operator"},
	}

	for _, tc := range cases {
		commands, err := table.ResolveRemoval(tc.line)
		if err != nil {
			t.Errorf("ResolveRemoval(%q) error = %v", tc.line, err)
			continue
		}
		if commands[0] != tc.want {
			t.Errorf("ResolveRemoval(%q) = %v, want first command %q", tc.line, commands, tc.want)
		}
	}
}
