package reconcile

import (
	"errors"
	"testing"
)

// TestSynthesizeMergeAdditionsOnly tests that merge emits missing lines in candidate order
func TestSynthesizeMergeAdditionsOnly(t *testing.T) {
	running := ConfigText{"enable sflow"}
	candidate := ConfigText{"enable sflow", "configure sflow sample-rate 16384"}

	commands := SynthesizeMerge(running, candidate)
	if len(commands) != 1 || commands[0] != "configure sflow sample-rate 16384" {
		t.Errorf("SynthesizeMerge() = %v, want [configure sflow sample-rate 16384]", commands)
	}
}

// TestSynthesizeMergeDisjoint tests merge of a fully disjoint candidate
func TestSynthesizeMergeDisjoint(t *testing.T) {
	running := ConfigText{"enable ssh2", "enable telnet"}
	candidate := ConfigText{"create vlan test", "configure vlan test tag 100"}

	commands := SynthesizeMerge(running, candidate)
	if len(commands) != len(candidate) {
		t.Fatalf("SynthesizeMerge() = %v, want all candidate lines", commands)
	}
	for i, line := range candidate {
		if commands[i] != line {
			t.Errorf("command[%d] = %q, want %q (candidate order preserved)", i, commands[i], line)
		}
	}
}

// TestSynthesizeMergeIdentity tests that merging an identical config is a no-op
func TestSynthesizeMergeIdentity(t *testing.T) {
	c := ConfigText{"create vlan test", "enable sflow"}
	if commands := SynthesizeMerge(c, c); len(commands) != 0 {
		t.Errorf("SynthesizeMerge(x, x) = %v, want no commands", commands)
	}
}

// TestSynthesizeReplaceRemoval tests inverse synthesis for an empty candidate
func TestSynthesizeReplaceRemoval(t *testing.T) {
	running := ConfigText{"create vlan test"}
	candidate := ConfigText{}

	commands, err := SynthesizeReplace(running, candidate, DefaultRuleTable())
	if err != nil {
		t.Fatalf("SynthesizeReplace() error = %v", err)
	}
	if len(commands) != 1 || commands[0] != "delete vlan test" {
		t.Errorf("SynthesizeReplace() = %v, want [delete vlan test]", commands)
	}
}

// TestSynthesizeReplaceOrdering tests removals-then-additions command order
func TestSynthesizeReplaceOrdering(t *testing.T) {
	running := ConfigText{"create vlan old", "enable sflow"}
	candidate := ConfigText{"enable sflow", "create vlan new", "configure vlan new tag 200"}

	commands, err := SynthesizeReplace(running, candidate, DefaultRuleTable())
	if err != nil {
		t.Fatalf("SynthesizeReplace() error = %v", err)
	}

	want := []string{
		"delete vlan old",
		"create vlan new",
		"configure vlan new tag 200",
	}
	if len(commands) != len(want) {
		t.Fatalf("SynthesizeReplace() = %v, want %v", commands, want)
	}
	for i := range want {
		if commands[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, commands[i], want[i])
		}
	}
}

// TestSynthesizeReplaceMultiCommand tests that multi-command inverses stay in send order
func TestSynthesizeReplaceMultiCommand(t *testing.T) {
	running := ConfigText{"create stpd s0"}
	candidate := ConfigText{}

	commands, err := SynthesizeReplace(running, candidate, DefaultRuleTable())
	if err != nil {
		t.Fatalf("SynthesizeReplace() error = %v", err)
	}

	want := []string{"disable stpd s0", "delete stpd s0"}
	if len(commands) != len(want) || commands[0] != want[0] || commands[1] != want[1] {
		t.Errorf("SynthesizeReplace() = %v, want %v", commands, want)
	}
}

// TestSynthesizeReplaceAtomicity tests all-or-nothing failure on unknown lines
func TestSynthesizeReplaceAtomicity(t *testing.T) {
	running := ConfigText{
		"create vlan test",
		"configure obscure-feature foo",
	}
	candidate := ConfigText{}

	commands, err := SynthesizeReplace(running, candidate, DefaultRuleTable())
	if err == nil {
		t.Fatal("expected an error for an unresolvable line")
	}
	if commands != nil {
		t.Errorf("SynthesizeReplace() returned partial commands %v on failure", commands)
	}

	var unresolved *UnresolvedLineError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %T, want *UnresolvedLineError", err)
	}
	if unresolved.Line != "configure obscure-feature foo" {
		t.Errorf("UnresolvedLineError.Line = %q, want the offending line", unresolved.Line)
	}
}

// TestSynthesizeReplaceIdentity tests that replacing with an identical config is a no-op
func TestSynthesizeReplaceIdentity(t *testing.T) {
	c := ConfigText{"create vlan test", "enable sflow"}
	commands, err := SynthesizeReplace(c, c, DefaultRuleTable())
	if err != nil {
		t.Fatalf("SynthesizeReplace() error = %v", err)
	}
	if len(commands) != 0 {
		t.Errorf("SynthesizeReplace(x, x) = %v, want no commands", commands)
	}
}
