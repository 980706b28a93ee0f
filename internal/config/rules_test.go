package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/switchops/exosctl/internal/reconcile"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadRuleFile tests parsing of both rule kinds
func TestLoadRuleFile(t *testing.T) {
	path := writeRuleFile(t, `version: 1
rules:
  - match: prefix
    prefix: "create meter "
    inverse: ["delete meter %s"]
  - match: pattern
    pattern: 'configure meter (\S+) committed-rate .+'
    inverse: ["unconfigure meter ${1}"]
`)

	rules, err := LoadRuleFile(path)
	if err != nil {
		t.Fatalf("LoadRuleFile() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	table := reconcile.NewRuleTable(rules...)
	got, err := table.ResolveRemoval("configure meter gold committed-rate 1000 Kbps")
	if err != nil {
		t.Fatalf("ResolveRemoval() error = %v", err)
	}
	if len(got) != 1 || got[0] != "unconfigure meter gold" {
		t.Errorf("ResolveRemoval() = %v", got)
	}
}

// TestLoadRuleFileBadVersion tests version enforcement
func TestLoadRuleFileBadVersion(t *testing.T) {
	path := writeRuleFile(t, "version: 2\nrules: []\n")
	if _, err := LoadRuleFile(path); err == nil {
		t.Error("expected an error for an unsupported rule file version")
	}
}

// TestLoadRuleFileBadPattern tests that a broken regexp is reported with
// its position in the file
func TestLoadRuleFileBadPattern(t *testing.T) {
	path := writeRuleFile(t, `version: 1
rules:
  - match: pattern
    pattern: 'create vlan ('
    inverse: ["delete vlan ${1}"]
`)
	_, err := LoadRuleFile(path)
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
	if !strings.Contains(err.Error(), "rule 1") {
		t.Errorf("error should name the offending rule, got: %v", err)
	}
}

// TestRuleSpecCompileValidation tests spec-level validation
func TestRuleSpecCompileValidation(t *testing.T) {
	cases := []struct {
		name string
		spec RuleSpec
	}{
		{"no inverse", RuleSpec{Match: "prefix", Prefix: "create vlan "}},
		{"empty prefix", RuleSpec{Match: "prefix", Inverse: []string{"x"}}},
		{"empty pattern", RuleSpec{Match: "pattern", Inverse: []string{"x"}}},
		{"unknown kind", RuleSpec{Match: "glob", Prefix: "a", Inverse: []string{"x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.spec.Compile(); err == nil {
				t.Errorf("Compile(%+v) should fail", tc.spec)
			}
		})
	}
}

// TestBuildRuleTable tests that file rules extend, not replace, the stock
// table
func TestBuildRuleTable(t *testing.T) {
	path := writeRuleFile(t, `version: 1
rules:
  - match: prefix
    prefix: "create meter "
    inverse: ["delete meter %s"]
`)

	table, err := BuildRuleTable(path)
	if err != nil {
		t.Fatalf("BuildRuleTable() error = %v", err)
	}

	// Stock rule still resolves
	got, err := table.ResolveRemoval("create vlan voice")
	if err != nil || len(got) != 1 || got[0] != "delete vlan voice" {
		t.Errorf("stock rule: got %v, %v", got, err)
	}
	// File rule resolves too
	got, err = table.ResolveRemoval("create meter bronze")
	if err != nil || len(got) != 1 || got[0] != "delete meter bronze" {
		t.Errorf("file rule: got %v, %v", got, err)
	}
}

// TestBuildRuleTableNoFile tests the default path
func TestBuildRuleTableNoFile(t *testing.T) {
	table, err := BuildRuleTable("")
	if err != nil {
		t.Fatalf("BuildRuleTable(\"\") error = %v", err)
	}
	if table.Len() == 0 {
		t.Error("default table should not be empty")
	}
}

// TestBuildRuleTableMissingFile tests the error path
func TestBuildRuleTableMissingFile(t *testing.T) {
	if _, err := BuildRuleTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing rule file")
	}
}
