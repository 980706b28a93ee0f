package reconcile

import (
	"strings"
	"testing"
)

// TestDiffIdentity tests that diffing a config against itself yields no hunks
func TestDiffIdentity(t *testing.T) {
	configs := []ConfigText{
		nil,
		{"create vlan test"},
		{"create vlan test", "configure vlan test tag 100", "enable sflow"},
	}

	for _, c := range configs {
		hunks := Diff(c, c)
		if len(hunks) != 0 {
			t.Errorf("Diff(x, x) with x=%v produced %d hunks, want 0", c, len(hunks))
		}
		if HasChanges(hunks) {
			t.Errorf("Diff(x, x) with x=%v reported changes", c)
		}
	}
}

// TestDiffClassification tests removal/addition classification and ordering
func TestDiffClassification(t *testing.T) {
	source := ConfigText{"create vlan old", "enable sflow", "enable ssh2"}
	target := ConfigText{"enable sflow", "enable ssh2", "create vlan new"}

	hunks := Diff(source, target)
	if !HasChanges(hunks) {
		t.Fatal("expected changes between differing configs")
	}

	removals := Removals(hunks)
	if len(removals) != 1 || removals[0] != "create vlan old" {
		t.Errorf("Removals() = %v, want [create vlan old]", removals)
	}

	additions := Additions(hunks)
	if len(additions) != 1 || additions[0] != "create vlan new" {
		t.Errorf("Additions() = %v, want [create vlan new]", additions)
	}
}

// TestDiffPreservesOrder tests that additions come out in target-relative order
func TestDiffPreservesOrder(t *testing.T) {
	source := ConfigText{"enable sflow"}
	target := ConfigText{
		"create vlan test",
		"configure vlan test tag 100",
		"enable sflow",
		"configure sflow sample-rate 16384",
	}

	additions := Additions(Diff(source, target))
	want := []string{
		"create vlan test",
		"configure vlan test tag 100",
		"configure sflow sample-rate 16384",
	}

	if len(additions) != len(want) {
		t.Fatalf("Additions() = %v, want %v", additions, want)
	}
	for i := range want {
		if additions[i] != want[i] {
			t.Errorf("Additions()[%d] = %q, want %q", i, additions[i], want[i])
		}
	}
}

// TestDiffHunkOffsets tests the 1-based hunk header offsets
func TestDiffHunkOffsets(t *testing.T) {
	source := ConfigText{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	target := ConfigText{"a", "b", "c", "d", "e", "f", "g", "h", "i", "X"}

	hunks := Diff(source, target)
	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}

	h := hunks[0]
	// Three context lines before the replaced tail line.
	if h.SourceStart != 7 || h.SourceLines != 4 {
		t.Errorf("source span = -%d,%d, want -7,4", h.SourceStart, h.SourceLines)
	}
	if h.TargetStart != 7 || h.TargetLines != 4 {
		t.Errorf("target span = +%d,%d, want +7,4", h.TargetStart, h.TargetLines)
	}
}

// TestRenderUnified tests the presentation headers and line markers
func TestRenderUnified(t *testing.T) {
	source := ConfigText{"create vlan old", "enable sflow"}
	target := ConfigText{"create vlan new", "enable sflow"}

	text, err := RenderUnified(source, target)
	if err != nil {
		t.Fatalf("RenderUnified() error = %v", err)
	}

	for _, want := range []string{
		"--- running_config.conf",
		"+++ candidate_config.conf",
		"@@",
		"-create vlan old",
		"+create vlan new",
		" enable sflow",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered diff missing %q:\n%s", want, text)
		}
	}
}

// TestRenderUnifiedIdentity tests that equal configs render an empty diff
func TestRenderUnifiedIdentity(t *testing.T) {
	c := ConfigText{"enable sflow"}
	text, err := RenderUnified(c, c)
	if err != nil {
		t.Fatalf("RenderUnified() error = %v", err)
	}
	if text != "" {
		t.Errorf("RenderUnified(x, x) = %q, want empty", text)
	}
}

// TestOpKindString tests the unified-diff markers
func TestOpKindString(t *testing.T) {
	if OpRemove.String() != "-" || OpAdd.String() != "+" || OpContext.String() != " " {
		t.Errorf("unexpected op markers: %q %q %q", OpRemove, OpAdd, OpContext)
	}
}
