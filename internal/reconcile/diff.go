package reconcile

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff rendering uses the conventional file-role names from the original
// tooling. The rendered text is for operators and logs only; command
// synthesis works from the structured hunks.
const (
	DiffSourceName = "running_config.conf"
	DiffTargetName = "candidate_config.conf"

	// diffContext is the number of unchanged lines shown around each hunk.
	diffContext = 3
)

// OpKind classifies a single line within a diff hunk.
type OpKind int

const (
	// OpContext is a line present in both sequences.
	OpContext OpKind = iota
	// OpRemove is a line present only in the source (removal candidate).
	OpRemove
	// OpAdd is a line present only in the target (addition candidate).
	OpAdd
)

// String returns the unified-diff marker for the op kind.
func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "-"
	case OpAdd:
		return "+"
	default:
		return " "
	}
}

// LineOp is one line operation inside a hunk.
type LineOp struct {
	Kind OpKind
	Line string
}

// Hunk is a contiguous run of line operations between two sequences,
// preserving the relative order of both (standard unified-diff semantics).
type Hunk struct {
	// SourceStart/TargetStart are 1-based line offsets into the source and
	// target sequences, as in a "@@ -a,b +c,d @@" header.
	SourceStart int
	SourceLines int
	TargetStart int
	TargetLines int

	Ops []LineOp
}

// Diff computes an LCS-based line diff from source to target. Diffing a
// config against itself yields no hunks.
func Diff(source, target ConfigText) []Hunk {
	matcher := difflib.NewMatcher(source, target)
	groups := matcher.GetGroupedOpCodes(diffContext)

	hunks := make([]Hunk, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		first := group[0]
		last := group[len(group)-1]
		hunk := Hunk{
			SourceStart: first.I1 + 1,
			SourceLines: last.I2 - first.I1,
			TargetStart: first.J1 + 1,
			TargetLines: last.J2 - first.J1,
		}
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for _, line := range source[op.I1:op.I2] {
					hunk.Ops = append(hunk.Ops, LineOp{Kind: OpContext, Line: line})
				}
			case 'd':
				for _, line := range source[op.I1:op.I2] {
					hunk.Ops = append(hunk.Ops, LineOp{Kind: OpRemove, Line: line})
				}
			case 'i':
				for _, line := range target[op.J1:op.J2] {
					hunk.Ops = append(hunk.Ops, LineOp{Kind: OpAdd, Line: line})
				}
			case 'r':
				// A replace run is a removal run followed by an addition run.
				for _, line := range source[op.I1:op.I2] {
					hunk.Ops = append(hunk.Ops, LineOp{Kind: OpRemove, Line: line})
				}
				for _, line := range target[op.J1:op.J2] {
					hunk.Ops = append(hunk.Ops, LineOp{Kind: OpAdd, Line: line})
				}
			}
		}
		hunks = append(hunks, hunk)
	}
	return hunks
}

// Removals collects every removal line across the hunks, in diff order.
func Removals(hunks []Hunk) []string {
	return collect(hunks, OpRemove)
}

// Additions collects every addition line across the hunks, in diff order.
func Additions(hunks []Hunk) []string {
	return collect(hunks, OpAdd)
}

func collect(hunks []Hunk, kind OpKind) []string {
	var lines []string
	for _, hunk := range hunks {
		for _, op := range hunk.Ops {
			if op.Kind == kind {
				lines = append(lines, op.Line)
			}
		}
	}
	return lines
}

// HasChanges reports whether the hunks contain any removal or addition.
func HasChanges(hunks []Hunk) bool {
	for _, hunk := range hunks {
		for _, op := range hunk.Ops {
			if op.Kind != OpContext {
				return true
			}
		}
	}
	return false
}

// RenderUnified renders a human-readable unified diff between source and
// target with the conventional running/candidate file-role headers.
// The result is a presentation artifact, not a machine contract.
func RenderUnified(source, target ConfigText) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withEol(source),
		B:        withEol(target),
		FromFile: DiffSourceName,
		ToFile:   DiffTargetName,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render unified diff: %w", err)
	}
	return text, nil
}

// withEol re-attaches line terminators, which the unified-diff writer
// expects on every input line.
func withEol(lines ConfigText) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}
