package ui

import "strings"

// ColorizeDiff styles a unified diff for terminal display: additions in
// green, removals in red, hunk headers in cyan, file headers in bold.
// The input is returned unchanged when stdout is not a terminal so that
// piped output stays clean.
func ColorizeDiff(diff string) string {
	if !IsTerminal() {
		return diff
	}
	return colorizeDiffLines(diff)
}

func colorizeDiffLines(diff string) string {
	if diff == "" {
		return diff
	}

	trailingNewline := strings.HasSuffix(diff, "\n")
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			lines[i] = DiffFileStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = DiffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = DiffRemoveStyle.Render(line)
		}
	}

	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return out
}
