package reconcile

import "strings"

// DefaultCommentPrefix is the comment marker used by EXOS script files.
const DefaultCommentPrefix = "#"

// ConfigText is an ordered sequence of non-empty, non-comment device
// command lines. Order is semantically significant: later lines may depend
// on earlier ones (an object must be created before it is configured).
type ConfigText []string

// Equal reports whether two configs contain the same lines in the same order.
func (c ConfigText) Equal(other ConfigText) bool {
	if len(c) != len(other) {
		return false
	}
	for i, line := range c {
		if line != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the config.
func (c ConfigText) Clone() ConfigText {
	if c == nil {
		return nil
	}
	out := make(ConfigText, len(c))
	copy(out, c)
	return out
}

// String renders the config as newline-joined text.
func (c ConfigText) String() string {
	return strings.Join(c, "\n")
}

// Normalize splits raw configuration text into a canonical line set using
// the default EXOS comment prefix.
func Normalize(raw string) ConfigText {
	return NormalizeWithComment(raw, DefaultCommentPrefix)
}

// NormalizeWithComment splits raw text on line boundaries, trims surrounding
// whitespace from each line, and discards lines that are empty or start
// with commentPrefix. Relative order of the remaining lines is preserved.
// An empty commentPrefix disables comment filtering.
func NormalizeWithComment(raw, commentPrefix string) ConfigText {
	lines := strings.Split(raw, "\n")
	out := make(ConfigText, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if commentPrefix != "" && strings.HasPrefix(line, commentPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// NormalizeLines applies the same filtering as Normalize to an already
// split line sequence, e.g. command output returned by a device.
func NormalizeLines(lines []string) ConfigText {
	out := make(ConfigText, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, DefaultCommentPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}
