// Package ui provides styled terminal output for exosctl commands.
//
// It covers diff colorization, confirmation prompts for replace commits,
// a step-by-step plan progress display, and success/failure result boxes.
// Styling is done with lipgloss; the bubbles progress bar is rendered
// statically between commands rather than inside an event loop, so output
// remains scrollback-friendly and works over slow SSH sessions.
//
// All color output is suppressed when stdout is not a terminal, keeping
// "exosctl diff > change.patch" clean.
package ui
