package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a plan step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet sent
	StepRunning                    // Currently executing on the device
	StepComplete                   // Accepted by the device
	StepFailed                     // Rejected or transport failure
)

// Step is one command in a plan being applied to a device
type Step struct {
	Number  int        // Step number (1-based)
	Command string     // The CLI command being sent
	Status  StepStatus // Current status
	Message string     // Optional status message (e.g., "rejected by device")
}

// PlanProgress renders a command plan as a progress bar plus a step list.
// It is redrawn in place after each command completes; there is no event
// loop, callers print Render() between steps.
type PlanProgress struct {
	Label   string  // e.g., "Applying configuration to core-sw-01..."
	Steps   []Step  // One entry per plan command
	Current int     // Current step (1-based)
	Percent float64 // Progress percentage (0.0 - 1.0)
	Width   int     // Terminal width
	bar     progress.Model
}

// NewPlanProgress creates a progress display for a command plan.
func NewPlanProgress(label string, commands []string) *PlanProgress {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	steps := make([]Step, len(commands))
	for i, cmd := range commands {
		steps[i] = Step{
			Number:  i + 1,
			Command: cmd,
			Status:  StepPending,
		}
	}

	return &PlanProgress{
		Label: label,
		Steps: steps,
		Width: GetTerminalWidth(),
		bar:   bar,
	}
}

// UpdateStep updates a step's status and optional message
func (p *PlanProgress) UpdateStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	idx := stepNumber - 1
	p.Steps[idx].Status = status
	p.Steps[idx].Message = message

	if status == StepRunning {
		p.Current = stepNumber
	} else {
		completed := 0
		for _, s := range p.Steps {
			if s.Status == StepComplete {
				completed++
			}
		}
		p.Percent = float64(completed) / float64(len(p.Steps))
	}
}

// StartStep marks a step as running
func (p *PlanProgress) StartStep(stepNumber int) {
	p.UpdateStep(stepNumber, StepRunning, "")
}

// CompleteStep marks a step as complete
func (p *PlanProgress) CompleteStep(stepNumber int) {
	p.UpdateStep(stepNumber, StepComplete, "")
}

// FailStep marks a step as failed
func (p *PlanProgress) FailStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepFailed, message)
}

// Render returns the styled progress display as a string
func (p *PlanProgress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(PlanLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}

	b.WriteString(p.renderProgressBar())
	b.WriteString("\n\n")
	b.WriteString(p.renderStepList())

	return b.String()
}

// renderProgressBar renders the progress bar line
func (p *PlanProgress) renderProgressBar() string {
	barView := p.bar.ViewAs(p.Percent)
	percentStr := fmt.Sprintf("%3.0f%%", p.Percent*100)
	stepStr := fmt.Sprintf("[%d/%d]", p.Current, len(p.Steps))

	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %s  %s", barView, percentStr, stepStr))
}

// renderStepList renders one line per plan command
func (p *PlanProgress) renderStepList() string {
	var lines []string
	for _, step := range p.Steps {
		lines = append(lines, p.renderStepLine(step))
	}
	return strings.Join(lines, "\n")
}

// renderStepLine renders a single command line
func (p *PlanProgress) renderStepLine(step Step) string {
	prefix := fmt.Sprintf("  [%d/%d]", step.Number, len(p.Steps))

	var marker string
	var nameStyle lipgloss.Style

	switch step.Status {
	case StepComplete:
		marker = StepMarkerComplete
		nameStyle = StepCompleteStyle
	case StepRunning:
		marker = StepMarkerRunning
		nameStyle = StepRunningStyle
	case StepFailed:
		marker = FailureMarker
		nameStyle = ErrorTitleStyle
	default: // StepPending
		marker = StepMarkerPending
		nameStyle = StepPendingStyle
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(step.Command))

	// Align the marker at a consistent column
	nameLen := lipgloss.Width(step.Command)
	maxNameLen := 45
	padding := maxNameLen - nameLen
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(nameStyle.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}

	return b.String()
}

// String implements fmt.Stringer
func (p *PlanProgress) String() string {
	return p.Render()
}
