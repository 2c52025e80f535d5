package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Trace collects raw CAN traffic for display in verbose mode.
// Each sent or received frame becomes one formatted line.
type Trace struct {
	Title    string   // e.g., "Bus Trace"
	Lines    []string // Formatted frame lines
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewTrace creates an empty bus trace
func NewTrace() *Trace {
	return &Trace{
		Title:    "Bus Trace",
		Width:    GetTerminalWidth(),
		MaxLines: 0,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *Trace) SetWidth(width int) *Trace {
	t.Width = width
	return t
}

// SetTitle sets a custom title for the box
func (t *Trace) SetTitle(title string) *Trace {
	t.Title = title
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *Trace) SetMaxLines(max int) *Trace {
	t.MaxLines = max
	return t
}

// AddTX records a transmitted frame
func (t *Trace) AddTX(canID uint32, data []byte) {
	t.Lines = append(t.Lines, formatFrameLine("TX", canID, data))
}

// AddRX records a received frame
func (t *Trace) AddRX(canID uint32, data []byte) {
	t.Lines = append(t.Lines, formatFrameLine("RX", canID, data))
}

// AddNote records a free-form annotation between frames
func (t *Trace) AddNote(note string) {
	t.Lines = append(t.Lines, "-- "+note)
}

// Empty reports whether any traffic has been recorded
func (t *Trace) Empty() bool {
	return len(t.Lines) == 0
}

// formatFrameLine renders one frame as "TX 18FF0000 [8] 05 00 FF FF FF FF FF FF"
func formatFrameLine(direction string, canID uint32, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %08X [%d]", direction, canID, len(data))
	for _, by := range data {
		fmt.Fprintf(&b, " %02X", by)
	}
	return b.String()
}

// Render returns the styled trace box as a string
func (t *Trace) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	// Apply max lines limit
	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = lines[:t.MaxLines]
		lines = append(lines, "... (trace truncated)")
	}

	// Title styled
	titleStyled := TraceTitleStyle.Render(t.Title)

	// Content styled (preserve monospace formatting)
	contentStyled := TraceContentStyle.Render(strings.Join(lines, "\n"))

	// Combine title and content
	inner := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", contentStyled)

	// Box with muted border
	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (t *Trace) String() string {
	return t.Render()
}
