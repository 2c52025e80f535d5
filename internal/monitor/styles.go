package monitor

import "github.com/charmbracelet/lipgloss"

// Color palette for the telemetry dashboard
var (
	accentColor = lipgloss.Color("#7D56F4") // Purple - title, spinner
	valueColor  = lipgloss.Color("#43BF6D") // Green - live values
	staleColor  = lipgloss.Color("#FFA500") // Orange - stale values
	mutedColor  = lipgloss.Color("#626262") // Gray - labels, stats
	textColor   = lipgloss.Color("#FFFFFF") // White - section titles
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			PaddingLeft(1)

	pausedStyle = lipgloss.NewStyle().
			Foreground(staleColor).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true).
			Underline(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(valueColor)

	staleStyle = lipgloss.NewStyle().
			Foreground(staleColor)

	naStyle = lipgloss.NewStyle().
		Foreground(mutedColor).
		Faint(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingTop(1)
)
