package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	green   = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")
	amber   = lipgloss.Color("#F59E0B")
	red     = lipgloss.Color("#EF4444")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1)

	statusStyle  = lipgloss.NewStyle().Foreground(muted).Italic(true)
	lineStyle    = lipgloss.NewStyle()
	okStyle      = lipgloss.NewStyle().Foreground(green)
	skipStyle    = lipgloss.NewStyle().Foreground(muted)
	warnStyle    = lipgloss.NewStyle().Foreground(amber)
	failStyle    = lipgloss.NewStyle().Foreground(red).Bold(true)
	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
)
