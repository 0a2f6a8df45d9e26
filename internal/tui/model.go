// Package tui is the interactive front end for long runs: a bubbletea
// program that shows a spinner and the most recent notifications.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultMaxLines = 200

// LineMsg carries one notification into the program.
type LineMsg string

// DoneMsg ends the program once the work has finished.
type DoneMsg struct {
	Summary string
}

// Model holds the UI state.
type Model struct {
	title    string
	spinner  spinner.Model
	lines    []string
	maxLines int
	height   int
	status   string
	summary  string
	stopping bool
	done     bool
	cancel   func()
}

// NewModel returns a Model. cancel is invoked when the user asks to stop.
func NewModel(title string, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = okStyle
	if cancel == nil {
		cancel = func() {}
	}
	return Model{
		title:    title,
		spinner:  s,
		maxLines: defaultMaxLines,
		status:   "working",
		cancel:   cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			if !m.stopping {
				m.stopping = true
				m.status = "stopping after the current file"
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case LineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > m.maxLines {
			m.lines = m.lines[len(m.lines)-m.maxLines:]
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.summary = msg.Summary
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if !m.done {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	for _, l := range m.visible() {
		b.WriteString(styleFor(l).Render(l))
		b.WriteString("\n")
	}

	if m.summary != "" {
		b.WriteString(summaryStyle.Render(m.summary))
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(helpStyle.Render("q: stop"))
	}
	return appStyle.Render(b.String())
}

// Lines returns the buffered notifications, oldest first.
func (m Model) Lines() []string { return append([]string(nil), m.lines...) }

func (m Model) visible() []string {
	n := len(m.lines)
	if m.height > 10 && n > m.height-10 {
		return m.lines[n-(m.height-10):]
	}
	return m.lines
}

func styleFor(line string) lipgloss.Style {
	switch {
	case strings.Contains(line, "failed"):
		return failStyle
	case strings.Contains(line, "Converted ") || strings.Contains(line, "Merged "):
		return okStyle
	case strings.Contains(line, "skipping") || strings.Contains(line, "already exists"):
		return skipStyle
	case strings.Contains(line, "[Watching]"):
		return warnStyle
	default:
		return lineStyle
	}
}
