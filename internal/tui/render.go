package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#6e88ff")
	accentColor  = lipgloss.Color("#1677ff")
	errorColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	nodeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	outputStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#ffffff")).
			Background(mutedColor)

	focusedButtonStyle = buttonStyle.
				Background(accentColor).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render(m.example.Node.Label)
	var outputs []string
	for _, port := range m.example.Node.Outputs() {
		outputs = append(outputs, port.Key+" ●")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		title, "   ", outputStyle.Render(strings.Join(outputs, " ")))
	b.WriteString(header + "\n\n")

	b.WriteString(m.input.View() + "\n")
	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render(m.errorMessage) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderProgress() + "\n\n")

	btn := buttonStyle
	if m.focus == FocusButton {
		btn = focusedButtonStyle
	}
	b.WriteString(btn.Render(m.example.Button.Label))

	return nodeStyle.Render(b.String()) + "\n" + m.renderHelp() + "\n"
}

// renderProgress draws the bar clamped to its width, with the raw percent
// as the label
func (m Model) renderProgress() string {
	pct := m.example.Progress.Percent
	ratio := min(max(pct/100, 0), 1)
	label := strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	return m.bar.ViewAs(ratio) + " " + label
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{m.keys.Tab, m.keys.Randomize, m.keys.Quit}
	if m.focus == FocusButton {
		bindings = []key.Binding{m.keys.Tab, m.keys.Enter, m.keys.ButtonRandomize, m.keys.ButtonQuit}
	}

	var parts []string
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
