package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (a *App) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	default:
		a.mode = viewChat
		return a, nil
	}
}

func (a *App) viewHelpScreen() string {
	lines := []string{
		"Enter       Send message",
		"Ctrl+N      New conversation",
		"Ctrl+L      Conversation list",
		"Ctrl+F      Search messages",
		"Ctrl+O      Model picker",
		"Ctrl+S      Settings",
		"Ctrl+Y      Copy last reply",
		"Up/Down     Scroll history",
		"Ctrl+C      Quit",
	}
	return renderBox(a.width, a.height, "Help", lines, "Press any key to close")
}

// renderBox draws a centered modal box. The title is centered manually with
// runewidth so wide characters keep the alignment.
func renderBox(width, height int, title string, messageLines []string, footer string) string {
	boxWidth := 46
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	titleVisualWidth := runewidth.StringWidth(title)
	leftPad := (boxWidth - titleVisualWidth) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := boxWidth - titleVisualWidth - leftPad
	if rightPad < 0 {
		rightPad = 0
	}
	centeredTitle := strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad)

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render(centeredTitle)

	var contentLines []string
	contentLines = append(contentLines, "")
	contentLines = append(contentLines, messageLines...)
	contentLines = append(contentLines, "")

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(boxWidth).
		Render(strings.Join(contentLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(boxWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
