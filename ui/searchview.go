package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.mode = viewChat
		return a, nil
	case "enter":
		if a.searchInput.Focused() {
			query := strings.TrimSpace(a.searchInput.Value())
			if query == "" {
				return a, nil
			}
			a.searchInput.Blur()
			return a, a.searchMessagesCmd(query)
		}
		return a.openSearchResult()
	case "/":
		if !a.searchInput.Focused() {
			a.searchInput.Focus()
			return a, nil
		}
	case "j", "down":
		if !a.searchInput.Focused() && a.selectedSearchIdx < len(a.searchResults)-1 {
			a.selectedSearchIdx++
			return a, nil
		}
	case "k", "up":
		if !a.searchInput.Focused() && a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			return a, nil
		}
	}

	if a.searchInput.Focused() {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) searchMessagesCmd(query string) tea.Cmd {
	index := a.index
	return func() tea.Msg {
		if index == nil {
			return searchResultsMsg{Err: fmt.Errorf("search index unavailable")}
		}
		matches, err := index.Search(query)
		return searchResultsMsg{Matches: matches, Err: err}
	}
}

func (a *App) openSearchResult() (tea.Model, tea.Cmd) {
	if a.selectedSearchIdx < 0 || a.selectedSearchIdx >= len(a.searchResults) {
		return a, nil
	}
	match := a.searchResults[a.selectedSearchIdx]
	conv, err := a.store.Get(match.ConversationID)
	if err != nil {
		a.errText = err.Error()
		return a, nil
	}
	a.setConversation(conv)
	a.mode = viewChat
	a.updateViewportContent(true)
	return a, a.rerenderAllCmd()
}

func (a *App) viewSearchScreen() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Search Messages") + "\n\n")
	b.WriteString(a.searchInput.View() + "\n\n")

	switch {
	case !a.searchRan:
		b.WriteString(DimStyle.Render("Type a query and press Enter.") + "\n")
	case len(a.searchResults) == 0:
		b.WriteString(DimStyle.Render("No matches.") + "\n")
	}

	visible := a.height - 8
	for i, match := range a.searchResults {
		if i >= visible {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... and %d more", len(a.searchResults)-i)) + "\n")
			break
		}
		line := fmt.Sprintf("[%s] %s: %s", match.ConversationTitle, match.Role, match.Preview)
		b.WriteString(listLine(i == a.selectedSearchIdx, truncateLine(line, a.width-4)) + "\n")
	}

	b.WriteString("\n" + FormatFooter("Enter", "Search/Open", "j/k", "Navigate", "/", "Edit query", "Esc", "Close"))
	return b.String()
}
