package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"grokchat/storage"
)

func (a *App) listConversationsCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		return conversationsListMsg{Conversations: store.List()}
	}
}

func (a *App) handleConversationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation takes over all keys.
	if a.confirmDelete != nil {
		switch msg.String() {
		case "y":
			target := a.confirmDelete
			a.confirmDelete = nil
			return a, a.deleteConversationCmd(target.ID)
		default:
			a.confirmDelete = nil
			return a, nil
		}
	}

	if a.renameMode {
		switch msg.String() {
		case "enter":
			a.renameMode = false
			title := strings.TrimSpace(a.renameInput.Value())
			if title == "" {
				return a, nil
			}
			if conv := a.selectedConversation(); conv != nil {
				return a, a.renameConversationCmd(conv.ID, title)
			}
			return a, nil
		case "esc":
			a.renameMode = false
			return a, nil
		}
		var cmd tea.Cmd
		a.renameInput, cmd = a.renameInput.Update(msg)
		return a, cmd
	}

	if a.filterMode {
		switch msg.String() {
		case "enter", "esc":
			a.filterMode = false
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		a.applyConversationFilter()
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc", "q":
		a.mode = viewChat
		return a, nil
	case "j", "down":
		if a.selectedConvIdx < len(a.filteredConvs)-1 {
			a.selectedConvIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		return a, nil
	case "/":
		a.filterMode = true
		a.filterInput.SetValue("")
		a.filterInput.Focus()
		a.applyConversationFilter()
		return a, nil
	case "r":
		if conv := a.selectedConversation(); conv != nil {
			a.renameMode = true
			a.renameInput.SetValue(conv.Title)
			a.renameInput.Focus()
		}
		return a, nil
	case "d":
		a.confirmDelete = a.selectedConversation()
		return a, nil
	case "n":
		a.setConversation(a.store.New())
		a.mode = viewChat
		a.updateViewportContent(true)
		return a, nil
	case "enter":
		if meta := a.selectedConversation(); meta != nil {
			if conv, err := a.store.Get(meta.ID); err == nil {
				a.setConversation(conv)
				a.mode = viewChat
				a.updateViewportContent(true)
				return a, a.rerenderAllCmd()
			}
		}
		return a, nil
	}

	return a, nil
}

func (a *App) selectedConversation() *storage.Metadata {
	if a.selectedConvIdx < 0 || a.selectedConvIdx >= len(a.filteredConvs) {
		return nil
	}
	meta := a.filteredConvs[a.selectedConvIdx]
	return &meta
}

func (a *App) applyConversationFilter() {
	query := strings.TrimSpace(a.filterInput.Value())
	if query == "" {
		a.filteredConvs = a.convList
		a.selectedConvIdx = 0
		return
	}

	titles := make([]string, len(a.convList))
	for i, conv := range a.convList {
		titles[i] = conv.Title
	}

	matches := fuzzy.Find(query, titles)
	filtered := make([]storage.Metadata, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, a.convList[m.Index])
	}
	a.filteredConvs = filtered
	a.selectedConvIdx = 0
}

func (a *App) deleteConversationCmd(id string) tea.Cmd {
	store := a.store
	index := a.index
	deletingCurrent := a.conversation != nil && a.conversation.ID == id
	if deletingCurrent {
		a.setConversation(store.New())
		a.updateViewportContent(true)
	}
	return func() tea.Msg {
		if err := store.Delete(id); err != nil {
			return conversationsListMsg{Err: err}
		}
		if index != nil {
			_ = index.Remove(id)
		}
		return conversationsListMsg{Conversations: store.List()}
	}
}

func (a *App) renameConversationCmd(id, title string) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		if err := store.Rename(id, title); err != nil {
			return conversationsListMsg{Err: err}
		}
		return conversationsListMsg{Conversations: store.List()}
	}
}

func (a *App) rerenderAllCmd() tea.Cmd {
	var cmds []tea.Cmd
	for i := range a.messages {
		if a.messages[i].Role == "assistant" || a.messages[i].Role == "user" {
			cmds = append(cmds, a.renderMarkdownAsync(i, a.messages[i].Content))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) viewConversationList() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Conversations") + "\n\n")

	if a.filterMode {
		b.WriteString(a.filterInput.View() + "\n\n")
	}

	if len(a.filteredConvs) == 0 {
		b.WriteString(DimStyle.Render("No conversations.") + "\n")
	}

	visible := a.height - 8
	for i, conv := range a.filteredConvs {
		if i >= visible {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... and %d more", len(a.filteredConvs)-i)) + "\n")
			break
		}
		line := fmt.Sprintf("%s  %s (%d messages)", conv.Timestamp, conv.Title, conv.MessageCount)
		b.WriteString(listLine(i == a.selectedConvIdx, truncateLine(line, a.width-4)) + "\n")
	}

	if a.renameMode {
		b.WriteString("\nRename: " + a.renameInput.View() + "\n")
	}
	if a.confirmDelete != nil {
		b.WriteString("\n" + ErrorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", a.confirmDelete.Title)) + "\n")
	}

	b.WriteString("\n" + FormatFooter("j/k", "Navigate", "Enter", "Open", "n", "New", "r", "Rename", "d", "Delete", "/", "Filter", "Esc", "Close"))
	return b.String()
}
