package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"grokchat/chat"
	"grokchat/provider"
	"grokchat/storage"
)

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "enter":
		return a.submitQuery()

	case "ctrl+n":
		if a.waiting {
			return a, nil
		}
		a.setConversation(a.store.New())
		a.updateViewportContent(true)
		return a, nil

	case "ctrl+l":
		a.mode = viewConversations
		a.selectedConvIdx = 0
		a.filterMode = false
		a.renameMode = false
		a.confirmDelete = nil
		a.filterInput.SetValue("")
		return a, a.listConversationsCmd()

	case "ctrl+f":
		a.mode = viewSearch
		a.searchResults = nil
		a.searchRan = false
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		return a, nil

	case "ctrl+s":
		a.mode = viewSettings
		a.selectedSettingIdx = 0
		return a, nil

	case "ctrl+o":
		a.mode = viewModels
		return a, chat.ListModelsCmd(a.prov)

	case "ctrl+y":
		return a, a.copyLastReplyCmd()

	case "ctrl+g":
		a.mode = viewHelp
		return a, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a *App) submitQuery() (tea.Model, tea.Cmd) {
	if a.waiting {
		return a, nil
	}
	query := strings.TrimSpace(a.textarea.Value())
	if query == "" {
		return a, nil
	}

	a.textarea.Reset()
	a.errText = ""
	a.waiting = true
	a.statusDetail = "Thinking..."

	userIdx := len(a.messages)
	a.messages = append(a.messages, uiMessage{
		Message: storage.Message{Role: "user", Content: query},
	})
	a.updateViewportContent(true)

	req := chat.TurnRequest{
		Query:            query,
		History:          a.historyForProvider(),
		Model:            a.cfg.ModelName,
		ReasoningEffort:  a.cfg.ReasoningEffort,
		WebSearchEnabled: a.cfg.EnableWebSearch,
		MCPEnabled:       a.cfg.EnableMCP,
	}

	return a, tea.Batch(
		a.renderMarkdownAsync(userIdx, query),
		chat.RunTurnCmd(a.engine, req),
	)
}

// historyForProvider converts prior messages, excluding the user message
// just appended since the engine wraps the query into its own template.
func (a *App) historyForProvider() []provider.Message {
	history := make([]provider.Message, 0, len(a.messages))
	for _, msg := range a.messages[:len(a.messages)-1] {
		if msg.Role == "system" {
			continue
		}
		history = append(history, provider.Message{Role: msg.Role, Content: msg.Content})
	}
	return history
}

func (a *App) handleTurnComplete(msg chat.TurnCompleteMsg) (tea.Model, tea.Cmd) {
	a.waiting = false
	a.statusDetail = ""

	result := msg.Result
	assistantIdx := len(a.messages)
	a.messages = append(a.messages, uiMessage{
		Message: storage.Message{
			Role:        "assistant",
			Content:     result.Content,
			Reasoning:   result.Reasoning,
			ToolsUsed:   result.ToolsUsed,
			ToolResults: result.ToolResults,
		},
	})
	a.updateViewportContent(true)

	cmds := []tea.Cmd{a.renderMarkdownAsync(assistantIdx, result.Content)}

	// Failed turns are shown but not persisted, so reloading the
	// conversation never resurrects an error exchange mid-thread.
	if result.Err == nil {
		a.conversation.Messages = a.storedMessages()
		cmds = append(cmds, a.saveConversationCmd())
	}

	return a, tea.Batch(cmds...)
}

func (a *App) storedMessages() []storage.Message {
	stored := make([]storage.Message, 0, len(a.messages))
	for _, msg := range a.messages {
		stored = append(stored, msg.Message)
	}
	return stored
}

func (a *App) saveConversationCmd() tea.Cmd {
	conv := a.conversation
	store := a.store
	index := a.index
	return func() tea.Msg {
		if err := store.Save(conv); err != nil {
			return conversationSavedMsg{Err: err}
		}
		if index != nil {
			if err := index.Reindex(conv); err != nil {
				return conversationSavedMsg{Err: err}
			}
		}
		return conversationSavedMsg{}
	}
}

func (a *App) copyLastReplyCmd() tea.Cmd {
	var content string
	for i := len(a.messages) - 1; i >= 0; i-- {
		if a.messages[i].Role == "assistant" {
			content = a.messages[i].Content
			break
		}
	}
	if content == "" {
		return nil
	}
	return func() tea.Msg {
		return clipboardCopiedMsg{Err: clipboard.WriteAll(content)}
	}
}

func (a *App) viewChatScreen() string {
	title := TitleStyle.Render(a.conversation.Title)
	model := DimStyle.Render(fmt.Sprintf(" [%s]", a.cfg.ModelName))
	header := title + model

	var status string
	switch {
	case a.waiting:
		status = StatusStyle.Render(fmt.Sprintf("%s %s", a.spinner.View(), a.statusDetail))
	case a.errText != "":
		status = ErrorStyle.Render(a.errText)
	default:
		status = StatusStyle.Render(a.statusFlags())
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, a.viewport.View(), a.textarea.View(), status)
}

func (a *App) statusFlags() string {
	flag := func(name string, on bool) string {
		if on {
			return name + ":on"
		}
		return name + ":off"
	}
	return fmt.Sprintf("%s  %s  effort:%s  %s",
		flag("web", a.cfg.EnableWebSearch),
		flag("tools", a.cfg.EnableMCP),
		a.cfg.ReasoningEffort,
		FormatFooter("^L", "Chats", "^F", "Search", "^O", "Models", "^S", "Settings", "^G", "Help"))
}
