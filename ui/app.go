// Package ui implements the terminal interface: the chat view, the
// conversation picker, cross-conversation message search, the model picker
// and the settings screen.
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grokchat/chat"
	"grokchat/config"
	"grokchat/provider"
	"grokchat/storage"
)

type viewMode int

const (
	viewChat viewMode = iota
	viewConversations
	viewSearch
	viewSettings
	viewModels
	viewHelp
)

// uiMessage wraps a stored message with its cached terminal rendering.
type uiMessage struct {
	storage.Message
	Rendered string
}

// App is the bubbletea model for the whole application.
type App struct {
	cfg         *config.Config
	creds       *config.CredentialStore
	mcpSettings *config.MCPSettings
	engine      *chat.Engine
	prov        provider.Provider
	store       *storage.Store
	index       *storage.SearchIndex

	viewport    viewport.Model
	textarea    textarea.Model
	spinner     spinner.Model
	filterInput textinput.Model
	renameInput textinput.Model
	searchInput textinput.Model

	width  int
	height int
	ready  bool
	mode   viewMode

	conversation *storage.Conversation
	messages     []uiMessage
	waiting      bool
	statusDetail string
	errText      string

	// Conversation picker state
	convList        []storage.Metadata
	filteredConvs   []storage.Metadata
	selectedConvIdx int
	filterMode      bool
	renameMode      bool
	confirmDelete   *storage.Metadata

	// Message search state
	searchResults     []storage.MessageMatch
	selectedSearchIdx int
	searchRan         bool

	// Model picker state
	models           []string
	selectedModelIdx int
	modelsErr        error

	// Settings state
	selectedSettingIdx int
}

// Options bundles the collaborators main wires together.
type Options struct {
	Config      *config.Config
	Credentials *config.CredentialStore
	MCPSettings *config.MCPSettings
	Engine      *chat.Engine
	Provider    provider.Provider
	Store       *storage.Store
	Index       *storage.SearchIndex
}

// New builds the app and restores the last active conversation.
func New(opts Options) *App {
	ta := textarea.New()
	ta.Placeholder = "Ask anything..."
	ta.Focus()
	ta.ShowLineNumbers = false
	ta.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	filter := textinput.New()
	filter.Placeholder = "Filter conversations..."
	rename := textinput.New()
	rename.Placeholder = "New title..."
	search := textinput.New()
	search.Placeholder = "Search messages..."

	a := &App{
		cfg:         opts.Config,
		creds:       opts.Credentials,
		mcpSettings: opts.MCPSettings,
		engine:      opts.Engine,
		prov:        opts.Provider,
		store:       opts.Store,
		index:       opts.Index,
		textarea:    ta,
		spinner:     sp,
		filterInput: filter,
		renameInput: rename,
		searchInput: search,
	}

	a.restoreConversation()
	return a
}

func (a *App) restoreConversation() {
	if id, err := a.store.LoadCurrentID(); err == nil && id != "" {
		if conv, err := a.store.Get(id); err == nil {
			a.setConversation(conv)
			return
		}
	}
	a.setConversation(a.store.New())
}

func (a *App) setConversation(conv *storage.Conversation) {
	a.conversation = conv
	a.messages = a.messages[:0]
	for _, msg := range conv.Messages {
		a.messages = append(a.messages, uiMessage{Message: msg})
	}
	_ = a.store.SaveCurrentID(conv.ID)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.spinner.Tick)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case chat.TurnStatusMsg:
		a.statusDetail = msg.Detail
		return a, nil

	case chat.TurnCompleteMsg:
		return a.handleTurnComplete(msg)

	case chat.ModelsListMsg:
		a.models = msg.Models
		a.modelsErr = msg.Err
		a.selectedModelIdx = indexOf(a.models, a.cfg.ModelName)
		return a, nil

	case markdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.messages) {
			a.messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(true)
		}
		return a, nil

	case conversationsListMsg:
		if msg.Err == nil {
			a.convList = msg.Conversations
			a.filteredConvs = msg.Conversations
		}
		return a, nil

	case conversationSavedMsg:
		if msg.Err != nil {
			a.errText = msg.Err.Error()
		}
		return a, nil

	case searchResultsMsg:
		a.searchRan = true
		if msg.Err != nil {
			a.errText = msg.Err.Error()
			return a, nil
		}
		a.searchResults = msg.Matches
		a.selectedSearchIdx = 0
		return a, nil

	case clipboardCopiedMsg:
		if msg.Err != nil {
			a.errText = msg.Err.Error()
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case viewConversations:
			return a.handleConversationsKey(msg)
		case viewSearch:
			return a.handleSearchKey(msg)
		case viewSettings:
			return a.handleSettingsKey(msg)
		case viewModels:
			return a.handleModelsKey(msg)
		case viewHelp:
			return a.handleHelpKey(msg)
		default:
			return a.handleChatKey(msg)
		}
	}

	return a, nil
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	headerHeight := 1
	footerHeight := a.textarea.Height() + 2

	if !a.ready {
		a.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
		a.ready = true
	} else {
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - headerHeight - footerHeight
	}
	a.textarea.SetWidth(msg.Width - 2)

	// Width changed, cached renderings are stale.
	var cmds []tea.Cmd
	for i := range a.messages {
		a.messages[i].Rendered = ""
		if a.messages[i].Role == "assistant" {
			cmds = append(cmds, a.renderMarkdownAsync(i, a.messages[i].Content))
		}
	}
	a.updateViewportContent(true)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	switch a.mode {
	case viewConversations:
		return a.viewConversationList()
	case viewSearch:
		return a.viewSearchScreen()
	case viewSettings:
		return a.viewSettingsScreen()
	case viewModels:
		return a.viewModelPicker()
	case viewHelp:
		return a.viewHelpScreen()
	default:
		return a.viewChatScreen()
	}
}

func indexOf(list []string, item string) int {
	for i, v := range list {
		if v == item {
			return i
		}
	}
	return 0
}
