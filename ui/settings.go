package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"grokchat/config"
)

var reasoningEfforts = []string{"low", "medium", "high"}

// settingCount returns the number of rows in the settings list: the fixed
// toggles plus one row per configured tool server.
func (a *App) settingCount() int {
	return 4 + len(a.mcpSettings.ServerNames())
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc", "q":
		a.mode = viewChat
		return a, nil
	case "j", "down":
		if a.selectedSettingIdx < a.settingCount()-1 {
			a.selectedSettingIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedSettingIdx > 0 {
			a.selectedSettingIdx--
		}
		return a, nil
	case "enter", " ":
		return a, a.toggleSetting()
	}
	return a, nil
}

func (a *App) toggleSetting() tea.Cmd {
	switch a.selectedSettingIdx {
	case 0:
		a.cfg.EnableWebSearch = !a.cfg.EnableWebSearch
	case 1:
		a.cfg.EnableMCP = !a.cfg.EnableMCP
	case 2:
		a.cfg.ReasoningEffort = nextReasoningEffort(a.cfg.ReasoningEffort)
	case 3:
		a.cfg.ShowReasoning = !a.cfg.ShowReasoning
		a.updateViewportContent(false)
	default:
		servers := a.mcpSettings.ServerNames()
		idx := a.selectedSettingIdx - 4
		if idx < 0 || idx >= len(servers) {
			return nil
		}
		name := servers[idx]
		server := a.mcpSettings.Server(name)
		a.mcpSettings.SetDisabled(name, !server.Disabled)
		return a.saveMCPSettingsCmd()
	}
	return a.saveConfigCmd()
}

func nextReasoningEffort(current string) string {
	for i, effort := range reasoningEfforts {
		if effort == current {
			return reasoningEfforts[(i+1)%len(reasoningEfforts)]
		}
	}
	return reasoningEfforts[1]
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		return conversationSavedMsg{Err: cfg.Save()}
	}
}

func (a *App) saveMCPSettingsCmd() tea.Cmd {
	dataDir := a.cfg.DataDir()
	settings := a.mcpSettings
	return func() tea.Msg {
		return conversationSavedMsg{Err: config.SaveMCPSettings(dataDir, settings)}
	}
}

func (a *App) viewSettingsScreen() string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Settings") + "\n\n")

	rows := []string{
		fmt.Sprintf("Web Search        %s", onOff(a.cfg.EnableWebSearch)),
		fmt.Sprintf("Tool Integrations %s", onOff(a.cfg.EnableMCP)),
		fmt.Sprintf("Reasoning Effort  %s", a.cfg.ReasoningEffort),
		fmt.Sprintf("Show Reasoning    %s", onOff(a.cfg.ShowReasoning)),
	}
	for i, row := range rows {
		b.WriteString(listLine(i == a.selectedSettingIdx, row) + "\n")
	}

	servers := a.mcpSettings.ServerNames()
	if len(servers) > 0 {
		b.WriteString("\n" + DimStyle.Render("Tool servers") + "\n")
	}
	for i, name := range servers {
		server := a.mcpSettings.Server(name)
		state := "enabled"
		if server.Disabled {
			state = "disabled"
		}
		row := fmt.Sprintf("%-24s %s", name, state)
		b.WriteString(listLine(4+i == a.selectedSettingIdx, truncateLine(row, a.width-4)) + "\n")
	}

	b.WriteString("\n" + FormatFooter("j/k", "Navigate", "Enter", "Toggle", "Esc", "Close"))
	return b.String()
}
