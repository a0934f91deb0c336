package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleModelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc", "q":
		a.mode = viewChat
		return a, nil
	case "j", "down":
		if a.selectedModelIdx < len(a.models)-1 {
			a.selectedModelIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
		return a, nil
	case "enter":
		if a.selectedModelIdx >= 0 && a.selectedModelIdx < len(a.models) {
			a.cfg.ModelName = a.models[a.selectedModelIdx]
			if a.prov != nil {
				a.prov.SetModel(a.cfg.ModelName)
			}
			a.mode = viewChat
			return a, a.saveConfigCmd()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) viewModelPicker() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Models") + "\n\n")

	if a.modelsErr != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Could not fetch models: %v (showing defaults)", a.modelsErr)) + "\n\n")
	}
	if len(a.models) == 0 {
		b.WriteString(DimStyle.Render("Loading models...") + "\n")
	}

	visible := a.height - 8
	for i, model := range a.models {
		if i >= visible {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... and %d more", len(a.models)-i)) + "\n")
			break
		}
		marker := ""
		if model == a.cfg.ModelName {
			marker = " *"
		}
		b.WriteString(listLine(i == a.selectedModelIdx, model+marker) + "\n")
	}

	b.WriteString("\n" + FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close"))
	return b.String()
}
