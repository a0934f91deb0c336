package chat

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"grokchat/provider"
)

// RunTurnCmd runs one turn in the background and delivers the result as a
// TurnCompleteMsg. Intermediate status updates go through the engine's
// StatusFunc, which the UI wires to Program.Send.
func RunTurnCmd(engine *Engine, req TurnRequest) tea.Cmd {
	return func() tea.Msg {
		return TurnCompleteMsg{Result: engine.Run(context.Background(), req)}
	}
}

// ListModelsCmd fetches the model catalog from the provider. A nil provider
// yields the default list so the picker always has entries.
func ListModelsCmd(p provider.Provider) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			return ModelsListMsg{Models: append([]string(nil), provider.DefaultModels...)}
		}
		models, err := p.ListModels(context.Background())
		sort.Strings(models)
		return ModelsListMsg{Models: models, Err: err}
	}
}
