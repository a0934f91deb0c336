package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"grokchat/chat"
)

// StatusRelay forwards engine status updates into the bubbletea event loop.
// The engine is constructed before the program exists, so the relay buffers
// a nil program until Attach is called.
type StatusRelay struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewStatusRelay() *StatusRelay {
	return &StatusRelay{}
}

// Attach connects the relay to a running program.
func (r *StatusRelay) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Func returns the StatusFunc the engine should call. Updates sent before
// Attach are dropped.
func (r *StatusRelay) Func() chat.StatusFunc {
	return func(state chat.TurnState, detail string) {
		r.mu.Lock()
		p := r.program
		r.mu.Unlock()
		if p != nil {
			p.Send(chat.TurnStatusMsg{State: state, Detail: detail})
		}
	}
}
