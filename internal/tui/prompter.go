package tui

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompter is the controller's confirmation gate when running under the
// TUI. Confirm blocks until the user answers the dialog shown by Model.
type Prompter struct {
	requests chan confirmRequestMsg
}

// Ensure we implement the interface.
var _ controller.Confirmer = (*Prompter)(nil)

// NewPrompter creates a prompter. It must be passed to NewModel so that
// requests reach the screen.
func NewPrompter() *Prompter {
	return &Prompter{
		requests: make(chan confirmRequestMsg),
	}
}

// Confirm implements controller.Confirmer.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	reply := make(chan bool, 1)

	select {
	case p.requests <- confirmRequestMsg{prompt: prompt, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	// Wait for user interaction
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// waitForRequest delivers the next confirmation request to the event loop.
// The command returns nil once ctx is done.
func (p *Prompter) waitForRequest(ctx context.Context) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case req := <-p.requests:
			return req
		case <-ctx.Done():
			return nil
		}
	}
}
