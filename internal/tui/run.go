package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the expense screen until the user quits or ctx is cancelled.
// ctrl must have been created with prompter as its confirmer.
func Run(ctx context.Context, ctrl *controller.Controller, prompter *Prompter, opts ...Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, ctrl, prompter, opts...)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(m, programOpts...)

	forwarder := newSnapshotForwarder()
	forwarding := make(chan struct{})
	go func() {
		defer close(forwarding)
		forwarder.run(ctx, program.Send)
	}()
	defer func() {
		cancel()
		<-forwarding
	}()

	unsubscribe := ctrl.Subscribe(forwarder)
	defer unsubscribe()

	m.logger.Info("Starting expense TUI")
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	m.logger.Info("Expense TUI closed")
	return nil
}

// snapshotForwarder hands controller renders to the program from a single
// goroutine. Renders arrive from command goroutines and from Update itself,
// so Render never blocks; while the program is busy only the newest
// snapshot is kept.
type snapshotForwarder struct {
	wake    chan struct{}
	latest  controller.Snapshot
	mu      sync.Mutex
	pending bool
}

var _ controller.Renderer = (*snapshotForwarder)(nil)

func newSnapshotForwarder() *snapshotForwarder {
	return &snapshotForwarder{wake: make(chan struct{}, 1)}
}

// Render implements controller.Renderer.
func (f *snapshotForwarder) Render(s controller.Snapshot) {
	f.mu.Lock()
	if !f.pending || s.Revision >= f.latest.Revision {
		f.latest = s
		f.pending = true
	}
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// run delivers pending snapshots through send until ctx is done.
func (f *snapshotForwarder) run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.wake:
		}

		f.mu.Lock()
		s, ok := f.latest, f.pending
		f.pending = false
		f.mu.Unlock()

		if ok {
			send(snapshotMsg{snapshot: s})
		}
	}
}
