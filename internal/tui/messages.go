package tui

import (
	"github.com/Veraticus/spice-ledger/internal/controller"
)

// snapshotMsg carries a render from the controller subscription.
type snapshotMsg struct {
	snapshot controller.Snapshot
}

// Operation results. The controller has already reconciled its state; these
// only tell the model which local UI state to reset.
type loadDoneMsg struct {
	err error
}

type addDoneMsg struct {
	err error
}

type deleteDoneMsg struct {
	err       error
	id        int64
	confirmed bool
}

// confirmRequestMsg asks the model to show the confirmation dialog. The
// answer is sent on reply, which must be buffered.
type confirmRequestMsg struct {
	reply  chan<- bool
	prompt string
}

// filterDebounceMsg fires after the filter input has been idle. Only the
// message whose tag matches the latest keystroke applies.
type filterDebounceMsg struct {
	text string
	tag  int
}
