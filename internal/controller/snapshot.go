package controller

import (
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/view"
)

// Empty-state messages for the expense table.
const (
	MsgNoExpenses   = "No expenses found. Add one above!"
	MsgNoneMatching = "No expenses match your filter."
)

// Snapshot is a derived, read-only picture of the controller state. View is
// a fresh slice the receiver may modify freely.
type Snapshot struct {
	FormError string
	ListError string
	View      []model.Expense
	Filter    view.Filter
	Directive view.Directive
	Total     int
	Revision  uint64
	Loaded    bool
}

// IsEmpty returns true if nothing is displayed.
func (s Snapshot) IsEmpty() bool {
	return len(s.View) == 0
}

// EmptyMessage explains an empty view, distinguishing a filter that hides
// everything from an empty collection.
func (s Snapshot) EmptyMessage() string {
	if !s.IsEmpty() {
		return ""
	}
	if s.Filter.IsActive() {
		return MsgNoneMatching
	}
	return MsgNoExpenses
}

// Find returns the displayed expense with the given id.
func (s Snapshot) Find(id int64) (model.Expense, bool) {
	for _, e := range s.View {
		if e.ID == id {
			return e, true
		}
	}
	return model.Expense{}, false
}
