package components

import (
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	tuitest "github.com/Veraticus/spice-ledger/internal/tui/testing"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/Veraticus/spice-ledger/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTitle(t *testing.T) {
	tests := []struct {
		name      string
		want      string
		directive view.Directive
		column    view.Column
	}{
		{
			name:      "unsorted",
			directive: view.Unsorted,
			column:    view.ColumnAmount,
			want:      "Amount",
		},
		{
			name:      "active ascending",
			directive: view.Directive{Column: view.ColumnAmount, Direction: view.Ascending},
			column:    view.ColumnAmount,
			want:      "Amount ▲",
		},
		{
			name:      "active descending",
			directive: view.Directive{Column: view.ColumnAmount, Direction: view.Descending},
			column:    view.ColumnAmount,
			want:      "Amount ▼",
		},
		{
			name:      "other column active",
			directive: view.Directive{Column: view.ColumnCategory, Direction: view.Descending},
			column:    view.ColumnAmount,
			want:      "Amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeaderTitle("Amount", tt.column, tt.directive))
		})
	}
}

func TestExpenseTableModel(t *testing.T) {
	m := NewExpenseTableModel(themes.Default)
	m.SetSize(80, 10)

	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetExpenses(nil, view.Unsorted, "No expenses found. Add one above!")
	assert.Contains(t, tuitest.PlainView(m.View()), "No expenses found. Add one above!")

	expenses := []model.Expense{
		{ID: 7, Category: "Rent", Amount: decimal.NewFromInt(1200)},
		{ID: 3, Category: "Coffee", Amount: decimal.RequireFromString("3.5")},
	}
	m.SetExpenses(expenses, view.Directive{Column: view.ColumnCategory, Direction: view.Descending}, "")
	assert.Equal(t, 2, m.Len())

	plain := tuitest.PlainView(m.View())
	assert.Contains(t, plain, "Category ▼")
	assert.True(t, tuitest.ContainsInOrder(plain, "7", "Rent", "$1200.00", "3", "Coffee", "$3.50"))

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(7), selected.ID)

	m, _ = m.Update(tuitest.KeyDown())
	selected, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(3), selected.ID)

	// Shrinking the rows keeps the cursor on a real row.
	m.SetExpenses(expenses[:1], view.Unsorted, "")
	selected, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(7), selected.ID)
}

func TestExpenseTableModel_SelectsFirstRowAfterEmpty(t *testing.T) {
	expenses := []model.Expense{
		{ID: 7, Category: "Rent", Amount: decimal.NewFromInt(1200)},
		{ID: 3, Category: "Coffee", Amount: decimal.RequireFromString("3.5")},
	}

	m := NewExpenseTableModel(themes.Default)
	m.SetSize(80, 10)

	// Start empty, as before the first load.
	m.SetExpenses(nil, view.Unsorted, "No expenses found. Add one above!")
	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetExpenses(expenses, view.Unsorted, "")
	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(7), selected.ID)

	// A filter that hides everything, then shows rows again.
	m, _ = m.Update(tuitest.KeyDown())
	m.SetExpenses(nil, view.Unsorted, "No expenses match your filter.")
	m.SetExpenses(expenses[1:], view.Unsorted, "")
	selected, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(3), selected.ID)
}

func TestAddFormModel(t *testing.T) {
	t.Run("ignores input while blurred", func(t *testing.T) {
		m := NewAddFormModel(themes.Default)
		m, cmd := tuitest.Apply(m, tuitest.TypeText("abc")...)
		assert.Empty(t, cmd)
		category, _ := m.Values()
		assert.Empty(t, category)
	})

	t.Run("submit carries raw values", func(t *testing.T) {
		m := NewAddFormModel(themes.Default)
		m.Focus()

		m, _ = tuitest.Apply(m, tuitest.TypeText(" Food ")...)
		m, _ = tuitest.Apply(m, tuitest.KeyTab())
		m, _ = tuitest.Apply(m, tuitest.TypeText("12,50")...)

		_, cmd := m.Update(tuitest.KeyEnter())
		require.NotNil(t, cmd)
		assert.Equal(t, SubmitMsg{Category: " Food ", Amount: "12,50"}, cmd())
	})

	t.Run("enter on category with empty amount moves to amount", func(t *testing.T) {
		m := NewAddFormModel(themes.Default)
		m.Focus()
		m, _ = tuitest.Apply(m, tuitest.TypeText("Food")...)
		m, _ = tuitest.Apply(m, tuitest.KeyEnter())
		m, _ = tuitest.Apply(m, tuitest.TypeText("5")...)

		category, amount := m.Values()
		assert.Equal(t, "Food", category)
		assert.Equal(t, "5", amount)
	})

	t.Run("esc cancels", func(t *testing.T) {
		m := NewAddFormModel(themes.Default)
		m.Focus()
		_, cmd := m.Update(tuitest.KeyEsc())
		require.NotNil(t, cmd)
		assert.Equal(t, FormCancelledMsg{}, cmd())
	})

	t.Run("reset and error slot", func(t *testing.T) {
		m := NewAddFormModel(themes.Default)
		m.Focus()
		m, _ = tuitest.Apply(m, tuitest.TypeText("Food")...)
		m.SetError("Category and Amount are required.")
		assert.Contains(t, tuitest.PlainView(m.View()), "Category and Amount are required.")

		m.Reset()
		m.SetError("")
		category, amount := m.Values()
		assert.Empty(t, category)
		assert.Empty(t, amount)
		assert.NotContains(t, tuitest.PlainView(m.View()), "required")
	})
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		key        tea.KeyMsg
		name       string
		wantAnswer bool
	}{
		{name: "y confirms", key: tuitest.KeyPress("y"), wantAnswer: true},
		{name: "Y confirms", key: tuitest.KeyPress("Y"), wantAnswer: true},
		{name: "n declines", key: tuitest.KeyPress("n"), wantAnswer: false},
		{name: "esc declines", key: tuitest.KeyEsc(), wantAnswer: false},
		{name: "enter takes the default", key: tuitest.KeyEnter(), wantAnswer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel("Delete?", "Food  $12.50", themes.Default)
			assert.False(t, m.IsComplete())
			assert.False(t, m.Answer())

			m, _ = m.Update(tt.key)
			assert.True(t, m.IsComplete())
			assert.Equal(t, tt.wantAnswer, m.Answer())
		})
	}

	t.Run("other keys are ignored", func(t *testing.T) {
		m := NewConfirmModel("Delete?", "", themes.Default)
		m, _ = m.Update(tuitest.KeyPress("x"))
		assert.False(t, m.IsComplete())
		assert.Contains(t, tuitest.PlainView(m.View()), "Delete?")
	})
}
