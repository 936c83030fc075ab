package components

import (
	"strings"

	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitMsg is sent when the add form is submitted. Fields are raw input.
type SubmitMsg struct {
	Category string
	Amount   string
}

// FormCancelledMsg is sent when the user leaves the form with Esc.
type FormCancelledMsg struct{}

type formField int

const (
	fieldCategory formField = iota
	fieldAmount
)

// AddFormModel is the two-field form for new expenses.
type AddFormModel struct {
	theme    themes.Theme
	errorMsg string
	category textinput.Model
	amount   textinput.Model
	field    formField
	focused  bool
}

// NewAddFormModel creates an empty, unfocused form.
func NewAddFormModel(theme themes.Theme) AddFormModel {
	category := textinput.New()
	category.Placeholder = "Groceries"
	category.CharLimit = 64
	category.Width = 30

	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.CharLimit = 16
	amount.Width = 14

	return AddFormModel{
		theme:    theme,
		category: category,
		amount:   amount,
	}
}

// Focus activates the form on the category field.
func (m *AddFormModel) Focus() tea.Cmd {
	m.focused = true
	m.field = fieldCategory
	m.amount.Blur()
	return m.category.Focus()
}

// Blur deactivates the form without clearing it.
func (m *AddFormModel) Blur() {
	m.focused = false
	m.category.Blur()
	m.amount.Blur()
}

// Focused reports whether the form has keyboard focus.
func (m AddFormModel) Focused() bool {
	return m.focused
}

// Reset clears both fields.
func (m *AddFormModel) Reset() {
	m.category.Reset()
	m.amount.Reset()
	m.field = fieldCategory
}

// SetError sets the form error slot.
func (m *AddFormModel) SetError(msg string) {
	m.errorMsg = msg
}

// Values returns the current raw field contents.
func (m AddFormModel) Values() (category, amount string) {
	return m.category.Value(), m.amount.Value()
}

// Update handles field input, field switching and submission.
func (m AddFormModel) Update(msg tea.Msg) (AddFormModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return m, m.toggleField()
		case "enter":
			if m.field == fieldCategory && strings.TrimSpace(m.amount.Value()) == "" {
				return m, m.toggleField()
			}
			cat, amt := m.Values()
			return m, func() tea.Msg { return SubmitMsg{Category: cat, Amount: amt} }
		case "esc":
			return m, func() tea.Msg { return FormCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldCategory:
		m.category, cmd = m.category.Update(msg)
	case fieldAmount:
		m.amount, cmd = m.amount.Update(msg)
	}
	return m, cmd
}

func (m *AddFormModel) toggleField() tea.Cmd {
	if m.field == fieldCategory {
		m.field = fieldAmount
		m.category.Blur()
		return m.amount.Focus()
	}
	m.field = fieldCategory
	m.amount.Blur()
	return m.category.Focus()
}

// View renders the form with its error slot.
func (m AddFormModel) View() string {
	title := m.theme.Title.Render("Add Expense")

	rows := []string{
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render("Category"), m.category.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render("Amount"), m.amount.View()),
	}
	if m.errorMsg != "" {
		rows = append(rows, m.theme.StatusError.Render(m.errorMsg))
	}

	box := m.theme.Box
	if m.focused {
		box = m.theme.FocusedBox
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
