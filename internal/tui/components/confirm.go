package components

import (
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a yes/no dialog. It defaults to no.
type ConfirmModel struct {
	theme    themes.Theme
	prompt   string
	detail   string
	width    int
	height   int
	answer   bool
	complete bool
}

// NewConfirmModel creates a dialog asking prompt. Detail is shown below it.
func NewConfirmModel(prompt, detail string, theme themes.Theme) ConfirmModel {
	return ConfirmModel{
		prompt: prompt,
		detail: detail,
		theme:  theme,
	}
}

// Update handles messages.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.answer = true
			m.complete = true
		case "n", "N", "esc", "q", "enter":
			m.answer = false
			m.complete = true
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// IsComplete reports whether the user answered.
func (m ConfirmModel) IsComplete() bool {
	return m.complete
}

// Answer returns the user's answer. It is false until IsComplete.
func (m ConfirmModel) Answer() bool {
	return m.complete && m.answer
}

// View renders the dialog.
func (m ConfirmModel) View() string {
	sections := []string{m.theme.Title.Render(m.prompt)}
	if m.detail != "" {
		sections = append(sections, "", m.theme.Normal.Render(m.detail))
	}
	sections = append(sections, "", m.theme.Help.Render("[y] Yes | [n/Esc] No"))

	box := m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
