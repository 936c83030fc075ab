package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// chromeLines is everything above and below the table except the form.
const chromeLines = 6

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.focus == FocusConfirm {
		return m.confirm.View()
	}

	sections := []string{
		m.renderHeader(),
		m.form.View(),
		m.renderFilter(),
		m.renderListError(),
		m.renderList(),
		m.help.View(m.keymap),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the record counts.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Expenses")

	var counts string
	switch {
	case !m.snapshot.Loaded:
		counts = "loading..."
	case m.snapshot.Filter.IsActive():
		counts = fmt.Sprintf("%d of %d", len(m.snapshot.View), m.snapshot.Total)
	default:
		counts = fmt.Sprintf("%d total", m.snapshot.Total)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.theme.Subtitle.Render(counts))
}

func (m Model) renderFilter() string {
	if m.focus == FocusFilter || m.filter.Value() != "" {
		return m.filter.View()
	}
	return m.theme.Help.Render("/ to filter")
}

// renderListError renders the list error slot. It always takes one line so
// the table does not jump when an error appears.
func (m Model) renderListError() string {
	if m.snapshot.ListError == "" {
		return ""
	}
	return m.theme.StatusError.Render(m.snapshot.ListError)
}

func (m Model) renderList() string {
	if !m.snapshot.Loaded && m.snapshot.ListError == "" {
		return m.theme.StatusPending.Render("Loading expenses...")
	}
	return m.table.View()
}

// chromeHeight is the number of lines not available to the table.
func (m Model) chromeHeight() int {
	helpLines := 1
	if m.help.ShowAll {
		for _, col := range m.keymap.FullHelp() {
			helpLines = max(helpLines, len(col))
		}
	}
	return chromeLines + lipgloss.Height(m.form.View()) + helpLines
}
