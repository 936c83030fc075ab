package components

import (
	"strconv"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/Veraticus/spice-ledger/internal/view"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	idWidth       = 6
	amountWidth   = 14
	categoryWidth = 30
)

// ExpenseTableModel renders the derived expense sequence with sortable
// column headers.
type ExpenseTableModel struct {
	theme     themes.Theme
	empty     string
	expenses  []model.Expense
	table     table.Model
	directive view.Directive
	width     int
}

// NewExpenseTableModel creates an empty table.
func NewExpenseTableModel(theme themes.Theme) ExpenseTableModel {
	t := table.New(
		table.WithColumns(columns(view.Unsorted, categoryWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(theme.TableStyles())

	return ExpenseTableModel{
		theme: theme,
		table: t,
		width: idWidth + categoryWidth + amountWidth,
	}
}

// SetExpenses replaces the rows and header indicators. The cursor is kept
// in range.
func (m *ExpenseTableModel) SetExpenses(expenses []model.Expense, d view.Directive, empty string) {
	m.expenses = expenses
	m.directive = d
	m.empty = empty

	rows := make([]table.Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, table.Row{
			strconv.FormatInt(e.ID, 10),
			e.Category,
			e.FormattedAmount(),
		})
	}

	m.table.SetColumns(columns(d, m.categoryWidth()))
	m.table.SetRows(rows)
	// The bubbles table leaves the cursor at -1 after it held no rows.
	if len(rows) == 0 {
		return
	}
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(min(max(c, 0), len(rows)-1))
	}
}

// Selected returns the expense under the cursor.
func (m ExpenseTableModel) Selected() (model.Expense, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.expenses) {
		return model.Expense{}, false
	}
	return m.expenses[i], true
}

// Len returns the number of rendered rows.
func (m ExpenseTableModel) Len() int {
	return len(m.expenses)
}

// SetSize resizes the table to fit width x height cells.
func (m *ExpenseTableModel) SetSize(width, height int) {
	m.width = width
	m.table.SetColumns(columns(m.directive, m.categoryWidth()))
	// Header and its border take two lines.
	m.table.SetHeight(max(height-2, 1))
}

// Focus gives the table keyboard focus.
func (m *ExpenseTableModel) Focus() {
	m.table.Focus()
}

// Blur removes keyboard focus.
func (m *ExpenseTableModel) Blur() {
	m.table.Blur()
}

// Update handles navigation keys.
func (m ExpenseTableModel) Update(msg tea.Msg) (ExpenseTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, or the empty-state message when there are no rows.
func (m ExpenseTableModel) View() string {
	if len(m.expenses) == 0 {
		header := m.theme.Header.Render(headerLine(m.directive, m.categoryWidth()))
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.theme.StatusPending.Render(m.empty),
		)
	}
	return m.table.View()
}

func (m ExpenseTableModel) categoryWidth() int {
	// Cell padding adds two columns per cell.
	return max(m.width-idWidth-amountWidth-6, 10)
}

// HeaderTitle returns the column title with its sort indicator, if any.
func HeaderTitle(title string, c view.Column, d view.Directive) string {
	if ind := d.Indicator(c); ind != "" {
		return title + " " + ind
	}
	return title
}

func columns(d view.Directive, catWidth int) []table.Column {
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: HeaderTitle("Category", view.ColumnCategory, d), Width: catWidth},
		{Title: HeaderTitle("Amount", view.ColumnAmount, d), Width: amountWidth},
	}
}

func headerLine(d view.Directive, catWidth int) string {
	cols := columns(d, catWidth)
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, lipgloss.NewStyle().Width(c.Width).MaxWidth(c.Width).Inline(true).Render(c.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
