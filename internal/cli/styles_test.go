package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestRenderExpenses(t *testing.T) {
	expenses := []model.Expense{
		{ID: 2, Category: "Fuel", Amount: decimal.NewFromInt(40)},
		{ID: 10, Category: "Groceries", Amount: decimal.RequireFromString("112.5")},
	}

	out := plain(RenderExpenses(expenses, view.Directive{Column: view.ColumnAmount, Direction: view.Descending}, "none"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "Category")
	assert.Contains(t, lines[0], "Amount ▼")
	assert.NotContains(t, lines[0], "Category ▲")

	body := strings.Join(lines[1:], "\n")
	assert.Contains(t, body, "Fuel")
	assert.Contains(t, body, "$40.00")
	assert.Contains(t, body, "$112.50")
	assert.Less(t, strings.Index(body, "Fuel"), strings.Index(body, "Groceries"))
	assert.NotContains(t, body, "none")
}

func TestRenderExpenses_Empty(t *testing.T) {
	out := plain(RenderExpenses(nil, view.Unsorted, "No expenses found. Add one above!"))
	assert.Contains(t, out, "No expenses found. Add one above!")
	assert.NotContains(t, out, "▲")
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "3 expenses", plain(FormatSummary(3, 3, false)))
	assert.Equal(t, "1 of 3 expenses", plain(FormatSummary(1, 3, true)))
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, plain(FormatSuccess("done")), SuccessIcon+" done")
	assert.Contains(t, plain(FormatError("bad")), ErrorIcon+" bad")
	assert.Contains(t, plain(FormatPrompt("Sure?")), "Sure? (y/N)")
}
