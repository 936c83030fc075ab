// Package view derives the displayed expense sequence from the cached
// records, a category filter and a sort directive.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterPolicy selects how filter text is matched against a category.
type FilterPolicy int

const (
	// MatchPrefix keeps categories that start with the filter text.
	MatchPrefix FilterPolicy = iota
	// MatchSubstring keeps categories that contain the filter text.
	MatchSubstring
)

// ParseFilterPolicy converts a config value into a FilterPolicy.
func ParseFilterPolicy(s string) (FilterPolicy, error) {
	switch s {
	case "", "prefix":
		return MatchPrefix, nil
	case "substring":
		return MatchSubstring, nil
	default:
		return MatchPrefix, fmt.Errorf("unknown filter match policy %q", s)
	}
}

func (p FilterPolicy) String() string {
	switch p {
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// Filter is a case-insensitive category predicate. Blank text matches everything.
type Filter struct {
	Text   string
	Policy FilterPolicy
}

// IsActive reports whether the filter can exclude anything.
func (f Filter) IsActive() bool {
	return strings.TrimSpace(f.Text) != ""
}

// Match reports whether category passes the filter.
func (f Filter) Match(category string) bool {
	fold := cases.Fold()
	return f.match(fold.String(strings.TrimSpace(f.Text)), fold.String(category))
}

func (f Filter) match(needle, category string) bool {
	if needle == "" {
		return true
	}
	if f.Policy == MatchSubstring {
		return strings.Contains(category, needle)
	}
	return strings.HasPrefix(category, needle)
}

// Derive filters and sorts records using the root collation for categories.
func Derive(records []model.Expense, filter Filter, d Directive) []model.Expense {
	return DeriveIn(language.Und, records, filter, d)
}

// DeriveIn filters and sorts records, comparing categories with the
// collation of tag. The result never shares its backing array with records
// and the sort is stable: equal keys keep their cache order in both
// directions.
func DeriveIn(tag language.Tag, records []model.Expense, filter Filter, d Directive) []model.Expense {
	out := make([]model.Expense, 0, len(records))

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(filter.Text))
	for _, r := range records {
		if filter.match(needle, fold.String(r.Category)) {
			out = append(out, r)
		}
	}

	if !d.IsSorted() {
		return out
	}

	cmp := comparator(tag, d.Column)
	if d.Direction == Descending {
		asc := cmp
		cmp = func(a, b model.Expense) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)

	return out
}

func comparator(tag language.Tag, c Column) func(a, b model.Expense) int {
	switch c {
	case ColumnAmount:
		return func(a, b model.Expense) int {
			return a.Amount.Cmp(b.Amount)
		}
	case ColumnCategory:
		col := collate.New(tag, collate.IgnoreCase)
		return func(a, b model.Expense) int {
			return col.CompareString(a.Category, b.Category)
		}
	default:
		return func(model.Expense, model.Expense) int { return 0 }
	}
}
