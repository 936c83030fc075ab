package view

import "fmt"

// Column identifies a sortable column of the expense table.
type Column int

const (
	// ColumnNone means no column drives the order.
	ColumnNone Column = iota
	// ColumnCategory sorts by category text.
	ColumnCategory
	// ColumnAmount sorts by amount.
	ColumnAmount
)

// String returns the config/CLI name of the column.
func (c Column) String() string {
	switch c {
	case ColumnNone:
		return "none"
	case ColumnCategory:
		return "category"
	case ColumnAmount:
		return "amount"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ParseColumn converts a column name into a Column. The empty string is ColumnNone.
func ParseColumn(s string) (Column, error) {
	switch s {
	case "", "none":
		return ColumnNone, nil
	case "category":
		return ColumnCategory, nil
	case "amount":
		return ColumnAmount, nil
	default:
		return ColumnNone, fmt.Errorf("unknown sort column %q", s)
	}
}

// Direction is the sort direction of the active column.
type Direction int

const (
	// DirectionNone keeps cache order.
	DirectionNone Direction = iota
	// Ascending orders smallest first.
	Ascending
	// Descending orders largest first.
	Descending
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// CycleMode selects what a click on the active descending column does.
type CycleMode int

const (
	// CycleThreeWay goes ascending, descending, then back to unsorted.
	CycleThreeWay CycleMode = iota
	// CycleTwoWay toggles between ascending and descending forever.
	CycleTwoWay
)

// ParseCycleMode converts a config value into a CycleMode.
func ParseCycleMode(s string) (CycleMode, error) {
	switch s {
	case "", "three-way":
		return CycleThreeWay, nil
	case "two-way":
		return CycleTwoWay, nil
	default:
		return CycleThreeWay, fmt.Errorf("unknown sort cycle %q", s)
	}
}

// Directive is the (column, direction) pair driving the current sort.
// The zero value is the unsorted state. Column is ColumnNone exactly when
// Direction is DirectionNone.
type Directive struct {
	Column    Column
	Direction Direction
}

// Unsorted is the initial directive.
var Unsorted = Directive{}

// NewDirective builds a directive, normalizing half-set pairs to Unsorted.
func NewDirective(c Column, d Direction) Directive {
	if c == ColumnNone || d == DirectionNone {
		return Unsorted
	}
	return Directive{Column: c, Direction: d}
}

// IsSorted reports whether a column is active.
func (d Directive) IsSorted() bool {
	return d.Direction != DirectionNone
}

// Click returns the directive after a header click on column c.
func (d Directive) Click(c Column, mode CycleMode) Directive {
	if c == ColumnNone {
		return d
	}

	if d.Column != c {
		return Directive{Column: c, Direction: Ascending}
	}

	switch d.Direction {
	case Ascending:
		return Directive{Column: c, Direction: Descending}
	case Descending:
		if mode == CycleTwoWay {
			return Directive{Column: c, Direction: Ascending}
		}
		return Unsorted
	default:
		return Directive{Column: c, Direction: Ascending}
	}
}

// Indicator returns the header marker for column c: an arrow when c is the
// active column, otherwise the empty string.
func (d Directive) Indicator(c Column) string {
	if d.Column != c {
		return ""
	}
	switch d.Direction {
	case Ascending:
		return "▲"
	case Descending:
		return "▼"
	default:
		return ""
	}
}

func (d Directive) String() string {
	if !d.IsSorted() {
		return "unsorted"
	}
	return d.Column.String() + " " + d.Direction.String()
}
