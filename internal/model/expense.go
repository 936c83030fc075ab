package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount validation errors.
var (
	ErrEmptyCategory  = errors.New("category is required")
	ErrEmptyAmount    = errors.New("amount is required")
	ErrInvalidAmount  = errors.New("amount must be a number")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Expense is a single record of the remote expense collection.
// The ID is assigned by the remote store and never changes.
type Expense struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	ID       int64           `json:"expense_id"`
}

// FormattedAmount renders the amount with a currency sign and two decimals.
func (e Expense) FormattedAmount() string {
	return FormatAmount(e.Amount)
}

// FormatAmount renders an amount the way the expense table shows it.
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// NewExpense is the payload submitted to create an expense. Amount is
// carried as the raw text the user entered.
type NewExpense struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// Validate checks the draft the way the remote store does: both fields
// present, amount a non-negative decimal.
func (n NewExpense) Validate() error {
	if strings.TrimSpace(n.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseAmount(n.Amount); err != nil {
		return err
	}
	return nil
}

// ParseAmount parses amount text into a decimal. A decimal comma is accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}
