package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidExpense    = errors.New("invalid expense")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpense checks a row before it is written.
func validateExpense(category string, amount decimal.Decimal) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidExpense)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidExpense, amount)
	}
	return nil
}
