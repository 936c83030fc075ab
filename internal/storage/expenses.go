package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// ListExpenses returns every expense, newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT expense_id, category, amount
		FROM expenses
		ORDER BY expense_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	expenses := []model.Expense{}
	for rows.Next() {
		var (
			e      model.Expense
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %d has unreadable amount %q: %w", e.ID, amount, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense returns one expense, or common.ErrNotFound.
func (s *Store) GetExpense(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		e      model.Expense
		amount string
	)
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT expense_id, category, amount FROM expenses WHERE expense_id = ?`),
		id,
	).Scan(&e.ID, &e.Category, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("expense %d has unreadable amount %q: %w", e.ID, amount, err)
	}
	return &e, nil
}

// CreateExpense inserts an expense and returns its assigned id.
func (s *Store) CreateExpense(ctx context.Context, category string, amount decimal.Decimal) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateExpense(category, amount); err != nil {
		return 0, err
	}

	query := s.dialect.rebind(`INSERT INTO expenses (category, amount) VALUES (?, ?)`)
	value := amount.String()

	if s.dialect.returning {
		var id int64
		if err := s.db.QueryRowContext(ctx, query+" RETURNING expense_id", category, value).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert expense: %w", err)
		}
		return id, nil
	}

	result, err := s.db.ExecContext(ctx, query, category, value)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get expense id: %w", err)
	}
	return id, nil
}

// DeleteExpense removes an expense. It returns common.ErrNotFound when no
// row had that id.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM expenses WHERE expense_id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	return nil
}
