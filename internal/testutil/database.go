// Package testutil provides test utilities shared across packages: a
// migrated throwaway database with optional seed expenses.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

// Seed is an expense inserted before the test starts.
type Seed struct {
	Category string
	Amount   string
}

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.Store
	t       *testing.T
	IDs     []int64
}

// SetupTestDB creates a migrated SQLite database in the test's temp dir and
// inserts seeds in order, so the first seed gets id 1. It is closed when
// the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.Seed{Category: "Food", Amount: "12.50"},
//		testutil.Seed{Category: "Fuel", Amount: "40"},
//	)
func SetupTestDB(t *testing.T, seeds ...Seed) *TestDB {
	t.Helper()

	store, err := storage.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	for _, s := range seeds {
		db.MustCreate(s.Category, s.Amount)
	}
	return db
}

// MustCreate inserts an expense or fails the test.
func (db *TestDB) MustCreate(category, amount string) int64 {
	db.t.Helper()

	d, err := decimal.NewFromString(amount)
	if err != nil {
		db.t.Fatalf("bad seed amount %q: %v", amount, err)
	}
	id, err := db.Storage.CreateExpense(context.Background(), category, d)
	if err != nil {
		db.t.Fatalf("failed to seed expense %q: %v", category, err)
	}
	db.IDs = append(db.IDs, id)
	return id
}

// MustList returns every stored expense or fails the test.
func (db *TestDB) MustList() []model.Expense {
	db.t.Helper()

	expenses, err := db.Storage.ListExpenses(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list expenses: %v", err)
	}
	return expenses
}
