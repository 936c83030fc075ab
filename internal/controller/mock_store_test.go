package controller

import (
	"context"
	"slices"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/store"
	"github.com/shopspring/decimal"
)

// mockStore is an in-memory remote store with injectable failures.
type mockStore struct {
	listErr     error
	createErr   error
	deleteErr   error
	listHook    func(call int)
	records     []model.Expense
	created     []model.NewExpense
	deleted     []int64
	nextID      int64
	listCalls   int
	createCalls int
	deleteCalls int
	mu          sync.Mutex
}

func newMockStore(records ...model.Expense) *mockStore {
	var maxID int64
	for _, r := range records {
		maxID = max(maxID, r.ID)
	}
	return &mockStore{records: records, nextID: maxID + 1}
}

func (m *mockStore) List(_ context.Context) ([]model.Expense, error) {
	m.mu.Lock()
	m.listCalls++
	call := m.listCalls
	hook := m.listHook
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.records), nil
}

func (m *mockStore) Create(_ context.Context, draft model.NewExpense) (store.CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return store.CreateResult{}, m.createErr
	}

	m.created = append(m.created, draft)
	id := m.nextID
	m.nextID++
	// Newest first, like the server's ORDER BY expense_id DESC.
	m.records = append([]model.Expense{{
		ID:       id,
		Category: draft.Category,
		Amount:   decimal.RequireFromString(draft.Amount),
	}}, m.records...)

	return store.CreateResult{ID: id, Message: "Expense added successfully"}, nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}

	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(e model.Expense) bool { return e.ID == id })
	if len(m.records) == before {
		return &common.ServerError{Op: "delete expense", StatusCode: 404, Message: "Expense not found"}
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockStore) setRecords(records ...model.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

func (m *mockStore) calls() (list, create, del int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.createCalls, m.deleteCalls
}
