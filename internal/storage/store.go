// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/budgetlink/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a budget, expense or other record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when a record with the same key already exists.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for budget storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	BudgetStore
	ExpenseStore
	ActivityStore

	// Close releases any resources held by the store.
	Close() error
}

// BudgetStore persists budget metadata and participant lists.
type BudgetStore interface {
	// CreateBudget persists a new budget. Returns ErrConflict if the slug is taken.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves a budget with its participants and category budgets.
	GetBudget(ctx context.Context, slug string) (*models.Budget, error)

	// UpdateBudget replaces the budget's mutable fields, including category budgets.
	// Participants are left untouched; use SetParticipants.
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	// DeleteBudget removes the budget and everything attached to it,
	// returning the number of records removed.
	DeleteBudget(ctx context.Context, slug string) (int, error)

	// SetParticipants replaces the ordered participant list.
	SetParticipants(ctx context.Context, slug string, participants []string) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense persists a new expense. The ID is generated if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, slug, expenseID string) (*models.Expense, error)

	// ListExpenses returns the budget's expenses, oldest first.
	ListExpenses(ctx context.Context, slug string) ([]*models.Expense, error)

	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, slug, expenseID string) error
}

// ActivityStore persists recorded payments and the activity log.
type ActivityStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns payments oldest first.
	ListPayments(ctx context.Context, slug string) ([]*models.Payment, error)

	AppendEvent(ctx context.Context, event *models.Event) error

	// ListEvents returns up to limit events, newest first. limit <= 0 means all.
	ListEvents(ctx context.Context, slug string, limit int) ([]*models.Event, error)
}
