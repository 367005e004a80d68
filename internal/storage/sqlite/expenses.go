package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/budgetlink/internal/models"
)

const expenseColumns = `id, budget_slug, description, amount, category, date, paid_by,
	split_between, is_recurring, recurring_frequency, created_at, updated_at`

// CreateExpense persists a new expense. The ID is generated if empty.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := s.now().UTC()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, expense.BudgetSlug)
	if err != nil {
		return err
	}
	if !found {
		return notFound("budget", expense.BudgetSlug)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.BudgetSlug, expense.Description, expense.Amount, expense.Category,
		toUnix(expense.Date), expense.PaidBy, expense.SplitBetween, expense.IsRecurring,
		expense.RecurringFrequency, toUnix(expense.CreatedAt), toUnix(expense.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense that belongs to the given budget.
func (s *SQLiteStore) GetExpense(ctx context.Context, slug, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE budget_slug = ? AND id = ?`,
		slug, expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns the budget's expenses in the order they were logged.
func (s *SQLiteStore) ListExpenses(ctx context.Context, slug string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE budget_slug = ? ORDER BY created_at, rowid`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces an expense's mutable fields.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = s.now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, category = ?, date = ?, paid_by = ?,
		 split_between = ?, is_recurring = ?, recurring_frequency = ?, updated_at = ?
		 WHERE budget_slug = ? AND id = ?`,
		expense.Description, expense.Amount, expense.Category, toUnix(expense.Date), expense.PaidBy,
		expense.SplitBetween, expense.IsRecurring, expense.RecurringFrequency, toUnix(expense.UpdatedAt),
		expense.BudgetSlug, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("expense", expense.ID)
	}
	return nil
}

// DeleteExpense removes an expense from the given budget.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, slug, expenseID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE budget_slug = ? AND id = ?",
		slug, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("expense", expenseID)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	e := &models.Expense{}
	var date, createdAt, updatedAt int64
	err := row.Scan(&e.ID, &e.BudgetSlug, &e.Description, &e.Amount, &e.Category, &date, &e.PaidBy,
		&e.SplitBetween, &e.IsRecurring, &e.RecurringFrequency, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.Date = fromUnix(date)
	e.CreatedAt = fromUnix(createdAt)
	e.UpdatedAt = fromUnix(updatedAt)
	return e, nil
}
