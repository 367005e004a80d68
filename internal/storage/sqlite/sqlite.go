// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// exists reports whether the budget row is present.
func exists(ctx context.Context, q queryer, slug string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM budgets WHERE slug = ?", slug).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check budget existence: %w", err)
	}
	return true, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func notFound(kind, key string) error {
	return fmt.Errorf("%s %w: %s", kind, storage.ErrNotFound, key)
}

// CreateBudget persists a new budget with its participants and category budgets.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	now := s.now().UTC()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = budget.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := exists(ctx, tx, budget.Slug)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("budget %w: %s", storage.ErrConflict, budget.Slug)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO budgets (slug, name, description, total_budget, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		budget.Slug, budget.Name, budget.Description, budget.TotalBudget, budget.PasswordHash,
		toUnix(budget.CreatedAt), toUnix(budget.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	if err := writeParticipants(ctx, tx, budget.Slug, budget.Participants); err != nil {
		return err
	}
	if err := writeCategoryBudgets(ctx, tx, budget.Slug, budget.CategoryBudgets); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBudget retrieves a budget by slug, including participants and category budgets.
func (s *SQLiteStore) GetBudget(ctx context.Context, slug string) (*models.Budget, error) {
	budget := &models.Budget{}
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, name, description, total_budget, password_hash, created_at, updated_at
		 FROM budgets WHERE slug = ?`,
		slug,
	).Scan(&budget.Slug, &budget.Name, &budget.Description, &budget.TotalBudget,
		&budget.PasswordHash, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("budget", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	budget.CreatedAt = fromUnix(createdAt)
	budget.UpdatedAt = fromUnix(updatedAt)

	// Get participants
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM budget_participants WHERE budget_slug = ? ORDER BY position",
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		budget.Participants = append(budget.Participants, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	// Get category budgets
	catRows, err := s.db.QueryContext(ctx,
		"SELECT category, amount FROM category_budgets WHERE budget_slug = ? ORDER BY category",
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get category budgets: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var amount decimal.Decimal
		if err := catRows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category budget: %w", err)
		}
		if budget.CategoryBudgets == nil {
			budget.CategoryBudgets = make(map[string]decimal.Decimal)
		}
		budget.CategoryBudgets[category] = amount
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category budgets: %w", err)
	}

	return budget, nil
}

// UpdateBudget updates an existing budget's metadata and category budgets.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE budgets SET name = ?, description = ?, total_budget = ?, password_hash = ?, updated_at = ?
		 WHERE slug = ?`,
		budget.Name, budget.Description, budget.TotalBudget, budget.PasswordHash,
		toUnix(budget.UpdatedAt), budget.Slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("budget", budget.Slug)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM category_budgets WHERE budget_slug = ?", budget.Slug); err != nil {
		return fmt.Errorf("failed to clear category budgets: %w", err)
	}
	if err := writeCategoryBudgets(ctx, tx, budget.Slug, budget.CategoryBudgets); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBudget removes a budget and, through cascading foreign keys, all of its records.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, slug string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, slug)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, notFound("budget", slug)
	}

	// Count what the cascade will remove: the budget itself plus its expenses,
	// payments and events.
	var children int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM expenses WHERE budget_slug = ?)
		      + (SELECT COUNT(*) FROM payments WHERE budget_slug = ?)
		      + (SELECT COUNT(*) FROM events WHERE budget_slug = ?)`,
		slug, slug, slug,
	).Scan(&children)
	if err != nil {
		return 0, fmt.Errorf("failed to count budget records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM budgets WHERE slug = ?", slug); err != nil {
		return 0, fmt.Errorf("failed to delete budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return children + 1, nil
}

// SetParticipants replaces the budget's participant list, keeping the given order.
func (s *SQLiteStore) SetParticipants(ctx context.Context, slug string, participants []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, slug)
	if err != nil {
		return err
	}
	if !found {
		return notFound("budget", slug)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM budget_participants WHERE budget_slug = ?", slug); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := writeParticipants(ctx, tx, slug, participants); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE budgets SET updated_at = ? WHERE slug = ?", toUnix(s.now().UTC()), slug); err != nil {
		return fmt.Errorf("failed to touch budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeParticipants(ctx context.Context, tx *sql.Tx, slug string, participants []string) error {
	for i, name := range participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO budget_participants (budget_slug, position, name) VALUES (?, ?, ?)",
			slug, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

func writeCategoryBudgets(ctx context.Context, tx *sql.Tx, slug string, categories map[string]decimal.Decimal) error {
	for category, amount := range categories {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO category_budgets (budget_slug, category, amount) VALUES (?, ?, ?)",
			slug, category, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category budget: %w", err)
		}
	}
	return nil
}
