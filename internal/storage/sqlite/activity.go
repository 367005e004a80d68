package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/models"
)

// CreatePayment records a settlement transfer as paid.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = s.now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, payment.BudgetSlug)
	if err != nil {
		return err
	}
	if !found {
		return notFound("budget", payment.BudgetSlug)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, budget_slug, from_name, to_name, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.BudgetSlug, payment.From, payment.To, payment.Amount, toUnix(payment.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListPayments returns a budget's payments, oldest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, slug string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, budget_slug, from_name, to_name, amount, created_at
		 FROM payments WHERE budget_slug = ? ORDER BY created_at, rowid`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.BudgetSlug, &p.From, &p.To, &p.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.CreatedAt = fromUnix(createdAt)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// AppendEvent adds an entry to a budget's activity log.
func (s *SQLiteStore) AppendEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}

	var amount decimal.NullDecimal
	if event.Amount != nil {
		amount = decimal.NullDecimal{Decimal: *event.Amount, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, budget_slug, type, user_name, description, amount, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.BudgetSlug, string(event.Type), event.User, event.Description, amount,
		toUnix(event.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns up to limit events, newest first. limit <= 0 returns all of them.
func (s *SQLiteStore) ListEvents(ctx context.Context, slug string, limit int) ([]*models.Event, error) {
	query := `SELECT id, budget_slug, type, user_name, description, amount, timestamp
		FROM events WHERE budget_slug = ? ORDER BY timestamp DESC, rowid DESC`
	args := []any{slug}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		var eventType string
		var amount decimal.NullDecimal
		var ts int64
		if err := rows.Scan(&e.ID, &e.BudgetSlug, &eventType, &e.User, &e.Description, &amount, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = models.EventType(eventType)
		if amount.Valid {
			a := amount.Decimal
			e.Amount = &a
		}
		e.Timestamp = fromUnix(ts)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
