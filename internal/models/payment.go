package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a settlement transfer marked as paid.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// BudgetSlug is the budget this payment settles.
	BudgetSlug string

	// From is the participant who paid (debtor settling up).
	From string

	// To is the participant who received the payment (creditor).
	To string

	Amount decimal.Decimal

	CreatedAt time.Time
}
