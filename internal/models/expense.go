package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when an expense is logged without one.
const DefaultCategory = "Uncategorized"

// Recurring frequencies accepted for recurring expenses.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Expense represents a cost logged against a budget.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// BudgetSlug is the budget this expense belongs to.
	BudgetSlug string

	Description string
	Amount      decimal.Decimal
	Category    string

	// Date is when the expense happened, as opposed to when it was logged.
	Date time.Time

	// PaidBy is the participant who paid. It may name someone who has since
	// been removed from the budget; settlement then skips crediting them.
	PaidBy string

	// SplitBetween is how many ways the amount is divided.
	SplitBetween int

	IsRecurring        bool
	RecurringFrequency string

	CreatedAt time.Time
	UpdatedAt time.Time
}
