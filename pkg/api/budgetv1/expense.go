package budgetv1

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID                 string          `json:"id"`
	BudgetSlug         string          `json:"budgetSlug"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Date               time.Time       `json:"date"`
	PaidBy             string          `json:"paidBy"`
	SplitBetween       int             `json:"splitBetween"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency string          `json:"recurringFrequency,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CreateExpenseRequest logs an expense. Date is RFC 3339 or YYYY-MM-DD and
// defaults to today; SplitBetween 0 means every current participant.
type CreateExpenseRequest struct {
	Slug               string          `json:"slug"`
	Password           string          `json:"password,omitempty"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category,omitempty"`
	Date               string          `json:"date,omitempty"`
	PaidBy             string          `json:"paidBy"`
	SplitBetween       int             `json:"splitBetween,omitempty"`
	IsRecurring        bool            `json:"isRecurring,omitempty"`
	RecurringFrequency string          `json:"recurringFrequency,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	Slug      string `json:"slug"`
	Password  string `json:"password,omitempty"`
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// UpdateExpenseRequest changes only the fields that are set.
type UpdateExpenseRequest struct {
	Slug               string           `json:"slug"`
	Password           string           `json:"password,omitempty"`
	ExpenseID          string           `json:"expenseId"`
	Description        *string          `json:"description,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Category           *string          `json:"category,omitempty"`
	Date               *string          `json:"date,omitempty"`
	PaidBy             *string          `json:"paidBy,omitempty"`
	SplitBetween       *int             `json:"splitBetween,omitempty"`
	IsRecurring        *bool            `json:"isRecurring,omitempty"`
	RecurringFrequency *string          `json:"recurringFrequency,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	Slug      string `json:"slug"`
	Password  string `json:"password,omitempty"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}
