package budgetv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the public view of a budget. It never carries the password hash.
type Budget struct {
	Slug            string                     `json:"slug"`
	Name            string                     `json:"name"`
	Description     string                     `json:"description,omitempty"`
	TotalBudget     decimal.Decimal            `json:"totalBudget"`
	HasPassword     bool                       `json:"hasPassword"`
	CategoryBudgets map[string]decimal.Decimal `json:"categoryBudgets,omitempty"`
	Participants    []string                   `json:"participants"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

// Summary totals a budget's spending.
type Summary struct {
	TotalBudget     decimal.Decimal            `json:"totalBudget"`
	TotalExpenses   decimal.Decimal            `json:"totalExpenses"`
	RemainingBudget decimal.Decimal            `json:"remainingBudget"`
	CategoryTotals  map[string]decimal.Decimal `json:"categoryTotals"`
}

type CreateBudgetRequest struct {
	Name            string                     `json:"name"`
	Description     string                     `json:"description,omitempty"`
	TotalBudget     decimal.Decimal            `json:"totalBudget"`
	Password        string                     `json:"password,omitempty"`
	Participants    []string                   `json:"participants,omitempty"`
	CategoryBudgets map[string]decimal.Decimal `json:"categoryBudgets,omitempty"`
}

type CreateBudgetResponse struct {
	Budget   *Budget `json:"budget"`
	ShareURL string  `json:"shareUrl"`
}

type GetBudgetRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
}

type GetBudgetResponse struct {
	Budget   *Budget    `json:"budget"`
	Summary  *Summary   `json:"summary"`
	Expenses []*Expense `json:"expenses"`
}

// UpdateBudgetRequest changes only the fields that are set.
// NewPassword set to "" removes password protection.
type UpdateBudgetRequest struct {
	Slug            string                     `json:"slug"`
	CurrentPassword string                     `json:"currentPassword,omitempty"`
	Name            *string                    `json:"name,omitempty"`
	Description     *string                    `json:"description,omitempty"`
	TotalBudget     *decimal.Decimal           `json:"totalBudget,omitempty"`
	NewPassword     *string                    `json:"newPassword,omitempty"`
	CategoryBudgets map[string]decimal.Decimal `json:"categoryBudgets,omitempty"`
}

type UpdateBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type DeleteBudgetRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
}

type DeleteBudgetResponse struct {
	DeletedItems int `json:"deletedItems"`
}

type UnlockBudgetRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password"`
}

type UnlockBudgetResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AddParticipantRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
}

type AddParticipantResponse struct {
	Participants []string `json:"participants"`
}

type RemoveParticipantRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
}

type RemoveParticipantResponse struct {
	Participants []string `json:"participants"`
}
