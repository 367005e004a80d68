package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a shareable household budget.
type Budget struct {
	// Slug is the unique, human-readable identifier used in share URLs
	// (e.g., "happy-blue-tiger").
	Slug string

	// Name is the display name of the budget.
	Name string

	// Description is optional free text.
	Description string

	// TotalBudget is the amount the participants plan to spend.
	TotalBudget decimal.Decimal

	// PasswordHash is the bcrypt hash of the budget password, empty when unprotected.
	PasswordHash string

	// CategoryBudgets caps spending per category. Optional.
	CategoryBudgets map[string]decimal.Decimal

	// Participants is the ordered list of people sharing the budget.
	// Order matters: settlement breaks ties by it.
	Participants []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the budget is password protected.
func (b *Budget) HasPassword() bool {
	return b.PasswordHash != ""
}

// HasParticipant reports whether name is a current participant.
func (b *Budget) HasParticipant(name string) bool {
	for _, p := range b.Participants {
		if p == name {
			return true
		}
	}
	return false
}
