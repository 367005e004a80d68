package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies activity-log entries.
type EventType string

const (
	EventBudgetCreate      EventType = "BUDGET_CREATE"
	EventBudgetUpdate      EventType = "BUDGET_UPDATE"
	EventParticipantAdd    EventType = "PARTICIPANT_ADD"
	EventParticipantRemove EventType = "PARTICIPANT_REMOVE"
	EventExpenseAdd        EventType = "EXPENSE_ADD"
	EventExpenseUpdate     EventType = "EXPENSE_UPDATE"
	EventExpenseDelete     EventType = "EXPENSE_DELETE"
	EventSettlement        EventType = "SETTLEMENT"
)

// Event is one entry in a budget's activity log.
type Event struct {
	ID         string
	BudgetSlug string
	Type       EventType

	// User is the participant the entry is about, e.g. the payer of a settlement.
	User string

	// Description reads after the user name: "paid Alice", "added 'Groceries'".
	Description string

	// Amount is set for money-carrying events only.
	Amount *decimal.Decimal

	Timestamp time.Time
}
