package budgetv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementExpense is the subset of an expense the settlement engine reads.
type SettlementExpense struct {
	ID           string          `json:"id,omitempty"`
	Description  string          `json:"description,omitempty"`
	PaidBy       string          `json:"paidBy"`
	Amount       decimal.Decimal `json:"amount"`
	SplitBetween int             `json:"splitBetween"`
}

type MemberBalance struct {
	Name string          `json:"name"`
	Paid decimal.Decimal `json:"paid"`
	Owed decimal.Decimal `json:"owed"`
	Net  decimal.Decimal `json:"net"`
}

type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Settlement amounts are rounded to cents for display.
type Settlement struct {
	Balances      []*MemberBalance `json:"balances"`
	Transfers     []*Transfer      `json:"transfers"`
	Warnings      []string         `json:"warnings,omitempty"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
}

type Payment struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Event struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	User        string           `json:"user,omitempty"`
	Description string           `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// CalculateSettlementRequest runs the engine on ad-hoc input without storing anything.
// Policy is "all" (default) or "first_n".
type CalculateSettlementRequest struct {
	Participants []string             `json:"participants"`
	Expenses     []*SettlementExpense `json:"expenses"`
	Policy       string               `json:"policy,omitempty"`
}

type CalculateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetBudgetSettlementRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
}

type GetBudgetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
	Payments   []*Payment  `json:"payments"`
}

type MarkTransferPaidRequest struct {
	Slug     string          `json:"slug"`
	Password string          `json:"password,omitempty"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
}

type MarkTransferPaidResponse struct {
	Payment *Payment `json:"payment"`
	Event   *Event   `json:"event"`
}

// ListEventsRequest returns newest events first. Limit 0 returns all of them.
type ListEventsRequest struct {
	Slug     string `json:"slug"`
	Password string `json:"password,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}
