package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidExpense is returned when an expense cannot be admitted:
	// non-positive amount or a split count below one.
	ErrInvalidExpense = errors.New("invalid expense")

	// ErrInvalidPayment is returned for a recorded payment with a non-positive amount.
	ErrInvalidPayment = errors.New("invalid payment")

	// ErrUnknownPayer marks an expense or payment naming someone who is not a current participant.
	ErrUnknownPayer = errors.New("unknown payer")

	// ErrDuplicateParticipant is returned when two participants share a name.
	ErrDuplicateParticipant = errors.New("duplicate participant")
)

// Expense is the part of a stored expense the settlement engine needs.
type Expense struct {
	ID           string
	Description  string
	PaidBy       string
	Amount       decimal.Decimal
	SplitBetween int
}

// Validate checks that the expense can be divided safely.
func (e Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero, got %s", ErrInvalidExpense, e.Amount)
	}
	if e.SplitBetween < 1 {
		return fmt.Errorf("%w: split_between must be at least 1, got %d", ErrInvalidExpense, e.SplitBetween)
	}
	return nil
}

// Share is what each sharer owes: amount / split_between.
func (e Expense) Share() decimal.Decimal {
	return e.Amount.Div(decimal.NewFromInt(int64(e.SplitBetween)))
}

// Payment is a transfer that has already been marked paid.
type Payment struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SplitPolicy decides which participants are debited an expense's share.
type SplitPolicy int

const (
	// SplitAcrossAll debits the share from every current participant,
	// regardless of split_between. This matches how budgets have always been settled.
	SplitAcrossAll SplitPolicy = iota

	// SplitFirstN debits the share from the first split_between participants
	// in participant order.
	SplitFirstN
)

// String returns the config spelling of the policy.
func (p SplitPolicy) String() string {
	switch p {
	case SplitFirstN:
		return "first_n"
	default:
		return "all"
	}
}

// ParseSplitPolicy parses "all" or "first_n" (case-insensitive). Empty means "all".
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SplitAcrossAll, nil
	case "first_n", "first-n":
		return SplitFirstN, nil
	default:
		return SplitAcrossAll, fmt.Errorf("unknown split policy %q: must be one of [all first_n]", s)
	}
}

// sharers returns how many leading participants are debited for an expense.
func (p SplitPolicy) sharers(participants, splitBetween int) int {
	if p == SplitFirstN && splitBetween < participants {
		return splitBetween
	}
	return participants
}
