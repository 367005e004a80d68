// Package validation checks budget and expense input before it reaches storage.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/models"
)

const (
	MaxNameLength            = 100
	MaxDescriptionLength     = 500
	MaxExpenseDescLength     = 200
	MaxCategoryLength        = 50
	MaxParticipantNameLength = 50
)

// MaxAmount bounds budget totals and expense amounts.
var MaxAmount = decimal.NewFromInt(999_999_999)

// ErrInvalidInput matches every *Error.
var ErrInvalidInput = errors.New("invalid input")

// Error collects every problem found in one input.
type Error struct {
	Problems []string
	expense  bool
}

func (e *Error) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Is lets errors.Is match ErrInvalidInput, and calculator.ErrInvalidExpense for expense input.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidInput || (e.expense && target == calculator.ErrInvalidExpense)
}

type collector struct {
	problems []string
}

func (c *collector) add(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *collector) err(expense bool) error {
	if len(c.problems) == 0 {
		return nil
	}
	return &Error{Problems: c.problems, expense: expense}
}

// BudgetInput is the data needed to create a budget.
type BudgetInput struct {
	Name        string
	Description string
	TotalBudget decimal.Decimal
	Password    string
}

// Budget validates budget creation input.
func Budget(in BudgetInput) error {
	var c collector
	checkName(&c, in.Name, "Budget name is required")
	checkDescription(&c, in.Description)
	checkAmount(&c, in.TotalBudget, "Total budget")
	if in.Password != "" {
		checkPassword(&c, in.Password)
	}
	return c.err(false)
}

// BudgetUpdate carries optional budget changes; nil means unchanged.
type BudgetUpdate struct {
	Name            *string
	Description     *string
	TotalBudget     *decimal.Decimal
	NewPassword     *string // "" removes protection
	CategoryBudgets map[string]decimal.Decimal
}

// Update validates a budget update. At least one field must be set.
func Update(in BudgetUpdate) error {
	var c collector
	if in.Name == nil && in.Description == nil && in.TotalBudget == nil &&
		in.NewPassword == nil && in.CategoryBudgets == nil {
		c.add("At least one field must be provided for update")
	}
	if in.Name != nil {
		checkName(&c, *in.Name, "Budget name cannot be empty")
	}
	if in.Description != nil {
		checkDescription(&c, *in.Description)
	}
	if in.TotalBudget != nil {
		checkAmount(&c, *in.TotalBudget, "Total budget")
	}
	if in.NewPassword != nil && *in.NewPassword != "" {
		checkPassword(&c, *in.NewPassword)
	}
	for category, amount := range in.CategoryBudgets {
		if strings.TrimSpace(category) == "" {
			c.add("Category names must be non-empty strings")
			continue
		}
		if amount.IsNegative() {
			c.add("Category budget for %q must be a non-negative number", category)
		}
	}
	return c.err(false)
}

// ExpenseInput is the data needed to log or replace an expense.
type ExpenseInput struct {
	Description        string
	Amount             decimal.Decimal
	Category           string
	Date               string
	SplitBetween       int
	IsRecurring        bool
	RecurringFrequency string
}

// Expense validates expense input. The returned error also matches calculator.ErrInvalidExpense.
func Expense(in ExpenseInput) error {
	var c collector
	desc := strings.TrimSpace(in.Description)
	switch {
	case desc == "":
		c.add("Expense description is required")
	case utf8.RuneCountInString(in.Description) > MaxExpenseDescLength:
		c.add("Expense description must be less than %d characters", MaxExpenseDescLength)
	}
	checkAmount(&c, in.Amount, "Expense amount")
	if utf8.RuneCountInString(in.Category) > MaxCategoryLength {
		c.add("Category must be a string less than %d characters", MaxCategoryLength)
	}
	if in.Date != "" {
		if _, err := ParseDate(in.Date); err != nil {
			c.add("Invalid date format")
		}
	}
	if in.SplitBetween < 0 {
		c.add("Split count must not be negative")
	}
	if in.RecurringFrequency != "" && !validFrequency(in.RecurringFrequency) {
		c.add("Invalid recurring frequency. Must be: daily, weekly, monthly, or yearly")
	}
	return c.err(true)
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// ParticipantName trims name and checks it is usable and not already taken.
func ParticipantName(name string, existing []string) (string, error) {
	var c collector
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		c.add("Participant name is required")
	case utf8.RuneCountInString(trimmed) > MaxParticipantNameLength:
		c.add("Participant name must be less than %d characters", MaxParticipantNameLength)
	}
	for _, p := range existing {
		if p == trimmed && trimmed != "" {
			c.add("Participant %q already exists", trimmed)
			break
		}
	}
	return trimmed, c.err(false)
}

func checkName(c *collector, name, missing string) {
	switch {
	case strings.TrimSpace(name) == "":
		c.add("%s", missing)
	case utf8.RuneCountInString(name) > MaxNameLength:
		c.add("Budget name must be less than %d characters", MaxNameLength)
	}
}

func checkDescription(c *collector, desc string) {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		c.add("Description must be less than %d characters", MaxDescriptionLength)
	}
}

func checkAmount(c *collector, amount decimal.Decimal, field string) {
	switch {
	case !amount.IsPositive():
		c.add("%s must be greater than 0", field)
	case amount.GreaterThan(MaxAmount):
		c.add("%s is too large", field)
	}
}

func checkPassword(c *collector, password string) {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		c.add("%s", capitalize(err.Error()))
	}
}

func validFrequency(f string) bool {
	switch f {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
		return true
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
