package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/calculator"
)

func ptr[T any](v T) *T { return &v }

func TestBudget(t *testing.T) {
	tests := []struct {
		name     string
		in       BudgetInput
		problems int
	}{
		{"valid", BudgetInput{Name: "Home", TotalBudget: decimal.NewFromInt(500)}, 0},
		{"valid with password", BudgetInput{Name: "Home", TotalBudget: decimal.NewFromInt(500), Password: "secret1"}, 0},
		{"missing name", BudgetInput{Name: "  ", TotalBudget: decimal.NewFromInt(500)}, 1},
		{"name too long", BudgetInput{Name: strings.Repeat("n", 101), TotalBudget: decimal.NewFromInt(500)}, 1},
		{"zero total", BudgetInput{Name: "Home"}, 1},
		{"total too large", BudgetInput{Name: "Home", TotalBudget: decimal.NewFromInt(1_000_000_000)}, 1},
		{"description too long", BudgetInput{Name: "Home", TotalBudget: decimal.NewFromInt(1), Description: strings.Repeat("d", 501)}, 1},
		{"weak password", BudgetInput{Name: "Home", TotalBudget: decimal.NewFromInt(1), Password: "abc"}, 1},
		{"everything wrong", BudgetInput{TotalBudget: decimal.NewFromInt(-1), Password: "abc"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Budget(tt.in)
			if tt.problems == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if len(verr.Problems) != tt.problems {
				t.Errorf("got %d problems %v, want %d", len(verr.Problems), verr.Problems, tt.problems)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("expected error to match ErrInvalidInput")
			}
			if errors.Is(err, calculator.ErrInvalidExpense) {
				t.Error("budget errors must not match ErrInvalidExpense")
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		in      BudgetUpdate
		wantErr bool
	}{
		{"no fields", BudgetUpdate{}, true},
		{"rename", BudgetUpdate{Name: ptr("New")}, false},
		{"empty name", BudgetUpdate{Name: ptr("")}, true},
		{"remove password", BudgetUpdate{NewPassword: ptr("")}, false},
		{"weak new password", BudgetUpdate{NewPassword: ptr("abc")}, true},
		{"negative total", BudgetUpdate{TotalBudget: ptr(decimal.NewFromInt(-5))}, true},
		{"category budgets", BudgetUpdate{CategoryBudgets: map[string]decimal.Decimal{"Food": decimal.Zero}}, false},
		{"empty category", BudgetUpdate{CategoryBudgets: map[string]decimal.Decimal{"": decimal.NewFromInt(1)}}, true},
		{"negative category", BudgetUpdate{CategoryBudgets: map[string]decimal.Decimal{"Food": decimal.NewFromInt(-1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Update(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpense(t *testing.T) {
	valid := ExpenseInput{Description: "Groceries", Amount: decimal.RequireFromString("42.10"), Category: "Food", Date: "2024-03-15"}

	tests := []struct {
		name    string
		mutate  func(*ExpenseInput)
		wantErr bool
	}{
		{"valid", func(*ExpenseInput) {}, false},
		{"rfc3339 date", func(in *ExpenseInput) { in.Date = "2024-03-15T10:00:00Z" }, false},
		{"bad date", func(in *ExpenseInput) { in.Date = "15/03/2024" }, true},
		{"missing description", func(in *ExpenseInput) { in.Description = "" }, true},
		{"description too long", func(in *ExpenseInput) { in.Description = strings.Repeat("x", 201) }, true},
		{"zero amount", func(in *ExpenseInput) { in.Amount = decimal.Zero }, true},
		{"negative amount", func(in *ExpenseInput) { in.Amount = decimal.NewFromInt(-3) }, true},
		{"category too long", func(in *ExpenseInput) { in.Category = strings.Repeat("c", 51) }, true},
		{"negative split", func(in *ExpenseInput) { in.SplitBetween = -1 }, true},
		{"monthly", func(in *ExpenseInput) { in.IsRecurring, in.RecurringFrequency = true, "monthly" }, false},
		{"bad frequency", func(in *ExpenseInput) { in.RecurringFrequency = "hourly" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Expense(in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expense() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, calculator.ErrInvalidExpense) {
				t.Error("expected expense error to match calculator.ErrInvalidExpense")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}

	got, err = ParseDate("2024-03-15T12:30:00+02:00")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got.Hour() != 10 || got.Location() != time.UTC {
		t.Errorf("expected UTC normalization, got %v", got)
	}
}

func TestParticipantName(t *testing.T) {
	name, err := ParticipantName("  Dana ", []string{"Alice"})
	if err != nil || name != "Dana" {
		t.Errorf("ParticipantName() = %q, %v", name, err)
	}
	if _, err := ParticipantName("Alice", []string{"Alice"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected duplicate to fail, got %v", err)
	}
	if _, err := ParticipantName("   ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected blank to fail, got %v", err)
	}
}
