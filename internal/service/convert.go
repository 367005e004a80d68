package service

import (
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/models"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
)

// displayPlaces is how many decimal places settlement amounts are rounded to.
const displayPlaces = 2

func toAPIBudget(b *models.Budget) *budgetv1.Budget {
	participants := b.Participants
	if participants == nil {
		participants = []string{}
	}
	return &budgetv1.Budget{
		Slug:            b.Slug,
		Name:            b.Name,
		Description:     b.Description,
		TotalBudget:     b.TotalBudget,
		HasPassword:     b.HasPassword(),
		CategoryBudgets: b.CategoryBudgets,
		Participants:    participants,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toAPIExpense(e *models.Expense) *budgetv1.Expense {
	return &budgetv1.Expense{
		ID:                 e.ID,
		BudgetSlug:         e.BudgetSlug,
		Description:        e.Description,
		Amount:             e.Amount,
		Category:           e.Category,
		Date:               e.Date,
		PaidBy:             e.PaidBy,
		SplitBetween:       e.SplitBetween,
		IsRecurring:        e.IsRecurring,
		RecurringFrequency: e.RecurringFrequency,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toAPIExpenses(expenses []*models.Expense) []*budgetv1.Expense {
	out := make([]*budgetv1.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPIPayment(p *models.Payment) *budgetv1.Payment {
	return &budgetv1.Payment{
		ID:        p.ID,
		From:      p.From,
		To:        p.To,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIEvent(e *models.Event) *budgetv1.Event {
	return &budgetv1.Event{
		ID:          e.ID,
		Type:        string(e.Type),
		User:        e.User,
		Description: e.Description,
		Amount:      e.Amount,
		Timestamp:   e.Timestamp,
	}
}

func toAPISettlement(s *calculator.Settlement) *budgetv1.Settlement {
	out := &budgetv1.Settlement{
		Balances:      make([]*budgetv1.MemberBalance, len(s.MemberBalances)),
		Transfers:     make([]*budgetv1.Transfer, len(s.Transfers)),
		TotalExpenses: s.TotalExpenses.Round(displayPlaces),
	}
	for i, m := range s.MemberBalances {
		out.Balances[i] = &budgetv1.MemberBalance{
			Name: m.Name,
			Paid: m.Paid.Round(displayPlaces),
			Owed: m.Owed.Round(displayPlaces),
			Net:  m.Net.Round(displayPlaces),
		}
	}
	for i, t := range s.Transfers {
		out.Transfers[i] = &budgetv1.Transfer{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.Round(displayPlaces),
		}
	}
	for _, w := range s.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}

// settlementInput converts stored records into engine input.
func settlementInput(expenses []*models.Expense, payments []*models.Payment) ([]calculator.Expense, []calculator.Payment) {
	ce := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		ce[i] = calculator.Expense{
			ID:           e.ID,
			Description:  e.Description,
			PaidBy:       e.PaidBy,
			Amount:       e.Amount,
			SplitBetween: e.SplitBetween,
		}
	}
	cp := make([]calculator.Payment, len(payments))
	for i, p := range payments {
		cp[i] = calculator.Payment{From: p.From, To: p.To, Amount: p.Amount}
	}
	return ce, cp
}
