package calculator

import "github.com/shopspring/decimal"

// LineItem is a categorized amount counted against a budget.
type LineItem struct {
	Category string
	Amount   decimal.Decimal
}

// Summary aggregates spending against a budget total.
type Summary struct {
	TotalBudget    decimal.Decimal
	TotalExpenses  decimal.Decimal
	Remaining      decimal.Decimal // negative when over budget
	CategoryTotals map[string]decimal.Decimal
}

// Summarize totals items per category and against the budget.
// Items with an empty category count toward the total only.
func Summarize(totalBudget decimal.Decimal, items []LineItem) Summary {
	s := Summary{
		TotalBudget:    totalBudget,
		TotalExpenses:  decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
	}
	for _, item := range items {
		s.TotalExpenses = s.TotalExpenses.Add(item.Amount)
		if item.Category != "" {
			s.CategoryTotals[item.Category] = s.CategoryTotals[item.Category].Add(item.Amount)
		}
	}
	s.Remaining = totalBudget.Sub(s.TotalExpenses)
	return s
}
