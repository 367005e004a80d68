package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
	"github.com/mmynk/budgetlink/internal/validation"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
	"github.com/mmynk/budgetlink/pkg/api/budgetv1/budgetv1connect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	access
	events *events.Recorder
	now    func() time.Time
}

var _ budgetv1connect.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, guard auth.Guard, recorder *events.Recorder) *ExpenseService {
	return &ExpenseService{
		access: access{store: store, guard: guard},
		events: recorder,
		now:    time.Now,
	}
}

// validatePayer checks if the payer is one of the participants.
func validatePayer(paidBy string, participants []string) error {
	if paidBy == "" {
		return nil // Optional field
	}
	for _, p := range participants {
		if p == paidBy {
			return nil
		}
	}
	return invalid(fmt.Sprintf("paidBy '%s' must be one of the participants", paidBy))
}

// defaultSplit is what an omitted split count means: everyone currently in the budget.
func defaultSplit(participants []string) int {
	if len(participants) == 0 {
		return 1
	}
	return len(participants)
}

// CreateExpense logs an expense against a budget.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[budgetv1.CreateExpenseRequest]) (*connect.Response[budgetv1.CreateExpenseResponse], error) {
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"slug", msg.Slug,
		"description", msg.Description,
		"amount", msg.Amount,
		"paid_by", msg.PaidBy,
	)

	budget, err := s.budget(ctx, msg.Slug, msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	input := validation.ExpenseInput{
		Description:        msg.Description,
		Amount:             msg.Amount,
		Category:           msg.Category,
		Date:               msg.Date,
		SplitBetween:       msg.SplitBetween,
		IsRecurring:        msg.IsRecurring,
		RecurringFrequency: msg.RecurringFrequency,
	}
	if err := validation.Expense(input); err != nil {
		slog.Warn("CreateExpense rejected", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}
	if err := validatePayer(msg.PaidBy, budget.Participants); err != nil {
		return nil, connectError(err)
	}

	expense := &models.Expense{BudgetSlug: budget.Slug, PaidBy: msg.PaidBy}
	if err := s.apply(expense, input, budget.Participants); err != nil {
		return nil, connectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventExpenseAdd, expense.PaidBy,
		fmt.Sprintf("added '%s' (%s)", expense.Description, expense.Amount.StringFixed(2))))

	slog.Info("Expense created", "slug", budget.Slug, "expense_id", expense.ID)

	return connect.NewResponse(&budgetv1.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// apply copies validated input onto the expense, filling defaults.
func (s *ExpenseService) apply(expense *models.Expense, in validation.ExpenseInput, participants []string) error {
	expense.Description = strings.TrimSpace(in.Description)
	expense.Amount = in.Amount
	expense.Category = strings.TrimSpace(in.Category)
	if expense.Category == "" {
		expense.Category = models.DefaultCategory
	}

	expense.Date = s.now().UTC().Truncate(24 * time.Hour)
	if in.Date != "" {
		date, err := validation.ParseDate(in.Date)
		if err != nil {
			return invalid(err.Error())
		}
		expense.Date = date
	}

	expense.SplitBetween = in.SplitBetween
	if expense.SplitBetween == 0 {
		expense.SplitBetween = defaultSplit(participants)
	}

	expense.IsRecurring = in.IsRecurring
	expense.RecurringFrequency = ""
	if in.IsRecurring {
		expense.RecurringFrequency = in.RecurringFrequency
		if expense.RecurringFrequency == "" {
			expense.RecurringFrequency = models.FrequencyMonthly
		}
	}
	return nil
}

// GetExpense retrieves a single expense.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[budgetv1.GetExpenseRequest]) (*connect.Response[budgetv1.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "slug", req.Msg.Slug, "expense_id", req.Msg.ExpenseID)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	expense, err := s.store.GetExpense(ctx, budget.Slug, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "slug", budget.Slug, "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&budgetv1.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a budget's expenses in the order they were logged.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[budgetv1.ListExpensesRequest]) (*connect.Response[budgetv1.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "slug", req.Msg.Slug)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, budget.Slug)
	if err != nil {
		slog.Error("ListExpenses failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	slog.Info("ListExpenses successful", "slug", budget.Slug, "count", len(expenses))

	return connect.NewResponse(&budgetv1.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// UpdateExpense applies the fields present in the request.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[budgetv1.UpdateExpenseRequest]) (*connect.Response[budgetv1.UpdateExpenseResponse], error) {
	msg := req.Msg
	slog.Info("UpdateExpense request received", "slug", msg.Slug, "expense_id", msg.ExpenseID)

	budget, err := s.budget(ctx, msg.Slug, msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	expense, err := s.store.GetExpense(ctx, budget.Slug, msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}

	// Start from the stored values and overlay what the request sets.
	input := validation.ExpenseInput{
		Description:        expense.Description,
		Amount:             expense.Amount,
		Category:           expense.Category,
		Date:               expense.Date.Format(time.RFC3339),
		SplitBetween:       expense.SplitBetween,
		IsRecurring:        expense.IsRecurring,
		RecurringFrequency: expense.RecurringFrequency,
	}
	if msg.Description != nil {
		input.Description = *msg.Description
	}
	if msg.Amount != nil {
		input.Amount = *msg.Amount
	}
	if msg.Category != nil {
		input.Category = *msg.Category
	}
	if msg.Date != nil {
		input.Date = *msg.Date
	}
	if msg.SplitBetween != nil {
		input.SplitBetween = *msg.SplitBetween
	}
	if msg.IsRecurring != nil {
		input.IsRecurring = *msg.IsRecurring
	}
	if msg.RecurringFrequency != nil {
		input.RecurringFrequency = *msg.RecurringFrequency
	}

	if err := validation.Expense(input); err != nil {
		return nil, connectError(err)
	}
	if msg.PaidBy != nil {
		if err := validatePayer(*msg.PaidBy, budget.Participants); err != nil {
			return nil, connectError(err)
		}
		expense.PaidBy = *msg.PaidBy
	}
	if err := s.apply(expense, input, budget.Participants); err != nil {
		return nil, connectError(err)
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "slug", budget.Slug, "expense_id", expense.ID, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventExpenseUpdate, expense.PaidBy,
		fmt.Sprintf("updated '%s'", expense.Description)))

	slog.Info("Expense updated", "slug", budget.Slug, "expense_id", expense.ID)

	return connect.NewResponse(&budgetv1.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[budgetv1.DeleteExpenseRequest]) (*connect.Response[budgetv1.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "slug", req.Msg.Slug, "expense_id", req.Msg.ExpenseID)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	expense, err := s.store.GetExpense(ctx, budget.Slug, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.DeleteExpense(ctx, budget.Slug, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "slug", budget.Slug, "expense_id", expense.ID, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventExpenseDelete, expense.PaidBy,
		fmt.Sprintf("deleted '%s'", expense.Description)))

	return connect.NewResponse(&budgetv1.DeleteExpenseResponse{}), nil
}
