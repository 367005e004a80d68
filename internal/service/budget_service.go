package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/ids"
	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
	"github.com/mmynk/budgetlink/internal/validation"
	budgetv1 "github.com/mmynk/budgetlink/pkg/api/budgetv1"
	"github.com/mmynk/budgetlink/pkg/api/budgetv1/budgetv1connect"
)

// slugAttempts bounds retries when a generated slug is already taken.
const slugAttempts = 5

// BudgetService implements the Connect BudgetService
type BudgetService struct {
	access
	events      *events.Recorder
	ids         ids.Generator
	frontendURL string
}

var _ budgetv1connect.BudgetServiceHandler = (*BudgetService)(nil)

// NewBudgetService creates a new BudgetService.
// frontendURL is the base of share links, e.g. https://budgetlink.app.
func NewBudgetService(store storage.Store, guard auth.Guard, recorder *events.Recorder, gen ids.Generator, frontendURL string) *BudgetService {
	return &BudgetService{
		access:      access{store: store, guard: guard},
		events:      recorder,
		ids:         gen,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// ShareURL returns the link participants use to open a budget.
func (s *BudgetService) ShareURL(slug string) string {
	return s.frontendURL + "/" + slug
}

// CreateBudget creates a new budget under a freshly generated slug.
func (s *BudgetService) CreateBudget(ctx context.Context, req *connect.Request[budgetv1.CreateBudgetRequest]) (*connect.Response[budgetv1.CreateBudgetResponse], error) {
	msg := req.Msg
	slog.Info("CreateBudget request received",
		"name", msg.Name,
		"participants_count", len(msg.Participants),
		"protected", msg.Password != "",
	)

	if err := validation.Budget(validation.BudgetInput{
		Name:        msg.Name,
		Description: msg.Description,
		TotalBudget: msg.TotalBudget,
		Password:    msg.Password,
	}); err != nil {
		return nil, connectError(err)
	}
	if msg.CategoryBudgets != nil {
		if err := validation.Update(validation.BudgetUpdate{CategoryBudgets: msg.CategoryBudgets}); err != nil {
			return nil, connectError(err)
		}
	}

	participants := make([]string, 0, len(msg.Participants))
	for _, p := range msg.Participants {
		name, err := validation.ParticipantName(p, participants)
		if err != nil {
			return nil, connectError(err)
		}
		participants = append(participants, name)
	}

	budget := &models.Budget{
		Name:            strings.TrimSpace(msg.Name),
		Description:     msg.Description,
		TotalBudget:     msg.TotalBudget,
		CategoryBudgets: msg.CategoryBudgets,
		Participants:    participants,
	}
	if msg.Password != "" {
		hash, err := s.guard.HashPassword(msg.Password)
		if err != nil {
			return nil, connectError(err)
		}
		budget.PasswordHash = hash
	}

	if err := s.createWithUniqueSlug(ctx, budget); err != nil {
		slog.Error("CreateBudget failed", "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventBudgetCreate, "", fmt.Sprintf("created budget '%s'", budget.Name)))
	for _, p := range participants {
		record(ctx, s.events, events.New(budget.Slug, models.EventParticipantAdd, p, "joined the budget"))
	}

	slog.Info("Budget created", "slug", budget.Slug)

	return connect.NewResponse(&budgetv1.CreateBudgetResponse{
		Budget:   toAPIBudget(budget),
		ShareURL: s.ShareURL(budget.Slug),
	}), nil
}

func (s *BudgetService) createWithUniqueSlug(ctx context.Context, budget *models.Budget) error {
	for attempt := 1; attempt <= slugAttempts; attempt++ {
		budget.Slug = s.ids.Slug()
		err := s.store.CreateBudget(ctx, budget)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return err
		}
		slog.Warn("Slug collision, retrying", "slug", budget.Slug, "attempt", attempt)
	}
	return fmt.Errorf("could not generate a unique slug after %d attempts: %w", slugAttempts, storage.ErrConflict)
}

// GetBudget returns a budget with its spending summary and expenses.
func (s *BudgetService) GetBudget(ctx context.Context, req *connect.Request[budgetv1.GetBudgetRequest]) (*connect.Response[budgetv1.GetBudgetResponse], error) {
	slog.Info("GetBudget request received", "slug", req.Msg.Slug)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		slog.Warn("GetBudget denied", "slug", req.Msg.Slug, "error", err)
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, budget.Slug)
	if err != nil {
		slog.Error("GetBudget failed to list expenses", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	items := make([]calculator.LineItem, len(expenses))
	for i, e := range expenses {
		items[i] = calculator.LineItem{Category: e.Category, Amount: e.Amount}
	}
	summary := calculator.Summarize(budget.TotalBudget, items)

	slog.Info("GetBudget successful", "slug", budget.Slug, "expenses_count", len(expenses))

	return connect.NewResponse(&budgetv1.GetBudgetResponse{
		Budget: toAPIBudget(budget),
		Summary: &budgetv1.Summary{
			TotalBudget:     summary.TotalBudget,
			TotalExpenses:   summary.TotalExpenses,
			RemainingBudget: summary.Remaining,
			CategoryTotals:  summary.CategoryTotals,
		},
		Expenses: toAPIExpenses(expenses),
	}), nil
}

// UpdateBudget applies the fields present in the request.
func (s *BudgetService) UpdateBudget(ctx context.Context, req *connect.Request[budgetv1.UpdateBudgetRequest]) (*connect.Response[budgetv1.UpdateBudgetResponse], error) {
	msg := req.Msg
	slog.Info("UpdateBudget request received", "slug", msg.Slug)

	budget, err := s.budget(ctx, msg.Slug, msg.CurrentPassword)
	if err != nil {
		return nil, connectError(err)
	}

	if err := validation.Update(validation.BudgetUpdate{
		Name:            msg.Name,
		Description:     msg.Description,
		TotalBudget:     msg.TotalBudget,
		NewPassword:     msg.NewPassword,
		CategoryBudgets: msg.CategoryBudgets,
	}); err != nil {
		return nil, connectError(err)
	}

	if msg.Name != nil {
		budget.Name = strings.TrimSpace(*msg.Name)
	}
	if msg.Description != nil {
		budget.Description = *msg.Description
	}
	if msg.TotalBudget != nil {
		budget.TotalBudget = *msg.TotalBudget
	}
	if msg.CategoryBudgets != nil {
		budget.CategoryBudgets = msg.CategoryBudgets
	}
	if msg.NewPassword != nil {
		if *msg.NewPassword == "" {
			budget.PasswordHash = ""
		} else {
			hash, err := s.guard.HashPassword(*msg.NewPassword)
			if err != nil {
				return nil, connectError(err)
			}
			budget.PasswordHash = hash
		}
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		slog.Error("UpdateBudget failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventBudgetUpdate, "", "updated the budget"))

	slog.Info("Budget updated", "slug", budget.Slug)

	return connect.NewResponse(&budgetv1.UpdateBudgetResponse{
		Budget: toAPIBudget(budget),
	}), nil
}

// DeleteBudget removes a budget and everything recorded against it.
func (s *BudgetService) DeleteBudget(ctx context.Context, req *connect.Request[budgetv1.DeleteBudgetRequest]) (*connect.Response[budgetv1.DeleteBudgetResponse], error) {
	slog.Info("DeleteBudget request received", "slug", req.Msg.Slug)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	deleted, err := s.store.DeleteBudget(ctx, budget.Slug)
	if err != nil {
		slog.Error("DeleteBudget failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Budget deleted", "slug", budget.Slug, "deleted_items", deleted)

	return connect.NewResponse(&budgetv1.DeleteBudgetResponse{DeletedItems: deleted}), nil
}

// UnlockBudget exchanges a password for an access token scoped to the budget.
func (s *BudgetService) UnlockBudget(ctx context.Context, req *connect.Request[budgetv1.UnlockBudgetRequest]) (*connect.Response[budgetv1.UnlockBudgetResponse], error) {
	slog.Info("UnlockBudget request received", "slug", req.Msg.Slug)

	if req.Msg.Slug == "" {
		return nil, connectError(invalid("Budget slug is required"))
	}
	budget, err := s.store.GetBudget(ctx, req.Msg.Slug)
	if err != nil {
		return nil, connectError(err)
	}

	token, expiresAt, err := s.guard.Unlock(ctx, budget, req.Msg.Password)
	if err != nil {
		slog.Warn("UnlockBudget denied", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&budgetv1.UnlockBudgetResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}), nil
}

// AddParticipant appends a participant to the budget.
func (s *BudgetService) AddParticipant(ctx context.Context, req *connect.Request[budgetv1.AddParticipantRequest]) (*connect.Response[budgetv1.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "slug", req.Msg.Slug, "name", req.Msg.Name)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	name, err := validation.ParticipantName(req.Msg.Name, budget.Participants)
	if err != nil {
		return nil, connectError(err)
	}

	participants := append(append([]string{}, budget.Participants...), name)
	if err := s.store.SetParticipants(ctx, budget.Slug, participants); err != nil {
		slog.Error("AddParticipant failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventParticipantAdd, name, "joined the budget"))

	return connect.NewResponse(&budgetv1.AddParticipantResponse{Participants: participants}), nil
}

// RemoveParticipant drops a participant. Expenses they paid are kept.
func (s *BudgetService) RemoveParticipant(ctx context.Context, req *connect.Request[budgetv1.RemoveParticipantRequest]) (*connect.Response[budgetv1.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received", "slug", req.Msg.Slug, "name", req.Msg.Name)

	budget, err := s.budget(ctx, req.Msg.Slug, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if !budget.HasParticipant(name) {
		return nil, connectError(fmt.Errorf("participant %w: %s", storage.ErrNotFound, name))
	}

	participants := make([]string, 0, len(budget.Participants)-1)
	for _, p := range budget.Participants {
		if p != name {
			participants = append(participants, p)
		}
	}
	if err := s.store.SetParticipants(ctx, budget.Slug, participants); err != nil {
		slog.Error("RemoveParticipant failed", "slug", budget.Slug, "error", err)
		return nil, connectError(err)
	}

	record(ctx, s.events, events.New(budget.Slug, models.EventParticipantRemove, name, "left the budget"))

	return connect.NewResponse(&budgetv1.RemoveParticipantResponse{Participants: participants}), nil
}
