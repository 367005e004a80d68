package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/events"
	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
)

// access loads budgets and checks the caller may use them.
type access struct {
	store storage.Store
	guard auth.Guard
}

// budget returns the budget if password, or a token in ctx, grants access.
func (a access) budget(ctx context.Context, slug, password string) (*models.Budget, error) {
	if slug == "" {
		return nil, invalid("Budget slug is required")
	}
	budget, err := a.store.GetBudget(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := a.guard.Authorize(ctx, budget, password); err != nil {
		return nil, err
	}
	return budget, nil
}

// record appends an activity entry. Failures are logged; the request already succeeded.
func record(ctx context.Context, recorder *events.Recorder, event *models.Event) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to record event",
			"budget", event.BudgetSlug,
			"type", event.Type,
			"error", err,
		)
	}
}
