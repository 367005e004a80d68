// Package events records budget activity and fans it out to subscribers.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/models"
	"github.com/mmynk/budgetlink/internal/storage"
)

// Publisher delivers recorded events to something outside the process.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event) error
	Close() error
}

// Noop is a Publisher that drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, *models.Event) error { return nil }
func (Noop) Close() error                                  { return nil }

// Recorder appends events to the activity log and then publishes them.
type Recorder struct {
	store     storage.ActivityStore
	publisher Publisher
	now       func() time.Time
}

// NewRecorder creates a Recorder. A nil publisher means Noop.
func NewRecorder(store storage.ActivityStore, publisher Publisher) *Recorder {
	if publisher == nil {
		publisher = Noop{}
	}
	return &Recorder{store: store, publisher: publisher, now: time.Now}
}

// Record persists the event. Publish failures are logged and not returned.
func (r *Recorder) Record(ctx context.Context, event *models.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now().UTC()
	}
	if err := r.store.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("record %s event: %w", event.Type, err)
	}

	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"budget", event.BudgetSlug,
			"type", event.Type,
			"error", err,
		)
	}
	return nil
}

// Settlement builds the audit entry for a transfer marked paid.
func Settlement(slug, from, to string, amount decimal.Decimal) *models.Event {
	return &models.Event{
		BudgetSlug:  slug,
		Type:        models.EventSettlement,
		User:        from,
		Description: "paid " + to,
		Amount:      &amount,
	}
}

// New builds an event without an amount.
func New(slug string, typ models.EventType, user, description string) *models.Event {
	return &models.Event{
		BudgetSlug:  slug,
		Type:        typ,
		User:        user,
		Description: description,
	}
}
