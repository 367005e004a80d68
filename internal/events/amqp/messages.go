package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetlink/internal/models"
)

// EventMessage is the wire form of an activity-log entry.
type EventMessage struct {
	ID          string           `json:"id"`
	BudgetSlug  string           `json:"budgetSlug"`
	Type        string           `json:"type"`
	User        string           `json:"user,omitempty"`
	Description string           `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewEventMessage converts a stored event into a message.
func NewEventMessage(e *models.Event) *EventMessage {
	return &EventMessage{
		ID:          e.ID,
		BudgetSlug:  e.BudgetSlug,
		Type:        string(e.Type),
		User:        e.User,
		Description: e.Description,
		Amount:      e.Amount,
		Timestamp:   e.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON creates a message from JSON bytes
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
