package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Event is the envelope delivered to every transport.
type Event struct {
	EventID     uuid.UUID           `json:"event_id"`
	EventType   enums.CartEventType `json:"event_type"`
	CartID      uuid.UUID           `json:"cart_id"`
	ItemID      *uuid.UUID          `json:"item_id,omitempty"`
	UserID      uuid.UUID           `json:"user_id"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewEvent snapshots c for the given event type. itemID is set only for
// item level events.
func NewEvent(eventType enums.CartEventType, c *cart.Cart, itemID *uuid.UUID, occurredAt time.Time) Event {
	return Event{
		EventID:     uuid.New(),
		EventType:   eventType,
		CartID:      c.ID(),
		ItemID:      itemID,
		UserID:      c.UserID(),
		TotalAmount: c.TotalAmount(),
		OccurredAt:  occurredAt.UTC(),
	}
}

func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_id":    e.EventID.String(),
		"event_type":  e.EventType.String(),
		"cart_id":     e.CartID.String(),
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.ItemID != nil {
		attrs["item_id"] = e.ItemID.String()
	}
	return attrs
}
