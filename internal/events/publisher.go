package events

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Publisher delivers cart events to one transport.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes each event as a structured log line.
type LogPublisher struct {
	logg *logger.Logger
}

func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Name() string { return "log" }

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	fields := map[string]any{
		"event_id":     event.EventID.String(),
		"event_type":   event.EventType.String(),
		"cart_id":      event.CartID.String(),
		"user_id":      event.UserID.String(),
		"total_amount": event.TotalAmount.String(),
		"occurred_at":  event.OccurredAt,
	}
	if event.ItemID != nil {
		fields["item_id"] = event.ItemID.String()
	}
	p.logg.Info(p.logg.WithFields(ctx, fields), "cart event")
	return nil
}
