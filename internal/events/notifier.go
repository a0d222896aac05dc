package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Notifier fans cart lifecycle events out to every configured publisher.
// Failures are logged and counted, never returned.
type Notifier struct {
	publishers []Publisher
	logg       *logger.Logger
	metrics    *metrics.CartMetrics
	now        func() time.Time
}

var _ cart.EventNotifier = (*Notifier)(nil)

func NewNotifier(logg *logger.Logger, cartMetrics *metrics.CartMetrics, publishers ...Publisher) (*Notifier, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Notifier{
		publishers: publishers,
		logg:       logg,
		metrics:    cartMetrics,
		now:        time.Now,
	}, nil
}

func (n *Notifier) CartCreated(ctx context.Context, c *cart.Cart) {
	n.publish(ctx, NewEvent(enums.CartEventCreated, c, nil, n.now()))
}

func (n *Notifier) CartModified(ctx context.Context, c *cart.Cart) {
	n.publish(ctx, NewEvent(enums.CartEventModified, c, nil, n.now()))
}

func (n *Notifier) CartCancelled(ctx context.Context, c *cart.Cart) {
	n.publish(ctx, NewEvent(enums.CartEventCancelled, c, nil, n.now()))
}

func (n *Notifier) ItemCancelled(ctx context.Context, c *cart.Cart, productID uuid.UUID) {
	n.publish(ctx, NewEvent(enums.CartEventItemCancelled, c, &productID, n.now()))
}

func (n *Notifier) publish(ctx context.Context, event Event) {
	var errs error
	for _, p := range n.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			n.metrics.IncEventFailure(event.EventType.String())
		}
	}
	if errs == nil {
		return
	}

	logCtx := n.logg.WithCartID(ctx, event.CartID.String())
	logCtx = n.logg.WithFields(logCtx, map[string]any{
		"event_id":   event.EventID.String(),
		"event_type": event.EventType.String(),
		"failures":   len(multierr.Errors(errs)),
	})
	n.logg.Error(logCtx, "cart event publish failed", errs)
}
