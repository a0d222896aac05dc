package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher sends events to a topic exchange using the event type as
// routing key.
type RabbitPublisher struct {
	ch       amqpChannel
	exchange string
	timeout  time.Duration
}

func NewRabbitPublisher(ch amqpChannel, exchange string, timeout time.Duration) (*RabbitPublisher, error) {
	if ch == nil {
		return nil, errors.New("amqp channel required")
	}
	if exchange == "" {
		return nil, errors.New("exchange required")
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &RabbitPublisher{ch: ch, exchange: exchange, timeout: timeout}, nil
}

func (p *RabbitPublisher) Name() string { return "rabbitmq" }

func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		event.EventType.String(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID.String(),
			Timestamp:    event.OccurredAt,
			Type:         event.EventType.String(),
			Body:         body,
		},
	)
}
