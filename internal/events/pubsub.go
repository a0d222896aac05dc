package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

const defaultPublishTimeout = 3 * time.Second

type topicPublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// PubSubPublisher sends events to a Google Pub/Sub topic and waits for the
// server acknowledgement.
type PubSubPublisher struct {
	topic   topicPublisher
	timeout time.Duration
}

// NewPubSubPublisher wraps a v2 publisher handle.
func NewPubSubPublisher(p *gcppubsub.Publisher, timeout time.Duration) (*PubSubPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return newPubSubPublisher(&gcpPublisher{Publisher: p}, timeout), nil
}

func newPubSubPublisher(topic topicPublisher, timeout time.Duration) *PubSubPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &PubSubPublisher{topic: topic, timeout: timeout}
}

func (p *PubSubPublisher) Name() string { return "pubsub" }

func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.topic.Publish(publishCtx, &gcppubsub.Message{
		Data:       payload,
		Attributes: event.attributes(),
	})
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType, err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}
