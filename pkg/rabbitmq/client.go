package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const exchangeKind = "topic"

var (
	errURLRequired    = errors.New("rabbitmq url is required")
	errNotInitialized = errors.New("rabbitmq client not initialized")
)

// Client owns one AMQP connection and the channel used for publishing.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects to the broker and declares the durable topic exchange.
func Dial(ctx context.Context, cfg config.RabbitMQConfig, logg *logger.Logger) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errURLRequired
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	exchange := exchangeName(cfg)
	if err := declareExchange(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "exchange", exchange), "rabbitmq connection established")
	}

	return &Client{conn: conn, ch: ch, exchange: exchange}, nil
}

func exchangeName(cfg config.RabbitMQConfig) string {
	if name := strings.TrimSpace(cfg.Exchange); name != "" {
		return name
	}
	return "storefront.events"
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		exchangeKind,
		true,
		false,
		false,
		false,
		nil,
	)
}

// Channel returns the publishing channel.
func (c *Client) Channel() *amqp.Channel {
	if c == nil {
		return nil
	}
	return c.ch
}

// Exchange returns the declared exchange name.
func (c *Client) Exchange() string {
	if c == nil {
		return ""
	}
	return c.exchange
}

// Ping reports whether the connection and channel are still open.
func (c *Client) Ping(context.Context) error {
	if c == nil || c.conn == nil || c.ch == nil {
		return errNotInitialized
	}
	if c.conn.IsClosed() || c.ch.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

// Close shuts down the channel and then the connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	var err error
	if c.ch != nil {
		if chErr := c.ch.Close(); chErr != nil && !errors.Is(chErr, amqp.ErrClosed) {
			err = multierr.Append(err, chErr)
		}
	}
	if connErr := c.conn.Close(); connErr != nil && !errors.Is(connErr, amqp.ErrClosed) {
		err = multierr.Append(err, connErr)
	}
	return err
}
