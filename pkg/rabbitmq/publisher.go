package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/models"
	amqp "github.com/streadway/amqp"
)

const orderCreatedRoutingKey = "order.created"

// Publisher emits domain events to a durable topic exchange so downstream
// consumers (fulfilment, analytics) can react to them.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(cfg *config.AMQP) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: cfg.Exchange}, nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	return nil
}

type orderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      string    `json:"total"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotifyOrderCreated publishes an order.created event. Publishing is best
// effort: failures are logged, never surfaced to the checkout path.
func (p *Publisher) NotifyOrderCreated(_ context.Context, order *models.Order) {
	event := orderCreatedEvent{
		OrderID:    order.ID.String(),
		CustomerID: order.CustomerID.String(),
		Total:      order.Total().StringFixed(2),
		ItemCount:  len(order.Items),
		CreatedAt:  order.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal order event", slog.String("orderId", event.OrderID), slog.String("error", err.Error()))

		return
	}

	err = p.channel.Publish(p.exchange, orderCreatedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		slog.Error("Failed to publish order event", slog.String("orderId", event.OrderID), slog.String("error", err.Error()))

		return
	}

	slog.Info("Published order event",
		slog.String("exchange", p.exchange),
		slog.String("routingKey", orderCreatedRoutingKey),
		slog.String("orderId", event.OrderID))
}
