package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"warung-pos/internal/logger"
	"warung-pos/internal/models"
)

// Publisher pushes order notifications to the display exchanges.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// NotifyNewOrder pushes a freshly created order to the kitchen display.
func (p *Publisher) NotifyNewOrder(ctx context.Context, n *models.OrderNotification) error {
	return p.publish(ctx, KitchenExchange, n)
}

// NotifyOrderUpdated pushes an item change to the kitchen display.
func (p *Publisher) NotifyOrderUpdated(ctx context.Context, n *models.OrderNotification) error {
	return p.publish(ctx, KitchenExchange, n)
}

// NotifyOrderReady tells the cashier display an order can be served.
func (p *Publisher) NotifyOrderReady(ctx context.Context, n *models.OrderNotification) error {
	return p.publish(ctx, CashierExchange, n)
}

func (p *Publisher) publish(ctx context.Context, exchange string, message interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		exchange,
		"",    // routing key ignored for fanout
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: 2, // persistent
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message to exchange %s", exchange),
			"", err, map[string]interface{}{
				"exchange": exchange,
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", exchange),
		"", map[string]interface{}{
			"exchange":     exchange,
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
