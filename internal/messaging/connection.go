package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"warung-pos/internal/config"
	"warung-pos/internal/logger"
)

// Exchange and queue names for the display screens.
const (
	KitchenExchange = "pos.kitchen"
	CashierExchange = "pos.cashier"

	KitchenQueue = "kitchen_display_queue"
	CashierQueue = "cashier_display_queue"
)

// Connection wraps a RabbitMQ connection with reconnection logic.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New establishes the initial RabbitMQ connection and declares the topology.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return conn, nil
}

// connect dials RabbitMQ with retry and sets up exchanges and queues.
func (c *Connection) connect() error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := c.setupTopology(); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// setupTopology declares the kitchen and cashier fanout exchanges and binds
// one durable display queue to each.
func (c *Connection) setupTopology() error {
	exchanges := []string{KitchenExchange, CashierExchange}
	for _, name := range exchanges {
		err := c.channel.ExchangeDeclare(
			name,
			"fanout",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", name, err)
		}
	}

	bindings := []struct {
		queue    string
		exchange string
	}{
		{KitchenQueue, KitchenExchange},
		{CashierQueue, CashierExchange},
	}

	for _, b := range bindings {
		_, err := c.channel.QueueDeclare(
			b.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}

		err = c.channel.QueueBind(
			b.queue,
			"", // routing key ignored for fanout
			b.exchange,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// Channel returns the current channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// IsClosed checks if the connection is closed.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect tears down and re-establishes the connection.
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
