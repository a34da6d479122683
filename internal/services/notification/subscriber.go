// Package notification implements the display subscriber that renders
// kitchen and cashier messages from the queue.
package notification

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"warung-pos/internal/logger"
	"warung-pos/internal/messaging"
	"warung-pos/internal/models"
)

// Subscriber consumes order notifications and prints them as human-readable
// display messages.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new display subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start consumes until the context is cancelled or a shutdown signal
// arrives.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleNotification); err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var n models.OrderNotification
	if err := messaging.ParseMessage(body, &n); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	fmt.Println(formatNotification(&n))

	s.logger.Info("notification_displayed", "Notification displayed", requestID, map[string]interface{}{
		"kind":         n.Kind,
		"order_number": n.OrderNumber,
		"order_type":   n.OrderType,
	})
	return nil
}

func (s *Subscriber) gracefulShutdown(requestID string) error {
	if s.consumer != nil {
		s.consumer.Close()
	}
	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
