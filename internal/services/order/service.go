// Package order implements the order lifecycle: creation, item edits,
// status transitions and queries.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/storage"
)

// Notifier pushes order events to the display exchanges. Delivery is best
// effort; a failed push never fails the owning operation.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, n *models.OrderNotification) error
	NotifyOrderUpdated(ctx context.Context, n *models.OrderNotification) error
	NotifyOrderReady(ctx context.Context, n *models.OrderNotification) error
}

// Service implements the order lifecycle.
type Service struct {
	store    storage.Store
	notifier Notifier
	logger   *logger.Logger
}

// NewService creates a new order service. notifier may be nil to disable
// display notifications.
func NewService(store storage.Store, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// Create registers a new order. Item names and prices are snapshotted from
// the menu inside the same transaction that issues the order number.
func (s *Service) Create(ctx context.Context, req *models.CreateOrderRequest, userID *string, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.NewString(),
		OrderType:     models.OrderType(req.OrderType),
		TableNumber:   req.TableNumber,
		CustomerName:  req.CustomerName,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		Notes:         req.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.Atomic(ctx, func(tx storage.Store) error {
		items, total, err := resolveItems(ctx, tx, order.ID, req.Items, true)
		if err != nil {
			return err
		}
		order.Items = items
		order.TotalAmount = total

		number, err := tx.NextOrderNumber(ctx, now.Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}
		order.OrderNumber = number

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, order.Items); err != nil {
			return err
		}

		return tx.AppendOrderLog(ctx, &models.OrderLog{
			ID:       uuid.NewString(),
			OrderID:  order.ID,
			Action:   models.ActionCreated,
			NewValue: jsonValue(map[string]interface{}{"order_number": order.OrderNumber, "total": order.TotalAmount}),
			LoggedAt: now,
			UserID:   userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_created", "Order created", requestID, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"order_type":   order.OrderType,
		"total_amount": order.TotalAmount,
	})

	s.notify(ctx, requestID, models.NewOrderNotification(models.NotifyNewOrder, order, order.Items))

	return order, nil
}

// ReplaceItems swaps the full item set of an open order and recomputes the
// total. Prices are re-snapshotted from the current menu.
func (s *Service) ReplaceItems(ctx context.Context, orderID string, req *models.UpdateOrderItemsRequest, userID *string, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var order *models.Order

	err := s.store.Atomic(ctx, func(tx storage.Store) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.Closed() {
			return apperrors.ErrOrderClosed
		}
		oldTotal := order.TotalAmount

		items, total, err := resolveItems(ctx, tx, orderID, req.Items, false)
		if err != nil {
			return err
		}

		if err := tx.DeleteOrderItems(ctx, orderID); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, items); err != nil {
			return err
		}
		if err := tx.UpdateOrderTotal(ctx, orderID, total, now); err != nil {
			return err
		}

		order.Items = items
		order.TotalAmount = total
		order.UpdatedAt = now

		return tx.AppendOrderLog(ctx, &models.OrderLog{
			ID:       uuid.NewString(),
			OrderID:  orderID,
			Action:   models.ActionUpdated,
			OldValue: jsonValue(map[string]interface{}{"total": oldTotal}),
			NewValue: jsonValue(map[string]interface{}{"total": total}),
			LoggedAt: now,
			UserID:   userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_items_replaced", "Order items replaced", requestID, map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	s.notify(ctx, requestID, models.NewOrderNotification(models.NotifyOrderUpdated, order, order.Items))

	return order, nil
}

// ChangeStatus moves the order to the given status and stamps the phase
// timestamp on first entry. The cashier display is notified on ready.
func (s *Service) ChangeStatus(ctx context.Context, orderID string, req *models.ChangeStatusRequest, userID *string, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status := models.OrderStatus(req.Status)
	var order *models.Order

	err := s.store.Atomic(ctx, func(tx storage.Store) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		oldStatus := order.Status

		if err := tx.UpdateOrderStatus(ctx, orderID, status, now); err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = now

		return tx.AppendOrderLog(ctx, &models.OrderLog{
			ID:       uuid.NewString(),
			OrderID:  orderID,
			Action:   models.ActionStatusChanged,
			OldValue: strValue(string(oldStatus)),
			NewValue: strValue(string(status)),
			LoggedAt: now,
			UserID:   userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_status_changed", "Order status changed", requestID, map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"status":       status,
	})

	if status == models.StatusReady {
		s.notify(ctx, requestID, models.NewOrderNotification(models.NotifyOrderReady, order, nil))
	}

	return order, nil
}

// Get returns one order with its items, payments and audit log.
func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Items, err = s.store.GetOrderItems(ctx, orderID); err != nil {
		return nil, err
	}
	if order.Payments, err = s.store.GetOrderPayments(ctx, orderID); err != nil {
		return nil, err
	}
	if order.Logs, err = s.store.GetOrderLogs(ctx, orderID); err != nil {
		return nil, err
	}
	return order, nil
}

// ListActive returns pending, processing and ready orders with their items,
// in kitchen display order.
func (s *Service) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// List returns orders matching the filter, newest first, with their items.
func (s *Service) List(ctx context.Context, f storage.OrderFilter) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Service) attachItems(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	for i := range orders {
		items, err := s.store.GetOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// resolveItems looks up each requested menu item and builds the order lines
// with name and price snapshots. When requireAvailable is set, items marked
// unavailable are rejected.
func resolveItems(ctx context.Context, tx storage.Store, orderID string, inputs []models.OrderItemInput, requireAvailable bool) ([]models.OrderItem, int64, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	var total int64

	for _, in := range inputs {
		menuItem, err := tx.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return nil, 0, fmt.Errorf("menu item %s: %w", in.MenuItemID, apperrors.ErrItemUnavailable)
		}
		if requireAvailable && !menuItem.IsAvailable {
			return nil, 0, fmt.Errorf("menu item %s: %w", menuItem.Name, apperrors.ErrItemUnavailable)
		}

		subtotal := menuItem.Price * int64(in.Quantity)
		total += subtotal
		items = append(items, models.OrderItem{
			ID:           uuid.NewString(),
			OrderID:      orderID,
			MenuItemID:   in.MenuItemID,
			Name:         menuItem.Name,
			Quantity:     in.Quantity,
			PriceAtOrder: menuItem.Price,
			Subtotal:     subtotal,
		})
	}
	return items, total, nil
}

// notify pushes a notification after the transaction committed. Failures
// are logged and swallowed.
func (s *Service) notify(ctx context.Context, requestID string, n *models.OrderNotification) {
	if s.notifier == nil {
		return
	}

	var err error
	switch n.Kind {
	case models.NotifyNewOrder:
		err = s.notifier.NotifyNewOrder(ctx, n)
	case models.NotifyOrderUpdated:
		err = s.notifier.NotifyOrderUpdated(ctx, n)
	case models.NotifyOrderReady:
		err = s.notifier.NotifyOrderReady(ctx, n)
	}
	if err != nil {
		s.logger.Error("notification_failed", "Failed to publish order notification", requestID, err, map[string]interface{}{
			"kind":         n.Kind,
			"order_number": n.OrderNumber,
		})
	}
}

func jsonValue(v map[string]interface{}) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func strValue(s string) *string {
	return &s
}
