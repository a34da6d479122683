package models

import (
	"fmt"
	"time"

	"warung-pos/internal/apperrors"
)

// OrderType represents how the order was placed.
type OrderType string

const (
	OrderDineIn OrderType = "dine-in"
	OrderOnline OrderType = "online"
)

// OrderStatus represents the kitchen lifecycle of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Closed reports whether the order can no longer be edited.
func (s OrderStatus) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentStatus represents the settlement state of an order.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// LogAction enumerates audit log entry kinds.
type LogAction string

const (
	ActionCreated       LogAction = "created"
	ActionUpdated       LogAction = "updated"
	ActionStatusChanged LogAction = "status_changed"
	ActionPaid          LogAction = "paid"
	ActionItemAdded     LogAction = "item_added"
	ActionItemRemoved   LogAction = "item_removed"
)

// Order is one customer transaction from creation to completion.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   int           `json:"order_number"`
	OrderType     OrderType     `json:"order_type"`
	TableNumber   *int          `json:"table_number,omitempty"`
	CustomerName  *string       `json:"customer_name,omitempty"`
	TotalAmount   int64         `json:"total_amount"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedBy     *string       `json:"created_by_user_id,omitempty"`
	CreatedAt     time.Time     `json:"order_created_at"`
	UpdatedAt     time.Time     `json:"order_updated_at"`
	ProcessingAt  *time.Time    `json:"order_processing_at,omitempty"`
	ReadyAt       *time.Time    `json:"order_ready_at,omitempty"`
	CompletedAt   *time.Time    `json:"order_completed_at,omitempty"`

	Items    []OrderItem `json:"items,omitempty"`
	Payments []Payment   `json:"payments,omitempty"`
	Logs     []OrderLog  `json:"logs,omitempty"`
}

// OrderItem is one order line. Name and price are snapshots taken at order
// time; later menu edits never affect them.
type OrderItem struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	MenuItemID   string `json:"menu_item_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	PriceAtOrder int64  `json:"price_at_order"`
	Subtotal     int64  `json:"subtotal"`
}

// OrderLog is one immutable audit trail entry.
type OrderLog struct {
	ID       string    `json:"id"`
	OrderID  string    `json:"order_id"`
	Action   LogAction `json:"action"`
	OldValue *string   `json:"old_value,omitempty"`
	NewValue *string   `json:"new_value,omitempty"`
	LoggedAt time.Time `json:"timestamp"`
	UserID   *string   `json:"user_id,omitempty"`
}

// OrderItemInput is one requested order line, by menu item reference.
type OrderItemInput struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest is the payload for creating an order.
type CreateOrderRequest struct {
	OrderType    string           `json:"order_type"`
	TableNumber  *int             `json:"table_number,omitempty"`
	CustomerName *string          `json:"customer_name,omitempty"`
	Items        []OrderItemInput `json:"items"`
	Notes        *string          `json:"notes,omitempty"`
}

// Validate checks the create order payload, including the order-type
// specific required field.
func (r *CreateOrderRequest) Validate() error {
	switch OrderType(r.OrderType) {
	case OrderDineIn:
		if r.TableNumber == nil || *r.TableNumber < 1 {
			return apperrors.Validation("table_number", "table number is required for dine-in orders")
		}
	case OrderOnline:
		if r.CustomerName == nil || *r.CustomerName == "" {
			return apperrors.Validation("customer_name", "customer name is required for online orders")
		}
	default:
		return apperrors.Validation("order_type", "order type must be dine-in or online")
	}

	return validateOrderItems(r.Items)
}

// UpdateOrderItemsRequest is the payload for replacing an order's items.
type UpdateOrderItemsRequest struct {
	Items []OrderItemInput `json:"items"`
}

// Validate checks the replace-items payload.
func (r *UpdateOrderItemsRequest) Validate() error {
	return validateOrderItems(r.Items)
}

func validateOrderItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return apperrors.Validation("items", "items cannot be empty")
	}
	for i, item := range items {
		if item.MenuItemID == "" {
			return apperrors.Validation(fmt.Sprintf("items[%d].menu_item_id", i), "menu item id is required")
		}
		if item.Quantity < 1 {
			return apperrors.Validation(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
	}
	return nil
}

// ChangeStatusRequest is the payload for a status transition.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks the status value against the closed set.
func (r *ChangeStatusRequest) Validate() error {
	if !ValidOrderStatus(r.Status) {
		return apperrors.Validation("status", "status must be one of: pending, processing, ready, completed, cancelled")
	}
	return nil
}

// StatusRank orders active statuses for display: pending before processing
// before ready.
func StatusRank(s OrderStatus) int {
	switch s {
	case StatusPending:
		return 1
	case StatusProcessing:
		return 2
	case StatusReady:
		return 3
	default:
		return 4
	}
}
