package models

import "time"

// Notification kinds published to the display exchanges.
const (
	NotifyNewOrder     = "new_order"
	NotifyOrderUpdated = "order_updated"
	NotifyOrderReady   = "order_ready"
)

// NotificationItem is a display line in a kitchen notification.
type NotificationItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderNotification is the one-way message pushed to kitchen and cashier
// display surfaces. Delivery is best effort and happens after the owning
// transaction committed.
type OrderNotification struct {
	Kind         string             `json:"kind"`
	OrderNumber  int                `json:"order_number"`
	OrderType    OrderType          `json:"order_type"`
	TableNumber  *int               `json:"table_number,omitempty"`
	CustomerName *string            `json:"customer_name,omitempty"`
	Items        []NotificationItem `json:"items,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	TotalAmount  int64              `json:"total_amount,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewOrderNotification builds a notification payload from an order and its
// resolved items.
func NewOrderNotification(kind string, o *Order, items []OrderItem) *OrderNotification {
	n := &OrderNotification{
		Kind:         kind,
		OrderNumber:  o.OrderNumber,
		OrderType:    o.OrderType,
		TableNumber:  o.TableNumber,
		CustomerName: o.CustomerName,
		Notes:        o.Notes,
		TotalAmount:  o.TotalAmount,
		Timestamp:    time.Now().UTC(),
	}
	for _, item := range items {
		n.Items = append(n.Items, NotificationItem{Name: item.Name, Quantity: item.Quantity})
	}
	return n
}
