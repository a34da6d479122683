// Package storage defines the persistence contract for the order and
// settlement core. The production implementation lives in
// internal/database; tests use the in-memory fake in storagetest.
package storage

import (
	"context"
	"time"

	"warung-pos/internal/models"
)

// OrderFilter narrows ListOrders. Zero values mean "no filter". Dates are
// calendar dates in YYYY-MM-DD form, inclusive on both ends.
type OrderFilter struct {
	Status        string
	OrderType     string
	PaymentStatus string
	DateFrom      string
	DateTo        string
	Search        string
}

// Store is the persistence boundary of the order lifecycle and settlement
// engine. Every multi-row mutation described in the service layer runs
// inside Atomic; partial application of a mutation is a correctness bug.
type Store interface {
	// Atomic runs fn inside one all-or-nothing transaction. The Store
	// handed to fn executes against that transaction; using it after fn
	// returns is invalid.
	Atomic(ctx context.Context, fn func(Store) error) error

	// NextOrderNumber issues the next per-day order number for the given
	// calendar date (YYYY-MM-DD), starting at 1. Safe under concurrent
	// callers: two calls never observe the same number.
	NextOrderNumber(ctx context.Context, date string) (int, error)

	// GetMenuItem returns apperrors.ErrNotFound when the item is absent.
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)

	InsertOrder(ctx context.Context, o *models.Order) error
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID string) error

	// GetOrder returns the bare order row, apperrors.ErrNotFound if absent.
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// GetOrderForUpdate is GetOrder with a row lock; only meaningful
	// inside Atomic.
	GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	GetOrderPayments(ctx context.Context, orderID string) ([]models.Payment, error)
	GetOrderLogs(ctx context.Context, orderID string) ([]models.OrderLog, error)

	UpdateOrderTotal(ctx context.Context, orderID string, total int64, at time.Time) error

	// UpdateOrderStatus sets the status and stamps the matching phase
	// timestamp first-write-wins: re-entering a status never overwrites
	// an already recorded instant.
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error

	// SetPaymentStatus updates the settlement state. When promote is true
	// and the order is not already completed or cancelled, the order is
	// moved to completed and its completion instant stamped.
	SetPaymentStatus(ctx context.Context, orderID string, ps models.PaymentStatus, at time.Time, promote bool) error

	ListActiveOrders(ctx context.Context) ([]models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)

	// SumPayments returns the total amount already recorded against the
	// order, zero when none.
	SumPayments(ctx context.Context, orderID string) (int64, error)
	InsertPayment(ctx context.Context, p *models.Payment) error

	InsertDebt(ctx context.Context, d *models.Debt) error
	GetDebt(ctx context.Context, id string) (*models.Debt, error)
	MarkDebtPaid(ctx context.Context, id string, at time.Time) error
	CountUnpaidDebts(ctx context.Context, orderID string) (int, error)
	ListDebts(ctx context.Context, status models.DebtStatus) ([]models.DebtWithOrder, error)

	AppendOrderLog(ctx context.Context, l *models.OrderLog) error
}
