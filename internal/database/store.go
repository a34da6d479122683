package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/models"
	"warung-pos/internal/storage"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same store
// code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ storage.Store = (*Store)(nil)

// Store is the PostgreSQL implementation of storage.Store.
type Store struct {
	q    querier
	pool *pgxpool.Pool // nil when the store is transaction-scoped
}

// NewStore creates a pool-backed store.
func NewStore(db *DB) *Store {
	return &Store{q: db.Pool, pool: db.Pool}
}

// Atomic runs fn inside a single transaction. Nested calls reuse the
// enclosing transaction.
func (s *Store) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NextOrderNumber issues the next order number for the given calendar date.
func (s *Store) NextOrderNumber(ctx context.Context, date string) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx, nextOrderNumberSQL, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}
	return n, nil
}

// GetMenuItem looks up one menu item.
func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var m models.MenuItem
	err := s.q.QueryRow(ctx, getMenuItemSQL, id).Scan(
		&m.ID, &m.Name, &m.Price, &m.Category, &m.IsAvailable, &m.PhotoURL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &m, nil
}

// InsertOrder inserts the order row.
func (s *Store) InsertOrder(ctx context.Context, o *models.Order) error {
	_, err := s.q.Exec(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.OrderType, o.TableNumber, o.CustomerName, o.TotalAmount,
		o.Status, o.PaymentStatus, o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// InsertOrderItems inserts all order item rows.
func (s *Store) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		_, err := s.q.Exec(ctx, insertOrderItemSQL,
			item.ID, item.OrderID, item.MenuItemID, item.Name, item.Quantity, item.PriceAtOrder, item.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// DeleteOrderItems removes all items of an order.
func (s *Store) DeleteOrderItems(ctx context.Context, orderID string) error {
	if _, err := s.q.Exec(ctx, deleteOrderItemsSQL, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

func (s *Store) getOrder(ctx context.Context, sql, id string) (*models.Order, error) {
	var o models.Order
	err := s.q.QueryRow(ctx, sql, id).Scan(
		&o.ID, &o.OrderNumber, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.Notes, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt, &o.ProcessingAt, &o.ReadyAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetOrder returns the bare order row.
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.getOrder(ctx, getOrderSQL, id)
}

// GetOrderForUpdate returns the order row holding a row lock until the
// enclosing transaction ends.
func (s *Store) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return s.getOrder(ctx, getOrderForUpdateSQL, id)
}

// GetOrderItems returns all items of an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := s.q.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name,
			&item.Quantity, &item.PriceAtOrder, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetOrderPayments returns all payments of an order, oldest first.
func (s *Store) GetOrderPayments(ctx context.Context, orderID string) ([]models.Payment, error) {
	rows, err := s.q.Query(ctx, getOrderPaymentsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.ProofURL, &p.PaymentTime, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetOrderLogs returns the audit trail of an order, most recent first.
func (s *Store) GetOrderLogs(ctx context.Context, orderID string) ([]models.OrderLog, error) {
	rows, err := s.q.Query(ctx, getOrderLogsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order logs: %w", err)
	}
	defer rows.Close()

	var logs []models.OrderLog
	for rows.Next() {
		var l models.OrderLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Action, &l.OldValue, &l.NewValue, &l.LoggedAt, &l.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan order log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpdateOrderTotal sets the recomputed total.
func (s *Store) UpdateOrderTotal(ctx context.Context, orderID string, total int64, at time.Time) error {
	if _, err := s.q.Exec(ctx, updateOrderTotalSQL, total, at, orderID); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	return nil
}

// UpdateOrderStatus sets the status and stamps the matching phase timestamp
// first-write-wins.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error {
	if _, err := s.q.Exec(ctx, updateOrderStatusSQL, status, at, orderID); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// SetPaymentStatus updates the settlement state of an order.
func (s *Store) SetPaymentStatus(ctx context.Context, orderID string, ps models.PaymentStatus, at time.Time, promote bool) error {
	sql := setPaymentStatusSQL
	if promote {
		sql = setPaymentStatusPromoteSQL
	}
	if _, err := s.q.Exec(ctx, sql, ps, at, orderID); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// ListActiveOrders returns orders not yet completed or cancelled, ordered
// by status rank then creation time.
func (s *Store) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx, listActiveOrdersSQL)
}

// ListOrders returns orders matching the filter, newest first.
func (s *Store) ListOrders(ctx context.Context, f storage.OrderFilter) ([]models.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders`
	var conditions []string
	var params []any

	add := func(cond string, value any) {
		params = append(params, value)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(params))))
	}

	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.OrderType != "" {
		add("order_type = ?", f.OrderType)
	}
	if f.PaymentStatus != "" {
		add("payment_status = ?", f.PaymentStatus)
	}
	if f.DateFrom != "" {
		add("order_created_at >= ?::date", f.DateFrom)
	}
	if f.DateTo != "" {
		add("order_created_at < ?::date + interval '1 day'", f.DateTo)
	}
	if f.Search != "" {
		params = append(params, "%"+f.Search+"%", f.Search)
		conditions = append(conditions, fmt.Sprintf(
			"(customer_name ILIKE $%d OR order_number::text = $%d)", len(params)-1, len(params)))
	}

	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	sql += " ORDER BY order_created_at DESC"

	return s.queryOrders(ctx, sql, params...)
}

func (s *Store) queryOrders(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.OrderType, &o.TableNumber, &o.CustomerName, &o.TotalAmount,
			&o.Status, &o.PaymentStatus, &o.Notes, &o.CreatedBy,
			&o.CreatedAt, &o.UpdatedAt, &o.ProcessingAt, &o.ReadyAt, &o.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SumPayments returns the amount already recorded against the order.
func (s *Store) SumPayments(ctx context.Context, orderID string) (int64, error) {
	var total int64
	if err := s.q.QueryRow(ctx, sumPaymentsSQL, orderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// InsertPayment records one payment.
func (s *Store) InsertPayment(ctx context.Context, p *models.Payment) error {
	_, err := s.q.Exec(ctx, insertPaymentSQL,
		p.ID, p.OrderID, p.Amount, p.Method, p.ProofURL, p.PaymentTime, p.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// InsertDebt records one credit obligation.
func (s *Store) InsertDebt(ctx context.Context, d *models.Debt) error {
	_, err := s.q.Exec(ctx, insertDebtSQL,
		d.ID, d.OrderID, d.CustomerName, d.Amount, d.Status, d.DebtDate, d.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

// GetDebt looks up one debt.
func (s *Store) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	var d models.Debt
	err := s.q.QueryRow(ctx, getDebtSQL, id).Scan(
		&d.ID, &d.OrderID, &d.CustomerName, &d.Amount, &d.Status, &d.DebtDate, &d.PaidDate, &d.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return &d, nil
}

// MarkDebtPaid flips the debt to paid and stamps the paid date.
func (s *Store) MarkDebtPaid(ctx context.Context, id string, at time.Time) error {
	if _, err := s.q.Exec(ctx, markDebtPaidSQL, at, id); err != nil {
		return fmt.Errorf("failed to mark debt paid: %w", err)
	}
	return nil
}

// CountUnpaidDebts returns the number of outstanding debts of an order.
func (s *Store) CountUnpaidDebts(ctx context.Context, orderID string) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx, countUnpaidDebtsSQL, orderID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unpaid debts: %w", err)
	}
	return n, nil
}

// ListDebts returns debts joined with their order, newest first. An empty
// status lists all debts.
func (s *Store) ListDebts(ctx context.Context, status models.DebtStatus) ([]models.DebtWithOrder, error) {
	sql := listDebtsSQL
	var args []any
	if status != "" {
		sql += " WHERE d.status = $1"
		args = append(args, status)
	}
	sql += " ORDER BY d.debt_date DESC"

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []models.DebtWithOrder
	for rows.Next() {
		var d models.DebtWithOrder
		if err := rows.Scan(&d.ID, &d.OrderID, &d.CustomerName, &d.Amount, &d.Status, &d.DebtDate, &d.PaidDate, &d.Notes,
			&d.OrderNumber, &d.OrderType, &d.TableNumber); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// AppendOrderLog appends one audit trail entry.
func (s *Store) AppendOrderLog(ctx context.Context, l *models.OrderLog) error {
	_, err := s.q.Exec(ctx, insertOrderLogSQL,
		l.ID, l.OrderID, l.Action, l.OldValue, l.NewValue, l.LoggedAt, l.UserID)
	if err != nil {
		return fmt.Errorf("failed to append order log: %w", err)
	}
	return nil
}
