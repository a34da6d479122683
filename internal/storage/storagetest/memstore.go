// Package storagetest provides an in-memory storage.Store for service
// tests. It honors the same error contract as the Postgres implementation.
package storagetest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/models"
	"warung-pos/internal/storage"
)

type memData struct {
	sequences map[string]int
	menu      map[string]models.MenuItem
	orders    map[string]models.Order
	items     map[string][]models.OrderItem
	payments  map[string][]models.Payment
	debts     map[string]models.Debt
	logs      map[string][]models.OrderLog
}

func newMemData() *memData {
	return &memData{
		sequences: make(map[string]int),
		menu:      make(map[string]models.MenuItem),
		orders:    make(map[string]models.Order),
		items:     make(map[string][]models.OrderItem),
		payments:  make(map[string][]models.Payment),
		debts:     make(map[string]models.Debt),
		logs:      make(map[string][]models.OrderLog),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	for k, v := range d.menu {
		c.menu[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.items {
		c.items[k] = append([]models.OrderItem(nil), v...)
	}
	for k, v := range d.payments {
		c.payments[k] = append([]models.Payment(nil), v...)
	}
	for k, v := range d.debts {
		c.debts[k] = v
	}
	for k, v := range d.logs {
		c.logs[k] = append([]models.OrderLog(nil), v...)
	}
	return c
}

var (
	_ storage.Store = (*MemStore)(nil)
	_ storage.Store = (*memTx)(nil)
)

// MemStore is a mutex-guarded in-memory Store. Atomic holds the lock for
// the whole callback and rolls back on error, so concurrent transactions
// are serialized like row-locked Postgres ones.
type MemStore struct {
	mu   sync.Mutex
	data *memData
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{data: newMemData()}
}

// SeedMenuItem adds a menu item directly.
func (m *MemStore) SeedMenuItem(item models.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.menu[item.ID] = item
}

// Atomic runs fn against a transactional view; on error all writes are
// discarded.
func (m *MemStore) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(&memTx{data: m.data}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

// memTx operates on the data without locking; it only exists inside Atomic
// or behind MemStore's lock.
type memTx struct {
	data *memData
}

// Atomic inside a transaction reuses the transaction.
func (t *memTx) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	return fn(t)
}

func (t *memTx) NextOrderNumber(ctx context.Context, date string) (int, error) {
	t.data.sequences[date]++
	return t.data.sequences[date], nil
}

func (t *memTx) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, ok := t.data.menu[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *models.Order) error {
	stored := *o
	stored.Items, stored.Payments, stored.Logs = nil, nil, nil
	t.data.orders[o.ID] = stored
	return nil
}

func (t *memTx) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		t.data.items[item.OrderID] = append(t.data.items[item.OrderID], item)
	}
	return nil
}

func (t *memTx) DeleteOrderItems(ctx context.Context, orderID string) error {
	delete(t.data.items, orderID)
	return nil
}

func (t *memTx) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, ok := t.data.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (t *memTx) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return t.GetOrder(ctx, id)
}

func (t *memTx) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), t.data.items[orderID]...), nil
}

func (t *memTx) GetOrderPayments(ctx context.Context, orderID string) ([]models.Payment, error) {
	return append([]models.Payment(nil), t.data.payments[orderID]...), nil
}

func (t *memTx) GetOrderLogs(ctx context.Context, orderID string) ([]models.OrderLog, error) {
	logs := append([]models.OrderLog(nil), t.data.logs[orderID]...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].LoggedAt.After(logs[j].LoggedAt) })
	return logs, nil
}

func (t *memTx) UpdateOrderTotal(ctx context.Context, orderID string, total int64, at time.Time) error {
	o, ok := t.data.orders[orderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	o.TotalAmount = total
	o.UpdatedAt = at
	t.data.orders[orderID] = o
	return nil
}

func (t *memTx) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error {
	o, ok := t.data.orders[orderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	switch status {
	case models.StatusProcessing:
		if o.ProcessingAt == nil {
			o.ProcessingAt = ptrTime(at)
		}
	case models.StatusReady:
		if o.ReadyAt == nil {
			o.ReadyAt = ptrTime(at)
		}
	case models.StatusCompleted:
		if o.CompletedAt == nil {
			o.CompletedAt = ptrTime(at)
		}
	}
	t.data.orders[orderID] = o
	return nil
}

func (t *memTx) SetPaymentStatus(ctx context.Context, orderID string, ps models.PaymentStatus, at time.Time, promote bool) error {
	o, ok := t.data.orders[orderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	o.PaymentStatus = ps
	o.UpdatedAt = at
	if promote && !o.Status.Closed() {
		o.Status = models.StatusCompleted
		if o.CompletedAt == nil {
			o.CompletedAt = ptrTime(at)
		}
	}
	t.data.orders[orderID] = o
	return nil
}

func (t *memTx) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range t.data.orders {
		if !o.Status.Closed() {
			orders = append(orders, o)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		ri, rj := models.StatusRank(orders[i].Status), models.StatusRank(orders[j].Status)
		if ri != rj {
			return ri < rj
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

func (t *memTx) ListOrders(ctx context.Context, f storage.OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range t.data.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.OrderType != "" && string(o.OrderType) != f.OrderType {
			continue
		}
		if f.PaymentStatus != "" && string(o.PaymentStatus) != f.PaymentStatus {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		if f.DateFrom != "" && day < f.DateFrom {
			continue
		}
		if f.DateTo != "" && day > f.DateTo {
			continue
		}
		if f.Search != "" && !matchesSearch(&o, f.Search) {
			continue
		}
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func matchesSearch(o *models.Order, search string) bool {
	if o.CustomerName != nil &&
		strings.Contains(strings.ToLower(*o.CustomerName), strings.ToLower(search)) {
		return true
	}
	return strconv.Itoa(o.OrderNumber) == search
}

func (t *memTx) SumPayments(ctx context.Context, orderID string) (int64, error) {
	var total int64
	for _, p := range t.data.payments[orderID] {
		total += p.Amount
	}
	return total, nil
}

func (t *memTx) InsertPayment(ctx context.Context, p *models.Payment) error {
	t.data.payments[p.OrderID] = append(t.data.payments[p.OrderID], *p)
	return nil
}

func (t *memTx) InsertDebt(ctx context.Context, d *models.Debt) error {
	t.data.debts[d.ID] = *d
	return nil
}

func (t *memTx) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	d, ok := t.data.debts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (t *memTx) MarkDebtPaid(ctx context.Context, id string, at time.Time) error {
	d, ok := t.data.debts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.Status = models.DebtPaid
	d.PaidDate = ptrTime(at)
	t.data.debts[id] = d
	return nil
}

func (t *memTx) CountUnpaidDebts(ctx context.Context, orderID string) (int, error) {
	count := 0
	for _, d := range t.data.debts {
		if d.OrderID == orderID && d.Status == models.DebtUnpaid {
			count++
		}
	}
	return count, nil
}

func (t *memTx) ListDebts(ctx context.Context, status models.DebtStatus) ([]models.DebtWithOrder, error) {
	var debts []models.DebtWithOrder
	for _, d := range t.data.debts {
		if status != "" && d.Status != status {
			continue
		}
		dw := models.DebtWithOrder{Debt: d}
		if o, ok := t.data.orders[d.OrderID]; ok {
			dw.OrderNumber = o.OrderNumber
			dw.OrderType = o.OrderType
			dw.TableNumber = o.TableNumber
		}
		debts = append(debts, dw)
	}
	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].DebtDate.After(debts[j].DebtDate)
	})
	return debts, nil
}

func (t *memTx) AppendOrderLog(ctx context.Context, l *models.OrderLog) error {
	t.data.logs[l.OrderID] = append(t.data.logs[l.OrderID], *l)
	return nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

// The non-transactional methods lock and delegate to a memTx view.

func (m *MemStore) tx() *memTx { return &memTx{data: m.data} }

func (m *MemStore) NextOrderNumber(ctx context.Context, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().NextOrderNumber(ctx, date)
}

func (m *MemStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetMenuItem(ctx, id)
}

func (m *MemStore) InsertOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().InsertOrder(ctx, o)
}

func (m *MemStore) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().InsertOrderItems(ctx, items)
}

func (m *MemStore) DeleteOrderItems(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().DeleteOrderItems(ctx, orderID)
}

func (m *MemStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetOrder(ctx, id)
}

func (m *MemStore) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetOrderForUpdate(ctx, id)
}

func (m *MemStore) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetOrderItems(ctx, orderID)
}

func (m *MemStore) GetOrderPayments(ctx context.Context, orderID string) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetOrderPayments(ctx, orderID)
}

func (m *MemStore) GetOrderLogs(ctx context.Context, orderID string) ([]models.OrderLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetOrderLogs(ctx, orderID)
}

func (m *MemStore) UpdateOrderTotal(ctx context.Context, orderID string, total int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().UpdateOrderTotal(ctx, orderID, total, at)
}

func (m *MemStore) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().UpdateOrderStatus(ctx, orderID, status, at)
}

func (m *MemStore) SetPaymentStatus(ctx context.Context, orderID string, ps models.PaymentStatus, at time.Time, promote bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().SetPaymentStatus(ctx, orderID, ps, at, promote)
}

func (m *MemStore) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListActiveOrders(ctx)
}

func (m *MemStore) ListOrders(ctx context.Context, f storage.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListOrders(ctx, f)
}

func (m *MemStore) SumPayments(ctx context.Context, orderID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().SumPayments(ctx, orderID)
}

func (m *MemStore) InsertPayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().InsertPayment(ctx, p)
}

func (m *MemStore) InsertDebt(ctx context.Context, d *models.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().InsertDebt(ctx, d)
}

func (m *MemStore) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetDebt(ctx, id)
}

func (m *MemStore) MarkDebtPaid(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().MarkDebtPaid(ctx, id, at)
}

func (m *MemStore) CountUnpaidDebts(ctx context.Context, orderID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().CountUnpaidDebts(ctx, orderID)
}

func (m *MemStore) ListDebts(ctx context.Context, status models.DebtStatus) ([]models.DebtWithOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListDebts(ctx, status)
}

func (m *MemStore) AppendOrderLog(ctx context.Context, l *models.OrderLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().AppendOrderLog(ctx, l)
}
