package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/storage"
	"warung-pos/internal/storage/storagetest"
)

// fakeNotifier records published notifications.
type fakeNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (f *fakeNotifier) record(n *models.OrderNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, n.Kind)
	return nil
}

func (f *fakeNotifier) NotifyNewOrder(ctx context.Context, n *models.OrderNotification) error {
	return f.record(n)
}

func (f *fakeNotifier) NotifyOrderUpdated(ctx context.Context, n *models.OrderNotification) error {
	return f.record(n)
}

func (f *fakeNotifier) NotifyOrderReady(ctx context.Context, n *models.OrderNotification) error {
	return f.record(n)
}

func (f *fakeNotifier) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.kinds...)
}

func newTestService() (*Service, *storagetest.MemStore, *fakeNotifier) {
	store := storagetest.New()
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, logger.New("order-test"))

	store.SeedMenuItem(models.MenuItem{
		ID: "nasi", Name: "Nasi Goreng", Price: 15000,
		Category: models.CategoryMakananUtama, IsAvailable: true,
	})
	store.SeedMenuItem(models.MenuItem{
		ID: "teh", Name: "Es Teh", Price: 5000,
		Category: models.CategoryMinuman, IsAvailable: true,
	})
	store.SeedMenuItem(models.MenuItem{
		ID: "soto", Name: "Soto Ayam", Price: 18000,
		Category: models.CategoryMakananUtama, IsAvailable: false,
	})
	return svc, store, notifier
}

func dineInRequest(table int, items ...models.OrderItemInput) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		OrderType:   string(models.OrderDineIn),
		TableNumber: &table,
		Items:       items,
	}
}

func TestCreate_SnapshotsNameAndPrice(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	order, err := svc.Create(ctx, dineInRequest(4,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 2},
		models.OrderItemInput{MenuItemID: "teh", Quantity: 1},
	), nil, "req")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.OrderNumber != 1 {
		t.Errorf("order number = %d, want 1", order.OrderNumber)
	}
	if order.TotalAmount != 35000 {
		t.Errorf("total = %d, want 35000", order.TotalAmount)
	}
	if order.Status != models.StatusPending || order.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("new order state = %s/%s, want pending/unpaid", order.Status, order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}
	if order.Items[0].Name != "Nasi Goreng" || order.Items[0].PriceAtOrder != 15000 {
		t.Errorf("item snapshot = %q/%d, want Nasi Goreng/15000", order.Items[0].Name, order.Items[0].PriceAtOrder)
	}
	if order.Items[0].Subtotal != 30000 {
		t.Errorf("subtotal = %d, want 30000", order.Items[0].Subtotal)
	}

	logs, _ := store.GetOrderLogs(ctx, order.ID)
	if len(logs) != 1 || logs[0].Action != models.ActionCreated {
		t.Errorf("expected one created log entry, got %v", logs)
	}

	if kinds := notifier.published(); len(kinds) != 1 || kinds[0] != models.NotifyNewOrder {
		t.Errorf("published = %v, want [new_order]", kinds)
	}
}

func TestCreate_UnavailableItemRejected(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dineInRequest(1,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 1},
		models.OrderItemInput{MenuItemID: "soto", Quantity: 1},
	), nil, "req")
	if !errors.Is(err, apperrors.ErrItemUnavailable) {
		t.Fatalf("err = %v, want ErrItemUnavailable", err)
	}

	orders, _ := store.ListOrders(ctx, storage.OrderFilter{})
	if len(orders) != 0 {
		t.Errorf("rejected create must write nothing, got %d orders", len(orders))
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	item := models.OrderItemInput{MenuItemID: "nasi", Quantity: 1}
	name := "Siti"

	tests := []struct {
		name string
		req  models.CreateOrderRequest
	}{
		{"unknown type", models.CreateOrderRequest{OrderType: "takeaway", Items: []models.OrderItemInput{item}}},
		{"dine-in without table", models.CreateOrderRequest{OrderType: "dine-in", Items: []models.OrderItemInput{item}}},
		{"online without customer", models.CreateOrderRequest{OrderType: "online", Items: []models.OrderItemInput{item}}},
		{"no items", models.CreateOrderRequest{OrderType: "online", CustomerName: &name}},
		{"zero quantity", models.CreateOrderRequest{OrderType: "online", CustomerName: &name,
			Items: []models.OrderItemInput{{MenuItemID: "nasi", Quantity: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), &tt.req, nil, "req"); !apperrors.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreate_ConcurrentNumbersAreGapless(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	const n = 50
	numbers := make(chan int, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.Create(ctx, dineInRequest(2,
				models.OrderItemInput{MenuItemID: "teh", Quantity: 1},
			), nil, fmt.Sprintf("req-%d", i))
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			numbers <- order.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool)
	for num := range numbers {
		if seen[num] {
			t.Errorf("order number %d issued twice", num)
		}
		seen[num] = true
	}
	for i := 1; i <= len(seen); i++ {
		if !seen[i] {
			t.Errorf("order number %d missing, sequence must be dense", i)
		}
	}
}

func TestReplaceItems(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	order, err := svc.Create(ctx, dineInRequest(3,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 1},
	), nil, "req")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.ReplaceItems(ctx, order.ID, &models.UpdateOrderItemsRequest{
		Items: []models.OrderItemInput{{MenuItemID: "teh", Quantity: 3}},
	}, nil, "req")
	if err != nil {
		t.Fatalf("replace items: %v", err)
	}
	if updated.TotalAmount != 15000 {
		t.Errorf("total = %d, want 15000", updated.TotalAmount)
	}

	items, _ := store.GetOrderItems(ctx, order.ID)
	if len(items) != 1 || items[0].Name != "Es Teh" {
		t.Errorf("items = %v, want single Es Teh line", items)
	}

	logs, _ := store.GetOrderLogs(ctx, order.ID)
	var foundUpdate bool
	for _, l := range logs {
		if l.Action == models.ActionUpdated {
			foundUpdate = true
			if l.OldValue == nil || l.NewValue == nil {
				t.Error("updated log must carry old and new totals")
			}
		}
	}
	if !foundUpdate {
		t.Error("missing updated log entry")
	}

	kinds := notifier.published()
	if kinds[len(kinds)-1] != models.NotifyOrderUpdated {
		t.Errorf("last published = %s, want order_updated", kinds[len(kinds)-1])
	}
}

func TestReplaceItems_ClosedOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	order, err := svc.Create(ctx, dineInRequest(1,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 1},
	), nil, "req")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []string{"completed", "cancelled"} {
		if _, err := svc.ChangeStatus(ctx, order.ID, &models.ChangeStatusRequest{Status: status}, nil, "req"); err != nil {
			t.Fatalf("change status: %v", err)
		}
		_, err := svc.ReplaceItems(ctx, order.ID, &models.UpdateOrderItemsRequest{
			Items: []models.OrderItemInput{{MenuItemID: "teh", Quantity: 1}},
		}, nil, "req")
		if !errors.Is(err, apperrors.ErrOrderClosed) {
			t.Errorf("status %s: err = %v, want ErrOrderClosed", status, err)
		}
	}
}

func TestChangeStatus_StampsPhaseOnce(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	order, err := svc.Create(ctx, dineInRequest(5,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 1},
	), nil, "req")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ChangeStatus(ctx, order.ID, &models.ChangeStatusRequest{Status: "ready"}, nil, "req"); err != nil {
		t.Fatalf("to ready: %v", err)
	}
	first, _ := store.GetOrder(ctx, order.ID)
	if first.ReadyAt == nil {
		t.Fatal("ready timestamp not stamped")
	}
	firstReady := *first.ReadyAt

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.ChangeStatus(ctx, order.ID, &models.ChangeStatusRequest{Status: "processing"}, nil, "req"); err != nil {
		t.Fatalf("back to processing: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, order.ID, &models.ChangeStatusRequest{Status: "ready"}, nil, "req"); err != nil {
		t.Fatalf("to ready again: %v", err)
	}

	again, _ := store.GetOrder(ctx, order.ID)
	if !again.ReadyAt.Equal(firstReady) {
		t.Error("re-entering ready must keep the first timestamp")
	}

	readyCount := 0
	for _, kind := range notifier.published() {
		if kind == models.NotifyOrderReady {
			readyCount++
		}
	}
	if readyCount != 2 {
		t.Errorf("ready notifications = %d, want 2", readyCount)
	}

	if _, err := svc.ChangeStatus(ctx, order.ID, &models.ChangeStatusRequest{Status: "burnt"}, nil, "req"); !apperrors.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestGet_NestsItemsPaymentsLogs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, dineInRequest(2,
		models.OrderItemInput{MenuItemID: "nasi", Quantity: 1},
	), nil, "req")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	order, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(order.Items) != 1 {
		t.Errorf("items = %d, want 1", len(order.Items))
	}
	if len(order.Logs) != 1 {
		t.Errorf("logs = %d, want 1", len(order.Logs))
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListActive_Ordering(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		order, err := svc.Create(ctx, dineInRequest(i+1,
			models.OrderItemInput{MenuItemID: "teh", Quantity: 1},
		), nil, "req")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, order.ID)
	}

	// Middle order moves to ready, last one completes and drops out.
	if _, err := svc.ChangeStatus(ctx, ids[1], &models.ChangeStatusRequest{Status: "ready"}, nil, "req"); err != nil {
		t.Fatalf("change status: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, ids[2], &models.ChangeStatusRequest{Status: "completed"}, nil, "req"); err != nil {
		t.Fatalf("change status: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
	if active[0].ID != ids[0] || active[1].ID != ids[1] {
		t.Error("pending orders must sort before ready ones")
	}
}

