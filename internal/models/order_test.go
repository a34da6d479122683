package models

import (
	"testing"

	"warung-pos/internal/apperrors"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func validItems() []OrderItemInput {
	return []OrderItemInput{{MenuItemID: "m1", Quantity: 1}}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr bool
	}{
		{"valid dine-in", CreateOrderRequest{OrderType: "dine-in", TableNumber: intPtr(3), Items: validItems()}, false},
		{"valid online", CreateOrderRequest{OrderType: "online", CustomerName: strPtr("Ani"), Items: validItems()}, false},
		{"unknown type", CreateOrderRequest{OrderType: "delivery", Items: validItems()}, true},
		{"dine-in missing table", CreateOrderRequest{OrderType: "dine-in", Items: validItems()}, true},
		{"dine-in table zero", CreateOrderRequest{OrderType: "dine-in", TableNumber: intPtr(0), Items: validItems()}, true},
		{"online missing customer", CreateOrderRequest{OrderType: "online", Items: validItems()}, true},
		{"online empty customer", CreateOrderRequest{OrderType: "online", CustomerName: strPtr(""), Items: validItems()}, true},
		{"empty items", CreateOrderRequest{OrderType: "dine-in", TableNumber: intPtr(1)}, true},
		{"missing menu item id", CreateOrderRequest{OrderType: "dine-in", TableNumber: intPtr(1),
			Items: []OrderItemInput{{Quantity: 1}}}, true},
		{"zero quantity", CreateOrderRequest{OrderType: "dine-in", TableNumber: intPtr(1),
			Items: []OrderItemInput{{MenuItemID: "m1", Quantity: 0}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && !apperrors.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestChangeStatusRequestValidate(t *testing.T) {
	for _, status := range []string{"pending", "processing", "ready", "completed", "cancelled"} {
		if err := (&ChangeStatusRequest{Status: status}).Validate(); err != nil {
			t.Errorf("status %q: unexpected error %v", status, err)
		}
	}
	for _, status := range []string{"", "done", "PENDING"} {
		if err := (&ChangeStatusRequest{Status: status}).Validate(); !apperrors.IsValidation(err) {
			t.Errorf("status %q: err = %v, want validation error", status, err)
		}
	}
}

func TestOrderStatusClosed(t *testing.T) {
	closed := map[OrderStatus]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusReady:      false,
		StatusCompleted:  true,
		StatusCancelled:  true,
	}
	for status, want := range closed {
		if got := status.Closed(); got != want {
			t.Errorf("%s.Closed() = %v, want %v", status, got, want)
		}
	}
}

func TestStatusRank(t *testing.T) {
	if !(StatusRank(StatusPending) < StatusRank(StatusProcessing) &&
		StatusRank(StatusProcessing) < StatusRank(StatusReady)) {
		t.Error("active statuses must rank pending < processing < ready")
	}
}
