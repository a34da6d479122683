package models

import (
	"testing"

	"warung-pos/internal/apperrors"
)

func TestSettleRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SettleRequest
		wantErr bool
	}{
		{"valid single cash", SettleRequest{OrderID: "o1",
			Payments: []PaymentInput{{Amount: 10000, Method: "cash"}}}, false},
		{"valid mixed batch", SettleRequest{OrderID: "o1",
			Payments: []PaymentInput{
				{Amount: 10000, Method: "transfer"},
				{Amount: 5000, Method: "hutang"},
			}}, false},
		{"missing order id", SettleRequest{
			Payments: []PaymentInput{{Amount: 10000, Method: "cash"}}}, true},
		{"empty payments", SettleRequest{OrderID: "o1"}, true},
		{"zero amount", SettleRequest{OrderID: "o1",
			Payments: []PaymentInput{{Amount: 0, Method: "cash"}}}, true},
		{"negative amount", SettleRequest{OrderID: "o1",
			Payments: []PaymentInput{{Amount: -500, Method: "cash"}}}, true},
		{"unknown method", SettleRequest{OrderID: "o1",
			Payments: []PaymentInput{{Amount: 100, Method: "bitcoin"}}}, true},
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

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{"cash", "transfer", "qris", "hutang"} {
		if !ValidPaymentMethod(m) {
			t.Errorf("method %q should be valid", m)
		}
	}
	for _, m := range []string{"", "CASH", "credit"} {
		if ValidPaymentMethod(m) {
			t.Errorf("method %q should be invalid", m)
		}
	}
}
