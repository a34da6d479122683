package models

import (
	"fmt"
	"time"

	"warung-pos/internal/apperrors"
)

// PaymentMethod is the fixed set of payment methods. Hutang defers cash
// collection and produces a debt record.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodQRIS     PaymentMethod = "qris"
	MethodHutang   PaymentMethod = "hutang"
)

// ValidPaymentMethod reports whether m is one of the enumerated methods.
func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case MethodCash, MethodTransfer, MethodQRIS, MethodHutang:
		return true
	}
	return false
}

// Payment is one recorded installment against an order. Immutable once
// created.
type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	Amount      int64         `json:"amount"`
	Method      PaymentMethod `json:"payment_method"`
	ProofURL    *string       `json:"payment_proof_url,omitempty"`
	PaymentTime time.Time     `json:"payment_time"`
	Notes       *string       `json:"notes,omitempty"`
}

// DebtStatus is the state of a credit obligation.
type DebtStatus string

const (
	DebtUnpaid DebtStatus = "unpaid"
	DebtPaid   DebtStatus = "paid"
)

// Debt is an outstanding or resolved credit obligation tied to one order
// and one hutang payment.
type Debt struct {
	ID           string     `json:"id"`
	OrderID      string     `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	Amount       int64      `json:"amount"`
	Status       DebtStatus `json:"status"`
	DebtDate     time.Time  `json:"debt_date"`
	PaidDate     *time.Time `json:"paid_date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// DebtWithOrder is a debt joined with display fields of its order.
type DebtWithOrder struct {
	Debt
	OrderNumber int       `json:"order_number"`
	OrderType   OrderType `json:"order_type"`
	TableNumber *int      `json:"table_number,omitempty"`
}

// PaymentInput is one entry of a settlement batch.
type PaymentInput struct {
	Amount   int64   `json:"amount"`
	Method   string  `json:"payment_method"`
	ProofURL *string `json:"payment_proof_url,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// SettleRequest is the payload for settling an order.
type SettleRequest struct {
	OrderID  string         `json:"order_id"`
	Payments []PaymentInput `json:"payments"`
}

// Validate checks the settlement batch before any write begins.
func (r *SettleRequest) Validate() error {
	if r.OrderID == "" {
		return apperrors.Validation("order_id", "order id is required")
	}
	if len(r.Payments) == 0 {
		return apperrors.Validation("payments", "payments cannot be empty")
	}
	for i, p := range r.Payments {
		if p.Amount <= 0 {
			return apperrors.Validation(fmt.Sprintf("payments[%d].amount", i), "amount must be greater than 0")
		}
		if !ValidPaymentMethod(p.Method) {
			return apperrors.Validation(fmt.Sprintf("payments[%d].payment_method", i), "payment method must be one of: cash, transfer, qris, hutang")
		}
	}
	return nil
}

// SettlementResult is returned after applying a settlement batch.
type SettlementResult struct {
	Message       string        `json:"message"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   int64         `json:"total_amount"`
	TotalPaid     int64         `json:"total_paid"`
	Change        int64         `json:"change"`
	Payments      []Payment     `json:"payments"`
}
