package payment

import (
	"testing"

	"warung-pos/internal/models"
)

func TestComputeSettlement(t *testing.T) {
	tests := []struct {
		name        string
		totalAmount int64
		alreadyPaid int64
		batch       []models.PaymentInput
		wantStatus  models.PaymentStatus
		wantPaid    int64
		wantChange  int64
	}{
		{
			name:        "partial payment",
			totalAmount: 50000,
			batch:       []models.PaymentInput{{Amount: 30000, Method: "cash"}},
			wantStatus:  models.PaymentPartial,
			wantPaid:    30000,
			wantChange:  0,
		},
		{
			name:        "second installment completes",
			totalAmount: 50000,
			alreadyPaid: 30000,
			batch:       []models.PaymentInput{{Amount: 20000, Method: "cash"}},
			wantStatus:  models.PaymentPaid,
			wantPaid:    50000,
			wantChange:  0,
		},
		{
			name:        "overpayment returns change",
			totalAmount: 50000,
			batch:       []models.PaymentInput{{Amount: 60000, Method: "cash"}},
			wantStatus:  models.PaymentPaid,
			wantPaid:    60000,
			wantChange:  10000,
		},
		{
			name:        "exact payment",
			totalAmount: 50000,
			batch:       []models.PaymentInput{{Amount: 50000, Method: "qris"}},
			wantStatus:  models.PaymentPaid,
			wantPaid:    50000,
			wantChange:  0,
		},
		{
			name:        "mixed methods sum together",
			totalAmount: 75000,
			batch: []models.PaymentInput{
				{Amount: 50000, Method: "cash"},
				{Amount: 25000, Method: "hutang"},
			},
			wantStatus: models.PaymentPaid,
			wantPaid:   75000,
			wantChange: 0,
		},
		{
			name:        "mixed methods still short",
			totalAmount: 100000,
			batch: []models.PaymentInput{
				{Amount: 40000, Method: "transfer"},
				{Amount: 30000, Method: "cash"},
			},
			wantStatus: models.PaymentPartial,
			wantPaid:   70000,
			wantChange: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeSettlement(tt.totalAmount, tt.alreadyPaid, tt.batch)
			if got.status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.status, tt.wantStatus)
			}
			if got.totalPaid != tt.wantPaid {
				t.Errorf("totalPaid = %d, want %d", got.totalPaid, tt.wantPaid)
			}
			if got.change != tt.wantChange {
				t.Errorf("change = %d, want %d", got.change, tt.wantChange)
			}
		})
	}
}
