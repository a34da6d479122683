package notification

import (
	"strings"
	"testing"
	"time"

	"warung-pos/internal/models"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{15000, "Rp 15.000"},
		{1250000, "Rp 1.250.000"},
		{-7500, "Rp -7.500"},
	}
	for _, tt := range tests {
		if got := formatRupiah(tt.amount); got != tt.want {
			t.Errorf("formatRupiah(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatNotification_NewOrder(t *testing.T) {
	table := 7
	notes := "tanpa sambal"
	n := &models.OrderNotification{
		Kind:        models.NotifyNewOrder,
		OrderNumber: 12,
		OrderType:   models.OrderDineIn,
		TableNumber: &table,
		Items: []models.NotificationItem{
			{Name: "Nasi Goreng", Quantity: 2},
			{Name: "Es Teh", Quantity: 1},
		},
		Notes:     &notes,
		Timestamp: time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC),
	}

	msg := formatNotification(n)
	for _, want := range []string{
		"PESANAN BARU! #12",
		"Meja 7",
		"11:30",
		"2x Nasi Goreng",
		"1x Es Teh",
		"Catatan: tanpa sambal",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatNotification_OrderReady(t *testing.T) {
	n := &models.OrderNotification{
		Kind:        models.NotifyOrderReady,
		OrderNumber: 3,
		OrderType:   models.OrderOnline,
		TotalAmount: 45000,
		Timestamp:   time.Now(),
	}

	msg := formatNotification(n)
	for _, want := range []string{
		"Pesanan Siap! #3",
		"Online/Takeaway",
		"Rp 45.000",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatNotification_Updated(t *testing.T) {
	table := 2
	n := &models.OrderNotification{
		Kind:        models.NotifyOrderUpdated,
		OrderNumber: 8,
		OrderType:   models.OrderDineIn,
		TableNumber: &table,
		Items:       []models.NotificationItem{{Name: "Soto Ayam", Quantity: 1}},
		Timestamp:   time.Now(),
	}

	msg := formatNotification(n)
	if !strings.Contains(msg, "PESANAN DIUPDATE! #8") || !strings.Contains(msg, "1x Soto Ayam") {
		t.Errorf("unexpected message:\n%s", msg)
	}
}
