package notification

import (
	"fmt"
	"strconv"
	"strings"

	"warung-pos/internal/models"
)

// formatRupiah renders an amount like "Rp 15.000" with dot thousand
// separators.
func formatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if negative {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

func location(n *models.OrderNotification) string {
	if n.OrderType == models.OrderDineIn && n.TableNumber != nil {
		return fmt.Sprintf("📍 Meja %d", *n.TableNumber)
	}
	return "📍 Online/Takeaway"
}

// formatNotification renders one display message for a kitchen or cashier
// screen.
func formatNotification(n *models.OrderNotification) string {
	var b strings.Builder

	switch n.Kind {
	case models.NotifyNewOrder:
		fmt.Fprintf(&b, "🔔 PESANAN BARU! #%d\n\n", n.OrderNumber)
		fmt.Fprintf(&b, "%s | ⏰ %s\n", location(n), n.Timestamp.Format("15:04"))
		if n.CustomerName != nil && *n.CustomerName != "" {
			fmt.Fprintf(&b, "👤 %s\n", *n.CustomerName)
		}
		b.WriteString("\n📋 Pesanan:\n")
		for _, item := range n.Items {
			fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
		}
		if n.Notes != nil && *n.Notes != "" {
			fmt.Fprintf(&b, "\n📝 Catatan: %s", *n.Notes)
		}

	case models.NotifyOrderUpdated:
		fmt.Fprintf(&b, "✏️ PESANAN DIUPDATE! #%d\n\n", n.OrderNumber)
		if n.TableNumber != nil {
			fmt.Fprintf(&b, "📍 Meja %d\n", *n.TableNumber)
		}
		b.WriteString("\n📋 Pesanan terbaru:\n")
		for _, item := range n.Items {
			fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
		}
		if n.Notes != nil && *n.Notes != "" {
			fmt.Fprintf(&b, "\n📝 Catatan: %s", *n.Notes)
		}

	case models.NotifyOrderReady:
		fmt.Fprintf(&b, "✅ Pesanan Siap! #%d\n\n", n.OrderNumber)
		fmt.Fprintf(&b, "%s\n", location(n))
		b.WriteString("Pesanan sudah siap disajikan\n")
		fmt.Fprintf(&b, "Total: %s", formatRupiah(n.TotalAmount))

	default:
		fmt.Fprintf(&b, "📋 Pesanan #%d: %s", n.OrderNumber, n.Kind)
	}

	return b.String()
}
