package database

import (
	"context"
	"fmt"

	"warung-pos/internal/models"
)

// Reporting queries run read-only over committed state; they never join a
// mutation transaction.

// DailyReport aggregates one calendar day (YYYY-MM-DD).
func (db *DB) DailyReport(ctx context.Context, date string) (*models.DailyReport, error) {
	report := &models.DailyReport{Date: date}

	err := db.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(total_amount), 0)::bigint,
			COALESCE(AVG(total_amount), 0)::bigint
		FROM orders
		WHERE DATE(order_created_at) = $1 AND status = 'completed'
	`, date).Scan(&report.Summary.TotalTransactions, &report.Summary.TotalSales, &report.Summary.AvgOrderValue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	rows, err := db.Query(ctx, `
		SELECT p.payment_method, COUNT(*)::int, SUM(p.amount)::bigint
		FROM payments p
		JOIN orders o ON p.order_id = o.id
		WHERE DATE(o.order_created_at) = $1
		GROUP BY p.payment_method
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b models.PaymentBreakdown
		if err := rows.Scan(&b.Method, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan payment breakdown: %w", err)
		}
		report.PaymentBreakdown = append(report.PaymentBreakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(ctx, `
		SELECT mi.name, mi.category, SUM(oi.quantity)::int, SUM(oi.subtotal)::bigint
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		WHERE DATE(o.order_created_at) = $1 AND o.status = 'completed'
		GROUP BY mi.id, mi.name, mi.category
		ORDER BY SUM(oi.quantity) DESC
		LIMIT 10
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.TopItem
		if err := rows.Scan(&t.Name, &t.Category, &t.TotalQty, &t.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		report.TopItems = append(report.TopItems, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.QueryRow(ctx, `
		SELECT COUNT(*)::int, COALESCE(SUM(amount), 0)::bigint
		FROM debts WHERE status = 'unpaid'
	`).Scan(&report.Debts.TotalDebts, &report.Debts.TotalDebtAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate debts: %w", err)
	}

	rows, err = db.Query(ctx, `
		SELECT to_char(order_created_at, 'HH24'), COUNT(*)::int
		FROM orders
		WHERE DATE(order_created_at) = $1 AND status != 'cancelled'
		GROUP BY to_char(order_created_at, 'HH24')
		ORDER BY COUNT(*) DESC
		LIMIT 5
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate peak hours: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.PeakHour
		if err := rows.Scan(&p.Hour, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan peak hour: %w", err)
		}
		report.PeakHours = append(report.PeakHours, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(ctx, `
		SELECT order_type, COUNT(*)::int, SUM(total_amount)::bigint
		FROM orders
		WHERE DATE(order_created_at) = $1 AND status = 'completed'
		GROUP BY order_type
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.TypeBreakdown
		if err := rows.Scan(&t.OrderType, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan type breakdown: %w", err)
		}
		report.OrderTypeBreakdown = append(report.OrderTypeBreakdown, t)
	}
	return report, rows.Err()
}

// SalesReport aggregates completed orders between two dates, grouped daily,
// weekly or monthly.
func (db *DB) SalesReport(ctx context.Context, from, to, period string) (*models.SalesReport, error) {
	var groupBy string
	switch period {
	case "weekly":
		groupBy = `to_char(order_created_at, 'IYYY-"W"IW')`
	case "monthly":
		groupBy = `to_char(order_created_at, 'YYYY-MM')`
	default:
		period = "daily"
		groupBy = `DATE(order_created_at)::text`
	}

	rows, err := db.Query(ctx, fmt.Sprintf(`
		SELECT %s, COUNT(*)::int, SUM(total_amount)::bigint, AVG(total_amount)::bigint
		FROM orders
		WHERE DATE(order_created_at) BETWEEN $1 AND $2 AND status = 'completed'
		GROUP BY %s
		ORDER BY 1 ASC
	`, groupBy, groupBy), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales report: %w", err)
	}
	defer rows.Close()

	report := &models.SalesReport{From: from, To: to, Period: period}
	for rows.Next() {
		var p models.SalesPeriod
		if err := rows.Scan(&p.Period, &p.TotalTransactions, &p.TotalSales, &p.AvgOrderValue); err != nil {
			return nil, fmt.Errorf("failed to scan sales period: %w", err)
		}
		report.Data = append(report.Data, p)
	}
	return report, rows.Err()
}

// MenuPerformanceReport returns sold quantity and revenue per menu item in
// the given date range, best sellers first.
func (db *DB) MenuPerformanceReport(ctx context.Context, from, to string) ([]models.MenuPerformance, error) {
	rows, err := db.Query(ctx, `
		SELECT mi.id, mi.name, mi.category, mi.price,
			COALESCE(SUM(oi.quantity), 0)::int,
			COALESCE(SUM(oi.subtotal), 0)::bigint
		FROM menu_items mi
		LEFT JOIN order_items oi ON mi.id = oi.menu_item_id
		LEFT JOIN orders o ON oi.order_id = o.id
			AND DATE(o.order_created_at) BETWEEN $1 AND $2 AND o.status = 'completed'
		GROUP BY mi.id, mi.name, mi.category, mi.price
		ORDER BY COALESCE(SUM(oi.quantity), 0) DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate menu performance: %w", err)
	}
	defer rows.Close()

	var performance []models.MenuPerformance
	for rows.Next() {
		var m models.MenuPerformance
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.TotalSold, &m.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan menu performance: %w", err)
		}
		performance = append(performance, m)
	}
	return performance, rows.Err()
}
