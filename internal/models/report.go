package models

// SalesSummary aggregates completed orders of one day.
type SalesSummary struct {
	TotalTransactions int   `json:"total_transactions"`
	TotalSales        int64 `json:"total_sales"`
	AvgOrderValue     int64 `json:"avg_order_value"`
}

// PaymentBreakdown aggregates payments of one method.
type PaymentBreakdown struct {
	Method PaymentMethod `json:"payment_method"`
	Count  int           `json:"count"`
	Total  int64         `json:"total"`
}

// TopItem is one row of the best-seller list.
type TopItem struct {
	Name         string       `json:"name"`
	Category     MenuCategory `json:"category"`
	TotalQty     int          `json:"total_qty"`
	TotalRevenue int64        `json:"total_revenue"`
}

// DebtSummary aggregates outstanding debts.
type DebtSummary struct {
	TotalDebts      int   `json:"total_debts"`
	TotalDebtAmount int64 `json:"total_debt_amount"`
}

// PeakHour is one row of the busiest-hours list.
type PeakHour struct {
	Hour       string `json:"hour"`
	OrderCount int    `json:"order_count"`
}

// TypeBreakdown aggregates completed orders per order type.
type TypeBreakdown struct {
	OrderType OrderType `json:"order_type"`
	Count     int       `json:"count"`
	Total     int64     `json:"total"`
}

// DailyReport is the full daily sales report.
type DailyReport struct {
	Date               string             `json:"date"`
	Summary            SalesSummary       `json:"summary"`
	PaymentBreakdown   []PaymentBreakdown `json:"payment_breakdown"`
	TopItems           []TopItem          `json:"top_items"`
	Debts              DebtSummary        `json:"debts"`
	PeakHours          []PeakHour         `json:"peak_hours"`
	OrderTypeBreakdown []TypeBreakdown    `json:"order_type_breakdown"`
}

// SalesPeriod is one bucket of the sales-over-time report.
type SalesPeriod struct {
	Period            string `json:"period"`
	TotalTransactions int    `json:"total_transactions"`
	TotalSales        int64  `json:"total_sales"`
	AvgOrderValue     int64  `json:"avg_order_value"`
}

// SalesReport is the sales-over-time report.
type SalesReport struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Period string        `json:"period"`
	Data   []SalesPeriod `json:"data"`
}

// MenuPerformance is one row of the menu performance report.
type MenuPerformance struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     MenuCategory `json:"category"`
	Price        int64        `json:"price"`
	TotalSold    int          `json:"total_sold"`
	TotalRevenue int64        `json:"total_revenue"`
}
