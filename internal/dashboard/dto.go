package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentOrder is a compact row for the dashboard's latest-orders table.
type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DailySales is one day's order volume.
type DailySales struct {
	Day        string          `json:"day"`
	Total      decimal.Decimal `json:"total"`
	OrderCount int64           `json:"order_count"`
}

// TopProduct ranks a product by how many order lines reference it.
type TopProduct struct {
	ProductID uuid.UUID `json:"product"`
	Name      string    `json:"name"`
	Ordered   int64     `json:"ordered"`
}

// DailyCustomers is one day's signup count.
type DailyCustomers struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Stats is the full dashboard report.
type Stats struct {
	TotalOrders    int64            `json:"total_orders"`
	TotalProducts  int64            `json:"total_products"`
	TotalCustomers int64            `json:"total_customers"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	RecentOrders   []RecentOrder    `json:"recent_orders"`
	SalesOverTime  []DailySales     `json:"sales_over_time"`
	TopProducts    []TopProduct     `json:"top_products"`
	CustomerGrowth []DailyCustomers `json:"customer_growth"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// CategorySales aggregates revenue per product category.
type CategorySales struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Orders   int64           `json:"orders"`
}

// PaymentMethodSales aggregates revenue per payment method.
type PaymentMethodSales struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Orders int64           `json:"orders"`
}

// SalesAnalytics is the analytics report over a trailing period.
type SalesAnalytics struct {
	PeriodDays      int                  `json:"period_days"`
	ByCategory      []CategorySales      `json:"by_category"`
	ByPaymentMethod []PaymentMethodSales `json:"by_payment_method"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
