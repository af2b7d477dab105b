package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	"github.com/prajwalbasnet/kinmel-backend/pkg/enums"
)

// Repository runs the dashboard aggregate queries and the cache table reads
// and writes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCache returns the cached report row for the key, or nil when absent.
func (r *Repository) GetCache(ctx context.Context, key string) (*models.DashboardCache, error) {
	var row models.DashboardCache
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// PutCache upserts the cached report. Last write wins.
func (r *Repository) PutCache(ctx context.Context, key, value string, at time.Time) error {
	row := models.DashboardCache{Key: key, Value: value, LastUpdated: at}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "last_updated"}),
		}).
		Create(&row).Error
}

func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountCustomers counts non-staff accounts.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_staff = ?", false).
		Count(&count).Error
	return count, err
}

func (r *Repository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// RecentOrders returns the latest orders joined with customer names.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	type row struct {
		ID        string
		FirstName string
		LastName  string
		Total     decimal.Decimal
		Status    string
		CreatedAt time.Time
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id AS id, users.first_name AS first_name, users.last_name AS last_name, orders.total_amount AS total, orders.status AS status, orders.created_at AS created_at").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]RecentOrder, 0, len(rows))
	for _, row := range rows {
		user := models.User{FirstName: row.FirstName, LastName: row.LastName}
		out = append(out, RecentOrder{
			ID:           parseUUID(row.ID),
			CustomerName: user.FullName(),
			Total:        row.Total,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}

// SalesOverTime buckets order totals per calendar day since the cutoff.
func (r *Repository) SalesOverTime(ctx context.Context, since time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("DATE(created_at) AS day, SUM(total_amount) AS total, COUNT(*) AS order_count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by order-line count.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	type row struct {
		ProductID string
		Name      string
		Ordered   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, products.name AS name, COUNT(*) AS ordered").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("ordered DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopProduct{
			ProductID: parseUUID(row.ProductID),
			Name:      row.Name,
			Ordered:   row.Ordered,
		})
	}
	return out, nil
}

// CustomerGrowth buckets signups per calendar day since the cutoff.
func (r *Repository) CustomerGrowth(ctx context.Context, since time.Time) ([]DailyCustomers, error) {
	var rows []DailyCustomers
	err := r.db.WithContext(ctx).
		Table("users").
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ? AND is_staff = ?", since, false).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByCategory aggregates paid-for order lines per category over the
// trailing window.
func (r *Repository) SalesByCategory(ctx context.Context, since time.Time) ([]CategorySales, error) {
	var rows []CategorySales
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("categories.name AS category, SUM(products.price * order_items.quantity) AS total, COUNT(DISTINCT order_items.order_id) AS orders").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ?", since).
		Group("categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByPaymentMethod aggregates order totals per payment method over the
// trailing window.
func (r *Repository) SalesByPaymentMethod(ctx context.Context, since time.Time) ([]PaymentMethodSales, error) {
	type row struct {
		Method enums.PaymentMethod
		Total  decimal.Decimal
		Orders int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("payment_method AS method, SUM(total_amount) AS total, COUNT(*) AS orders").
		Where("created_at >= ?", since).
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]PaymentMethodSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, PaymentMethodSales{
			Method: row.Method.String(),
			Total:  row.Total,
			Orders: row.Orders,
		})
	}
	return out, nil
}

func parseUUID(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
