package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
)

const (
	statsCacheKey     = "dashboard_stats"
	analyticsCacheKey = "sales_analytics"

	salesWindowDays    = 30
	recentOrdersLimit  = 10
	topProductsLimit   = 5
	defaultAnalyticsPd = 30
)

// Service defines the behavior needed by the admin dashboard controller.
// Reports are returned as raw JSON so cached values round-trip verbatim.
type Service interface {
	Stats(ctx context.Context) (json.RawMessage, error)
	SalesAnalytics(ctx context.Context, periodDays int) (json.RawMessage, error)
}

type repository interface {
	GetCache(ctx context.Context, key string) (*models.DashboardCache, error)
	PutCache(ctx context.Context, key, value string, at time.Time) error

	CountOrders(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
	SalesOverTime(ctx context.Context, since time.Time) ([]DailySales, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	CustomerGrowth(ctx context.Context, since time.Time) ([]DailyCustomers, error)
	SalesByCategory(ctx context.Context, since time.Time) ([]CategorySales, error)
	SalesByPaymentMethod(ctx context.Context, since time.Time) ([]PaymentMethodSales, error)
}

type service struct {
	repo repository
	ttl  time.Duration
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build a dashboard
// service.
type ServiceParams struct {
	Repo     repository
	CacheTTL time.Duration
	Now      func() time.Time
}

// NewService constructs a dashboard service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("dashboard repository is required")
	}
	if params.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, ttl: params.CacheTTL, now: now}, nil
}

func (s *service) Stats(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, statsCacheKey, func() (any, error) {
		return s.computeStats(ctx)
	})
}

func (s *service) SalesAnalytics(ctx context.Context, periodDays int) (json.RawMessage, error) {
	if periodDays <= 0 {
		periodDays = defaultAnalyticsPd
	}
	return s.cached(ctx, analyticsCacheKey, func() (any, error) {
		return s.computeAnalytics(ctx, periodDays)
	})
}

// cached is the read-through path: a fresh cache row is returned verbatim,
// otherwise the report is recomputed, stored and returned. Concurrent
// refreshes race benignly; the last write wins.
func (s *service) cached(ctx context.Context, key string, compute func() (any, error)) (json.RawMessage, error) {
	now := s.now()

	row, err := s.repo.GetCache(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read dashboard cache")
	}
	if row != nil && now.Sub(row.LastUpdated) < s.ttl {
		return json.RawMessage(row.Value), nil
	}

	report, err := compute()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode dashboard report")
	}
	if err := s.repo.PutCache(ctx, key, string(payload), now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store dashboard cache")
	}
	return payload, nil
}

func (s *service) computeStats(ctx context.Context) (*Stats, error) {
	now := s.now()
	since := now.AddDate(0, 0, -salesWindowDays)

	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	customers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent orders")
	}
	sales, err := s.repo.SalesOverTime(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sales over time")
	}
	top, err := s.repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load top products")
	}
	growth, err := s.repo.CustomerGrowth(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer growth")
	}

	return &Stats{
		TotalOrders:    orders,
		TotalProducts:  products,
		TotalCustomers: customers,
		TotalRevenue:   revenue,
		RecentOrders:   recent,
		SalesOverTime:  sales,
		TopProducts:    top,
		CustomerGrowth: growth,
		GeneratedAt:    now,
	}, nil
}

func (s *service) computeAnalytics(ctx context.Context, periodDays int) (*SalesAnalytics, error) {
	now := s.now()
	since := now.AddDate(0, 0, -periodDays)

	byCategory, err := s.repo.SalesByCategory(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category sales")
	}
	byMethod, err := s.repo.SalesByPaymentMethod(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment method sales")
	}

	return &SalesAnalytics{
		PeriodDays:      periodDays,
		ByCategory:      byCategory,
		ByPaymentMethod: byMethod,
		GeneratedAt:     now,
	}, nil
}
