package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prajwalbasnet/kinmel-backend/api/controllers"
	"github.com/prajwalbasnet/kinmel-backend/api/middleware"
	"github.com/prajwalbasnet/kinmel-backend/internal/address"
	"github.com/prajwalbasnet/kinmel-backend/internal/auth"
	"github.com/prajwalbasnet/kinmel-backend/internal/cart"
	"github.com/prajwalbasnet/kinmel-backend/internal/catalog"
	"github.com/prajwalbasnet/kinmel-backend/internal/dashboard"
	"github.com/prajwalbasnet/kinmel-backend/internal/orders"
	"github.com/prajwalbasnet/kinmel-backend/internal/reviews"
	"github.com/prajwalbasnet/kinmel-backend/internal/wishlist"
	"github.com/prajwalbasnet/kinmel-backend/pkg/auth/session"
	"github.com/prajwalbasnet/kinmel-backend/pkg/config"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db"
	"github.com/prajwalbasnet/kinmel-backend/pkg/logger"
	"github.com/prajwalbasnet/kinmel-backend/pkg/metrics"
	"github.com/prajwalbasnet/kinmel-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth      auth.Service
	Address   address.Service
	Catalog   catalog.Service
	Reviews   reviews.Service
	Cart      cart.Service
	Wishlist  wishlist.Service
	Orders    orders.Service
	Dashboard dashboard.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		authed := middleware.Auth(cfg.JWT, sessions, logg)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Get("/{slug}", controllers.ProductGet(svcs.Catalog, logg))
			r.Get("/{productId}/reviews", controllers.ReviewList(svcs.Reviews, logg))
			r.With(authed).Post("/{productId}/reviews", controllers.ReviewCreate(svcs.Reviews, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Catalog, logg))
			r.Get("/{slug}", controllers.CategoryGet(svcs.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Post("/auth/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Get("/auth/me", controllers.AuthMe(svcs.Auth, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(svcs.Address, logg))
				r.Post("/", controllers.AddressCreate(svcs.Address, logg))
				r.Get("/{addressId}", controllers.AddressGet(svcs.Address, logg))
				r.Patch("/{addressId}", controllers.AddressUpdate(svcs.Address, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(svcs.Address, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(svcs.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistGet(svcs.Wishlist, logg))
				r.Post("/items", controllers.WishlistAddItem(svcs.Wishlist, logg))
				r.Delete("/items/{productId}", controllers.WishlistRemoveItem(svcs.Wishlist, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderPlace(svcs.Orders, logg))
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
			})

			r.Delete("/reviews/{reviewId}", controllers.ReviewDelete(svcs.Reviews, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svcs.Catalog, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(svcs.Catalog, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(svcs.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(svcs.Catalog, logg))
		})
		r.Patch("/orders/{orderId}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.AdminDashboardStats(svcs.Dashboard, logg))
			r.Get("/sales-analytics", controllers.AdminSalesAnalytics(svcs.Dashboard, logg))
		})
	})

	return r
}
