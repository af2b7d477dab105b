package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prajwalbasnet/kinmel-backend/api"
	"github.com/prajwalbasnet/kinmel-backend/api/routes"
	"github.com/prajwalbasnet/kinmel-backend/internal/address"
	"github.com/prajwalbasnet/kinmel-backend/internal/auth"
	"github.com/prajwalbasnet/kinmel-backend/internal/cart"
	"github.com/prajwalbasnet/kinmel-backend/internal/catalog"
	"github.com/prajwalbasnet/kinmel-backend/internal/dashboard"
	"github.com/prajwalbasnet/kinmel-backend/internal/orders"
	"github.com/prajwalbasnet/kinmel-backend/internal/reviews"
	"github.com/prajwalbasnet/kinmel-backend/internal/users"
	"github.com/prajwalbasnet/kinmel-backend/internal/wishlist"
	"github.com/prajwalbasnet/kinmel-backend/pkg/auth/session"
	"github.com/prajwalbasnet/kinmel-backend/pkg/config"
	"github.com/prajwalbasnet/kinmel-backend/pkg/db"
	"github.com/prajwalbasnet/kinmel-backend/pkg/logger"
	"github.com/prajwalbasnet/kinmel-backend/pkg/migrate"
	"github.com/prajwalbasnet/kinmel-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svcs)
	server := api.NewServer(addr, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, sessionManager *session.Manager) (routes.Services, error) {
	gdb := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	addressRepo := address.NewRepository(gdb)
	addressService, err := address.NewService(address.ServiceParams{Repo: addressRepo})
	if err != nil {
		return routes.Services{}, err
	}

	catalogRepo := catalog.NewRepository(gdb)
	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		return routes.Services{}, err
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:     reviews.NewRepository(gdb),
		Products: catalogRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(gdb),
		Products: catalogRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(gdb),
		Products: catalogRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:           orders.NewRepository(gdb),
		Addresses:      addressRepo,
		Products:       catalogRepo,
		DeliveryCharge: cfg.Checkout.DeliveryCharge(),
	})
	if err != nil {
		return routes.Services{}, err
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:     dashboard.NewRepository(gdb),
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:      authService,
		Address:   addressService,
		Catalog:   catalogService,
		Reviews:   reviewService,
		Cart:      cartService,
		Wishlist:  wishlistService,
		Orders:    orderService,
		Dashboard: dashboardService,
	}, nil
}
