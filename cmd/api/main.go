package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loomery-io/loomery-backend/api/routes"
	"github.com/loomery-io/loomery-backend/internal/auth"
	"github.com/loomery-io/loomery-backend/internal/background"
	checkoutsvc "github.com/loomery-io/loomery-backend/internal/checkout"
	"github.com/loomery-io/loomery-backend/internal/designs"
	"github.com/loomery-io/loomery-backend/internal/orders"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/internal/users"
	"github.com/loomery-io/loomery-backend/internal/wishlist"
	"github.com/loomery-io/loomery-backend/pkg/cache"
	"github.com/loomery-io/loomery-backend/pkg/config"
	"github.com/loomery-io/loomery-backend/pkg/db"
	"github.com/loomery-io/loomery-backend/pkg/logger"
	"github.com/loomery-io/loomery-backend/pkg/metrics"
	"github.com/loomery-io/loomery-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	redisStore, err := cache.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cache store", err)
		os.Exit(1)
	}
	appCache, err := cache.New(redisStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create cache", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	tierMetrics := metrics.NewTierMetrics(registry)

	catalog := tiers.DefaultCatalog()
	resolver := tiers.NewResolver(catalog)

	partiesRepo := parties.NewRepository(dbClient.DB())
	designsRepo := designs.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())

	maintainer, err := tiers.NewMaintainer(tiers.MaintainerParams{
		Catalog:  catalog,
		Parties:  partiesRepo,
		Orders:   ordersRepo,
		Location: cfg.Tier.Location(),
		Logger:   logg,
		Metrics:  tierMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tier maintainer", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	partyService, err := parties.NewService(partiesRepo, resolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create party service", err)
		os.Exit(1)
	}

	designService, err := designs.NewService(designsRepo, appCache, cfg.Cache.DesignListTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create design service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlistRepo, designsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	runner, err := background.NewRunner(logg, 30*time.Second)
	if err != nil {
		logg.Error(context.Background(), "failed to create background runner", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Parties:    partiesRepo,
		Designs:    designsRepo,
		Orders:     ordersRepo,
		Resolver:   resolver,
		Maintainer: maintainer,
		Runner:     runner,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Cache:         appCache,
			Registry:      registry,
			AuthService:   authService,
			PartyService:  partyService,
			DesignService: designService,
			OrderService:  orderService,
			Wishlist:      wishlistService,
			Checkout:      checkoutService,
			Maintainer:    maintainer,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
		if err := runner.Drain(shutdownCtx); err != nil {
			logg.Warn(ctx, "background tasks did not finish before shutdown")
		}
	}
}
