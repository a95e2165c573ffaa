package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loomery-io/loomery-backend/internal/cron"
	"github.com/loomery-io/loomery-backend/internal/orders"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/config"
	"github.com/loomery-io/loomery-backend/pkg/db"
	"github.com/loomery-io/loomery-backend/pkg/logger"
	"github.com/loomery-io/loomery-backend/pkg/metrics"
	"github.com/loomery-io/loomery-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "tier-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "tier-worker",
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

	tierMetrics := metrics.NewTierMetrics(prometheus.DefaultRegisterer)
	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	maintainer, err := tiers.NewMaintainer(tiers.MaintainerParams{
		Catalog:  tiers.DefaultCatalog(),
		Parties:  parties.NewRepository(dbClient.DB()),
		Orders:   orders.NewRepository(dbClient.DB()),
		Location: cfg.Tier.Location(),
		Logger:   logg,
		Metrics:  tierMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tier maintainer", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewTierRefreshJob(maintainer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tier refresh job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("tier-worker"), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{refreshJob},
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting tier worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "tier worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "tier worker shutting down gracefully")
}
