package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Avannubo/subirananadons-backend/internal/cron"
	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/internal/products"
	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/metrics"
	"github.com/Avannubo/subirananadons-backend/pkg/migrate"
	"github.com/Avannubo/subirananadons-backend/pkg/redis"
)

const lockNameFormat = "cron-worker:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	notificationRepo := notifications.NewRepository(dbClient)
	productRepo := products.NewRepository(dbClient)
	listRepo := registry.NewRepository(dbClient.DB())

	cleanupJob, err := cron.NewNotificationCleanupJob(notificationRepo, cfg.Cron.NotificationRetention, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	snapshotJob, err := cron.NewSnapshotRefreshJob(listRepo, productRepo, cfg.Cron.SnapshotMaxAge, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot refresh job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock := cron.NewLock(redisClient, lockName(cfg.App.Env), cfg.Cron.Interval)

	service, err := cron.NewService(
		[]cron.Job{cleanupJob, snapshotJob},
		lock,
		cfg.Cron.Interval,
		logg,
		metricsCollector,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	service.Start(ctx)

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockNameFormat, env)
}
