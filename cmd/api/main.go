package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Avannubo/subirananadons-backend/api/routes"
	"github.com/Avannubo/subirananadons-backend/internal/auth"
	"github.com/Avannubo/subirananadons-backend/internal/brands"
	"github.com/Avannubo/subirananadons-backend/internal/checkout"
	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/internal/orders"
	"github.com/Avannubo/subirananadons-backend/internal/products"
	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/internal/users"
	"github.com/Avannubo/subirananadons-backend/pkg/auth/session"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/metrics"
	"github.com/Avannubo/subirananadons-backend/pkg/migrate"
	"github.com/Avannubo/subirananadons-backend/pkg/redis"
)

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

	userRepo := users.NewRepository(dbClient)
	productRepo := products.NewRepository(dbClient)
	brandRepo := brands.NewRepository(dbClient)
	orderRepo := orders.NewRepository(dbClient)
	listRepo := registry.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient)

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	brandService, err := brands.NewService(brandRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create brand service", err)
		os.Exit(1)
	}

	registryService, err := registry.NewService(listRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create registry service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, notificationService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	checkoutStore := checkout.NewStore(dbClient, orderRepo, listRepo, productRepo)
	checkoutService, err := checkout.NewService(
		checkoutStore,
		productRepo,
		listRepo,
		userRepo,
		notificationService,
		cfg.Shop,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Handler: routes.New(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Sessions:   sessionManager,
			Auth:       authService,
			Checkout:   checkoutService,
			Orders:     orderService,
			Registry:   registryService,
			Products:   productService,
			Brands:     brandService,
			Metrics:    httpMetrics,
			Prometheus: prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
