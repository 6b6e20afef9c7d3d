package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swifthaul/swifthaul-backend/api/routes"
	"github.com/swifthaul/swifthaul-backend/internal/auth"
	"github.com/swifthaul/swifthaul-backend/internal/documents"
	"github.com/swifthaul/swifthaul-backend/internal/drivers"
	"github.com/swifthaul/swifthaul-backend/internal/fleet"
	"github.com/swifthaul/swifthaul-backend/internal/notifications"
	"github.com/swifthaul/swifthaul-backend/internal/shipments"
	"github.com/swifthaul/swifthaul-backend/internal/vehicletypes"
	"github.com/swifthaul/swifthaul-backend/pkg/auth/session"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/db"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
	"github.com/swifthaul/swifthaul-backend/pkg/metrics"
	"github.com/swifthaul/swifthaul-backend/pkg/migrate"
	"github.com/swifthaul/swifthaul-backend/pkg/otp"
	"github.com/swifthaul/swifthaul-backend/pkg/redis"
	"github.com/swifthaul/swifthaul-backend/pkg/storage/local"
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
	otpManager, err := otp.NewManager(redisClient, cfg.OTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create otp manager", err)
		os.Exit(1)
	}
	documentStore, err := local.NewStore(cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create document store", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	authRepo := auth.NewRepository(gormDB)
	shipmentsRepo := shipments.NewRepository(gormDB)
	driversRepo := drivers.NewRepository(gormDB)
	documentsRepo := documents.NewRepository(gormDB)
	vehicleTypesRepo := vehicletypes.NewRepository(gormDB)
	fleetRepo := fleet.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)

	vehicleTypesService, err := vehicletypes.NewService(vehicleTypesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicle types service", err)
		os.Exit(1)
	}
	driversService, err := drivers.NewService(driversRepo, vehicleTypesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create drivers service", err)
		os.Exit(1)
	}
	documentsService, err := documents.NewService(documentsRepo, driversRepo, documentStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}
	fleetService, err := fleet.NewService(fleetRepo, driversRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create fleet service", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(notificationsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	shipmentsService, err := shipments.NewService(
		shipmentsRepo,
		dbClient,
		vehicleTypesService,
		driversRepo,
		fleetService,
		notificationsService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(authRepo, driversRepo, otpManager, sessionManager, cfg.JWT, cfg.OTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, routes.Services{
			Auth:          authService,
			Shipments:     shipmentsService,
			Drivers:       driversService,
			Documents:     documentsService,
			VehicleTypes:  vehicleTypesService,
			Fleet:         fleetService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
