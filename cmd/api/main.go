package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jubahomez/jubahomez-backend/api/routes"
	"github.com/jubahomez/jubahomez-backend/internal/admin"
	"github.com/jubahomez/jubahomez-backend/internal/analytics"
	"github.com/jubahomez/jubahomez-backend/internal/audit"
	"github.com/jubahomez/jubahomez-backend/internal/auth"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/media"
	"github.com/jubahomez/jubahomez-backend/internal/notifications"
	"github.com/jubahomez/jubahomez-backend/internal/photojobs"
	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/internal/viewings"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/db"
	"github.com/jubahomez/jubahomez-backend/pkg/logger"
	"github.com/jubahomez/jubahomez-backend/pkg/metrics"
	"github.com/jubahomez/jubahomez-backend/pkg/migrate"
	"github.com/jubahomez/jubahomez-backend/pkg/redis"
	"github.com/jubahomez/jubahomez-backend/pkg/storage"
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

	store, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.ThumbnailWidth)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	propertyRepo := properties.NewRepository(gdb)
	mediaRepo := media.NewRepository(gdb)
	viewingRepo := viewings.NewRepository(gdb)
	photoJobRepo := photojobs.NewRepository(gdb)
	notificationRepo := notifications.NewRepository(gdb)
	auditRepo := audit.NewRepository(gdb)
	adminRepo := admin.NewRepository(gdb)
	analyticsRepo := analytics.NewRepository(gdb)

	usersService, err := users.NewService(userRepo)
	exitOn(logg, "users service", err)
	authService, err := auth.NewService(userRepo, cfg.JWT, cfg.Password)
	exitOn(logg, "auth service", err)
	propertiesService, err := properties.NewService(propertyRepo)
	exitOn(logg, "properties service", err)
	mediaService, err := media.NewService(mediaRepo, propertyRepo, userRepo, store)
	exitOn(logg, "media service", err)
	viewingsService, err := viewings.NewService(viewingRepo, propertyRepo)
	exitOn(logg, "viewings service", err)
	photoJobsService, err := photojobs.NewService(photoJobRepo, propertyRepo)
	exitOn(logg, "photo jobs service", err)
	notificationsService, err := notifications.NewService(notificationRepo)
	exitOn(logg, "notifications service", err)
	auditService, err := audit.NewService(auditRepo)
	exitOn(logg, "audit service", err)
	adminService, err := admin.NewService(adminRepo, userRepo, propertyRepo)
	exitOn(logg, "admin service", err)
	analyticsService, err := analytics.NewService(analyticsRepo, propertyRepo, viewingRepo)
	exitOn(logg, "analytics service", err)

	dispatcher := events.NewDispatcher(auditService, notificationsService, logg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, metricsHandler, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Properties:    propertiesService,
			Media:         mediaService,
			Viewings:      viewingsService,
			PhotoJobs:     photoJobsService,
			Notifications: notificationsService,
			Analytics:     analyticsService,
			Admin:         adminService,
			Audit:         auditService,
			Dispatcher:    dispatcher,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
