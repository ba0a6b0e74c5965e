package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/haven-pm/haven-pm/internal/app"
	"github.com/haven-pm/haven-pm/internal/appointments"
	"github.com/haven-pm/haven-pm/internal/auth"
	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/courtdates"
	"github.com/haven-pm/haven-pm/internal/geo"
	"github.com/haven-pm/haven-pm/internal/inspections"
	"github.com/haven-pm/haven-pm/internal/observability"
	"github.com/haven-pm/haven-pm/internal/platform/cache"
	"github.com/haven-pm/haven-pm/internal/platform/db"
	"github.com/haven-pm/haven-pm/internal/properties"
	"github.com/haven-pm/haven-pm/internal/shared"
	"github.com/haven-pm/haven-pm/internal/showings"
	"github.com/haven-pm/haven-pm/internal/tenants"
	"github.com/haven-pm/haven-pm/internal/users"
	"github.com/haven-pm/haven-pm/internal/workorders"
	"github.com/haven-pm/haven-pm/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "haven_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditLogger, logger)

	authzRepo := authz.NewRepository(dbpool)
	authzService := authz.NewService(authzRepo, auditLogger, logger)
	guard := authz.Middleware{Service: authzService, Profiles: usersService, Logger: logger}

	usersHandler := users.NewHandler(logger, usersService, guard)
	permissionsHandler := authz.NewHandler(logger, authzService, usersService, guard)

	geocoder := geo.NewClient(cfg.GeocoderURL, redisClient)

	propertiesRepo := properties.NewRepository(dbpool)
	propertiesService := properties.NewService(propertiesRepo, geocoder, logger)
	propertiesHandler := properties.NewHandler(logger, propertiesService, guard)

	tenantsRepo := tenants.NewRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo, propertiesRepo, logger)
	tenantsHandler := tenants.NewHandler(logger, tenantsService, guard)

	workOrdersRepo := workorders.NewRepository(dbpool)
	workOrdersService := workorders.NewService(workOrdersRepo)
	workOrdersHandler := workorders.NewHandler(logger, workOrdersService, guard)

	showingsRepo := showings.NewRepository(dbpool)
	showingsService := showings.NewService(showingsRepo)
	showingsHandler := showings.NewHandler(logger, showingsService, guard)

	inspectionsRepo := inspections.NewRepository(dbpool)
	inspectionsService := inspections.NewService(inspectionsRepo)
	inspectionsHandler := inspections.NewHandler(logger, inspectionsService, guard)

	courtDatesRepo := courtdates.NewRepository(dbpool)
	courtDatesService := courtdates.NewService(courtDatesRepo)
	courtDatesHandler := courtdates.NewHandler(logger, courtDatesService, guard)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobsClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	appointmentsRepo := appointments.NewRepository(dbpool)
	appointmentsService := appointments.NewService(appointmentsRepo, jobsClient, logger)
	appointmentsHandler := appointments.NewHandler(logger, appointmentsService, guard)

	jobHandler := jobs.NewHandler(asynq.NewInspector(redisOpts), logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Access:         guard,

		AuthHandler:         authHandler,
		UsersHandler:        usersHandler,
		PermissionsHandler:  permissionsHandler,
		PropertiesHandler:   propertiesHandler,
		TenantsHandler:      tenantsHandler,
		WorkOrdersHandler:   workOrdersHandler,
		ShowingsHandler:     showingsHandler,
		InspectionsHandler:  inspectionsHandler,
		AppointmentsHandler: appointmentsHandler,
		CourtDatesHandler:   courtDatesHandler,
		JobHandler:          jobHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
