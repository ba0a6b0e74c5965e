package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/haven-pm/haven-pm/internal/app"
	"github.com/haven-pm/haven-pm/internal/appointments"
	"github.com/haven-pm/haven-pm/internal/geo"
	jobmetrics "github.com/haven-pm/haven-pm/internal/jobs"
	"github.com/haven-pm/haven-pm/internal/platform/cache"
	"github.com/haven-pm/haven-pm/internal/platform/db"
	"github.com/haven-pm/haven-pm/internal/properties"
	"github.com/haven-pm/haven-pm/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	metrics := jobmetrics.NewMetrics(nil)

	geocoder := geo.NewClient(cfg.GeocoderURL, redisClient)
	propertiesRepo := properties.NewRepository(pool)
	propertiesService := properties.NewService(propertiesRepo, geocoder, logger)
	backfillJob := jobs.NewGeoBackfillJob(propertiesService, logger, metrics)

	appointmentsRepo := appointments.NewRepository(pool)
	appointmentsService := appointments.NewService(appointmentsRepo, nil, logger)
	reminderJob := jobs.NewAppointmentReminderJob(appointmentsService, logger, metrics)

	backfillTask, err := jobs.NewGeoBackfillTask(jobs.GeoBackfillPayload{Limit: cfg.GeoBackfillLimit})
	if err != nil {
		logger.Error("build backfill task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAppointmentReminder, Handler: reminderJob.Handle},
			{Type: jobs.TaskGeoBackfill, Handler: backfillJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.GeoBackfillCron, Task: backfillTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
