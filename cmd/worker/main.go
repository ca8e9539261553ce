package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/recondash/recondash/internal/app"
	"github.com/recondash/recondash/internal/documents"
	jobmetrics "github.com/recondash/recondash/internal/jobs"
	"github.com/recondash/recondash/internal/payers"
	"github.com/recondash/recondash/internal/platform/db"
	"github.com/recondash/recondash/jobs"
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

	documentsRepo := documents.NewRepository(pool)
	payersService := payers.NewService(payers.NewRepository(pool))
	metrics := jobmetrics.NewMetrics(nil)
	reprocessJob := jobs.NewReprocessJob(documentsRepo, payersService, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Reprocess: reprocessJob,
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: jobs.NewSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
