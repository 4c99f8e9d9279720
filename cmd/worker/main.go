package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/helmsman-kit/helmsman/internal/app"
	"github.com/helmsman-kit/helmsman/internal/audit"
	"github.com/helmsman-kit/helmsman/internal/auth"
	"github.com/helmsman-kit/helmsman/internal/platform/db"
	"github.com/helmsman-kit/helmsman/jobs"
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	authService := auth.NewService(auth.NewRepository(pool))
	auditService := audit.NewService(audit.NewRepository(pool))

	auditTask, err := jobs.NewAuditPruneTask(jobs.AuditPrunePayload{Retention: cfg.AuditRetention})
	if err != nil {
		logger.Error("build audit prune task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionPrune, Handler: jobs.SessionPruneHandler(authService, logger)},
			{Type: jobs.TaskAuditPrune, Handler: jobs.AuditPruneHandler(auditService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 0 * * *", Task: jobs.NewSessionPruneTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 1 * * *", Task: auditTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
