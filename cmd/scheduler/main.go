package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"naybourhood_backend/internal/email"
	"naybourhood_backend/internal/events"
	leadrepo "naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/internal/notification"
	"naybourhood_backend/internal/scheduler"
	"naybourhood_backend/platform/config"
	"naybourhood_backend/platform/db"
	"naybourhood_backend/platform/logger"
	"naybourhood_backend/platform/metrics"
	"naybourhood_backend/platform/redisx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg, db.WorkerPoolOptions)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	redisClient, err := redisx.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	notificationModule := notification.New(email.NewSenderFromConfig(cfg), cfg.GetSalesAlertAddress(), log)
	notificationModule.RegisterHandlers(eventBus)

	leadService := service.New(leadrepo.New(pool), eventBus, log,
		service.WithGuard(service.NewRedisGuard(redisClient, cfg.GetRescoreGuardTTL())),
		service.WithMetrics(metrics.New()),
		service.WithConcurrency(cfg.GetRescoreConcurrency()),
	)

	sweep := scheduler.NewRescoreSweepFromConfig(leadService, log, cfg)
	go sweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leadService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
