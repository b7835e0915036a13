package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"naybourhood_backend/internal/email"
	"naybourhood_backend/internal/events"
	apphttp "naybourhood_backend/internal/http"
	"naybourhood_backend/internal/http/router"
	"naybourhood_backend/internal/leads"
	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/internal/notification"
	"naybourhood_backend/internal/scheduler"
	"naybourhood_backend/migrations"
	"naybourhood_backend/platform/config"
	"naybourhood_backend/platform/db"
	"naybourhood_backend/platform/logger"
	"naybourhood_backend/platform/metrics"
	"naybourhood_backend/platform/redisx"
	"naybourhood_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg, db.APIPoolOptions)
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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	recorder := metrics.New()
	val := validator.New()

	serviceOpts := []service.Option{
		service.WithMetrics(recorder),
		service.WithConcurrency(cfg.GetRescoreConcurrency()),
	}
	var rescoreQueue *scheduler.Client
	if cfg.GetRedisURL() != "" {
		redisClient, err := redisx.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		serviceOpts = append(serviceOpts, service.WithGuard(service.NewRedisGuard(redisClient, cfg.GetRescoreGuardTTL())))

		rescoreQueue, err = scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize rescore queue", "error", err)
			panic("failed to initialize rescore queue: " + err.Error())
		}
		defer func() { _ = rescoreQueue.Close() }()
	} else {
		log.Warn("REDIS_URL not configured; rescoring runs inline without a guard")
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val, log, serviceOpts...)
	if rescoreQueue != nil {
		leadsModule.SetRescoreQueue(rescoreQueue)
	}

	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP not configured; hot lead alerts disabled")
	}
	notificationModule := notification.New(email.NewSenderFromConfig(cfg), cfg.GetSalesAlertAddress(), log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		Metrics:  recorder,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
