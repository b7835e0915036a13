package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	leadrepo "naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/platform/config"
	"naybourhood_backend/platform/db"
	"naybourhood_backend/platform/events"
	"naybourhood_backend/platform/logger"
	"naybourhood_backend/platform/redisx"

	"github.com/spf13/cobra"
)

func newRescoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Rescore stored leads whose score is older than a given age",
		Long: `Rescore stored leads that were never scored or were last scored before
now minus --older-than. Uses DATABASE_URL and, when set, REDIS_URL for the
rescore guard.

Examples:
  leadscore rescore --older-than 24h --limit 500`,
		Args: cobra.NoArgs,
		RunE: runRescore,
	}

	f := cmd.Flags()
	f.Duration("older-than", 24*time.Hour, "rescore leads last scored before now minus this age")
	f.Int("limit", 500, "maximum number of leads to rescore")
	return cmd
}

func runRescore(cmd *cobra.Command, _ []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	limit, _ := cmd.Flags().GetInt("limit")
	if olderThan <= 0 {
		return fmt.Errorf("rescore: --older-than must be positive (got %s)", olderThan)
	}
	if limit <= 0 {
		return fmt.Errorf("rescore: --limit must be positive (got %d)", limit)
	}

	cfg, err := config.LoadWorker()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg, db.WorkerPoolOptions)
	if err != nil {
		return fmt.Errorf("rescore: connect database: %w", err)
	}
	defer pool.Close()

	bus := events.NewInMemoryBus(log)
	defer bus.Wait()

	opts := []service.Option{service.WithConcurrency(cfg.GetRescoreConcurrency())}
	if cfg.GetRedisURL() != "" {
		redisClient, err := redisx.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("rescore: redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		opts = append(opts, service.WithGuard(service.NewRedisGuard(redisClient, cfg.GetRescoreGuardTTL())))
	}

	svc := service.New(leadrepo.New(pool), bus, log, opts...)
	cutoff := time.Now().Add(-olderThan)
	summary, err := svc.RescoreScoredBefore(ctx, cutoff, limit)
	if err != nil {
		return fmt.Errorf("rescore: %w", err)
	}
	log.Info("rescore finished", "cutoff", cutoff, "selected", summary.Selected, "failed", summary.Failed)
	return writeJSON(cmd.OutOrStdout(), summary)
}
