package scheduler

import (
	"context"
	"time"

	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/platform/config"
	"naybourhood_backend/platform/logger"
)

const (
	defaultRescoreInterval  = time.Hour
	defaultRescoreMaxAge    = 24 * time.Hour
	defaultRescoreBatchSize = 500
)

// BatchRescorer is the part of the leads service the sweep drives.
type BatchRescorer interface {
	RescoreScoredBefore(ctx context.Context, cutoff time.Time, limit int) (service.RescoreSummary, error)
}

// RescoreSweep periodically rescores leads whose last score is older than
// maxAge, so age-dependent risk flags stay current.
type RescoreSweep struct {
	rescorer  BatchRescorer
	log       *logger.Logger
	interval  time.Duration
	maxAge    time.Duration
	batchSize int
	now       func() time.Time
}

func NewRescoreSweep(rescorer BatchRescorer, log *logger.Logger, interval, maxAge time.Duration, batchSize int) *RescoreSweep {
	if interval <= 0 {
		interval = defaultRescoreInterval
	}
	if maxAge <= 0 {
		maxAge = defaultRescoreMaxAge
	}
	if batchSize <= 0 {
		batchSize = defaultRescoreBatchSize
	}

	return &RescoreSweep{
		rescorer:  rescorer,
		log:       log,
		interval:  interval,
		maxAge:    maxAge,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// NewRescoreSweepFromConfig reads the sweep settings from cfg.
func NewRescoreSweepFromConfig(rescorer BatchRescorer, log *logger.Logger, cfg config.ScoringConfig) *RescoreSweep {
	return NewRescoreSweep(rescorer, log, cfg.GetRescoreInterval(), cfg.GetRescoreMaxAge(), cfg.GetRescoreBatchSize())
}

func (s *RescoreSweep) Run(ctx context.Context) {
	if s == nil || s.rescorer == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RescoreSweep) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.maxAge)

	summary, err := s.rescorer.RescoreScoredBefore(ctx, cutoff, s.batchSize)
	if err != nil {
		s.log.Warn("stale lead rescore failed", "error", err, "cutoff", cutoff)
		return
	}

	if summary.Selected > 0 {
		s.log.Info("stale lead rescore finished",
			"selected", summary.Selected,
			"rescored", summary.Rescored,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
		)
	}
}
