package scheduler

import (
	"context"
	"errors"
	"fmt"

	"naybourhood_backend/internal/leads/service"
	"naybourhood_backend/platform/apperr"
	"naybourhood_backend/platform/config"
	"naybourhood_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultWorkerConcurrency = 10

// LeadRescorer is the part of the leads service the worker drives.
type LeadRescorer interface {
	Rescore(ctx context.Context, id uuid.UUID) (service.ScoredLead, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer LeadRescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer LeadRescorer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultWorkerConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(rescorer, log)
	w.server = server
	return w, nil
}

func newWorker(rescorer LeadRescorer, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:      mux,
		rescorer: rescorer,
		log:      log,
	}
	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleLeadRescore retries only transient failures. A malformed payload or a
// lead that no longer exists will never succeed, and a lead that was just
// rescored needs no second pass.
func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return fmt.Errorf("parse rescore payload: %v: %w", err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("invalid lead id %q: %w", payload.LeadID, asynq.SkipRetry)
	}

	scored, err := w.rescorer.Rescore(ctx, leadID)
	switch {
	case errors.Is(err, service.ErrRescoreInProgress):
		w.log.Info("lead rescored recently, skipping task", "leadId", leadID)
		return nil
	case apperr.Is(err, apperr.KindNotFound), apperr.Is(err, apperr.KindValidation):
		return fmt.Errorf("rescore lead %s: %v: %w", leadID, err, asynq.SkipRetry)
	case err != nil:
		return fmt.Errorf("rescore lead %s: %w", leadID, err)
	}

	w.log.Info("lead rescored", "leadId", leadID, "classification", scored.Result.Classification)
	return nil
}
