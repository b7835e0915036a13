// Package service implements lead intake and scoring use cases.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"naybourhood_backend/internal/events"
	"naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/scoring"
	"naybourhood_backend/platform/apperr"
	"naybourhood_backend/platform/logger"
	"naybourhood_backend/platform/metrics"
	"naybourhood_backend/platform/phone"
	"naybourhood_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultListLimit   = 50
	MaxListLimit       = 200
	defaultConcurrency = 4
)

var ErrRescoreInProgress = apperr.Conflict("lead was rescored moments ago")

// Repository is the persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
	UpdateScore(ctx context.Context, id uuid.UUID, update repository.ScoreUpdate) error
	ListIDsScoredBefore(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type Service struct {
	repo        Repository
	bus         events.Bus
	log         *logger.Logger
	guard       RescoreGuard
	metrics     *metrics.Recorder
	now         func() time.Time
	concurrency int
}

type Option func(*Service)

// WithGuard sets the rescore guard. Without one every rescore proceeds.
func WithGuard(guard RescoreGuard) Option {
	return func(s *Service) {
		if guard != nil {
			s.guard = guard
		}
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = recorder }
}

// WithClock overrides the clock used for lead age and scored_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConcurrency bounds how many leads a batch rescore works on at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(repo Repository, bus events.Bus, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		bus:         bus,
		log:         log,
		guard:       noopGuard{},
		now:         time.Now,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoredLead is a stored lead together with the result it was last scored with.
// ScorePending is set when the lead was stored but its score could not be
// written; the rescore sweep picks it up later.
type ScoredLead struct {
	Lead         repository.Lead
	Result       scoring.Result
	ScorePending bool
}

type CaptureInput struct {
	Buyer      json.RawMessage
	CapturedBy *uuid.UUID
}

// ParseBuyer decodes a raw buyer record. Anything other than a JSON object of
// scalar values is rejected.
func ParseBuyer(raw []byte) (scoring.Buyer, error) {
	var b scoring.Buyer
	if len(raw) == 0 {
		return b, apperr.Validation("buyer record is required")
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return scoring.Buyer{}, apperr.Wrap(apperr.KindValidation, "buyer record must be a JSON object of scalar fields", err)
	}
	return b, nil
}

// Score runs the scorer without touching storage.
func (s *Service) Score(b scoring.Buyer) scoring.Result {
	started := time.Now()
	result := scoring.Score(b, s.now())
	s.metrics.ObserveScore(string(result.Classification), result.FakeLeadCheck.IsFake, result.QualityScore.IsDisqualified, time.Since(started))
	return result
}

// Capture stores a buyer record verbatim, derives its searchable columns and
// scores it immediately.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (ScoredLead, error) {
	b, err := ParseBuyer(input.Buyer)
	if err != nil {
		return ScoredLead{}, err
	}

	phoneText := sanitize.Text(b.Phone.Text())
	params := repository.CreateLeadParams{
		Buyer:      input.Buyer,
		FullName:   sanitize.Text(scoring.FullName(b)),
		Email:      sanitize.Text(b.Email.Text()),
		Phone:      phoneText,
		Source:     sanitize.Text(scoring.RawSource(b)),
		Status:     sanitize.Text(b.Status.Text()),
		CapturedBy: input.CapturedBy,
	}
	if e164, ok := phone.NormalizeE164(phoneText); ok {
		params.PhoneE164 = &e164
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return ScoredLead{}, err
	}

	captured := events.LeadCaptured{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		FullName:   lead.FullName,
		Email:      lead.Email,
		Source:     lead.Source,
		CapturedBy: lead.CapturedBy,
	}
	if lead.PhoneE164 != nil {
		captured.PhoneE164 = *lead.PhoneE164
	}
	s.bus.Publish(ctx, captured)

	result := s.Score(b)
	if err := s.persistScore(ctx, &lead, result, false); err != nil {
		s.log.Warn("lead stored without score", "leadId", lead.ID, "error", err)
		return ScoredLead{Lead: lead, Result: result, ScorePending: true}, nil
	}
	return ScoredLead{Lead: lead, Result: result}, nil
}

// Rescore scores the stored raw record again against the current clock.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID) (ScoredLead, error) {
	acquired, err := s.guard.Acquire(ctx, id)
	if err != nil {
		s.log.Warn("rescore guard unavailable, continuing", "leadId", id, "error", err)
		acquired = true
	}
	if !acquired {
		s.metrics.ObserveRescore(metrics.RescoreSkipped)
		return ScoredLead{}, ErrRescoreInProgress
	}

	scored, err := s.rescore(ctx, id)
	if err != nil {
		if releaseErr := s.guard.Release(context.WithoutCancel(ctx), id); releaseErr != nil {
			s.log.Warn("failed to release rescore guard", "leadId", id, "error", releaseErr)
		}
		s.metrics.ObserveRescore(metrics.RescoreFailed)
		return ScoredLead{}, err
	}

	s.metrics.ObserveRescore(metrics.RescoreOK)
	return scored, nil
}

func (s *Service) rescore(ctx context.Context, id uuid.UUID) (ScoredLead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ScoredLead{}, err
	}

	b, err := ParseBuyer(lead.Buyer)
	if err != nil {
		return ScoredLead{}, fmt.Errorf("stored buyer for lead %s: %w", id, err)
	}

	result := s.Score(b)
	if err := s.persistScore(ctx, &lead, result, true); err != nil {
		return ScoredLead{}, err
	}
	return ScoredLead{Lead: lead, Result: result}, nil
}

// RescoreSummary counts the outcome of one batch rescore.
type RescoreSummary struct {
	Selected int `json:"selected"`
	Rescored int `json:"rescored"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// RescoreScoredBefore rescores up to limit leads that were never scored or
// were last scored before cutoff. One lead failing does not stop the batch;
// only cancellation of ctx does.
func (s *Service) RescoreScoredBefore(ctx context.Context, cutoff time.Time, limit int) (RescoreSummary, error) {
	ids, err := s.repo.ListIDsScoredBefore(ctx, cutoff, limit)
	if err != nil {
		return RescoreSummary{}, err
	}

	var rescored, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.Rescore(gctx, id)
			switch {
			case err == nil:
				rescored.Add(1)
			case errors.Is(err, ErrRescoreInProgress):
				skipped.Add(1)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				failed.Add(1)
				s.log.Error("batch rescore failed", "leadId", id, "error", err)
			}
			return nil
		})
	}

	err = g.Wait()
	summary := RescoreSummary{
		Selected: len(ids),
		Rescored: int(rescored.Load()),
		Skipped:  int(skipped.Load()),
		Failed:   int(failed.Load()),
	}
	return summary, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (ScoredLead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ScoredLead{}, err
	}
	scored := ScoredLead{Lead: lead}
	if len(lead.ScoreResult) > 0 {
		if err := json.Unmarshal(lead.ScoreResult, &scored.Result); err != nil {
			return ScoredLead{}, fmt.Errorf("decode score for lead %s: %w", id, err)
		}
	}
	return scored, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Sort != repository.SortNewest {
		params.Sort = repository.SortPriority
	}
	return s.repo.List(ctx, params)
}

func (s *Service) persistScore(ctx context.Context, lead *repository.Lead, result scoring.Result, rescored bool) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode score result: %w", err)
	}

	legacy := scoring.ToLegacy(result)
	update := repository.ScoreUpdate{
		QualityScore:         legacy.AIQualityScore,
		IntentScore:          legacy.AIIntentScore,
		Confidence:           legacy.AIConfidence,
		LegacyClassification: legacy.AIClassification,
		LegacyPriority:       legacy.AIPriority,
		RiskFlags:            legacy.AIRiskFlags,
		Classification:       string(result.Classification),
		PriorityLevel:        result.CallPriority.Level,
		Result:               encoded,
		ScoredAt:             s.now().UTC(),
	}
	if err := s.repo.UpdateScore(ctx, lead.ID, update); err != nil {
		s.log.DatabaseError("update_lead_score", err)
		return err
	}
	applyScore(lead, update)

	s.log.WithContext(ctx).LeadScored(lead.ID.String(), string(result.Classification), result.CallPriority.Level,
		result.QualityScore.Total, result.IntentScore.Total, result.ConfidenceScore.Total, result.FakeLeadCheck.IsFake)

	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		FullName:       lead.FullName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Classification: string(result.Classification),
		PriorityLevel:  result.CallPriority.Level,
		ResponseTime:   result.CallPriority.ResponseTime,
		QualityScore:   result.QualityScore.Total,
		IntentScore:    result.IntentScore.Total,
		Confidence:     result.ConfidenceScore.Total,
		Is28DayBuyer:   result.Is28DayBuyer,
		RiskFlags:      result.RiskFlags,
		Rescored:       rescored,
	})

	if result.Classification == scoring.Disqualified {
		reasons := append([]string{}, result.FakeLeadCheck.Flags...)
		if result.QualityScore.DisqualificationReason != "" {
			reasons = append(reasons, result.QualityScore.DisqualificationReason)
		}
		s.bus.Publish(ctx, events.LeadDisqualified{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			IsFake:    result.FakeLeadCheck.IsFake,
			Reasons:   reasons,
		})
	}
	return nil
}

func applyScore(lead *repository.Lead, update repository.ScoreUpdate) {
	quality, intent, confidence := update.QualityScore, update.IntentScore, update.Confidence
	legacyClass, legacyPriority := update.LegacyClassification, update.LegacyPriority
	class, level, scoredAt := update.Classification, update.PriorityLevel, update.ScoredAt

	lead.AIQualityScore = &quality
	lead.AIIntentScore = &intent
	lead.AIConfidence = &confidence
	lead.AIClassification = &legacyClass
	lead.AIPriority = &legacyPriority
	lead.AIRiskFlags = update.RiskFlags
	lead.Classification = &class
	lead.PriorityLevel = &level
	lead.ScoreResult = update.Result
	lead.ScoredAt = &scoredAt
}
