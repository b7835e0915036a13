package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"naybourhood_backend/platform/apperr"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = apperr.NotFound("lead not found")

// likeEscaper escapes LIKE wildcards; backslash is the default ESCAPE character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	db DBTX
}

func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// Lead is one stored buyer record. Buyer holds the raw intake JSON verbatim;
// the score columns stay nil until the lead has been scored once.
type Lead struct {
	ID         uuid.UUID
	Buyer      []byte
	FullName   string
	Email      string
	Phone      string
	PhoneE164  *string
	Source     string
	Status     string
	CapturedBy *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time

	AIQualityScore   *int
	AIIntentScore    *int
	AIConfidence     *float64
	AIClassification *string
	AIPriority       *string
	AIRiskFlags      []string
	Classification   *string
	PriorityLevel    *int
	ScoreResult      []byte
	ScoredAt         *time.Time
}

type CreateLeadParams struct {
	Buyer      []byte
	FullName   string
	Email      string
	Phone      string
	PhoneE164  *string
	Source     string
	Status     string
	CapturedBy *uuid.UUID
}

// ScoreUpdate carries both the legacy ai_* columns and the full result.
type ScoreUpdate struct {
	QualityScore         int
	IntentScore          int
	Confidence           float64
	LegacyClassification string
	LegacyPriority       string
	RiskFlags            []string
	Classification       string
	PriorityLevel        int
	Result               []byte
	ScoredAt             time.Time
}

const (
	SortPriority = "priority"
	SortNewest   = "newest"
)

type ListParams struct {
	Classification string
	PriorityLevel  *int
	Search         string
	Unscored       bool
	Sort           string
	Limit          int
	Offset         int
}

var leadColumns = []string{
	"id", "buyer", "full_name", "email", "phone", "phone_e164", "source", "status", "captured_by",
	"created_at", "updated_at",
	"ai_quality_score", "ai_intent_score", "ai_confidence", "ai_classification", "ai_priority", "ai_risk_flags",
	"classification", "priority_level", "score_result", "scored_at",
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Buyer, &lead.FullName, &lead.Email, &lead.Phone, &lead.PhoneE164, &lead.Source, &lead.Status, &lead.CapturedBy,
		&lead.CreatedAt, &lead.UpdatedAt,
		&lead.AIQualityScore, &lead.AIIntentScore, &lead.AIConfidence, &lead.AIClassification, &lead.AIPriority, &lead.AIRiskFlags,
		&lead.Classification, &lead.PriorityLevel, &lead.ScoreResult, &lead.ScoredAt,
	)
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	lead := Lead{
		ID:          uuid.New(),
		Buyer:       params.Buyer,
		FullName:    params.FullName,
		Email:       params.Email,
		Phone:       params.Phone,
		PhoneE164:   params.PhoneE164,
		Source:      params.Source,
		Status:      params.Status,
		CapturedBy:  params.CapturedBy,
		AIRiskFlags: []string{},
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO leads (id, buyer, full_name, email, phone, phone_e164, source, status, captured_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, lead.ID, lead.Buyer, lead.FullName, lead.Email, lead.Phone, lead.PhoneE164, lead.Source, lead.Status, lead.CapturedBy,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query, args, err := psql.Select(leadColumns...).From("leads").Where("id = ?", id).ToSql()
	if err != nil {
		return Lead{}, fmt.Errorf("build lead query: %w", err)
	}

	lead, err := scanLead(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns one page of leads plus the total count matching the filters.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	conditions := buildListConditions(params)

	countBuilder := psql.Select("COUNT(*)").From("leads")
	for _, cond := range conditions {
		countBuilder = countBuilder.Where(cond)
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build lead count: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	builder := psql.Select(leadColumns...).From("leads")
	for _, cond := range conditions {
		builder = builder.Where(cond)
	}
	builder = builder.OrderBy(listOrder(params.Sort)...)
	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		builder = builder.Offset(uint64(params.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build lead list: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildListConditions(params ListParams) []sq.Sqlizer {
	conditions := make([]sq.Sqlizer, 0, 4)
	if params.Classification != "" {
		conditions = append(conditions, sq.Eq{"classification": params.Classification})
	}
	if params.PriorityLevel != nil {
		conditions = append(conditions, sq.Eq{"priority_level": *params.PriorityLevel})
	}
	if params.Search != "" {
		pattern := "%" + likeEscaper.Replace(params.Search) + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"full_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"phone": pattern},
		})
	}
	if params.Unscored {
		conditions = append(conditions, sq.Eq{"scored_at": nil})
	}
	return conditions
}

func listOrder(sort string) []string {
	if sort == SortNewest {
		return []string{"created_at DESC"}
	}
	return []string{"priority_level ASC NULLS LAST", "ai_quality_score DESC NULLS LAST", "created_at DESC"}
}

func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, update ScoreUpdate) error {
	flags := update.RiskFlags
	if flags == nil {
		flags = []string{}
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE leads SET
			ai_quality_score = $2,
			ai_intent_score = $3,
			ai_confidence = $4,
			ai_classification = $5,
			ai_priority = $6,
			ai_risk_flags = $7,
			classification = $8,
			priority_level = $9,
			score_result = $10,
			scored_at = $11,
			updated_at = now()
		WHERE id = $1
	`, id, update.QualityScore, update.IntentScore, update.Confidence, update.LegacyClassification, update.LegacyPriority,
		flags, update.Classification, update.PriorityLevel, update.Result, update.ScoredAt)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListIDsScoredBefore returns leads never scored or last scored before cutoff,
// oldest first.
func (r *Repository) ListIDsScoredBefore(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM leads
		WHERE scored_at IS NULL OR scored_at < $1
		ORDER BY scored_at ASC NULLS FIRST
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale leads: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ids, nil
}
