package transport

import (
	"encoding/json"
	"time"

	"naybourhood_backend/internal/leads/repository"
	"naybourhood_backend/internal/scoring"

	"github.com/google/uuid"
)

// Request DTOs

// ScoreLeadRequest wraps a raw buyer record. Buyer must be a JSON object of
// scalar fields using the intake field names (full_name, budget, ...).
type ScoreLeadRequest struct {
	Buyer json.RawMessage `json:"buyer" validate:"required"`
}

type CaptureLeadRequest struct {
	Buyer json.RawMessage `json:"buyer" validate:"required"`
}

type ListLeadsRequest struct {
	Classification string `form:"classification" validate:"omitempty,oneof='Hot Lead' Qualified 'Needs Qualification' Nurture 'Low Priority' Disqualified"`
	PriorityLevel  *int   `form:"priority" validate:"omitempty,min=1,max=5"`
	Search         string `form:"search" validate:"omitempty,max=100"`
	Unscored       bool   `form:"unscored"`
	Sort           string `form:"sort" validate:"omitempty,oneof=priority newest"`
	Limit          int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset         int    `form:"offset" validate:"omitempty,min=0"`
}

// Response DTOs

const (
	ScoreStatusScored  = "scored"
	ScoreStatusPending = "pending"
)

type LeadResponse struct {
	ID             uuid.UUID       `json:"id"`
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	PhoneE164      *string         `json:"phoneE164"`
	Source         string          `json:"source"`
	Status         string          `json:"status"`
	CapturedBy     *uuid.UUID      `json:"capturedBy,omitempty"`
	Buyer          json.RawMessage `json:"buyer"`
	Classification *string         `json:"classification"`
	PriorityLevel  *int            `json:"priorityLevel"`
	QualityScore   *int            `json:"qualityScore"`
	IntentScore    *int            `json:"intentScore"`
	Confidence     *float64        `json:"aiConfidence"`
	LegacyPriority *string         `json:"aiPriority"`
	RiskFlags      []string        `json:"riskFlags"`
	ScoredAt       *time.Time      `json:"scoredAt"`
	ScoreStatus    string          `json:"scoreStatus"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Score          *scoring.Result `json:"score,omitempty"`
}

type LeadListResponse struct {
	Items  []LeadResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type RescoreQueuedResponse struct {
	LeadID uuid.UUID `json:"leadId"`
	Status string    `json:"status"`
}

// ToLeadResponse maps a stored lead. The full result is attached only when
// given, list responses leave it out.
func ToLeadResponse(lead repository.Lead, result *scoring.Result) LeadResponse {
	flags := lead.AIRiskFlags
	if flags == nil {
		flags = []string{}
	}
	buyer := json.RawMessage(lead.Buyer)
	if len(buyer) == 0 {
		buyer = json.RawMessage("{}")
	}

	resp := LeadResponse{
		ID:             lead.ID,
		FullName:       lead.FullName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		PhoneE164:      lead.PhoneE164,
		Source:         lead.Source,
		Status:         lead.Status,
		CapturedBy:     lead.CapturedBy,
		Buyer:          buyer,
		Classification: lead.Classification,
		PriorityLevel:  lead.PriorityLevel,
		QualityScore:   lead.AIQualityScore,
		IntentScore:    lead.AIIntentScore,
		Confidence:     lead.AIConfidence,
		LegacyPriority: lead.AIPriority,
		RiskFlags:      flags,
		ScoredAt:       lead.ScoredAt,
		ScoreStatus:    ScoreStatusPending,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
	if lead.ScoredAt != nil {
		resp.ScoreStatus = ScoreStatusScored
		if result != nil {
			resp.Score = result
		}
	}
	return resp
}
