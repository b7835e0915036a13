// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"naybourhood_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a buyer record is stored for the first time.
type LeadCaptured struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	FullName   string     `json:"fullName"`
	Email      string     `json:"email,omitempty"`
	PhoneE164  string     `json:"phoneE164,omitempty"`
	Source     string     `json:"source,omitempty"`
	CapturedBy *uuid.UUID `json:"capturedBy,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadScored is published after a score has been persisted for a lead.
type LeadScored struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Classification string    `json:"classification"`
	PriorityLevel  int       `json:"priorityLevel"`
	ResponseTime   string    `json:"responseTime"`
	QualityScore   int       `json:"qualityScore"`
	IntentScore    int       `json:"intentScore"`
	Confidence     int       `json:"confidence"`
	Is28DayBuyer   bool      `json:"is28DayBuyer"`
	RiskFlags      []string  `json:"riskFlags"`
	Rescored       bool      `json:"rescored"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadDisqualified is published when scoring marks a lead fake or its brief
// unrealistic.
type LeadDisqualified struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	IsFake  bool      `json:"isFake"`
	Reasons []string  `json:"reasons"`
}

func (e LeadDisqualified) EventName() string { return "leads.lead.disqualified" }
