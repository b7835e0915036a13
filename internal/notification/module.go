// Package notification provides event handlers for sending notifications in
// response to domain events. Domain modules publish events and never talk to
// the mail provider themselves.
package notification

import (
	"context"

	"naybourhood_backend/internal/email"
	"naybourhood_backend/internal/events"
	"naybourhood_backend/internal/scoring"
	"naybourhood_backend/platform/logger"
)

const hotLeadPriority = 1

// Module sends a hot-lead alert to the sales inbox when a new lead lands in
// call priority 1.
type Module struct {
	sender       email.Sender
	salesAddress string
	log          *logger.Logger
}

func New(sender email.Sender, salesAddress string, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, salesAddress: salesAddress, log: log}
}

// RegisterHandlers subscribes to the events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadScored{}.EventName(), m)
}

func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadScored:
		return m.handleLeadScored(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// Rescores are skipped so the periodic sweep does not alert on the same lead
// again. A disqualified 28-day lead still resolves to priority 1 and is
// skipped as well.
func (m *Module) handleLeadScored(ctx context.Context, e events.LeadScored) error {
	if e.PriorityLevel != hotLeadPriority || e.Rescored || m.salesAddress == "" {
		return nil
	}
	if e.Classification == string(scoring.Disqualified) {
		return nil
	}

	alert := email.HotLeadAlert{
		LeadID:         e.LeadID.String(),
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          e.Phone,
		Classification: e.Classification,
		ResponseTime:   e.ResponseTime,
		QualityScore:   e.QualityScore,
		IntentScore:    e.IntentScore,
		Confidence:     e.Confidence,
		Is28DayBuyer:   e.Is28DayBuyer,
		RiskFlags:      e.RiskFlags,
	}
	if err := m.sender.SendHotLeadAlert(ctx, m.salesAddress, alert); err != nil {
		m.log.Error("failed to send hot lead alert",
			"leadId", e.LeadID,
			"error", err,
		)
		return err
	}
	m.log.Info("hot lead alert sent", "leadId", e.LeadID, "to", m.salesAddress)
	return nil
}
