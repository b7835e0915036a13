// Package email delivers outbound alert mail.
package email

import "context"

// HotLeadAlert is the content of a hot-lead e-mail to the sales inbox.
type HotLeadAlert struct {
	LeadID         string
	FullName       string
	Email          string
	Phone          string
	Classification string
	ResponseTime   string
	QualityScore   int
	IntentScore    int
	Confidence     int
	Is28DayBuyer   bool
	RiskFlags      []string
}

// Sender defines the e-mail operations used by notifications.
type Sender interface {
	SendHotLeadAlert(ctx context.Context, toEmail string, alert HotLeadAlert) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendHotLeadAlert(context.Context, string, HotLeadAlert) error { return nil }
