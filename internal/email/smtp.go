package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"naybourhood_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

const subjectHotLeadFmt = "Hot lead: %s (call %s)"

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSenderFromConfig returns an SMTPSender, or a NoopSender when SMTP is not
// configured.
func NewSenderFromConfig(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetSMTPFromAddress(), cfg.GetSMTPFromName())
}

func (s *SMTPSender) SendHotLeadAlert(ctx context.Context, toEmail string, alert HotLeadAlert) error {
	msg, err := s.buildMessage(toEmail, HotLeadSubject(alert), HotLeadBody(alert))
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *SMTPSender) buildMessage(toEmail, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func HotLeadSubject(alert HotLeadAlert) string {
	name := alert.FullName
	if name == "" {
		name = "unnamed buyer"
	}
	return fmt.Sprintf(subjectHotLeadFmt, name, alert.ResponseTime)
}

// HotLeadBody renders the plain-text alert body.
func HotLeadBody(alert HotLeadAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new %s needs a call %s.\n\n", alert.Classification, alert.ResponseTime)
	fmt.Fprintf(&b, "Name:       %s\n", alert.FullName)
	fmt.Fprintf(&b, "Email:      %s\n", alert.Email)
	fmt.Fprintf(&b, "Phone:      %s\n", alert.Phone)
	fmt.Fprintf(&b, "Quality:    %d\n", alert.QualityScore)
	fmt.Fprintf(&b, "Intent:     %d\n", alert.IntentScore)
	fmt.Fprintf(&b, "Confidence: %d\n", alert.Confidence)
	if alert.Is28DayBuyer {
		b.WriteString("28-day buyer: yes\n")
	}
	if len(alert.RiskFlags) > 0 {
		b.WriteString("\nRisk flags:\n")
		for _, flag := range alert.RiskFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	}
	fmt.Fprintf(&b, "\nLead ID: %s\n", alert.LeadID)
	return b.String()
}
