package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smtpTestConfig struct {
	host  string
	sales string
}

func (c smtpTestConfig) GetSMTPHost() string          { return c.host }
func (c smtpTestConfig) GetSMTPPort() int             { return 587 }
func (c smtpTestConfig) GetSMTPUsername() string      { return "" }
func (c smtpTestConfig) GetSMTPPassword() string      { return "" }
func (c smtpTestConfig) GetSMTPFromAddress() string   { return "alerts@naybourhood.test" }
func (c smtpTestConfig) GetSMTPFromName() string      { return "Naybourhood" }
func (c smtpTestConfig) GetSalesAlertAddress() string { return c.sales }
func (c smtpTestConfig) IsSMTPEnabled() bool          { return c.host != "" && c.sales != "" }

var hotAlert = HotLeadAlert{
	LeadID:         "4f1c2d8e-9a4b-4c55-8d4e-2a7b8c9d0e1f",
	FullName:       "Jane Smith",
	Email:          "jane@gmail.com",
	Phone:          "+447911123456",
	Classification: "Hot Lead",
	ResponseTime:   "within 1 hour",
	QualityScore:   55,
	IntentScore:    75,
	Confidence:     80,
	Is28DayBuyer:   true,
	RiskFlags:      []string{"Lead is 151 days old"},
}

func TestHotLeadSubject(t *testing.T) {
	assert.Equal(t, "Hot lead: Jane Smith (call within 1 hour)", HotLeadSubject(hotAlert))

	unnamed := hotAlert
	unnamed.FullName = ""
	assert.Equal(t, "Hot lead: unnamed buyer (call within 1 hour)", HotLeadSubject(unnamed))
}

func TestHotLeadBody(t *testing.T) {
	body := HotLeadBody(hotAlert)

	assert.True(t, strings.HasPrefix(body, "A new Hot Lead needs a call within 1 hour.\n"))
	assert.Contains(t, body, "Phone:      +447911123456\n")
	assert.Contains(t, body, "28-day buyer: yes\n")
	assert.Contains(t, body, "- Lead is 151 days old\n")
	assert.Contains(t, body, "Lead ID: 4f1c2d8e-9a4b-4c55-8d4e-2a7b8c9d0e1f\n")

	quiet := hotAlert
	quiet.RiskFlags = nil
	quiet.Is28DayBuyer = false
	body = HotLeadBody(quiet)
	assert.NotContains(t, body, "Risk flags")
	assert.NotContains(t, body, "28-day buyer")
}

func TestNewSenderFromConfig(t *testing.T) {
	assert.IsType(t, NoopSender{}, NewSenderFromConfig(smtpTestConfig{}))
	assert.IsType(t, NoopSender{}, NewSenderFromConfig(smtpTestConfig{host: "smtp.test"}))
	assert.IsType(t, &SMTPSender{}, NewSenderFromConfig(smtpTestConfig{host: "smtp.test", sales: "sales@naybourhood.test"}))
}

func TestBuildMessage(t *testing.T) {
	s := NewSMTPSender("smtp.test", 587, "", "", "alerts@naybourhood.test", "Naybourhood")

	msg, err := s.buildMessage("sales@naybourhood.test", HotLeadSubject(hotAlert), HotLeadBody(hotAlert))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hot lead: Jane Smith (call within 1 hour)"}, msg.GetGenHeader("Subject"))

	_, err = s.buildMessage("not an address", "x", "y")
	assert.Error(t, err)

	assert.NoError(t, NoopSender{}.SendHotLeadAlert(context.Background(), "sales@naybourhood.test", hotAlert))
}
