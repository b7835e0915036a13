package scoring

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var scoredAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type scenario struct {
	Name  string         `yaml:"name"`
	Buyer map[string]any `yaml:"buyer"`
	Want  struct {
		Quality        int      `yaml:"quality"`
		Intent         int      `yaml:"intent"`
		Confidence     int      `yaml:"confidence"`
		Classification string   `yaml:"classification"`
		Priority       int      `yaml:"priority"`
		ResponseTime   string   `yaml:"response_time"`
		IsFake         bool     `yaml:"is_fake"`
		Disqualified   bool     `yaml:"disqualified"`
		Is28DayBuyer   bool     `yaml:"is_28_day_buyer"`
		RiskFlags      []string `yaml:"risk_flags"`
	} `yaml:"want"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(data, &scenarios))
	require.NotEmpty(t, scenarios)
	return scenarios
}

// buyerFrom round-trips fixture fields through JSON so they decode exactly
// like an intake payload.
func buyerFrom(t *testing.T, fields map[string]any) Buyer {
	t.Helper()
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	require.NoError(t, err)

	var b Buyer
	require.NoError(t, json.Unmarshal(raw, &b))
	return b
}

func TestScore_Scenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			result := Score(buyerFrom(t, sc.Buyer), scoredAt)

			assert.Equal(t, sc.Want.Quality, result.QualityScore.Total, "quality")
			assert.Equal(t, sc.Want.Intent, result.IntentScore.Total, "intent")
			assert.Equal(t, sc.Want.Confidence, result.ConfidenceScore.Total, "confidence")
			assert.Equal(t, Classification(sc.Want.Classification), result.Classification)
			assert.Equal(t, sc.Want.Priority, result.CallPriority.Level)
			assert.Equal(t, sc.Want.ResponseTime, result.CallPriority.ResponseTime)
			assert.Equal(t, sc.Want.IsFake, result.FakeLeadCheck.IsFake, "isFake")
			assert.Equal(t, sc.Want.Disqualified, result.QualityScore.IsDisqualified, "isDisqualified")
			assert.Equal(t, sc.Want.Is28DayBuyer, result.Is28DayBuyer, "is28DayBuyer")
			assert.Equal(t, sc.Want.Is28DayBuyer, result.IntentScore.Is28DayBuyer)

			want := sc.Want.RiskFlags
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, result.RiskFlags)
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		b := buyerFrom(t, sc.Buyer)
		first := Score(b, scoredAt)
		second := Score(b, scoredAt)
		assert.Equal(t, first, second, sc.Name)

		firstJSON, err := json.Marshal(first)
		require.NoError(t, err)
		secondJSON, err := json.Marshal(second)
		require.NoError(t, err)
		assert.JSONEq(t, string(firstJSON), string(secondJSON), sc.Name)
	}
}

func TestScore_BoundsHoldForNoisyInput(t *testing.T) {
	buyers := []Buyer{
		{},
		{
			FullName:      String("Test Fake Demo"),
			Email:         String("noreply@mailinator.com"),
			Phone:         String("0000000000"),
			Budget:        String("£500"),
			Status:        String("spam - can't verify"),
			Timeline:      String("asap"),
			ReadyIn28Days: Bool(true),
		},
		{
			FullName:        String("Amelia Hart"),
			Email:           String("amelia@hart.co.uk"),
			Phone:           String("+44 7700 900123"),
			PaymentMethod:   String("cash"),
			ProofOfFunds:    Bool(true),
			Budget:          Number(750000),
			Bedrooms:        Number(3),
			Location:        String("Bristol"),
			Timeline:        String("now"),
			Source:          String("form"),
			Purpose:         String("dependent studying"),
			UKBroker:        String("unknown"),
			ConnectToBroker: Bool(true),
		},
	}

	for _, b := range buyers {
		result := Score(b, scoredAt)
		for name, total := range map[string]int{
			"quality":    result.QualityScore.Total,
			"intent":     result.IntentScore.Total,
			"confidence": result.ConfidenceScore.Total,
		} {
			assert.GreaterOrEqual(t, total, 0, name)
			assert.LessOrEqual(t, total, 100, name)
		}
		assert.LessOrEqual(t, len(result.RiskFlags), MaxRiskFlags)
		assert.GreaterOrEqual(t, result.FakeLeadCheck.Confidence, 0.0)
		assert.LessOrEqual(t, result.FakeLeadCheck.Confidence, 1.0)
	}
}

func TestScore_TwentyEightDayBuyerIsCalledWithinTheHour(t *testing.T) {
	b := Buyer{
		FullName:          String("Oliver Grant"),
		Email:             String("oliver.grant@gmail.com"),
		ReadyWithin28Days: Bool(true),
	}

	result := Score(b, scoredAt)

	assert.True(t, result.Is28DayBuyer)
	assert.Equal(t, HotLead, result.Classification)
	assert.Equal(t, 1, result.CallPriority.Level)
	assert.Equal(t, "Within 1 hour", result.CallPriority.ResponseTime)
	assert.NotContains(t, result.RiskFlags, "Timeline not specified")
}

func TestScore_FakeOverridesStrongProfile(t *testing.T) {
	b := Buyer{
		FullName:      String("Test User"),
		Email:         String("test@example.com"),
		Phone:         String("+447911123456"),
		PaymentMethod: String("cash"),
		Purpose:       String("primary residence"),
		Budget:        String("900000"),
		Timeline:      String("immediate"),
	}

	result := Score(b, scoredAt)

	assert.GreaterOrEqual(t, result.FakeLeadCheck.Confidence, 0.75)
	assert.True(t, result.FakeLeadCheck.IsFake)
	assert.Equal(t, Disqualified, result.Classification)
	// the 28-day check in the priority resolver still runs first
	assert.Equal(t, 1, result.CallPriority.Level)
}

func TestScore_UnrealisticBriefAlwaysDisqualified(t *testing.T) {
	for _, bedrooms := range []Value{Number(0), Number(1), String("studio"), String("1 bed")} {
		b := Buyer{
			FullName:      String("Harriet Moss"),
			Email:         String("harriet@moss.com"),
			Phone:         String("+447700900555"),
			PaymentMethod: String("cash"),
			Budget:        String("£2.5m"),
			Bedrooms:      bedrooms,
			Timeline:      String("flexible"),
		}

		result := Score(b, scoredAt)

		assert.Equal(t, Disqualified, result.Classification, bedrooms.Text())
		assert.Equal(t, 0, result.QualityScore.Total, bedrooms.Text())
		assert.Equal(t, disqualificationReason, result.RiskFlags[0], bedrooms.Text())
	}
}

func TestScore_ResultJSONShape(t *testing.T) {
	result := Score(Buyer{}, scoredAt)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"fakeLeadCheck", "qualityScore", "intentScore", "confidenceScore",
		"classification", "callPriority", "riskFlags", "is28DayBuyer", "lowUrgencyFlag",
	} {
		assert.Contains(t, decoded, key)
	}
}
