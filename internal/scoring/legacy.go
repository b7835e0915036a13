package scoring

import "fmt"

// LegacyScoreFields is the flat shape older dashboards read from the lead row.
type LegacyScoreFields struct {
	AIQualityScore   int      `json:"ai_quality_score"`
	AIIntentScore    int      `json:"ai_intent_score"`
	AIConfidence     float64  `json:"ai_confidence"`
	AIClassification string   `json:"ai_classification"`
	AIPriority       string   `json:"ai_priority"`
	AIRiskFlags      []string `json:"ai_risk_flags"`
}

var legacyClassifications = map[Classification]string{
	HotLead:            "Hot",
	Qualified:          "Warm-Qualified",
	NeedsQualification: "Nurture-Standard",
	Nurture:            "Nurture-Premium",
	LowPriority:        "Cold",
	Disqualified:       "Disqualified",
}

const maxLegacyPriority = 4

// ToLegacy flattens a result. Levels 4 and 5 both become P4 and confidence
// is rescaled to 0..10.
func ToLegacy(r Result) LegacyScoreFields {
	label, ok := legacyClassifications[r.Classification]
	if !ok {
		label = string(r.Classification)
	}

	level := r.CallPriority.Level
	if level > maxLegacyPriority {
		level = maxLegacyPriority
	}
	if level < 1 {
		level = 1
	}

	flags := make([]string, len(r.RiskFlags))
	copy(flags, r.RiskFlags)

	return LegacyScoreFields{
		AIQualityScore:   r.QualityScore.Total,
		AIIntentScore:    r.IntentScore.Total,
		AIConfidence:     float64(r.ConfidenceScore.Total) / 10,
		AIClassification: label,
		AIPriority:       fmt.Sprintf("P%d", level),
		AIRiskFlags:      flags,
	}
}
