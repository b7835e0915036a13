package scoring

import "time"

// Score runs the full pipeline for one buyer. The order is fixed: fake
// check, low urgency, quality, intent, confidence, classification, call
// priority and risk flags. now is only used to age the lead.
func Score(b Buyer, now time.Time) Result {
	fake := DetectFakeLead(b)
	lowUrgency := IsLowUrgency(b)
	quality := ScoreQuality(b)
	intent := ScoreIntent(b)
	confidence := ScoreConfidence(b)
	classification := Classify(quality, intent, confidence, fake, lowUrgency)
	priority := ResolveCallPriority(classification, intent)
	flags := RiskFlags(b, fake, quality, now)

	return Result{
		FakeLeadCheck:   fake,
		QualityScore:    quality,
		IntentScore:     intent,
		ConfidenceScore: confidence,
		Classification:  classification,
		CallPriority:    priority,
		RiskFlags:       flags,
		Is28DayBuyer:    intent.Is28DayBuyer,
		LowUrgencyFlag:  lowUrgency,
	}
}
