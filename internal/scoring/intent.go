package scoring

const (
	factorTimeline      = "Timeline"
	factorPurposeIntent = "Purpose Intent"
	factorBrokerSeeking = "Broker Introduction"
	factorSourceChannel = "Source Channel"
	reason28DayBuyer    = "Ready to proceed within 28 days"
)

var intentRules = []rule{
	timelineRule,
	purposeIntentRule,
	brokerSeekingRule,
	sourceRule,
}

// ScoreIntent rates urgency. Readiness within 28 days is a flat hard rule
// that replaces the timeline bucket; the other signals stack on top.
func ScoreIntent(b Buyer) IntentScoreResult {
	total, breakdown := fold(b, intentRules)
	return IntentScoreResult{
		Total:        clampScore(total),
		Breakdown:    breakdown,
		Is28DayBuyer: Is28DayReady(b),
	}
}

func timelineRule(b Buyer) (Factor, bool) {
	if Is28DayReady(b) {
		return Factor{factorTimeline, twentyEightDayPoints, reason28DayBuyer}, true
	}

	months, ok := TimelineMonths(b)
	if !ok {
		return Factor{}, false
	}
	switch {
	case months <= shortTimelineMonths:
		return Factor{factorTimeline, shortTimelinePoints, "Buying within 3 months"}, true
	case months >= longTimelineMonths:
		return Factor{factorTimeline, longTimelinePoints, "Buying in 6 months or more"}, true
	default:
		return Factor{}, false
	}
}

func purposeIntentRule(b Buyer) (Factor, bool) {
	switch PurchasePurpose(b) {
	case PurposeDependentStudying:
		return Factor{factorPurposeIntent, dependentIntentPoints, "Term dates drive a fixed deadline"}, true
	case PurposePrimaryResidence:
		return Factor{factorPurposeIntent, primaryIntentPoints, "Needs a home to live in"}, true
	case PurposeInvestment:
		return Factor{factorPurposeIntent, investIntentPoints, "Investor"}, true
	case PurposeHolidayHome:
		return Factor{factorPurposeIntent, holidayIntentPoints, "Discretionary holiday purchase"}, true
	default:
		return Factor{}, false
	}
}

func brokerSeekingRule(b Buyer) (Factor, bool) {
	if WantsBroker(b) && !HasBroker(b) {
		return Factor{factorBrokerSeeking, brokerSeekingPoints, "Wants to be connected to a UK broker"}, true
	}
	return Factor{}, false
}

func sourceRule(b Buyer) (Factor, bool) {
	switch SourceType(b) {
	case SourceForm:
		return Factor{factorSourceChannel, formSourcePoints, "Submitted an enquiry form"}, true
	case SourceWhatsApp:
		return Factor{factorSourceChannel, whatsappSourcePoints, "Reached out on WhatsApp"}, true
	default:
		return Factor{}, false
	}
}
