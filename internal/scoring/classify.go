package scoring

import "strings"

var lowUrgencyTimelineKeywords = []string{
	"no rush", "flexible", "eventually", "someday", "long term",
	"18 month", "24 month", "2 year",
}

var disengagedStatusKeywords = []string{"not proceeding", "cold", "lost"}

// IsLowUrgency reports long-horizon or disengaged signals: a relaxed
// timeline, a holiday home with no timeline at all, or a cold status.
func IsLowUrgency(b Buyer) bool {
	if containsAny(timelineText(b), lowUrgencyTimelineKeywords) {
		return true
	}
	if PurchasePurpose(b) == PurposeHolidayHome && !hasTimeline(b) {
		return true
	}
	return containsAny(strings.ToLower(b.Status.Text()), disengagedStatusKeywords)
}

// Classify resolves the lead label. Rules are checked in order and the first
// match wins; disqualification and fake detection override everything.
func Classify(quality QualityScoreResult, intent IntentScoreResult, confidence ConfidenceScoreResult, fake FakeLeadCheckResult, lowUrgency bool) Classification {
	q, i, c := quality.Total, intent.Total, confidence.Total
	switch {
	case quality.IsDisqualified:
		return Disqualified
	case fake.IsFake:
		return Disqualified
	case intent.Is28DayBuyer:
		return HotLead
	case q >= hotQualityMin && i >= hotIntentMin && c >= hotConfidenceMin:
		return HotLead
	case q < lowPriorityQualityLt || lowUrgency:
		return LowPriority
	case c < needsQualConfidenceLt:
		return NeedsQualification
	case q >= qualifiedQualityMin && i >= qualifiedIntentMin && c >= qualifiedConfidenceMin:
		return Qualified
	case i < nurtureIntentLt && q >= nurtureQualityMin:
		return Nurture
	default:
		return NeedsQualification
	}
}
