package scoring

import (
	"fmt"
	"strings"
	"time"
)

// ResolveCallPriority maps a classification to a call tier. A 28-day buyer
// is always tier 1 with a one hour SLA, checked before the classification.
func ResolveCallPriority(classification Classification, intent IntentScoreResult) CallPriority {
	if intent.Is28DayBuyer {
		return CallPriority{Level: 1, Description: "28-Day Buyer - Immediate Priority", ResponseTime: "Within 1 hour"}
	}

	switch classification {
	case HotLead:
		return CallPriority{Level: 1, Description: "Hot Lead - High Priority", ResponseTime: "Within 2 hours"}
	case Qualified:
		return CallPriority{Level: 2, Description: "Qualified - Medium-High Priority", ResponseTime: "Within 4 hours"}
	case NeedsQualification:
		return CallPriority{Level: 3, Description: "Needs Qualification - Medium Priority", ResponseTime: "Within 24 hours"}
	case Nurture:
		return CallPriority{Level: 4, Description: "Nurture - Low Priority", ResponseTime: "Within 48 hours"}
	case LowPriority:
		return CallPriority{Level: 5, Description: "Low Priority - Minimal Priority", ResponseTime: "Within 1 week"}
	case Disqualified:
		return CallPriority{Level: 5, Description: "No Action Required", ResponseTime: "N/A"}
	default:
		return CallPriority{Level: 4, Description: "Standard Priority", ResponseTime: "Within 48 hours"}
	}
}

var ukCountries = map[string]bool{
	"uk":               true,
	"united kingdom":   true,
	"england":          true,
	"scotland":         true,
	"wales":            true,
	"ni":               true,
	"northern ireland": true,
}

var approvedMortgageStatuses = map[string]bool{"approved": true, "aip": true}

// RiskFlags lists caveats for the sales team in a fixed order and keeps at
// most MaxRiskFlags of them.
func RiskFlags(b Buyer, fake FakeLeadCheckResult, quality QualityScoreResult, now time.Time) []string {
	flags := []string{}

	fakeFlags := fake.Flags
	if len(fakeFlags) > MaxFakeFlagsInRiskFlags {
		fakeFlags = fakeFlags[:MaxFakeFlagsInRiskFlags]
	}
	flags = append(flags, fakeFlags...)

	if quality.DisqualificationReason != "" {
		flags = append(flags, quality.DisqualificationReason)
	}

	isMortgage := PaymentMethod(b) == PaymentMortgage
	if isMortgage && !b.ProofOfFunds.Truthy() && !approvedMortgageStatuses[b.MortgageStatus.lower()] {
		flags = append(flags, "Mortgage not yet approved")
	}

	if !hasTimeline(b) && !b.ReadyIn28Days.Truthy() && !b.ReadyWithin28Days.Truthy() {
		flags = append(flags, "Timeline not specified")
	}

	if isMortgage && !HasBroker(b) {
		flags = append(flags, "Mortgage buyer without broker")
	}

	if b.Country.Truthy() && !ukCountries[b.Country.lower()] {
		flags = append(flags, "International buyer - may need extended timeline")
	}

	if added, ok := leadDate(b); ok {
		age := now.Sub(added)
		if age > StaleLeadAge {
			flags = append(flags, fmt.Sprintf("Lead is %d days old", int(age.Hours()/24)))
		}
	}

	if len(flags) > MaxRiskFlags {
		flags = flags[:MaxRiskFlags]
	}
	return flags
}

var leadDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// leadDate parses date_added ?? created_at. Numbers are epoch milliseconds.
func leadDate(b Buyer) (time.Time, bool) {
	v := firstSet(b.DateAdded, b.CreatedAt)
	if ms, ok := v.Number(); ok {
		return time.UnixMilli(int64(ms)), true
	}
	raw := strings.TrimSpace(v.Text())
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range leadDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
