package scoring

import "strings"

const (
	factorDisqualification = "Disqualification"
	factorProceedability   = "Financial Proceedability"
	factorCommitment       = "Commitment Signal"
	factorRealism          = "Data Realism"
)

var qualityRules = []rule{
	proceedabilityRule,
	commitmentRule,
	realismRule,
}

// ScoreQuality rates how likely the buyer is to complete. A £2M+ budget
// paired with a studio or one-bed preference disqualifies outright and no
// other rule runs.
func ScoreQuality(b Buyer) QualityScoreResult {
	if isUnrealisticBrief(b) {
		return QualityScoreResult{
			Total: 0,
			Breakdown: []Factor{{
				Factor: factorDisqualification,
				Points: 0,
				Reason: disqualificationReason,
			}},
			IsDisqualified:         true,
			DisqualificationReason: disqualificationReason,
		}
	}

	total, breakdown := fold(b, qualityRules)
	return QualityScoreResult{
		Total:     clampScore(total),
		Breakdown: breakdown,
	}
}

func isUnrealisticBrief(b Buyer) bool {
	if BuyerBudget(b) < DisqualifyBudgetThreshold {
		return false
	}
	bedrooms, ok := Bedrooms(b)
	return ok && bedrooms <= DisqualifyMaxBedrooms
}

func proceedabilityRule(b Buyer) (Factor, bool) {
	switch PaymentMethod(b) {
	case PaymentCash:
		return Factor{factorProceedability, cashPoints, "Cash buyer"}, true
	case PaymentMortgage:
		wants, has := WantsBroker(b), HasBroker(b)
		switch {
		case wants && !has:
			return Factor{factorProceedability, mortgageSeekingBrokerPoints, "Mortgage buyer seeking broker introduction"}, true
		case has:
			return Factor{factorProceedability, mortgageWithBrokerPoints, "Mortgage buyer with UK broker"}, true
		default:
			return Factor{factorProceedability, mortgageBrokerUnknownPoints, "Mortgage buyer, broker status unknown"}, true
		}
	default:
		return Factor{}, false
	}
}

func commitmentRule(b Buyer) (Factor, bool) {
	switch PurchasePurpose(b) {
	case PurposePrimaryResidence:
		return Factor{factorCommitment, primaryResidenceQualityPoints, "Buying a primary residence"}, true
	case PurposeDependentStudying:
		return Factor{factorCommitment, dependentStudyingQualityPoints, "Buying for a dependent studying in the UK"}, true
	case PurposeInvestment:
		return Factor{factorCommitment, investmentQualityPoints, "Investment purchase"}, true
	case PurposeHolidayHome:
		return Factor{factorCommitment, holidayHomeQualityPoints, "Holiday or second home"}, true
	default:
		return Factor{}, false
	}
}

func realismRule(b Buyer) (Factor, bool) {
	hasName := FullName(b) != ""
	hasEmail := b.Email.Truthy()
	hasPhone := b.Phone.Truthy()
	if hasName && hasEmail && hasPhone {
		return Factor{"Complete Contact Info", completeContactPoints, "Name, email and phone provided"}, true
	}

	var missing []string
	if !hasName {
		missing = append(missing, "name")
	}
	if !hasEmail {
		missing = append(missing, "email")
	}
	if !hasPhone {
		missing = append(missing, "phone")
	}
	return Factor{factorRealism, 0, "Incomplete contact info: missing " + strings.Join(missing, ", ")}, true
}
