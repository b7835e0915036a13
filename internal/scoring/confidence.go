package scoring

// completenessCheck awards points when any of its fields is populated.
type completenessCheck struct {
	factor  string
	points  int
	present func(b Buyer) bool
}

var completenessChecks = []completenessCheck{
	{"Name", nameConfidencePoints, func(b Buyer) bool { return FullName(b) != "" }},
	{"Email", emailConfidencePoints, func(b Buyer) bool { return b.Email.Truthy() }},
	{"Phone", phoneConfidencePoints, func(b Buyer) bool { return b.Phone.Truthy() }},
	{"Budget", budgetConfidencePoints, func(b Buyer) bool { return anyTruthy(b.Budget, b.BudgetRange, b.BudgetMin) }},
	{"Payment Method", paymentConfidencePoints, func(b Buyer) bool { return b.PaymentMethod.Truthy() }},
	{"Proof of Funds", proofConfidencePoints, func(b Buyer) bool { return b.ProofOfFunds.Truthy() }},
	{"Timeline", timelineConfidencePoints, hasTimeline},
	{"Bedrooms", bedroomConfidencePoints, func(b Buyer) bool { return anyTruthy(b.Bedrooms, b.PreferredBedrooms) }},
	{"Location", locationConfidencePoints, func(b Buyer) bool { return anyTruthy(b.Location, b.Area) }},
	{"Source", sourceConfidencePoints, func(b Buyer) bool { return anyTruthy(b.Source, b.SourcePlatform) }},
	{"Purpose", purposeConfidencePoints, func(b Buyer) bool { return anyTruthy(b.Purpose, b.PurchasePurpose) }},
}

var confidenceRules = func() []rule {
	rules := make([]rule, 0, len(completenessChecks))
	for _, check := range completenessChecks {
		rules = append(rules, func(b Buyer) (Factor, bool) {
			if !check.present(b) {
				return Factor{}, false
			}
			return Factor{check.factor, check.points, check.factor + " provided"}, true
		})
	}
	return rules
}()

// ScoreConfidence measures how much of the record is filled in.
func ScoreConfidence(b Buyer) ConfidenceScoreResult {
	total, breakdown := fold(b, confidenceRules)
	return ConfidenceScoreResult{
		Total:     clampScore(total),
		Breakdown: breakdown,
	}
}
