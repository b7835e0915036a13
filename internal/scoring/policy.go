package scoring

import "time"

// Score bounds.
const (
	minScore = 0
	maxScore = 100
)

// Disqualification and fake-lead policy.
const (
	DisqualifyBudgetThreshold  = 2_000_000.0
	DisqualifyMaxBedrooms      = 1.0
	UnrealisticBudgetThreshold = 10_000.0
	FakeLeadThreshold          = 50
	MinNameLength              = 3
	StaleLeadAge               = 60 * 24 * time.Hour
	MaxRiskFlags               = 5
	MaxFakeFlagsInRiskFlags    = 2

	disqualificationReason = "£2M+ budget with studio/1-bed preference is unrealistic"
)

// Fake-lead signal weights.
const (
	fakeNamePoints      = 35
	fakeEmailPoints     = 40
	fakePhonePoints     = 30
	noContactPoints     = 25
	shortNamePoints     = 20
	lowBudgetPoints     = 30
	fakeStatusPoints    = 50
	repeatedDigitLength = 7
)

// Quality points.
const (
	cashPoints                  = 30
	mortgageSeekingBrokerPoints = 15
	mortgageWithBrokerPoints    = 20
	mortgageBrokerUnknownPoints = 10

	primaryResidenceQualityPoints  = 15
	dependentStudyingQualityPoints = 15
	investmentQualityPoints        = 10
	holidayHomeQualityPoints       = 5

	completeContactPoints = 10
)

// Intent points.
const (
	twentyEightDayPoints  = 40
	shortTimelinePoints   = 25
	longTimelinePoints    = 5
	shortTimelineMonths   = 3
	longTimelineMonths    = 6
	dependentIntentPoints = 25
	primaryIntentPoints   = 20
	investIntentPoints    = 10
	holidayIntentPoints   = 5
	brokerSeekingPoints   = 10
	formSourcePoints      = 10
	whatsappSourcePoints  = 5
)

// Confidence points per populated field.
const (
	nameConfidencePoints     = 10
	emailConfidencePoints    = 15
	phoneConfidencePoints    = 15
	budgetConfidencePoints   = 10
	paymentConfidencePoints  = 10
	proofConfidencePoints    = 5
	timelineConfidencePoints = 10
	bedroomConfidencePoints  = 5
	locationConfidencePoints = 5
	sourceConfidencePoints   = 10
	purposeConfidencePoints  = 5
)

// Classification thresholds.
const (
	hotQualityMin          = 70
	hotIntentMin           = 70
	hotConfidenceMin       = 60
	lowPriorityQualityLt   = 40
	needsQualConfidenceLt  = 50
	qualifiedQualityMin    = 60
	qualifiedIntentMin     = 50
	qualifiedConfidenceMin = 50
	nurtureIntentLt        = 50
	nurtureQualityMin      = 50
)
