// Package scoring implements the Naybourhood lead scoring framework.
//
// A raw Buyer record is run through a fixed pipeline: fake-lead check,
// low-urgency flag, quality, intent and confidence scores, classification,
// call priority and risk flags. Every stage is a pure function of the record
// (and the caller's clock for lead age); nothing here performs I/O.
package scoring

// Buyer is one lead as stored by intake. Most inputs have aliases from older
// forms and imports; the first non-null alias wins where a field has several.
type Buyer struct {
	FullName  Value `json:"full_name"`
	FirstName Value `json:"first_name"`
	LastName  Value `json:"last_name"`
	Email     Value `json:"email"`
	Phone     Value `json:"phone"`
	Country   Value `json:"country"`

	PaymentMethod  Value `json:"payment_method"`
	ProofOfFunds   Value `json:"proof_of_funds"`
	MortgageStatus Value `json:"mortgage_status"`
	Budget         Value `json:"budget"`
	BudgetRange    Value `json:"budget_range"`
	BudgetMin      Value `json:"budget_min"`

	Bedrooms          Value `json:"bedrooms"`
	PreferredBedrooms Value `json:"preferred_bedrooms"`
	Location          Value `json:"location"`
	Area              Value `json:"area"`

	Timeline           Value `json:"timeline"`
	TimelineToPurchase Value `json:"timeline_to_purchase"`
	ReadyIn28Days      Value `json:"ready_in_28_days"`
	ReadyWithin28Days  Value `json:"ready_within_28_days"`

	UKBroker        Value `json:"uk_broker"`
	ConnectToBroker Value `json:"connect_to_broker"`

	Purpose         Value `json:"purpose"`
	PurchasePurpose Value `json:"purchase_purpose"`

	Source         Value `json:"source"`
	SourcePlatform Value `json:"source_platform"`
	CreatedAt      Value `json:"created_at"`
	DateAdded      Value `json:"date_added"`

	Status Value `json:"status"`
}

// Classification is the final lead label.
type Classification string

const (
	HotLead            Classification = "Hot Lead"
	Qualified          Classification = "Qualified"
	NeedsQualification Classification = "Needs Qualification"
	Nurture            Classification = "Nurture"
	LowPriority        Classification = "Low Priority"
	Disqualified       Classification = "Disqualified"
)

// Classifications lists every label in descending urgency.
var Classifications = []Classification{HotLead, Qualified, NeedsQualification, Nurture, LowPriority, Disqualified}

// Factor is one line of a score breakdown.
type Factor struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// FakeLeadCheckResult is the verdict of the fake-lead detector.
type FakeLeadCheckResult struct {
	IsFake     bool     `json:"isFake"`
	Flags      []string `json:"flags"`
	Confidence float64  `json:"confidence"`
}

// QualityScoreResult captures financial proceedability, commitment and data realism.
type QualityScoreResult struct {
	Total                  int      `json:"total"`
	Breakdown              []Factor `json:"breakdown"`
	IsDisqualified         bool     `json:"isDisqualified"`
	DisqualificationReason string   `json:"disqualificationReason,omitempty"`
}

// IntentScoreResult captures how soon and how seriously the buyer means to act.
type IntentScoreResult struct {
	Total        int      `json:"total"`
	Breakdown    []Factor `json:"breakdown"`
	Is28DayBuyer bool     `json:"is28DayBuyer"`
}

// ConfidenceScoreResult measures record completeness.
type ConfidenceScoreResult struct {
	Total     int      `json:"total"`
	Breakdown []Factor `json:"breakdown"`
}

// CallPriority is a 1..5 urgency tier with its response SLA.
type CallPriority struct {
	Level        int    `json:"level"`
	Description  string `json:"description"`
	ResponseTime string `json:"responseTime"`
}

// Result is the full output of Score.
type Result struct {
	FakeLeadCheck   FakeLeadCheckResult   `json:"fakeLeadCheck"`
	QualityScore    QualityScoreResult    `json:"qualityScore"`
	IntentScore     IntentScoreResult     `json:"intentScore"`
	ConfidenceScore ConfidenceScoreResult `json:"confidenceScore"`
	Classification  Classification        `json:"classification"`
	CallPriority    CallPriority          `json:"callPriority"`
	RiskFlags       []string              `json:"riskFlags"`
	Is28DayBuyer    bool                  `json:"is28DayBuyer"`
	LowUrgencyFlag  bool                  `json:"lowUrgencyFlag"`
}
