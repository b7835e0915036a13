package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical purchase purposes.
const (
	PurposePrimaryResidence  = "primary_residence"
	PurposeDependentStudying = "dependent_studying"
	PurposeInvestment        = "investment"
	PurposeHolidayHome       = "holiday_home"
	PurposeUnknown           = "unknown"
)

// Canonical lead sources.
const (
	SourceForm     = "form"
	SourceWhatsApp = "whatsapp"
	SourceEmail    = "email"
	SourcePhone    = "phone"
	SourceReferral = "referral"
	SourceUnknown  = "unknown"
)

// Canonical payment methods.
const (
	PaymentCash     = "cash"
	PaymentMortgage = "mortgage"
)

var (
	budgetNoiseRegex  = regexp.MustCompile(`[£$€,\s]`)
	budgetRangeRegex  = regexp.MustCompile(`^(\d+(?:\.\d+)?)(k|m)?(?:-|–|—|to)(\d+(?:\.\d+)?)(k|m)?`)
	budgetSingleRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)(k|m)?$`)
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:e[+-]?\d+)?`)

	ready28DayRegex = regexp.MustCompile(`(?i)28\s*days?|immediate|asap|now|urgent|ready to (buy|purchase)|next week`)
)

// keywordFamily maps a canonical value to the substrings that select it.
type keywordFamily struct {
	value    string
	keywords []string
}

// purposeFamilies is evaluated top to bottom; first match wins.
var purposeFamilies = []keywordFamily{
	{PurposePrimaryResidence, []string{"residence", "home", "primary"}},
	{PurposeDependentStudying, []string{"dependent", "studying", "student"}},
	{PurposeInvestment, []string{"investment", "btl", "buy to let"}},
	{PurposeHolidayHome, []string{"holiday", "second", "vacation"}},
}

// sourceFamilies is evaluated top to bottom; "form" is checked first.
var sourceFamilies = []keywordFamily{
	{SourceForm, []string{"form"}},
	{SourceWhatsApp, []string{"whatsapp"}},
	{SourceEmail, []string{"email"}},
	{SourcePhone, []string{"phone"}},
	{SourceReferral, []string{"referral"}},
}

// timelineBucket maps a timeline phrase to an approximate horizon in months.
type timelineBucket struct {
	months  int
	pattern *regexp.Regexp
}

// timelineBuckets is evaluated top to bottom; first match wins. There is no
// bucket for 4-5 months.
var timelineBuckets = []timelineBucket{
	{1, regexp.MustCompile(`(?i)immediate|asap|now|urgent|28\s*days?|next week|ready to (buy|purchase)`)},
	{3, regexp.MustCompile(`(?i)1\s*(?:-|–|to)\s*3|soon|short`)},
	{6, regexp.MustCompile(`(?i)3\s*(?:-|–|to)\s*6|half\s*(?:a\s*)?year`)},
	{12, regexp.MustCompile(`(?i)6\s*(?:-|–|to)\s*12|year`)},
	{18, regexp.MustCompile(`(?i)long|flexible|no rush|18|24`)},
}

// ParseBudget converts a budget field to pounds. Ranges resolve to their
// lower bound; k and m suffixes multiply by a thousand and a million.
// Anything unparseable yields 0.
func ParseBudget(v Value) float64 {
	if n, ok := v.Number(); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}
	if !v.Truthy() {
		return 0
	}

	cleaned := budgetNoiseRegex.ReplaceAllString(strings.ToLower(v.Text()), "")
	if cleaned == "" {
		return 0
	}

	if m := budgetRangeRegex.FindStringSubmatch(cleaned); m != nil {
		return applySuffix(m[1], m[2])
	}
	if m := budgetSingleRegex.FindStringSubmatch(cleaned); m != nil {
		return applySuffix(m[1], m[2])
	}

	prefix := leadingFloatRegex.FindString(cleaned)
	if prefix == "" {
		return 0
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func applySuffix(number, suffix string) float64 {
	d, err := decimal.NewFromString(number)
	if err != nil {
		return 0
	}
	switch suffix {
	case "k":
		d = d.Mul(decimal.NewFromInt(1_000))
	case "m":
		d = d.Mul(decimal.NewFromInt(1_000_000))
	}
	return d.InexactFloat64()
}

// BuyerBudget returns the parsed budget from budget, budget_range or
// budget_min, whichever is set first.
func BuyerBudget(b Buyer) float64 {
	return ParseBudget(firstSet(b.Budget, b.BudgetRange, b.BudgetMin))
}

// Bedrooms returns bedrooms ?? preferred_bedrooms as a number. ok is false
// when neither is set. A set but non-numeric value yields NaN, which fails
// every comparison; "studio" counts as zero.
func Bedrooms(b Buyer) (float64, bool) {
	v := firstSet(b.Bedrooms, b.PreferredBedrooms)
	if !v.IsSet() {
		return 0, false
	}
	if n, ok := v.Number(); ok {
		return n, true
	}
	text := v.lower()
	if strings.Contains(text, "studio") {
		return 0, true
	}
	prefix := leadingFloatRegex.FindString(text)
	if prefix == "" {
		return math.NaN(), true
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return math.NaN(), true
	}
	return d.InexactFloat64(), true
}

func ukBrokerStatus(b Buyer) string {
	return b.UKBroker.lower()
}

// WantsBroker reports whether the buyer has no UK broker yet or asked to be
// connected to one.
func WantsBroker(b Buyer) bool {
	status := ukBrokerStatus(b)
	return status == "no" || status == "unknown" || b.ConnectToBroker.IsTrue()
}

// HasBroker reports whether the buyer already works with a UK broker.
func HasBroker(b Buyer) bool {
	switch ukBrokerStatus(b) {
	case "yes", "introduced", "true":
		return true
	default:
		return false
	}
}

// PaymentMethod normalises payment_method to cash, mortgage or the raw
// lower-cased text.
func PaymentMethod(b Buyer) string {
	method := b.PaymentMethod.lower()
	switch {
	case strings.Contains(method, PaymentCash):
		return PaymentCash
	case strings.Contains(method, PaymentMortgage):
		return PaymentMortgage
	default:
		return method
	}
}

// PurchasePurpose maps purpose ?? purchase_purpose onto a canonical purpose.
// Unrecognised text is returned lower-cased; a missing purpose is "unknown".
func PurchasePurpose(b Buyer) string {
	raw := firstSet(b.Purpose, b.PurchasePurpose).lower()
	if raw == "" {
		return PurposeUnknown
	}
	return matchFamily(raw, purposeFamilies)
}

// SourceType maps source ?? source_platform onto a canonical channel.
func SourceType(b Buyer) string {
	raw := firstSet(b.Source, b.SourcePlatform).lower()
	if raw == "" {
		return SourceUnknown
	}
	return matchFamily(raw, sourceFamilies)
}

// RawSource returns source ?? source_platform as entered.
func RawSource(b Buyer) string {
	return firstSet(b.Source, b.SourcePlatform).Text()
}

func matchFamily(raw string, families []keywordFamily) string {
	for _, family := range families {
		if containsAny(raw, family.keywords) {
			return family.value
		}
	}
	return raw
}

func timelineText(b Buyer) string {
	return firstSet(b.Timeline, b.TimelineToPurchase).lower()
}

func hasTimeline(b Buyer) bool {
	return anyTruthy(b.Timeline, b.TimelineToPurchase)
}

// Is28DayReady reports whether the buyer can proceed within 28 days, either
// through an explicit flag or the wording of their timeline.
func Is28DayReady(b Buyer) bool {
	if b.ReadyIn28Days.IsTrue() || b.ReadyWithin28Days.IsTrue() {
		return true
	}
	timeline := timelineText(b)
	return timeline != "" && ready28DayRegex.MatchString(timeline)
}

// TimelineMonths buckets the timeline into 1, 3, 6, 12 or 18 months.
// ok is false when the timeline is missing or matches no bucket.
func TimelineMonths(b Buyer) (int, bool) {
	timeline := timelineText(b)
	if timeline == "" {
		return 0, false
	}
	for _, bucket := range timelineBuckets {
		if bucket.pattern.MatchString(timeline) {
			return bucket.months, true
		}
	}
	return 0, false
}

// FullName returns full_name, or first and last name joined.
func FullName(b Buyer) string {
	if b.FullName.Truthy() {
		return b.FullName.Text()
	}
	return strings.TrimSpace(b.FirstName.Text() + " " + b.LastName.Text())
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
