package scoring

import (
	"math"
	"regexp"
	"strings"
)

// namePatterns flag placeholder, keyboard-mash and test names.
var namePatterns = []func(string) bool{
	regexMatcher(`(?i)test`),
	regexMatcher(`(?i)fake`),
	regexMatcher(`(?i)asdf`),
	regexMatcher(`(?i)qwerty`),
	regexMatcher(`(?i)xxx`),
	isRepeatedLetter,
	regexMatcher(`^\d`),
	regexMatcher(`(?i)^n/?a$`),
	regexMatcher(`(?i)^none$`),
	regexMatcher(`(?i)^null$`),
	regexMatcher(`(?i)demo`),
	regexMatcher(`(?i)sample`),
	regexMatcher(`(?i)john doe`),
	regexMatcher(`(?i)jane doe`),
	regexMatcher(`^\s*$`),
}

// emailPatterns flag test addresses, reserved domains and disposable inboxes.
var emailPatterns = []func(string) bool{
	regexMatcher(`(?i)test@`),
	regexMatcher(`(?i)fake@`),
	regexMatcher(`(?i)@example\.`),
	regexMatcher(`(?i)@(mailinator|guerrillamail|10minutemail|tempmail|temp-mail|throwawaymail|yopmail|trashmail|sharklasers|getnada|dispostable)\.`),
	regexMatcher(`(?i)noreply|no-reply|donotreply|do-not-reply`),
}

// phonePatterns run against the digits of the phone number only.
var phonePatterns = []func(string) bool{
	regexMatcher(`0{7,}`),
	regexMatcher(`1{7,}`),
	regexMatcher(`123456789`),
	hasRepeatedDigitRun,
	regexMatcher(`^000`),
	regexMatcher(`999999`),
}

var (
	nonDigitRegex   = regexp.MustCompile(`\D`)
	fakeStatusRegex = regexp.MustCompile(`(?i)fake|spam|can't verify`)
)

func regexMatcher(pattern string) func(string) bool {
	re := regexp.MustCompile(pattern)
	return re.MatchString
}

// isRepeatedLetter matches strings made of one repeated letter ("aaaa").
func isRepeatedLetter(s string) bool {
	runes := []rune(strings.ToLower(s))
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if r < 'a' || r > 'z' || r != runes[0] {
			return false
		}
	}
	return true
}

// hasRepeatedDigitRun matches any single digit repeated seven or more times.
func hasRepeatedDigitRun(digits string) bool {
	run := 1
	for i := 1; i < len(digits); i++ {
		if digits[i] == digits[i-1] {
			run++
			if run >= repeatedDigitLength {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}

func matchesAny(s string, patterns []func(string) bool) bool {
	for _, match := range patterns {
		if match(s) {
			return true
		}
	}
	return false
}

// DetectFakeLead adds up spam and test-data signals. A lead is fake once the
// signals reach FakeLeadThreshold.
func DetectFakeLead(b Buyer) FakeLeadCheckResult {
	fakeScore := 0
	flags := []string{}

	name := FullName(b)
	if name != "" && matchesAny(name, namePatterns) {
		fakeScore += fakeNamePoints
		flags = append(flags, "Suspicious name pattern detected")
	}

	if b.Email.Truthy() && matchesAny(b.Email.Text(), emailPatterns) {
		fakeScore += fakeEmailPoints
		flags = append(flags, "Suspicious or disposable email address")
	}

	if b.Phone.Truthy() {
		digits := nonDigitRegex.ReplaceAllString(b.Phone.Text(), "")
		if digits != "" && matchesAny(digits, phonePatterns) {
			fakeScore += fakePhonePoints
			flags = append(flags, "Suspicious phone number pattern")
		}
	}

	if !b.Email.Truthy() && !b.Phone.Truthy() {
		fakeScore += noContactPoints
		flags = append(flags, "No contact information provided")
	}

	if name != "" && len([]rune(strings.TrimSpace(name))) < MinNameLength {
		fakeScore += shortNamePoints
		flags = append(flags, "Name is too short")
	}

	if budget := BuyerBudget(b); budget > 0 && budget < UnrealisticBudgetThreshold {
		fakeScore += lowBudgetPoints
		flags = append(flags, "Budget unrealistically low for UK property")
	}

	if b.Status.Truthy() && fakeStatusRegex.MatchString(b.Status.Text()) {
		fakeScore += fakeStatusPoints
		flags = append(flags, "Status marked as fake, spam or unverifiable")
	}

	return FakeLeadCheckResult{
		IsFake:     fakeScore >= FakeLeadThreshold,
		Flags:      flags,
		Confidence: math.Min(float64(fakeScore)/100, 1),
	}
}
