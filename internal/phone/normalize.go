package phone

import (
	"regexp"
	"strings"
)

const (
	MsgMissingPlus          = "Phone number must start with +"
	MsgUSFormat             = "US numbers must be in format +1XXXXXXXXXX (10 digits after +1)"
	MsgInternationalLength  = "Enter a valid international phone number (8-15 digits)."
	MsgLeadingZeroAfterCode = "No leading zeros after country code."
)

var (
	usPattern             = regexp.MustCompile(`^\+1\d{10}$`)
	leadingZeroAfterCode  = regexp.MustCompile(`^\+\d{1,3}0`)
	nonDigitOrPlus        = regexp.MustCompile(`[^\d+]`)
	nonDigit              = regexp.MustCompile(`\D`)
	leadingPlusRun        = regexp.MustCompile(`^\++`)
	leadingZerosAfterPlus = regexp.MustCompile(`^\+0+`)
)

// NormalizedPhone is the result of normalizing free-text phone input.
// Value is either empty or starts with a single '+' followed by digits.
type NormalizedPhone struct {
	Value   string `json:"value"`
	Error   string `json:"error"`
	Country string `json:"country"`
}

// Valid reports whether normalization produced no error.
func (p NormalizedPhone) Valid() bool {
	return p.Error == ""
}

// NormalizeAndValidate turns free-text input into +<digits> and checks it
// against the rule for country ("us" or anything else for international).
// It never fails; problems are reported through Error.
func NormalizeAndValidate(input, country string) NormalizedPhone {
	country = strings.ToLower(strings.TrimSpace(country))
	out := NormalizedPhone{Country: country}

	s := nonDigitOrPlus.ReplaceAllString(input, "")
	s = leadingPlusRun.ReplaceAllString(s, "+")
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	if strings.HasPrefix(s, "+") {
		s = "+" + strings.ReplaceAll(s[1:], "+", "")
	} else {
		s = "+" + strings.ReplaceAll(s, "+", "")
	}
	s = leadingZerosAfterPlus.ReplaceAllString(s, "+")
	s = "+" + nonDigit.ReplaceAllString(s[1:], "")

	digits := s[1:]
	if digits == "" {
		return out
	}
	out.Value = s

	if !strings.HasPrefix(out.Value, "+") {
		out.Error = MsgMissingPlus
		return out
	}

	if country == "us" {
		if !usPattern.MatchString(out.Value) {
			out.Error = MsgUSFormat
		}
		return out
	}

	if len(digits) < 8 || len(digits) > 15 {
		out.Error = MsgInternationalLength
	}
	if leadingZeroAfterCode.MatchString(out.Value) {
		out.Error = MsgLeadingZeroAfterCode
	}
	return out
}

// IsDialable is the looser check applied while a number is being typed.
// US numbers need 10 digits, or 11 starting with 1; others need at least 8.
func IsDialable(input, country string) bool {
	digits := nonDigit.ReplaceAllString(input, "")
	if strings.EqualFold(strings.TrimSpace(country), "us") {
		return len(digits) == 10 || (len(digits) == 11 && digits[0] == '1')
	}
	return len(digits) >= 8
}
