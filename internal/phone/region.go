package phone

import "github.com/nyaruka/phonenumbers"

// Region returns the ISO region code (e.g. "US", "GB") for a normalized
// value, or "" when the number cannot be attributed to a region.
func Region(value string) string {
	if value == "" || value[0] != '+' {
		return ""
	}
	num, err := phonenumbers.Parse(value, "")
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == phonenumbers.UNKNOWN_REGION {
		return ""
	}
	return region
}

// Mask hides all but the last four digits of a phone value for logging.
func Mask(value string) string {
	runes := []rune(value)
	digits := 0
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] < '0' || runes[i] > '9' {
			continue
		}
		digits++
		if digits > 4 {
			runes[i] = '*'
		}
	}
	return string(runes)
}
