// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller does not supply one.
const DefaultRegion = "US"

// NormalizeE164 formats a phone number to E.164 using region for numbers without a
// country code. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Digits strips every non-digit character.
func Digits(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// LastDigits returns the final n digits of the cleaned number, or all of them if
// there are fewer than n.
func LastDigits(input string, n int) string {
	digits := Digits(input)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
