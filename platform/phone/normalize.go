// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion      = "MX"
	defaultCountryCode = "52"
	nationalLength     = 10
)

// NormalizeE164 formats a phone number to E.164. If parsing fails, it falls
// back to stripping non-digits and applying the default country code.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	digits := Digits(trimmed)
	if digits == "" {
		return trimmed
	}
	if len(digits) == nationalLength && !strings.HasPrefix(digits, defaultCountryCode) {
		digits = defaultCountryCode + digits
	}
	return "+" + digits
}

// Digits strips everything but digits from the input.
func Digits(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WireFormat returns the number the gateway expects: E.164 without the plus.
func WireFormat(input string) string {
	return strings.TrimPrefix(NormalizeE164(input), "+")
}
