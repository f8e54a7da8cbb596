// Package phone normalizes user-entered phone numbers into the canonical
// international form used as the credential record key.
//
// The product serves the Mongolian market: subscriber numbers are 8 digits
// and the country code is 976. Normalize accepts the three shapes users
// actually type ("+976 9911 9911", "97699119911", "99119911") and rejects
// everything else, so issuance and verification can never disagree about
// which record a number maps to.
package phone

import (
	"errors"
	"strings"
)

// CountryCode is the dialing prefix for the target locale.
const CountryCode = "976"

// localDigits is the fixed subscriber-number length for the locale.
const localDigits = 8

// ErrInvalidFormat is returned for any input that does not reduce to a valid
// local or international number.
var ErrInvalidFormat = errors.New("invalid phone format")

// Normalize converts a raw user-entered phone string to canonical
// international form: "+976" followed by the 8-digit subscriber number.
// It is idempotent: normalizing an already-canonical value returns it unchanged.
func Normalize(raw string) (string, error) {
	digits := stripNonDigits(raw)

	switch {
	case len(digits) == localDigits:
		return "+" + CountryCode + digits, nil
	case len(digits) == localDigits+len(CountryCode) && strings.HasPrefix(digits, CountryCode):
		return "+" + digits, nil
	default:
		return "", ErrInvalidFormat
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
