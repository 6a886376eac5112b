// Package credential holds the pure registration policy: what counts as an
// acceptable email address and password. No I/O, no state; the functions
// return identical results no matter how often they are called, so the
// transport layer is free to re-evaluate them on every edit.
package credential

import (
	"regexp"
	"unicode/utf8"
)

// emailRX mirrors the address pattern the driver app validated against:
// local-part@domain with at least one dot in the domain.
var emailRX = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s is an acceptable email address.
func ValidEmail(s string) bool {
	return emailRX.MatchString(s)
}

// passwordSymbols is the fixed allowed symbol set; at least one of these is
// required, any additional characters are permitted.
const passwordSymbols = "@#$%^&+="

// ValidPassword reports whether s satisfies the password policy: length of
// at least 8 with at least one lowercase letter, one uppercase letter, one
// digit and one symbol from the allowed set.
func ValidPassword(s string) bool {
	// Length counts characters, not bytes: a multibyte password shorter than
	// eight characters is still too short.
	if utf8.RuneCountInString(s) < 8 {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			for _, sym := range passwordSymbols {
				if r == sym {
					symbol = true
					break
				}
			}
		}
	}

	return lower && upper && digit && symbol
}
