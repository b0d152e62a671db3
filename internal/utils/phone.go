// internal/utils/phone.go
package utils

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone reduces an Uzbek phone number to +998XXXXXXXXX. Local nine
// digit numbers get the country code prepended. Only ASCII digits count.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 9:
		d = "998" + d
	case len(d) == 12 && strings.HasPrefix(d, "998"):
	default:
		return "", ErrInvalidPhone
	}

	return "+" + d, nil
}

// FormatPhone renders a number as +998 XX XXX XX XX. Input that does not
// normalize is returned unchanged.
func FormatPhone(raw string) string {
	n, err := NormalizePhone(raw)
	if err != nil {
		return raw
	}
	d := n[4:]
	return "+998 " + d[0:2] + " " + d[2:5] + " " + d[5:7] + " " + d[7:9]
}
