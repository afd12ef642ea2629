// otp/phone.go
package otp

import (
	"fmt"
	"strings"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
)

// Lebanese mobile prefixes accepted for OTP sign-in.
var validPrefixes = map[string]bool{
	"03": true,
	"70": true,
	"71": true,
	"76": true,
	"78": true,
	"79": true,
	"81": true,
}

// FormatLebanesePhone renders a Lebanese mobile number with the country code
// and the display grouping used everywhere in the app, for example "70499810"
// becomes "+961 70 499 810". Numbers already carrying the 961 country code,
// including the app's own rendering, normalize back to the same form. Numbers
// that do not reduce to 8 local digits with a known mobile prefix are
// rejected.
func FormatLebanesePhone(number string) (string, error) {
	digits, err := localDigits(number)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("+961 %s %s %s", digits[:2], digits[2:5], digits[5:]), nil
}

// E164LebanesePhone renders the same number in E.164 for the verification
// provider. The leading zero of the 03 prefix is dropped per E.164 rules.
func E164LebanesePhone(number string) (string, error) {
	digits, err := localDigits(number)
	if err != nil {
		return "", err
	}
	return "+961" + strings.TrimPrefix(digits, "0"), nil
}

// localDigits reduces any accepted spelling to the local 8-digit form. A
// leading 961 country code is stripped; the E.164 form of an 03 number lost
// its leading zero, so that case restores it.
func localDigits(number string) (string, error) {
	digits := digitsOnly(number)
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "961"):
		digits = digits[3:]
	case len(digits) == 10 && strings.HasPrefix(digits, "961"):
		digits = "0" + digits[3:]
	}

	if len(digits) != 8 {
		return "", fayhaa_errors.ErrInvalidPhone
	}
	if !validPrefixes[digits[:2]] {
		return "", fayhaa_errors.ErrInvalidPhone
	}
	return digits, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
