package validators

import "strings"

// NormalizePhone keeps only digits, so "(11) 98888-7777" and "11988887777"
// identify the same client. Returns "" when the result is not 10 to 13
// digits long (local number with area code, optionally with country code).
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 13 {
		return ""
	}
	return digits
}
