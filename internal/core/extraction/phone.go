package extraction

import (
	"regexp"
	"strings"
)

var (
	// +94 followed by nine digits, single spaces or hyphens allowed between digits
	intlPhoneRe = regexp.MustCompile(`(?:^|\D)(\+?\s*94(?:[\s-]?\d){9})(?:\D|$)`)
	// 0 followed by nine digits, e.g. 077 123 4567
	localPhoneRe = regexp.MustCompile(`(?:^|\D)(0(?:[\s-]?\d){9})(?:\D|$)`)
	nonDigitRe   = regexp.MustCompile(`\D+`)
)

const phonePrefix = "+94"

// ExtractPhone finds a Sri Lankan phone number in text and returns it as
// +94XXXXXXXXX. When no +94 or local 0 form is present it falls back to the
// last nine digits of all digits in the text, which is a guess.
func ExtractPhone(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if m := intlPhoneRe.FindStringSubmatch(text); m != nil {
		digits := strings.TrimPrefix(nonDigitRe.ReplaceAllString(m[1], ""), "94")
		if len(digits) >= 9 {
			return phonePrefix + digits[len(digits)-9:]
		}
	}

	if m := localPhoneRe.FindStringSubmatch(text); m != nil {
		digits := nonDigitRe.ReplaceAllString(m[1], "")
		if len(digits) >= 10 {
			return phonePrefix + digits[len(digits)-9:]
		}
	}

	all := nonDigitRe.ReplaceAllString(text, "")
	if len(all) >= 9 {
		return phonePrefix + all[len(all)-9:]
	}
	return ""
}

// NormalizePhone canonicalizes a phone value from any source. It is
// idempotent: NormalizePhone(NormalizePhone(x)) == NormalizePhone(x).
func NormalizePhone(raw string) string {
	return ExtractPhone(raw)
}

var canonicalPhoneRe = regexp.MustCompile(`^\+94\d{9}$`)

// IsCanonicalPhone reports whether s is exactly +94 followed by nine digits.
func IsCanonicalPhone(s string) bool {
	return canonicalPhoneRe.MatchString(s)
}
