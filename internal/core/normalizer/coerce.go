package normalizer

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"listing-service/internal/core/domain"
)

// firstUsable unwraps arrays to their first element that is not itself empty.
// Objects carry no usable scalar and count as absent.
func firstUsable(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return nil, false
	case []any:
		for _, item := range t {
			if u, ok := firstUsable(item); ok {
				return u, true
			}
		}
		return nil, false
	case []string:
		for _, item := range t {
			if !domain.IsBlank(item) {
				return item, true
			}
		}
		return nil, false
	case string:
		if domain.IsBlank(t) {
			return nil, false
		}
	}
	return v, true
}

// getString coerces strings and numbers to a trimmed string. Booleans are not
// treated as text.
func getString(v any) string {
	u, ok := firstUsable(v)
	if !ok {
		return ""
	}
	if _, isBool := u.(bool); isBool {
		return ""
	}
	s, _ := domain.ScalarString(u)
	return strings.TrimSpace(s)
}

// firstString returns the first non-empty string under keys.
func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if s := getString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

var (
	currencyPrefixRe = regexp.MustCompile(`(?i)^\s*(?:rs|lkr)\b\.?`)
	scaledAmountRe   = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(million|mn|m|lakhs?|lacs?|k)\b`)
	nonNumericRe     = regexp.MustCompile(`[^0-9.]`)
	nonDigitRe       = regexp.MustCompile(`\D`)
)

var suffixScale = map[string]float64{
	"k":       1e3,
	"lakh":    1e5,
	"lakhs":   1e5,
	"lac":     1e5,
	"lacs":    1e5,
	"m":       1e6,
	"mn":      1e6,
	"million": 1e6,
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParsePrice turns a price value of any shape into a plain number.
// "12.5k" is 12500, "1.5 lakh" 150000, "2 mn" 2000000 and "Rs 45,000" 45000.
// Negative, non-finite and unparseable values give nil.
func ParsePrice(v any) *float64 {
	u, ok := firstUsable(v)
	if !ok {
		return nil
	}

	var f float64
	switch t := u.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, ok := parsePriceString(t)
		if !ok {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if !finite(f) || f < 0 {
		return nil
	}
	return &f
}

func parsePriceString(s string) (float64, bool) {
	s = currencyPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")

	if m := scaledAmountRe.FindStringSubmatch(s); m != nil {
		base, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return base * suffixScale[strings.ToLower(m[2])], true
		}
	}

	digits := strings.Trim(nonNumericRe.ReplaceAllString(s, ""), ".")
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseYear coerces a year given as a number or as text ("2015", "2015 model")
// to an integer within the manufacture year range.
func ParseYear(v any) *int {
	u, ok := firstUsable(v)
	if !ok {
		return nil
	}

	var y int
	switch t := u.(type) {
	case float64:
		if !finite(t) {
			return nil
		}
		y = int(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil || !finite(f) {
			return nil
		}
		y = int(f)
	case int:
		y = t
	case int64:
		y = int(t)
	case string:
		digits := nonDigitRe.ReplaceAllString(t, "")
		if digits == "" || len(digits) > 4 {
			return nil
		}
		parsed, err := strconv.Atoi(digits)
		if err != nil {
			return nil
		}
		y = parsed
	default:
		return nil
	}

	if !domain.ValidManufactureYear(y) {
		return nil
	}
	return &y
}

// remainingParams copies every key that no synonym list consumed.
func remainingParams(raw map[string]any) map[string]any {
	var out map[string]any
	for k, v := range raw {
		if _, used := consumedKeys[k]; used || v == nil || domain.IsCanonicalField(k) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}
